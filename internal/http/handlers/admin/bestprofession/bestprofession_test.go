package bestprofession

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/marketplace-ledger/internal/models"
)

// MockService реализует интерфейс bestprofession.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) BestProfession(ctx context.Context, start, end time.Time) (*models.ProfessionEarnings, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProfessionEarnings), args.Error(1)
}

func TestBestProfessionHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		query          string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:  "лучшая профессия за окно",
			query: "?start=2024-01-01&end=2024-12-31",
			setupMock: func(m *MockService) {
				m.On("BestProfession", mock.Anything,
					time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
					time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)).
					Return(&models.ProfessionEarnings{Profession: "programmer", Earnings: 250000}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"Ok","data":{"profession":"programmer","earnings":"2500.00"}}`,
		},
		{
			name:  "нет данных в окне",
			query: "",
			setupMock: func(m *MockService) {
				m.On("BestProfession", mock.Anything, mock.Anything, mock.Anything).
					Return(nil, models.ErrNoData)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","message":"no data"}`,
		},
		{
			name:           "некорректная граница окна",
			query:          "?start=not-a-date",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","message":"invalid start param"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(MockService)
			tt.setupMock(mockSvc)

			handler := New(logger, mockSvc)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/best-profession"+tt.query, nil)
			ctx := context.WithValue(req.Context(), middleware.RequestIDKey, "req-id")
			req = req.WithContext(ctx)

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
			mockSvc.AssertExpectations(t)
		})
	}
}
