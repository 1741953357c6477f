package deposit

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/marketplace-ledger/internal/http/middlewarectx"
	"github.com/magabrotheeeer/marketplace-ledger/internal/lib/money"
	"github.com/magabrotheeeer/marketplace-ledger/internal/models"
)

// MockService реализует интерфейс deposit.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Deposit(ctx context.Context, clientID, callerID int64, amount money.Amount) error {
	args := m.Called(ctx, clientID, callerID, amount)
	return args.Error(0)
}

func TestDepositHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		clientID       string
		amount         string
		identity       *models.Identity
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:     "успешное пополнение",
			clientID: "1",
			amount:   "100.00",
			identity: &models.Identity{ID: 1, Role: models.RoleClient},
			setupMock: func(m *MockService) {
				m.On("Deposit", mock.Anything, int64(1), int64(1), money.Amount(10000)).
					Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"Ok"}`,
		},
		{
			name:     "чужой счет",
			clientID: "2",
			amount:   "100.00",
			identity: &models.Identity{ID: 1, Role: models.RoleClient},
			setupMock: func(m *MockService) {
				m.On("Deposit", mock.Anything, int64(2), int64(1), money.Amount(10000)).
					Return(models.ErrForbidden)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","message":"deposit allowed only to own account"}`,
		},
		{
			name:     "превышен лимит",
			clientID: "1",
			amount:   "101.00",
			identity: &models.Identity{ID: 1, Role: models.RoleClient},
			setupMock: func(m *MockService) {
				m.On("Deposit", mock.Anything, int64(1), int64(1), money.Amount(10100)).
					Return(models.ErrDepositLimitExceeded)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","message":"deposit limit exceeded"}`,
		},
		{
			name:           "некорректная сумма",
			clientID:       "1",
			amount:         "abc",
			identity:       &models.Identity{ID: 1, Role: models.RoleClient},
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","message":"invalid amount"}`,
		},
		{
			name:           "отрицательная сумма отклоняется валидатором",
			clientID:       "1",
			amount:         "-5.00",
			identity:       &models.Identity{ID: 1, Role: models.RoleClient},
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","message":"field Amount must be greater than 0"}`,
		},
		{
			name:           "нет авторизации",
			clientID:       "1",
			amount:         "100.00",
			identity:       nil,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"status":"Error","message":"unauthorized"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(MockService)
			tt.setupMock(mockSvc)

			handler := New(logger, mockSvc)

			req := httptest.NewRequest(http.MethodPost,
				"/api/v1/balances/deposit/"+tt.clientID+"/"+tt.amount, nil)

			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("client_id", tt.clientID)
			rctx.URLParams.Add("amount", tt.amount)
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			if tt.identity != nil {
				ctx = context.WithValue(ctx, middlewarectx.Profile, tt.identity)
			}
			ctx = context.WithValue(ctx, middleware.RequestIDKey, "req-id")
			req = req.WithContext(ctx)

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
			mockSvc.AssertExpectations(t)
		})
	}
}
