// Package bestprofession реализует HTTP-обработчик отчёта о лучшей профессии:
// профессия с наибольшим суммарным заработком по оплаченным работам за период.
package bestprofession

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/marketplace-ledger/internal/http/response"
	"github.com/magabrotheeeer/marketplace-ledger/internal/lib/sl"
	"github.com/magabrotheeeer/marketplace-ledger/internal/models"
)

// Service описывает интерфейс отчётов о заработках.
type Service interface {
	BestProfession(ctx context.Context, start, end time.Time) (*models.ProfessionEarnings, error)
}

// Handler обрабатывает запросы отчёта о лучшей профессии.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис агрегирования заработков
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// parseTimeParam разбирает границу окна: RFC3339 или дата без времени.
// Пустое значение означает отсутствие границы.
func parseTimeParam(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}

// ServeHTTP godoc
// @Summary Лучшая профессия за период
// @Description Возвращает профессию с наибольшим заработком по оплаченным работам
// @Tags Admin
// @Produce json
// @Param start query string false "Начало окна (RFC3339 или 2006-01-02)"
// @Param end query string false "Конец окна (RFC3339 или 2006-01-02)"
// @Success 200 {object} response.Response "Профессия и заработок"
// @Failure 404 {object} response.ErrorResponse "Нет оплаченных работ в окне"
// @Security BearerAuth
// @Router /admin/best-profession [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.bestprofession"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	start, err := parseTimeParam(r.URL.Query().Get("start"))
	if err != nil {
		log.Error("failed to parse start param", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid start param"))
		return
	}
	end, err := parseTimeParam(r.URL.Query().Get("end"))
	if err != nil {
		log.Error("failed to parse end param", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid end param"))
		return
	}

	result, err := h.service.BestProfession(r.Context(), start, end)
	if err != nil {
		if errors.Is(err, models.ErrNoData) {
			log.Info("no paid jobs in window")
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("no data"))
			return
		}
		log.Error("failed to compute best profession", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not compute best profession"))
		return
	}

	log.Info("best profession computed", slog.String("profession", result.Profession))
	render.JSON(w, r, response.StatusOKWithData(result))
}
