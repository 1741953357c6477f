// Package pay реализует HTTP-обработчик оплаты работы клиентом.
//
// Успех возвращается тогда и только тогда, когда транзакция перевода
// зафиксирована; любой откат отдаёт клиенту ошибку, а не "Ok".
package pay

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/marketplace-ledger/internal/http/middlewarectx"
	"github.com/magabrotheeeer/marketplace-ledger/internal/http/response"
	"github.com/magabrotheeeer/marketplace-ledger/internal/lib/sl"
	"github.com/magabrotheeeer/marketplace-ledger/internal/models"
)

// Service описывает интерфейс движка платежей.
type Service interface {
	PayJob(ctx context.Context, jobID, callerID int64) (*models.PaymentReceipt, error)
}

// Handler обрабатывает запросы на оплату работы.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Движок перевода средств
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Оплатить работу
// @Description Списывает цену работы с баланса клиента и зачисляет исполнителю
// @Tags Jobs
// @Produce json
// @Param id path int true "ID работы"
// @Success 200 {object} response.Response "Платёж проведён"
// @Failure 404 {object} response.ErrorResponse "Работа не найдена, уже оплачена или чужая"
// @Failure 409 {object} response.ErrorResponse "Недостаточно средств или конфликт перевода"
// @Security BearerAuth
// @Router /jobs/{id}/pay [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.job.pay"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	identity, ok := middlewarectx.IdentityFromContext(r.Context())
	if !ok {
		log.Error("no profile in context")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	jobID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Error("failed to decode job id from url", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid job id"))
		return
	}

	_, err = h.service.PayJob(r.Context(), jobID, identity.ID)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotPayable), errors.Is(err, models.ErrNotFound):
			log.Info("job is not payable", slog.Int64("job_id", jobID))
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("job not found or not payable"))
		case errors.Is(err, models.ErrInsufficientFunds):
			log.Info("insufficient funds", slog.Int64("job_id", jobID))
			render.Status(r, http.StatusConflict)
			render.JSON(w, r, response.Error("insufficient funds"))
		case errors.Is(err, models.ErrTransferFailed):
			log.Warn("transfer failed", slog.Int64("job_id", jobID), sl.Err(err))
			render.Status(r, http.StatusConflict)
			render.JSON(w, r, response.Error("transfer failed, safe to retry"))
		default:
			log.Error("failed to pay job", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not pay job"))
		}
		return
	}

	log.Info("job paid", slog.Int64("job_id", jobID), slog.Int64("client_id", identity.ID))
	render.JSON(w, r, response.OK())
}
