// Package unpaid реализует HTTP-обработчик списка неоплаченных работ
// по активным контрактам вызывающего.
package unpaid

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/marketplace-ledger/internal/http/middlewarectx"
	"github.com/magabrotheeeer/marketplace-ledger/internal/http/response"
	"github.com/magabrotheeeer/marketplace-ledger/internal/lib/sl"
	"github.com/magabrotheeeer/marketplace-ledger/internal/models"
)

// Service описывает интерфейс витрины чтения работ.
type Service interface {
	ListUnpaidJobs(ctx context.Context, profileID int64) ([]*models.Job, error)
}

// Handler обрабатывает запросы списка неоплаченных работ.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Неоплаченные работы вызывающего
// @Tags Jobs
// @Produce json
// @Success 200 {object} response.Response "Неоплаченные работы по активным контрактам"
// @Security BearerAuth
// @Router /jobs/unpaid [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.job.unpaid"

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

	jobs, err := h.service.ListUnpaidJobs(r.Context(), identity.ID)
	if err != nil {
		log.Error("failed to list unpaid jobs", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list unpaid jobs"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"jobs": jobs,
	}))
}
