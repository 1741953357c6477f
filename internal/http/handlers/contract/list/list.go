// Package list реализует HTTP-обработчик списка незавершённых контрактов
// вызывающего. Пустой список — нормальный ответ 200, не 404.
package list

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

// Service описывает интерфейс витрины чтения контрактов.
type Service interface {
	ListContracts(ctx context.Context, profileID int64) ([]*models.Contract, error)
}

// Handler обрабатывает запросы списка контрактов.
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
// @Summary Список контрактов вызывающего
// @Tags Contracts
// @Produce json
// @Success 200 {object} response.Response "Незавершённые контракты"
// @Security BearerAuth
// @Router /contracts [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.contract.list"

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

	contracts, err := h.service.ListContracts(r.Context(), identity.ID)
	if err != nil {
		log.Error("failed to list contracts", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list contracts"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"contracts": contracts,
	}))
}
