// Package read реализует HTTP-обработчик получения контракта по ID.
// Контракт возвращается только его клиенту или исполнителю; чужой контракт
// неотличим от отсутствующего.
package read

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

// Service описывает интерфейс витрины чтения контрактов.
type Service interface {
	GetContract(ctx context.Context, id, profileID int64) (*models.Contract, error)
}

// Handler обрабатывает запросы на получение контракта по ID.
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
// @Summary Получить контракт
// @Tags Contracts
// @Produce json
// @Param id path int true "ID контракта"
// @Success 200 {object} response.Response "Контракт"
// @Failure 404 {object} response.ErrorResponse "Контракт не найден или чужой"
// @Security BearerAuth
// @Router /contracts/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.contract.read"

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

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid contract id"))
		return
	}

	contract, err := h.service.GetContract(r.Context(), id, identity.ID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("contract not found"))
			return
		}
		log.Error("failed to read contract", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read contract"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"contract": contract,
	}))
}
