// Package deposit реализует HTTP-обработчик пополнения баланса клиента.
//
// Сумма и ID клиента приходят в URL; пополнить можно только собственный счёт
// и не более чем на 25% от суммы своих неоплаченных работ.
package deposit

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/marketplace-ledger/internal/http/middlewarectx"
	"github.com/magabrotheeeer/marketplace-ledger/internal/http/response"
	"github.com/magabrotheeeer/marketplace-ledger/internal/lib/money"
	"github.com/magabrotheeeer/marketplace-ledger/internal/lib/sl"
	"github.com/magabrotheeeer/marketplace-ledger/internal/models"
)

// DepositParams — параметры пополнения, собранные из URL.
type DepositParams struct {
	ClientID int64        `validate:"required,gt=0"` // Счёт, который пополняется
	Amount   money.Amount `validate:"required,gt=0"` // Сумма в минорных единицах
}

// Service описывает интерфейс ограничителя пополнений.
type Service interface {
	Deposit(ctx context.Context, clientID, callerID int64, amount money.Amount) error
}

// Handler обрабатывает запросы на пополнение баланса.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Ограничитель пополнений
	validate *validator.Validate // Валидатор параметров запроса
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Пополнить баланс клиента
// @Description Атомарно увеличивает баланс в пределах депозитного лимита
// @Tags Balances
// @Produce json
// @Param client_id path int true "ID клиента"
// @Param amount path string true "Сумма, например 100.50"
// @Success 200 {object} response.Response "Баланс пополнен"
// @Failure 400 {object} response.ErrorResponse "Чужой счёт, некорректная сумма или превышен лимит"
// @Security BearerAuth
// @Router /balances/deposit/{client_id}/{amount} [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.balance.deposit"

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

	clientID, err := strconv.ParseInt(chi.URLParam(r, "client_id"), 10, 64)
	if err != nil {
		log.Error("failed to decode client id from url", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid client id"))
		return
	}

	amount, err := money.Parse(chi.URLParam(r, "amount"))
	if err != nil {
		log.Error("failed to parse amount from url", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid amount"))
		return
	}

	params := DepositParams{ClientID: clientID, Amount: amount}
	if err := h.validate.Struct(params); err != nil {
		var validateErrs validator.ValidationErrors
		if errors.As(err, &validateErrs) {
			log.Error("invalid deposit params", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(validateErrs))
			return
		}
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid deposit params"))
		return
	}

	err = h.service.Deposit(r.Context(), clientID, identity.ID, amount)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrForbidden):
			log.Info("deposit to foreign account rejected",
				slog.Int64("client_id", clientID), slog.Int64("caller_id", identity.ID))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("deposit allowed only to own account"))
		case errors.Is(err, models.ErrInvalidAmount):
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid amount"))
		case errors.Is(err, models.ErrDepositLimitExceeded):
			log.Info("deposit limit exceeded", slog.Int64("client_id", clientID))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("deposit limit exceeded"))
		case errors.Is(err, models.ErrNotFound):
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("client not found"))
		default:
			log.Error("failed to deposit", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not deposit"))
		}
		return
	}

	log.Info("deposit accepted", slog.Int64("client_id", clientID),
		slog.String("amount", amount.String()))
	render.JSON(w, r, response.OK())
}
