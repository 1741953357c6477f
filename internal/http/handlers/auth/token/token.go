// Package token реализует HTTP-обработчик обмена идентификатора профиля на JWT.
//
// Модель доверия та же, что у клиентского заголовка с идентификатором профиля
// в исходной системе: идентичность принимается на слово один раз, при выпуске
// токена, дальше запросы несут подписанный токен.
package token

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/marketplace-ledger/internal/http/response"
	"github.com/magabrotheeeer/marketplace-ledger/internal/lib/sl"
	"github.com/magabrotheeeer/marketplace-ledger/internal/models"
)

// Request — тело запроса на выпуск токена.
type Request struct {
	ProfileID int64 `json:"profile_id" validate:"required,gt=0"` // Идентификатор профиля
}

// ProfileProvider загружает профиль из хранилища.
type ProfileProvider interface {
	GetProfile(ctx context.Context, id int64) (*models.Profile, error)
}

// TokenMaker выпускает JWT для профиля.
type TokenMaker interface {
	GenerateToken(profileID int64, role string) (string, error)
}

// Handler обрабатывает запросы на выпуск токена.
type Handler struct {
	log      *slog.Logger
	provider ProfileProvider
	maker    TokenMaker
	validate *validator.Validate
}

// New создает новый Handler.
func New(log *slog.Logger, provider ProfileProvider, maker TokenMaker) *Handler {
	return &Handler{
		log:      log,
		provider: provider,
		maker:    maker,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Выпустить токен профиля
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body Request true "Идентификатор профиля"
// @Success 200 {object} response.Response "JWT токен"
// @Failure 404 {object} response.ErrorResponse "Профиль не найден"
// @Router /token [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.token"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		var validateErrs validator.ValidationErrors
		if errors.As(err, &validateErrs) {
			log.Error("invalid token request", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(validateErrs))
			return
		}
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request"))
		return
	}

	profile, err := h.provider.GetProfile(r.Context(), req.ProfileID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("profile not found"))
			return
		}
		log.Error("failed to read profile", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not issue token"))
		return
	}

	tokenStr, err := h.maker.GenerateToken(profile.ID, profile.Role)
	if err != nil {
		log.Error("failed to generate token", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not issue token"))
		return
	}

	log.Info("token issued", slog.Int64("profile_id", profile.ID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"token": tokenStr,
	}))
}
