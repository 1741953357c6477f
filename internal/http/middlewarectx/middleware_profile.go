// Package middlewarectx содержит HTTP middleware: разрешение профиля вызывающего
// по JWT токену и лимит запросов.
//
// ProfileMiddleware проверяет токен из заголовка Authorization, находит профиль
// и кладёт его идентификационные данные в контекст запроса. Баланс в контекст
// не попадает: он всегда перечитывается внутри транзакций хранилища.
package middlewarectx

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/marketplace-ledger/internal/http/response"
	"github.com/magabrotheeeer/marketplace-ledger/internal/lib/jwt"
	"github.com/magabrotheeeer/marketplace-ledger/internal/lib/sl"
	"github.com/magabrotheeeer/marketplace-ledger/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// Profile — ключ для идентичности вызывающего в контексте.
const Profile Key = "profile"

// TokenParser описывает интерфейс разбора токена профиля.
type TokenParser interface {
	ParseToken(tokenStr string) (*jwt.ProfileClaims, error)
}

// ProfileProvider загружает профиль из хранилища.
type ProfileProvider interface {
	GetProfile(ctx context.Context, id int64) (*models.Profile, error)
}

// IdentityCache кеширует идентичность профиля между запросами.
type IdentityCache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}

// ProfileMiddleware возвращает HTTP middleware, который проверяет JWT в заголовке
// Authorization и разрешает идентичность вызывающего.
//
// Идентичность (id, роль, профессия) берётся из кеша, при промахе — из хранилища.
// cache может быть nil, тогда каждый запрос обращается к хранилищу.
func ProfileMiddleware(parser TokenParser, provider ProfileProvider, cache IdentityCache,
	cacheTTL time.Duration, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.ProfileMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Error("missing or invalid authorization header")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("missing or invalid authorization header"))
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			claims, err := parser.ParseToken(tokenStr)
			if err != nil {
				log.Error("invalid or expired token", sl.Err(err))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid or expired token"))
				return
			}

			identity, err := resolveIdentity(r.Context(), claims.ProfileID, provider, cache, cacheTTL, log)
			if err != nil {
				log.Error("failed to resolve profile", slog.Int64("profile_id", claims.ProfileID), sl.Err(err))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("unknown profile"))
				return
			}

			ctx := context.WithValue(r.Context(), Profile, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func resolveIdentity(ctx context.Context, profileID int64, provider ProfileProvider,
	cache IdentityCache, cacheTTL time.Duration, log *slog.Logger) (*models.Identity, error) {
	cacheKey := fmt.Sprintf("identity:%d", profileID)

	if cache != nil {
		var cached models.Identity
		found, err := cache.Get(ctx, cacheKey, &cached)
		if err != nil {
			log.Warn("identity cache read failed", sl.Err(err))
		}
		if found {
			return &cached, nil
		}
	}

	profile, err := provider.GetProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}
	identity := profile.Identity()

	if cache != nil {
		if err := cache.Set(ctx, cacheKey, identity, cacheTTL); err != nil {
			log.Warn("identity cache write failed", sl.Err(err))
		}
	}
	return identity, nil
}

// IdentityFromContext извлекает идентичность вызывающего из контекста запроса.
func IdentityFromContext(ctx context.Context) (*models.Identity, bool) {
	identity, ok := ctx.Value(Profile).(*models.Identity)
	return identity, ok
}
