// Package ledger предоставляет маршруты для основного приложения.
package ledger

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/marketplace-ledger/internal/cache"
	"github.com/magabrotheeeer/marketplace-ledger/internal/config"
	"github.com/magabrotheeeer/marketplace-ledger/internal/http/handlers/admin/bestprofession"
	"github.com/magabrotheeeer/marketplace-ledger/internal/http/handlers/auth/token"
	"github.com/magabrotheeeer/marketplace-ledger/internal/http/handlers/balance/deposit"
	contractlist "github.com/magabrotheeeer/marketplace-ledger/internal/http/handlers/contract/list"
	contractread "github.com/magabrotheeeer/marketplace-ledger/internal/http/handlers/contract/read"
	jobpay "github.com/magabrotheeeer/marketplace-ledger/internal/http/handlers/job/pay"
	jobunpaid "github.com/magabrotheeeer/marketplace-ledger/internal/http/handlers/job/unpaid"
	"github.com/magabrotheeeer/marketplace-ledger/internal/http/middlewarectx"
	"github.com/magabrotheeeer/marketplace-ledger/internal/lib/jwt"
	analyticsservice "github.com/magabrotheeeer/marketplace-ledger/internal/services/analytics"
	contractservice "github.com/magabrotheeeer/marketplace-ledger/internal/services/contract"
	depositservice "github.com/magabrotheeeer/marketplace-ledger/internal/services/deposit"
	paymentservice "github.com/magabrotheeeer/marketplace-ledger/internal/services/payment"
	"github.com/magabrotheeeer/marketplace-ledger/internal/storage/repository"
)

// Deps — зависимости HTTP-слоя.
type Deps struct {
	Storage   *repository.Storage
	Cache     *cache.Cache
	JWTMaker  *jwt.MakerImpl
	Payment   *paymentservice.Service
	Deposit   *depositservice.Service
	Analytics *analyticsservice.Service
	Contract  *contractservice.Service
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config, deps Deps) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	limiter := rate.NewLimiter(rate.Limit(cfg.RPS), cfg.Burst)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытая конечная точка: обмен идентификатора профиля на JWT
		r.Post("/token", token.New(logger, deps.Storage, deps.JWTMaker).ServeHTTP)

		// Группа с разрешением профиля по токену
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.ProfileMiddleware(deps.JWTMaker, deps.Storage, deps.Cache,
				cfg.IdentityTTL, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger, limiter))
			r.Get("/contracts/{id}", contractread.New(logger, deps.Contract).ServeHTTP)
			r.Get("/contracts", contractlist.New(logger, deps.Contract).ServeHTTP)
			r.Get("/jobs/unpaid", jobunpaid.New(logger, deps.Contract).ServeHTTP)
			r.Post("/jobs/{id}/pay", jobpay.New(logger, deps.Payment).ServeHTTP)
			r.Post("/balances/deposit/{client_id}/{amount}", deposit.New(logger, deps.Deposit).ServeHTTP)
			r.Get("/admin/best-profession", bestprofession.New(logger, deps.Analytics).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
