// Package ledger собирает приложение маркетплейса: хранилище, кеш, брокер,
// сервисы и HTTP-сервер с graceful shutdown.
package ledger

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/marketplace-ledger/internal/cache"
	"github.com/magabrotheeeer/marketplace-ledger/internal/config"
	"github.com/magabrotheeeer/marketplace-ledger/internal/lib/jwt"
	"github.com/magabrotheeeer/marketplace-ledger/internal/migrations"
	"github.com/magabrotheeeer/marketplace-ledger/internal/rabbitmq"
	analyticsservice "github.com/magabrotheeeer/marketplace-ledger/internal/services/analytics"
	contractservice "github.com/magabrotheeeer/marketplace-ledger/internal/services/contract"
	depositservice "github.com/magabrotheeeer/marketplace-ledger/internal/services/deposit"
	paymentservice "github.com/magabrotheeeer/marketplace-ledger/internal/services/payment"
	"github.com/magabrotheeeer/marketplace-ledger/internal/storage/repository"
)

// App инкапсулирует HTTP-сервер и внешние подключения приложения.
type App struct {
	server     *http.Server
	logger     *slog.Logger
	db         *repository.Storage
	amqpConn   *amqp.Connection
	amqpChan   *amqp.Channel
	redisCache *cache.Cache
}

// New создаёт приложение: подключает PostgreSQL, прогоняет миграции,
// подключает Redis и RabbitMQ, собирает сервисы и маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	redisCache, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	amqpConn, err := rabbitmq.Connect(cfg.AddressRabbit, cfg.Retries, cfg.RetryDelay)
	if err != nil {
		return nil, err
	}
	amqpChan, err := rabbitmq.SetupChannel(amqpConn)
	if err != nil {
		return nil, err
	}
	publisher := rabbitmq.NewPublisher(amqpChan)

	jwtMaker := jwt.NewMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	paymentSvc := paymentservice.New(db, publisher, logger)
	depositSvc := depositservice.New(db, logger)
	analyticsSvc := analyticsservice.New(db, logger)
	contractSvc := contractservice.New(db, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg, Deps{
		Storage:   db,
		Cache:     redisCache,
		JWTMaker:  jwtMaker,
		Payment:   paymentSvc,
		Deposit:   depositSvc,
		Analytics: analyticsSvc,
		Contract:  contractSvc,
	})

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:     srv,
		logger:     logger,
		db:         db,
		amqpConn:   amqpConn,
		amqpChan:   amqpChan,
		redisCache: redisCache,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его по отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		_ = a.amqpChan.Close()
		_ = a.amqpConn.Close()
		_ = a.redisCache.Db.Close()
		_ = a.db.DB.Close()
		return err
	}
}
