// Package chefhub собирает зависимости и запускает HTTP-сервер приложения.
package chefhub

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/chefhub/internal/cache"
	"github.com/magabrotheeeer/chefhub/internal/config"
	"github.com/magabrotheeeer/chefhub/internal/lib/jwt"
	"github.com/magabrotheeeer/chefhub/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/chefhub/internal/migrations"
	authservice "github.com/magabrotheeeer/chefhub/internal/services/auth"
	paymentservice "github.com/magabrotheeeer/chefhub/internal/services/payment"
	subservice "github.com/magabrotheeeer/chefhub/internal/services/subscription"
	"github.com/magabrotheeeer/chefhub/internal/storage/repository"
	"github.com/magabrotheeeer/chefhub/internal/wompi"
)

// App хранит собранный HTTP-сервер и ресурсы, требующие закрытия.
type App struct {
	server     *http.Server
	logger     *slog.Logger
	db         *repository.Storage
	rabbitConn *amqp.Connection
	rabbitCh   *amqp.Channel
}

// New подключает хранилище, кеш и брокер, собирает сервисы и маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	rabbitConn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}
	rabbitCh, err := rabbitmq.SetupChannel(rabbitConn, rabbitmq.GetPaymentQueues())
	if err != nil {
		return nil, err
	}
	publisher := rabbitmq.NewActivationPublisher(rabbitCh)

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	gateway := wompi.NewClient(cfg.WompiAppID, cfg.WompiAPISecret, cfg.WompiAuthURL, cfg.WompiPaymentLinkURL)

	authService := authservice.New(db, jwtMaker, logger)
	subscriptionService := subservice.NewSubscriptionService(db, cacheRedis, logger)
	paymentService := paymentservice.New(db, gateway, publisher, cacheRedis, logger,
		cfg.WompiAppID, cfg.BaseURL)

	router := NewRouter(logger, jwtMaker, authService, subscriptionService, paymentService)

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
		rabbitConn: rabbitConn,
		rabbitCh:   rabbitCh,
	}, nil
}

// Run запускает сервер и корректно останавливает его при отмене контекста.
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
		_ = a.rabbitCh.Close()
		_ = a.rabbitConn.Close()
		_ = a.db.DB.Close()
		return err
	}
}
