package chefhub

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/chefhub/internal/http-server/handlers/auth/login"
	"github.com/magabrotheeeer/chefhub/internal/http-server/handlers/auth/register"
	paymentlist "github.com/magabrotheeeer/chefhub/internal/http-server/handlers/payment/list"
	"github.com/magabrotheeeer/chefhub/internal/http-server/handlers/payment/webhook"
	"github.com/magabrotheeeer/chefhub/internal/http-server/handlers/subscription/createlink"
	"github.com/magabrotheeeer/chefhub/internal/http-server/handlers/subscription/read"
	tierlist "github.com/magabrotheeeer/chefhub/internal/http-server/handlers/tier/list"
	"github.com/magabrotheeeer/chefhub/internal/http-server/middlewarectx"
	"github.com/magabrotheeeer/chefhub/internal/lib/jwt"
	authservice "github.com/magabrotheeeer/chefhub/internal/services/auth"
	paymentservice "github.com/magabrotheeeer/chefhub/internal/services/payment"
	subservice "github.com/magabrotheeeer/chefhub/internal/services/subscription"
)

// NewRouter регистрирует все маршруты приложения.
func NewRouter(logger *slog.Logger, jwtMaker jwt.Maker,
	authService *authservice.AuthService,
	subscriptionService *subservice.SubscriptionService,
	paymentService *paymentservice.PaymentService) chi.Router {
	r := chi.NewRouter()

	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, authService).ServeHTTP)
		r.Post("/login", login.New(logger, authService).ServeHTTP)
		r.Get("/tiers", tierlist.New(logger, subscriptionService).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(jwtMaker, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Post("/subscriptions/link", createlink.New(logger, paymentService).ServeHTTP)
			r.Get("/subscriptions/current", read.New(logger, subscriptionService).ServeHTTP)
			r.Get("/payments/list", paymentlist.New(logger, subscriptionService).ServeHTTP)
		})

		// Webhook endpoint (без аутентификации)
		r.Post("/payments/webhook", webhook.New(logger, paymentService).ServeHTTP)
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)

	return r
}
