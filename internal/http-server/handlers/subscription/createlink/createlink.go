// Package createlink обрабатывает создание платежной ссылки на подписку.
package createlink

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/chefhub/internal/http-server/middlewarectx"
	"github.com/magabrotheeeer/chefhub/internal/http-server/response"
	"github.com/magabrotheeeer/chefhub/internal/lib/sl"
	"github.com/magabrotheeeer/chefhub/internal/models"
	"github.com/magabrotheeeer/chefhub/internal/services/payment"
)

// Service определяет интерфейс сервиса инициации платежа.
type Service interface {
	CreatePaymentLink(ctx context.Context, userUID string, tierID int) (*models.PaymentLink, error)
}

// Handler обрабатывает запросы на создание платежной ссылки.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Создать платежную ссылку
// @Description Создает ссылку на оплату выбранного тарифа через платежный шлюз
// @Tags Subscriptions
// @Security BearerAuth
// @Accept  json
// @Produce  json
// @Param request body models.DummyCreateLink true "Идентификатор тарифа"
// @Success 201 {object} response.Response "Платежная ссылка создана"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Тариф не найден"
// @Failure 409 {object} response.ErrorResponse "Подписка уже активна"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка платежного шлюза"
// @Router /subscriptions/link [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.createlink"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("missing user uid in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	var req models.DummyCreateLink
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	link, err := h.service.CreatePaymentLink(r.Context(), userUID, req.TierID)
	if err != nil {
		switch {
		case errors.Is(err, payment.ErrTierNotFound):
			log.Info("tier not found", slog.Int("tier_id", req.TierID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("tier not found"))
		case errors.Is(err, payment.ErrAlreadySubscribed):
			log.Info("user already has active subscription",
				slog.String("user_uid", userUID))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("subscription already active"))
		case errors.Is(err, payment.ErrGateway):
			log.Error("payment gateway error", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("payment gateway unavailable"))
		default:
			log.Error("failed to create payment link", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("internal error"))
		}
		return
	}

	log.Info("payment link created",
		slog.String("user_uid", userUID),
		slog.String("link_identifier", link.LinkIdentifier))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"payment_url":     link.PaymentURL,
		"link_identifier": link.LinkIdentifier,
		"expires_at":      link.ExpiresAt,
	}))
}
