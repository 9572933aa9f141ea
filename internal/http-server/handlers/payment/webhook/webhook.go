// Package webhook обрабатывает уведомления платежного шлюза Wompi.
package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/chefhub/internal/http-server/response"
	"github.com/magabrotheeeer/chefhub/internal/lib/sl"
	"github.com/magabrotheeeer/chefhub/internal/services/payment"
	"github.com/magabrotheeeer/chefhub/internal/wompi"
)

// Service определяет интерфейс сервиса сверки платежей.
type Service interface {
	ProcessWebhook(ctx context.Context, payload *wompi.WebhookPayload) (int, error)
}

// Handler обрабатывает входящие уведомления шлюза.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Вебхук платежного шлюза
// @Description Принимает уведомление Wompi о завершении оплаты и активирует подписку
// @Tags Payments
// @Accept  json
// @Produce  json
// @Param request body wompi.WebhookPayload true "Уведомление шлюза"
// @Success 200 {object} response.Response "Уведомление обработано"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 404 {object} response.ErrorResponse "Транзакция или тариф не найдены"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /payments/webhook [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.webhook"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var payload wompi.WebhookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		log.Error("failed to decode webhook payload", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	subscriptionID, err := h.service.ProcessWebhook(r.Context(), &payload)
	if err != nil {
		switch {
		case errors.Is(err, payment.ErrIgnoredEvent):
			// Посторонние события подтверждаются, чтобы шлюз не повторял доставку.
			render.JSON(w, r, response.Response{Status: response.StatusOK})
		case errors.Is(err, payment.ErrTransactionNotFound):
			log.Info("no pending transaction for webhook",
				slog.String("link_id", payload.Datos.IdentificadorEnlaceComercio))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("transaction not found"))
		case errors.Is(err, payment.ErrTierNotFound):
			log.Error("webhook references unknown tier",
				slog.String("link_id", payload.Datos.IdentificadorEnlaceComercio))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("tier not found"))
		default:
			log.Error("failed to process webhook", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("internal error"))
		}
		return
	}

	log.Info("webhook processed", slog.Int("subscription_id", subscriptionID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"subscription_id": subscriptionID,
	}))
}
