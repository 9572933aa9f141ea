package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/magabrotheeeer/chefhub/internal/lib/sl"
	"github.com/magabrotheeeer/chefhub/internal/models"
	"github.com/magabrotheeeer/chefhub/internal/storage/repository"
	"github.com/magabrotheeeer/chefhub/internal/wompi"
)

// ErrIgnoredEvent возвращается, когда событие не является подтвержденным
// завершением оплаты. Такие уведомления подтверждаются без изменений.
var ErrIgnoredEvent = errors.New("event not processed")

// ProcessWebhook сверяет уведомление шлюза с ожидающей транзакцией
// и переводит транзакцию и её подписку в терминальное состояние.
//
// Возвращает ID активированной подписки. Повторная доставка уже
// обработанного уведомления завершается ErrTransactionNotFound и ничего
// не изменяет. Уведомления о неподтвержденных или посторонних событиях
// возвращают ErrIgnoredEvent.
func (s *PaymentService) ProcessWebhook(ctx context.Context, payload *wompi.WebhookPayload) (int, error) {
	const op = "services.payment.ProcessWebhook"

	if payload.Evento != wompi.EventPaymentCompleted || payload.Datos.Estado != wompi.StatusApproved {
		s.log.Info("ignored webhook event",
			slog.String("evento", payload.Evento),
			slog.String("estado", payload.Datos.Estado))
		return 0, ErrIgnoredEvent
	}

	linkID := payload.Datos.IdentificadorEnlaceComercio

	tr, err := s.repo.FindPendingTransactionByLinkID(ctx, linkID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, ErrTransactionNotFound
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	tierID, err := strconv.Atoi(payload.Datos.DatosAdicionales.TierID)
	if err != nil {
		return 0, ErrTierNotFound
	}
	tier, err := s.repo.GetActiveTier(ctx, tierID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, ErrTierNotFound
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if tr.SubscriptionID == nil {
		s.markFailed(ctx, linkID, "transaction has no linked subscription")
		return 0, fmt.Errorf("%s: transaction %s has no linked subscription", op, linkID)
	}

	if err := s.repo.ApproveTransaction(ctx, *tr.SubscriptionID, linkID, payload.Datos.Referencia); err != nil {
		s.markFailed(ctx, linkID, "database error during subscription activation")
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if s.cache != nil {
		cacheKey := "subscription:current:" + tr.UserUID
		if err := s.cache.Invalidate(cacheKey); err != nil {
			s.log.Warn("failed to invalidate subscription cache",
				slog.String("key", cacheKey), sl.Err(err))
		}
	}

	s.log.Info("subscription activated",
		slog.Int("subscription_id", *tr.SubscriptionID),
		slog.String("link_id", linkID),
		slog.String("reference", payload.Datos.Referencia))

	s.notifyActivation(ctx, tr.UserUID, tier, *tr.SubscriptionID)

	return *tr.SubscriptionID, nil
}

// markFailed записывает терминальный статус неудачи на транзакцию,
// оставляя подписку нетронутой. Ошибка записи только логируется —
// исходная причина отказа важнее.
func (s *PaymentService) markFailed(ctx context.Context, linkID, reason string) {
	if err := s.repo.MarkTransactionFailed(ctx, linkID, models.TransactionStatusFailed, reason); err != nil {
		s.log.Error("failed to mark transaction as failed",
			slog.String("link_id", linkID), sl.Err(err))
	}
}

// notifyActivation публикует событие активации для сервиса рассылки.
// Публикация выполняется после фиксации транзакции и не влияет на её исход.
func (s *PaymentService) notifyActivation(ctx context.Context, userUID string, tier *models.Tier, subscriptionID int) {
	if s.publisher == nil {
		return
	}

	user, err := s.repo.GetUser(ctx, userUID)
	if err != nil {
		s.log.Warn("failed to load user for activation notice", sl.Err(err))
		return
	}

	notice := models.ActivationNotice{
		Email:    user.Email,
		Username: user.Username,
		TierName: tier.Name,
	}
	if sub, err := s.repo.GetSubscription(ctx, subscriptionID); err == nil {
		notice.EndDate = sub.EndDate
	}
	if err := s.publisher.PublishActivation(notice); err != nil {
		s.log.Warn("failed to publish activation notice",
			slog.Int("subscription_id", subscriptionID), sl.Err(err))
	}
}
