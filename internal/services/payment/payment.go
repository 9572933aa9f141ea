// Package payment содержит бизнес-логику платежного цикла подписки:
// создание платежной ссылки в шлюзе и сверку асинхронного вебхука
// с ранее записанным ожидающим состоянием.
package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/chefhub/internal/lib/sl"
	"github.com/magabrotheeeer/chefhub/internal/models"
	"github.com/magabrotheeeer/chefhub/internal/storage/repository"
	"github.com/magabrotheeeer/chefhub/internal/wompi"
)

// linkValidity окно действия платежной ссылки. Ограничивает время, в течение
// которого брошенная оплата может быть завершена.
const linkValidity = 30 * time.Minute

// entitlementYears срок действия подписки по умолчанию, отсчитывается
// от подтверждения оплаты.
const entitlementYears = 1

// Repository определяет методы хранилища, используемые платежным циклом.
type Repository interface {
	GetActiveTier(ctx context.Context, id int) (*models.Tier, error)
	HasActiveSubscription(ctx context.Context, userUID string) (bool, error)
	CreateSubscription(ctx context.Context, sub models.Subscription) (int, error)
	CreateTransaction(ctx context.Context, tr models.PaymentTransaction) (int, error)
	FindPendingTransactionByLinkID(ctx context.Context, linkID string) (*models.PaymentTransaction, error)
	ApproveTransaction(ctx context.Context, subscriptionID int, linkID, reference string) error
	MarkTransactionFailed(ctx context.Context, linkID, status, reason string) error
	GetSubscription(ctx context.Context, id int) (*models.Subscription, error)
	GetUser(ctx context.Context, userUID string) (*models.User, error)
}

// GatewayClient определяет интерфейс клиента платежного шлюза.
type GatewayClient interface {
	CreatePaymentLink(ctx context.Context, reqParams wompi.CreatePaymentLinkRequest) (*wompi.CreatePaymentLinkResponse, error)
}

// Publisher публикует событие активации подписки для сервиса рассылки.
type Publisher interface {
	PublishActivation(notice models.ActivationNotice) error
}

// Cache описывает методы кеша, которые платежный цикл инвалидирует.
type Cache interface {
	Invalidate(key string) error
}

// PaymentService реализует создание платежных ссылок и обработку вебхуков.
type PaymentService struct {
	repo      Repository
	gateway   GatewayClient
	publisher Publisher
	cache     Cache
	log       *slog.Logger
	appID     string
	baseURL   string
}

// New создает новый экземпляр PaymentService.
func New(repo Repository, gateway GatewayClient, publisher Publisher, cache Cache,
	log *slog.Logger, appID, baseURL string) *PaymentService {
	return &PaymentService{
		repo:      repo,
		gateway:   gateway,
		publisher: publisher,
		cache:     cache,
		log:       log,
		appID:     appID,
		baseURL:   baseURL,
	}
}

// CreatePaymentLink проверяет право пользователя на оформление подписки,
// создает платежную ссылку в шлюзе и записывает подписку со статусом pending
// и ожидающую транзакцию. Запись выполняется только после успешного ответа
// шлюза, чтобы его отказ не оставлял осиротевших строк.
//
// Повтор всей операции безопасен: каждая попытка получает новый
// идентификатор ссылки.
func (s *PaymentService) CreatePaymentLink(ctx context.Context, userUID string, tierID int) (*models.PaymentLink, error) {
	const op = "services.payment.CreatePaymentLink"

	tier, err := s.repo.GetActiveTier(ctx, tierID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTierNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	hasActive, err := s.repo.HasActiveSubscription(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if hasActive {
		return nil, ErrAlreadySubscribed
	}

	linkID := fmt.Sprintf("chefhub-%d-%s-%s", tierID, userUID, uuid.NewString())
	now := time.Now()
	expiresAt := now.Add(linkValidity)

	linkReq := wompi.CreatePaymentLinkRequest{
		IDAplicativo:                s.appID,
		IdentificadorEnlaceComercio: linkID,
		Monto:                       tier.PriceUSD,
		NombreProducto:              "Suscripción ChefHub " + tier.Name,
		FormaPago: wompi.FormaPago{
			PermitirTarjetaCreditoDebido: true,
			PermitePagoQuickPay:          true,
		},
		InfoProducto: wompi.InfoProducto{
			DescripcionProducto: tier.Description,
		},
		Configuracion: wompi.Configuracion{
			URLRedirect:                    fmt.Sprintf("%s/checkout/success?subscription=%d", s.baseURL, tierID),
			CantidadPorDefecto:             1,
			DuracionInterfazIntentoMinutos: int(linkValidity.Minutes()),
			URLRetorno:                     fmt.Sprintf("%s/checkout/%d", s.baseURL, tierID),
			URLWebhook:                     s.baseURL + "/api/v1/payments/webhook",
			NotificarTransaccionCliente:    true,
		},
		Vigencia: wompi.Vigencia{
			FechaInicio: now.UTC().Format(time.RFC3339),
			FechaFin:    expiresAt.UTC().Format(time.RFC3339),
		},
		LimitesDeUso: wompi.LimitesDeUso{
			CantidadMaximaPagosExitosos: 1,
			CantidadMaximaPagosFallidos: 3,
		},
		DatosAdicionales: wompi.DatosAdicionales{
			UserID:           userUID,
			TierID:           strconv.Itoa(tierID),
			SubscriptionType: "standard",
		},
	}

	linkResp, err := s.gateway.CreatePaymentLink(ctx, linkReq)
	if err != nil {
		s.log.Error("failed to create payment link in gateway", sl.Err(err))
		return nil, ErrGateway
	}

	subscriptionID, err := s.repo.CreateSubscription(ctx, models.Subscription{
		UserUID:   userUID,
		TierID:    tierID,
		Status:    models.SubscriptionStatusPending,
		StartDate: now,
		EndDate:   now.AddDate(entitlementYears, 0, 0),
		AutoRenew: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	_, err = s.repo.CreateTransaction(ctx, models.PaymentTransaction{
		UserUID:        userUID,
		SubscriptionID: &subscriptionID,
		AmountUSD:      tier.PriceUSD,
		Currency:       "USD",
		Status:         models.TransactionStatusPending,
		PaymentMethod:  models.PaymentMethodLink,
		WompiLinkID:    linkID,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("created payment link",
		slog.String("link_id", linkID),
		slog.Int("subscription_id", subscriptionID),
		slog.Int("tier_id", tierID))

	return &models.PaymentLink{
		PaymentURL:     linkResp.Data.URLPago,
		LinkIdentifier: linkID,
		ExpiresAt:      expiresAt,
	}, nil
}
