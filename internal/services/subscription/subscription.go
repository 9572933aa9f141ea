// Package subscription содержит бизнес-логику чтения каталога тарифов,
// текущей подписки пользователя и истории его платежей, включая кеширование.
package subscription

import (
	"context"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/chefhub/internal/lib/sl"
	"github.com/magabrotheeeer/chefhub/internal/models"
)

// Repository определяет методы хранилища для операций чтения.
type Repository interface {
	// ListActiveTiers возвращает активные тарифы каталога.
	ListActiveTiers(ctx context.Context) ([]*models.Tier, error)
	// GetLatestSubscription возвращает последнюю подписку пользователя.
	GetLatestSubscription(ctx context.Context, userUID string) (*models.Subscription, error)
	// ListTransactionsByUser возвращает платежи пользователя с пагинацией.
	ListTransactionsByUser(ctx context.Context, userUID string, limit, offset int) ([]*models.PaymentTransaction, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// Время жизни кешируемых значений. Каталог тарифов меняется только
// миграциями, подписка — вебхуком, который инвалидирует свой ключ.
const (
	tiersCacheTTL        = time.Hour
	subscriptionCacheTTL = 5 * time.Minute
)

const tiersCacheKey = "tiers:active"

// SubscriptionService реализует операции чтения с кешированием.
type SubscriptionService struct {
	repo  Repository
	cache Cache
	log   *slog.Logger
}

// NewSubscriptionService создает новый экземпляр SubscriptionService.
func NewSubscriptionService(repo Repository, cache Cache, log *slog.Logger) *SubscriptionService {
	return &SubscriptionService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// ListTiers возвращает активные тарифы каталога, используя кеш или хранилище.
func (s *SubscriptionService) ListTiers(ctx context.Context) ([]*models.Tier, error) {
	var result []*models.Tier
	found, err := s.cache.Get(tiersCacheKey, &result)
	if err != nil {
		s.log.Warn("failed to read tiers from cache", sl.Err(err))
	}
	if found {
		return result, nil
	}

	result, err = s.repo.ListActiveTiers(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(tiersCacheKey, result, tiersCacheTTL); err != nil {
		s.log.Warn("failed to cache tiers", sl.Err(err))
	}
	return result, nil
}

// GetCurrentSubscription возвращает последнюю подписку пользователя,
// используя кеш или хранилище.
func (s *SubscriptionService) GetCurrentSubscription(ctx context.Context, userUID string) (*models.Subscription, error) {
	cacheKey := "subscription:current:" + userUID

	var result *models.Subscription
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		s.log.Warn("failed to read subscription from cache",
			slog.String("key", cacheKey), sl.Err(err))
	}
	if found {
		return result, nil
	}

	result, err = s.repo.GetLatestSubscription(ctx, userUID)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(cacheKey, result, subscriptionCacheTTL); err != nil {
		s.log.Warn("failed to cache subscription",
			slog.String("key", cacheKey), sl.Err(err))
	}
	return result, nil
}

// ListPayments возвращает платежные транзакции пользователя с пагинацией.
func (s *SubscriptionService) ListPayments(ctx context.Context, userUID string, limit, offset int) ([]*models.PaymentTransaction, error) {
	return s.repo.ListTransactionsByUser(ctx, userUID, limit, offset)
}
