package models

import "time"

// Статусы подписки. Подписка создается в статусе pending до подтверждения
// оплаты, переводится в active вебхуком и никогда не удаляется.
const (
	SubscriptionStatusPending = "pending"
	SubscriptionStatusActive  = "active"
	SubscriptionStatusExpired = "expired"
)

// Subscription представляет окно действия подписки пользователя на тариф.
type Subscription struct {
	ID        int       `json:"id"`
	UserUID   string    `json:"user_uid"`
	TierID    int       `json:"tier_id"`
	Status    string    `json:"status"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	AutoRenew bool      `json:"auto_renew"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DummyCreateLink используется для приёма запроса на создание платежной
// ссылки из JSON-тела, прежде чем передать его в бизнес-логику.
type DummyCreateLink struct {
	TierID int `json:"tier_id" validate:"required,gt=0"` // Идентификатор тарифа
}

// PaymentLink результат создания платежной ссылки в шлюзе.
type PaymentLink struct {
	PaymentURL     string    `json:"payment_url"`
	LinkIdentifier string    `json:"link_identifier"`
	ExpiresAt      time.Time `json:"expires_at"`
}
