package models

import "time"

// Статусы платежной транзакции. Транзакция создается в статусе pending
// и переводится вебхуком ровно один раз в терминальный статус.
const (
	TransactionStatusPending  = "pending"
	TransactionStatusApproved = "approved"
	TransactionStatusFailed   = "failed"
	TransactionStatusError    = "error"
)

// PaymentMethodLink единственный способ оплаты в текущей схеме:
// одноразовая платежная ссылка, размещенная на стороне шлюза.
const PaymentMethodLink = "payment_link"

// PaymentTransaction представляет одну попытку оплаты подписки.
// WompiLinkID — уникальный идентификатор платежной ссылки, единственный
// ключ сверки между созданием ссылки и вебхуком.
type PaymentTransaction struct {
	ID             int        `json:"id"`
	UserUID        string     `json:"user_uid"`
	SubscriptionID *int       `json:"subscription_id,omitempty"`
	AmountUSD      float64    `json:"amount_usd"`
	Currency       string     `json:"currency"`
	Status         string     `json:"status"`
	PaymentMethod  string     `json:"payment_method"`
	WompiLinkID    string     `json:"wompi_link_id"`
	WompiReference *string    `json:"wompi_reference,omitempty"`
	ErrorMessage   *string    `json:"error_message,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`
}
