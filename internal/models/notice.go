package models

import "time"

// ActivationNotice сообщение для сервиса рассылки об активации подписки.
// Публикуется в RabbitMQ после успешной сверки платежа.
type ActivationNotice struct {
	Email    string    `json:"email"`
	Username string    `json:"username"`
	TierName string    `json:"tier_name"`
	EndDate  time.Time `json:"end_date"`
}
