package rabbitmq

// QueueConfig описывает очередь и ключ маршрутизации для привязки к обменнику.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// Очередь и ключ события активации подписки.
const (
	ActivatedQueue      = "payments.activated"
	ActivatedRoutingKey = "activated"
)

// GetPaymentQueues возвращает очереди платежных событий.
func GetPaymentQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: ActivatedQueue, RoutingKey: ActivatedRoutingKey},
	}
}
