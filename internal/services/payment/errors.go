package payment

import "errors"

// Ошибки бизнес-логики платежного цикла. Обработчики сопоставляют их
// с HTTP-статусами; текст наружу не выходит, детали пишутся в лог.
var (
	// ErrTierNotFound тариф не существует или отключен.
	ErrTierNotFound = errors.New("subscription tier not found")
	// ErrAlreadySubscribed у пользователя уже есть активная подписка.
	ErrAlreadySubscribed = errors.New("user already has an active subscription")
	// ErrGateway не удалось получить токен или создать платежную ссылку.
	ErrGateway = errors.New("payment gateway error")
	// ErrTransactionNotFound вебхук ссылается на неизвестную или уже
	// завершенную транзакцию.
	ErrTransactionNotFound = errors.New("pending transaction not found")
)
