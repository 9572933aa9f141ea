// Package models содержит доменные структуры, описывающие тарифы, подписки
// и платежные транзакции, а также вспомогательные типы для приёма данных
// из внешних источников (например, JSON-запросов).
package models

// Tier представляет тарифный план подписки из каталога.
// Каталог доступен только для чтения: строки создаются миграциями
// и не изменяются сервисом.
type Tier struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	PriceUSD    float64 `json:"price_usd"`
	Active      bool    `json:"active"`
}
