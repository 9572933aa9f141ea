package wompi

// Событие и статус, при которых оплата по ссылке считается подтвержденной.
// Только связка pago_completado + aprobado является терминальной.
const (
	EventPaymentCompleted = "pago_completado"
	StatusApproved        = "aprobado"
)

// WebhookPayload представляет уведомление шлюза об исходе оплаты.
// Поле Datos.IdentificadorEnlaceComercio — ключ сверки с ранее созданной
// транзакцией; Datos.DatosAdicionales возвращается шлюзом без изменений.
type WebhookPayload struct {
	Evento string      `json:"evento"`
	Datos  WebhookData `json:"datos"`
}

// WebhookData данные уведомления.
type WebhookData struct {
	IdentificadorEnlaceComercio string           `json:"identificadorEnlaceComercio"`
	Estado                      string           `json:"estado"`
	Monto                       float64          `json:"monto"`
	Moneda                      string           `json:"moneda"`
	FechaTransaccion            string           `json:"fechaTransaccion"`
	Referencia                  string           `json:"referencia"`
	MetodoPago                  string           `json:"metodoPago"`
	DatosAdicionales            DatosAdicionales `json:"datosAdicionales"`
}
