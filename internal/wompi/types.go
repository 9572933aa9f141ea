package wompi

// Ответ эндпоинта выдачи токена (client credentials grant).
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// FormaPago описывает разрешенные способы оплаты по ссылке.
type FormaPago struct {
	PermitirTarjetaCreditoDebido bool `json:"permitirTarjetaCreditoDebido"`
	PermitirPagoConPuntoAgricola bool `json:"permitirPagoConPuntoAgricola"`
	PermitirPagoEnCuotasAgricola bool `json:"permitirPagoEnCuotasAgricola"`
	PermitirPagoEnBitcoin        bool `json:"permitirPagoEnBitcoin"`
	PermitePagoQuickPay          bool `json:"permitePagoQuickPay"`
}

// InfoProducto дополнительная информация о продукте.
type InfoProducto struct {
	DescripcionProducto string `json:"descripcionProducto"`
}

// Configuracion настройки платежной страницы: адреса возврата и вебхука.
type Configuracion struct {
	URLRedirect                     string `json:"urlRedirect"`
	EsMontoEditable                 bool   `json:"esMontoEditable"`
	EsCantidadEditable              bool   `json:"esCantidadEditable"`
	CantidadPorDefecto              int    `json:"cantidadPorDefecto"`
	DuracionInterfazIntentoMinutos  int    `json:"duracionInterfazIntentoMinutos"`
	URLRetorno                      string `json:"urlRetorno"`
	EmailsNotificacion              string `json:"emailsNotificacion"`
	URLWebhook                      string `json:"urlWebhook"`
	NotificarTransaccionCliente     bool   `json:"notificarTransaccionCliente"`
}

// Vigencia окно действия платежной ссылки в формате RFC3339.
type Vigencia struct {
	FechaInicio string `json:"fechaInicio"`
	FechaFin    string `json:"fechaFin"`
}

// LimitesDeUso лимиты успешных и неуспешных оплат по одной ссылке.
type LimitesDeUso struct {
	CantidadMaximaPagosExitosos int `json:"cantidadMaximaPagosExitosos"`
	CantidadMaximaPagosFallidos int `json:"cantidadMaximaPagosFallidos"`
}

// DatosAdicionales метаданные, которые шлюз возвращает в вебхуке без
// изменений. Используются как запасной механизм сверки.
type DatosAdicionales struct {
	UserID           string `json:"userId"`
	TierID           string `json:"tierId"`
	SubscriptionType string `json:"subscriptionType"`
}

// CreatePaymentLinkRequest представляет запрос на создание платежной ссылки.
type CreatePaymentLinkRequest struct {
	IDAplicativo                string           `json:"idAplicativo"`
	IdentificadorEnlaceComercio string           `json:"identificadorEnlaceComercio"`
	Monto                       float64          `json:"monto"`
	NombreProducto              string           `json:"nombreProducto"`
	FormaPago                   FormaPago        `json:"formaPago"`
	InfoProducto                InfoProducto     `json:"infoProducto"`
	Configuracion               Configuracion    `json:"configuracion"`
	Vigencia                    Vigencia         `json:"vigencia"`
	LimitesDeUso                LimitesDeUso     `json:"limitesDeUso"`
	DatosAdicionales            DatosAdicionales `json:"datosAdicionales"`
}

// CreatePaymentLinkResponse представляет ответ шлюза на создание ссылки.
type CreatePaymentLinkResponse struct {
	Success bool `json:"success"`
	Data    struct {
		URLPago string `json:"urlPago"`
	} `json:"data"`
}
