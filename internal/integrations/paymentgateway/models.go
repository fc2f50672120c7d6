package paymentgateway

// ChargeRequest параметры списания с карты
type ChargeRequest struct {
	Amount         float64 // в единицах валюты, например 100.00
	Currency       string
	CardToken      string // ID payment method, полученный клиентом от Stripe
	IdempotencyKey string // уникален для попытки оплаты, а не для черновика
	Description    string
	Metadata       map[string]string
}

// ChargeResult результат успешного списания
type ChargeResult struct {
	ID     string
	Status string
}
