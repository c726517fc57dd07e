package request

// CompletePaymentRequest represents the payment completion request payload
type CompletePaymentRequest struct {
	Method         string `json:"method" binding:"required,oneof=cash qr bank_transfer"`
	AmountReceived int64  `json:"amount_received" binding:"omitempty,min=0"`
	CorrelationID  string `json:"correlation_id"`
	BuyerName      string `json:"buyer_name"`
	BuyerTaxCode   string `json:"buyer_tax_code"`
}

// FailPaymentRequest represents the payment failure request payload
type FailPaymentRequest struct {
	Method        string `json:"method" binding:"required,oneof=cash qr bank_transfer"`
	CorrelationID string `json:"correlation_id"`
	Reason        string `json:"reason" binding:"required"`
}

// GatewayNotificationRequest is the callback body sent by the payment
// gateway once an async payment settles.
type GatewayNotificationRequest struct {
	CorrelationID string `json:"correlation_id" binding:"required"`
	Method        string `json:"method" binding:"required,oneof=qr bank_transfer"`
	Success       bool   `json:"success"`
	Reason        string `json:"reason"`
}
