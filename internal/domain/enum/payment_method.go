package enum

// PaymentMethod identifies how an order was paid
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodQR           PaymentMethod = "qr"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
)

// IsAsync reports whether completion for the method arrives through an
// external payment notification rather than the cashier terminal.
func (m PaymentMethod) IsAsync() bool {
	return m == PaymentMethodQR || m == PaymentMethodBankTransfer
}

// Valid reports whether the method is one the system supports.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodQR, PaymentMethodBankTransfer:
		return true
	}
	return false
}
