package entity

// ReceiptHeader holds the store/business header shown at the top of a receipt.
type ReceiptHeader struct {
	StoreName string `json:"store_name"`
	Address   string `json:"address,omitempty"`
	TaxCode   string `json:"tax_code,omitempty"`
	Currency  string `json:"currency,omitempty"`
}

// ReceiptItem represents a single line item on a receipt, in minor units.
type ReceiptItem struct {
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
	Discount  int64  `json:"discount,omitempty"`
	Total     int64  `json:"total"`
}

// Receipt is a value object composed from a paid order at display time. The
// figures come straight from the frozen order record; nothing is recomputed,
// so every screen that renders the receipt shows identical numbers.
type Receipt struct {
	Header         ReceiptHeader `json:"header"`
	OrderNo        string        `json:"order_no"`
	Date           string        `json:"date"`
	Cashier        string        `json:"cashier,omitempty"`
	TableNumber    *int          `json:"table_number,omitempty"`
	PaymentMethod  string        `json:"payment_method,omitempty"`
	Items          []ReceiptItem `json:"items"`
	SubTotal       int64         `json:"subtotal"`
	Tax            int64         `json:"tax"`
	Discount       int64         `json:"discount"`
	Total          int64         `json:"total"`
	AmountReceived int64         `json:"amount_received,omitempty"`
	Change         int64         `json:"change,omitempty"`
	InvoiceNumber  string        `json:"invoice_number,omitempty"`
}
