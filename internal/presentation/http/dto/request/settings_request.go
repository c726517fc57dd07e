package request

// UpdateSettingsRequest represents the update settings request payload; only
// the provided fields are changed.
type UpdateSettingsRequest struct {
	StoreName             *string  `json:"store_name"`
	Address               *string  `json:"address"`
	TaxCode               *string  `json:"tax_code"`
	Currency              *string  `json:"currency"`
	PriceIncludesTax      *bool    `json:"price_includes_tax"`
	DefaultTaxRatePercent *float64 `json:"default_tax_rate_percent" binding:"omitempty,min=0"`
	EInvoiceEnabled       *bool    `json:"einvoice_enabled"`
}
