package request

// CreateProductRequest represents the create product request payload. Prices
// are minor currency units.
type CreateProductRequest struct {
	Name              string  `json:"name" binding:"required"`
	SKU               string  `json:"sku" binding:"required"`
	UnitPrice         int64   `json:"unit_price" binding:"required,min=0"`
	TaxRatePercent    float64 `json:"tax_rate_percent" binding:"omitempty,min=0"`
	AfterTaxUnitPrice *int64  `json:"after_tax_unit_price" binding:"omitempty,min=0"`
	Active            *bool   `json:"active"`
}

// UpdateProductRequest represents the update product request payload
type UpdateProductRequest struct {
	Name              *string  `json:"name"`
	UnitPrice         *int64   `json:"unit_price" binding:"omitempty,min=0"`
	TaxRatePercent    *float64 `json:"tax_rate_percent" binding:"omitempty,min=0"`
	AfterTaxUnitPrice *int64   `json:"after_tax_unit_price" binding:"omitempty,min=0"`
	ClearAfterTax     bool     `json:"clear_after_tax"`
	Active            *bool    `json:"active"`
}
