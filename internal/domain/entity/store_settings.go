package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StoreSettings holds store-wide configuration. PriceIncludesTax is the
// toggle the total engine receives; it is frozen onto each order at creation
// so a later settings change never reprices open orders.
type StoreSettings struct {
	ID                    uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	StoreName             string    `gorm:"size:255;default:'posflow'" json:"store_name"`
	Address               string    `gorm:"type:text" json:"address,omitempty"`
	TaxCode               string    `gorm:"size:100" json:"tax_code,omitempty"`
	Currency              string    `gorm:"size:10;default:'VND'" json:"currency"`
	PriceIncludesTax      bool      `gorm:"default:false" json:"price_includes_tax"`
	DefaultTaxRatePercent float64   `gorm:"default:10" json:"default_tax_rate_percent"`
	EInvoiceEnabled       bool      `gorm:"default:false" json:"einvoice_enabled"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating new settings
func (s *StoreSettings) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the StoreSettings model
func (StoreSettings) TableName() string {
	return "store_settings"
}
