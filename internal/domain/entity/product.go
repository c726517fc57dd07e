package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product represents a sellable catalog item. Prices are stored in minor
// units. AfterTaxUnitPrice, when set, is the authoritative tax-inclusive
// price for the item and takes precedence over TaxRatePercent in every
// calculation.
type Product struct {
	ID                uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name              string         `gorm:"size:255;not null" json:"name"`
	SKU               string         `gorm:"size:100;unique;not null" json:"sku"`
	UnitPrice         int64          `gorm:"not null" json:"unit_price"`
	TaxRatePercent    float64        `gorm:"default:0" json:"tax_rate_percent"`
	AfterTaxUnitPrice *int64         `json:"after_tax_unit_price,omitempty"`
	Active            bool           `gorm:"default:true" json:"active"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new product
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}
