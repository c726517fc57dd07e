package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/odhiambo/posflow/internal/domain/enum"
	"gorm.io/gorm"
)

// Invoice is the e-invoice issued for a paid order through an external
// provider. Issuance is best-effort: a provider failure leaves the invoice in
// draft or error state while the order stays paid.
type Invoice struct {
	ID            uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	OrderID       uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex" json:"order_id"`
	Serial        string             `gorm:"size:50" json:"serial,omitempty"`
	InvoiceNumber string             `gorm:"size:100" json:"invoice_number,omitempty"`
	BuyerName     string             `gorm:"size:255" json:"buyer_name,omitempty"`
	BuyerTaxCode  string             `gorm:"size:100" json:"buyer_tax_code,omitempty"`
	Status        enum.InvoiceStatus `gorm:"size:20;default:'draft';index" json:"status"`
	LastError     string             `gorm:"type:text" json:"last_error,omitempty"`
	IssuedAt      *time.Time         `json:"issued_at,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`

	// Relationships
	Order Order `gorm:"foreignKey:OrderID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new invoice
func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Invoice model
func (Invoice) TableName() string {
	return "invoices"
}
