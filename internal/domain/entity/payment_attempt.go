package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/odhiambo/posflow/internal/domain/enum"
	"gorm.io/gorm"
)

// PaymentAttempt records one attempt to pay an order. Multiple attempts may
// exist per order (a QR timeout followed by cash, for example) but at most
// one may succeed; the conditional status write on the order enforces that.
type PaymentAttempt struct {
	ID             uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	OrderID        uuid.UUID          `gorm:"type:uuid;not null;index" json:"order_id"`
	Method         enum.PaymentMethod `gorm:"size:50;not null" json:"method"`
	CorrelationID  string             `gorm:"size:255;index" json:"correlation_id,omitempty"`
	AmountReceived int64              `gorm:"default:0" json:"amount_received"`
	Status         enum.PaymentStatus `gorm:"size:20;default:'pending'" json:"status"`
	FailureReason  string             `gorm:"size:255" json:"failure_reason,omitempty"`
	StartedAt      time.Time          `json:"started_at"`
	CompletedAt    *time.Time         `json:"completed_at,omitempty"`

	// Relationships
	Order Order `gorm:"foreignKey:OrderID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new payment attempt
func (p *PaymentAttempt) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.StartedAt.IsZero() {
		p.StartedAt = time.Now()
	}
	return nil
}

// TableName returns the table name for the PaymentAttempt model
func (PaymentAttempt) TableName() string {
	return "payment_attempts"
}
