package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/odhiambo/posflow/internal/domain/enum"
	"gorm.io/gorm"
)

// Order represents a sales order. All amounts are stored in the store's minor
// currency unit. Orders are never deleted, only transitioned to a terminal
// status, and all monetary fields are frozen at creation time.
type Order struct {
	ID               uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	UserID           uuid.UUID          `gorm:"type:uuid;not null;index" json:"user_id"`
	TableID          *uuid.UUID         `gorm:"type:uuid;index" json:"table_id,omitempty"`
	OrderNo          string             `gorm:"size:100;unique;not null" json:"order_no"`
	Status           enum.OrderStatus   `gorm:"default:0;index" json:"status"`
	PriceIncludesTax bool               `gorm:"default:false" json:"price_includes_tax"`
	SubTotal         int64              `gorm:"default:0" json:"subtotal"`
	Tax              int64              `gorm:"default:0" json:"tax"`
	Discount         int64              `gorm:"default:0" json:"discount"`
	Total            int64              `gorm:"default:0" json:"total"`
	PaymentMethod    enum.PaymentMethod `gorm:"size:50" json:"payment_method,omitempty"`
	PaidAt           *time.Time         `json:"paid_at,omitempty"`
	InvoiceStatus    enum.InvoiceStatus `gorm:"size:20;default:'not_issued'" json:"invoice_status"`
	Note             string             `gorm:"type:text" json:"note,omitempty"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`

	// Relationships
	User  User        `gorm:"foreignKey:UserID" json:"-"`
	Table *Table      `gorm:"foreignKey:TableID" json:"table,omitempty"`
	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

// BeforeCreate generates a UUID before creating a new order
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// IsWalkIn reports whether the order has no table attached (direct POS sale).
func (o *Order) IsWalkIn() bool {
	return o.TableID == nil
}

// OrderItem is one line of an order. Unit price, tax figures and the discount
// allocation are snapshots taken at checkout; they are never recomputed from
// the live catalog once the order is paid.
type OrderItem struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	OrderID            uuid.UUID  `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID          uuid.UUID  `gorm:"type:uuid;not null;index" json:"product_id"`
	Quantity           int        `gorm:"not null" json:"quantity"`
	UnitPrice          int64      `gorm:"not null" json:"unit_price"`
	TaxRatePercent     float64    `gorm:"default:0" json:"tax_rate_percent"`
	AfterTaxUnitPrice  *int64     `json:"after_tax_unit_price,omitempty"`
	DiscountAllocation int64      `gorm:"default:0" json:"discount_allocation"`
	SubTotal           int64      `gorm:"default:0" json:"subtotal"`
	Tax                int64      `gorm:"default:0" json:"tax"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`

	// Relationships
	Order   Order   `gorm:"foreignKey:OrderID" json:"-"`
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// BeforeCreate generates a UUID before creating a new order item
func (oi *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if oi.ID == uuid.Nil {
		oi.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}

// LineTotal returns the pre-discount gross amount of the line.
func (oi *OrderItem) LineTotal() int64 {
	return oi.UnitPrice * int64(oi.Quantity)
}
