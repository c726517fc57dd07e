package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/odhiambo/posflow/internal/domain/entity"
	"github.com/odhiambo/posflow/internal/domain/enum"
	"github.com/odhiambo/posflow/pkg/pagination"
)

// OrderRepository defines the interface for order data operations
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	GetByOrderNo(ctx context.Context, orderNo string) (*entity.Order, error)
	GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	List(ctx context.Context, params *OrderFilterParams) ([]entity.Order, int64, error)

	// TransitionStatus performs a conditional status write: the update
	// succeeds only if the order's current status is one of the expected
	// values. Returns false (and no error) when another writer got there
	// first; callers re-read and resolve. extra carries columns persisted in
	// the same write (payment_method, paid_at, invoice_status).
	TransitionStatus(ctx context.Context, id uuid.UUID, expected []enum.OrderStatus, to enum.OrderStatus, extra map[string]interface{}) (bool, error)

	// UpdateInvoiceStatus records e-invoice state independently of the order
	// status; it never touches the status column.
	UpdateInvoiceStatus(ctx context.Context, id uuid.UUID, status enum.InvoiceStatus) error

	// CountOpenOrdersForTable counts sibling orders on a table whose status
	// is not terminal. "Table is free" is exactly this count being zero.
	CountOpenOrdersForTable(ctx context.Context, tableID uuid.UUID) (int64, error)
}

// OrderFilterParams contains filtering parameters for order queries
type OrderFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Status     *enum.OrderStatus
	TableID    *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
	SortBy     string
	SortOrder  string
}

// OrderItemRepository defines the interface for order item data operations
type OrderItemRepository interface {
	CreateBatch(ctx context.Context, items []entity.OrderItem) error
	GetByOrderID(ctx context.Context, orderID uuid.UUID) ([]entity.OrderItem, error)
}
