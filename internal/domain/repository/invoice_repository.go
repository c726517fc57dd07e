package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/odhiambo/posflow/internal/domain/entity"
)

// InvoiceRepository defines the interface for e-invoice data operations
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	Update(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error)
	GetByOrderID(ctx context.Context, orderID uuid.UUID) (*entity.Invoice, error)
	ListDrafts(ctx context.Context, limit int) ([]entity.Invoice, error)
}
