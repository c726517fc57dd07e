package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/odhiambo/posflow/internal/domain/entity"
)

// TableRepository defines the interface for dining table data operations
type TableRepository interface {
	Create(ctx context.Context, table *entity.Table) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Table, error)
	GetByNumber(ctx context.Context, number int) (*entity.Table, error)
	List(ctx context.Context) ([]entity.Table, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
