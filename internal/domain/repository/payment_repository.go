package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/odhiambo/posflow/internal/domain/entity"
)

// PaymentAttemptRepository defines the interface for payment attempt records
type PaymentAttemptRepository interface {
	Create(ctx context.Context, attempt *entity.PaymentAttempt) error
	Update(ctx context.Context, attempt *entity.PaymentAttempt) error
	GetByOrderID(ctx context.Context, orderID uuid.UUID) ([]entity.PaymentAttempt, error)
	GetSucceededByOrderID(ctx context.Context, orderID uuid.UUID) (*entity.PaymentAttempt, error)
	GetByCorrelationID(ctx context.Context, correlationID string) (*entity.PaymentAttempt, error)
}
