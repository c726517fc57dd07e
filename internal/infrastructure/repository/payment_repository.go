package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/odhiambo/posflow/internal/domain/entity"
	"github.com/odhiambo/posflow/internal/domain/enum"
	domainRepo "github.com/odhiambo/posflow/internal/domain/repository"
	"gorm.io/gorm"
)

type paymentAttemptRepository struct {
	db *gorm.DB
}

// NewPaymentAttemptRepository creates a new payment attempt repository
func NewPaymentAttemptRepository(db *gorm.DB) domainRepo.PaymentAttemptRepository {
	return &paymentAttemptRepository{db: db}
}

func (r *paymentAttemptRepository) Create(ctx context.Context, attempt *entity.PaymentAttempt) error {
	return r.db.WithContext(ctx).Create(attempt).Error
}

func (r *paymentAttemptRepository) Update(ctx context.Context, attempt *entity.PaymentAttempt) error {
	return r.db.WithContext(ctx).Save(attempt).Error
}

func (r *paymentAttemptRepository) GetByOrderID(ctx context.Context, orderID uuid.UUID) ([]entity.PaymentAttempt, error) {
	var attempts []entity.PaymentAttempt
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("started_at ASC").
		Find(&attempts).Error
	return attempts, err
}

func (r *paymentAttemptRepository) GetSucceededByOrderID(ctx context.Context, orderID uuid.UUID) (*entity.PaymentAttempt, error) {
	var attempt entity.PaymentAttempt
	err := r.db.WithContext(ctx).
		First(&attempt, "order_id = ? AND status = ?", orderID, enum.PaymentStatusSucceeded).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &attempt, err
}

func (r *paymentAttemptRepository) GetByCorrelationID(ctx context.Context, correlationID string) (*entity.PaymentAttempt, error) {
	var attempt entity.PaymentAttempt
	err := r.db.WithContext(ctx).
		First(&attempt, "correlation_id = ?", correlationID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &attempt, err
}
