package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/odhiambo/posflow/internal/domain/entity"
	domainRepo "github.com/odhiambo/posflow/internal/domain/repository"
	"gorm.io/gorm"
)

type tableRepository struct {
	db *gorm.DB
}

// NewTableRepository creates a new table repository
func NewTableRepository(db *gorm.DB) domainRepo.TableRepository {
	return &tableRepository{db: db}
}

func (r *tableRepository) Create(ctx context.Context, table *entity.Table) error {
	return r.db.WithContext(ctx).Create(table).Error
}

func (r *tableRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Table, error) {
	var table entity.Table
	err := r.db.WithContext(ctx).First(&table, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &table, err
}

func (r *tableRepository) GetByNumber(ctx context.Context, number int) (*entity.Table, error) {
	var table entity.Table
	err := r.db.WithContext(ctx).First(&table, "number = ?", number).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &table, err
}

func (r *tableRepository) List(ctx context.Context) ([]entity.Table, error) {
	var tables []entity.Table
	err := r.db.WithContext(ctx).Order("number ASC").Find(&tables).Error
	return tables, err
}

func (r *tableRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Table{}, "id = ?", id).Error
}
