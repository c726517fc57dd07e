package repository

import (
	"context"

	"github.com/odhiambo/posflow/internal/domain/entity"
)

// SettingsRepository defines the interface for store settings operations.
// There is a single settings row per installation.
type SettingsRepository interface {
	Get(ctx context.Context) (*entity.StoreSettings, error)
	Update(ctx context.Context, settings *entity.StoreSettings) error
}
