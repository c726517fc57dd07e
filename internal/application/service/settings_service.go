package service

import (
	"context"

	"github.com/odhiambo/posflow/internal/domain/entity"
	"github.com/odhiambo/posflow/internal/domain/repository"
	"github.com/odhiambo/posflow/pkg/apperror"
)

// SettingsService handles store-wide settings
type SettingsService struct {
	settingsRepo repository.SettingsRepository
}

// NewSettingsService creates a new settings service
func NewSettingsService(settingsRepo repository.SettingsRepository) *SettingsService {
	return &SettingsService{settingsRepo: settingsRepo}
}

// GetSettings returns the store settings row
func (s *SettingsService) GetSettings(ctx context.Context) (*entity.StoreSettings, error) {
	return s.settingsRepo.Get(ctx)
}

// UpdateSettingsInput represents the update settings input; nil fields are
// left unchanged.
type UpdateSettingsInput struct {
	StoreName             *string
	Address               *string
	TaxCode               *string
	Currency              *string
	PriceIncludesTax      *bool
	DefaultTaxRatePercent *float64
	EInvoiceEnabled       *bool
}

// UpdateSettings changes store settings. Flipping PriceIncludesTax affects
// only orders created afterwards; open orders keep the convention frozen on
// them.
func (s *SettingsService) UpdateSettings(ctx context.Context, input *UpdateSettingsInput) (*entity.StoreSettings, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	if input.StoreName != nil {
		settings.StoreName = *input.StoreName
	}
	if input.Address != nil {
		settings.Address = *input.Address
	}
	if input.TaxCode != nil {
		settings.TaxCode = *input.TaxCode
	}
	if input.Currency != nil {
		settings.Currency = *input.Currency
	}
	if input.PriceIncludesTax != nil {
		settings.PriceIncludesTax = *input.PriceIncludesTax
	}
	if input.DefaultTaxRatePercent != nil {
		if *input.DefaultTaxRatePercent < 0 {
			return nil, apperror.NewBadRequestError("Default tax rate cannot be negative")
		}
		settings.DefaultTaxRatePercent = *input.DefaultTaxRatePercent
	}
	if input.EInvoiceEnabled != nil {
		settings.EInvoiceEnabled = *input.EInvoiceEnabled
	}

	if err := s.settingsRepo.Update(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}
