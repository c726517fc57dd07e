package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/odhiambo/posflow/internal/domain/entity"
	"github.com/odhiambo/posflow/internal/domain/repository"
	"github.com/odhiambo/posflow/pkg/apperror"
	"github.com/odhiambo/posflow/pkg/pagination"
)

// ProductService handles catalog operations
type ProductService struct {
	productRepo repository.ProductRepository
}

// NewProductService creates a new product service
func NewProductService(productRepo repository.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// CreateProductInput represents the create product input
type CreateProductInput struct {
	Name              string
	SKU               string
	UnitPrice         int64
	TaxRatePercent    float64
	AfterTaxUnitPrice *int64
	Active            bool
}

func validatePricing(unitPrice int64, taxRate float64, afterTax *int64) error {
	if unitPrice < 0 {
		return apperror.NewBadRequestError("Unit price cannot be negative")
	}
	if taxRate < 0 {
		return apperror.NewBadRequestError("Tax rate cannot be negative")
	}
	if afterTax != nil && *afterTax < unitPrice {
		return apperror.NewBadRequestError("After-tax price cannot be below the unit price")
	}
	return nil
}

// CreateProduct adds a product to the catalog
func (s *ProductService) CreateProduct(ctx context.Context, input *CreateProductInput) (*entity.Product, error) {
	if err := validatePricing(input.UnitPrice, input.TaxRatePercent, input.AfterTaxUnitPrice); err != nil {
		return nil, err
	}

	existing, err := s.productRepo.GetBySKU(ctx, input.SKU)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("SKU already exists")
	}

	product := &entity.Product{
		Name:              input.Name,
		SKU:               input.SKU,
		UnitPrice:         input.UnitPrice,
		TaxRatePercent:    input.TaxRatePercent,
		AfterTaxUnitPrice: input.AfterTaxUnitPrice,
		Active:            input.Active,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProductInput represents the update product input; nil fields are
// left unchanged.
type UpdateProductInput struct {
	Name              *string
	UnitPrice         *int64
	TaxRatePercent    *float64
	AfterTaxUnitPrice *int64
	ClearAfterTax     bool
	Active            *bool
}

// UpdateProduct updates catalog data. Existing orders keep their frozen
// snapshots; a price change only affects carts priced after it.
func (s *ProductService) UpdateProduct(ctx context.Context, id uuid.UUID, input *UpdateProductInput) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.UnitPrice != nil {
		product.UnitPrice = *input.UnitPrice
	}
	if input.TaxRatePercent != nil {
		product.TaxRatePercent = *input.TaxRatePercent
	}
	if input.ClearAfterTax {
		product.AfterTaxUnitPrice = nil
	} else if input.AfterTaxUnitPrice != nil {
		product.AfterTaxUnitPrice = input.AfterTaxUnitPrice
	}
	if input.Active != nil {
		product.Active = *input.Active
	}

	if err := validatePricing(product.UnitPrice, product.TaxRatePercent, product.AfterTaxUnitPrice); err != nil {
		return nil, err
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// GetProduct retrieves a product by ID
func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// ListProducts lists products with filtering
func (s *ProductService) ListProducts(ctx context.Context, params *repository.ProductFilterParams) (*pagination.PaginatedResult[entity.Product], error) {
	products, total, err := s.productRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(products, pag), nil
}

// DeleteProduct soft-deletes a product
func (s *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if product == nil {
		return apperror.NewNotFoundError("Product")
	}
	return s.productRepo.Delete(ctx, id)
}
