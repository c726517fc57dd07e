package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/odhiambo/posflow/internal/domain/entity"
	"github.com/odhiambo/posflow/internal/domain/enum"
	"github.com/odhiambo/posflow/internal/domain/event"
	"github.com/odhiambo/posflow/internal/domain/pricing"
	"github.com/odhiambo/posflow/internal/domain/repository"
	"github.com/odhiambo/posflow/pkg/apperror"
	"github.com/odhiambo/posflow/pkg/pagination"
)

// OrderService handles order lifecycle operations. Every totals figure in
// the system comes from the pricing engine through this service: the cart
// preview, the frozen checkout amounts, and the receipt all share one
// calculation path.
type OrderService struct {
	orderRepo     repository.OrderRepository
	orderItemRepo repository.OrderItemRepository
	productRepo   repository.ProductRepository
	tableRepo     repository.TableRepository
	settingsRepo  repository.SettingsRepository
	paymentRepo   repository.PaymentAttemptRepository
	bus           event.Bus
}

// NewOrderService creates a new order service
func NewOrderService(
	orderRepo repository.OrderRepository,
	orderItemRepo repository.OrderItemRepository,
	productRepo repository.ProductRepository,
	tableRepo repository.TableRepository,
	settingsRepo repository.SettingsRepository,
	paymentRepo repository.PaymentAttemptRepository,
	bus event.Bus,
) *OrderService {
	return &OrderService{
		orderRepo:     orderRepo,
		orderItemRepo: orderItemRepo,
		productRepo:   productRepo,
		tableRepo:     tableRepo,
		settingsRepo:  settingsRepo,
		paymentRepo:   paymentRepo,
		bus:           bus,
	}
}

// OrderItemInput represents an item in a cart
type OrderItemInput struct {
	ProductID uuid.UUID
	Quantity  int
}

// CreateOrderInput represents the create order input
type CreateOrderInput struct {
	UserID   uuid.UUID
	TableID  *uuid.UUID
	Discount int64
	Note     string
	Items    []OrderItemInput
}

// snapshotLines resolves cart items against the catalog and freezes the
// pricing inputs. Prices always come from the catalog, never the client.
func (s *OrderService) snapshotLines(ctx context.Context, items []OrderItemInput) ([]pricing.LineItem, []entity.Product, error) {
	if len(items) == 0 {
		return nil, nil, apperror.NewBadRequestError("Order must contain at least one item")
	}

	productIDs := make([]uuid.UUID, len(items))
	for i, item := range items {
		if item.Quantity < 1 {
			return nil, nil, apperror.NewBadRequestError("Item quantity must be at least 1")
		}
		productIDs[i] = item.ProductID
	}

	products, err := s.productRepo.GetByIDs(ctx, productIDs)
	if err != nil {
		return nil, nil, err
	}

	productMap := make(map[uuid.UUID]*entity.Product, len(products))
	for i := range products {
		productMap[products[i].ID] = &products[i]
	}

	lines := make([]pricing.LineItem, len(items))
	resolved := make([]entity.Product, len(items))
	for i, item := range items {
		product, exists := productMap[item.ProductID]
		if !exists {
			return nil, nil, apperror.NewNotFoundError(fmt.Sprintf("Product %s", item.ProductID))
		}
		if !product.Active {
			return nil, nil, apperror.NewBadRequestError(fmt.Sprintf("Product %s is not for sale", product.Name))
		}
		lines[i] = pricing.LineItem{
			UnitPrice:         product.UnitPrice,
			Quantity:          item.Quantity,
			TaxRatePercent:    product.TaxRatePercent,
			AfterTaxUnitPrice: product.AfterTaxUnitPrice,
		}
		resolved[i] = *product
	}

	return lines, resolved, nil
}

// PreviewTotals prices a cart without writing anything. The result is
// bit-identical to what CreateOrder will freeze for the same cart.
func (s *OrderService) PreviewTotals(ctx context.Context, items []OrderItemInput, discount int64) (*pricing.Totals, error) {
	lines, _, err := s.snapshotLines(ctx, items)
	if err != nil {
		return nil, err
	}

	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	totals := pricing.ComputeTotals(lines, discount, settings.PriceIncludesTax)
	return &totals, nil
}

// CreateOrder submits a cart as an order, freezing per-item discount
// allocations and totals. The price-includes-tax flag is captured from store
// settings at this moment and never re-read for this order.
func (s *OrderService) CreateOrder(ctx context.Context, input *CreateOrderInput) (*entity.Order, error) {
	lines, products, err := s.snapshotLines(ctx, input.Items)
	if err != nil {
		return nil, err
	}

	if input.TableID != nil {
		table, err := s.tableRepo.GetByID(ctx, *input.TableID)
		if err != nil {
			return nil, err
		}
		if table == nil {
			return nil, apperror.NewNotFoundError("Table")
		}
	}

	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	totals, breakdowns := pricing.ComputeTotalsWithLines(lines, input.Discount, settings.PriceIncludesTax)

	order := &entity.Order{
		UserID:           input.UserID,
		TableID:          input.TableID,
		OrderNo:          fmt.Sprintf("ORD-%s", uuid.New().String()[:8]),
		Status:           enum.OrderStatusPending,
		PriceIncludesTax: settings.PriceIncludesTax,
		SubTotal:         totals.Subtotal,
		Tax:              totals.Tax,
		Discount:         totals.Discount,
		Total:            totals.Total,
		InvoiceStatus:    enum.InvoiceStatusNotIssued,
		Note:             input.Note,
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	orderItems := make([]entity.OrderItem, len(input.Items))
	for i, item := range input.Items {
		orderItems[i] = entity.OrderItem{
			OrderID:            order.ID,
			ProductID:          item.ProductID,
			Quantity:           item.Quantity,
			UnitPrice:          products[i].UnitPrice,
			TaxRatePercent:     products[i].TaxRatePercent,
			AfterTaxUnitPrice:  products[i].AfterTaxUnitPrice,
			DiscountAllocation: breakdowns[i].DiscountAllocation,
			SubTotal:           breakdowns[i].Subtotal,
			Tax:                breakdowns[i].Tax,
		}
	}

	if err := s.orderItemRepo.CreateBatch(ctx, orderItems); err != nil {
		return nil, err
	}

	return s.orderRepo.GetWithItems(ctx, order.ID)
}

// GetOrder retrieves an order with its items
func (s *OrderService) GetOrder(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	order, err := s.orderRepo.GetWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	return order, nil
}

// ListOrders lists orders with filtering
func (s *OrderService) ListOrders(ctx context.Context, params *repository.OrderFilterParams) (*pagination.PaginatedResult[entity.Order], error) {
	orders, total, err := s.orderRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(orders, pag), nil
}

// UpdateStatus advances the kitchen workflow one step. Transitions are
// monotonic and go through the same conditional write the payment
// coordinator uses, so a concurrent transition loses cleanly instead of
// overwriting. The paid status is reserved for the payment coordinator.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, target enum.OrderStatus) (*entity.Order, error) {
	if target == enum.OrderStatusPaid {
		return nil, apperror.NewBadRequestError("Orders are marked paid through payment completion")
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}

	if !enum.CanTransition(order.Status, target) {
		return nil, apperror.ErrInvalidStateTransition
	}

	ok, err := s.orderRepo.TransitionStatus(ctx, orderID, []enum.OrderStatus{order.Status}, target, nil)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.ErrConcurrencyConflict
	}

	s.publishStatusChanged(ctx, order.ID, order.Status, target)

	return s.orderRepo.GetByID(ctx, orderID)
}

// CancelOrder moves an order to the cancelled terminal status.
func (s *OrderService) CancelOrder(ctx context.Context, orderID uuid.UUID) error {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return apperror.NewNotFoundError("Order")
	}

	if !enum.CanTransition(order.Status, enum.OrderStatusCancelled) {
		return apperror.ErrInvalidStateTransition
	}

	ok, err := s.orderRepo.TransitionStatus(ctx, orderID, []enum.OrderStatus{order.Status}, enum.OrderStatusCancelled, nil)
	if err != nil {
		return err
	}
	if !ok {
		return apperror.ErrConcurrencyConflict
	}

	s.publishStatusChanged(ctx, order.ID, order.Status, enum.OrderStatusCancelled)
	return nil
}

// BuildReceipt composes a printable receipt from a paid order. Nothing is
// recomputed; the frozen order figures are copied as-is.
func (s *OrderService) BuildReceipt(ctx context.Context, orderID uuid.UUID) (*entity.Receipt, error) {
	order, err := s.orderRepo.GetWithItems(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	if order.Status != enum.OrderStatusPaid {
		return nil, apperror.NewBadRequestError("Receipt is only available for paid orders")
	}

	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	receipt := &entity.Receipt{
		Header: entity.ReceiptHeader{
			StoreName: settings.StoreName,
			Address:   settings.Address,
			TaxCode:   settings.TaxCode,
			Currency:  settings.Currency,
		},
		OrderNo:       order.OrderNo,
		Date:          order.CreatedAt.Format("2006-01-02 15:04"),
		PaymentMethod: string(order.PaymentMethod),
		SubTotal:      order.SubTotal,
		Tax:           order.Tax,
		Discount:      order.Discount,
		Total:         order.Total,
	}

	if order.Table != nil {
		receipt.TableNumber = &order.Table.Number
	}

	for _, item := range order.Items {
		receipt.Items = append(receipt.Items, entity.ReceiptItem{
			Name:      item.Product.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Discount:  item.DiscountAllocation,
			Total:     item.SubTotal + item.Tax,
		})
	}

	attempt, err := s.paymentRepo.GetSucceededByOrderID(ctx, orderID)
	if err == nil && attempt != nil && attempt.Method == enum.PaymentMethodCash {
		receipt.AmountReceived = attempt.AmountReceived
		receipt.Change = attempt.AmountReceived - order.Total
	}

	return receipt, nil
}

func (s *OrderService) publishStatusChanged(ctx context.Context, orderID uuid.UUID, from, to enum.OrderStatus) {
	env, err := event.NewEnvelope(event.TopicOrderStatusChanged, orderID.String(), event.OrderStatusChangedPayload{
		OrderID:    orderID.String(),
		FromStatus: from.String(),
		ToStatus:   to.String(),
	})
	if err == nil {
		_ = s.bus.Publish(ctx, event.TopicOrderStatusChanged, env)
	}
}
