package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/odhiambo/posflow/internal/domain/entity"
	"github.com/odhiambo/posflow/internal/domain/enum"
	"github.com/odhiambo/posflow/internal/domain/event"
	"github.com/odhiambo/posflow/internal/domain/repository"
	"github.com/odhiambo/posflow/pkg/apperror"
)

// InvoiceIssuer is the slice of the invoice service the payment coordinator
// needs. Issuance failures never propagate into the payment result.
type InvoiceIssuer interface {
	IssueForOrder(ctx context.Context, order *entity.Order, buyerName, buyerTaxCode string) (*entity.Invoice, error)
}

// PaymentService coordinates payment completion. Exactly one attempt may
// flip an order to paid: the flip is a conditional write on the order's
// status, so two cashiers (or a cashier racing a gateway webhook) can both
// try and only one write lands. Everything after the flip, events, table
// release, e-invoice, is derived work that must not undo the payment.
type PaymentService struct {
	orderRepo    repository.OrderRepository
	paymentRepo  repository.PaymentAttemptRepository
	settingsRepo repository.SettingsRepository
	invoices     InvoiceIssuer
	bus          event.Bus
}

// NewPaymentService creates a new payment service
func NewPaymentService(
	orderRepo repository.OrderRepository,
	paymentRepo repository.PaymentAttemptRepository,
	settingsRepo repository.SettingsRepository,
	invoices InvoiceIssuer,
	bus event.Bus,
) *PaymentService {
	return &PaymentService{
		orderRepo:    orderRepo,
		paymentRepo:  paymentRepo,
		settingsRepo: settingsRepo,
		invoices:     invoices,
		bus:          bus,
	}
}

// CompletePaymentInput represents the complete payment input
type CompletePaymentInput struct {
	OrderID        uuid.UUID
	Method         enum.PaymentMethod
	CorrelationID  string
	AmountReceived int64
	BuyerName      string
	BuyerTaxCode   string
}

// CompletePaymentResult represents the outcome of a completion request
type CompletePaymentResult struct {
	Order         *entity.Order         `json:"order"`
	Attempt       *entity.PaymentAttempt `json:"attempt,omitempty"`
	AlreadyPaid   bool                  `json:"already_paid"`
	TableReleased bool                  `json:"table_released"`
}

// CompletePayment marks an order as paid. The call is idempotent: repeating
// it for an already paid order with the same method is a no-op returning the
// recorded outcome, while a different method gets a conflict so the cashier
// sees what actually happened.
func (s *PaymentService) CompletePayment(ctx context.Context, input *CompletePaymentInput) (*CompletePaymentResult, error) {
	if !input.Method.Valid() {
		return nil, apperror.NewBadRequestError("Unsupported payment method")
	}

	order, err := s.orderRepo.GetByID(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}

	if order.Status == enum.OrderStatusPaid {
		return s.resolveAlreadyPaid(ctx, order, input.Method)
	}
	if order.Status == enum.OrderStatusCancelled {
		return nil, apperror.ErrInvalidStateTransition
	}

	// Dine-in orders must reach served before payment; walk-in sales pay
	// straight from pending.
	expected := []enum.OrderStatus{enum.OrderStatusServed}
	if order.IsWalkIn() {
		expected = append(expected, enum.OrderStatusPending)
	}
	if !statusIn(order.Status, expected) {
		return nil, apperror.ErrInvalidStateTransition
	}

	if input.Method == enum.PaymentMethodCash && input.AmountReceived < order.Total {
		return nil, apperror.ErrInsufficientAmountReceived
	}

	attempt := &entity.PaymentAttempt{
		OrderID:        order.ID,
		Method:         input.Method,
		CorrelationID:  input.CorrelationID,
		AmountReceived: input.AmountReceived,
		Status:         enum.PaymentStatusPending,
	}
	if err := s.paymentRepo.Create(ctx, attempt); err != nil {
		return nil, err
	}

	now := time.Now()
	won, err := s.orderRepo.TransitionStatus(ctx, order.ID, expected, enum.OrderStatusPaid, map[string]interface{}{
		"payment_method": input.Method,
		"paid_at":        now,
	})
	if err != nil {
		return nil, err
	}

	if !won {
		// Lost the race. Re-read to see who got there first.
		attempt.Status = enum.PaymentStatusFailed
		attempt.FailureReason = "order already settled by a concurrent request"
		if updateErr := s.paymentRepo.Update(ctx, attempt); updateErr != nil {
			log.Printf("payment: failed to record lost attempt %s: %v", attempt.ID, updateErr)
		}

		current, readErr := s.orderRepo.GetByID(ctx, order.ID)
		if readErr != nil {
			return nil, readErr
		}
		if current != nil && current.Status == enum.OrderStatusPaid {
			// A same-method winner means this caller is a retry of the
			// settlement that landed; hand back the recorded outcome.
			return s.resolveAlreadyPaid(ctx, current, input.Method)
		}
		return nil, apperror.ErrConcurrencyConflict
	}

	attempt.Status = enum.PaymentStatusSucceeded
	attempt.CompletedAt = &now
	if err := s.paymentRepo.Update(ctx, attempt); err != nil {
		log.Printf("payment: failed to finalize attempt %s: %v", attempt.ID, err)
	}

	fromStatus := order.Status
	order.Status = enum.OrderStatusPaid
	order.PaymentMethod = input.Method
	order.PaidAt = &now

	s.publishCompleted(ctx, order, fromStatus)

	result := &CompletePaymentResult{Order: order, Attempt: attempt}

	// The table is free once no sibling order on it remains open. Derived by
	// querying, not by mutating the table row.
	if order.TableID != nil {
		open, countErr := s.orderRepo.CountOpenOrdersForTable(ctx, *order.TableID)
		if countErr != nil {
			log.Printf("payment: table occupancy check failed for %s: %v", order.TableID, countErr)
		} else {
			result.TableReleased = open == 0
		}
	}

	s.issueInvoiceBestEffort(ctx, order, input.BuyerName, input.BuyerTaxCode)

	return result, nil
}

// HandleGatewayNotification completes or fails an order from an asynchronous
// payment gateway callback. Retried callbacks are absorbed through the
// correlation id.
func (s *PaymentService) HandleGatewayNotification(ctx context.Context, correlationID string, method enum.PaymentMethod, succeeded bool, reason string) (*CompletePaymentResult, error) {
	if correlationID == "" {
		return nil, apperror.NewBadRequestError("Missing correlation id")
	}

	prior, err := s.paymentRepo.GetByCorrelationID(ctx, correlationID)
	if err != nil {
		return nil, err
	}
	if prior == nil {
		return nil, apperror.NewNotFoundError("Payment attempt")
	}
	if prior.Status == enum.PaymentStatusSucceeded {
		order, err := s.orderRepo.GetByID(ctx, prior.OrderID)
		if err != nil {
			return nil, err
		}
		return &CompletePaymentResult{Order: order, Attempt: prior, AlreadyPaid: true}, nil
	}

	if !succeeded {
		return s.FailPayment(ctx, prior.OrderID, method, correlationID, reason)
	}

	return s.CompletePayment(ctx, &CompletePaymentInput{
		OrderID:       prior.OrderID,
		Method:        method,
		CorrelationID: correlationID,
	})
}

// FailPayment records a failed attempt and publishes payment.failed. The
// order keeps its current status and stays payable; the returned result
// carries the recorded attempt.
func (s *PaymentService) FailPayment(ctx context.Context, orderID uuid.UUID, method enum.PaymentMethod, correlationID, reason string) (*CompletePaymentResult, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}

	now := time.Now()
	attempt := &entity.PaymentAttempt{
		OrderID:       orderID,
		Method:        method,
		CorrelationID: correlationID,
		Status:        enum.PaymentStatusFailed,
		FailureReason: reason,
		CompletedAt:   &now,
	}
	if err := s.paymentRepo.Create(ctx, attempt); err != nil {
		return nil, err
	}

	env, envErr := event.NewEnvelope(event.TopicPaymentFailed, orderID.String(), event.PaymentFailedPayload{
		OrderID: orderID.String(),
		Method:  string(method),
		Reason:  reason,
	})
	if envErr == nil {
		_ = s.bus.Publish(ctx, event.TopicPaymentFailed, env)
	}
	return &CompletePaymentResult{Order: order, Attempt: attempt}, nil
}

// ListAttempts returns the payment history of an order, newest first.
func (s *PaymentService) ListAttempts(ctx context.Context, orderID uuid.UUID) ([]entity.PaymentAttempt, error) {
	return s.paymentRepo.GetByOrderID(ctx, orderID)
}

// resolveAlreadyPaid maps a completion request against a paid order. Same
// method as the winning attempt means the caller is a retry and gets the
// recorded result; anything else is a genuine conflict.
func (s *PaymentService) resolveAlreadyPaid(ctx context.Context, order *entity.Order, method enum.PaymentMethod) (*CompletePaymentResult, error) {
	if order.PaymentMethod != method {
		return nil, apperror.ErrPaymentAlreadyCompleted
	}

	attempt, err := s.paymentRepo.GetSucceededByOrderID(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	return &CompletePaymentResult{Order: order, Attempt: attempt, AlreadyPaid: true}, nil
}

// publishCompleted emits payment.completed and the matching status change.
// Publishing happens only after the paid status is committed, so a display
// that re-fetches on receipt always sees the paid order.
func (s *PaymentService) publishCompleted(ctx context.Context, order *entity.Order, from enum.OrderStatus) {
	completed, err := event.NewEnvelope(event.TopicPaymentCompleted, order.ID.String(), event.PaymentCompletedPayload{
		OrderID:     order.ID.String(),
		Method:      string(order.PaymentMethod),
		TotalAmount: order.Total,
		PaidAt:      *order.PaidAt,
	})
	if err == nil {
		if pubErr := s.bus.Publish(ctx, event.TopicPaymentCompleted, completed); pubErr != nil {
			log.Printf("payment: publish %s failed: %v", event.TopicPaymentCompleted, pubErr)
		}
	}

	changed, err := event.NewEnvelope(event.TopicOrderStatusChanged, order.ID.String(), event.OrderStatusChangedPayload{
		OrderID:    order.ID.String(),
		FromStatus: from.String(),
		ToStatus:   enum.OrderStatusPaid.String(),
	})
	if err == nil {
		_ = s.bus.Publish(ctx, event.TopicOrderStatusChanged, changed)
	}
}

// issueInvoiceBestEffort hands the paid order to the invoice pipeline. Any
// failure here is logged and swallowed; the payment result already stands.
func (s *PaymentService) issueInvoiceBestEffort(ctx context.Context, order *entity.Order, buyerName, buyerTaxCode string) {
	if s.invoices == nil {
		return
	}
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil || !settings.EInvoiceEnabled {
		return
	}
	if _, err := s.invoices.IssueForOrder(ctx, order, buyerName, buyerTaxCode); err != nil {
		log.Printf("payment: e-invoice for order %s deferred: %v", order.ID, err)
	}
}

func statusIn(status enum.OrderStatus, set []enum.OrderStatus) bool {
	for _, s := range set {
		if s == status {
			return true
		}
	}
	return false
}
