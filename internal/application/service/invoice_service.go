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

// ProviderInvoice is what the external e-invoice provider returns on a
// successful publish.
type ProviderInvoice struct {
	Serial        string
	InvoiceNumber string
}

// InvoiceProvider publishes invoices to the external tax authority gateway.
type InvoiceProvider interface {
	Publish(ctx context.Context, order *entity.Order, invoice *entity.Invoice) (*ProviderInvoice, error)
}

// InvoiceService issues e-invoices for paid orders. Issuance is strictly
// best-effort relative to payment: the provider being down degrades the
// invoice to a draft that a background worker retries later.
type InvoiceService struct {
	invoiceRepo    repository.InvoiceRepository
	orderRepo      repository.OrderRepository
	provider       InvoiceProvider
	bus            event.Bus
	publishTimeout time.Duration
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	orderRepo repository.OrderRepository,
	provider InvoiceProvider,
	bus event.Bus,
	publishTimeout time.Duration,
) *InvoiceService {
	if publishTimeout <= 0 {
		publishTimeout = 10 * time.Second
	}
	return &InvoiceService{
		invoiceRepo:    invoiceRepo,
		orderRepo:      orderRepo,
		provider:       provider,
		bus:            bus,
		publishTimeout: publishTimeout,
	}
}

// IssueForOrder creates (or reuses) the order's invoice record and attempts
// to publish it immediately. A provider failure leaves the invoice in draft
// and reports the error to the caller; the order stays paid either way.
func (s *InvoiceService) IssueForOrder(ctx context.Context, order *entity.Order, buyerName, buyerTaxCode string) (*entity.Invoice, error) {
	if order.Status != enum.OrderStatusPaid {
		return nil, apperror.NewBadRequestError("E-invoices are issued for paid orders only")
	}

	invoice, err := s.invoiceRepo.GetByOrderID(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		invoice = &entity.Invoice{
			OrderID:      order.ID,
			BuyerName:    buyerName,
			BuyerTaxCode: buyerTaxCode,
			Status:       enum.InvoiceStatusDraft,
		}
		if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
			return nil, err
		}
	}
	if invoice.Status == enum.InvoiceStatusIssued {
		return invoice, nil
	}

	return s.publish(ctx, order, invoice)
}

// RetryDraft re-attempts publishing for a draft invoice by id.
func (s *InvoiceService) RetryDraft(ctx context.Context, invoiceID uuid.UUID) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	if invoice.Status == enum.InvoiceStatusIssued {
		return invoice, nil
	}

	order, err := s.orderRepo.GetByID(ctx, invoice.OrderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}

	return s.publish(ctx, order, invoice)
}

// GetByOrderID returns the invoice attached to an order, if any.
func (s *InvoiceService) GetByOrderID(ctx context.Context, orderID uuid.UUID) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	return invoice, nil
}

// StartDraftWorker runs the background loop that retries draft invoices
// until the context is cancelled. Call it in a goroutine from main.
func (s *InvoiceService) StartDraftWorker(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.retryDrafts(ctx)
		}
	}
}

func (s *InvoiceService) retryDrafts(ctx context.Context) {
	drafts, err := s.invoiceRepo.ListDrafts(ctx, 20)
	if err != nil {
		log.Printf("invoice: listing drafts failed: %v", err)
		return
	}
	for i := range drafts {
		if _, err := s.RetryDraft(ctx, drafts[i].ID); err != nil {
			log.Printf("invoice: retry for %s failed: %v", drafts[i].ID, err)
		}
	}
}

// publish calls the provider under a deadline and records the outcome on
// both the invoice and the order's invoice status column.
func (s *InvoiceService) publish(ctx context.Context, order *entity.Order, invoice *entity.Invoice) (*entity.Invoice, error) {
	if s.provider == nil {
		return s.degradeToDraft(ctx, order, invoice, apperror.ErrInvoiceProviderUnavailable)
	}

	callCtx, cancel := context.WithTimeout(ctx, s.publishTimeout)
	defer cancel()

	issued, err := s.provider.Publish(callCtx, order, invoice)
	if err != nil {
		return s.degradeToDraft(ctx, order, invoice, err)
	}

	now := time.Now()
	invoice.Serial = issued.Serial
	invoice.InvoiceNumber = issued.InvoiceNumber
	invoice.Status = enum.InvoiceStatusIssued
	invoice.LastError = ""
	invoice.IssuedAt = &now
	if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
		return nil, err
	}
	if err := s.orderRepo.UpdateInvoiceStatus(ctx, order.ID, enum.InvoiceStatusIssued); err != nil {
		log.Printf("invoice: order %s invoice status update failed: %v", order.ID, err)
	}

	env, envErr := event.NewEnvelope(event.TopicInvoiceIssued, order.ID.String(), event.InvoiceIssuedPayload{
		OrderID:       order.ID.String(),
		InvoiceID:     invoice.ID.String(),
		InvoiceNumber: invoice.InvoiceNumber,
	})
	if envErr == nil {
		_ = s.bus.Publish(ctx, event.TopicInvoiceIssued, env)
	}

	return invoice, nil
}

func (s *InvoiceService) degradeToDraft(ctx context.Context, order *entity.Order, invoice *entity.Invoice, cause error) (*entity.Invoice, error) {
	invoice.Status = enum.InvoiceStatusDraft
	invoice.LastError = cause.Error()
	if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
		return nil, err
	}
	if err := s.orderRepo.UpdateInvoiceStatus(ctx, order.ID, enum.InvoiceStatusDraft); err != nil {
		log.Printf("invoice: order %s invoice status update failed: %v", order.ID, err)
	}
	return invoice, apperror.ErrInvoiceProviderUnavailable
}
