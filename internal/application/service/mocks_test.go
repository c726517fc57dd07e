package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/odhiambo/posflow/internal/domain/entity"
	"github.com/odhiambo/posflow/internal/domain/enum"
	"github.com/odhiambo/posflow/internal/domain/event"
	"github.com/odhiambo/posflow/internal/domain/repository"
)

// In-memory fakes for the repository interfaces. The order fake implements
// the same conditional-write semantics as the SQL implementation so the
// coordinator's race handling can be exercised deterministically.

type fakeOrderRepo struct {
	mu       sync.Mutex
	orders   map[uuid.UUID]*entity.Order
	items    map[uuid.UUID][]entity.OrderItem
	products *fakeProductRepo

	// beforeTransition, when set, runs inside the lock right before the
	// conditional write. Tests use it to interleave a competing writer.
	beforeTransition func()
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{
		orders: make(map[uuid.UUID]*entity.Order),
		items:  make(map[uuid.UUID][]entity.OrderItem),
	}
}

func (r *fakeOrderRepo) Create(_ context.Context, order *entity.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	order.CreatedAt = time.Now()
	clone := *order
	r.orders[order.ID] = &clone
	return nil
}

func (r *fakeOrderRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, nil
	}
	clone := *order
	return &clone, nil
}

func (r *fakeOrderRepo) GetByOrderNo(_ context.Context, orderNo string) (*entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, order := range r.orders {
		if order.OrderNo == orderNo {
			clone := *order
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeOrderRepo) GetWithItems(_ context.Context, id uuid.UUID) (*entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, nil
	}
	clone := *order
	clone.Items = append([]entity.OrderItem(nil), r.items[id]...)
	if r.products != nil {
		for i := range clone.Items {
			if p, ok := r.products.products[clone.Items[i].ProductID]; ok {
				clone.Items[i].Product = *p
			}
		}
	}
	return &clone, nil
}

func (r *fakeOrderRepo) List(_ context.Context, _ *repository.OrderFilterParams) ([]entity.Order, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Order
	for _, order := range r.orders {
		out = append(out, *order)
	}
	return out, int64(len(out)), nil
}

func (r *fakeOrderRepo) TransitionStatus(_ context.Context, id uuid.UUID, expected []enum.OrderStatus, to enum.OrderStatus, extra map[string]interface{}) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.beforeTransition != nil {
		r.beforeTransition()
	}
	order, ok := r.orders[id]
	if !ok {
		return false, nil
	}
	matched := false
	for _, st := range expected {
		if order.Status == st {
			matched = true
			break
		}
	}
	if !matched {
		return false, nil
	}
	order.Status = to
	for col, val := range extra {
		switch col {
		case "payment_method":
			order.PaymentMethod = val.(enum.PaymentMethod)
		case "paid_at":
			t := val.(time.Time)
			order.PaidAt = &t
		case "invoice_status":
			order.InvoiceStatus = val.(enum.InvoiceStatus)
		}
	}
	return true, nil
}

func (r *fakeOrderRepo) UpdateInvoiceStatus(_ context.Context, id uuid.UUID, status enum.InvoiceStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if order, ok := r.orders[id]; ok {
		order.InvoiceStatus = status
	}
	return nil
}

func (r *fakeOrderRepo) CountOpenOrdersForTable(_ context.Context, tableID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, order := range r.orders {
		if order.TableID != nil && *order.TableID == tableID && !order.Status.IsTerminal() {
			n++
		}
	}
	return n, nil
}

// setStatus flips an order's status directly, bypassing the CAS. Used by
// tests to stage scenarios.
func (r *fakeOrderRepo) setStatus(id uuid.UUID, status enum.OrderStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if order, ok := r.orders[id]; ok {
		order.Status = status
	}
}

type fakeOrderItemRepo struct {
	orders *fakeOrderRepo
}

func (r *fakeOrderItemRepo) CreateBatch(_ context.Context, items []entity.OrderItem) error {
	r.orders.mu.Lock()
	defer r.orders.mu.Unlock()
	for i := range items {
		if items[i].ID == uuid.Nil {
			items[i].ID = uuid.New()
		}
		r.orders.items[items[i].OrderID] = append(r.orders.items[items[i].OrderID], items[i])
	}
	return nil
}

func (r *fakeOrderItemRepo) GetByOrderID(_ context.Context, orderID uuid.UUID) ([]entity.OrderItem, error) {
	r.orders.mu.Lock()
	defer r.orders.mu.Unlock()
	return append([]entity.OrderItem(nil), r.orders.items[orderID]...), nil
}

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]*entity.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[uuid.UUID]*entity.Product)}
}

func (r *fakeProductRepo) Create(_ context.Context, p *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	clone := *p
	r.products[p.ID] = &clone
	return nil
}

func (r *fakeProductRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	clone := *p
	return &clone, nil
}

func (r *fakeProductRepo) GetByIDs(_ context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Product
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if p.SKU == sku {
			clone := *p
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) Update(_ context.Context, p *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *p
	r.products[p.ID] = &clone
	return nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) List(_ context.Context, _ *repository.ProductFilterParams) ([]entity.Product, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Product
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

type fakeTableRepo struct {
	mu     sync.Mutex
	tables map[uuid.UUID]*entity.Table
}

func newFakeTableRepo() *fakeTableRepo {
	return &fakeTableRepo{tables: make(map[uuid.UUID]*entity.Table)}
}

func (r *fakeTableRepo) Create(_ context.Context, t *entity.Table) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	clone := *t
	r.tables[t.ID] = &clone
	return nil
}

func (r *fakeTableRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Table, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tables[id]
	if !ok {
		return nil, nil
	}
	clone := *t
	return &clone, nil
}

func (r *fakeTableRepo) GetByNumber(_ context.Context, number int) (*entity.Table, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tables {
		if t.Number == number {
			clone := *t
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeTableRepo) List(_ context.Context) ([]entity.Table, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Table
	for _, t := range r.tables {
		out = append(out, *t)
	}
	return out, nil
}

func (r *fakeTableRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tables, id)
	return nil
}

type fakeSettingsRepo struct {
	mu       sync.Mutex
	settings entity.StoreSettings
}

func newFakeSettingsRepo() *fakeSettingsRepo {
	return &fakeSettingsRepo{settings: entity.StoreSettings{
		ID:        uuid.New(),
		StoreName: "posflow",
		Currency:  "VND",
	}}
}

func (r *fakeSettingsRepo) Get(_ context.Context) (*entity.StoreSettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := r.settings
	return &clone, nil
}

func (r *fakeSettingsRepo) Update(_ context.Context, s *entity.StoreSettings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settings = *s
	return nil
}

type fakePaymentRepo struct {
	mu       sync.Mutex
	attempts []*entity.PaymentAttempt
}

func (r *fakePaymentRepo) Create(_ context.Context, a *entity.PaymentAttempt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.StartedAt.IsZero() {
		a.StartedAt = time.Now()
	}
	clone := *a
	r.attempts = append(r.attempts, &clone)
	return nil
}

func (r *fakePaymentRepo) Update(_ context.Context, a *entity.PaymentAttempt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.attempts {
		if r.attempts[i].ID == a.ID {
			clone := *a
			r.attempts[i] = &clone
			return nil
		}
	}
	return nil
}

func (r *fakePaymentRepo) GetByOrderID(_ context.Context, orderID uuid.UUID) ([]entity.PaymentAttempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.PaymentAttempt
	for _, a := range r.attempts {
		if a.OrderID == orderID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakePaymentRepo) GetSucceededByOrderID(_ context.Context, orderID uuid.UUID) (*entity.PaymentAttempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.attempts {
		if a.OrderID == orderID && a.Status == enum.PaymentStatusSucceeded {
			clone := *a
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakePaymentRepo) GetByCorrelationID(_ context.Context, correlationID string) (*entity.PaymentAttempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.attempts {
		if a.CorrelationID == correlationID {
			clone := *a
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakePaymentRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.attempts)
}

type fakeInvoiceRepo struct {
	mu       sync.Mutex
	invoices map[uuid.UUID]*entity.Invoice
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{invoices: make(map[uuid.UUID]*entity.Invoice)}
}

func (r *fakeInvoiceRepo) Create(_ context.Context, inv *entity.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	clone := *inv
	r.invoices[inv.ID] = &clone
	return nil
}

func (r *fakeInvoiceRepo) Update(_ context.Context, inv *entity.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *inv
	r.invoices[inv.ID] = &clone
	return nil
}

func (r *fakeInvoiceRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.invoices[id]
	if !ok {
		return nil, nil
	}
	clone := *inv
	return &clone, nil
}

func (r *fakeInvoiceRepo) GetByOrderID(_ context.Context, orderID uuid.UUID) (*entity.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, inv := range r.invoices {
		if inv.OrderID == orderID {
			clone := *inv
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeInvoiceRepo) ListDrafts(_ context.Context, limit int) ([]entity.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Invoice
	for _, inv := range r.invoices {
		if inv.Status == enum.InvoiceStatusDraft {
			out = append(out, *inv)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

// recordingBus captures published envelopes per topic.
type recordingBus struct {
	mu        sync.Mutex
	published map[string][]event.Envelope
}

func newRecordingBus() *recordingBus {
	return &recordingBus{published: make(map[string][]event.Envelope)}
}

func (b *recordingBus) Publish(_ context.Context, topic string, env event.Envelope) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published[topic] = append(b.published[topic], env)
	return nil
}

func (b *recordingBus) Subscribe(_ context.Context, _ string) (<-chan event.Envelope, func()) {
	ch := make(chan event.Envelope)
	return ch, func() {}
}

func (b *recordingBus) topicCount(topic string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.published[topic])
}

// fakeProvider is a scripted e-invoice provider.
type fakeProvider struct {
	mu     sync.Mutex
	err    error
	result ProviderInvoice
	calls  int
}

func (p *fakeProvider) Publish(_ context.Context, _ *entity.Order, _ *entity.Invoice) (*ProviderInvoice, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	result := p.result
	return &result, nil
}

// recordingIssuer stands in for the invoice service in payment tests.
type recordingIssuer struct {
	mu    sync.Mutex
	err   error
	calls int
}

func (i *recordingIssuer) IssueForOrder(_ context.Context, _ *entity.Order, _, _ string) (*entity.Invoice, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.calls++
	if i.err != nil {
		return nil, i.err
	}
	return &entity.Invoice{Status: enum.InvoiceStatusIssued}, nil
}
