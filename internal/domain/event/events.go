package event

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Topics published by the payment coordinator and order service. Subscribers
// must tolerate duplicate delivery and reconcile missed events by re-fetching
// the authoritative order.
const (
	TopicOrderStatusChanged = "order.statusChanged"
	TopicPaymentCompleted   = "payment.completed"
	TopicPaymentFailed      = "payment.failed"
	TopicInvoiceIssued      = "invoice.issued"
)

// Envelope wraps every published event.
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

// NewEnvelope builds an envelope around a marshalled payload. The correlation
// id is normally the order id so all events for one order can be tied
// together.
func NewEnvelope(eventType, correlationID string, payload interface{}) (Envelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{
		EventID:       uuid.New().String(),
		EventType:     eventType,
		OccurredAt:    time.Now().UTC(),
		Producer:      "posflow-api",
		CorrelationID: correlationID,
		Payload:       raw,
	}, nil
}

// OrderStatusChangedPayload is published on every successful status
// transition, after the write is committed.
type OrderStatusChangedPayload struct {
	OrderID    string `json:"order_id"`
	FromStatus string `json:"from_status"`
	ToStatus   string `json:"to_status"`
}

// PaymentCompletedPayload is published exactly once per order, by the
// completion coordinator, after the paid status is committed.
type PaymentCompletedPayload struct {
	OrderID     string    `json:"order_id"`
	Method      string    `json:"method"`
	TotalAmount int64     `json:"total_amount"`
	PaidAt      time.Time `json:"paid_at"`
}

// PaymentFailedPayload reports a failed payment attempt. The order stays in
// its current status and may be retried.
type PaymentFailedPayload struct {
	OrderID string `json:"order_id"`
	Method  string `json:"method"`
	Reason  string `json:"reason"`
}

// InvoiceIssuedPayload is published once the e-invoice provider confirms a
// number for the order's invoice.
type InvoiceIssuedPayload struct {
	OrderID       string `json:"order_id"`
	InvoiceID     string `json:"invoice_id"`
	InvoiceNumber string `json:"invoice_number"`
}

// Bus is the synchronization channel between the single writer (the API
// process) and every observing display. Publish happens only after the
// authoritative store reflects the change, so a subscriber that re-fetches on
// receipt never sees stale state.
type Bus interface {
	Publish(ctx context.Context, topic string, env Envelope) error
	// Subscribe returns a channel of envelopes for the topic and a cancel
	// function that releases the subscription.
	Subscribe(ctx context.Context, topic string) (<-chan Envelope, func())
}
