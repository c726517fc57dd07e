package eventbus

import (
	"context"
	"testing"
	"time"

	"github.com/odhiambo/posflow/internal/domain/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBus_PublishReachesSubscriber(t *testing.T) {
	bus := NewMemoryBus()
	ctx := context.Background()

	ch, cancel := bus.Subscribe(ctx, event.TopicPaymentCompleted)
	defer cancel()

	env, err := event.NewEnvelope(event.TopicPaymentCompleted, "order-1",
		event.PaymentCompletedPayload{OrderID: "order-1", Method: "cash"})
	require.NoError(t, err)

	require.NoError(t, bus.Publish(ctx, event.TopicPaymentCompleted, env))

	select {
	case got := <-ch:
		assert.Equal(t, env.EventID, got.EventID)
		assert.Equal(t, "order-1", got.CorrelationID)
	case <-time.After(time.Second):
		t.Fatal("no event received")
	}
}

func TestMemoryBus_TopicsAreIsolated(t *testing.T) {
	bus := NewMemoryBus()
	ctx := context.Background()

	paymentCh, cancelPayment := bus.Subscribe(ctx, event.TopicPaymentCompleted)
	defer cancelPayment()
	statusCh, cancelStatus := bus.Subscribe(ctx, event.TopicOrderStatusChanged)
	defer cancelStatus()

	env, err := event.NewEnvelope(event.TopicOrderStatusChanged, "order-2",
		event.OrderStatusChangedPayload{OrderID: "order-2", FromStatus: "Served", ToStatus: "Paid"})
	require.NoError(t, err)
	require.NoError(t, bus.Publish(ctx, event.TopicOrderStatusChanged, env))

	select {
	case <-statusCh:
	case <-time.After(time.Second):
		t.Fatal("status subscriber missed the event")
	}

	select {
	case <-paymentCh:
		t.Fatal("payment subscriber received event from another topic")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestMemoryBus_CancelStopsDelivery(t *testing.T) {
	bus := NewMemoryBus()
	ctx := context.Background()

	ch, cancel := bus.Subscribe(ctx, event.TopicInvoiceIssued)
	cancel()

	_, ok := <-ch
	assert.False(t, ok, "channel should be closed after cancel")

	env, err := event.NewEnvelope(event.TopicInvoiceIssued, "order-3", event.InvoiceIssuedPayload{})
	require.NoError(t, err)
	assert.NoError(t, bus.Publish(ctx, event.TopicInvoiceIssued, env))
}

func TestMemoryBus_MultipleSubscribersEachReceive(t *testing.T) {
	bus := NewMemoryBus()
	ctx := context.Background()

	first, cancelFirst := bus.Subscribe(ctx, event.TopicPaymentFailed)
	defer cancelFirst()
	second, cancelSecond := bus.Subscribe(ctx, event.TopicPaymentFailed)
	defer cancelSecond()

	env, err := event.NewEnvelope(event.TopicPaymentFailed, "order-4",
		event.PaymentFailedPayload{OrderID: "order-4", Reason: "declined"})
	require.NoError(t, err)
	require.NoError(t, bus.Publish(ctx, event.TopicPaymentFailed, env))

	for _, ch := range []<-chan event.Envelope{first, second} {
		select {
		case got := <-ch:
			assert.Equal(t, env.EventID, got.EventID)
		case <-time.After(time.Second):
			t.Fatal("subscriber missed the event")
		}
	}
}
