package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/odhiambo/posflow/internal/domain/entity"
	"github.com/odhiambo/posflow/internal/domain/enum"
	"github.com/odhiambo/posflow/internal/domain/event"
	"github.com/odhiambo/posflow/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type paymentFixture struct {
	svc      *PaymentService
	orders   *fakeOrderRepo
	payments *fakePaymentRepo
	settings *fakeSettingsRepo
	issuer   *recordingIssuer
	bus      *recordingBus
}

func newPaymentFixture() *paymentFixture {
	orders := newFakeOrderRepo()
	payments := &fakePaymentRepo{}
	settings := newFakeSettingsRepo()
	issuer := &recordingIssuer{}
	bus := newRecordingBus()
	return &paymentFixture{
		svc:      NewPaymentService(orders, payments, settings, issuer, bus),
		orders:   orders,
		payments: payments,
		settings: settings,
		issuer:   issuer,
		bus:      bus,
	}
}

func (f *paymentFixture) seedOrder(status enum.OrderStatus, tableID *uuid.UUID, total int64) *entity.Order {
	order := &entity.Order{
		UserID:  uuid.New(),
		TableID: tableID,
		OrderNo: "ORD-" + uuid.New().String()[:8],
		Status:  status,
		Total:   total,
	}
	_ = f.orders.Create(context.Background(), order)
	return order
}

func TestCompletePayment_CashServedOrder(t *testing.T) {
	f := newPaymentFixture()
	tableID := uuid.New()
	order := f.seedOrder(enum.OrderStatusServed, &tableID, 203500)

	result, err := f.svc.CompletePayment(context.Background(), &CompletePaymentInput{
		OrderID:        order.ID,
		Method:         enum.PaymentMethodCash,
		AmountReceived: 210000,
	})
	require.NoError(t, err)

	assert.False(t, result.AlreadyPaid)
	assert.Equal(t, enum.OrderStatusPaid, result.Order.Status)
	assert.Equal(t, enum.PaymentMethodCash, result.Order.PaymentMethod)
	require.NotNil(t, result.Order.PaidAt)
	require.NotNil(t, result.Attempt)
	assert.Equal(t, enum.PaymentStatusSucceeded, result.Attempt.Status)
	assert.Equal(t, int64(210000), result.Attempt.AmountReceived)

	// The only open order on the table just closed.
	assert.True(t, result.TableReleased)

	stored, err := f.orders.GetByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.OrderStatusPaid, stored.Status)

	assert.Equal(t, 1, f.bus.topicCount(event.TopicPaymentCompleted))
	assert.Equal(t, 1, f.bus.topicCount(event.TopicOrderStatusChanged))
}

func TestCompletePayment_InsufficientCash(t *testing.T) {
	f := newPaymentFixture()
	order := f.seedOrder(enum.OrderStatusServed, nil, 55000)

	_, err := f.svc.CompletePayment(context.Background(), &CompletePaymentInput{
		OrderID:        order.ID,
		Method:         enum.PaymentMethodCash,
		AmountReceived: 50000,
	})
	assert.ErrorIs(t, err, apperror.ErrInsufficientAmountReceived)

	stored, _ := f.orders.GetByID(context.Background(), order.ID)
	assert.Equal(t, enum.OrderStatusServed, stored.Status)
	assert.Equal(t, 0, f.payments.count())
	assert.Equal(t, 0, f.bus.topicCount(event.TopicPaymentCompleted))
}

func TestCompletePayment_RetrySameMethodIsNoOp(t *testing.T) {
	f := newPaymentFixture()
	order := f.seedOrder(enum.OrderStatusServed, nil, 55000)

	input := &CompletePaymentInput{
		OrderID:        order.ID,
		Method:         enum.PaymentMethodCash,
		AmountReceived: 55000,
	}
	first, err := f.svc.CompletePayment(context.Background(), input)
	require.NoError(t, err)

	second, err := f.svc.CompletePayment(context.Background(), input)
	require.NoError(t, err)

	assert.True(t, second.AlreadyPaid)
	assert.Equal(t, first.Attempt.ID, second.Attempt.ID)
	assert.Equal(t, 1, f.payments.count(), "retry must not create a second attempt")
	assert.Equal(t, 1, f.bus.topicCount(event.TopicPaymentCompleted), "payment.completed fires exactly once per order")
}

func TestCompletePayment_DifferentMethodConflicts(t *testing.T) {
	f := newPaymentFixture()
	order := f.seedOrder(enum.OrderStatusServed, nil, 55000)

	_, err := f.svc.CompletePayment(context.Background(), &CompletePaymentInput{
		OrderID:        order.ID,
		Method:         enum.PaymentMethodCash,
		AmountReceived: 55000,
	})
	require.NoError(t, err)

	_, err = f.svc.CompletePayment(context.Background(), &CompletePaymentInput{
		OrderID: order.ID,
		Method:  enum.PaymentMethodQR,
	})
	assert.ErrorIs(t, err, apperror.ErrPaymentAlreadyCompleted)
}

func TestCompletePayment_LostRaceResolvesToAlreadyCompleted(t *testing.T) {
	f := newPaymentFixture()
	order := f.seedOrder(enum.OrderStatusServed, nil, 55000)

	// A competing writer settles the order between our status read and the
	// conditional write.
	fired := false
	f.orders.beforeTransition = func() {
		if !fired {
			fired = true
			f.orders.orders[order.ID].Status = enum.OrderStatusPaid
			f.orders.orders[order.ID].PaymentMethod = enum.PaymentMethodQR
		}
	}

	_, err := f.svc.CompletePayment(context.Background(), &CompletePaymentInput{
		OrderID:        order.ID,
		Method:         enum.PaymentMethodCash,
		AmountReceived: 55000,
	})
	assert.ErrorIs(t, err, apperror.ErrPaymentAlreadyCompleted)

	// The loser's attempt is recorded as failed, not succeeded.
	attempts, _ := f.payments.GetByOrderID(context.Background(), order.ID)
	require.Len(t, attempts, 1)
	assert.Equal(t, enum.PaymentStatusFailed, attempts[0].Status)
	assert.Equal(t, 0, f.bus.topicCount(event.TopicPaymentCompleted))
}

func TestCompletePayment_LostRaceSameMethodReturnsRecordedResult(t *testing.T) {
	f := newPaymentFixture()
	order := f.seedOrder(enum.OrderStatusServed, nil, 55000)

	// The competing writer is another terminal retrying the same cash
	// payment; the loser should see the winner's recorded outcome, not a
	// conflict.
	fired := false
	f.orders.beforeTransition = func() {
		if !fired {
			fired = true
			f.orders.orders[order.ID].Status = enum.OrderStatusPaid
			f.orders.orders[order.ID].PaymentMethod = enum.PaymentMethodCash
			_ = f.payments.Create(context.Background(), &entity.PaymentAttempt{
				OrderID:        order.ID,
				Method:         enum.PaymentMethodCash,
				AmountReceived: 55000,
				Status:         enum.PaymentStatusSucceeded,
			})
		}
	}

	result, err := f.svc.CompletePayment(context.Background(), &CompletePaymentInput{
		OrderID:        order.ID,
		Method:         enum.PaymentMethodCash,
		AmountReceived: 55000,
	})
	require.NoError(t, err)
	assert.True(t, result.AlreadyPaid)
	require.NotNil(t, result.Attempt)
	assert.Equal(t, enum.PaymentStatusSucceeded, result.Attempt.Status)
	assert.Equal(t, 0, f.bus.topicCount(event.TopicPaymentCompleted))
}

func TestCompletePayment_DineInRequiresServed(t *testing.T) {
	f := newPaymentFixture()
	tableID := uuid.New()
	order := f.seedOrder(enum.OrderStatusPending, &tableID, 55000)

	_, err := f.svc.CompletePayment(context.Background(), &CompletePaymentInput{
		OrderID:        order.ID,
		Method:         enum.PaymentMethodCash,
		AmountReceived: 55000,
	})
	assert.ErrorIs(t, err, apperror.ErrInvalidStateTransition)
}

func TestCompletePayment_WalkInPaysFromPending(t *testing.T) {
	f := newPaymentFixture()
	order := f.seedOrder(enum.OrderStatusPending, nil, 55000)

	result, err := f.svc.CompletePayment(context.Background(), &CompletePaymentInput{
		OrderID:        order.ID,
		Method:         enum.PaymentMethodCash,
		AmountReceived: 55000,
	})
	require.NoError(t, err)
	assert.Equal(t, enum.OrderStatusPaid, result.Order.Status)
}

func TestCompletePayment_CancelledOrderRejected(t *testing.T) {
	f := newPaymentFixture()
	order := f.seedOrder(enum.OrderStatusCancelled, nil, 55000)

	_, err := f.svc.CompletePayment(context.Background(), &CompletePaymentInput{
		OrderID:        order.ID,
		Method:         enum.PaymentMethodCash,
		AmountReceived: 55000,
	})
	assert.ErrorIs(t, err, apperror.ErrInvalidStateTransition)
}

func TestCompletePayment_TableStaysOccupiedWithSiblingOrder(t *testing.T) {
	f := newPaymentFixture()
	tableID := uuid.New()
	order := f.seedOrder(enum.OrderStatusServed, &tableID, 55000)
	f.seedOrder(enum.OrderStatusPreparing, &tableID, 30000)

	result, err := f.svc.CompletePayment(context.Background(), &CompletePaymentInput{
		OrderID:        order.ID,
		Method:         enum.PaymentMethodCash,
		AmountReceived: 55000,
	})
	require.NoError(t, err)
	assert.False(t, result.TableReleased)
}

func TestCompletePayment_InvoiceFailureDoesNotAffectPayment(t *testing.T) {
	f := newPaymentFixture()
	settings, _ := f.settings.Get(context.Background())
	settings.EInvoiceEnabled = true
	_ = f.settings.Update(context.Background(), settings)
	f.issuer.err = apperror.ErrInvoiceProviderUnavailable

	order := f.seedOrder(enum.OrderStatusServed, nil, 55000)

	result, err := f.svc.CompletePayment(context.Background(), &CompletePaymentInput{
		OrderID:        order.ID,
		Method:         enum.PaymentMethodCash,
		AmountReceived: 55000,
	})
	require.NoError(t, err)
	assert.Equal(t, enum.OrderStatusPaid, result.Order.Status)
	assert.Equal(t, 1, f.issuer.calls)
}

func TestCompletePayment_InvoiceSkippedWhenDisabled(t *testing.T) {
	f := newPaymentFixture()
	order := f.seedOrder(enum.OrderStatusServed, nil, 55000)

	_, err := f.svc.CompletePayment(context.Background(), &CompletePaymentInput{
		OrderID:        order.ID,
		Method:         enum.PaymentMethodCash,
		AmountReceived: 55000,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, f.issuer.calls)
}

func TestFailPayment_PublishesAndKeepsStatus(t *testing.T) {
	f := newPaymentFixture()
	order := f.seedOrder(enum.OrderStatusServed, nil, 55000)

	result, err := f.svc.FailPayment(context.Background(), order.ID, enum.PaymentMethodQR, "corr-1", "gateway timeout")
	require.NoError(t, err)
	require.NotNil(t, result.Attempt)
	assert.Equal(t, enum.PaymentStatusFailed, result.Attempt.Status)
	assert.False(t, result.AlreadyPaid)

	stored, _ := f.orders.GetByID(context.Background(), order.ID)
	assert.Equal(t, enum.OrderStatusServed, stored.Status, "a failed attempt leaves the order payable")
	assert.Equal(t, 1, f.bus.topicCount(event.TopicPaymentFailed))

	attempts, _ := f.payments.GetByOrderID(context.Background(), order.ID)
	require.Len(t, attempts, 1)
	assert.Equal(t, "gateway timeout", attempts[0].FailureReason)
}

func TestHandleGatewayNotification_CompletesOrder(t *testing.T) {
	f := newPaymentFixture()
	order := f.seedOrder(enum.OrderStatusServed, nil, 55000)

	// The QR attempt was opened when the code was shown to the customer.
	_ = f.payments.Create(context.Background(), &entity.PaymentAttempt{
		OrderID:       order.ID,
		Method:        enum.PaymentMethodQR,
		CorrelationID: "gw-abc",
		Status:        enum.PaymentStatusPending,
	})

	result, err := f.svc.HandleGatewayNotification(context.Background(), "gw-abc", enum.PaymentMethodQR, true, "")
	require.NoError(t, err)
	assert.Equal(t, enum.OrderStatusPaid, result.Order.Status)
}

func TestHandleGatewayNotification_RetriedCallbackAbsorbed(t *testing.T) {
	f := newPaymentFixture()
	order := f.seedOrder(enum.OrderStatusServed, nil, 55000)

	_ = f.payments.Create(context.Background(), &entity.PaymentAttempt{
		OrderID:       order.ID,
		Method:        enum.PaymentMethodQR,
		CorrelationID: "gw-abc",
		Status:        enum.PaymentStatusPending,
	})

	_, err := f.svc.HandleGatewayNotification(context.Background(), "gw-abc", enum.PaymentMethodQR, true, "")
	require.NoError(t, err)
	completedBefore := f.bus.topicCount(event.TopicPaymentCompleted)

	result, err := f.svc.HandleGatewayNotification(context.Background(), "gw-abc", enum.PaymentMethodQR, true, "")
	require.NoError(t, err)
	assert.True(t, result.AlreadyPaid)
	assert.Equal(t, completedBefore, f.bus.topicCount(event.TopicPaymentCompleted))
}

func TestHandleGatewayNotification_FailureReturnsRecordedAttempt(t *testing.T) {
	f := newPaymentFixture()
	order := f.seedOrder(enum.OrderStatusServed, nil, 55000)

	_ = f.payments.Create(context.Background(), &entity.PaymentAttempt{
		OrderID:       order.ID,
		Method:        enum.PaymentMethodQR,
		CorrelationID: "gw-abc",
		Status:        enum.PaymentStatusPending,
	})

	result, err := f.svc.HandleGatewayNotification(context.Background(), "gw-abc", enum.PaymentMethodQR, false, "declined by issuer")
	require.NoError(t, err)
	require.NotNil(t, result)
	require.NotNil(t, result.Attempt)
	assert.Equal(t, enum.PaymentStatusFailed, result.Attempt.Status)
	assert.Equal(t, "declined by issuer", result.Attempt.FailureReason)
	assert.Equal(t, enum.OrderStatusServed, result.Order.Status)
	assert.Equal(t, 1, f.bus.topicCount(event.TopicPaymentFailed))
}

func TestHandleGatewayNotification_UnknownCorrelation(t *testing.T) {
	f := newPaymentFixture()

	_, err := f.svc.HandleGatewayNotification(context.Background(), "gw-missing", enum.PaymentMethodQR, true, "")
	require.Error(t, err)

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, 404, appErr.Code)
}

func TestCompletePayment_UnsupportedMethod(t *testing.T) {
	f := newPaymentFixture()
	order := f.seedOrder(enum.OrderStatusServed, nil, 55000)

	_, err := f.svc.CompletePayment(context.Background(), &CompletePaymentInput{
		OrderID: order.ID,
		Method:  enum.PaymentMethod("voucher"),
	})
	require.Error(t, err)
	assert.Equal(t, 0, f.payments.count())
}
