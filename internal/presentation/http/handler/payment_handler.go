package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/odhiambo/posflow/internal/application/service"
	"github.com/odhiambo/posflow/internal/domain/enum"
	"github.com/odhiambo/posflow/internal/presentation/http/dto/request"
	"github.com/odhiambo/posflow/internal/presentation/http/dto/response"
)

// PaymentHandler handles payment-related HTTP requests
type PaymentHandler struct {
	paymentService *service.PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// Complete handles cashier-initiated payment completion
func (h *PaymentHandler) Complete(c *gin.Context) {
	orderID, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	var req request.CompletePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}

	result, err := h.paymentService.CompletePayment(c.Request.Context(), &service.CompletePaymentInput{
		OrderID:        orderID,
		Method:         enum.PaymentMethod(req.Method),
		CorrelationID:  req.CorrelationID,
		AmountReceived: req.AmountReceived,
		BuyerName:      req.BuyerName,
		BuyerTaxCode:   req.BuyerTaxCode,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	if result.AlreadyPaid {
		response.OK(c, "Payment was already completed", result)
		return
	}
	response.OK(c, "Payment completed successfully", result)
}

// Fail records a failed payment attempt for an order
func (h *PaymentHandler) Fail(c *gin.Context) {
	orderID, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	var req request.FailPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}

	result, err := h.paymentService.FailPayment(c.Request.Context(), orderID, enum.PaymentMethod(req.Method), req.CorrelationID, req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment failure recorded", result)
}

// ListAttempts returns the payment history of an order
func (h *PaymentHandler) ListAttempts(c *gin.Context) {
	orderID, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	attempts, err := h.paymentService.ListAttempts(c.Request.Context(), orderID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment attempts retrieved", attempts)
}

// GatewayWebhook handles the asynchronous settlement callback from the
// payment gateway. The endpoint is unauthenticated but only acts on known
// correlation ids, and retried callbacks are absorbed.
func (h *PaymentHandler) GatewayWebhook(c *gin.Context) {
	var req request.GatewayNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}

	result, err := h.paymentService.HandleGatewayNotification(
		c.Request.Context(), req.CorrelationID, enum.PaymentMethod(req.Method), req.Success, req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Notification processed", result)
}
