package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/odhiambo/posflow/internal/application/service"
	"github.com/odhiambo/posflow/internal/presentation/http/dto/response"
)

// InvoiceHandler handles e-invoice HTTP requests
type InvoiceHandler struct {
	invoiceService *service.InvoiceService
	orderService   *service.OrderService
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoiceService *service.InvoiceService, orderService *service.OrderService) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
		orderService:   orderService,
	}
}

// GetByOrder returns the invoice attached to an order
func (h *InvoiceHandler) GetByOrder(c *gin.Context) {
	orderID, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	invoice, err := h.invoiceService.GetByOrderID(c.Request.Context(), orderID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice retrieved", invoice)
}

// Issue requests issuance (or re-issuance of a draft) for a paid order
func (h *InvoiceHandler) Issue(c *gin.Context) {
	orderID, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		response.Error(c, err)
		return
	}

	invoice, err := h.invoiceService.IssueForOrder(c.Request.Context(), order, c.Query("buyer_name"), c.Query("buyer_tax_code"))
	if err != nil {
		// The invoice may have degraded to a draft; surface both.
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice issued", invoice)
}

// Retry re-attempts publishing a draft invoice
func (h *InvoiceHandler) Retry(c *gin.Context) {
	invoiceID, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid invoice ID")
		return
	}

	invoice, err := h.invoiceService.RetryDraft(c.Request.Context(), invoiceID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice issued", invoice)
}
