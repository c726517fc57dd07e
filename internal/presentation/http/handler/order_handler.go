package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/odhiambo/posflow/internal/application/service"
	"github.com/odhiambo/posflow/internal/domain/enum"
	"github.com/odhiambo/posflow/internal/domain/repository"
	"github.com/odhiambo/posflow/internal/presentation/http/dto/request"
	"github.com/odhiambo/posflow/internal/presentation/http/dto/response"
	"github.com/odhiambo/posflow/pkg/pagination"
)

// OrderHandler handles order-related HTTP requests
type OrderHandler struct {
	orderService *service.OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

func toItemInputs(items []request.OrderItemRequest) ([]service.OrderItemInput, bool) {
	inputs := make([]service.OrderItemInput, len(items))
	for i, item := range items {
		productID, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, false
		}
		inputs[i] = service.OrderItemInput{ProductID: productID, Quantity: item.Quantity}
	}
	return inputs, true
}

// Preview prices a cart without creating an order
func (h *OrderHandler) Preview(c *gin.Context) {
	var req request.PreviewTotalsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}

	items, ok := toItemInputs(req.Items)
	if !ok {
		response.BadRequest(c, "Invalid product ID")
		return
	}

	totals, err := h.orderService.PreviewTotals(c.Request.Context(), items, req.Discount)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Totals calculated", totals)
}

// Create handles order creation
func (h *OrderHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}

	items, ok := toItemInputs(req.Items)
	if !ok {
		response.BadRequest(c, "Invalid product ID")
		return
	}

	input := &service.CreateOrderInput{
		UserID:   *userID,
		Discount: req.Discount,
		Note:     req.Note,
		Items:    items,
	}
	if req.TableID != "" {
		tableID, err := uuid.Parse(req.TableID)
		if err != nil {
			response.BadRequest(c, "Invalid table ID")
			return
		}
		input.TableID = &tableID
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Order created successfully", order)
}

// Get handles retrieving a single order
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order retrieved successfully", order)
}

// List handles listing orders
func (h *OrderHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	params := &repository.OrderFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    page,
			PerPage: perPage,
		},
		Search:    c.Query("search"),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}
	params.Pagination.Validate()

	if statusStr := c.Query("status"); statusStr != "" {
		if statusInt, err := strconv.Atoi(statusStr); err == nil {
			status := enum.OrderStatus(statusInt)
			params.Status = &status
		}
	}

	if tableIDStr := c.Query("table_id"); tableIDStr != "" {
		if tableID, err := uuid.Parse(tableIDStr); err == nil {
			params.TableID = &tableID
		}
	}

	if startDateStr := c.Query("start_date"); startDateStr != "" {
		if startDate, err := time.Parse("2006-01-02", startDateStr); err == nil {
			params.StartDate = &startDate
		}
	}

	if endDateStr := c.Query("end_date"); endDateStr != "" {
		if endDate, err := time.Parse("2006-01-02", endDateStr); err == nil {
			params.EndDate = &endDate
		}
	}

	result, err := h.orderService.ListOrders(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Orders retrieved successfully", result)
}

// UpdateStatus handles a kitchen workflow transition
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	var req request.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}

	target, ok := parseOrderStatus(req.Status)
	if !ok {
		response.BadRequest(c, "Unknown order status")
		return
	}

	order, err := h.orderService.UpdateStatus(c.Request.Context(), id, target)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order status updated", order)
}

// Cancel handles order cancellation
func (h *OrderHandler) Cancel(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	if err := h.orderService.CancelOrder(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order cancelled", nil)
}

// Receipt returns the printable receipt of a paid order
func (h *OrderHandler) Receipt(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	receipt, err := h.orderService.BuildReceipt(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt generated", receipt)
}

func parseOrderStatus(s string) (enum.OrderStatus, bool) {
	for i := enum.OrderStatusPending; i <= enum.OrderStatusCancelled; i++ {
		if i.String() == s {
			return i, true
		}
	}
	return enum.OrderStatusPending, false
}
