package request

// OrderItemRequest is one cart line. Only the product reference and quantity
// come from the client; prices are resolved server-side.
type OrderItemRequest struct {
	ProductID string `json:"product_id" binding:"required,uuid"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

// CreateOrderRequest represents the create order request payload
type CreateOrderRequest struct {
	TableID  string             `json:"table_id" binding:"omitempty,uuid"`
	Discount int64              `json:"discount" binding:"omitempty,min=0"`
	Note     string             `json:"note"`
	Items    []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// PreviewTotalsRequest represents the cart preview request payload
type PreviewTotalsRequest struct {
	Discount int64              `json:"discount" binding:"omitempty,min=0"`
	Items    []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// UpdateOrderStatusRequest represents the status transition request payload
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}
