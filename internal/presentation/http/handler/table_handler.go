package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/odhiambo/posflow/internal/application/service"
	"github.com/odhiambo/posflow/internal/presentation/http/dto/request"
	"github.com/odhiambo/posflow/internal/presentation/http/dto/response"
)

// TableHandler handles dining table HTTP requests
type TableHandler struct {
	tableService *service.TableService
}

// NewTableHandler creates a new table handler
func NewTableHandler(tableService *service.TableService) *TableHandler {
	return &TableHandler{tableService: tableService}
}

// Create handles table creation
func (h *TableHandler) Create(c *gin.Context) {
	var req request.CreateTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}

	seats := req.Seats
	if seats == 0 {
		seats = 4
	}

	table, err := h.tableService.CreateTable(c.Request.Context(), &service.CreateTableInput{
		Number: req.Number,
		Area:   req.Area,
		Seats:  seats,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Table created successfully", table)
}

// Get returns one table with its derived occupancy
func (h *TableHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid table ID")
		return
	}

	table, err := h.tableService.GetTable(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Table retrieved successfully", table)
}

// List returns the floor plan with occupancy per table
func (h *TableHandler) List(c *gin.Context) {
	tables, err := h.tableService.ListTables(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Tables retrieved successfully", tables)
}

// Delete removes a table with no open orders
func (h *TableHandler) Delete(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid table ID")
		return
	}

	if err := h.tableService.DeleteTable(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
