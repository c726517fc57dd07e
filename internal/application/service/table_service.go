package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/odhiambo/posflow/internal/domain/entity"
	"github.com/odhiambo/posflow/internal/domain/repository"
	"github.com/odhiambo/posflow/pkg/apperror"
)

// TableService handles dining table operations. A table's occupancy is
// always derived from its open orders, so there is no occupy/release write
// anywhere in the system.
type TableService struct {
	tableRepo repository.TableRepository
	orderRepo repository.OrderRepository
}

// NewTableService creates a new table service
func NewTableService(tableRepo repository.TableRepository, orderRepo repository.OrderRepository) *TableService {
	return &TableService{
		tableRepo: tableRepo,
		orderRepo: orderRepo,
	}
}

// TableView is a table together with its derived occupancy.
type TableView struct {
	entity.Table
	Occupied   bool  `json:"occupied"`
	OpenOrders int64 `json:"open_orders"`
}

// CreateTableInput represents the create table input
type CreateTableInput struct {
	Number int
	Area   string
	Seats  int
}

// CreateTable adds a dining table
func (s *TableService) CreateTable(ctx context.Context, input *CreateTableInput) (*entity.Table, error) {
	existing, err := s.tableRepo.GetByNumber(ctx, input.Number)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Table number already exists")
	}

	table := &entity.Table{
		Number: input.Number,
		Area:   input.Area,
		Seats:  input.Seats,
	}
	if err := s.tableRepo.Create(ctx, table); err != nil {
		return nil, err
	}
	return table, nil
}

// GetTable returns one table with derived occupancy.
func (s *TableService) GetTable(ctx context.Context, id uuid.UUID) (*TableView, error) {
	table, err := s.tableRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if table == nil {
		return nil, apperror.NewNotFoundError("Table")
	}

	open, err := s.orderRepo.CountOpenOrdersForTable(ctx, id)
	if err != nil {
		return nil, err
	}
	return &TableView{Table: *table, Occupied: open > 0, OpenOrders: open}, nil
}

// ListTables returns the floor plan with derived occupancy per table.
func (s *TableService) ListTables(ctx context.Context) ([]TableView, error) {
	tables, err := s.tableRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]TableView, len(tables))
	for i := range tables {
		open, err := s.orderRepo.CountOpenOrdersForTable(ctx, tables[i].ID)
		if err != nil {
			return nil, err
		}
		views[i] = TableView{Table: tables[i], Occupied: open > 0, OpenOrders: open}
	}
	return views, nil
}

// DeleteTable removes a table that has no open orders.
func (s *TableService) DeleteTable(ctx context.Context, id uuid.UUID) error {
	table, err := s.tableRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if table == nil {
		return apperror.NewNotFoundError("Table")
	}

	open, err := s.orderRepo.CountOpenOrdersForTable(ctx, id)
	if err != nil {
		return err
	}
	if open > 0 {
		return apperror.NewConflictError("Table has open orders")
	}
	return s.tableRepo.Delete(ctx, id)
}
