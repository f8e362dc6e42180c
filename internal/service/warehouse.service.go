package service

import (
	"context"
	"database/sql"
	"log/slog"

	"shopline-api/internal/domain"
	"shopline-api/internal/repo"
)

type WarehouseService interface {
	List(ctx context.Context) ([]domain.Warehouse, error)
	UpdateStock(ctx context.Context, caller domain.Caller, warehouseID int64, stockAmount int) (*domain.Warehouse, error)
}

type warehouseService struct {
	db     *sql.DB
	log    *slog.Logger
	whRepo repo.WarehouseRepo
}

func NewWarehouseService(db *sql.DB, log *slog.Logger, whRepo repo.WarehouseRepo) WarehouseService {
	return &warehouseService{db: db, log: log, whRepo: whRepo}
}

func (s *warehouseService) List(ctx context.Context) ([]domain.Warehouse, error) {
	return s.whRepo.List(ctx)
}

// UpdateStock sets a warehouse's absolute stock count. Deltas coming from
// fulfillment go through the order service instead.
func (s *warehouseService) UpdateStock(ctx context.Context, caller domain.Caller, warehouseID int64, stockAmount int) (*domain.Warehouse, error) {
	if err := domain.Authorize(caller, domain.ActionUpdateStock); err != nil {
		return nil, err
	}
	if stockAmount < 0 {
		return nil, domain.Validationf("stock_amount must not be negative")
	}

	warehouse, err := s.whRepo.FindById(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return nil, domain.NotFound("Warehouse not found.")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := s.whRepo.UpdateStock(ctx, tx, warehouseID, stockAmount); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.log.Info("stock updated", "warehouse_id", warehouseID, "stock_amount", stockAmount)

	warehouse.StockAmount = stockAmount
	return warehouse, nil
}
