package repo

import (
	"context"
	"database/sql"

	"shopline-api/internal/domain"
)

type WarehouseRepo interface {
	List(ctx context.Context) ([]domain.Warehouse, error)
	FindById(ctx context.Context, id int64) (*domain.Warehouse, error)
	// LockForUpdate takes exclusive row locks on the given warehouses and
	// returns their current state. Callers must pass ids in ascending order
	// so concurrent assignments lock in the same order.
	LockForUpdate(ctx context.Context, tx *sql.Tx, ids []int64) ([]domain.Warehouse, error)
	UpdateStock(ctx context.Context, tx *sql.Tx, id int64, stockAmount int) error
}

type warehouseRepo struct {
	db *sql.DB
}

func NewWarehouseRepo(db *sql.DB) WarehouseRepo {
	return &warehouseRepo{db: db}
}

const warehouseColumns = "warehouse_id, warehouse_name, street, city, zip_code, stock_amount"

func (r *warehouseRepo) List(ctx context.Context) ([]domain.Warehouse, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+warehouseColumns+" FROM warehouse ORDER BY warehouse_id",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanWarehouses(rows)
}

func (r *warehouseRepo) FindById(ctx context.Context, id int64) (*domain.Warehouse, error) {
	var w domain.Warehouse
	err := r.db.QueryRowContext(ctx,
		"SELECT "+warehouseColumns+" FROM warehouse WHERE warehouse_id = $1", id,
	).Scan(&w.ID, &w.Name, &w.Street, &w.City, &w.ZipCode, &w.StockAmount)
	if err == sql.ErrNoRows {
		return nil, nil // not found
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *warehouseRepo) LockForUpdate(ctx context.Context, tx *sql.Tx, ids []int64) ([]domain.Warehouse, error) {
	rows, err := tx.QueryContext(ctx,
		"SELECT "+warehouseColumns+" FROM warehouse WHERE warehouse_id = ANY($1) ORDER BY warehouse_id FOR UPDATE",
		ids,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanWarehouses(rows)
}

func (r *warehouseRepo) UpdateStock(ctx context.Context, tx *sql.Tx, id int64, stockAmount int) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE warehouse SET stock_amount = $2 WHERE warehouse_id = $1", id, stockAmount,
	)
	return err
}

func scanWarehouses(rows *sql.Rows) ([]domain.Warehouse, error) {
	var warehouses []domain.Warehouse
	for rows.Next() {
		var w domain.Warehouse
		if err := rows.Scan(&w.ID, &w.Name, &w.Street, &w.City, &w.ZipCode, &w.StockAmount); err != nil {
			return nil, err
		}
		warehouses = append(warehouses, w)
	}
	return warehouses, rows.Err()
}
