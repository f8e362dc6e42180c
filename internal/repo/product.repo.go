package repo

import (
	"context"
	"database/sql"

	"shopline-api/internal/domain"
)

type ProductRepo interface {
	FindById(ctx context.Context, id int64) (*domain.Product, error)
}

type productRepo struct {
	db *sql.DB
}

func NewProductRepo(db *sql.DB) ProductRepo {
	return &productRepo{db: db}
}

func (r *productRepo) FindById(ctx context.Context, id int64) (*domain.Product, error) {
	var p domain.Product
	err := r.db.QueryRowContext(ctx,
		"SELECT product_id, product_name, product_price, product_status FROM product WHERE product_id = $1", id,
	).Scan(&p.ID, &p.Name, &p.Price, &p.Status)
	if err == sql.ErrNoRows {
		return nil, nil // not found
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
