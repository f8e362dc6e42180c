package service_test

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"

	"shopline-api/internal/domain"
	"shopline-api/internal/infrastructure/payment"
	"shopline-api/internal/postgrestest"
	"shopline-api/internal/repo"
	"shopline-api/internal/service"

	"github.com/stretchr/testify/require"
)

var (
	customer = domain.Caller{ID: 101, Role: domain.RoleCustomer}
	stranger = domain.Caller{ID: 202, Role: domain.RoleCustomer}
	employee = domain.Caller{ID: 301, Role: domain.RoleEmployee}
)

type env struct {
	db          *sql.DB
	orderRepo   repo.OrderRepo
	paymentRepo repo.PaymentRepo
	whRepo      repo.WarehouseRepo
	orders      service.OrderService
	reviews     service.ReviewService
	returns     service.ReturnRequestService
	warehouses  service.WarehouseService
}

func newEnv(t *testing.T) *env {
	t.Helper()

	db := postgrestest.Open(t)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	orderRepo := repo.NewOrderRepo(db)
	paymentRepo := repo.NewPaymentRepo(db)
	productRepo := repo.NewProductRepo(db)
	whRepo := repo.NewWarehouseRepo(db)
	reviewRepo := repo.NewReviewRepo(db)
	returnRepo := repo.NewReturnRequestRepo(db)

	gateway := payment.NewSimulator(0)
	enricher := service.NewEnricher(reviewRepo, returnRepo)

	return &env{
		db:          db,
		orderRepo:   orderRepo,
		paymentRepo: paymentRepo,
		whRepo:      whRepo,
		orders:      service.NewOrderService(db, log, orderRepo, paymentRepo, productRepo, whRepo, gateway, enricher),
		reviews:     service.NewReviewService(db, log, orderRepo, paymentRepo, reviewRepo),
		returns:     service.NewReturnRequestService(db, log, orderRepo, paymentRepo, returnRepo),
		warehouses:  service.NewWarehouseService(db, log, whRepo),
	}
}

func (e *env) seedProduct(t *testing.T, name, price, status string) int64 {
	t.Helper()
	var id int64
	err := e.db.QueryRow(
		"INSERT INTO product (product_name, product_price, product_status) VALUES ($1, $2, $3) RETURNING product_id",
		name, price, status,
	).Scan(&id)
	require.NoError(t, err)
	return id
}

func (e *env) setProductPrice(t *testing.T, id int64, price string) {
	t.Helper()
	_, err := e.db.Exec("UPDATE product SET product_price = $2 WHERE product_id = $1", id, price)
	require.NoError(t, err)
}

func (e *env) seedWarehouse(t *testing.T, name string, stock int) int64 {
	t.Helper()
	var id int64
	err := e.db.QueryRow(
		"INSERT INTO warehouse (warehouse_name, stock_amount) VALUES ($1, $2) RETURNING warehouse_id",
		name, stock,
	).Scan(&id)
	require.NoError(t, err)
	return id
}

func (e *env) warehouseStock(t *testing.T, id int64) int {
	t.Helper()
	w, err := e.whRepo.FindById(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, w)
	return w.StockAmount
}

// placeOrder creates and immediately pays an order for the default customer.
func (e *env) placePaidOrder(t *testing.T, items ...service.OrderItemInput) *domain.Order {
	t.Helper()
	ctx := context.Background()

	created, err := e.orders.Create(ctx, customer, service.CreateOrderInput{
		Items:         items,
		PaymentMethod: "Credit Card",
	})
	require.NoError(t, err)

	paid, err := e.orders.Pay(ctx, customer, created.Order.ID, "Credit Card")
	require.NoError(t, err)
	return paid.Order
}
