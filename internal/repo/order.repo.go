package repo

import (
	"context"
	"database/sql"

	"shopline-api/internal/domain"

	"github.com/shopspring/decimal"
)

type OrderRepo interface {
	Create(ctx context.Context, tx *sql.Tx, order *domain.Order) error
	CreateItems(ctx context.Context, tx *sql.Tx, orderID int64, items []domain.OrderItem) error
	FindById(ctx context.Context, id int64) (*domain.Order, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]domain.Order, error)
	ListAll(ctx context.Context) ([]domain.Order, error)
	ListItems(ctx context.Context, orderID int64) ([]domain.OrderItem, error)
	FindItem(ctx context.Context, orderID int64, orderItemID int) (*domain.OrderItem, error)
	ItemsForAssignment(ctx context.Context, tx *sql.Tx, orderID int64) ([]domain.OrderItem, error)
	AssignItemsWarehouse(ctx context.Context, tx *sql.Tx, orderID int64, warehouseID int64) error
	SumItemsTotal(ctx context.Context, tx *sql.Tx, orderID int64) (decimal.Decimal, error)
}

type orderRepo struct {
	db *sql.DB
}

func NewOrderRepo(db *sql.DB) OrderRepo {
	return &orderRepo{db: db}
}

func (r *orderRepo) Create(ctx context.Context, tx *sql.Tx, order *domain.Order) error {
	return tx.QueryRowContext(ctx,
		"INSERT INTO order_table (customer_id) VALUES ($1) RETURNING order_id, order_date",
		order.CustomerID,
	).Scan(&order.ID, &order.OrderDate)
}

func (r *orderRepo) CreateItems(ctx context.Context, tx *sql.Tx, orderID int64, items []domain.OrderItem) error {
	query := `INSERT INTO order_item (order_id, order_item_id, product_id, warehouse_id, quantity, unit_price)
		VALUES ($1, $2, $3, $4, $5, $6)`
	for _, item := range items {
		_, err := tx.ExecContext(ctx, query,
			orderID, item.OrderItemID, item.ProductID, item.WarehouseID, item.Quantity, item.UnitPrice,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *orderRepo) FindById(ctx context.Context, id int64) (*domain.Order, error) {
	var order domain.Order
	err := r.db.QueryRowContext(ctx,
		"SELECT order_id, customer_id, order_date FROM order_table WHERE order_id = $1", id,
	).Scan(&order.ID, &order.CustomerID, &order.OrderDate)
	if err == sql.ErrNoRows {
		return nil, nil // not found
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepo) ListByCustomer(ctx context.Context, customerID int64) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT order_id, customer_id, order_date FROM order_table WHERE customer_id = $1 ORDER BY order_date DESC",
		customerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOrders(rows)
}

func (r *orderRepo) ListAll(ctx context.Context) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT order_id, customer_id, order_date FROM order_table ORDER BY order_date DESC",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOrders(rows)
}

func scanOrders(rows *sql.Rows) ([]domain.Order, error) {
	var orders []domain.Order
	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(&order.ID, &order.CustomerID, &order.OrderDate); err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

const itemColumns = `
	i.order_id, i.order_item_id, i.product_id, i.warehouse_id, i.quantity, i.unit_price,
	p.product_id, p.product_name, p.product_price, p.product_status,
	w.warehouse_id, w.warehouse_name, w.street, w.city, w.zip_code, w.stock_amount`

const itemQuery = `
	SELECT ` + itemColumns + `
	FROM order_item i
	JOIN product p ON p.product_id = i.product_id
	LEFT JOIN warehouse w ON w.warehouse_id = i.warehouse_id`

// ListItems loads an order's line items with their product and, when
// assigned, warehouse attached, in position order.
func (r *orderRepo) ListItems(ctx context.Context, orderID int64) ([]domain.OrderItem, error) {
	rows, err := r.db.QueryContext(ctx, itemQuery+" WHERE i.order_id = $1 ORDER BY i.order_item_id", orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func (r *orderRepo) FindItem(ctx context.Context, orderID int64, orderItemID int) (*domain.OrderItem, error) {
	rows, err := r.db.QueryContext(ctx,
		itemQuery+" WHERE i.order_id = $1 AND i.order_item_id = $2", orderID, orderItemID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	return scanItem(rows)
}

func scanItem(rows *sql.Rows) (*domain.OrderItem, error) {
	var (
		item      domain.OrderItem
		product   domain.Product
		warehouse domain.Warehouse
		whID      sql.NullInt64
		whName    sql.NullString
		whStreet  sql.NullString
		whCity    sql.NullString
		whZip     sql.NullString
		whStock   sql.NullInt64
	)
	err := rows.Scan(
		&item.OrderID, &item.OrderItemID, &item.ProductID, &item.WarehouseID, &item.Quantity, &item.UnitPrice,
		&product.ID, &product.Name, &product.Price, &product.Status,
		&whID, &whName, &whStreet, &whCity, &whZip, &whStock,
	)
	if err != nil {
		return nil, err
	}
	item.Product = &product
	if whID.Valid {
		warehouse = domain.Warehouse{
			ID:          whID.Int64,
			Name:        whName.String,
			Street:      whStreet.String,
			City:        whCity.String,
			ZipCode:     whZip.String,
			StockAmount: int(whStock.Int64),
		}
		item.Warehouse = &warehouse
	}
	return &item, nil
}

// ItemsForAssignment reads the rows the stock reassignment needs inside the
// assignment transaction.
func (r *orderRepo) ItemsForAssignment(ctx context.Context, tx *sql.Tx, orderID int64) ([]domain.OrderItem, error) {
	rows, err := tx.QueryContext(ctx,
		"SELECT order_item_id, warehouse_id, quantity FROM order_item WHERE order_id = $1 ORDER BY order_item_id",
		orderID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.OrderItemID, &item.WarehouseID, &item.Quantity); err != nil {
			return nil, err
		}
		item.OrderID = orderID
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *orderRepo) AssignItemsWarehouse(ctx context.Context, tx *sql.Tx, orderID int64, warehouseID int64) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE order_item SET warehouse_id = $1 WHERE order_id = $2", warehouseID, orderID,
	)
	return err
}

// SumItemsTotal recomputes the order total from its current line items,
// inside the payment transaction.
func (r *orderRepo) SumItemsTotal(ctx context.Context, tx *sql.Tx, orderID int64) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := tx.QueryRowContext(ctx,
		"SELECT SUM(quantity * unit_price) FROM order_item WHERE order_id = $1", orderID,
	).Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}
