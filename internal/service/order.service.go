package service

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"shopline-api/internal/domain"
	"shopline-api/internal/infrastructure/payment"
	"shopline-api/internal/repo"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderItemInput struct {
	ProductID int64
	Quantity  int
}

type CreateOrderInput struct {
	Items         []OrderItemInput
	PaymentMethod string
}

type CreateOrderResult struct {
	Order *domain.Order   `json:"order"`
	Total decimal.Decimal `json:"total"`
}

type PayResult struct {
	Order   *domain.Order `json:"order"`
	Message string        `json:"message"`
}

type OrderService interface {
	Create(ctx context.Context, caller domain.Caller, input CreateOrderInput) (*CreateOrderResult, error)
	Pay(ctx context.Context, caller domain.Caller, orderID int64, method string) (*PayResult, error)
	ListMine(ctx context.Context, caller domain.Caller) ([]domain.Order, error)
	ListAll(ctx context.Context, caller domain.Caller) ([]domain.Order, error)
	AssignWarehouses(ctx context.Context, caller domain.Caller, orderID int64, warehouseID int64) (*domain.Order, error)
}

type orderService struct {
	db          *sql.DB
	log         *slog.Logger
	orderRepo   repo.OrderRepo
	paymentRepo repo.PaymentRepo
	productRepo repo.ProductRepo
	whRepo      repo.WarehouseRepo
	gateway     payment.Gateway
	enricher    *Enricher
}

func NewOrderService(
	db *sql.DB,
	log *slog.Logger,
	orderRepo repo.OrderRepo,
	paymentRepo repo.PaymentRepo,
	productRepo repo.ProductRepo,
	whRepo repo.WarehouseRepo,
	gateway payment.Gateway,
	enricher *Enricher,
) OrderService {
	return &orderService{
		db:          db,
		log:         log,
		orderRepo:   orderRepo,
		paymentRepo: paymentRepo,
		productRepo: productRepo,
		whRepo:      whRepo,
		gateway:     gateway,
		enricher:    enricher,
	}
}

// Create places an order: unit prices are frozen from the current product
// price, line items get 1-based positions in request order, and the pending
// payment transaction is opened for the computed total. Header, items,
// transaction and payment commit as one unit.
func (s *orderService) Create(ctx context.Context, caller domain.Caller, input CreateOrderInput) (*CreateOrderResult, error) {
	if err := domain.Authorize(caller, domain.ActionPlaceOrder); err != nil {
		return nil, err
	}
	if len(input.Items) == 0 {
		return nil, domain.Validationf("order must contain at least one item")
	}
	if !domain.ValidPaymentMethod(input.PaymentMethod) {
		return nil, domain.Validationf("invalid payment method %q", input.PaymentMethod)
	}

	order := &domain.Order{CustomerID: caller.ID}
	total := decimal.Zero
	for idx, in := range input.Items {
		if in.Quantity < 1 {
			return nil, domain.Validationf("item %d: quantity must be at least 1", idx+1)
		}
		product, err := s.productRepo.FindById(ctx, in.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil || product.Status != domain.ProductActive {
			return nil, domain.Validationf("product %d is not available", in.ProductID)
		}

		item := domain.OrderItem{
			OrderItemID: idx + 1,
			ProductID:   product.ID,
			Quantity:    in.Quantity,
			UnitPrice:   product.Price,
		}
		total = total.Add(item.Subtotal())
		order.Items = append(order.Items, item)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := s.orderRepo.Create(ctx, tx, order); err != nil {
		return nil, err
	}
	if err := s.orderRepo.CreateItems(ctx, tx, order.ID, order.Items); err != nil {
		return nil, err
	}

	txn := &domain.PaymentTransaction{
		ID:      uuid.New(),
		OrderID: order.ID,
		Method:  input.PaymentMethod,
	}
	if err := s.paymentRepo.CreateTransaction(ctx, tx, txn); err != nil {
		return nil, err
	}
	pay := &domain.Payment{
		TransactionID: txn.ID,
		Status:        domain.PaymentPending,
		Amount:        total,
	}
	if err := s.paymentRepo.CreatePayment(ctx, tx, pay); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.log.Info("order created", "order_id", order.ID, "customer_id", caller.ID, "total", total.String())

	loaded, err := s.loadOrder(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	return &CreateOrderResult{Order: loaded, Total: total}, nil
}

// Pay captures the order's payment. The payment row is locked for the whole
// check-and-transition, so concurrent duplicate captures see exactly one real
// pending→paid transition and the rest get the already-paid answer.
func (s *orderService) Pay(ctx context.Context, caller domain.Caller, orderID int64, method string) (*PayResult, error) {
	if err := domain.Authorize(caller, domain.ActionPayOrder); err != nil {
		return nil, err
	}
	if !domain.ValidPaymentMethod(method) {
		return nil, domain.Validationf("invalid payment method %q", method)
	}

	order, err := s.orderRepo.FindById(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.NotFound("Order not found.")
	}
	if order.CustomerID != caller.ID {
		return nil, domain.Forbidden("Only the customer who placed the order can pay.")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	txn, err := s.paymentRepo.FindByOrderForUpdate(ctx, tx, orderID)
	if err != nil {
		return nil, err
	}
	if txn == nil {
		// Late initiation: price from a fresh sum so items added since
		// creation are covered.
		total, err := s.orderRepo.SumItemsTotal(ctx, tx, orderID)
		if err != nil {
			return nil, err
		}
		txn = &domain.PaymentTransaction{ID: uuid.New(), OrderID: orderID, Method: method}
		if err := s.paymentRepo.CreateTransaction(ctx, tx, txn); err != nil {
			return nil, err
		}
		txn.Payment = &domain.Payment{
			TransactionID: txn.ID,
			Status:        domain.PaymentPending,
			Amount:        total,
		}
		if err := s.paymentRepo.CreatePayment(ctx, tx, txn.Payment); err != nil {
			return nil, err
		}
	}

	if txn.Payment.Status == domain.PaymentPaid {
		if err := tx.Commit(); err != nil {
			return nil, err
		}
		loaded, err := s.loadOrder(ctx, orderID)
		if err != nil {
			return nil, err
		}
		return &PayResult{Order: loaded, Message: "Order already paid"}, nil
	}

	if err := s.gateway.Capture(ctx, txn.Payment.Amount, txn.ID); err != nil {
		return nil, err
	}
	if err := s.paymentRepo.MarkPaid(ctx, tx, txn.ID, time.Now()); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.log.Info("payment captured", "order_id", orderID, "transaction_id", txn.ID.String())

	loaded, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return &PayResult{Order: loaded, Message: "Payment captured successfully"}, nil
}

func (s *orderService) ListMine(ctx context.Context, caller domain.Caller) ([]domain.Order, error) {
	if err := domain.Authorize(caller, domain.ActionViewOwnOrders); err != nil {
		return nil, err
	}
	orders, err := s.orderRepo.ListByCustomer(ctx, caller.ID)
	if err != nil {
		return nil, err
	}
	return s.hydrateOrders(ctx, orders)
}

func (s *orderService) ListAll(ctx context.Context, caller domain.Caller) ([]domain.Order, error) {
	if err := domain.Authorize(caller, domain.ActionFulfill); err != nil {
		return nil, err
	}
	orders, err := s.orderRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.hydrateOrders(ctx, orders)
}

// AssignWarehouses moves every line item of a paid order into the given
// warehouse. Net per-warehouse deltas are validated against a non-negative
// floor under row locks; on any shortfall nothing is written.
func (s *orderService) AssignWarehouses(ctx context.Context, caller domain.Caller, orderID int64, warehouseID int64) (*domain.Order, error) {
	if err := domain.Authorize(caller, domain.ActionFulfill); err != nil {
		return nil, err
	}

	order, err := s.orderRepo.FindById(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.NotFound("Order not found.")
	}

	txn, err := s.paymentRepo.FindByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	order.Transaction = txn
	if order.PaymentStatus() != domain.PaymentPaid {
		return nil, domain.Forbidden("Order must be paid before assigning warehouses.")
	}

	target, err := s.whRepo.FindById(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, domain.Validationf("warehouse %d does not exist", warehouseID)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	items, err := s.orderRepo.ItemsForAssignment(ctx, tx, orderID)
	if err != nil {
		return nil, err
	}

	adjustments := domain.StockAdjustments(items, warehouseID)
	if len(adjustments) > 0 {
		warehouses, err := s.whRepo.LockForUpdate(ctx, tx, domain.AdjustmentIDs(adjustments))
		if err != nil {
			return nil, err
		}
		for _, w := range warehouses {
			if w.StockAmount+adjustments[w.ID] < 0 {
				return nil, domain.InsufficientStock(w.Name)
			}
		}
		for _, w := range warehouses {
			if err := s.whRepo.UpdateStock(ctx, tx, w.ID, w.StockAmount+adjustments[w.ID]); err != nil {
				return nil, err
			}
		}
	}

	if err := s.orderRepo.AssignItemsWarehouse(ctx, tx, orderID, warehouseID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.log.Info("warehouse assigned", "order_id", orderID, "warehouse_id", warehouseID)

	return s.loadOrder(ctx, orderID)
}

// loadOrder assembles the full enriched aggregate for a response.
func (s *orderService) loadOrder(ctx context.Context, orderID int64) (*domain.Order, error) {
	order, err := s.orderRepo.FindById(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.NotFound("Order not found.")
	}
	return s.hydrateOrder(ctx, order)
}

func (s *orderService) hydrateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	items, err := s.orderRepo.ListItems(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = items

	txn, err := s.paymentRepo.FindByOrder(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	order.Transaction = txn

	if err := s.enricher.Enrich(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *orderService) hydrateOrders(ctx context.Context, orders []domain.Order) ([]domain.Order, error) {
	for idx := range orders {
		if _, err := s.hydrateOrder(ctx, &orders[idx]); err != nil {
			return nil, err
		}
	}
	return orders, nil
}
