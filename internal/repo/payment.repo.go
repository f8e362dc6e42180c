package repo

import (
	"context"
	"database/sql"
	"time"

	"shopline-api/internal/domain"

	"github.com/google/uuid"
)

type PaymentRepo interface {
	CreateTransaction(ctx context.Context, tx *sql.Tx, txn *domain.PaymentTransaction) error
	CreatePayment(ctx context.Context, tx *sql.Tx, payment *domain.Payment) error
	FindByOrder(ctx context.Context, orderID int64) (*domain.PaymentTransaction, error)
	// FindByOrderForUpdate locks the payment row so the already-paid check
	// and the paid transition happen under the same lock.
	FindByOrderForUpdate(ctx context.Context, tx *sql.Tx, orderID int64) (*domain.PaymentTransaction, error)
	MarkPaid(ctx context.Context, tx *sql.Tx, transactionID uuid.UUID, paidAt time.Time) error
	FindStuckPending(ctx context.Context, olderThan time.Duration, limit int) ([]domain.PaymentTransaction, error)
}

type paymentRepo struct {
	db *sql.DB
}

func NewPaymentRepo(db *sql.DB) PaymentRepo {
	return &paymentRepo{db: db}
}

func (r *paymentRepo) CreateTransaction(ctx context.Context, tx *sql.Tx, txn *domain.PaymentTransaction) error {
	_, err := tx.ExecContext(ctx,
		"INSERT INTO payment_transaction (transaction_id, order_id, payment_method) VALUES ($1, $2, $3)",
		txn.ID, txn.OrderID, txn.Method,
	)
	if isUniqueViolation(err) {
		return domain.Conflict("A payment transaction already exists for this order.")
	}
	return err
}

func (r *paymentRepo) CreatePayment(ctx context.Context, tx *sql.Tx, payment *domain.Payment) error {
	return tx.QueryRowContext(ctx,
		"INSERT INTO payment (transaction_id, payment_status, amount) VALUES ($1, $2, $3) RETURNING payment_id",
		payment.TransactionID, payment.Status, payment.Amount,
	).Scan(&payment.ID)
}

const transactionQuery = `
	SELECT t.transaction_id, t.order_id, t.payment_method,
	       p.payment_id, p.payment_status, p.amount, p.payment_date
	FROM payment_transaction t
	JOIN payment p ON p.transaction_id = t.transaction_id
	WHERE t.order_id = $1`

func (r *paymentRepo) FindByOrder(ctx context.Context, orderID int64) (*domain.PaymentTransaction, error) {
	return scanTransaction(r.db.QueryRowContext(ctx, transactionQuery, orderID))
}

func (r *paymentRepo) FindByOrderForUpdate(ctx context.Context, tx *sql.Tx, orderID int64) (*domain.PaymentTransaction, error) {
	return scanTransaction(tx.QueryRowContext(ctx, transactionQuery+" FOR UPDATE OF p", orderID))
}

func scanTransaction(row *sql.Row) (*domain.PaymentTransaction, error) {
	var (
		txn     domain.PaymentTransaction
		payment domain.Payment
	)
	err := row.Scan(
		&txn.ID, &txn.OrderID, &txn.Method,
		&payment.ID, &payment.Status, &payment.Amount, &payment.PaymentDate,
	)
	if err == sql.ErrNoRows {
		return nil, nil // not found
	}
	if err != nil {
		return nil, err
	}
	payment.TransactionID = txn.ID
	txn.Payment = &payment
	return &txn, nil
}

func (r *paymentRepo) MarkPaid(ctx context.Context, tx *sql.Tx, transactionID uuid.UUID, paidAt time.Time) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE payment SET payment_status = $2, payment_date = $3 WHERE transaction_id = $1",
		transactionID, domain.PaymentPaid, paidAt,
	)
	return err
}

// FindStuckPending returns transactions whose payment is still pending past
// the cutoff, oldest first. Used by the reconciliation worker.
func (r *paymentRepo) FindStuckPending(ctx context.Context, olderThan time.Duration, limit int) ([]domain.PaymentTransaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT t.transaction_id, t.order_id, t.payment_method,
		       p.payment_id, p.payment_status, p.amount, p.payment_date
		FROM payment_transaction t
		JOIN payment p ON p.transaction_id = t.transaction_id
		JOIN order_table o ON o.order_id = t.order_id
		WHERE p.payment_status = $1 AND o.order_date < $2
		ORDER BY o.order_date
		LIMIT $3`,
		domain.PaymentPending, time.Now().Add(-olderThan), limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txns []domain.PaymentTransaction
	for rows.Next() {
		var (
			txn     domain.PaymentTransaction
			payment domain.Payment
		)
		err := rows.Scan(
			&txn.ID, &txn.OrderID, &txn.Method,
			&payment.ID, &payment.Status, &payment.Amount, &payment.PaymentDate,
		)
		if err != nil {
			return nil, err
		}
		payment.TransactionID = txn.ID
		txn.Payment = &payment
		txns = append(txns, txn)
	}
	return txns, rows.Err()
}
