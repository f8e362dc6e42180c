package repo

import (
	"context"
	"database/sql"

	"shopline-api/internal/domain"

	"github.com/shopspring/decimal"
)

type ReturnRequestRepo interface {
	Create(ctx context.Context, tx *sql.Tx, request *domain.ReturnRequest) error
	FindById(ctx context.Context, id int64) (*domain.ReturnRequest, error)
	FindForItem(ctx context.Context, orderID int64, orderItemID int) (*domain.ReturnRequest, error)
	List(ctx context.Context) ([]domain.ReturnRequest, error)
	UpdateDecision(ctx context.Context, tx *sql.Tx, id int64, status domain.ReturnStatus, reason *string) error
	UpsertRefund(ctx context.Context, tx *sql.Tx, refund *domain.Refund) error
	DeleteRefund(ctx context.Context, tx *sql.Tx, returnRequestID int64) error
}

type returnRequestRepo struct {
	db *sql.DB
}

func NewReturnRequestRepo(db *sql.DB) ReturnRequestRepo {
	return &returnRequestRepo{db: db}
}

func (r *returnRequestRepo) Create(ctx context.Context, tx *sql.Tx, request *domain.ReturnRequest) error {
	err := tx.QueryRowContext(ctx, `
		INSERT INTO return_request (order_id, order_item_id, request_status, reason)
		VALUES ($1, $2, $3, $4)
		RETURNING return_request_id, requested_at`,
		request.OrderID, request.OrderItemID, request.Status, request.Reason,
	).Scan(&request.ID, &request.RequestedAt)
	if isUniqueViolation(err) {
		return domain.Conflict("A return request already exists for this item.")
	}
	return err
}

const returnRequestQuery = `
	SELECT rr.return_request_id, rr.order_id, rr.order_item_id, rr.request_status, rr.reason, rr.requested_at,
	       f.refund_id, f.amount, f.reason
	FROM return_request rr
	LEFT JOIN refund f ON f.return_request_id = rr.return_request_id`

func (r *returnRequestRepo) FindById(ctx context.Context, id int64) (*domain.ReturnRequest, error) {
	rows, err := r.db.QueryContext(ctx, returnRequestQuery+" WHERE rr.return_request_id = $1", id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOneReturnRequest(rows)
}

func (r *returnRequestRepo) FindForItem(ctx context.Context, orderID int64, orderItemID int) (*domain.ReturnRequest, error) {
	rows, err := r.db.QueryContext(ctx,
		returnRequestQuery+" WHERE rr.order_id = $1 AND rr.order_item_id = $2", orderID, orderItemID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOneReturnRequest(rows)
}

func (r *returnRequestRepo) List(ctx context.Context) ([]domain.ReturnRequest, error) {
	rows, err := r.db.QueryContext(ctx, returnRequestQuery+" ORDER BY rr.requested_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []domain.ReturnRequest
	for rows.Next() {
		request, err := scanReturnRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, *request)
	}
	return requests, rows.Err()
}

func scanOneReturnRequest(rows *sql.Rows) (*domain.ReturnRequest, error) {
	if !rows.Next() {
		return nil, rows.Err()
	}
	return scanReturnRequest(rows)
}

func scanReturnRequest(rows *sql.Rows) (*domain.ReturnRequest, error) {
	var (
		request      domain.ReturnRequest
		refundID     sql.NullInt64
		refundAmount decimal.NullDecimal
		refundReason sql.NullString
	)
	err := rows.Scan(
		&request.ID, &request.OrderID, &request.OrderItemID, &request.Status, &request.Reason, &request.RequestedAt,
		&refundID, &refundAmount, &refundReason,
	)
	if err != nil {
		return nil, err
	}
	if refundID.Valid {
		refund := domain.Refund{
			ID:              refundID.Int64,
			ReturnRequestID: request.ID,
			Amount:          refundAmount.Decimal,
		}
		if refundReason.Valid {
			reason := refundReason.String
			refund.Reason = &reason
		}
		request.Refund = &refund
	}
	return &request, nil
}

func (r *returnRequestRepo) UpdateDecision(ctx context.Context, tx *sql.Tx, id int64, status domain.ReturnStatus, reason *string) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE return_request SET request_status = $2, reason = COALESCE($3, reason) WHERE return_request_id = $1",
		id, status, reason,
	)
	return err
}

// UpsertRefund writes the refund for an accepted request; a re-decision
// overwrites amount and reason instead of duplicating the row.
func (r *returnRequestRepo) UpsertRefund(ctx context.Context, tx *sql.Tx, refund *domain.Refund) error {
	return tx.QueryRowContext(ctx, `
		INSERT INTO refund (return_request_id, amount, reason)
		VALUES ($1, $2, $3)
		ON CONFLICT (return_request_id) DO UPDATE SET amount = $2, reason = $3
		RETURNING refund_id`,
		refund.ReturnRequestID, refund.Amount, refund.Reason,
	).Scan(&refund.ID)
}

func (r *returnRequestRepo) DeleteRefund(ctx context.Context, tx *sql.Tx, returnRequestID int64) error {
	_, err := tx.ExecContext(ctx, "DELETE FROM refund WHERE return_request_id = $1", returnRequestID)
	return err
}
