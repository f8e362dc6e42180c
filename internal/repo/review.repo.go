package repo

import (
	"context"
	"database/sql"

	"shopline-api/internal/domain"
)

type ReviewRepo interface {
	Create(ctx context.Context, tx *sql.Tx, review *domain.Review) error
	FindForItem(ctx context.Context, orderID int64, orderItemID int, userID int64) (*domain.Review, error)
	ListForProduct(ctx context.Context, productID int64) ([]domain.Review, error)
}

type reviewRepo struct {
	db *sql.DB
}

func NewReviewRepo(db *sql.DB) ReviewRepo {
	return &reviewRepo{db: db}
}

func (r *reviewRepo) Create(ctx context.Context, tx *sql.Tx, review *domain.Review) error {
	err := tx.QueryRowContext(ctx, `
		INSERT INTO review (order_id, order_item_id, user_id, review_rating, title, comment)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING review_id, created_at`,
		review.OrderID, review.OrderItemID, review.UserID, review.Rating, review.Title, review.Comment,
	).Scan(&review.ID, &review.CreatedAt)
	if isUniqueViolation(err) {
		return domain.Conflict("You already reviewed this item.")
	}
	return err
}

const reviewColumns = "review_id, order_id, order_item_id, user_id, review_rating, title, comment, created_at"

func (r *reviewRepo) FindForItem(ctx context.Context, orderID int64, orderItemID int, userID int64) (*domain.Review, error) {
	var review domain.Review
	err := r.db.QueryRowContext(ctx,
		"SELECT "+reviewColumns+" FROM review WHERE order_id = $1 AND order_item_id = $2 AND user_id = $3",
		orderID, orderItemID, userID,
	).Scan(
		&review.ID, &review.OrderID, &review.OrderItemID, &review.UserID,
		&review.Rating, &review.Title, &review.Comment, &review.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil // not found
	}
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// ListForProduct joins reviews through the line items that sold the product,
// newest first.
func (r *reviewRepo) ListForProduct(ctx context.Context, productID int64) ([]domain.Review, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT r.review_id, r.order_id, r.order_item_id, r.user_id, r.review_rating, r.title, r.comment, r.created_at
		FROM review r
		JOIN order_item i ON i.order_id = r.order_id AND i.order_item_id = r.order_item_id
		WHERE i.product_id = $1
		ORDER BY r.created_at DESC`,
		productID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []domain.Review
	for rows.Next() {
		var review domain.Review
		err := rows.Scan(
			&review.ID, &review.OrderID, &review.OrderItemID, &review.UserID,
			&review.Rating, &review.Title, &review.Comment, &review.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}
	return reviews, rows.Err()
}
