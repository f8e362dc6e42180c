package service

import (
	"context"
	"database/sql"
	"log/slog"

	"shopline-api/internal/domain"
	"shopline-api/internal/repo"
)

type CreateReviewInput struct {
	OrderID     int64
	OrderItemID int
	Rating      int
	Title       *string
	Comment     *string
}

type ReviewService interface {
	Create(ctx context.Context, caller domain.Caller, input CreateReviewInput) (*domain.Review, error)
	ListForProduct(ctx context.Context, productID int64) ([]domain.Review, error)
}

type reviewService struct {
	db          *sql.DB
	log         *slog.Logger
	orderRepo   repo.OrderRepo
	paymentRepo repo.PaymentRepo
	reviewRepo  repo.ReviewRepo
}

func NewReviewService(
	db *sql.DB,
	log *slog.Logger,
	orderRepo repo.OrderRepo,
	paymentRepo repo.PaymentRepo,
	reviewRepo repo.ReviewRepo,
) ReviewService {
	return &reviewService{
		db:          db,
		log:         log,
		orderRepo:   orderRepo,
		paymentRepo: paymentRepo,
		reviewRepo:  reviewRepo,
	}
}

// Create records a review on a line item of the caller's paid order. The
// (order, item, user) uniqueness is enforced by the storage constraint, so a
// concurrent duplicate loses with a conflict rather than a second row.
func (s *reviewService) Create(ctx context.Context, caller domain.Caller, input CreateReviewInput) (*domain.Review, error) {
	if err := domain.Authorize(caller, domain.ActionReview); err != nil {
		return nil, err
	}
	if input.Rating < 1 || input.Rating > 5 {
		return nil, domain.Validationf("rating must be between 1 and 5")
	}

	order, err := s.orderRepo.FindById(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.NotFound("Order not found.")
	}
	if order.CustomerID != caller.ID {
		return nil, domain.Forbidden("Only the customer who placed the order can review it.")
	}

	txn, err := s.paymentRepo.FindByOrder(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}
	order.Transaction = txn
	if order.PaymentStatus() != domain.PaymentPaid {
		return nil, domain.Forbidden("Order must be paid before reviewing.")
	}

	item, err := s.orderRepo.FindItem(ctx, input.OrderID, input.OrderItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.NotFound("Order item not found for this order.")
	}

	review := &domain.Review{
		OrderID:     input.OrderID,
		OrderItemID: input.OrderItemID,
		UserID:      caller.ID,
		Rating:      input.Rating,
		Title:       input.Title,
		Comment:     input.Comment,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := s.reviewRepo.Create(ctx, tx, review); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.log.Info("review created", "order_id", input.OrderID, "order_item_id", input.OrderItemID, "user_id", caller.ID)
	return review, nil
}

func (s *reviewService) ListForProduct(ctx context.Context, productID int64) ([]domain.Review, error) {
	return s.reviewRepo.ListForProduct(ctx, productID)
}
