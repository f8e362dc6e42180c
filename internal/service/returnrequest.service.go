package service

import (
	"context"
	"database/sql"
	"log/slog"

	"shopline-api/internal/domain"
	"shopline-api/internal/repo"

	"github.com/shopspring/decimal"
)

type CreateReturnInput struct {
	OrderID     int64
	OrderItemID int
	Reason      *string
}

type DecideReturnInput struct {
	Status domain.ReturnStatus
	Amount *decimal.Decimal
	Reason *string
}

type DecideReturnResult struct {
	ReturnRequest *domain.ReturnRequest `json:"return_request"`
	Refund        *domain.Refund        `json:"refund"`
}

type ReturnRequestService interface {
	Create(ctx context.Context, caller domain.Caller, input CreateReturnInput) (*domain.ReturnRequest, error)
	List(ctx context.Context, caller domain.Caller) ([]domain.ReturnRequest, error)
	Decide(ctx context.Context, caller domain.Caller, requestID int64, input DecideReturnInput) (*DecideReturnResult, error)
}

type returnRequestService struct {
	db          *sql.DB
	log         *slog.Logger
	orderRepo   repo.OrderRepo
	paymentRepo repo.PaymentRepo
	returnRepo  repo.ReturnRequestRepo
}

func NewReturnRequestService(
	db *sql.DB,
	log *slog.Logger,
	orderRepo repo.OrderRepo,
	paymentRepo repo.PaymentRepo,
	returnRepo repo.ReturnRequestRepo,
) ReturnRequestService {
	return &returnRequestService{
		db:          db,
		log:         log,
		orderRepo:   orderRepo,
		paymentRepo: paymentRepo,
		returnRepo:  returnRepo,
	}
}

// Create opens a return request on a line item of the caller's paid order.
// The (order, item) uniqueness is a storage constraint; there is at most one
// request per line item, ever.
func (s *returnRequestService) Create(ctx context.Context, caller domain.Caller, input CreateReturnInput) (*domain.ReturnRequest, error) {
	if err := domain.Authorize(caller, domain.ActionRequestReturn); err != nil {
		return nil, err
	}

	order, err := s.orderRepo.FindById(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.NotFound("Order not found.")
	}
	if order.CustomerID != caller.ID {
		return nil, domain.Forbidden("Only the customer who placed the order can request a return.")
	}

	txn, err := s.paymentRepo.FindByOrder(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}
	order.Transaction = txn
	if order.PaymentStatus() != domain.PaymentPaid {
		return nil, domain.Forbidden("Order must be paid before requesting a return.")
	}

	item, err := s.orderRepo.FindItem(ctx, input.OrderID, input.OrderItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.NotFound("Order item not found.")
	}

	request := &domain.ReturnRequest{
		OrderID:     input.OrderID,
		OrderItemID: input.OrderItemID,
		Status:      domain.ReturnPending,
		Reason:      input.Reason,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := s.returnRepo.Create(ctx, tx, request); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.log.Info("return requested", "order_id", input.OrderID, "order_item_id", input.OrderItemID)
	return request, nil
}

// List returns all return requests with their refund and line item attached,
// for the fulfillment view.
func (s *returnRequestService) List(ctx context.Context, caller domain.Caller) ([]domain.ReturnRequest, error) {
	if err := domain.Authorize(caller, domain.ActionViewReturns); err != nil {
		return nil, err
	}

	requests, err := s.returnRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	for idx := range requests {
		item, err := s.orderRepo.FindItem(ctx, requests[idx].OrderID, requests[idx].OrderItemID)
		if err != nil {
			return nil, err
		}
		requests[idx].Item = item
	}
	return requests, nil
}

// Decide accepts or rejects a return request. Accepting upserts the refund,
// defaulting its amount to the line item's quantity × unit price; rejecting
// deletes any refund a previous decision created.
func (s *returnRequestService) Decide(ctx context.Context, caller domain.Caller, requestID int64, input DecideReturnInput) (*DecideReturnResult, error) {
	if err := domain.Authorize(caller, domain.ActionDecideReturn); err != nil {
		return nil, err
	}
	if input.Status != domain.ReturnAccepted && input.Status != domain.ReturnRejected {
		return nil, domain.Validationf("request_status must be accepted or rejected")
	}
	if input.Amount != nil && input.Amount.IsNegative() {
		return nil, domain.Validationf("amount must not be negative")
	}

	request, err := s.returnRepo.FindById(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, domain.NotFound("Return request not found.")
	}

	item, err := s.orderRepo.FindItem(ctx, request.OrderID, request.OrderItemID)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := s.returnRepo.UpdateDecision(ctx, tx, requestID, input.Status, input.Reason); err != nil {
		return nil, err
	}

	var refund *domain.Refund
	if input.Status == domain.ReturnAccepted {
		amount := decimal.Zero
		if input.Amount != nil {
			amount = *input.Amount
		} else if item != nil {
			amount = item.Subtotal()
		}
		reason := input.Reason
		if reason == nil {
			reason = request.Reason
		}
		refund = &domain.Refund{
			ReturnRequestID: requestID,
			Amount:          amount,
			Reason:          reason,
		}
		if err := s.returnRepo.UpsertRefund(ctx, tx, refund); err != nil {
			return nil, err
		}
	} else {
		if err := s.returnRepo.DeleteRefund(ctx, tx, requestID); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.log.Info("return decided", "return_request_id", requestID, "status", string(input.Status))

	updated, err := s.returnRepo.FindById(ctx, requestID)
	if err != nil {
		return nil, err
	}
	updated.Item = item
	return &DecideReturnResult{ReturnRequest: updated, Refund: updated.Refund}, nil
}
