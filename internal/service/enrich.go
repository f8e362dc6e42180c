package service

import (
	"context"

	"shopline-api/internal/domain"
	"shopline-api/internal/repo"
)

// Enricher is the read-side projection: it decorates an order's line items
// with their review and return-request records. Nothing it attaches is
// persisted back; the domain aggregate stays presentation-free.
type Enricher struct {
	reviews repo.ReviewRepo
	returns repo.ReturnRequestRepo
}

func NewEnricher(reviews repo.ReviewRepo, returns repo.ReturnRequestRepo) *Enricher {
	return &Enricher{reviews: reviews, returns: returns}
}

// Enrich backfills missing line-item positions and attaches, per item, the
// review by the order's customer and the return request with its refund.
// Every order handed to a caller goes through here first.
func (e *Enricher) Enrich(ctx context.Context, order *domain.Order) error {
	domain.BackfillItemPositions(order.Items)

	for idx := range order.Items {
		item := &order.Items[idx]

		review, err := e.reviews.FindForItem(ctx, order.ID, item.OrderItemID, order.CustomerID)
		if err != nil {
			return err
		}
		item.Review = review

		request, err := e.returns.FindForItem(ctx, order.ID, item.OrderItemID)
		if err != nil {
			return err
		}
		item.ReturnRequest = request
	}
	return nil
}
