package service_test

import (
	"context"
	"testing"

	"shopline-api/internal/domain"
	"shopline-api/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strptr(s string) *string { return &s }

func TestReviewRequiresPaidOrder(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	product := e.seedProduct(t, "Product", "10.00", "active")
	created, err := e.orders.Create(ctx, customer, service.CreateOrderInput{
		Items:         []service.OrderItemInput{{ProductID: product, Quantity: 1}},
		PaymentMethod: "PayPal",
	})
	require.NoError(t, err)

	_, err = e.reviews.Create(ctx, customer, service.CreateReviewInput{
		OrderID:     created.Order.ID,
		OrderItemID: 1,
		Rating:      5,
	})
	assert.Equal(t, domain.CodeForbidden, domain.CodeOf(err))
}

func TestReviewLifecycle(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	product := e.seedProduct(t, "Product", "10.00", "active")
	order := e.placePaidOrder(t, service.OrderItemInput{ProductID: product, Quantity: 1})

	// Wrong line item.
	_, err := e.reviews.Create(ctx, customer, service.CreateReviewInput{
		OrderID: order.ID, OrderItemID: 7, Rating: 4,
	})
	assert.Equal(t, domain.CodeNotFound, domain.CodeOf(err))

	// Someone else's order.
	_, err = e.reviews.Create(ctx, stranger, service.CreateReviewInput{
		OrderID: order.ID, OrderItemID: 1, Rating: 4,
	})
	assert.Equal(t, domain.CodeForbidden, domain.CodeOf(err))

	review, err := e.reviews.Create(ctx, customer, service.CreateReviewInput{
		OrderID:     order.ID,
		OrderItemID: 1,
		Rating:      4,
		Title:       strptr("Solid"),
		Comment:     strptr("Does what it says."),
	})
	require.NoError(t, err)
	assert.NotZero(t, review.ID)
	assert.Equal(t, customer.ID, review.UserID)

	// Second review for the same item conflicts; the original survives.
	_, err = e.reviews.Create(ctx, customer, service.CreateReviewInput{
		OrderID: order.ID, OrderItemID: 1, Rating: 1,
	})
	assert.Equal(t, domain.CodeConflict, domain.CodeOf(err))

	orders, err := e.orders.ListMine(ctx, customer)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	got := orders[0].Items[0].Review
	require.NotNil(t, got, "enrichment attaches the review")
	assert.Equal(t, review.ID, got.ID)
	assert.Equal(t, 4, got.Rating)

	// Product review listing sees it through the line item join.
	reviews, err := e.reviews.ListForProduct(ctx, product)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, review.ID, reviews[0].ID)
}

func TestReviewRatingBounds(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	product := e.seedProduct(t, "Product", "10.00", "active")
	order := e.placePaidOrder(t, service.OrderItemInput{ProductID: product, Quantity: 1})

	for _, rating := range []int{0, 6, -1} {
		_, err := e.reviews.Create(ctx, customer, service.CreateReviewInput{
			OrderID: order.ID, OrderItemID: 1, Rating: rating,
		})
		assert.Equal(t, domain.CodeValidation, domain.CodeOf(err), "rating %d", rating)
	}
}

func TestReturnRequestRequiresPaidOrder(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	product := e.seedProduct(t, "Product", "10.00", "active")
	created, err := e.orders.Create(ctx, customer, service.CreateOrderInput{
		Items:         []service.OrderItemInput{{ProductID: product, Quantity: 1}},
		PaymentMethod: "PayPal",
	})
	require.NoError(t, err)

	_, err = e.returns.Create(ctx, customer, service.CreateReturnInput{
		OrderID: created.Order.ID, OrderItemID: 1,
	})
	assert.Equal(t, domain.CodeForbidden, domain.CodeOf(err))
}

func TestReturnLifecycle(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	product := e.seedProduct(t, "Product", "10.00", "active")
	order := e.placePaidOrder(t, service.OrderItemInput{ProductID: product, Quantity: 3})

	request, err := e.returns.Create(ctx, customer, service.CreateReturnInput{
		OrderID:     order.ID,
		OrderItemID: 1,
		Reason:      strptr("arrived damaged"),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ReturnPending, request.Status)

	// At most one request per line item, ever.
	_, err = e.returns.Create(ctx, customer, service.CreateReturnInput{
		OrderID: order.ID, OrderItemID: 1,
	})
	assert.Equal(t, domain.CodeConflict, domain.CodeOf(err))

	// Customers cannot decide.
	_, err = e.returns.Decide(ctx, customer, request.ID, service.DecideReturnInput{
		Status: domain.ReturnAccepted,
	})
	assert.Equal(t, domain.CodeForbidden, domain.CodeOf(err))

	// Accept with no explicit amount: refund defaults to quantity × unit price.
	decided, err := e.returns.Decide(ctx, employee, request.ID, service.DecideReturnInput{
		Status: domain.ReturnAccepted,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ReturnAccepted, decided.ReturnRequest.Status)
	require.NotNil(t, decided.Refund)
	assert.True(t, decided.Refund.Amount.Equal(dec("30.00")), "refund = %s", decided.Refund.Amount)

	// Re-deciding with an explicit amount overwrites, not duplicates.
	amount := dec("12.34")
	decided, err = e.returns.Decide(ctx, employee, request.ID, service.DecideReturnInput{
		Status: domain.ReturnAccepted,
		Amount: &amount,
	})
	require.NoError(t, err)
	require.NotNil(t, decided.Refund)
	assert.True(t, decided.Refund.Amount.Equal(amount))

	// Rejection deletes the refund.
	decided, err = e.returns.Decide(ctx, employee, request.ID, service.DecideReturnInput{
		Status: domain.ReturnRejected,
		Reason: strptr("outside the return window"),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ReturnRejected, decided.ReturnRequest.Status)
	assert.Nil(t, decided.Refund)

	// Enrichment reflects the final state.
	orders, err := e.orders.ListMine(ctx, customer)
	require.NoError(t, err)
	got := orders[0].Items[0].ReturnRequest
	require.NotNil(t, got)
	assert.Equal(t, domain.ReturnRejected, got.Status)
	assert.Nil(t, got.Refund)
}

func TestReturnListForEmployees(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	product := e.seedProduct(t, "Product", "8.00", "active")
	order := e.placePaidOrder(t, service.OrderItemInput{ProductID: product, Quantity: 2})

	_, err := e.returns.Create(ctx, customer, service.CreateReturnInput{
		OrderID: order.ID, OrderItemID: 1,
	})
	require.NoError(t, err)

	_, err = e.returns.List(ctx, customer)
	assert.Equal(t, domain.CodeForbidden, domain.CodeOf(err))

	requests, err := e.returns.List(ctx, employee)
	require.NoError(t, err)
	require.Len(t, requests, 1)
	require.NotNil(t, requests[0].Item, "line item attached for display")
	require.NotNil(t, requests[0].Item.Product)
	assert.Equal(t, product, requests[0].Item.Product.ID)
}

func TestUpdateStock(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	warehouse := e.seedWarehouse(t, "Depot", 5)

	_, err := e.warehouses.UpdateStock(ctx, customer, warehouse, 20)
	assert.Equal(t, domain.CodeForbidden, domain.CodeOf(err))

	_, err = e.warehouses.UpdateStock(ctx, employee, warehouse, -1)
	assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))

	updated, err := e.warehouses.UpdateStock(ctx, employee, warehouse, 20)
	require.NoError(t, err)
	assert.Equal(t, 20, updated.StockAmount)
	assert.Equal(t, 20, e.warehouseStock(t, warehouse))

	_, err = e.warehouses.UpdateStock(ctx, employee, 99999, 5)
	assert.Equal(t, domain.CodeNotFound, domain.CodeOf(err))
}
