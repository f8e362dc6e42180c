package server_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"shopline-api/internal/domain"
	"shopline-api/internal/server"
	"shopline-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Stubs let the HTTP layer be tested without a database: routing, header
// parsing, binding, and error-to-status mapping are all that lives here.

type stubOrders struct {
	create           func(domain.Caller, service.CreateOrderInput) (*service.CreateOrderResult, error)
	pay              func(domain.Caller, int64, string) (*service.PayResult, error)
	assignWarehouses func(domain.Caller, int64, int64) (*domain.Order, error)
}

func (s *stubOrders) Create(_ context.Context, c domain.Caller, in service.CreateOrderInput) (*service.CreateOrderResult, error) {
	return s.create(c, in)
}

func (s *stubOrders) Pay(_ context.Context, c domain.Caller, orderID int64, method string) (*service.PayResult, error) {
	return s.pay(c, orderID, method)
}

func (s *stubOrders) ListMine(context.Context, domain.Caller) ([]domain.Order, error) {
	return []domain.Order{}, nil
}

func (s *stubOrders) ListAll(context.Context, domain.Caller) ([]domain.Order, error) {
	return []domain.Order{}, nil
}

func (s *stubOrders) AssignWarehouses(_ context.Context, c domain.Caller, orderID, warehouseID int64) (*domain.Order, error) {
	return s.assignWarehouses(c, orderID, warehouseID)
}

type stubReviews struct {
	create func(domain.Caller, service.CreateReviewInput) (*domain.Review, error)
}

func (s *stubReviews) Create(_ context.Context, c domain.Caller, in service.CreateReviewInput) (*domain.Review, error) {
	return s.create(c, in)
}

func (s *stubReviews) ListForProduct(context.Context, int64) ([]domain.Review, error) {
	return []domain.Review{}, nil
}

type stubReturns struct{}

func (stubReturns) Create(context.Context, domain.Caller, service.CreateReturnInput) (*domain.ReturnRequest, error) {
	return &domain.ReturnRequest{Status: domain.ReturnPending}, nil
}

func (stubReturns) List(context.Context, domain.Caller) ([]domain.ReturnRequest, error) {
	return []domain.ReturnRequest{}, nil
}

func (stubReturns) Decide(context.Context, domain.Caller, int64, service.DecideReturnInput) (*service.DecideReturnResult, error) {
	return &service.DecideReturnResult{}, nil
}

type stubWarehouses struct{}

func (stubWarehouses) List(context.Context) ([]domain.Warehouse, error) {
	return []domain.Warehouse{{ID: 1, Name: "Central", StockAmount: 10}}, nil
}

func (stubWarehouses) UpdateStock(context.Context, domain.Caller, int64, int) (*domain.Warehouse, error) {
	return &domain.Warehouse{}, nil
}

func newRouter(orders *stubOrders, reviews *stubReviews) *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := server.New(log, nil, orders, reviews, stubReturns{}, stubWarehouses{})
	return s.Router([]string{"http://localhost:5173"})
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func asCustomer(id string) map[string]string {
	return map[string]string{"X-User-ID": id, "X-User-Role": "customer"}
}

func TestUnauthenticated(t *testing.T) {
	r := newRouter(&stubOrders{}, &stubReviews{})

	cases := map[string]map[string]string{
		"no headers":   nil,
		"bad id":       {"X-User-ID": "abc", "X-User-Role": "customer"},
		"zero id":      {"X-User-ID": "0", "X-User-Role": "customer"},
		"unknown role": {"X-User-ID": "7", "X-User-Role": "admin"},
	}
	for name, headers := range cases {
		t.Run(name, func(t *testing.T) {
			rec := doJSON(t, r, http.MethodGet, "/api/orders", "", headers)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.JSONEq(t, `{"message":"Unauthenticated."}`, rec.Body.String())
		})
	}
}

func TestPublicRoutesNeedNoIdentity(t *testing.T) {
	r := newRouter(&stubOrders{}, &stubReviews{})

	rec := doJSON(t, r, http.MethodGet, "/api/warehouses", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Central")

	rec = doJSON(t, r, http.MethodGet, "/api/products/5/reviews", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateOrder(t *testing.T) {
	var gotCaller domain.Caller
	var gotInput service.CreateOrderInput
	orders := &stubOrders{
		create: func(c domain.Caller, in service.CreateOrderInput) (*service.CreateOrderResult, error) {
			gotCaller, gotInput = c, in
			return &service.CreateOrderResult{
				Order: &domain.Order{ID: 42, CustomerID: c.ID},
				Total: decimal.RequireFromString("25.00"),
			}, nil
		},
	}
	r := newRouter(orders, &stubReviews{})

	body := `{"items":[{"product_id":1,"quantity":2}],"payment_method":"PayPal"}`
	rec := doJSON(t, r, http.MethodPost, "/api/orders", body, asCustomer("7"))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, domain.Caller{ID: 7, Role: domain.RoleCustomer}, gotCaller)
	assert.Equal(t, "PayPal", gotInput.PaymentMethod)
	require.Len(t, gotInput.Items, 1)
	assert.Equal(t, int64(1), gotInput.Items[0].ProductID)
	assert.Equal(t, 2, gotInput.Items[0].Quantity)

	var resp struct {
		Order struct {
			ID int64 `json:"order_id"`
		} `json:"order"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(42), resp.Order.ID)
}

func TestCreateOrderBindingRejected(t *testing.T) {
	r := newRouter(&stubOrders{}, &stubReviews{})

	cases := []string{
		`{"items":[],"payment_method":"PayPal"}`,
		`{"items":[{"product_id":1,"quantity":0}],"payment_method":"PayPal"}`,
		`{"items":[{"product_id":1,"quantity":1}]}`,
		`not json`,
	}
	for _, body := range cases {
		rec := doJSON(t, r, http.MethodPost, "/api/orders", body, asCustomer("7"))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, "body: %s", body)
	}
}

func TestErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"forbidden", domain.Forbidden("This order does not belong to you."), http.StatusForbidden},
		{"not found", domain.NotFound("Order not found."), http.StatusNotFound},
		{"conflict", domain.Conflict("Order already paid"), http.StatusConflict},
		{"validation", domain.Validationf("payment method is invalid"), http.StatusUnprocessableEntity},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			orders := &stubOrders{
				pay: func(domain.Caller, int64, string) (*service.PayResult, error) {
					return nil, tc.err
				},
			}
			r := newRouter(orders, &stubReviews{})

			rec := doJSON(t, r, http.MethodPost, "/api/orders/1/pay", `{"payment_method":"PayPal"}`, asCustomer("7"))
			assert.Equal(t, tc.status, rec.Code)
		})
	}
}

func TestInsufficientStockNamesWarehouse(t *testing.T) {
	orders := &stubOrders{
		assignWarehouses: func(domain.Caller, int64, int64) (*domain.Order, error) {
			return nil, domain.InsufficientStock("North Depot")
		},
	}
	r := newRouter(orders, &stubReviews{})

	rec := doJSON(t, r, http.MethodPost, "/api/orders/1/assign-warehouses", `{"warehouse_id":3}`,
		map[string]string{"X-User-ID": "9", "X-User-Role": "employee"})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "North Depot", resp["warehouse"])
	assert.Equal(t, "Not enough stock in North Depot.", resp["message"])
}

func TestInvalidPathID(t *testing.T) {
	r := newRouter(&stubOrders{}, &stubReviews{})

	rec := doJSON(t, r, http.MethodPost, "/api/orders/abc/pay", `{"payment_method":"PayPal"}`, asCustomer("7"))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestCreateReviewBindingBounds(t *testing.T) {
	created := false
	reviews := &stubReviews{
		create: func(domain.Caller, service.CreateReviewInput) (*domain.Review, error) {
			created = true
			return &domain.Review{ID: 1, Rating: 5}, nil
		},
	}
	r := newRouter(&stubOrders{}, reviews)

	rec := doJSON(t, r, http.MethodPost, "/api/reviews",
		`{"order_id":1,"order_item_id":1,"review_rating":6}`, asCustomer("7"))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.False(t, created)

	rec = doJSON(t, r, http.MethodPost, "/api/reviews",
		`{"order_id":1,"order_item_id":1,"review_rating":5}`, asCustomer("7"))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, created)
}

func TestUpdateStockZeroAllowed(t *testing.T) {
	r := newRouter(&stubOrders{}, &stubReviews{})
	headers := map[string]string{"X-User-ID": "9", "X-User-Role": "employee"}

	// Zero is a legal stock level; only a missing field or negative is not.
	rec := doJSON(t, r, http.MethodPut, "/api/warehouses/1/stock", `{"stock_amount":0}`, headers)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, r, http.MethodPut, "/api/warehouses/1/stock", `{"stock_amount":-1}`, headers)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = doJSON(t, r, http.MethodPut, "/api/warehouses/1/stock", `{}`, headers)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
