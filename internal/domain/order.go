package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID          int64               `json:"order_id"`
	CustomerID  int64               `json:"customer_id"`
	OrderDate   time.Time           `json:"order_date"`
	Items       []OrderItem         `json:"items"`
	Transaction *PaymentTransaction `json:"payment_transaction"`
}

// OrderItem is a frozen snapshot of one product line at order time. UnitPrice
// is never re-read from the product after creation. Review and ReturnRequest
// are read-time decorations, not part of the persisted aggregate.
type OrderItem struct {
	OrderID     int64           `json:"order_id"`
	OrderItemID int             `json:"order_item_id"`
	ProductID   int64           `json:"product_id"`
	WarehouseID *int64          `json:"warehouse_id"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`

	Product       *Product       `json:"product,omitempty"`
	Warehouse     *Warehouse     `json:"warehouse,omitempty"`
	Review        *Review        `json:"review"`
	ReturnRequest *ReturnRequest `json:"return_request"`
}

func (i OrderItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Total sums quantity × unit price over the line items.
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// Item returns the line item with the given position index, or nil.
func (o *Order) Item(orderItemID int) *OrderItem {
	for idx := range o.Items {
		if o.Items[idx].OrderItemID == orderItemID {
			return &o.Items[idx]
		}
	}
	return nil
}

// PaymentStatus reports the order's payment state, defaulting to pending
// when no transaction has been initiated yet.
func (o *Order) PaymentStatus() PaymentStatus {
	if o.Transaction == nil || o.Transaction.Payment == nil {
		return PaymentPending
	}
	return o.Transaction.Payment.Status
}

// BackfillItemPositions assigns 1-based position indexes to legacy rows that
// lack one, based on load order. Rows written by this service always carry an
// index already.
func BackfillItemPositions(items []OrderItem) {
	for idx := range items {
		if items[idx].OrderItemID == 0 {
			items[idx].OrderItemID = idx + 1
		}
	}
}
