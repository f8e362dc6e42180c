package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type ReturnStatus string

const (
	ReturnPending  ReturnStatus = "pending"
	ReturnAccepted ReturnStatus = "accepted"
	ReturnRejected ReturnStatus = "rejected"
)

// ReturnRequest is a customer's ask to return one line item of a paid order.
// At most one ever exists per (order, item). Refund is present only while the
// request is accepted.
type ReturnRequest struct {
	ID          int64        `json:"return_request_id"`
	OrderID     int64        `json:"order_id"`
	OrderItemID int          `json:"order_item_id"`
	Status      ReturnStatus `json:"request_status"`
	Reason      *string      `json:"reason"`
	RequestedAt time.Time    `json:"requested_at"`

	Refund *Refund    `json:"refund"`
	Item   *OrderItem `json:"order_item,omitempty"`
}

// Refund is the one-to-one settlement for an accepted return request.
type Refund struct {
	ID              int64           `json:"refund_id"`
	ReturnRequestID int64           `json:"return_request_id"`
	Amount          decimal.Decimal `json:"amount"`
	Reason          *string         `json:"reason"`
}
