package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
)

// Payment methods accepted at checkout.
var PaymentMethods = []string{"Credit Card", "PayPal", "Bank Transfer"}

func ValidPaymentMethod(method string) bool {
	for _, m := range PaymentMethods {
		if m == method {
			return true
		}
	}
	return false
}

// PaymentTransaction pairs an order with its payment attempt. At most one
// exists per order; re-initiating payment reuses it.
type PaymentTransaction struct {
	ID      uuid.UUID `json:"transaction_id"`
	OrderID int64     `json:"order_id"`
	Method  string    `json:"payment_method"`
	Payment *Payment  `json:"payment"`
}

// Payment holds the amount frozen at transaction creation and the single
// pending→paid transition. PaymentDate is set only on that transition.
type Payment struct {
	ID            int64           `json:"payment_id"`
	TransactionID uuid.UUID       `json:"transaction_id"`
	Status        PaymentStatus   `json:"payment_status"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentDate   *time.Time      `json:"payment_date"`
}
