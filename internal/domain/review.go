package domain

import "time"

// Review is a customer rating on one line item of a paid order. Unique per
// (order, item, user).
type Review struct {
	ID          int64     `json:"review_id"`
	OrderID     int64     `json:"order_id"`
	OrderItemID int       `json:"order_item_id"`
	UserID      int64     `json:"user_id"`
	Rating      int       `json:"review_rating"`
	Title       *string   `json:"title"`
	Comment     *string   `json:"comment"`
	CreatedAt   time.Time `json:"created_at"`
}
