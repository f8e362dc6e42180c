package domain

import "github.com/shopspring/decimal"

type ProductStatus string

const (
	ProductActive   ProductStatus = "active"
	ProductInactive ProductStatus = "inactive"
)

// Product is the slice of the catalog this service needs: identity, current
// price and status. Catalog management itself lives elsewhere.
type Product struct {
	ID     int64           `json:"product_id"`
	Name   string          `json:"product_name"`
	Price  decimal.Decimal `json:"product_price"`
	Status ProductStatus   `json:"product_status"`
}
