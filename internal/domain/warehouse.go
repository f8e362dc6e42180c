package domain

import "sort"

type Warehouse struct {
	ID          int64  `json:"warehouse_id"`
	Name        string `json:"warehouse_name"`
	Street      string `json:"street"`
	City        string `json:"city"`
	ZipCode     string `json:"zip_code"`
	StockAmount int    `json:"stock_amount"`
}

// StockAdjustments computes the per-warehouse net deltas for moving every
// line item into newWarehouseID: each moved item returns its quantity to its
// previous warehouse (if any) and consumes it from the destination. Items
// already in the destination contribute nothing and take no lock. Deltas for
// the same warehouse are summed across items before validation.
func StockAdjustments(items []OrderItem, newWarehouseID int64) map[int64]int {
	adjustments := make(map[int64]int)
	for _, item := range items {
		prev := item.WarehouseID
		if prev != nil && *prev == newWarehouseID {
			continue
		}
		if prev != nil {
			adjustments[*prev] += item.Quantity
		}
		adjustments[newWarehouseID] -= item.Quantity
	}
	return adjustments
}

// AdjustmentIDs returns the affected warehouse ids in ascending order, so
// row locks are always taken in the same order.
func AdjustmentIDs(adjustments map[int64]int) []int64 {
	ids := make([]int64, 0, len(adjustments))
	for id := range adjustments {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
