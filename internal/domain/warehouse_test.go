package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr(v int64) *int64 { return &v }

func TestStockAdjustmentsUnassignedItems(t *testing.T) {
	items := []OrderItem{
		{Quantity: 3},
		{Quantity: 2},
	}

	adj := StockAdjustments(items, 10)
	assert.Equal(t, map[int64]int{10: -5}, adj)
}

func TestStockAdjustmentsNetsAcrossItems(t *testing.T) {
	// Two items in warehouse 1 move together to warehouse 2: warehouse 1
	// gets the summed quantities back, warehouse 2 loses them once.
	items := []OrderItem{
		{Quantity: 3, WarehouseID: ptr(1)},
		{Quantity: 4, WarehouseID: ptr(1)},
	}

	adj := StockAdjustments(items, 2)
	assert.Equal(t, map[int64]int{1: 7, 2: -7}, adj)
}

func TestStockAdjustmentsSameWarehouseIsNoop(t *testing.T) {
	items := []OrderItem{
		{Quantity: 3, WarehouseID: ptr(2)},
		{Quantity: 4, WarehouseID: ptr(2)},
	}

	adj := StockAdjustments(items, 2)
	assert.Empty(t, adj, "items already in place take no part in the adjustment")
}

func TestStockAdjustmentsMixedSources(t *testing.T) {
	items := []OrderItem{
		{Quantity: 1, WarehouseID: ptr(1)},
		{Quantity: 2, WarehouseID: ptr(3)},
		{Quantity: 4, WarehouseID: ptr(2)}, // already there
		{Quantity: 8},                      // unassigned
	}

	adj := StockAdjustments(items, 2)
	assert.Equal(t, map[int64]int{1: 1, 3: 2, 2: -11}, adj)
}

func TestAdjustmentIDsSorted(t *testing.T) {
	adj := map[int64]int{9: 1, 2: -1, 5: 3}
	assert.Equal(t, []int64{2, 5, 9}, AdjustmentIDs(adj))
}
