package payment

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaptureSettles(t *testing.T) {
	gw := NewSimulator(0)
	ctx := context.Background()
	txn := uuid.New()

	require.NoError(t, gw.Capture(ctx, decimal.NewFromInt(10), txn))

	settled, err := gw.Status(ctx, txn)
	require.NoError(t, err)
	assert.True(t, settled)

	other, err := gw.Status(ctx, uuid.New())
	require.NoError(t, err)
	assert.False(t, other)
}

func TestCaptureTimeoutStillSettles(t *testing.T) {
	gw := NewSimulator(100)
	ctx := context.Background()
	txn := uuid.New()

	err := gw.Capture(ctx, decimal.NewFromInt(10), txn)
	require.ErrorIs(t, err, ErrTimeout)

	// The charge landed even though the response was lost.
	settled, err := gw.Status(ctx, txn)
	require.NoError(t, err)
	assert.True(t, settled)

	// Retrying a settled transaction never re-charges.
	require.NoError(t, gw.Capture(ctx, decimal.NewFromInt(10), txn))
}
