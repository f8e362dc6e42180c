package payment

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Gateway is the external payment processor. Capture is idempotent per
// transaction id: re-capturing a settled transaction is a no-op success.
type Gateway interface {
	Capture(ctx context.Context, amount decimal.Decimal, transactionID uuid.UUID) error
	// Status reports whether the transaction has settled on the gateway side,
	// regardless of what Capture reported back.
	Status(ctx context.Context, transactionID uuid.UUID) (bool, error)
}

var ErrTimeout = errors.New("gateway connection timeout")

// simulator stands in for the real processor. With timeoutRate > 0 a slice of
// captures settle on the gateway but report a timeout back, which is the case
// the reconciliation worker exists for.
type simulator struct {
	mu          sync.RWMutex
	settled     map[string]bool
	timeoutRate int
}

func NewSimulator(timeoutRate int) Gateway {
	return &simulator{
		settled:     make(map[string]bool),
		timeoutRate: timeoutRate,
	}
}

func (s *simulator) Capture(ctx context.Context, amount decimal.Decimal, transactionID uuid.UUID) error {
	key := transactionID.String()

	s.mu.RLock()
	done := s.settled[key]
	s.mu.RUnlock()
	if done {
		return nil
	}

	if s.timeoutRate > 0 && rand.IntN(100) < s.timeoutRate {
		// The charge lands but the response never makes it back.
		time.Sleep(50 * time.Millisecond)
		s.mu.Lock()
		s.settled[key] = true
		s.mu.Unlock()
		return ErrTimeout
	}

	s.mu.Lock()
	s.settled[key] = true
	s.mu.Unlock()
	return nil
}

func (s *simulator) Status(ctx context.Context, transactionID uuid.UUID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settled[transactionID.String()], nil
}
