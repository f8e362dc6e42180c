package worker

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"shopline-api/internal/domain"
	"shopline-api/internal/infrastructure/payment"
	"shopline-api/internal/repo"
)

const reconcileBatch = 50

// ReconciliationWorker sweeps payments stuck in pending whose gateway charge
// actually settled (capture succeeded but the response was lost) and completes
// the pending→paid transition. It goes through the same locked check as the
// request path, so a racing client retry and the worker still produce exactly
// one transition.
type ReconciliationWorker struct {
	db          *sql.DB
	log         *slog.Logger
	paymentRepo repo.PaymentRepo
	gateway     payment.Gateway
	interval    time.Duration
	pendingAge  time.Duration
}

func NewReconciliationWorker(
	db *sql.DB,
	log *slog.Logger,
	paymentRepo repo.PaymentRepo,
	gateway payment.Gateway,
	interval time.Duration,
	pendingAge time.Duration,
) *ReconciliationWorker {
	return &ReconciliationWorker{
		db:          db,
		log:         log,
		paymentRepo: paymentRepo,
		gateway:     gateway,
		interval:    interval,
		pendingAge:  pendingAge,
	}
}

func (rw *ReconciliationWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(rw.interval)
	defer ticker.Stop()

	rw.log.Info("reconciliation worker started", "interval", rw.interval.String())

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := rw.process(ctx); err != nil {
				rw.log.Error("reconciliation failed", "error", err)
			}
		}
	}
}

func (rw *ReconciliationWorker) process(ctx context.Context) error {
	stuck, err := rw.paymentRepo.FindStuckPending(ctx, rw.pendingAge, reconcileBatch)
	if err != nil {
		return err
	}

	for _, txn := range stuck {
		settled, err := rw.gateway.Status(ctx, txn.ID)
		if err != nil {
			rw.log.Error("gateway status check failed", "transaction_id", txn.ID.String(), "error", err)
			continue
		}
		if !settled {
			// Never charged; the customer can retry whenever.
			continue
		}
		if err := rw.complete(ctx, txn.OrderID); err != nil {
			rw.log.Error("reconcile failed", "order_id", txn.OrderID, "error", err)
		}
	}
	return nil
}

// complete applies the paid transition under the same payment-row lock the
// request path uses.
func (rw *ReconciliationWorker) complete(ctx context.Context, orderID int64) error {
	tx, err := rw.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	txn, err := rw.paymentRepo.FindByOrderForUpdate(ctx, tx, orderID)
	if err != nil {
		return err
	}
	if txn == nil || txn.Payment.Status == domain.PaymentPaid {
		return tx.Commit()
	}

	if err := rw.paymentRepo.MarkPaid(ctx, tx, txn.ID, time.Now()); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	rw.log.Info("reconciled ghost payment", "order_id", orderID, "transaction_id", txn.ID.String())
	return nil
}
