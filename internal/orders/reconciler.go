package orders

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Reconciler mengonsumsi notifikasi status dari gateway dan menggerakkan
// state machine order. Transisi + kompensasi stok + update status satu
// transaksi; kompensasi setengah jalan tidak pernah ke-observe.
type Reconciler struct {
	Store   Store
	Gateway Gateway
	Dedup   Deduper
	Log     *zap.Logger
}

type ReconcileResult struct {
	OrderID           string
	TransactionStatus string
	From              Status
	To                Status
	Released          bool
	NoOp              bool
}

// HandleNotification: verify -> dedup -> map -> transisi atomik.
// Notifikasi ulang untuk status yang sama adalah no-op (nil error) -- stok
// tidak pernah dikompensasi dua kali untuk transisi yang sama.
func (r *Reconciler) HandleNotification(ctx context.Context, raw []byte) (*ReconcileResult, error) {
	n, err := r.Gateway.VerifyNotification(raw)
	if err != nil {
		return nil, err
	}

	if r.Dedup != nil {
		if seen, err := r.Dedup.Seen(ctx, n.OrderID, string(n.TransactionStatus)); err == nil && seen {
			return &ReconcileResult{OrderID: n.OrderID, TransactionStatus: string(n.TransactionStatus), NoOp: true}, nil
		}
	}

	target, release, err := MapTransactionStatus(n.TransactionStatus)
	if err != nil {
		return nil, err
	}

	var res *ReconcileResult
	err = r.Store.WithTx(ctx, func(tx Tx) error {
		o, err := tx.OrderForUpdate(ctx, n.OrderID)
		if err != nil {
			return err
		}

		if o.Status == target {
			// redelivery; sudah diterapkan sebelumnya
			res = &ReconcileResult{OrderID: o.ID, TransactionStatus: string(n.TransactionStatus), From: o.Status, To: target, NoOp: true}
			return nil
		}
		if !CanTransition(o.Status, target) {
			return fmt.Errorf("%w: %s -> %s (order=%s)", ErrInvalidTransition, o.Status, target, o.ID)
		}

		if release {
			for _, ln := range o.Lines {
				if err := tx.ReleaseStock(ctx, ln.ProductID, ln.Qty); err != nil {
					return err
				}
			}
		}
		if err := tx.UpdateOrderStatus(ctx, o.ID, target); err != nil {
			return err
		}

		res = &ReconcileResult{OrderID: o.ID, TransactionStatus: string(n.TransactionStatus), From: o.Status, To: target, Released: release}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if r.Dedup != nil {
		_ = r.Dedup.Mark(ctx, n.OrderID, string(n.TransactionStatus))
	}
	if r.Log != nil && !res.NoOp {
		r.Log.Info("order reconciled",
			zap.String("order_id", res.OrderID),
			zap.String("transaction_status", string(n.TransactionStatus)),
			zap.String("from", string(res.From)),
			zap.String("to", string(res.To)),
			zap.Bool("stock_released", res.Released),
		)
	}
	return res, nil
}
