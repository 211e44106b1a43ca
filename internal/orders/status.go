package orders

import (
	"fmt"

	"github.com/belanjaku/commerce-api/internal/payment"
)

type Status string

const (
	StatusPending Status = "PENDING"
	StatusPaid    Status = "PAID"
	StatusFailed  Status = "FAILED"
	StatusRefund  Status = "REFUND"
)

// validNext: transisi yang boleh diterapkan reconciler. PAID -> REFUND untuk
// refund/chargeback setelah settle. FAILED dan REFUND terminal: stok sudah
// dikompensasi, balik ke PENDING butuh reserve ulang yang belum tentu bisa.
var validNext = map[Status]map[Status]bool{
	StatusPending: {StatusPaid: true, StatusFailed: true, StatusRefund: true},
	StatusPaid:    {StatusRefund: true},
	StatusFailed:  {},
	StatusRefund:  {},
}

func CanTransition(from, to Status) bool {
	return validNext[from][to]
}

// MapTransactionStatus memetakan vocabulary gateway ke status internal.
// release=true artinya transisi ini mengembalikan stok semua line.
// Status di luar tabel ini fatal untuk attempt reconcile tsb.
func MapTransactionStatus(ts payment.TransactionStatus) (status Status, release bool, err error) {
	switch ts {
	case payment.StatusCapture, payment.StatusSettlement:
		return StatusPaid, false, nil
	case payment.StatusPending:
		return StatusPending, false, nil
	case payment.StatusDeny, payment.StatusCancel, payment.StatusExpire, payment.StatusFailure:
		return StatusFailed, true, nil
	case payment.StatusRefund, payment.StatusPartialRefund, payment.StatusChargeback, payment.StatusPartialChargeback:
		return StatusRefund, true, nil
	}
	return "", false, fmt.Errorf("%w: %q", ErrInvalidTransactionStatus, ts)
}
