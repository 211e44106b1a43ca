package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

var ErrNotFound = errors.New("inventory not found")

// InsufficientStockError membawa detail kekurangan stok per produk.
type InsufficientStockError struct {
	ProductID string
	Required  int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: required=%d available=%d", e.ProductID, e.Required, e.Available)
}

// Reserve: lock row inventory (FOR UPDATE) -> cek -> kurangi.
// Jalan di transaksi milik caller; rollback caller membatalkan semuanya.
func Reserve(ctx context.Context, tx pgx.Tx, productID string, qty int) error {
	var available int
	err := tx.QueryRow(ctx, `SELECT quantity FROM inventories WHERE product_id=$1 FOR UPDATE`, productID).Scan(&available)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: product=%s", ErrNotFound, productID)
	}
	if err != nil {
		return err
	}
	if available < qty {
		return &InsufficientStockError{ProductID: productID, Required: qty, Available: available}
	}
	_, err = tx.Exec(ctx, `UPDATE inventories SET quantity = quantity - $2, updated_at = now() WHERE product_id=$1`, productID, qty)
	return err
}

// Release mengembalikan stok; hanya dipanggil jalur kompensasi reconciler.
func Release(ctx context.Context, tx pgx.Tx, productID string, qty int) error {
	ct, err := tx.Exec(ctx, `UPDATE inventories SET quantity = quantity + $2, updated_at = now() WHERE product_id=$1`, productID, qty)
	if err != nil {
		return err
	}
	if ct.RowsAffected() != 1 {
		return fmt.Errorf("%w: product=%s", ErrNotFound, productID)
	}
	return nil
}
