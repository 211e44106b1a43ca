package orders

import (
	"context"

	"github.com/belanjaku/commerce-api/internal/catalog"
	"github.com/belanjaku/commerce-api/internal/payment"
)

// Tx adalah satu unit of work. Semua mutasi di dalam fn WithTx commit bareng
// atau batal bareng; assembler/reconciler tidak pernah pegang handle transaksi
// global.
type Tx interface {
	// ProductsForUpdate batch-load produk (kategori, diskon, stok) dan lock
	// row inventory-nya sampai transaksi selesai.
	ProductsForUpdate(ctx context.Context, ids []string) (map[string]catalog.Product, error)
	ReserveStock(ctx context.Context, productID string, qty int) error
	ReleaseStock(ctx context.Context, productID string, qty int) error
	InsertOrder(ctx context.Context, o *Order) error
	InsertLines(ctx context.Context, lines []OrderLine) error
	// OrderForUpdate load order + lines dengan row lock; ErrOrderNotFound kalau absen.
	OrderForUpdate(ctx context.Context, orderID string) (*Order, error)
	UpdateOrderStatus(ctx context.Context, orderID string, st Status) error
}

type Store interface {
	WithTx(ctx context.Context, fn func(tx Tx) error) error
}

// Gateway adalah kolaborator payment eksternal.
type Gateway interface {
	CreateTransaction(ctx context.Context, orderID string, grossCents int64, items []payment.Item) (*payment.Charge, error)
	VerifyNotification(raw []byte) (*payment.Notification, error)
}

// Deduper: fast-path idempotensi webhook. Boleh nil (cek DB tetap jalan).
type Deduper interface {
	Seen(ctx context.Context, orderID, status string) (bool, error)
	Mark(ctx context.Context, orderID, status string) error
}
