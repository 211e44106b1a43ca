package redisx

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// NotificationDedup: short-circuit webhook yang dikirim ulang gateway.
// Redis cuma fast-path; kebenaran tetap di row order (cek dalam transaksi).
type NotificationDedup struct {
	R *redis.Client
}

func (d *NotificationDedup) Seen(ctx context.Context, orderID, status string) (bool, error) {
	key := fmt.Sprintf(KeyNotifDedup, orderID, status)
	return Exists(ctx, d.R, key)
}

func (d *NotificationDedup) Mark(ctx context.Context, orderID, status string) error {
	key := fmt.Sprintf(KeyNotifDedup, orderID, status)
	return d.R.Set(ctx, key, "1", TTLDedup).Err()
}
