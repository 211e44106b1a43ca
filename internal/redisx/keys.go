package redisx

import "time"

const (
	// Cache status order: order_status:{order_id} -> {"status":"..."}
	KeyOrderStatus = "order_status:%s"

	// Dedup webhook gateway: dedup:notif:{order_id}:{transaction_status}
	KeyNotifDedup = "dedup:notif:%s:%s"

	// Dedup event processing di worker: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLStatusCache = 5 * time.Minute
	TTLDedup       = 48 * time.Hour
)
