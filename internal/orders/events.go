package orders

import (
	"encoding/json"
	"time"
)

const (
	EventOrderCreated  = "OrderCreated"
	EventOrderPaid     = "OrderPaid"
	EventOrderFailed   = "OrderFailed"
	EventOrderRefunded = "OrderRefunded"
)

// EventForStatus: nama event lifecycle utk status hasil reconcile.
func EventForStatus(st Status) string {
	switch st {
	case StatusPaid:
		return EventOrderPaid
	case StatusFailed:
		return EventOrderFailed
	case StatusRefund:
		return EventOrderRefunded
	}
	return ""
}

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // order_id
	Payload       json.RawMessage `json:"payload"`
}

// ---- Payload per event ----

type LineQty struct {
	ProductID string `json:"product_id"`
	Qty       int    `json:"qty"`
}

type OrderCreatedPayload struct {
	OrderID    string    `json:"order_id"`
	UserID     string    `json:"user_id"`
	Status     Status    `json:"status"`
	TotalCents int64     `json:"total_cents"`
	Lines      []LineQty `json:"lines"`
}

type OrderStatusPayload struct {
	OrderID           string `json:"order_id"`
	Status            Status `json:"status"`
	TransactionStatus string `json:"transaction_status"`
	StockReleased     bool   `json:"stock_released"`
}
