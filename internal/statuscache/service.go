package statuscache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	kafkax "github.com/belanjaku/commerce-api/internal/kafka"
	"github.com/belanjaku/commerce-api/internal/orders"
	"github.com/belanjaku/commerce-api/internal/redisx"
)

// Service meng-update cache status order di Redis dari event lifecycle,
// supaya GET /orders/{id} jarang nyentuh DB.
type Service struct {
	Redis       *redis.Client
	ServiceName string
	Log         *zap.Logger
}

// HandleEvent dipasang sebagai handler consumer topic order.lifecycle.
func (s *Service) HandleEvent(ctx context.Context, m kafkago.Message) error {
	var env orders.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}

	// dedup pakai event_id; event ulang tidak perlu diproses lagi
	dkey := fmt.Sprintf(redisx.KeyDedup, s.ServiceName, env.EventID)
	if exists, _ := redisx.Exists(ctx, s.Redis, dkey); exists {
		return nil
	}

	var orderID string
	var status orders.Status
	switch env.EventType {
	case orders.EventOrderCreated:
		p, err := kafkax.UnwrapPayload[orders.OrderCreatedPayload](env.Payload)
		if err != nil {
			return err
		}
		orderID, status = p.OrderID, p.Status
	case orders.EventOrderPaid, orders.EventOrderFailed, orders.EventOrderRefunded:
		p, err := kafkax.UnwrapPayload[orders.OrderStatusPayload](env.Payload)
		if err != nil {
			return err
		}
		orderID, status = p.OrderID, p.Status
	default:
		return nil // ignore
	}

	key := fmt.Sprintf(redisx.KeyOrderStatus, orderID)
	b, _ := json.Marshal(map[string]any{"status": status})
	if err := s.Redis.Set(ctx, key, b, redisx.TTLStatusCache).Err(); err != nil {
		return err
	}
	_ = s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()

	if s.Log != nil {
		s.Log.Debug("status cache updated",
			zap.String("order_id", orderID),
			zap.String("status", string(status)),
			zap.String("event_type", env.EventType),
		)
	}
	return nil
}
