package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	kafkax "github.com/belanjaku/commerce-api/internal/kafka"
	"github.com/belanjaku/commerce-api/internal/metrics"
	"github.com/belanjaku/commerce-api/internal/orders"
	"github.com/belanjaku/commerce-api/internal/payment"
	"github.com/belanjaku/commerce-api/internal/redisx"
)

// PaymentsHandler menerima webhook status dari gateway. Verifikasi signature
// dan mapping status jadi urusan reconciler; di sini cuma translate error ke
// HTTP code supaya gateway tahu harus retry atau tidak.
type PaymentsHandler struct {
	Reconciler *orders.Reconciler
	Producer   *kafkax.Producer
	Redis      *redis.Client
	Metrics    *metrics.Metrics
	Service    string
	Log        *zap.Logger
}

func (h *PaymentsHandler) Register(r *chi.Mux) {
	r.Post("/payments/notifications", h.handleNotification)
}

func (h *PaymentsHandler) handleNotification(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unreadable body"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	res, err := h.Reconciler.HandleNotification(ctx, raw)
	if err != nil {
		switch {
		case errors.Is(err, payment.ErrInvalidSignature):
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid signature"})
		case errors.Is(err, orders.ErrOrderNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
		case errors.Is(err, orders.ErrInvalidTransactionStatus):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		case errors.Is(err, orders.ErrInvalidTransition):
			writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		default:
			if h.Log != nil {
				h.Log.Error("reconcile failed", zap.Error(err))
			}
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		}
		return
	}

	if !res.NoOp {
		if h.Metrics != nil {
			h.Metrics.Reconciliations.WithLabelValues(string(res.To)).Inc()
		}
		// refresh cache + publish event lifecycle; dua-duanya best effort,
		// status di DB sudah commit.
		statusKey := fmt.Sprintf(redisx.KeyOrderStatus, res.OrderID)
		b, _ := json.Marshal(map[string]any{"status": res.To})
		_ = h.Redis.Set(ctx, statusKey, b, redisx.TTLStatusCache).Err()

		if evType := orders.EventForStatus(res.To); evType != "" {
			ev := orders.Envelope{
				EventID:       uuid.NewString(),
				EventType:     evType,
				EventVersion:  1,
				OccurredAt:    time.Now().UTC(),
				Producer:      h.Service,
				TraceID:       r.Header.Get("X-Request-Id"),
				CorrelationID: res.OrderID,
				Payload: kafkax.MustMarshal(orders.OrderStatusPayload{
					OrderID:           res.OrderID,
					Status:            res.To,
					TransactionStatus: res.TransactionStatus,
					StockReleased:     res.Released,
				}),
			}
			h.Producer.Publish(orders.PartitionKey(res.OrderID), kafkax.MustMarshal(ev),
				kafkago.Header{Key: "x-event-type", Value: []byte(evType)},
				kafkago.Header{Key: "x-event-version", Value: []byte("1")},
			)
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
