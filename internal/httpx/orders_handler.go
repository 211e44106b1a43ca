package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/belanjaku/commerce-api/internal/discount"
	"github.com/belanjaku/commerce-api/internal/inventory"
	kafkax "github.com/belanjaku/commerce-api/internal/kafka"
	"github.com/belanjaku/commerce-api/internal/metrics"
	"github.com/belanjaku/commerce-api/internal/orders"
	"github.com/belanjaku/commerce-api/internal/payment"
	"github.com/belanjaku/commerce-api/internal/redisx"
)

type OrdersHandler struct {
	Assembler *orders.Assembler
	Store     *orders.PgStore
	Producer  *kafkax.Producer
	Redis     *redis.Client
	Metrics   *metrics.Metrics
	Service   string
	Log       *zap.Logger
}

type CreateOrderReq struct {
	UserID string            `json:"user_id"`
	Items  []orders.CartLine `json:"items"`
}

type CreateOrderResp struct {
	OrderID     string `json:"order_id"`
	Status      string `json:"status"`
	TotalCents  int64  `json:"total_cents"`
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url"`
}

func (h *OrdersHandler) Register(r *chi.Mux) {
	r.Post("/orders", h.createOrder)
	r.Get("/orders/{id}", h.getOrder)
	r.Get("/products", h.listProducts)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *OrdersHandler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if req.UserID == "" || len(req.Items) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing fields"})
		return
	}
	for _, it := range req.Items {
		if it.ProductID == "" || it.Qty <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid item"})
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 20*time.Second)
	defer cancel()

	created, err := h.Assembler.CreateOrder(ctx, req.UserID, req.Items)
	if err != nil {
		h.writeOrderError(w, err)
		return
	}
	if h.Metrics != nil {
		h.Metrics.OrdersCreated.Inc()
	}

	// Cache status PENDING biar GET cepat; best effort.
	statusKey := fmt.Sprintf(redisx.KeyOrderStatus, created.Order.ID)
	_ = h.Redis.Set(ctx, statusKey, `{"status":"PENDING"}`, redisx.TTLStatusCache).Err()

	h.publishCreated(r, created.Order)

	writeJSON(w, http.StatusCreated, CreateOrderResp{
		OrderID:     created.Order.ID,
		Status:      string(created.Order.Status),
		TotalCents:  created.Order.TotalCents,
		Token:       created.Token,
		RedirectURL: created.RedirectURL,
	})
}

func (h *OrdersHandler) writeOrderError(w http.ResponseWriter, err error) {
	var notFound *orders.ProductsNotFoundError
	var noStock *inventory.InsufficientStockError

	reason := "internal"
	switch {
	case errors.As(err, &notFound), errors.Is(err, discount.ErrNotFound):
		reason = "not_found"
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.As(err, &noStock):
		reason = "insufficient_stock"
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, payment.ErrUnavailable):
		reason = "gateway_unavailable"
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
	default:
		if h.Log != nil {
			h.Log.Error("create order failed", zap.Error(err))
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
	if h.Metrics != nil {
		h.Metrics.OrderFailures.WithLabelValues(reason).Inc()
	}
}

func (h *OrdersHandler) publishCreated(r *http.Request, o *orders.Order) {
	lines := make([]orders.LineQty, 0, len(o.Lines))
	for _, ln := range o.Lines {
		lines = append(lines, orders.LineQty{ProductID: ln.ProductID, Qty: ln.Qty})
	}
	ev := orders.Envelope{
		EventID:       uuid.NewString(),
		EventType:     orders.EventOrderCreated,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      h.Service,
		TraceID:       r.Header.Get("X-Request-Id"),
		CorrelationID: o.ID,
		Payload: kafkax.MustMarshal(orders.OrderCreatedPayload{
			OrderID:    o.ID,
			UserID:     o.UserID,
			Status:     o.Status,
			TotalCents: o.TotalCents,
			Lines:      lines,
		}),
	}
	h.Producer.Publish(orders.PartitionKey(o.ID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(orders.EventOrderCreated)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

func (h *OrdersHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	if orderID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing id"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	// 1) coba cache
	key := fmt.Sprintf(redisx.KeyOrderStatus, orderID)
	if s, err := h.Redis.Get(ctx, key).Result(); err == nil && s != "" {
		writeJSON(w, http.StatusOK, json.RawMessage(s))
		return
	}

	// 2) fallback DB
	status, err := h.Store.GetOrderStatus(ctx, orderID)
	if errors.Is(err, orders.ErrOrderNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	b, _ := json.Marshal(map[string]any{"status": status})
	_ = h.Redis.Set(ctx, key, b, redisx.TTLStatusCache).Err()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

func (h *OrdersHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	ps, err := h.Store.ListProducts(ctx)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	writeJSON(w, http.StatusOK, ps)
}
