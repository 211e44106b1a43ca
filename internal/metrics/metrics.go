package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	OrdersCreated   prometheus.Counter
	OrderFailures   *prometheus.CounterVec
	Reconciliations *prometheus.CounterVec
	HTTPDuration    *prometheus.HistogramVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		OrdersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "commerce", Name: "orders_created_total",
			Help: "Orders successfully created (status PENDING, stock reserved).",
		}),
		OrderFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "commerce", Name: "order_failures_total",
			Help: "Order creation attempts rolled back, by reason.",
		}, []string{"reason"}),
		Reconciliations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "commerce", Name: "reconciliations_total",
			Help: "Gateway notifications reconciled, by resulting status.",
		}, []string{"status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "commerce", Name: "http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "code"}),
	}
	reg.MustRegister(m.OrdersCreated, m.OrderFailures, m.Reconciliations, m.HTTPDuration)
	return m
}

// Middleware mencatat durasi semua request.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(sw, r)
		m.HTTPDuration.WithLabelValues(r.Method, strconv.Itoa(sw.code)).Observe(time.Since(start).Seconds())
	})
}

type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}
