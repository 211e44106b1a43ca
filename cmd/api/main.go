package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/belanjaku/commerce-api/internal/config"
	"github.com/belanjaku/commerce-api/internal/httpx"
	kafkax "github.com/belanjaku/commerce-api/internal/kafka"
	"github.com/belanjaku/commerce-api/internal/logging"
	"github.com/belanjaku/commerce-api/internal/metrics"
	"github.com/belanjaku/commerce-api/internal/orders"
	"github.com/belanjaku/commerce-api/internal/payment"
	"github.com/belanjaku/commerce-api/internal/postgres"
	"github.com/belanjaku/commerce-api/internal/redisx"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	lg, err := logging.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = lg.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB + migrations
	if err := postgres.Migrate(cfg.PostgresDSN); err != nil {
		lg.Fatal("migrate", zap.Error(err))
	}
	db, err := postgres.Connect(ctx, cfg.PostgresDSN, int32(cfg.DBMaxConns))
	if err != nil {
		lg.Fatal("db connect", zap.Error(err))
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producer (lifecycle events)
	prod := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderLifecycle, 1024, lg)
	prod.Start(ctx)

	// Metrics
	reg := prometheus.NewRegistry()
	mx := metrics.New(reg)

	// Core wiring
	store := &orders.PgStore{DB: db}
	gateway := payment.NewMidtransClient(cfg.GatewayBaseURL, cfg.GatewayServerKey)
	assembler := &orders.Assembler{Store: store, Gateway: gateway, Log: lg}
	reconciler := &orders.Reconciler{
		Store:   store,
		Gateway: gateway,
		Dedup:   &redisx.NotificationDedup{R: rdb},
		Log:     lg,
	}

	router := httpx.NewRouter(mx.Middleware)
	router.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	oh := &httpx.OrdersHandler{
		Assembler: assembler,
		Store:     store,
		Producer:  prod,
		Redis:     rdb,
		Metrics:   mx,
		Service:   cfg.ServiceName,
		Log:       lg,
	}
	oh.Register(router)

	ph := &httpx.PaymentsHandler{
		Reconciler: reconciler,
		Producer:   prod,
		Redis:      rdb,
		Metrics:    mx,
		Service:    cfg.ServiceName,
		Log:        lg,
	}
	ph.Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		lg.Info("HTTP listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			lg.Fatal("listen", zap.Error(err))
		}
	}()

	// wait signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	lg.Info("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	prod.Close() // tutup inbox -> flush & close writer
	prod.WaitClosed()
	cancel()
}
