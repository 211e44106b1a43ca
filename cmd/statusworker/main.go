package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/belanjaku/commerce-api/internal/config"
	kafkax "github.com/belanjaku/commerce-api/internal/kafka"
	"github.com/belanjaku/commerce-api/internal/logging"
	"github.com/belanjaku/commerce-api/internal/orders"
	"github.com/belanjaku/commerce-api/internal/redisx"
	"github.com/belanjaku/commerce-api/internal/statuscache"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	lg, err := logging.New(cfg.ServiceName+"-statusworker", cfg.Env)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = lg.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	svc := &statuscache.Service{
		Redis:       rdb,
		ServiceName: "statusworker",
		Log:         lg,
	}

	cons := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.WorkerGroup, orders.TopicOrderLifecycle, cfg.WorkerCount, lg)

	go func() {
		lg.Info("status worker started",
			zap.String("group", cfg.WorkerGroup),
			zap.String("topic", orders.TopicOrderLifecycle),
			zap.Int("workers", cfg.WorkerCount),
		)
		if err := cons.Start(ctx, svc.HandleEvent); err != nil {
			lg.Error("consumer exit", zap.Error(err))
			cancel()
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	lg.Info("shutting down worker...")
	cancel()
	time.Sleep(500 * time.Millisecond)
}
