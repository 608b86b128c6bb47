package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/puestomx/go-kitchen-sync/internal/config"
	kafkax "github.com/puestomx/go-kitchen-sync/internal/kafka"
	"github.com/puestomx/go-kitchen-sync/internal/orders"
	"github.com/puestomx/go-kitchen-sync/internal/postgres"
	"github.com/puestomx/go-kitchen-sync/internal/redisx"
	"github.com/puestomx/go-kitchen-sync/internal/stockworker"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	svc := &stockworker.Service{
		Stock: &orders.StockRepo{DB: db},
		Redis: rdb,
	}

	group := getenv("STOCKWORKER_GROUP", "stockworker")
	workers := mustAtoi(os.Getenv("STOCKWORKER_WORKERS"), 4)
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, group, orders.TopicOrderStatusChanged, workers)

	go func() {
		log.Printf("stock consumer started: group=%s topic=%s workers=%d",
			group, orders.TopicOrderStatusChanged, workers)
		if err := cons.Start(ctx, svc.HandleStatusChanged); err != nil {
			log.Printf("consumer exit: %v", err)
			cancel()
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
	case <-ctx.Done():
	}
	log.Println("shutting down stock worker...")
	cancel()
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func mustAtoi(s string, def int) int {
	if s == "" {
		return def
	}
	i, err := strconv.Atoi(s)
	if err != nil || i <= 0 {
		return def
	}
	return i
}
