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

	"github.com/puestomx/go-kitchen-sync/internal/bus"
	"github.com/puestomx/go-kitchen-sync/internal/cache"
	"github.com/puestomx/go-kitchen-sync/internal/config"
	"github.com/puestomx/go-kitchen-sync/internal/events"
	"github.com/puestomx/go-kitchen-sync/internal/health"
	"github.com/puestomx/go-kitchen-sync/internal/httpx"
	kafkax "github.com/puestomx/go-kitchen-sync/internal/kafka"
	"github.com/puestomx/go-kitchen-sync/internal/orders"
	"github.com/puestomx/go-kitchen-sync/internal/postgres"
	"github.com/puestomx/go-kitchen-sync/internal/redisx"
	"github.com/puestomx/go-kitchen-sync/internal/syncer"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producers
	createdProd := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderCreated, 1024)
	createdProd.Start(ctx)
	statusProd := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderStatusChanged, 1024)
	statusProd.Start(ctx)

	// wiring
	repo := &orders.Repo{DB: db}
	store := cache.New(redisx.KV{C: rdb})
	b := bus.New()
	sink := &events.KafkaSink{
		CreatedProducer: createdProd,
		StatusProducer:  statusProd,
		Service:         cfg.ServiceName,
	}
	sync := syncer.New(repo, repo, store, b, sink)

	checker := health.NewChecker(db, rdb, cfg.HealthInterval)
	go checker.Run(ctx)

	router := httpx.NewRouter()
	(&httpx.OrdersHandler{Sync: sync, Health: checker}).Register(router)
	(&httpx.ProductsHandler{Sync: sync}).Register(router)
	(&httpx.KitchenHandler{Sync: sync}).Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Printf("HTTP listening at %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	createdProd.Close()
	statusProd.Close()
	cancel()
	createdProd.WaitClosed()
	statusProd.WaitClosed()
}
