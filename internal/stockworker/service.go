// Package stockworker drains product stock when the kitchen starts
// preparing an order. It consumes the status-change stream so the API
// process never blocks a mutation on inventory bookkeeping.
package stockworker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/puestomx/go-kitchen-sync/internal/kafka"
	"github.com/puestomx/go-kitchen-sync/internal/orders"
	"github.com/puestomx/go-kitchen-sync/internal/redisx"
)

type Service struct {
	Stock *orders.StockRepo
	Redis *redis.Client
}

// HandleStatusChanged is wired as the consumer handler. Stock is only
// consumed on the transition into PREPARING; every other status change
// is acknowledged untouched.
func (s *Service) HandleStatusChanged(ctx context.Context, m kafkago.Message) error {
	var env orders.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != orders.EventOrderStatusChanged {
		return nil
	}

	// dedup by event id so a redelivered message cannot drain twice
	dkey := fmt.Sprintf(redisx.KeyDedup, "stockworker", env.EventID)
	exists, _ := redisx.Exists(ctx, s.Redis, dkey)
	if exists {
		return nil
	}

	p, err := kafkax.UnwrapPayload[orders.OrderStatusChangedPayload](env.Payload)
	if err != nil {
		return err
	}
	if p.Status != orders.StatusPreparing || len(p.Items) == 0 {
		_ = s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()
		return nil
	}

	if err := s.Stock.ConsumeAll(ctx, p.Items); err != nil {
		return err
	}
	if err := s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err(); err != nil {
		log.Printf("dedup mark %s: %v", env.EventID, err)
	}
	return nil
}
