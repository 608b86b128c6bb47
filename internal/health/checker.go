// Package health polls the backing stores on a fixed interval so the
// UI can show a connected/offline banner instead of failing silently.
package health

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type State string

const (
	StateChecking     State = "checking"
	StateConnected    State = "connected"
	StateDisconnected State = "disconnected"
)

type Snapshot struct {
	State    State      `json:"state"`
	LastSync *time.Time `json:"last_sync,omitempty"`
}

type Checker struct {
	DB       *pgxpool.Pool
	Redis    *redis.Client
	Interval time.Duration

	mu       sync.RWMutex
	state    State
	lastSync *time.Time
}

func NewChecker(db *pgxpool.Pool, rdb *redis.Client, interval time.Duration) *Checker {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Checker{DB: db, Redis: rdb, Interval: interval, state: StateChecking}
}

// Run polls until the context is cancelled. The ticker dies with its
// owner; no poll outlives the process lifecycle that started it.
func (c *Checker) Run(ctx context.Context) {
	c.check(ctx)
	t := time.NewTicker(c.Interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			c.check(ctx)
		}
	}
}

func (c *Checker) check(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	ok := c.DB.Ping(ctx) == nil && c.Redis.Ping(ctx).Err() == nil

	c.mu.Lock()
	defer c.mu.Unlock()
	if ok {
		now := time.Now()
		c.state = StateConnected
		c.lastSync = &now
	} else {
		c.state = StateDisconnected
	}
}

func (c *Checker) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Snapshot{State: c.state, LastSync: c.lastSync}
}
