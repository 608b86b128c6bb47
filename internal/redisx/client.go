package redisx

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/puestomx/go-kitchen-sync/internal/cache"
)

func New(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
}

// KV adapts a redis client to the cache store's key-value surface.
type KV struct{ C *redis.Client }

func (k KV) Get(ctx context.Context, key string) (string, error) {
	v, err := k.C.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", cache.ErrMiss
	}
	return v, err
}

func (k KV) Set(ctx context.Context, key, value string) error {
	return k.C.Set(ctx, key, value, 0).Err()
}

func (k KV) Del(ctx context.Context, key string) error {
	return k.C.Del(ctx, key).Err()
}

func Exists(ctx context.Context, rdb *redis.Client, key string) (bool, error) {
	n, err := rdb.Exists(ctx, key).Result()
	return n > 0, err
}
