// Package cache keeps the last-known snapshot of orders and catalog
// items so reads keep working when the relational store is unreachable.
// It is a flat string-keyed JSON store under fixed keys, mirroring
// every successful remote read and every local mutation.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/puestomx/go-kitchen-sync/internal/orders"
	"github.com/puestomx/go-kitchen-sync/internal/tenant"
)

// ErrMiss is returned by KV implementations for an absent key. Store
// methods translate a miss into the type's zero value, never an error.
var ErrMiss = errors.New("cache miss")

// KV is the minimal key-value surface the store needs. Production uses
// Redis; tests use an in-memory map.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Del(ctx context.Context, key string) error
}

const (
	keyOrders       = "cache:orders:%s"
	keyCurrentOrder = "cache:current_order:%s"
	keyProducts     = "cache:products"
	keyKitchenOpen  = "cache:kitchen_open"
)

type Store struct{ kv KV }

func New(kv KV) *Store { return &Store{kv: kv} }

func (s *Store) Orders(ctx context.Context, key tenant.Key) ([]orders.Order, error) {
	var out []orders.Order
	ok, err := s.read(ctx, fmt.Sprintf(keyOrders, key.CacheKey()), &out)
	if err != nil || !ok {
		return []orders.Order{}, err
	}
	return out, nil
}

func (s *Store) SaveOrders(ctx context.Context, key tenant.Key, os []orders.Order) error {
	return s.write(ctx, fmt.Sprintf(keyOrders, key.CacheKey()), os)
}

func (s *Store) CurrentOrder(ctx context.Context, key tenant.Key) (*orders.Order, error) {
	var o orders.Order
	ok, err := s.read(ctx, fmt.Sprintf(keyCurrentOrder, key.CacheKey()), &o)
	if err != nil || !ok {
		return nil, err
	}
	return &o, nil
}

// SetCurrentOrder stores the tracked order and upserts it into the
// order-list snapshot so the two views cannot drift apart.
func (s *Store) SetCurrentOrder(ctx context.Context, key tenant.Key, o orders.Order) error {
	if err := s.write(ctx, fmt.Sprintf(keyCurrentOrder, key.CacheKey()), o); err != nil {
		return err
	}
	list, err := s.Orders(ctx, key)
	if err != nil {
		return err
	}
	found := false
	for i := range list {
		if list[i].ID == o.ID {
			list[i] = o
			found = true
			break
		}
	}
	if !found {
		list = append(list, o)
	}
	return s.SaveOrders(ctx, key, list)
}

// AppendOrder mirrors a newly created order into the list snapshot.
func (s *Store) AppendOrder(ctx context.Context, key tenant.Key, o orders.Order) error {
	list, err := s.Orders(ctx, key)
	if err != nil {
		return err
	}
	return s.SaveOrders(ctx, key, append([]orders.Order{o}, list...))
}

// UpdateOrderStatus applies a status mutation to the list snapshot and,
// when the mutated order is the tracked one, to the current slot too.
// Unknown ids are a no-op.
func (s *Store) UpdateOrderStatus(ctx context.Context, key tenant.Key, id string, status orders.Status) error {
	list, err := s.Orders(ctx, key)
	if err != nil {
		return err
	}
	for i := range list {
		if list[i].ID == id {
			list[i].Status = status
			if err := s.SaveOrders(ctx, key, list); err != nil {
				return err
			}
			break
		}
	}
	cur, err := s.CurrentOrder(ctx, key)
	if err != nil {
		return err
	}
	if cur != nil && cur.ID == id {
		cur.Status = status
		return s.write(ctx, fmt.Sprintf(keyCurrentOrder, key.CacheKey()), cur)
	}
	return nil
}

// DeleteOrder removes the entry from the cached snapshot only; remote
// records are never deleted by this service.
func (s *Store) DeleteOrder(ctx context.Context, key tenant.Key, id string) error {
	list, err := s.Orders(ctx, key)
	if err != nil {
		return err
	}
	kept := list[:0]
	for _, o := range list {
		if o.ID != id {
			kept = append(kept, o)
		}
	}
	if err := s.SaveOrders(ctx, key, kept); err != nil {
		return err
	}
	cur, err := s.CurrentOrder(ctx, key)
	if err != nil {
		return err
	}
	if cur != nil && cur.ID == id {
		return s.kv.Del(ctx, fmt.Sprintf(keyCurrentOrder, key.CacheKey()))
	}
	return nil
}

func (s *Store) Products(ctx context.Context) ([]orders.Product, error) {
	var out []orders.Product
	ok, err := s.read(ctx, keyProducts, &out)
	if err != nil || !ok {
		return []orders.Product{}, err
	}
	return out, nil
}

func (s *Store) SaveProducts(ctx context.Context, ps []orders.Product) error {
	return s.write(ctx, keyProducts, ps)
}

// KitchenOpen defaults to open when never set.
func (s *Store) KitchenOpen(ctx context.Context) (bool, error) {
	var open bool
	ok, err := s.read(ctx, keyKitchenOpen, &open)
	if err != nil {
		return true, err
	}
	if !ok {
		return true, nil
	}
	return open, nil
}

func (s *Store) SetKitchenOpen(ctx context.Context, open bool) error {
	return s.write(ctx, keyKitchenOpen, open)
}

func (s *Store) read(ctx context.Context, key string, v any) (bool, error) {
	raw, err := s.kv.Get(ctx, key)
	if errors.Is(err, ErrMiss) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (s *Store) write(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.kv.Set(ctx, key, string(b))
}
