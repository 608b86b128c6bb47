package syncer

import (
	"context"
	"fmt"
	"log"

	"github.com/puestomx/go-kitchen-sync/internal/bus"
	"github.com/puestomx/go-kitchen-sync/internal/orders"
	"github.com/puestomx/go-kitchen-sync/internal/tenant"
)

// ListOrders reads from the remote store and refreshes the snapshot.
// When the remote read fails the last cached snapshot is served instead
// of an error; fromCache tells the caller it is looking at stale data.
func (s *Synchronizer) ListOrders(ctx context.Context, key tenant.Key) (list []orders.Order, fromCache bool, err error) {
	list, remoteErr := s.Repo.ListOrders(ctx, key)
	if remoteErr == nil {
		if err := s.Cache.SaveOrders(ctx, key, list); err != nil {
			log.Printf("cache orders snapshot: %v", err)
		}
		return list, false, nil
	}
	log.Printf("remote list orders, serving cache: %v", remoteErr)

	list, err = s.Cache.Orders(ctx, key)
	if err != nil {
		return nil, true, fmt.Errorf("remote and cache both failed: %w", remoteErr)
	}
	return list, true, nil
}

// GetOrder returns nil for not-found; callers branch on emptiness, not
// on errors. Remote failure falls back to the cached snapshots.
func (s *Synchronizer) GetOrder(ctx context.Context, key tenant.Key, id string) (*orders.Order, bool, error) {
	o, remoteErr := s.Repo.GetOrderByID(ctx, id, key)
	if remoteErr == nil {
		return o, false, nil
	}
	log.Printf("remote get order %s, serving cache: %v", id, remoteErr)

	list, err := s.Cache.Orders(ctx, key)
	if err == nil {
		for i := range list {
			if list[i].ID == id {
				return &list[i], true, nil
			}
		}
	}
	cur, err := s.Cache.CurrentOrder(ctx, key)
	if err == nil && cur != nil && cur.ID == id {
		return cur, true, nil
	}
	return nil, true, nil
}

// CreateOrder writes the remote record, mirrors it into the snapshot
// and announces it. Creation has no local-only fallback: an order that
// never reached the store cannot be cooked.
func (s *Synchronizer) CreateOrder(ctx context.Context, key tenant.Key, draft orders.Order) (orders.Order, error) {
	created, err := s.Repo.CreateOrder(ctx, draft, key)
	if err != nil {
		return orders.Order{}, err
	}
	if err := s.Cache.AppendOrder(ctx, key, created); err != nil {
		log.Printf("cache append order %s: %v", created.ID, err)
	}
	s.Bus.Publish(bus.TopicOrdersUpdated)
	if s.Events != nil {
		s.Events.Created(orders.OrderCreatedPayload{
			OrderID:   created.ID,
			TenantKey: key.Value,
			Items:     created.Items,
			Total:     created.Total,
		})
	}
	return created, nil
}

// DeleteOrder removes the cached entry only. Remote deletion is not a
// thing this service does.
func (s *Synchronizer) DeleteOrder(ctx context.Context, key tenant.Key, id string) error {
	if err := s.Cache.DeleteOrder(ctx, key, id); err != nil {
		return err
	}
	s.Bus.Publish(bus.TopicOrdersUpdated)
	return nil
}

// CountPaid is the incoming-order badge number.
func (s *Synchronizer) CountPaid(ctx context.Context, key tenant.Key) (int, error) {
	return s.Repo.CountPaid(ctx, key)
}

func (s *Synchronizer) KitchenOpen(ctx context.Context) (bool, error) {
	return s.Cache.KitchenOpen(ctx)
}

func (s *Synchronizer) SetKitchenOpen(ctx context.Context, open bool) error {
	return s.Cache.SetKitchenOpen(ctx, open)
}
