// Package syncer is the single mutation entry point for order state.
// It writes remote-first with the cache as a shadow copy, gates the
// terminal delivered transition behind the per-order confirmation code,
// and fans out change notifications over the bus.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/puestomx/go-kitchen-sync/internal/bus"
	"github.com/puestomx/go-kitchen-sync/internal/cache"
	"github.com/puestomx/go-kitchen-sync/internal/orders"
	"github.com/puestomx/go-kitchen-sync/internal/tenant"
)

var (
	ErrBadConfirmationCode = errors.New("confirmation code does not match")
	ErrInvalidTransition   = errors.New("invalid status transition")
)

// OrderStore is the remote repository surface the synchronizer needs.
type OrderStore interface {
	ListOrders(ctx context.Context, key tenant.Key) ([]orders.Order, error)
	GetOrderByID(ctx context.Context, id string, key tenant.Key) (*orders.Order, error)
	SetStatus(ctx context.Context, id string, s orders.Status, key tenant.Key) error
	CreateOrder(ctx context.Context, draft orders.Order, key tenant.Key) (orders.Order, error)
	ConfirmationCode(ctx context.Context, id string, key tenant.Key) (string, error)
	CountPaid(ctx context.Context, key tenant.Key) (int, error)
}

// EventSink receives domain events after a successful mutation. A nil
// sink is allowed.
type EventSink interface {
	StatusChanged(p orders.OrderStatusChangedPayload)
	Created(p orders.OrderCreatedPayload)
}

type Synchronizer struct {
	Repo     OrderStore
	Products ProductStore
	Cache    *cache.Store
	Bus      *bus.Bus
	Events   EventSink

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func New(repo OrderStore, products ProductStore, c *cache.Store, b *bus.Bus, sink EventSink) *Synchronizer {
	return &Synchronizer{
		Repo:     repo,
		Products: products,
		Cache:    c,
		Bus:      b,
		Events:   sink,
		locks:    map[string]*sync.Mutex{},
	}
}

// orderLock serializes mutations per order id so rapid duplicate
// clicks cannot interleave and lose updates.
func (s *Synchronizer) orderLock(id string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.locks[id]
	if !ok {
		m = &sync.Mutex{}
		s.locks[id] = m
	}
	return m
}

type SetStatusOpts struct {
	// ConfirmationCode authorizes the delivered transition when the
	// order carries a code.
	ConfirmationCode string
	// Force skips the transition-graph check; the back-office
	// correction view sets arbitrary states on purpose.
	Force bool
}

// SetStatus attempts the remote write, applies the same mutation to the
// cached snapshot regardless of remote outcome, and publishes on
// success. A remote failure still reaches the caller after the local
// write: the caller owns optimistic-UI policy, silent swallow would
// hide genuine backend failures.
func (s *Synchronizer) SetStatus(ctx context.Context, key tenant.Key, id string, next orders.Status, opts SetStatusOpts) error {
	lock := s.orderLock(id)
	lock.Lock()
	defer lock.Unlock()

	if !opts.Force {
		if err := s.checkTransition(ctx, key, id, next); err != nil {
			return err
		}
	}

	// delivered gate: verified before any write, remote or local
	if next == orders.StatusDelivered {
		if err := s.checkConfirmation(ctx, key, id, opts.ConfirmationCode); err != nil {
			return err
		}
	}

	remoteErr := s.Repo.SetStatus(ctx, id, next, key)

	if err := s.Cache.UpdateOrderStatus(ctx, key, id, next); err != nil {
		log.Printf("cache update order %s: %v", id, err)
	}

	if remoteErr != nil {
		return fmt.Errorf("remote status write: %w", remoteErr)
	}

	s.Bus.Publish(bus.TopicOrdersUpdated)
	if s.Events != nil {
		s.Events.StatusChanged(orders.OrderStatusChangedPayload{
			OrderID:   id,
			TenantKey: key.Value,
			Status:    next,
			Items:     s.cachedItems(ctx, key, id),
		})
	}
	return nil
}

// checkTransition validates the kitchen-path graph against the cached
// snapshot. An order the cache has never seen passes; staleness must
// not block the kitchen.
func (s *Synchronizer) checkTransition(ctx context.Context, key tenant.Key, id string, next orders.Status) error {
	list, err := s.Cache.Orders(ctx, key)
	if err != nil {
		return nil
	}
	for _, o := range list {
		if o.ID == id {
			if !orders.CanTransition(o.Status, next) {
				return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, next)
			}
			return nil
		}
	}
	return nil
}

func (s *Synchronizer) checkConfirmation(ctx context.Context, key tenant.Key, id, candidate string) error {
	stored, err := s.Repo.ConfirmationCode(ctx, id, key)
	if err != nil {
		return fmt.Errorf("confirmation lookup: %w", err)
	}
	if stored == "" {
		return nil
	}
	if strings.TrimSpace(candidate) != strings.TrimSpace(stored) {
		return ErrBadConfirmationCode
	}
	return nil
}

func (s *Synchronizer) cachedItems(ctx context.Context, key tenant.Key, id string) []orders.LineItem {
	list, err := s.Cache.Orders(ctx, key)
	if err != nil {
		return nil
	}
	for _, o := range list {
		if o.ID == id {
			return o.Items
		}
	}
	return nil
}
