package cache

import (
	"context"
	"testing"

	"github.com/puestomx/go-kitchen-sync/internal/orders"
	"github.com/puestomx/go-kitchen-sync/internal/tenant"
)

type memKV struct{ m map[string]string }

func newMemKV() *memKV { return &memKV{m: map[string]string{}} }

func (k *memKV) Get(_ context.Context, key string) (string, error) {
	v, ok := k.m[key]
	if !ok {
		return "", ErrMiss
	}
	return v, nil
}

func (k *memKV) Set(_ context.Context, key, value string) error {
	k.m[key] = value
	return nil
}

func (k *memKV) Del(_ context.Context, key string) error {
	delete(k.m, key)
	return nil
}

var tkey = tenant.Phone("5551234567")

func order(id string, status orders.Status) orders.Order {
	return orders.Order{ID: id, Status: status, Items: []orders.LineItem{}}
}

func TestReadsReturnDefaultsWhenEmpty(t *testing.T) {
	s := New(newMemKV())
	ctx := context.Background()

	list, err := s.Orders(ctx, tkey)
	if err != nil || len(list) != 0 {
		t.Fatalf("Orders = %v, %v; want empty, nil", list, err)
	}
	cur, err := s.CurrentOrder(ctx, tkey)
	if err != nil || cur != nil {
		t.Fatalf("CurrentOrder = %v, %v; want nil, nil", cur, err)
	}
	ps, err := s.Products(ctx)
	if err != nil || len(ps) != 0 {
		t.Fatalf("Products = %v, %v; want empty, nil", ps, err)
	}
	open, err := s.KitchenOpen(ctx)
	if err != nil || !open {
		t.Fatalf("KitchenOpen = %v, %v; want true, nil", open, err)
	}
}

func TestUpdateOrderStatusTouchesListAndCurrentSlot(t *testing.T) {
	s := New(newMemKV())
	ctx := context.Background()

	if err := s.SaveOrders(ctx, tkey, []orders.Order{order("7", orders.StatusNew), order("8", orders.StatusReady)}); err != nil {
		t.Fatal(err)
	}
	if err := s.SetCurrentOrder(ctx, tkey, order("7", orders.StatusNew)); err != nil {
		t.Fatal(err)
	}

	if err := s.UpdateOrderStatus(ctx, tkey, "7", orders.StatusPreparing); err != nil {
		t.Fatal(err)
	}

	list, _ := s.Orders(ctx, tkey)
	for _, o := range list {
		switch o.ID {
		case "7":
			if o.Status != orders.StatusPreparing {
				t.Fatalf("order 7 status = %s, want PREPARING", o.Status)
			}
		case "8":
			if o.Status != orders.StatusReady {
				t.Fatalf("order 8 status = %s, must be untouched", o.Status)
			}
		}
	}
	cur, _ := s.CurrentOrder(ctx, tkey)
	if cur == nil || cur.Status != orders.StatusPreparing {
		t.Fatalf("current order = %+v, want status PREPARING", cur)
	}
}

func TestUpdateOrderStatusUnknownIDIsNoop(t *testing.T) {
	s := New(newMemKV())
	ctx := context.Background()
	if err := s.SaveOrders(ctx, tkey, []orders.Order{order("7", orders.StatusNew)}); err != nil {
		t.Fatal(err)
	}
	if err := s.UpdateOrderStatus(ctx, tkey, "nope", orders.StatusReady); err != nil {
		t.Fatal(err)
	}
	list, _ := s.Orders(ctx, tkey)
	if list[0].Status != orders.StatusNew {
		t.Fatalf("status = %s, want NEW", list[0].Status)
	}
}

func TestSetCurrentOrderUpsertsIntoList(t *testing.T) {
	s := New(newMemKV())
	ctx := context.Background()

	if err := s.SetCurrentOrder(ctx, tkey, order("9", orders.StatusNew)); err != nil {
		t.Fatal(err)
	}
	list, _ := s.Orders(ctx, tkey)
	if len(list) != 1 || list[0].ID != "9" {
		t.Fatalf("list = %+v, want order 9 appended", list)
	}

	if err := s.SetCurrentOrder(ctx, tkey, order("9", orders.StatusReady)); err != nil {
		t.Fatal(err)
	}
	list, _ = s.Orders(ctx, tkey)
	if len(list) != 1 || list[0].Status != orders.StatusReady {
		t.Fatalf("list = %+v, want single order 9 updated", list)
	}
}

func TestDeleteOrderRemovesListEntryAndCurrentSlot(t *testing.T) {
	s := New(newMemKV())
	ctx := context.Background()
	_ = s.SaveOrders(ctx, tkey, []orders.Order{order("1", orders.StatusNew), order("2", orders.StatusNew)})
	_ = s.SetCurrentOrder(ctx, tkey, order("1", orders.StatusNew))

	if err := s.DeleteOrder(ctx, tkey, "1"); err != nil {
		t.Fatal(err)
	}
	list, _ := s.Orders(ctx, tkey)
	if len(list) != 1 || list[0].ID != "2" {
		t.Fatalf("list = %+v, want only order 2", list)
	}
	cur, _ := s.CurrentOrder(ctx, tkey)
	if cur != nil {
		t.Fatalf("current order = %+v, want nil after delete", cur)
	}
}

func TestTenantsAreIsolated(t *testing.T) {
	s := New(newMemKV())
	ctx := context.Background()
	other := tenant.Business("2")

	_ = s.SaveOrders(ctx, tkey, []orders.Order{order("1", orders.StatusNew)})
	list, _ := s.Orders(ctx, other)
	if len(list) != 0 {
		t.Fatalf("tenant %v sees %d foreign orders", other, len(list))
	}
}

func TestKitchenOpenRoundTrip(t *testing.T) {
	s := New(newMemKV())
	ctx := context.Background()
	if err := s.SetKitchenOpen(ctx, false); err != nil {
		t.Fatal(err)
	}
	open, err := s.KitchenOpen(ctx)
	if err != nil || open {
		t.Fatalf("KitchenOpen = %v, %v; want false, nil", open, err)
	}
}
