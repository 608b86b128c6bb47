package orders

import (
	"testing"
	"time"
)

func TestTotalClamp(t *testing.T) {
	cases := []struct {
		name     string
		subtotal int
		coupon   *Coupon
		fee      int
		want     int
	}{
		{"no coupon with fee", 115, nil, 20, 135},
		{"coupon larger than subtotal", 50, &Coupon{Code: "X", Discount: 80}, 0, 0},
		{"coupon and fee", 100, &Coupon{Code: "X", Discount: 30}, 20, 90},
		{"clamped even with fee", 10, &Coupon{Code: "X", Discount: 100}, 20, 0},
		{"zero order", 0, nil, 0, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Total(c.subtotal, c.coupon, c.fee); got != c.want {
				t.Fatalf("Total = %d, want %d", got, c.want)
			}
		})
	}
}

func TestSubtotal(t *testing.T) {
	items := []LineItem{
		{ProductID: "1", Name: "Hot Dog", Qty: 2, UnitPrice: 60},
		{ProductID: "5", Name: "Soda", Qty: 1, UnitPrice: 35},
	}
	if got := Subtotal(items); got != 155 {
		t.Fatalf("Subtotal = %d, want 155", got)
	}
	if got := Subtotal(nil); got != 0 {
		t.Fatalf("Subtotal(nil) = %d, want 0", got)
	}
}

func TestProductAvailability(t *testing.T) {
	cases := []struct {
		name string
		p    Product
		want bool
	}{
		{"active with stock", Product{Active: true, Stock: 3}, true},
		{"out of stock stays unavailable despite active", Product{Active: true, Stock: 0}, false},
		{"inactive with stock", Product{Active: false, Stock: 5}, false},
		{"inactive and empty", Product{Active: false, Stock: 0}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.p.Available(); got != c.want {
				t.Fatalf("Available = %v, want %v", got, c.want)
			}
		})
	}
}

func TestCountAvailable(t *testing.T) {
	ps := []Product{
		{Active: true, Stock: 2},
		{Active: true, Stock: 0},
		{Active: false, Stock: 9},
		{Active: true, Stock: 1},
	}
	if got := CountAvailable(ps); got != 2 {
		t.Fatalf("CountAvailable = %d, want 2", got)
	}
}

func TestMargin(t *testing.T) {
	p := Product{Cost: 40, Price: 60}
	want := float64(60-40) / 60
	if got := p.Margin(); got != want {
		t.Fatalf("Margin = %f, want %f", got, want)
	}
	if got := (Product{Cost: 10, Price: 0}).Margin(); got != 0 {
		t.Fatalf("Margin with zero price = %f, want 0", got)
	}
}

func TestDisplayTime(t *testing.T) {
	o := Order{CreatedAt: time.Date(2025, 6, 1, 14, 5, 0, 0, time.UTC)}
	if got := o.DisplayTime(); got != "14:05" {
		t.Fatalf("DisplayTime = %q, want 14:05", got)
	}
}
