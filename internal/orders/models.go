package orders

import "time"

// DefaultDeliveryFee is charged when an order has no send_price row.
const DefaultDeliveryFee = 20

// DeliveryKind discriminates the delivery sub-record attached to an order.
type DeliveryKind string

const (
	DeliveryNone       DeliveryKind = ""
	DeliveryBooth      DeliveryKind = "BOOTH"
	DeliveryGovernment DeliveryKind = "GOVERNMENT"
)

type LineItem struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Qty       int    `json:"qty"`
	UnitPrice int    `json:"unit_price"`
	ImageURL  string `json:"image_url,omitempty"`
}

type Coupon struct {
	Code     string `json:"code"`
	Discount int    `json:"discount"`
}

type Customer struct {
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url,omitempty"`
	Phone     string `json:"phone"`
}

// DeliveryMeta carries the kind-specific fields of a car-side delivery.
// Booth orders have vehicle/plates; government orders have an address.
type DeliveryMeta struct {
	Kind     DeliveryKind `json:"kind,omitempty"`
	Vehicle  string       `json:"vehicle,omitempty"`
	Plates   string       `json:"plates,omitempty"`
	Address  string       `json:"address,omitempty"`
	Building string       `json:"building,omitempty"`
	Floor    string       `json:"floor,omitempty"`
}

type Order struct {
	ID          string       `json:"id"`
	Status      Status       `json:"status"`
	Items       []LineItem   `json:"items"`
	Subtotal    int          `json:"subtotal"`
	Total       int          `json:"total"`
	DeliveryFee int          `json:"delivery_fee"`
	Coupon      *Coupon      `json:"coupon,omitempty"`
	Delivery    DeliveryMeta `json:"delivery"`
	Customer    Customer     `json:"customer"`
	Note        string       `json:"note,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
}

// DisplayTime is the HH:MM form shown on order cards.
func (o Order) DisplayTime() string { return o.CreatedAt.Format("15:04") }

// Subtotal sums unit price times quantity over the resolved line items.
func Subtotal(items []LineItem) int {
	sum := 0
	for _, it := range items {
		sum += it.UnitPrice * it.Qty
	}
	return sum
}

// Total applies the coupon discount and delivery fee, clamped at zero.
func Total(subtotal int, coupon *Coupon, fee int) int {
	t := subtotal
	if coupon != nil {
		t -= coupon.Discount
	}
	t += fee
	if t < 0 {
		return 0
	}
	return t
}

type Product struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Cost      int       `json:"cost"`
	Price     int       `json:"price"`
	ImageURL  string    `json:"image_url"`
	Active    bool      `json:"active"`
	Stock     int       `json:"stock"`
	CreatedAt time.Time `json:"created_at"`
}

// Available reports whether the product counts toward the "available"
// total shown in inventory. Out-of-stock products are excluded even
// when still flagged active.
func (p Product) Available() bool { return p.Active && p.Stock > 0 }

// Margin is (price - cost) / price. Zero-priced products report zero.
func (p Product) Margin() float64 {
	if p.Price == 0 {
		return 0
	}
	return float64(p.Price-p.Cost) / float64(p.Price)
}

// CountAvailable counts products purchasable right now.
func CountAvailable(ps []Product) int {
	n := 0
	for _, p := range ps {
		if p.Available() {
			n++
		}
	}
	return n
}
