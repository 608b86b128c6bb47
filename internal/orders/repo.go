package orders

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/puestomx/go-kitchen-sync/internal/tenant"
)

type Repo struct{ DB *pgxpool.Pool }

var ErrNotFound = errors.New("order not found")

// store-side order_type values for car deliveries
const (
	orderTypeBooth      = "CASETA"
	orderTypeGovernment = "GUBERNAMENTAL"
)

type headerRow struct {
	id        int64
	status    string
	createdAt time.Time
	userPhone string
	orderType string
	custName  string
	coupon    *Coupon
	sendPrice *int
}

// ListOrders returns every paid order for the tenant, newest first,
// with line items, coupon, delivery fee and delivery sub-record joined.
// Orders still in INIT are invisible to staff.
func (r *Repo) ListOrders(ctx context.Context, key tenant.Key) ([]Order, error) {
	q := fmt.Sprintf(`
		SELECT o.id, o.status, o.created_at, o.user_phone,
		       COALESCE(o.order_type, ''), COALESCE(u.name, ''),
		       c.code, c.discount, sp.price
		FROM orders o
		LEFT JOIN coupons c ON c.id = o.coupon_applied
		LEFT JOIN send_price sp ON sp.id = o.price
		LEFT JOIN users u ON u.phone = o.user_phone
		WHERE o.%s = $1 AND o.status <> 'INIT'
		ORDER BY o.created_at DESC`, key.Column())

	rows, err := r.DB.Query(ctx, q, key.Value)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var headers []headerRow
	for rows.Next() {
		h, err := scanHeader(rows)
		if err != nil {
			return nil, err
		}
		headers = append(headers, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(headers) == 0 {
		return []Order{}, nil
	}

	ids := make([]int64, len(headers))
	for i, h := range headers {
		ids[i] = h.id
	}

	items, err := r.loadItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	delivery, err := r.loadDelivery(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]Order, 0, len(headers))
	for _, h := range headers {
		out = append(out, assemble(h, items[h.id], delivery[h.id]))
	}
	return out, nil
}

// GetOrderByID returns one paid order for the tenant, or (nil, nil)
// when no such order exists. Absence is not a fault.
func (r *Repo) GetOrderByID(ctx context.Context, id string, key tenant.Key) (*Order, error) {
	oid, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return nil, nil
	}

	q := fmt.Sprintf(`
		SELECT o.id, o.status, o.created_at, o.user_phone,
		       COALESCE(o.order_type, ''), COALESCE(u.name, ''),
		       c.code, c.discount, sp.price
		FROM orders o
		LEFT JOIN coupons c ON c.id = o.coupon_applied
		LEFT JOIN send_price sp ON sp.id = o.price
		LEFT JOIN users u ON u.phone = o.user_phone
		WHERE o.id = $1 AND o.%s = $2 AND o.status <> 'INIT'`, key.Column())

	rows, err := r.DB.Query(ctx, q, oid, key.Value)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	h, err := scanHeader(rows)
	if err != nil {
		return nil, err
	}
	rows.Close()

	items, err := r.loadItems(ctx, []int64{h.id})
	if err != nil {
		return nil, err
	}
	delivery, err := r.loadDelivery(ctx, []int64{h.id})
	if err != nil {
		return nil, err
	}
	o := assemble(h, items[h.id], delivery[h.id])
	return &o, nil
}

// SetStatus writes the inverse-mapped status, scoped by id and tenant.
// No retry here; the caller owns retry policy.
func (r *Repo) SetStatus(ctx context.Context, id string, s Status, key tenant.Key) error {
	oid, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return fmt.Errorf("bad order id %q", id)
	}
	q := fmt.Sprintf(`UPDATE orders SET status = $1 WHERE id = $2 AND %s = $3`, key.Column())
	if _, err := r.DB.Exec(ctx, q, string(ToStore(s)), oid, key.Value); err != nil {
		return fmt.Errorf("set status: %w", err)
	}
	return nil
}

// ConfirmationCode fetches the authoritative code for the delivered
// gate. Empty string means the order has no code.
func (r *Repo) ConfirmationCode(ctx context.Context, id string, key tenant.Key) (string, error) {
	oid, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return "", ErrNotFound
	}
	q := fmt.Sprintf(`SELECT COALESCE(confirmation_code, '') FROM orders WHERE id = $1 AND %s = $2`, key.Column())
	var code string
	if err := r.DB.QueryRow(ctx, q, oid, key.Value).Scan(&code); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("confirmation code: %w", err)
	}
	return code, nil
}

// CountPaid counts orders sitting in PAYED, for the incoming-order badge.
func (r *Repo) CountPaid(ctx context.Context, key tenant.Key) (int, error) {
	q := fmt.Sprintf(`SELECT COUNT(*) FROM orders WHERE %s = $1 AND status = 'PAYED'`, key.Column())
	var n int
	if err := r.DB.QueryRow(ctx, q, key.Value).Scan(&n); err != nil {
		return 0, fmt.Errorf("count paid: %w", err)
	}
	return n, nil
}

// CreateOrder inserts the header and its line items in one transaction,
// so a failed item insert rolls the header back. The order starts in
// INIT: the external payment flow moves it to PAYED.
func (r *Repo) CreateOrder(ctx context.Context, draft Order, key tenant.Key) (Order, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Order{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	phone := draft.Customer.Phone
	if phone == "" && key.Kind == tenant.ByPhone {
		phone = key.Value
	}
	if phone == "" {
		phone = tenant.FallbackPhone
	}

	var id int64
	var createdAt time.Time
	if key.Kind == tenant.ByBusiness {
		err = tx.QueryRow(ctx, `
			INSERT INTO orders(user_phone, business_id, status)
			VALUES ($1, $2, 'INIT')
			RETURNING id, created_at`, phone, key.Value).Scan(&id, &createdAt)
	} else {
		err = tx.QueryRow(ctx, `
			INSERT INTO orders(user_phone, status)
			VALUES ($1, 'INIT')
			RETURNING id, created_at`, phone).Scan(&id, &createdAt)
	}
	if err != nil {
		return Order{}, fmt.Errorf("insert order: %w", err)
	}

	for _, it := range draft.Items {
		pid, err := strconv.ParseInt(it.ProductID, 10, 64)
		if err != nil {
			return Order{}, fmt.Errorf("bad product id %q", it.ProductID)
		}
		if it.Qty <= 0 {
			return Order{}, fmt.Errorf("invalid qty for product %s", it.ProductID)
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO item_order(order_id, product_id, quantity)
			VALUES ($1, $2, $3)`, id, pid, it.Qty); err != nil {
			return Order{}, fmt.Errorf("insert item: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return Order{}, err
	}

	draft.ID = strconv.FormatInt(id, 10)
	draft.CreatedAt = createdAt
	draft.Status = StatusNew
	return draft, nil
}

func scanHeader(rows pgx.Rows) (headerRow, error) {
	var h headerRow
	var code *string
	var discount *int
	if err := rows.Scan(&h.id, &h.status, &h.createdAt, &h.userPhone,
		&h.orderType, &h.custName, &code, &discount, &h.sendPrice); err != nil {
		return h, err
	}
	if code != nil && discount != nil {
		h.coupon = &Coupon{Code: *code, Discount: *discount}
	}
	return h, nil
}

func (r *Repo) loadItems(ctx context.Context, ids []int64) (map[int64][]LineItem, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT io.order_id, p.id, p.name, p.price, p.image_url, io.quantity
		FROM item_order io
		LEFT JOIN products p ON p.id = io.product_id
		WHERE io.order_id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}
	defer rows.Close()

	out := map[int64][]LineItem{}
	for rows.Next() {
		var orderID int64
		var pid *int64
		var name, image *string
		var price *int
		var qty int
		if err := rows.Scan(&orderID, &pid, &name, &price, &image, &qty); err != nil {
			return nil, err
		}
		// drop lines whose product failed to resolve
		if pid == nil || name == nil || *name == "" {
			continue
		}
		it := LineItem{
			ProductID: strconv.FormatInt(*pid, 10),
			Name:      *name,
			Qty:       qty,
		}
		if price != nil {
			it.UnitPrice = *price
		}
		if image != nil {
			it.ImageURL = *image
		}
		out[orderID] = append(out[orderID], it)
	}
	return out, rows.Err()
}

func (r *Repo) loadDelivery(ctx context.Context, ids []int64) (map[int64]DeliveryMeta, error) {
	out := map[int64]DeliveryMeta{}

	rows, err := r.DB.Query(ctx, `
		SELECT order_id, COALESCE(car_model, ''), COALESCE(plates, '')
		FROM item_booth WHERE order_id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("load booth: %w", err)
	}
	for rows.Next() {
		var id int64
		var m DeliveryMeta
		m.Kind = DeliveryBooth
		if err := rows.Scan(&id, &m.Vehicle, &m.Plates); err != nil {
			rows.Close()
			return nil, err
		}
		out[id] = m
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = r.DB.Query(ctx, `
		SELECT order_id, COALESCE(address, ''), COALESCE(building, ''), COALESCE(floor, '')
		FROM item_gubernamental WHERE order_id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("load government: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id int64
		var m DeliveryMeta
		m.Kind = DeliveryGovernment
		if err := rows.Scan(&id, &m.Address, &m.Building, &m.Floor); err != nil {
			return nil, err
		}
		out[id] = m
	}
	return out, rows.Err()
}

func assemble(h headerRow, items []LineItem, delivery DeliveryMeta) Order {
	if items == nil {
		items = []LineItem{}
	}
	subtotal := Subtotal(items)

	fee := DefaultDeliveryFee
	if h.sendPrice != nil {
		fee = *h.sendPrice
	}

	// delivery sub-record only counts when the header says so
	switch h.orderType {
	case orderTypeBooth:
		if delivery.Kind != DeliveryBooth {
			delivery = DeliveryMeta{}
		}
	case orderTypeGovernment:
		if delivery.Kind != DeliveryGovernment {
			delivery = DeliveryMeta{}
		}
	default:
		delivery = DeliveryMeta{}
	}

	name := h.custName
	if name == "" {
		name = "Customer"
	}

	return Order{
		ID:          strconv.FormatInt(h.id, 10),
		Status:      ToDomain(StoreStatus(h.status)),
		Items:       items,
		Subtotal:    subtotal,
		Total:       Total(subtotal, h.coupon, fee),
		DeliveryFee: fee,
		Coupon:      h.coupon,
		Delivery:    delivery,
		Customer: Customer{
			Name:      name,
			AvatarURL: avatarURL(name),
			Phone:     h.userPhone,
		},
		CreatedAt: h.createdAt,
	}
}

func avatarURL(name string) string {
	return "https://ui-avatars.com/api/?name=" + url.QueryEscape(name) + "&background=random"
}
