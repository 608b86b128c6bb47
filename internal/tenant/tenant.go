// Package tenant identifies whose orders a request may see. The hosting
// page passes either a customer phone number or a business id in the
// query string; neither is authenticated here, they are trusted input.
package tenant

import "net/url"

type Kind int

const (
	ByPhone Kind = iota
	ByBusiness
)

const (
	FallbackPhone    = "0000000000"
	FallbackBusiness = "1"
)

type Key struct {
	Kind  Kind
	Value string
}

func Phone(v string) Key    { return Key{Kind: ByPhone, Value: v} }
func Business(v string) Key { return Key{Kind: ByBusiness, Value: v} }

// FromQuery extracts the scoping key from request query params,
// preferring businessId over phone, with hardcoded fallbacks when
// neither is present.
func FromQuery(q url.Values) Key {
	if v := q.Get("businessId"); v != "" {
		return Business(v)
	}
	if v := q.Get("phone"); v != "" {
		return Phone(v)
	}
	return Business(FallbackBusiness)
}

// Column is the orders column this key scopes on.
func (k Key) Column() string {
	if k.Kind == ByBusiness {
		return "business_id"
	}
	return "user_phone"
}

// CacheKey distinguishes per-tenant cache snapshots.
func (k Key) CacheKey() string {
	if k.Kind == ByBusiness {
		return "biz:" + k.Value
	}
	return "phone:" + k.Value
}
