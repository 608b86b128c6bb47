package tenant

import (
	"net/url"
	"testing"
)

func TestFromQuery(t *testing.T) {
	cases := []struct {
		name  string
		query string
		want  Key
	}{
		{"business id wins", "businessId=42&phone=5551234567", Business("42")},
		{"phone only", "phone=5551234567", Phone("5551234567")},
		{"neither falls back to default business", "", Business(FallbackBusiness)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			q, _ := url.ParseQuery(c.query)
			if got := FromQuery(q); got != c.want {
				t.Fatalf("FromQuery = %+v, want %+v", got, c.want)
			}
		})
	}
}

func TestColumn(t *testing.T) {
	if got := Phone("x").Column(); got != "user_phone" {
		t.Fatalf("phone column = %s", got)
	}
	if got := Business("x").Column(); got != "business_id" {
		t.Fatalf("business column = %s", got)
	}
}

func TestCacheKeyIsolation(t *testing.T) {
	if Phone("1").CacheKey() == Business("1").CacheKey() {
		t.Fatal("phone and business keys with the same value must not collide")
	}
}
