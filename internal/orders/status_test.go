package orders

import "testing"

func TestToDomainCollapsesPaidAndInit(t *testing.T) {
	// a freshly paid order looks identical to a brand-new one
	if got := ToDomain(StoreInit); got != StatusNew {
		t.Fatalf("ToDomain(INIT) = %s, want NEW", got)
	}
	if got := ToDomain(StorePayed); got != StatusNew {
		t.Fatalf("ToDomain(PAYED) = %s, want NEW", got)
	}
}

func TestToDomainTotal(t *testing.T) {
	cases := []struct {
		in   StoreStatus
		want Status
	}{
		{StoreInit, StatusNew},
		{StorePayed, StatusNew},
		{StoreInProgress, StatusPreparing},
		{StoreReady, StatusReady},
		{StoreOnTheWay, StatusEnRoute},
		{StoreDelivered, StatusDelivered},
		{StoreBotReady, StatusNew},
		{StoreStatus("GARBAGE"), StatusNew},
		{StoreStatus(""), StatusNew},
	}
	for _, c := range cases {
		if got := ToDomain(c.in); got != c.want {
			t.Errorf("ToDomain(%q) = %s, want %s", c.in, got, c.want)
		}
	}
}

// The pair (ToDomain, ToStore) round-trips domain statuses but is not
// invertible the other way: writing NEW can never resurrect INIT.
func TestMappingNotInvertible(t *testing.T) {
	all := []Status{StatusNew, StatusPreparing, StatusReady, StatusEnRoute, StatusDelivered}
	for _, s := range all {
		if got := ToDomain(ToStore(s)); got != s {
			t.Errorf("ToDomain(ToStore(%s)) = %s, want %s", s, got, s)
		}
	}
	if got := ToStore(StatusNew); got != StorePayed {
		t.Fatalf("ToStore(NEW) = %s, want PAYED", got)
	}
	if got := ToStore(ToDomain(StoreInit)); got == StoreInit {
		t.Fatal("round trip must not reproduce INIT")
	}
}

func TestParseStatus(t *testing.T) {
	if _, ok := ParseStatus("PREPARING"); !ok {
		t.Fatal("PREPARING should parse")
	}
	if _, ok := ParseStatus("preparing"); ok {
		t.Fatal("lowercase should not parse")
	}
	if _, ok := ParseStatus("PAYED"); ok {
		t.Fatal("store vocabulary should not parse as domain status")
	}
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		ok       bool
	}{
		{StatusNew, StatusPreparing, true},
		{StatusPreparing, StatusReady, true},
		{StatusReady, StatusEnRoute, true},
		{StatusReady, StatusDelivered, true}, // pickup skips EN_ROUTE
		{StatusEnRoute, StatusDelivered, true},
		{StatusNew, StatusDelivered, false},
		{StatusDelivered, StatusNew, false},
		{StatusPreparing, StatusNew, false},
		{StatusDelivered, StatusDelivered, false},
	}
	for _, c := range cases {
		if got := CanTransition(c.from, c.to); got != c.ok {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", c.from, c.to, got, c.ok)
		}
	}
}
