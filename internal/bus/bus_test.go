package bus

import "testing"

func TestPublishFanOutInSubscriptionOrder(t *testing.T) {
	b := New()
	var calls []string
	b.Subscribe(TopicOrdersUpdated, func() { calls = append(calls, "a") })
	b.Subscribe(TopicOrdersUpdated, func() { calls = append(calls, "b") })
	b.Subscribe(TopicOrdersUpdated, func() { calls = append(calls, "c") })

	b.Publish(TopicOrdersUpdated)

	if len(calls) != 3 {
		t.Fatalf("got %d calls, want 3", len(calls))
	}
	for i, want := range []string{"a", "b", "c"} {
		if calls[i] != want {
			t.Fatalf("call %d = %s, want %s", i, calls[i], want)
		}
	}
}

func TestPublishIsSynchronous(t *testing.T) {
	b := New()
	done := false
	b.Subscribe(TopicOrdersUpdated, func() { done = true })
	b.Publish(TopicOrdersUpdated)
	if !done {
		t.Fatal("handler must run on the publishing goroutine, before Publish returns")
	}
}

func TestUnsubscribe(t *testing.T) {
	b := New()
	n := 0
	tok := b.Subscribe(TopicOrdersUpdated, func() { n++ })
	b.Publish(TopicOrdersUpdated)
	b.Unsubscribe(tok)
	b.Publish(TopicOrdersUpdated)
	if n != 1 {
		t.Fatalf("handler ran %d times, want 1", n)
	}
}

func TestTopicsAreIndependent(t *testing.T) {
	b := New()
	n := 0
	b.Subscribe("other.topic", func() { n++ })
	b.Publish(TopicOrdersUpdated)
	if n != 0 {
		t.Fatalf("handler for other topic ran %d times", n)
	}
}

func TestHandlerMayUnsubscribeItself(t *testing.T) {
	b := New()
	var tok Token
	n := 0
	tok = b.Subscribe(TopicOrdersUpdated, func() {
		n++
		b.Unsubscribe(tok)
	})
	b.Publish(TopicOrdersUpdated)
	b.Publish(TopicOrdersUpdated)
	if n != 1 {
		t.Fatalf("handler ran %d times, want 1", n)
	}
}

func TestPublishWithNoSubscribers(t *testing.T) {
	New().Publish(TopicOrdersUpdated) // must not panic
}
