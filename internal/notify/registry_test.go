package notify

import "testing"

func TestRegistrySubscribeNotifyUnsubscribe(t *testing.T) {
	r := NewRegistry()

	var first, second int
	h1 := r.Subscribe(func() { first++ })
	h2 := r.Subscribe(func() { second++ })
	if r.Len() != 2 {
		t.Fatalf("expected 2 subscriptions, got %d", r.Len())
	}

	r.Notify()
	if first != 1 || second != 1 {
		t.Fatalf("expected both callbacks once, got %d/%d", first, second)
	}

	r.Unsubscribe(h1)
	r.Notify()
	if first != 1 || second != 2 {
		t.Fatalf("expected only second callback, got %d/%d", first, second)
	}

	r.Unsubscribe(h2)
	r.Unsubscribe("unknown")
	if r.Len() != 0 {
		t.Fatalf("expected empty registry, got %d", r.Len())
	}
}

func TestRegistryNilSubscriber(t *testing.T) {
	r := NewRegistry()
	if h := r.Subscribe(nil); h != "" {
		t.Fatalf("expected empty handle for nil callback, got %q", h)
	}
	if r.Len() != 0 {
		t.Fatalf("nil callback must not register")
	}
	r.Notify()
}
