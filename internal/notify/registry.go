// Package notify provides an explicit subscribe/unsubscribe callback
// registry. Subscribers detach themselves in teardown; nothing is collected
// automatically.
package notify

import (
	"sync"

	"github.com/google/uuid"
)

// Registry fans a change signal out to registered callbacks. Callbacks are
// invoked outside the registry lock and carry no payload; subscribers
// re-query whatever state they observe.
type Registry struct {
	mu   sync.Mutex
	subs map[string]func()
}

func NewRegistry() *Registry {
	return &Registry{subs: make(map[string]func())}
}

// Subscribe registers fn and returns the handle to unsubscribe with.
func (r *Registry) Subscribe(fn func()) string {
	if fn == nil {
		return ""
	}
	id := uuid.NewString()
	r.mu.Lock()
	r.subs[id] = fn
	r.mu.Unlock()
	return id
}

// Unsubscribe removes the callback registered under handle; unknown handles
// are ignored.
func (r *Registry) Unsubscribe(handle string) {
	r.mu.Lock()
	delete(r.subs, handle)
	r.mu.Unlock()
}

// Notify invokes every registered callback.
func (r *Registry) Notify() {
	r.mu.Lock()
	fns := make([]func(), 0, len(r.subs))
	for _, fn := range r.subs {
		fns = append(fns, fn)
	}
	r.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// Len reports the number of active subscriptions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subs)
}
