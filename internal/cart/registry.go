package cart

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// Registry keeps one cart per tab. Carts untouched for the session TTL expire.
type Registry struct {
	mu    sync.Mutex
	store *cache.Cache
	ttl   time.Duration
}

// NewRegistry creates an empty registry.
func NewRegistry(ttl time.Duration) *Registry {
	return &Registry{store: cache.New(ttl, 2*ttl), ttl: ttl}
}

// For returns the cart of a tab, creating it on first use, and renews its expiry.
func (r *Registry) For(tabKey string) *Cart {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok := r.store.Get(tabKey); ok {
		c := v.(*Cart)
		r.store.Set(tabKey, c, r.ttl)
		return c
	}
	c := &Cart{}
	r.store.Set(tabKey, c, r.ttl)
	return c
}

// Drop forgets a tab's cart.
func (r *Registry) Drop(tabKey string) {
	r.store.Delete(tabKey)
}
