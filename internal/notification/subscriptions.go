package notification

import (
	"sort"
	"time"

	"github.com/patrickmn/go-cache"

	"comanda-dashboard-backend/internal/model"
)

// Subscriptions is the in-memory set of push subscriptions, keyed by endpoint. It does not survive a
// restart.
type Subscriptions struct {
	store *cache.Cache
	now   func() time.Time
}

// NewSubscriptions creates an empty set.
func NewSubscriptions() *Subscriptions {
	return &Subscriptions{store: cache.New(cache.NoExpiration, 0), now: time.Now}
}

// Put stores or replaces a subscription. The creation time of an existing endpoint is kept.
func (s *Subscriptions) Put(sub model.PushSubscription) model.PushSubscription {
	if existing, ok := s.Get(sub.Endpoint); ok {
		sub.CreatedAt = existing.CreatedAt
	} else {
		sub.CreatedAt = s.now()
	}
	s.store.Set(sub.Endpoint, sub, cache.NoExpiration)
	return sub
}

// Get looks a subscription up by endpoint.
func (s *Subscriptions) Get(endpoint string) (model.PushSubscription, bool) {
	v, ok := s.store.Get(endpoint)
	if !ok {
		return model.PushSubscription{}, false
	}
	return v.(model.PushSubscription), true
}

// Delete removes a subscription and reports whether it existed.
func (s *Subscriptions) Delete(endpoint string) bool {
	if _, ok := s.store.Get(endpoint); !ok {
		return false
	}
	s.store.Delete(endpoint)
	return true
}

// List returns every subscription, oldest first.
func (s *Subscriptions) List() []model.PushSubscription {
	items := s.store.Items()
	out := make([]model.PushSubscription, 0, len(items))
	for _, item := range items {
		out = append(out, item.Object.(model.PushSubscription))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].Endpoint < out[j].Endpoint
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}
