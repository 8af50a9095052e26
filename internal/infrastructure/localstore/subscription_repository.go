package localstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"alphadash/internal/domain/subscription"
)

// SubscriptionRepository implements subscription.Repository on the local store.
type SubscriptionRepository struct {
	store *Store
	now   func() time.Time
}

// NewSubscriptionRepository creates a new local subscription repository
func NewSubscriptionRepository(store *Store) *SubscriptionRepository {
	return &SubscriptionRepository{store: store, now: time.Now}
}

// Get returns the stored subscription. Legacy "true" values read as a
// follower unlock; missing or unreadable values read as the free tier.
func (r *SubscriptionRepository) Get(ctx context.Context, uid string) (subscription.Subscription, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	data, err := r.store.read(uid, SubscriptionKey)
	if err != nil {
		return subscription.Subscription{}, err
	}
	return subscription.Decode(data, r.now()), nil
}

// Save replaces the stored subscription.
func (r *SubscriptionRepository) Save(ctx context.Context, uid string, sub subscription.Subscription) error {
	data, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("failed to encode subscription: %w", err)
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.write(uid, SubscriptionKey, data)
}
