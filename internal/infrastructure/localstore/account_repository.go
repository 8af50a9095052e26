package localstore

import (
	"context"
	"encoding/json"
	"fmt"
)

// AccountRepository implements account.Repository on the local store.
type AccountRepository struct {
	store *Store
}

// NewAccountRepository creates a new local account repository
func NewAccountRepository(store *Store) *AccountRepository {
	return &AccountRepository{store: store}
}

// Get returns the stored labels, or nil when none were saved.
func (r *AccountRepository) Get(ctx context.Context, uid string) ([]string, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	data, err := r.store.read(uid, AccountsKey)
	if err != nil || len(data) == 0 {
		return nil, err
	}
	var labels []string
	if err := json.Unmarshal(data, &labels); err != nil {
		return nil, fmt.Errorf("failed to decode accounts: %w", err)
	}
	return labels, nil
}

// Save replaces the stored labels.
func (r *AccountRepository) Save(ctx context.Context, uid string, labels []string) error {
	data, err := json.Marshal(labels)
	if err != nil {
		return fmt.Errorf("failed to encode accounts: %w", err)
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.write(uid, AccountsKey, data)
}
