package localstore

import (
	"context"
	"encoding/json"
	"fmt"

	"alphadash/internal/domain/record"
)

// RecordRepository implements record.Repository on the local store.
type RecordRepository struct {
	store *Store
}

// NewRecordRepository creates a new local record repository
func NewRecordRepository(store *Store) *RecordRepository {
	return &RecordRepository{store: store}
}

// Fetch returns the stored records, newest first.
func (r *RecordRepository) Fetch(ctx context.Context, uid string) ([]record.DailyRecord, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.load(uid)
}

// CommitBatch merges records into the stored set by key, incoming winning.
func (r *RecordRepository) CommitBatch(ctx context.Context, uid string, records []record.DailyRecord) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing, err := r.load(uid)
	if err != nil {
		return err
	}
	data, err := json.Marshal(record.Merge(existing, records))
	if err != nil {
		return fmt.Errorf("failed to encode records: %w", err)
	}
	return r.store.write(uid, RecordsKey, data)
}

// ClearAll removes the stored records and returns how many there were.
func (r *RecordRepository) ClearAll(ctx context.Context, uid string) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing, err := r.load(uid)
	if err != nil {
		return 0, err
	}
	if err := r.store.erase(uid, RecordsKey); err != nil {
		return 0, err
	}
	return len(existing), nil
}

func (r *RecordRepository) load(uid string) ([]record.DailyRecord, error) {
	data, err := r.store.read(uid, RecordsKey)
	if err != nil {
		return nil, err
	}
	records := []record.DailyRecord{}
	if len(data) == 0 {
		return records, nil
	}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to decode records: %w", err)
	}
	record.SortByDateDesc(records)
	return records, nil
}
