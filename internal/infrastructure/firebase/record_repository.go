package firebase

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/iterator"

	"alphadash/internal/domain/record"
)

// batchLimit is the maximum number of writes in one Firestore batch.
const batchLimit = 500

const (
	usersCollection   = "users"
	recordsCollection = "daily_records"
)

// RecordRepository implements record.Repository on Firestore. Records live
// in users/{uid}/daily_records with the composite key as document ID.
type RecordRepository struct {
	client *firestore.Client
	logger *zap.Logger
}

// NewRecordRepository creates a new Firestore record repository
func NewRecordRepository(client *firestore.Client, logger *zap.Logger) *RecordRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecordRepository{client: client, logger: logger}
}

func (r *RecordRepository) records(uid string) *firestore.CollectionRef {
	return r.client.Collection(usersCollection).Doc(uid).Collection(recordsCollection)
}

// Fetch returns every record of uid, newest first.
func (r *RecordRepository) Fetch(ctx context.Context, uid string) ([]record.DailyRecord, error) {
	iter := r.records(uid).OrderBy("date", firestore.Desc).Documents(ctx)
	defer iter.Stop()

	var out []record.DailyRecord
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to fetch records: %w", err)
		}
		var rec record.DailyRecord
		if err := doc.DataTo(&rec); err != nil {
			r.logger.Warn("skipping unreadable record", zap.String("doc", doc.Ref.ID), zap.Error(err))
			continue
		}
		out = append(out, rec)
	}
	record.SortByDateDesc(out)
	return out, nil
}

// CommitBatch writes records in chunks of batchLimit committed concurrently.
// Each chunk is atomic; a failed chunk does not roll back or cancel the others.
func (r *RecordRepository) CommitBatch(ctx context.Context, uid string, records []record.DailyRecord) error {
	col := r.records(uid)
	err := commitChunks(records, batchLimit, func(i int, part []record.DailyRecord) error {
		batch := r.client.Batch()
		for _, rec := range part {
			batch.Set(col.Doc(rec.Key()), rec)
		}
		if _, err := batch.Commit(ctx); err != nil {
			return fmt.Errorf("chunk %d (%d records): %w", i+1, len(part), err)
		}
		return nil
	})
	if err != nil {
		r.logger.Error("record commit failed", zap.String("uid", uid), zap.Int("records", len(records)), zap.Error(err))
		return fmt.Errorf("failed to commit records: %w", err)
	}
	return nil
}

// ClearAll deletes every record of uid and returns how many were removed.
func (r *RecordRepository) ClearAll(ctx context.Context, uid string) (int, error) {
	refs, err := r.records(uid).DocumentRefs(ctx).GetAll()
	if err != nil {
		return 0, fmt.Errorf("failed to list records: %w", err)
	}

	removed := make([]int, (len(refs)+batchLimit-1)/batchLimit)
	err = commitChunks(refs, batchLimit, func(i int, part []*firestore.DocumentRef) error {
		batch := r.client.Batch()
		for _, ref := range part {
			batch.Delete(ref)
		}
		if _, err := batch.Commit(ctx); err != nil {
			return fmt.Errorf("chunk %d (%d records): %w", i+1, len(part), err)
		}
		removed[i] = len(part)
		return nil
	})

	total := 0
	for _, n := range removed {
		total += n
	}
	if err != nil {
		return total, fmt.Errorf("failed to clear records: %w", err)
	}
	return total, nil
}

// commitChunks runs commit for every chunk concurrently and waits for all of
// them. Failures are joined; none cancels another chunk.
func commitChunks[T any](items []T, size int, commit func(i int, part []T) error) error {
	chunks := chunk(items, size)
	errs := make([]error, len(chunks))

	var g errgroup.Group
	for i, part := range chunks {
		g.Go(func() error {
			errs[i] = commit(i, part)
			return nil
		})
	}
	_ = g.Wait()

	return errors.Join(errs...)
}
