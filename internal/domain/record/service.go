package record

import (
	"context"
	"fmt"
	"math/rand"
	"time"
)

// Service contains the business logic for daily record operations
type Service struct {
	repo     Repository
	defaults map[string]float64
}

// NewService creates a new record service. defaults seeds the previous
// balance of accounts with no history; nil uses InitialBalances.
func NewService(repo Repository, defaults map[string]float64) *Service {
	if defaults == nil {
		defaults = InitialBalances
	}
	return &Service{repo: repo, defaults: defaults}
}

// List returns every record of the user, newest first.
func (s *Service) List(ctx context.Context, uid string) ([]DailyRecord, error) {
	if uid == "" {
		return nil, ErrInvalidUser
	}
	return s.repo.Fetch(ctx, uid)
}

// Commit validates and writes records, replacing existing ones by key.
func (s *Service) Commit(ctx context.Context, uid string, records []DailyRecord) error {
	if uid == "" {
		return ErrInvalidUser
	}
	if len(records) == 0 {
		return ErrNoRecords
	}
	for i, r := range records {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("record %d (%s): %w", i, r.Key(), err)
		}
	}
	return s.repo.CommitBatch(ctx, uid, records)
}

// SaveBatch applies batch-entry rows for date and commits the resulting records.
// Returns the records that were written, which may be empty.
func (s *Service) SaveBatch(ctx context.Context, uid, date string, rows []BatchRow) ([]DailyRecord, error) {
	existing, err := s.List(ctx, uid)
	if err != nil {
		return nil, err
	}
	batch, err := BuildBatch(date, rows, existing, s.defaults)
	if err != nil {
		return nil, err
	}
	if len(batch) == 0 {
		return batch, nil
	}
	if err := s.repo.CommitBatch(ctx, uid, batch); err != nil {
		return nil, err
	}
	return batch, nil
}

// EditScore replaces the score of one account's record for date.
func (s *Service) EditScore(ctx context.Context, uid, date, accountID string, score float64) (DailyRecord, error) {
	existing, err := s.List(ctx, uid)
	if err != nil {
		return DailyRecord{}, err
	}
	next := ApplyScore(Index(existing)[Key(date, accountID)], date, accountID, score)
	if err := next.Validate(); err != nil {
		return DailyRecord{}, err
	}
	if err := s.repo.CommitBatch(ctx, uid, []DailyRecord{next}); err != nil {
		return DailyRecord{}, err
	}
	return next, nil
}

// Clear removes every record of the user.
func (s *Service) Clear(ctx context.Context, uid string) (int, error) {
	if uid == "" {
		return 0, ErrInvalidUser
	}
	return s.repo.ClearAll(ctx, uid)
}

// SeedDemo generates and commits a sample data set.
func (s *Service) SeedDemo(ctx context.Context, uid string, rng *rand.Rand, now time.Time, maxAccounts int) (Demo, error) {
	demo := GenerateDemo(rng, now, maxAccounts)
	if err := s.Commit(ctx, uid, demo.Records); err != nil {
		return Demo{}, err
	}
	return demo, nil
}
