package account

import (
	"context"
	"fmt"
)

// Service contains the business logic for the account label set
type Service struct {
	repo   Repository
	limits LimitSource
}

// NewService creates a new account service
func NewService(repo Repository, limits LimitSource) *Service {
	return &Service{repo: repo, limits: limits}
}

// List returns the user's labels, falling back to DefaultLabels.
func (s *Service) List(ctx context.Context, uid string) ([]string, error) {
	if uid == "" {
		return nil, ErrInvalidUser
	}
	labels, err := s.repo.Get(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}
	return Normalize(labels), nil
}

// Add appends the next numbered label.
func (s *Service) Add(ctx context.Context, uid string) ([]string, error) {
	labels, err := s.List(ctx, uid)
	if err != nil {
		return nil, err
	}
	limit, err := s.limit(ctx, uid)
	if err != nil {
		return nil, err
	}
	if len(labels)+1 > limit {
		return nil, ErrAccountLimit
	}
	labels = append(labels, NextLabel(labels))
	return labels, s.save(ctx, uid, labels)
}

// Remove deletes label from the set. The last label cannot be removed.
func (s *Service) Remove(ctx context.Context, uid, label string) ([]string, error) {
	labels, err := s.List(ctx, uid)
	if err != nil {
		return nil, err
	}
	idx := -1
	for i, l := range labels {
		if l == label {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrAccountNotFound
	}
	if len(labels) <= 1 {
		return nil, ErrLastAccount
	}
	labels = append(labels[:idx:idx], labels[idx+1:]...)
	return labels, s.save(ctx, uid, labels)
}

// SetCount regenerates the set as 1号..n号, clamped to [1, limit].
func (s *Service) SetCount(ctx context.Context, uid string, n int) ([]string, error) {
	if uid == "" {
		return nil, ErrInvalidUser
	}
	if n < 1 {
		return nil, ErrInvalidCount
	}
	limit, err := s.limit(ctx, uid)
	if err != nil {
		return nil, err
	}
	labels := Sequence(min(n, limit))
	return labels, s.save(ctx, uid, labels)
}

// Replace stores labels as given, e.g. the set generated with demo data.
func (s *Service) Replace(ctx context.Context, uid string, labels []string) ([]string, error) {
	if uid == "" {
		return nil, ErrInvalidUser
	}
	labels = Normalize(labels)
	limit, err := s.limit(ctx, uid)
	if err != nil {
		return nil, err
	}
	if len(labels) > limit {
		return nil, ErrAccountLimit
	}
	return labels, s.save(ctx, uid, labels)
}

// Limit returns the tier maximum for uid.
func (s *Service) Limit(ctx context.Context, uid string) (int, error) {
	return s.limit(ctx, uid)
}

func (s *Service) limit(ctx context.Context, uid string) (int, error) {
	limit, err := s.limits.AccountLimit(ctx, uid)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve account limit: %w", err)
	}
	return max(limit, 1), nil
}

func (s *Service) save(ctx context.Context, uid string, labels []string) error {
	if err := s.repo.Save(ctx, uid, labels); err != nil {
		return fmt.Errorf("failed to save accounts: %w", err)
	}
	return nil
}
