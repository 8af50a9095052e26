package subscription

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Service contains the business logic for the subscription gate
type Service struct {
	repo     Repository
	profiles ProfileStore
	verifier Verifier
	logger   *zap.Logger
	now      func() time.Time
}

// NewService creates a new subscription service. profiles may be nil when
// there is no remote profile document.
func NewService(repo Repository, profiles ProfileStore, verifier Verifier, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:     repo,
		profiles: profiles,
		verifier: verifier,
		logger:   logger,
		now:      time.Now,
	}
}

// Get returns the user's subscription.
func (s *Service) Get(ctx context.Context, uid string) (Subscription, error) {
	if uid == "" {
		return Subscription{}, ErrInvalidUser
	}
	sub, err := s.repo.Get(ctx, uid)
	if err != nil {
		return Subscription{}, fmt.Errorf("failed to load subscription: %w", err)
	}
	return sub, nil
}

// AccountLimit returns how many accounts uid may track.
func (s *Service) AccountLimit(ctx context.Context, uid string) (int, error) {
	sub, err := s.Get(ctx, uid)
	if err != nil {
		return 0, err
	}
	return sub.Limit(), nil
}

// Unlock verifies proof and moves the user to the follower tier. The local
// record is written first; a failed remote merge is logged and does not undo it.
func (s *Service) Unlock(ctx context.Context, uid string, proof Proof) (Subscription, Decision, error) {
	if uid == "" {
		return Subscription{}, Decision{}, ErrInvalidUser
	}
	decision, err := s.verifier.Verify(ctx, proof)
	if err != nil {
		return Subscription{}, decision, err
	}
	if !decision.Approved {
		s.logger.Info("verification rejected",
			zap.String("uid", uid),
			zap.String("attempt_id", decision.AttemptID),
			zap.String("reason", decision.Reason))
		return Subscription{}, decision, ErrRejected
	}

	current, err := s.Get(ctx, uid)
	if err != nil {
		return Subscription{}, decision, err
	}
	sub := current
	if !current.Unlocked() {
		sub = Follower(s.now())
		if err := s.repo.Save(ctx, uid, sub); err != nil {
			return Subscription{}, decision, fmt.Errorf("failed to save subscription: %w", err)
		}
	}
	s.pushRemote(ctx, uid, sub)

	s.logger.Info("subscription unlocked",
		zap.String("uid", uid),
		zap.String("tier", string(sub.Tier)),
		zap.String("attempt_id", decision.AttemptID))
	return sub, decision, nil
}

// Sync reconciles the local record with the remote profile after login.
// A remote unlock is copied down; a local-only unlock is merged up.
func (s *Service) Sync(ctx context.Context, uid string) (Subscription, error) {
	local, err := s.Get(ctx, uid)
	if err != nil {
		return Subscription{}, err
	}
	if s.profiles == nil {
		return local, nil
	}

	profile, err := s.profiles.LoadProfile(ctx, uid)
	if err != nil {
		return Subscription{}, fmt.Errorf("failed to load profile: %w", err)
	}

	switch {
	case profile.IsProUnlocked && !local.Unlocked():
		sub := Follower(s.now())
		if profile.Subscription != nil && profile.Subscription.Unlocked() {
			sub = *profile.Subscription
		}
		if err := s.repo.Save(ctx, uid, sub); err != nil {
			return Subscription{}, fmt.Errorf("failed to save subscription: %w", err)
		}
		return sub, nil
	case !profile.IsProUnlocked && local.Unlocked():
		if err := s.profiles.MergeProfile(ctx, uid, Profile{IsProUnlocked: true, Subscription: &local}); err != nil {
			return Subscription{}, fmt.Errorf("failed to merge profile: %w", err)
		}
	}
	return local, nil
}

func (s *Service) pushRemote(ctx context.Context, uid string, sub Subscription) {
	if s.profiles == nil {
		return
	}
	if err := s.profiles.MergeProfile(ctx, uid, Profile{IsProUnlocked: true, Subscription: &sub}); err != nil {
		s.logger.Error("failed to save unlock status to profile", zap.String("uid", uid), zap.Error(err))
	}
}
