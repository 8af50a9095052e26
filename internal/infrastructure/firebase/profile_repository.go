package firebase

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"alphadash/internal/domain/subscription"
)

// ProfileRepository stores the users/{uid} profile document. Every write is
// a merge so fields owned by other clients survive.
type ProfileRepository struct {
	client *firestore.Client
}

// NewProfileRepository creates a new Firestore profile repository
func NewProfileRepository(client *firestore.Client) *ProfileRepository {
	return &ProfileRepository{client: client}
}

func (r *ProfileRepository) doc(uid string) *firestore.DocumentRef {
	return r.client.Collection(usersCollection).Doc(uid)
}

// LoadProfile returns the profile of uid; a missing document is an empty profile.
func (r *ProfileRepository) LoadProfile(ctx context.Context, uid string) (subscription.Profile, error) {
	snap, err := r.doc(uid).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return subscription.Profile{}, nil
	}
	if err != nil {
		return subscription.Profile{}, fmt.Errorf("failed to load profile: %w", err)
	}

	var p subscription.Profile
	if err := snap.DataTo(&p); err != nil {
		return subscription.Profile{}, fmt.Errorf("failed to decode profile: %w", err)
	}
	return p, nil
}

// MergeProfile merges the unlock flag and, when set, the subscription and
// account labels into the profile document.
func (r *ProfileRepository) MergeProfile(ctx context.Context, uid string, p subscription.Profile) error {
	data := map[string]interface{}{
		"isProUnlocked": p.IsProUnlocked,
	}
	if p.Subscription != nil {
		data["subscription"] = subscriptionFields(*p.Subscription)
	}
	if p.Accounts != nil {
		data["accounts"] = p.Accounts
	}
	if _, err := r.doc(uid).Set(ctx, data, firestore.MergeAll); err != nil {
		return fmt.Errorf("failed to merge profile: %w", err)
	}
	return nil
}

// Get implements account.Repository using the profile's accounts field.
func (r *ProfileRepository) Get(ctx context.Context, uid string) ([]string, error) {
	p, err := r.LoadProfile(ctx, uid)
	if err != nil {
		return nil, err
	}
	return p.Accounts, nil
}

// Save implements account.Repository.
func (r *ProfileRepository) Save(ctx context.Context, uid string, labels []string) error {
	data := map[string]interface{}{"accounts": labels}
	if _, err := r.doc(uid).Set(ctx, data, firestore.MergeAll); err != nil {
		return fmt.Errorf("failed to save accounts: %w", err)
	}
	return nil
}

func subscriptionFields(s subscription.Subscription) map[string]interface{} {
	fields := map[string]interface{}{
		"tier":         string(s.Tier),
		"accountLimit": s.AccountLimit,
		"unlockedAt":   nil,
		"source":       nil,
	}
	if s.UnlockedAt != nil {
		fields["unlockedAt"] = *s.UnlockedAt
	}
	if s.Source != nil {
		fields["source"] = string(*s.Source)
	}
	return fields
}
