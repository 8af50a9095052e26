package subscription

import "context"

// Repository stores the subscription next to the user's local data.
type Repository interface {
	// Get returns the stored subscription, or Default when none was saved
	Get(ctx context.Context, uid string) (Subscription, error)

	// Save replaces the stored subscription
	Save(ctx context.Context, uid string, sub Subscription) error
}

// ProfileStore reads and merges the remote user profile document.
// Merges must keep fields the caller did not set.
type ProfileStore interface {
	LoadProfile(ctx context.Context, uid string) (Profile, error)
	MergeProfile(ctx context.Context, uid string, p Profile) error
}
