package account

import "context"

// Repository persists a user's ordered account labels.
// This interface is defined in the domain layer, but implemented in the infrastructure layer
type Repository interface {
	// Get returns the stored labels, or nil when the user never saved any
	Get(ctx context.Context, uid string) ([]string, error)

	// Save replaces the stored labels
	Save(ctx context.Context, uid string, labels []string) error
}

// LimitSource reports how many accounts a user may track.
type LimitSource interface {
	AccountLimit(ctx context.Context, uid string) (int, error)
}
