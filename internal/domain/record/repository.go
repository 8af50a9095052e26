package record

import "context"

// Repository defines the record store contract.
// Implemented by the Firestore backend and the local diskv fallback.
type Repository interface {
	// Fetch returns every record of the user ordered by date descending.
	Fetch(ctx context.Context, uid string) ([]DailyRecord, error)

	// CommitBatch writes records, replacing any existing record with the same key.
	CommitBatch(ctx context.Context, uid string, records []DailyRecord) error

	// ClearAll removes every record of the user and reports how many were removed.
	ClearAll(ctx context.Context, uid string) (int, error)
}
