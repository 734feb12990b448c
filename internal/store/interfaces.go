package store

import "context"

// SessionStore keeps small per-user key/value preferences.
type SessionStore interface {
	// Get returns the value stored under key for userID.
	Get(ctx context.Context, userID int64, key string) (string, bool, error)
	// Put stores value under key, replacing any previous value.
	Put(ctx context.Context, userID int64, key, value string) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, userID int64, key string) error
	// All returns a copy of every value stored for userID.
	All(ctx context.Context, userID int64) (map[string]string, error)
	// Close releases the underlying database.
	Close() error
}

// SessionRepository is the database side of a [SessionStore].
type SessionRepository interface {
	Load(ctx context.Context, userID int64) (map[string]string, error)
	Save(ctx context.Context, userID int64, key, value string) error
	Remove(ctx context.Context, userID int64, key string) error
}

// ErrorClassificator decides whether a failed database operation may be
// retried.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}
