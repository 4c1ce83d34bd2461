package integrity

import "context"

// Repository defines the interface for integrity ledger persistence
type Repository interface {
	// Append writes a record to the end of the ledger, creating it if absent
	Append(ctx context.Context, record *Record) error

	// FindLatest returns the digest of the most recently appended record matching path
	FindLatest(ctx context.Context, path string, match MatchMode) (string, error)

	// History returns every record matching path in append order
	History(ctx context.Context, path string, match MatchMode) ([]*Record, error)

	// Exists reports whether the ledger has been created
	Exists() bool

	// Location returns where the ledger is stored
	Location() string
}
