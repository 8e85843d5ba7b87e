package settings

import "context"

// Repository stores the settings singleton.
type Repository interface {
	// Get returns the stored settings or a not-found error when the row does not exist yet.
	Get(ctx context.Context) (*Settings, error)

	// CreateIfAbsent inserts s unless a row already exists.
	CreateIfAbsent(ctx context.Context, s *Settings) error

	// Upsert writes s over whatever is stored. Last writer wins.
	Upsert(ctx context.Context, s *Settings) error
}
