package staff

import "context"

// Repository defines data access for staff accounts.
type Repository interface {
	Create(ctx context.Context, s *Staff) error
	GetByEmail(ctx context.Context, email string) (*Staff, error)
	GetByID(ctx context.Context, id string) (*Staff, error)
	Count(ctx context.Context) (int, error)
}
