package menu

import "context"

// Repository defines the interface for menu item storage.
type Repository interface {
	Create(ctx context.Context, item *Item) error
	GetByID(ctx context.Context, id string) (*Item, error)
	List(ctx context.Context, filter ListFilter) ([]*Item, error)
	Update(ctx context.Context, item *Item) error
	SetAvailability(ctx context.Context, id string, available bool) error
	Delete(ctx context.Context, id string) error
	Categories(ctx context.Context) ([]string, error)
}
