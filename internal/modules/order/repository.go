package order

import "context"

// Repository defines data access for orders.
type Repository interface {
	// CreateOrder persists a new order and its line items atomically in a transaction.
	CreateOrder(ctx context.Context, o *Order) error

	// GetOrder retrieves an order with its items. Unknown ids return a not-found error.
	GetOrder(ctx context.Context, id string) (*Order, error)

	// UpdateOrder applies patch only if the stored status still equals expected and
	// returns the updated order. A patch that sets Rating also requires that no rating
	// is stored yet, and CompletedAt is only written while it is still null.
	// A guard mismatch returns a conflict error; an unknown id returns not-found.
	UpdateOrder(ctx context.Context, id string, expected Status, patch Patch) (*Order, error)

	// ListOrders returns orders matching filter, newest first.
	ListOrders(ctx context.Context, filter Filter) ([]*Order, error)
}
