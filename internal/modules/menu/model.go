package menu

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Item is a dish or drink on the restaurant menu.
type Item struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	ImageRef    string          `json:"image_ref,omitempty"`
	IsAvailable bool            `json:"is_available"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ItemRequest holds the editable fields of a menu item.
type ItemRequest struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Category string          `json:"category"`
	ImageRef string          `json:"image_ref"`
}

// AvailabilityRequest toggles whether an item can be ordered.
type AvailabilityRequest struct {
	IsAvailable bool `json:"is_available"`
}

// ListFilter narrows a menu listing.
type ListFilter struct {
	Category      string
	AvailableOnly bool
}
