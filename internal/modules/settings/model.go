package settings

import (
	"time"

	"github.com/shopspring/decimal"
)

// Settings is the single row of restaurant-wide configuration read by every order.
type Settings struct {
	RestaurantName  string          `json:"restaurant_name"`
	DineInEnabled   bool            `json:"dine_in_enabled"`
	TakeawayEnabled bool            `json:"takeaway_enabled"`
	DeliveryEnabled bool            `json:"delivery_enabled"`
	CafeClosed      bool            `json:"cafe_closed"` // overrides every service toggle
	CGSTPercent     decimal.Decimal `json:"cgst_percent"`
	SGSTPercent     decimal.Decimal `json:"sgst_percent"`
	DeliveryCharge  decimal.Decimal `json:"delivery_charge"`
	Note            string          `json:"note"` // shown to customers when ordering is blocked
	UpdatedAt       time.Time       `json:"updated_at"`
}

// Defaults returns the settings a fresh deployment starts with.
func Defaults() Settings {
	return Settings{
		RestaurantName:  "My Restaurant",
		DineInEnabled:   true,
		TakeawayEnabled: true,
		DeliveryEnabled: true,
		CGSTPercent:     decimal.RequireFromString("2.5"),
		SGSTPercent:     decimal.RequireFromString("2.5"),
		DeliveryCharge:  decimal.NewFromInt(30),
	}
}

// UpdateRequest replaces the fields that are present; absent fields keep their value.
type UpdateRequest struct {
	RestaurantName  *string          `json:"restaurant_name,omitempty"`
	DineInEnabled   *bool            `json:"dine_in_enabled,omitempty"`
	TakeawayEnabled *bool            `json:"takeaway_enabled,omitempty"`
	DeliveryEnabled *bool            `json:"delivery_enabled,omitempty"`
	CafeClosed      *bool            `json:"cafe_closed,omitempty"`
	CGSTPercent     *decimal.Decimal `json:"cgst_percent,omitempty"`
	SGSTPercent     *decimal.Decimal `json:"sgst_percent,omitempty"`
	DeliveryCharge  *decimal.Decimal `json:"delivery_charge,omitempty"`
	Note            *string          `json:"note,omitempty"`
}
