package order

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status represents the lifecycle state of an order.
type Status string

const (
	StatusPending        Status = "Pending"
	StatusInProgress     Status = "In Progress"
	StatusReady          Status = "Ready"
	StatusReadyForPickup Status = "Ready for Pickup"
	StatusOutForDelivery Status = "Out for Delivery"
	StatusCompleted      Status = "Completed"
	StatusDelivered      Status = "Delivered"
	StatusCancelled      Status = "Cancelled"
)

// ServiceType indicates how the customer receives the order. Fixed at creation.
type ServiceType string

const (
	ServiceDineIn   ServiceType = "Dine-in"
	ServiceTakeaway ServiceType = "Takeaway"
	ServiceDelivery ServiceType = "Delivery"
)

// Order is a customer's priced order and its fulfillment state.
type Order struct {
	ID                 uuid.UUID       `json:"id"`
	OrderNumber        string          `json:"order_number"`
	CustomerName       string          `json:"customer_name"`
	CustomerMobile     string          `json:"customer_mobile"`
	ServiceType        ServiceType     `json:"service_type"`
	DeliveryAddress    *Address        `json:"delivery_address,omitempty"` // nil unless Delivery
	Items              []LineItem      `json:"items"`
	Subtotal           decimal.Decimal `json:"subtotal"`
	TaxCGST            decimal.Decimal `json:"tax_cgst"`
	TaxSGST            decimal.Decimal `json:"tax_sgst"`
	DeliveryCharge     decimal.Decimal `json:"delivery_charge"`
	GrandTotal         decimal.Decimal `json:"grand_total"`
	Status             Status          `json:"status"`
	EstimatedMinutes   *int            `json:"estimated_minutes,omitempty"`
	CancellationReason string          `json:"cancellation_reason,omitempty"`
	Rating             *int            `json:"rating,omitempty"`
	FeedbackText       string          `json:"feedback_text,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
	CompletedAt        *time.Time      `json:"completed_at,omitempty"`
}

// LineItem is one menu item in an order with its price captured at checkout.
type LineItem struct {
	ItemID    uuid.UUID       `json:"item_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// Address is the structured delivery destination. All fields are required for delivery orders.
type Address struct {
	Flat     string `json:"flat"`
	Area     string `json:"area"`
	Landmark string `json:"landmark"`
	City     string `json:"city"`
	Pincode  string `json:"pincode"`
	Mobile   string `json:"mobile"`
}

// Value stores the address as JSONB.
func (a Address) Value() (driver.Value, error) {
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan reads a JSONB address.
func (a *Address) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.New("order: unsupported address column type")
	}
	return json.Unmarshal(raw, a)
}

// CartItem is what the customer asks for; price and name are resolved from the menu.
type CartItem struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

// PlaceOrderRequest is the payload for creating a new order.
type PlaceOrderRequest struct {
	CustomerName    string      `json:"customer_name"`
	CustomerMobile  string      `json:"customer_mobile"`
	ServiceType     ServiceType `json:"service_type"`
	DeliveryAddress *Address    `json:"delivery_address,omitempty"`
	Items           []CartItem  `json:"items"`
}

// AdvanceRequest moves an order to the next status in its sequence.
type AdvanceRequest struct {
	// From optionally asserts the status the caller last saw.
	From Status `json:"from,omitempty"`
	// EstimatedMinutes is required when the next status is In Progress.
	EstimatedMinutes *int `json:"estimated_minutes,omitempty"`
}

// CancelRequest cancels a non-terminal order.
type CancelRequest struct {
	Reason string `json:"reason"`
}

// FeedbackRequest rates a completed or delivered order.
type FeedbackRequest struct {
	Rating int    `json:"rating"`
	Text   string `json:"text,omitempty"`
}

// Filter narrows an order listing. Zero values do not filter.
type Filter struct {
	Mobile   string
	Statuses []Status
	From     time.Time // inclusive
	To       time.Time // exclusive
	// ByCompletion applies From/To to completed_at instead of created_at.
	ByCompletion bool
}

// Patch lists the fields an update writes. Nil fields are left unchanged.
type Patch struct {
	Status             *Status
	EstimatedMinutes   *int
	CancellationReason *string
	CompletedAt        *time.Time
	Rating             *int
	FeedbackText       *string
}
