package report

import (
	"time"

	"github.com/georgemunganga/restro-backend/internal/modules/order"
	"github.com/shopspring/decimal"
)

// Range bounds a report. From is inclusive, To exclusive; zero values are open.
type Range struct {
	From time.Time
	To   time.Time
}

// OrdersReport lists the orders created in a range with a count per status.
type OrdersReport struct {
	GeneratedAt time.Time            `json:"generated_at"`
	Total       int                  `json:"total"`
	ByStatus    map[order.Status]int `json:"by_status"`
	Orders      []*order.Order       `json:"orders"`
}

// Earnings summarises money taken on fulfilled orders, bucketed by completion time.
type Earnings struct {
	Orders            int                                   `json:"orders"`
	Gross             decimal.Decimal                       `json:"gross"`
	Subtotal          decimal.Decimal                       `json:"subtotal"`
	Tax               decimal.Decimal                       `json:"tax"`
	DeliveryCharges   decimal.Decimal                       `json:"delivery_charges"`
	AverageOrderValue decimal.Decimal                       `json:"average_order_value"`
	ByService         map[order.ServiceType]ServiceEarnings `json:"by_service"`
	Daily             []DailyEarnings                       `json:"daily"`
}

type ServiceEarnings struct {
	Orders int             `json:"orders"`
	Gross  decimal.Decimal `json:"gross"`
}

type DailyEarnings struct {
	Date   string          `json:"date"` // YYYY-MM-DD, UTC
	Orders int             `json:"orders"`
	Gross  decimal.Decimal `json:"gross"`
}

// FeedbackReport summarises customer ratings.
type FeedbackReport struct {
	Rated         int             `json:"rated"`
	AverageRating decimal.Decimal `json:"average_rating"`
	Distribution  map[int]int     `json:"distribution"` // rating (1-5) -> count
	Recent        []Comment       `json:"recent"`
}

type Comment struct {
	OrderNumber  string     `json:"order_number"`
	CustomerName string     `json:"customer_name"`
	Rating       int        `json:"rating"`
	Text         string     `json:"text"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}
