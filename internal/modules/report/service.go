package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/georgemunganga/restro-backend/internal/modules/order"
	"github.com/shopspring/decimal"
)

// recentComments caps the comment list in the feedback report.
const recentComments = 10

// OrderLister is the read side of the order store.
type OrderLister interface {
	ListOrders(ctx context.Context, filter order.Filter) ([]*order.Order, error)
}

// Service builds staff reports from stored orders.
type Service interface {
	Orders(ctx context.Context, rng Range, statuses []order.Status) (*OrdersReport, error)
	Earnings(ctx context.Context, rng Range) (*Earnings, error)
	Feedback(ctx context.Context, rng Range) (*FeedbackReport, error)
}

type service struct {
	orders OrderLister
	now    func() time.Time
}

func NewService(orders OrderLister) Service {
	return &service{orders: orders, now: time.Now}
}

func (s *service) Orders(ctx context.Context, rng Range, statuses []order.Status) (*OrdersReport, error) {
	list, err := s.orders.ListOrders(ctx, order.Filter{Statuses: statuses, From: rng.From, To: rng.To})
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	if list == nil {
		list = []*order.Order{}
	}

	rep := &OrdersReport{
		GeneratedAt: s.now().UTC(),
		Total:       len(list),
		ByStatus:    map[order.Status]int{},
		Orders:      list,
	}
	for _, o := range list {
		rep.ByStatus[o.Status]++
	}
	return rep, nil
}

func (s *service) Earnings(ctx context.Context, rng Range) (*Earnings, error) {
	list, err := s.fulfilled(ctx, rng)
	if err != nil {
		return nil, err
	}
	return summariseEarnings(list), nil
}

func (s *service) Feedback(ctx context.Context, rng Range) (*FeedbackReport, error) {
	list, err := s.fulfilled(ctx, rng)
	if err != nil {
		return nil, err
	}
	return summariseFeedback(list), nil
}

// fulfilled lists completed and delivered orders whose completion falls in rng.
func (s *service) fulfilled(ctx context.Context, rng Range) ([]*order.Order, error) {
	list, err := s.orders.ListOrders(ctx, order.Filter{
		Statuses:     []order.Status{order.StatusCompleted, order.StatusDelivered},
		From:         rng.From,
		To:           rng.To,
		ByCompletion: true,
	})
	if err != nil {
		return nil, fmt.Errorf("list fulfilled orders: %w", err)
	}
	return list, nil
}

func summariseEarnings(list []*order.Order) *Earnings {
	e := &Earnings{
		Gross:             decimal.Zero,
		Subtotal:          decimal.Zero,
		Tax:               decimal.Zero,
		DeliveryCharges:   decimal.Zero,
		AverageOrderValue: decimal.Zero,
		ByService:         map[order.ServiceType]ServiceEarnings{},
		Daily:             []DailyEarnings{},
	}
	daily := map[string]*DailyEarnings{}

	for _, o := range list {
		e.Orders++
		e.Gross = e.Gross.Add(o.GrandTotal)
		e.Subtotal = e.Subtotal.Add(o.Subtotal)
		e.Tax = e.Tax.Add(o.TaxCGST).Add(o.TaxSGST)
		e.DeliveryCharges = e.DeliveryCharges.Add(o.DeliveryCharge)

		svc := e.ByService[o.ServiceType]
		svc.Orders++
		svc.Gross = svc.Gross.Add(o.GrandTotal)
		e.ByService[o.ServiceType] = svc

		at := o.CreatedAt
		if o.CompletedAt != nil {
			at = *o.CompletedAt
		}
		day := at.UTC().Format("2006-01-02")
		d, ok := daily[day]
		if !ok {
			d = &DailyEarnings{Date: day, Gross: decimal.Zero}
			daily[day] = d
		}
		d.Orders++
		d.Gross = d.Gross.Add(o.GrandTotal)
	}

	if e.Orders > 0 {
		e.AverageOrderValue = e.Gross.Div(decimal.NewFromInt(int64(e.Orders))).Round(2)
	}
	for _, d := range daily {
		e.Daily = append(e.Daily, *d)
	}
	sort.Slice(e.Daily, func(i, j int) bool { return e.Daily[i].Date < e.Daily[j].Date })
	return e
}

func summariseFeedback(list []*order.Order) *FeedbackReport {
	f := &FeedbackReport{
		AverageRating: decimal.Zero,
		Distribution:  map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0},
		Recent:        []Comment{},
	}
	sum := 0
	for _, o := range list {
		if o.Rating == nil {
			continue
		}
		f.Rated++
		sum += *o.Rating
		f.Distribution[*o.Rating]++
		if o.FeedbackText != "" {
			f.Recent = append(f.Recent, Comment{
				OrderNumber:  o.OrderNumber,
				CustomerName: o.CustomerName,
				Rating:       *o.Rating,
				Text:         o.FeedbackText,
				CompletedAt:  o.CompletedAt,
			})
		}
	}
	if f.Rated > 0 {
		f.AverageRating = decimal.NewFromInt(int64(sum)).Div(decimal.NewFromInt(int64(f.Rated))).Round(2)
	}

	sort.SliceStable(f.Recent, func(i, j int) bool {
		a, b := f.Recent[i].CompletedAt, f.Recent[j].CompletedAt
		return a != nil && (b == nil || a.After(*b))
	})
	if len(f.Recent) > recentComments {
		f.Recent = f.Recent[:recentComments]
	}
	return f
}
