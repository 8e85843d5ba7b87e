package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/georgemunganga/restro-backend/internal/modules/menu"
	"github.com/georgemunganga/restro-backend/internal/modules/notification"
	"github.com/georgemunganga/restro-backend/internal/modules/realtime"
	"github.com/georgemunganga/restro-backend/internal/modules/settings"
	apperrors "github.com/georgemunganga/restro-backend/internal/platform/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// MenuLookup resolves menu items for price snapshots.
type MenuLookup interface {
	GetItem(ctx context.Context, id string) (*menu.Item, error)
}

// SettingsReader returns the current settings snapshot.
type SettingsReader interface {
	Get(ctx context.Context) (*settings.Settings, error)
}

// Notifier queues an SMS. It must not block and reports nothing back.
type Notifier interface {
	Notify(to, text string)
}

// Service defines the order lifecycle business logic.
type Service interface {
	// PlaceOrder validates the cart against settings and menu, prices it and persists it as Pending.
	PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*Order, error)

	// GetOrder retrieves a full order with its items by UUID.
	GetOrder(ctx context.Context, id string) (*Order, error)

	// ListOrders returns orders matching filter, newest first.
	ListOrders(ctx context.Context, filter Filter) ([]*Order, error)

	// ListCustomerOrders returns every order placed from a mobile number.
	ListCustomerOrders(ctx context.Context, mobile string) ([]*Order, error)

	// AdvanceStatus moves an order to the next status of its sequence.
	AdvanceStatus(ctx context.Context, id string, req AdvanceRequest) (*Order, error)

	// CancelOrder cancels a non-terminal order with a reason.
	CancelOrder(ctx context.Context, id string, req CancelRequest) (*Order, error)

	// SubmitFeedback records the customer's rating once a completed or delivered order.
	SubmitFeedback(ctx context.Context, id string, req FeedbackRequest) (*Order, error)
}

type service struct {
	repo     Repository
	menu     MenuLookup
	settings SettingsReader
	events   realtime.Publisher
	notifier Notifier
	renderer *notification.Renderer
	log      logrus.FieldLogger
	now      func() time.Time
}

// NewService creates a new order service.
func NewService(
	repo Repository,
	menu MenuLookup,
	settings SettingsReader,
	events realtime.Publisher,
	notifier Notifier,
	renderer *notification.Renderer,
	log logrus.FieldLogger,
) Service {
	return &service{
		repo:     repo,
		menu:     menu,
		settings: settings,
		events:   events,
		notifier: notifier,
		renderer: renderer,
		log:      log,
		now:      time.Now,
	}
}

const orderNumberAttempts = 3

func (s *service) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*Order, error) {
	req.normalize()

	cfg, err := s.settings.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	if err := checkServiceOpen(cfg, req.ServiceType); err != nil {
		return nil, err
	}
	if err := req.validate(); err != nil {
		return nil, err
	}

	// ── Resolve items, snapshot name & price ──────────────────────────────────
	items := make([]LineItem, 0, len(req.Items))
	lines := make([]PriceLine, 0, len(req.Items))
	for _, ci := range req.Items {
		mi, err := s.menu.GetItem(ctx, ci.ItemID)
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, unavailable(ci.ItemID, "")
		}
		if err != nil {
			return nil, fmt.Errorf("resolve item %s: %w", ci.ItemID, err)
		}
		if !mi.IsAvailable {
			return nil, unavailable(ci.ItemID, mi.Name)
		}

		items = append(items, LineItem{
			ItemID:    mi.ID,
			Name:      mi.Name,
			UnitPrice: mi.Price,
			Quantity:  ci.Quantity,
			LineTotal: mi.Price.Mul(decimal.NewFromInt(int64(ci.Quantity))),
		})
		lines = append(lines, PriceLine{UnitPrice: mi.Price, Quantity: ci.Quantity})
	}

	// ── Price & persist ───────────────────────────────────────────────────────
	b := Price(lines, req.ServiceType, *cfg)
	o := &Order{
		ID:             uuid.New(),
		CustomerName:   req.CustomerName,
		CustomerMobile: req.CustomerMobile,
		ServiceType:    req.ServiceType,
		Items:          items,
		Subtotal:       b.Subtotal,
		TaxCGST:        b.CGST,
		TaxSGST:        b.SGST,
		DeliveryCharge: b.DeliveryCharge,
		GrandTotal:     b.GrandTotal,
		Status:         StatusPending,
	}
	if req.ServiceType == ServiceDelivery {
		o.DeliveryAddress = req.DeliveryAddress
	}

	for attempt := 1; ; attempt++ {
		o.OrderNumber = generateOrderNumber(s.now())
		err = s.repo.CreateOrder(ctx, o)
		if err == nil {
			break
		}
		if !errors.Is(err, apperrors.ErrConflict) || attempt == orderNumberAttempts {
			return nil, fmt.Errorf("failed to persist order: %w", err)
		}
	}

	s.afterCommit(ctx, realtime.EventNewOrder, o, s.placedMessage(o))
	return o, nil
}

func (s *service) GetOrder(ctx context.Context, id string) (*Order, error) {
	return s.repo.GetOrder(ctx, id)
}

func (s *service) ListOrders(ctx context.Context, filter Filter) ([]*Order, error) {
	return s.repo.ListOrders(ctx, filter)
}

func (s *service) ListCustomerOrders(ctx context.Context, mobile string) ([]*Order, error) {
	mobile = strings.TrimSpace(mobile)
	if !mobilePattern.MatchString(mobile) {
		return nil, apperrors.Validation("mobile must be 10 to 15 digits")
	}
	return s.repo.ListOrders(ctx, Filter{Mobile: mobile})
}

func (s *service) AdvanceStatus(ctx context.Context, id string, req AdvanceRequest) (*Order, error) {
	o, err := s.repo.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.From != "" && req.From != o.Status {
		return nil, apperrors.Conflict(fmt.Sprintf("order is %s, not %s; refresh and retry", o.Status, req.From))
	}

	next, ok := nextStatus(o.ServiceType, o.Status)
	if !ok {
		return nil, apperrors.Validation(fmt.Sprintf("order is already %s and cannot advance", o.Status))
	}

	patch := Patch{Status: &next}
	if next == StatusInProgress {
		if req.EstimatedMinutes == nil || *req.EstimatedMinutes <= 0 {
			return nil, apperrors.Validation("estimated_minutes is required to start preparing an order")
		}
		patch.EstimatedMinutes = req.EstimatedMinutes
	} else if req.EstimatedMinutes != nil {
		return nil, apperrors.Validation("estimated_minutes can only be set when preparation starts")
	}
	if next.IsTerminal() {
		now := s.now().UTC()
		patch.CompletedAt = &now
	}

	updated, err := s.repo.UpdateOrder(ctx, id, o.Status, patch)
	if err != nil {
		return nil, err
	}
	s.afterCommit(ctx, realtime.EventOrderUpdated, updated, s.transitionMessage(updated))
	return updated, nil
}

func (s *service) CancelOrder(ctx context.Context, id string, req CancelRequest) (*Order, error) {
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return nil, apperrors.Validation("a cancellation reason is required")
	}

	o, err := s.repo.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.Status.IsTerminal() {
		return nil, apperrors.Validation(fmt.Sprintf("order is already %s and cannot be cancelled", o.Status))
	}

	cancelled := StatusCancelled
	now := s.now().UTC()
	updated, err := s.repo.UpdateOrder(ctx, id, o.Status, Patch{
		Status:             &cancelled,
		CancellationReason: &reason,
		CompletedAt:        &now,
	})
	if err != nil {
		return nil, err
	}
	s.afterCommit(ctx, realtime.EventOrderUpdated, updated, s.transitionMessage(updated))
	return updated, nil
}

func (s *service) SubmitFeedback(ctx context.Context, id string, req FeedbackRequest) (*Order, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	o, err := s.repo.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if !o.Status.IsFulfilled() {
		return nil, apperrors.Validation("feedback is only accepted for completed or delivered orders")
	}
	if o.Rating != nil {
		return nil, apperrors.Conflict("feedback was already submitted for this order")
	}

	rating := req.Rating
	text := strings.TrimSpace(req.Text)
	updated, err := s.repo.UpdateOrder(ctx, id, o.Status, Patch{Rating: &rating, FeedbackText: &text})
	if err != nil {
		return nil, err
	}
	s.afterCommit(ctx, realtime.EventOrderUpdated, updated, "")
	return updated, nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

func unavailable(itemID, name string) error {
	label := "item " + itemID
	if name != "" {
		label = name
	}
	return apperrors.WithMetadata(apperrors.CodeValidation,
		fmt.Sprintf("%s is unavailable", label), map[string]string{"item_id": itemID})
}

// generateOrderNumber creates a human-readable order number: ORD-YYYYMMDD-XXXX
func generateOrderNumber(now time.Time) string {
	date := now.UTC().Format("20060102")
	suffix := strings.ToUpper(uuid.New().String()[:4])
	return fmt.Sprintf("ORD-%s-%s", date, suffix)
}
