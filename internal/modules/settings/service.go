package settings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/georgemunganga/restro-backend/internal/modules/realtime"
	apperrors "github.com/georgemunganga/restro-backend/internal/platform/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Service defines settings business logic.
type Service interface {
	// Get returns the current settings, creating the defaults on first read.
	Get(ctx context.Context) (*Settings, error)

	// Update applies req over the current settings and stores the whole row.
	Update(ctx context.Context, req UpdateRequest) (*Settings, error)
}

type service struct {
	repo   Repository
	events realtime.Publisher
	log    logrus.FieldLogger
}

// NewService creates a new settings service.
func NewService(repo Repository, events realtime.Publisher, log logrus.FieldLogger) Service {
	return &service{repo: repo, events: events, log: log}
}

var hundred = decimal.NewFromInt(100)

func (s *service) Get(ctx context.Context) (*Settings, error) {
	current, err := s.repo.Get(ctx)
	if err == nil {
		return current, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	defaults := Defaults()
	if err := s.repo.CreateIfAbsent(ctx, &defaults); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx)
}

func (s *service) Update(ctx context.Context, req UpdateRequest) (*Settings, error) {
	current, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	next := *current
	req.applyTo(&next)

	if err := validate(next); err != nil {
		return nil, err
	}
	if err := s.repo.Upsert(ctx, &next); err != nil {
		return nil, fmt.Errorf("failed to persist settings: %w", err)
	}

	if err := s.events.Publish(ctx, realtime.EventSettingsUpdated, next); err != nil {
		s.log.WithError(err).Warn("publish settings update")
	}
	return &next, nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

func (req UpdateRequest) applyTo(s *Settings) {
	if req.RestaurantName != nil {
		s.RestaurantName = strings.TrimSpace(*req.RestaurantName)
	}
	if req.DineInEnabled != nil {
		s.DineInEnabled = *req.DineInEnabled
	}
	if req.TakeawayEnabled != nil {
		s.TakeawayEnabled = *req.TakeawayEnabled
	}
	if req.DeliveryEnabled != nil {
		s.DeliveryEnabled = *req.DeliveryEnabled
	}
	if req.CafeClosed != nil {
		s.CafeClosed = *req.CafeClosed
	}
	if req.CGSTPercent != nil {
		s.CGSTPercent = *req.CGSTPercent
	}
	if req.SGSTPercent != nil {
		s.SGSTPercent = *req.SGSTPercent
	}
	if req.DeliveryCharge != nil {
		s.DeliveryCharge = *req.DeliveryCharge
	}
	if req.Note != nil {
		s.Note = strings.TrimSpace(*req.Note)
	}
}

func validate(s Settings) error {
	for name, pct := range map[string]decimal.Decimal{"cgst_percent": s.CGSTPercent, "sgst_percent": s.SGSTPercent} {
		if pct.IsNegative() || pct.GreaterThan(hundred) {
			return apperrors.Validation(fmt.Sprintf("%s must be between 0 and 100", name))
		}
		if !pct.Equal(pct.Round(2)) {
			return apperrors.Validation(fmt.Sprintf("%s must have at most 2 decimal places", name))
		}
	}
	if s.DeliveryCharge.IsNegative() {
		return apperrors.Validation("delivery_charge must not be negative")
	}
	if !s.DeliveryCharge.Equal(s.DeliveryCharge.Round(2)) {
		return apperrors.Validation("delivery_charge must have at most 2 decimal places")
	}
	return nil
}
