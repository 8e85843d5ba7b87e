package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	apperrors "github.com/georgemunganga/restro-backend/internal/platform/errors"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) Get(ctx context.Context) (*Settings, error) {
	s := &Settings{}
	err := r.db.QueryRowContext(ctx, `
		SELECT restaurant_name, dine_in_enabled, takeaway_enabled, delivery_enabled, cafe_closed,
		       cgst_percent, sgst_percent, delivery_charge, note, updated_at
		FROM settings WHERE id = 1`).Scan(
		&s.RestaurantName, &s.DineInEnabled, &s.TakeawayEnabled, &s.DeliveryEnabled, &s.CafeClosed,
		&s.CGSTPercent, &s.SGSTPercent, &s.DeliveryCharge, &s.Note, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("settings not initialised")
	}
	if err != nil {
		return nil, fmt.Errorf("select settings: %w", err)
	}
	return s, nil
}

func (r *postgresRepo) CreateIfAbsent(ctx context.Context, s *Settings) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO settings
		  (id, restaurant_name, dine_in_enabled, takeaway_enabled, delivery_enabled, cafe_closed,
		   cgst_percent, sgst_percent, delivery_charge, note)
		VALUES (1,$1,$2,$3,$4,$5,$6,$7,$8,$9)
		ON CONFLICT (id) DO NOTHING`,
		s.RestaurantName, s.DineInEnabled, s.TakeawayEnabled, s.DeliveryEnabled, s.CafeClosed,
		s.CGSTPercent, s.SGSTPercent, s.DeliveryCharge, s.Note)
	if err != nil {
		return fmt.Errorf("insert settings: %w", err)
	}
	return nil
}

func (r *postgresRepo) Upsert(ctx context.Context, s *Settings) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO settings
		  (id, restaurant_name, dine_in_enabled, takeaway_enabled, delivery_enabled, cafe_closed,
		   cgst_percent, sgst_percent, delivery_charge, note, updated_at)
		VALUES (1,$1,$2,$3,$4,$5,$6,$7,$8,$9,NOW())
		ON CONFLICT (id) DO UPDATE SET
		  restaurant_name  = EXCLUDED.restaurant_name,
		  dine_in_enabled  = EXCLUDED.dine_in_enabled,
		  takeaway_enabled = EXCLUDED.takeaway_enabled,
		  delivery_enabled = EXCLUDED.delivery_enabled,
		  cafe_closed      = EXCLUDED.cafe_closed,
		  cgst_percent     = EXCLUDED.cgst_percent,
		  sgst_percent     = EXCLUDED.sgst_percent,
		  delivery_charge  = EXCLUDED.delivery_charge,
		  note             = EXCLUDED.note,
		  updated_at       = EXCLUDED.updated_at
		RETURNING updated_at`,
		s.RestaurantName, s.DineInEnabled, s.TakeawayEnabled, s.DeliveryEnabled, s.CafeClosed,
		s.CGSTPercent, s.SGSTPercent, s.DeliveryCharge, s.Note).Scan(&s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert settings: %w", err)
	}
	return nil
}
