package menu

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	apperrors "github.com/georgemunganga/restro-backend/internal/platform/errors"
	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const itemColumns = `id, name, price, category, image_ref, is_available, created_at, updated_at`

func (r *postgresRepo) Create(ctx context.Context, item *Item) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO menu_items (id, name, price, category, image_ref, is_available)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING created_at, updated_at`,
		item.ID, item.Name, item.Price, item.Category, item.ImageRef, item.IsAvailable,
	).Scan(&item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert menu item: %w", err)
	}
	return nil
}

func scanItem(scan func(...interface{}) error) (*Item, error) {
	item := &Item{}
	err := scan(&item.ID, &item.Name, &item.Price, &item.Category, &item.ImageRef,
		&item.IsAvailable, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*Item, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, apperrors.NotFound(fmt.Sprintf("menu item %s not found", id))
	}
	row := r.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM menu_items WHERE id=$1`, uid)
	item, err := scanItem(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound(fmt.Sprintf("menu item %s not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("select menu item: %w", err)
	}
	return item, nil
}

func (r *postgresRepo) List(ctx context.Context, filter ListFilter) ([]*Item, error) {
	query := `SELECT ` + itemColumns + ` FROM menu_items WHERE 1=1`
	args := []interface{}{}
	n := 1
	if filter.Category != "" {
		query += fmt.Sprintf(` AND category=$%d`, n)
		args = append(args, filter.Category)
		n++
	}
	if filter.AvailableOnly {
		query += ` AND is_available=true`
	}
	query += ` ORDER BY category ASC, name ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list menu items: %w", err)
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		item, err := scanItem(rows.Scan)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *postgresRepo) Update(ctx context.Context, item *Item) error {
	err := r.db.QueryRowContext(ctx, `
		UPDATE menu_items
		SET name=$1, price=$2, category=$3, image_ref=$4, is_available=$5, updated_at=NOW()
		WHERE id=$6
		RETURNING updated_at`,
		item.Name, item.Price, item.Category, item.ImageRef, item.IsAvailable, item.ID,
	).Scan(&item.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.NotFound(fmt.Sprintf("menu item %s not found", item.ID))
	}
	if err != nil {
		return fmt.Errorf("update menu item: %w", err)
	}
	return nil
}

func (r *postgresRepo) SetAvailability(ctx context.Context, id string, available bool) error {
	return r.execOne(ctx, id,
		`UPDATE menu_items SET is_available=$1, updated_at=NOW() WHERE id=$2`, available)
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	return r.execOne(ctx, id, `DELETE FROM menu_items WHERE id=$1`)
}

func (r *postgresRepo) Categories(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT category FROM menu_items ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// ── helpers ───────────────────────────────────────────────────────────────────

// execOne runs a statement whose last placeholder is the item id and expects one affected row.
func (r *postgresRepo) execOne(ctx context.Context, id, query string, args ...interface{}) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return apperrors.NotFound(fmt.Sprintf("menu item %s not found", id))
	}
	res, err := r.db.ExecContext(ctx, query, append(args, uid)...)
	if err != nil {
		return fmt.Errorf("menu item write: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperrors.NotFound(fmt.Sprintf("menu item %s not found", id))
	}
	return nil
}
