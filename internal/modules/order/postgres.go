package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/georgemunganga/restro-backend/internal/platform/database"
	apperrors "github.com/georgemunganga/restro-backend/internal/platform/errors"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const orderColumns = `id, order_number, customer_name, customer_mobile, service_type, delivery_address,
	subtotal, tax_cgst, tax_sgst, delivery_charge, grand_total, status, estimated_minutes,
	cancellation_reason, rating, feedback_text, created_at, updated_at, completed_at`

// CreateOrder inserts the order and all its items inside a single transaction.
func (r *postgresRepo) CreateOrder(ctx context.Context, o *Order) error {
	err := database.Tx(ctx, r.db, func(tx *sql.Tx) error {
		var addr interface{}
		if o.DeliveryAddress != nil {
			addr = *o.DeliveryAddress
		}
		err := tx.QueryRowContext(ctx, `
			INSERT INTO orders
			  (id, order_number, customer_name, customer_mobile, service_type, delivery_address,
			   subtotal, tax_cgst, tax_sgst, delivery_charge, grand_total, status)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
			RETURNING created_at, updated_at`,
			o.ID, o.OrderNumber, o.CustomerName, o.CustomerMobile, string(o.ServiceType), addr,
			o.Subtotal, o.TaxCGST, o.TaxSGST, o.DeliveryCharge, o.GrandTotal, string(o.Status),
		).Scan(&o.CreatedAt, &o.UpdatedAt)
		if err != nil {
			return fmt.Errorf("insert order: %w", err)
		}

		for i, item := range o.Items {
			_, err = tx.ExecContext(ctx, `
				INSERT INTO order_items
				  (id, order_id, position, menu_item_id, name, unit_price, quantity, line_total)
				VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
				uuid.New(), o.ID, i, item.ItemID, item.Name, item.UnitPrice, item.Quantity, item.LineTotal)
			if err != nil {
				return fmt.Errorf("insert order_item: %w", err)
			}
		}
		return nil
	})
	if database.IsUniqueViolation(err) {
		return apperrors.Wrap(apperrors.CodeConflict, "order number already taken", err)
	}
	return err
}

func (r *postgresRepo) GetOrder(ctx context.Context, id string) (*Order, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, apperrors.NotFound(fmt.Sprintf("order %s not found", id))
	}
	o, err := scanOrder(r.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id=$1`, uid))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound(fmt.Sprintf("order %s not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("select order: %w", err)
	}
	if err := r.attachItems(ctx, []*Order{o}); err != nil {
		return nil, err
	}
	return o, nil
}

// UpdateOrder is a compare-and-swap on status: the UPDATE only matches while the
// row still carries the status the caller read.
func (r *postgresRepo) UpdateOrder(ctx context.Context, id string, expected Status, patch Patch) (*Order, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, apperrors.NotFound(fmt.Sprintf("order %s not found", id))
	}

	query, args := buildUpdate(uid, expected, patch)
	o, err := scanOrder(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, r.guardFailure(ctx, uid)
	}
	if err != nil {
		return nil, fmt.Errorf("update order: %w", err)
	}
	if err := r.attachItems(ctx, []*Order{o}); err != nil {
		return nil, err
	}
	return o, nil
}

// buildUpdate renders the guarded UPDATE for patch. The id and expected status
// are always the last two arguments.
func buildUpdate(id uuid.UUID, expected Status, patch Patch) (string, []interface{}) {
	sets := []string{"updated_at = NOW()"}
	var args []interface{}
	set := func(expr string, v interface{}) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf(expr, len(args)))
	}
	if patch.Status != nil {
		set("status = $%d", string(*patch.Status))
	}
	if patch.EstimatedMinutes != nil {
		set("estimated_minutes = $%d", *patch.EstimatedMinutes)
	}
	if patch.CancellationReason != nil {
		set("cancellation_reason = $%d", *patch.CancellationReason)
	}
	if patch.CompletedAt != nil {
		set("completed_at = COALESCE(completed_at, $%d)", *patch.CompletedAt)
	}
	if patch.Rating != nil {
		set("rating = $%d", *patch.Rating)
	}
	if patch.FeedbackText != nil {
		set("feedback_text = $%d", *patch.FeedbackText)
	}

	args = append(args, id, string(expected))
	query := fmt.Sprintf(`UPDATE orders SET %s WHERE id = $%d AND status = $%d`,
		strings.Join(sets, ", "), len(args)-1, len(args))
	if patch.Rating != nil {
		query += ` AND rating IS NULL`
	}
	query += ` RETURNING ` + orderColumns
	return query, args
}

func (r *postgresRepo) ListOrders(ctx context.Context, filter Filter) ([]*Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE 1=1`
	var args []interface{}
	where := func(expr string, v interface{}) {
		args = append(args, v)
		query += fmt.Sprintf(" AND "+expr, len(args))
	}

	if filter.Mobile != "" {
		where("customer_mobile = $%d", filter.Mobile)
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		where("status = ANY($%d)", pq.Array(statuses))
	}
	col := "created_at"
	if filter.ByCompletion {
		col = "completed_at"
	}
	if !filter.From.IsZero() {
		where(col+" >= $%d", filter.From)
	}
	if !filter.To.IsZero() {
		where(col+" < $%d", filter.To)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// ── helpers ──────────────────────────────────────────────────────────────────

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(row rowScanner) (*Order, error) {
	o := &Order{}
	var (
		addr        []byte
		estimated   sql.NullInt32
		rating      sql.NullInt32
		completedAt sql.NullTime
	)
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.CustomerName, &o.CustomerMobile, &o.ServiceType, &addr,
		&o.Subtotal, &o.TaxCGST, &o.TaxSGST, &o.DeliveryCharge, &o.GrandTotal, &o.Status, &estimated,
		&o.CancellationReason, &rating, &o.FeedbackText, &o.CreatedAt, &o.UpdatedAt, &completedAt)
	if err != nil {
		return nil, err
	}
	if len(addr) > 0 {
		o.DeliveryAddress = &Address{}
		if err := o.DeliveryAddress.Scan(addr); err != nil {
			return nil, fmt.Errorf("decode delivery address: %w", err)
		}
	}
	if estimated.Valid {
		v := int(estimated.Int32)
		o.EstimatedMinutes = &v
	}
	if rating.Valid {
		v := int(rating.Int32)
		o.Rating = &v
	}
	if completedAt.Valid {
		t := completedAt.Time
		o.CompletedAt = &t
	}
	return o, nil
}

// attachItems loads the line items of all orders with one query.
func (r *postgresRepo) attachItems(ctx context.Context, orders []*Order) error {
	if len(orders) == 0 {
		return nil
	}
	byID := make(map[uuid.UUID]*Order, len(orders))
	ids := make([]string, len(orders))
	for i, o := range orders {
		byID[o.ID] = o
		ids[i] = o.ID.String()
		o.Items = []LineItem{}
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT order_id, menu_item_id, name, unit_price, quantity, line_total
		FROM order_items WHERE order_id = ANY($1::uuid[])
		ORDER BY order_id, position`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var orderID uuid.UUID
		var item LineItem
		if err := rows.Scan(&orderID, &item.ItemID, &item.Name, &item.UnitPrice,
			&item.Quantity, &item.LineTotal); err != nil {
			return err
		}
		if o, ok := byID[orderID]; ok {
			o.Items = append(o.Items, item)
		}
	}
	return rows.Err()
}

// guardFailure tells a missing order apart from a lost compare-and-swap.
func (r *postgresRepo) guardFailure(ctx context.Context, id uuid.UUID) error {
	var exists bool
	if err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM orders WHERE id=$1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("check order: %w", err)
	}
	if !exists {
		return apperrors.NotFound(fmt.Sprintf("order %s not found", id))
	}
	return apperrors.Conflict("order changed since it was read, please refresh and retry")
}
