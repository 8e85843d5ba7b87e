package staff

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/georgemunganga/restro-backend/internal/platform/database"
	apperrors "github.com/georgemunganga/restro-backend/internal/platform/errors"
	"github.com/google/uuid"
)

type postgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a new PostgreSQL staff repository.
func NewPostgresRepository(db *sql.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, s *Staff) error {
	query := `
		INSERT INTO staff (id, email, password_hash, name, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query, s.ID, s.Email, s.PasswordHash, s.Name, string(s.Role)).
		Scan(&s.CreatedAt, &s.UpdatedAt)
	if database.IsUniqueViolation(err) {
		return apperrors.Conflict(fmt.Sprintf("staff account %s already exists", s.Email))
	}
	if err != nil {
		return fmt.Errorf("insert staff: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetByEmail(ctx context.Context, email string) (*Staff, error) {
	query := `
		SELECT id, email, password_hash, name, role, created_at, updated_at
		FROM staff
		WHERE email = $1
	`
	s, err := scanStaff(r.db.QueryRowContext(ctx, query, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("staff account not found")
	}
	return s, err
}

func (r *postgresRepository) GetByID(ctx context.Context, id string) (*Staff, error) {
	parsedID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperrors.NotFound(fmt.Sprintf("staff %s not found", id))
	}
	query := `
		SELECT id, email, password_hash, name, role, created_at, updated_at
		FROM staff
		WHERE id = $1
	`
	s, err := scanStaff(r.db.QueryRowContext(ctx, query, parsedID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound(fmt.Sprintf("staff %s not found", id))
	}
	return s, err
}

func (r *postgresRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM staff`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count staff: %w", err)
	}
	return n, nil
}

func scanStaff(row *sql.Row) (*Staff, error) {
	s := &Staff{}
	err := row.Scan(
		&s.ID,
		&s.Email,
		&s.PasswordHash,
		&s.Name,
		&s.Role,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}
