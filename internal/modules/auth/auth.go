package auth

import (
	"context"

	"github.com/georgemunganga/restro-backend/internal/modules/staff"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims are carried by every staff token.
type Claims struct {
	StaffID uuid.UUID  `json:"sid"`
	Role    staff.Role `json:"role"`
	jwt.RegisteredClaims
}

// Service defines the interface for authentication-related business logic.
type Service interface {
	Login(ctx context.Context, email, password string) (string, error)
	Verify(token string) (*Claims, error)
}

// CredentialStore finds staff accounts by email.
type CredentialStore interface {
	GetByEmail(ctx context.Context, email string) (*staff.Staff, error)
}
