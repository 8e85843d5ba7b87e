package staff

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	apperrors "github.com/georgemunganga/restro-backend/internal/platform/errors"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

// Service defines staff account business logic.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*Staff, error)
	Get(ctx context.Context, id string) (*Staff, error)
	// Bootstrap creates the first admin when no staff account exists yet.
	Bootstrap(ctx context.Context, email, password string) error
}

type service struct {
	repo Repository
	log  logrus.FieldLogger
}

// NewService creates a new staff service.
func NewService(repo Repository, log logrus.FieldLogger) Service {
	return &service{repo: repo, log: log}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*Staff, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperrors.Validation("a valid email is required")
	}
	if len(req.Password) < minPasswordLength {
		return nil, apperrors.Validation("password must be at least 8 characters")
	}
	role := req.Role
	if role == "" {
		role = RoleStaff
	}
	if !role.Valid() {
		return nil, apperrors.Validation("role must be admin or staff")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	member := &Staff{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hashedPassword),
		Name:         strings.TrimSpace(req.Name),
		Role:         role,
	}
	if err := s.repo.Create(ctx, member); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"staff_id": member.ID, "role": member.Role}).Info("staff account created")
	return member, nil
}

func (s *service) Get(ctx context.Context, id string) (*Staff, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) Bootstrap(ctx context.Context, email, password string) error {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	_, err = s.Register(ctx, RegisterRequest{Email: email, Password: password, Name: "Administrator", Role: RoleAdmin})
	if errors.Is(err, apperrors.ErrConflict) {
		return nil
	}
	return err
}
