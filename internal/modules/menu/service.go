package menu

import (
	"context"
	"strings"

	"github.com/georgemunganga/restro-backend/internal/modules/realtime"
	apperrors "github.com/georgemunganga/restro-backend/internal/platform/errors"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Service defines menu business logic.
type Service interface {
	CreateItem(ctx context.Context, req ItemRequest) (*Item, error)

	// GetItem resolves one item. Order placement uses it to snapshot name and price.
	GetItem(ctx context.Context, id string) (*Item, error)

	ListItems(ctx context.Context, filter ListFilter) ([]*Item, error)
	UpdateItem(ctx context.Context, id string, req ItemRequest) (*Item, error)

	// SetAvailability toggles whether an item can be ordered without touching its price.
	SetAvailability(ctx context.Context, id string, available bool) (*Item, error)

	DeleteItem(ctx context.Context, id string) error
	ListCategories(ctx context.Context) ([]string, error)
}

type service struct {
	repo   Repository
	events realtime.Publisher
	log    logrus.FieldLogger
}

func NewService(repo Repository, events realtime.Publisher, log logrus.FieldLogger) Service {
	return &service{repo: repo, events: events, log: log}
}

// menuChange is the payload of a menuUpdated event.
type menuChange struct {
	Action string    `json:"action"`
	ItemID uuid.UUID `json:"item_id"`
	Item   *Item     `json:"item,omitempty"`
}

func (s *service) CreateItem(ctx context.Context, req ItemRequest) (*Item, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	item := &Item{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(req.Name),
		Price:       req.Price,
		Category:    strings.TrimSpace(req.Category),
		ImageRef:    req.ImageRef,
		IsAvailable: true,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	s.publish(ctx, menuChange{Action: "created", ItemID: item.ID, Item: item})
	return item, nil
}

func (s *service) GetItem(ctx context.Context, id string) (*Item, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListItems(ctx context.Context, filter ListFilter) ([]*Item, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) UpdateItem(ctx context.Context, id string, req ItemRequest) (*Item, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	item.Name = strings.TrimSpace(req.Name)
	item.Price = req.Price
	item.Category = strings.TrimSpace(req.Category)
	item.ImageRef = req.ImageRef
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	s.publish(ctx, menuChange{Action: "updated", ItemID: item.ID, Item: item})
	return item, nil
}

func (s *service) SetAvailability(ctx context.Context, id string, available bool) (*Item, error) {
	if err := s.repo.SetAvailability(ctx, id, available); err != nil {
		return nil, err
	}
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, menuChange{Action: "availability", ItemID: item.ID, Item: item})
	return item, nil
}

func (s *service) DeleteItem(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	uid, _ := uuid.Parse(id)
	s.publish(ctx, menuChange{Action: "deleted", ItemID: uid})
	return nil
}

func (s *service) ListCategories(ctx context.Context) ([]string, error) {
	return s.repo.Categories(ctx)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func (s *service) publish(ctx context.Context, change menuChange) {
	if err := s.events.Publish(ctx, realtime.EventMenuUpdated, change); err != nil {
		s.log.WithError(err).WithField("item_id", change.ItemID).Warn("publish menu update")
	}
}

func (req ItemRequest) validate() error {
	if strings.TrimSpace(req.Name) == "" {
		return apperrors.Validation("name is required")
	}
	if strings.TrimSpace(req.Category) == "" {
		return apperrors.Validation("category is required")
	}
	if req.Price.IsNegative() {
		return apperrors.Validation("price must not be negative")
	}
	if !req.Price.Equal(req.Price.Round(2)) {
		return apperrors.Validation("price must have at most 2 decimal places")
	}
	return nil
}
