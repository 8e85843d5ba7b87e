package settings

import (
	"context"
	"errors"
	"sync"
	"testing"

	apperrors "github.com/georgemunganga/restro-backend/internal/platform/errors"
	"github.com/shopspring/decimal"
	logtest "github.com/sirupsen/logrus/hooks/test"
)

type fakeRepo struct {
	mu      sync.Mutex
	row     *Settings
	creates int
}

func (r *fakeRepo) Get(context.Context) (*Settings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.row == nil {
		return nil, apperrors.NotFound("settings not initialised")
	}
	cp := *r.row
	return &cp, nil
}

func (r *fakeRepo) CreateIfAbsent(_ context.Context, s *Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.creates++
	if r.row == nil {
		cp := *s
		r.row = &cp
	}
	return nil
}

func (r *fakeRepo) Upsert(_ context.Context, s *Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	r.row = &cp
	return nil
}

type fakePublisher struct {
	events []string
	err    error
}

func (p *fakePublisher) Publish(_ context.Context, event string, _ any) error {
	p.events = append(p.events, event)
	return p.err
}

func newTestService(repo Repository, pub *fakePublisher) Service {
	log, _ := logtest.NewNullLogger()
	return NewService(repo, pub, log)
}

func TestGetCreatesDefaultsOnFirstRead(t *testing.T) {
	t.Parallel()

	repo := &fakeRepo{}
	svc := newTestService(repo, &fakePublisher{})

	s, err := svc.Get(context.Background())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !s.DeliveryEnabled || s.CafeClosed {
		t.Fatalf("settings = %+v, want defaults", s)
	}
	if !s.DeliveryCharge.Equal(decimal.NewFromInt(30)) {
		t.Fatalf("delivery charge = %s, want 30", s.DeliveryCharge)
	}

	if _, err := svc.Get(context.Background()); err != nil {
		t.Fatalf("second get: %v", err)
	}
	if repo.creates != 1 {
		t.Fatalf("creates = %d, want 1", repo.creates)
	}
}

func TestUpdateMergesAndPublishes(t *testing.T) {
	t.Parallel()

	pub := &fakePublisher{}
	svc := newTestService(&fakeRepo{}, pub)

	closed := true
	note := "  Back at 6pm  "
	s, err := svc.Update(context.Background(), UpdateRequest{CafeClosed: &closed, Note: &note})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !s.CafeClosed || s.Note != "Back at 6pm" {
		t.Fatalf("settings = %+v", s)
	}
	if !s.DineInEnabled {
		t.Fatal("absent fields must keep their value")
	}
	if len(pub.events) != 1 || pub.events[0] != "settingsUpdated" {
		t.Fatalf("events = %v", pub.events)
	}

	got, _ := svc.Get(context.Background())
	if !got.CafeClosed {
		t.Fatal("update not visible to subsequent reads")
	}
}

func TestUpdateLastWriterWins(t *testing.T) {
	t.Parallel()

	svc := newTestService(&fakeRepo{}, &fakePublisher{})
	first := decimal.NewFromInt(40)
	second := decimal.NewFromInt(25)

	if _, err := svc.Update(context.Background(), UpdateRequest{DeliveryCharge: &first}); err != nil {
		t.Fatalf("first update: %v", err)
	}
	if _, err := svc.Update(context.Background(), UpdateRequest{DeliveryCharge: &second}); err != nil {
		t.Fatalf("second update: %v", err)
	}
	got, _ := svc.Get(context.Background())
	if !got.DeliveryCharge.Equal(second) {
		t.Fatalf("delivery charge = %s, want 25", got.DeliveryCharge)
	}
}

func TestUpdateRejectsInvalidAmounts(t *testing.T) {
	t.Parallel()

	negative := decimal.NewFromInt(-1)
	tooHigh := decimal.NewFromInt(101)
	finePct := decimal.RequireFromString("2.125")
	fineCharge := decimal.RequireFromString("30.005")
	tests := []struct {
		name string
		req  UpdateRequest
	}{
		{"negative delivery charge", UpdateRequest{DeliveryCharge: &negative}},
		{"negative cgst", UpdateRequest{CGSTPercent: &negative}},
		{"sgst above 100", UpdateRequest{SGSTPercent: &tooHigh}},
		{"cgst with three decimals", UpdateRequest{CGSTPercent: &finePct}},
		{"delivery charge with three decimals", UpdateRequest{DeliveryCharge: &fineCharge}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pub := &fakePublisher{}
			svc := newTestService(&fakeRepo{}, pub)
			_, err := svc.Update(context.Background(), tt.req)
			if !errors.Is(err, apperrors.ErrValidation) {
				t.Fatalf("err = %v, want validation error", err)
			}
			if len(pub.events) != 0 {
				t.Fatalf("events = %v, want none", pub.events)
			}
		})
	}
}

func TestUpdateSurvivesPublishFailure(t *testing.T) {
	t.Parallel()

	pub := &fakePublisher{err: errors.New("no subscribers")}
	svc := newTestService(&fakeRepo{}, pub)
	open := false
	if _, err := svc.Update(context.Background(), UpdateRequest{CafeClosed: &open}); err != nil {
		t.Fatalf("update: %v", err)
	}
}
