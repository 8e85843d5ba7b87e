package menu

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"

	apperrors "github.com/georgemunganga/restro-backend/internal/platform/errors"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	logtest "github.com/sirupsen/logrus/hooks/test"
)

type memRepo struct {
	mu    sync.Mutex
	items map[string]*Item
}

func newMemRepo() *memRepo { return &memRepo{items: map[string]*Item{}} }

func (r *memRepo) Create(_ context.Context, item *Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *item
	r.items[item.ID.String()] = &cp
	return nil
}

func (r *memRepo) GetByID(_ context.Context, id string) (*Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, apperrors.NotFound(fmt.Sprintf("menu item %s not found", id))
	}
	cp := *item
	return &cp, nil
}

func (r *memRepo) List(_ context.Context, filter ListFilter) ([]*Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Item
	for _, item := range r.items {
		if filter.Category != "" && item.Category != filter.Category {
			continue
		}
		if filter.AvailableOnly && !item.IsAvailable {
			continue
		}
		cp := *item
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memRepo) Update(_ context.Context, item *Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[item.ID.String()]; !ok {
		return apperrors.NotFound("menu item not found")
	}
	cp := *item
	r.items[item.ID.String()] = &cp
	return nil
}

func (r *memRepo) SetAvailability(_ context.Context, id string, available bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return apperrors.NotFound("menu item not found")
	}
	item.IsAvailable = available
	return nil
}

func (r *memRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return apperrors.NotFound("menu item not found")
	}
	delete(r.items, id)
	return nil
}

func (r *memRepo) Categories(_ context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := map[string]bool{}
	var out []string
	for _, item := range r.items {
		if !seen[item.Category] {
			seen[item.Category] = true
			out = append(out, item.Category)
		}
	}
	sort.Strings(out)
	return out, nil
}

type fakePublisher struct{ events []string }

func (p *fakePublisher) Publish(_ context.Context, event string, _ any) error {
	p.events = append(p.events, event)
	return nil
}

func newTestService() (Service, *fakePublisher) {
	log, _ := logtest.NewNullLogger()
	pub := &fakePublisher{}
	return NewService(newMemRepo(), pub, log), pub
}

func TestCreateItemDefaultsToAvailable(t *testing.T) {
	t.Parallel()

	svc, pub := newTestService()
	item, err := svc.CreateItem(context.Background(), ItemRequest{
		Name: " Masala Dosa ", Price: decimal.NewFromInt(120), Category: "South Indian",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !item.IsAvailable || item.Name != "Masala Dosa" {
		t.Fatalf("item = %+v", item)
	}
	if len(pub.events) != 1 || pub.events[0] != "menuUpdated" {
		t.Fatalf("events = %v", pub.events)
	}
}

func TestCreateItemValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		req  ItemRequest
	}{
		{"missing name", ItemRequest{Price: decimal.NewFromInt(10), Category: "Drinks"}},
		{"missing category", ItemRequest{Name: "Tea", Price: decimal.NewFromInt(10)}},
		{"negative price", ItemRequest{Name: "Tea", Price: decimal.NewFromInt(-1), Category: "Drinks"}},
		{"sub-cent price", ItemRequest{Name: "Tea", Price: decimal.RequireFromString("9.999"), Category: "Drinks"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, pub := newTestService()
			if _, err := svc.CreateItem(context.Background(), tt.req); !errors.Is(err, apperrors.ErrValidation) {
				t.Fatalf("err = %v, want validation error", err)
			}
			if len(pub.events) != 0 {
				t.Fatalf("events = %v, want none", pub.events)
			}
		})
	}
}

func TestSetAvailabilityKeepsPrice(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService()
	item, _ := svc.CreateItem(context.Background(), ItemRequest{
		Name: "Filter Coffee", Price: decimal.RequireFromString("45.50"), Category: "Drinks",
	})

	got, err := svc.SetAvailability(context.Background(), item.ID.String(), false)
	if err != nil {
		t.Fatalf("set availability: %v", err)
	}
	if got.IsAvailable {
		t.Fatal("item still available")
	}
	if !got.Price.Equal(decimal.RequireFromString("45.50")) {
		t.Fatalf("price = %s, want 45.50", got.Price)
	}

	available, _ := svc.ListItems(context.Background(), ListFilter{AvailableOnly: true})
	if len(available) != 0 {
		t.Fatalf("available items = %d, want 0", len(available))
	}
}

func TestDeleteUnknownItem(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService()
	err := svc.DeleteItem(context.Background(), "7c1f9a4e-0000-4000-8000-000000000000")
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestWriteRoutesRequireStaff(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService()
	deny := func(http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
		})
	}
	allow := func(next http.Handler) http.Handler { return next }
	router := chi.NewRouter()
	NewHandler(svc, deny, allow).RegisterRoutes(router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/menu/items",
		strings.NewReader(`{"name":"Tea","price":"10","category":"Drinks"}`)))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("POST status = %d, want 401", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/menu/items", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET status = %d, want 200", rec.Code)
	}
}

func TestWriteRoutesRequireAdmin(t *testing.T) {
	t.Parallel()

	svc, pub := newTestService()
	allow := func(next http.Handler) http.Handler { return next }
	forbid := func(http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		})
	}
	router := chi.NewRouter()
	NewHandler(svc, allow, forbid).RegisterRoutes(router)

	for _, req := range []*http.Request{
		httptest.NewRequest(http.MethodPost, "/api/v1/menu/items", strings.NewReader(`{"name":"Tea","price":"10","category":"Drinks"}`)),
		httptest.NewRequest(http.MethodPut, "/api/v1/menu/items/7c1f9a4e-0000-4000-8000-000000000000", strings.NewReader(`{}`)),
		httptest.NewRequest(http.MethodPatch, "/api/v1/menu/items/7c1f9a4e-0000-4000-8000-000000000000/availability", strings.NewReader(`{}`)),
		httptest.NewRequest(http.MethodDelete, "/api/v1/menu/items/7c1f9a4e-0000-4000-8000-000000000000", nil),
	} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("%s %s status = %d, want 403", req.Method, req.URL.Path, rec.Code)
		}
	}
	if len(pub.events) != 0 {
		t.Fatalf("events = %v, want none", pub.events)
	}
}

func TestMalformedBodyUsesErrorEnvelope(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService()
	allow := func(next http.Handler) http.Handler { return next }
	router := chi.NewRouter()
	NewHandler(svc, allow, allow).RegisterRoutes(router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/menu/items", strings.NewReader(`{"name":`)))
	var body apperrors.Body
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec.Code != http.StatusBadRequest || body.Code != apperrors.CodeValidation {
		t.Fatalf("status = %d code = %q, want 400 VALIDATION", rec.Code, body.Code)
	}
}
