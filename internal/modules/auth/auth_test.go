package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/georgemunganga/restro-backend/internal/modules/staff"
	apperrors "github.com/georgemunganga/restro-backend/internal/platform/errors"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type stubStore map[string]*staff.Staff

func (s stubStore) GetByEmail(_ context.Context, email string) (*staff.Staff, error) {
	if m, ok := s[email]; ok {
		return m, nil
	}
	return nil, apperrors.NotFound("staff account not found")
}

func newStore(t *testing.T) stubStore {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("open-sesame"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return stubStore{
		"manager@example.com": {
			ID: uuid.New(), Email: "manager@example.com", PasswordHash: string(hash), Role: staff.RoleAdmin,
		},
		"waiter@example.com": {
			ID: uuid.New(), Email: "waiter@example.com", PasswordHash: string(hash), Role: staff.RoleStaff,
		},
	}
}

func TestLoginAndVerify(t *testing.T) {
	t.Parallel()
	store := newStore(t)
	svc := NewService(store, "test-secret", time.Hour)

	token, err := svc.Login(context.Background(), " Manager@Example.com", "open-sesame")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	claims, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	want := store["manager@example.com"]
	if claims.StaffID != want.ID || claims.Role != staff.RoleAdmin || claims.Subject != want.ID.String() {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	t.Parallel()
	svc := NewService(newStore(t), "test-secret", time.Hour)

	for _, c := range []struct{ email, password string }{
		{"manager@example.com", "wrong"},
		{"nobody@example.com", "open-sesame"},
	} {
		if _, err := svc.Login(context.Background(), c.email, c.password); !errors.Is(err, apperrors.ErrUnauthorized) {
			t.Fatalf("%s: err = %v, want unauthorized", c.email, err)
		}
	}
}

func TestVerifyRejectsForeignAndExpiredTokens(t *testing.T) {
	t.Parallel()
	store := newStore(t)
	issuerSvc := NewService(store, "secret-a", time.Minute)
	token, err := issuerSvc.Login(context.Background(), "manager@example.com", "open-sesame")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if _, err := NewService(store, "secret-b", time.Minute).Verify(token); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Fatalf("foreign secret err = %v", err)
	}

	later := NewService(store, "secret-a", time.Minute)
	later.(*service).now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := later.Verify(token); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Fatalf("expired token err = %v", err)
	}
}

func TestRequireStaffMiddleware(t *testing.T) {
	t.Parallel()
	svc := NewService(newStore(t), "test-secret", time.Hour)
	token, err := svc.Login(context.Background(), "manager@example.com", "open-sesame")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	var seen *Claims
	protected := RequireStaff(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = ClaimsFrom(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	for _, header := range []string{"", "Token abc", "Bearer not.a.jwt"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("header %q status = %d, want 401", header, rec.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent || seen == nil || seen.Role != staff.RoleAdmin {
		t.Fatalf("status = %d claims = %+v", rec.Code, seen)
	}
}

func TestRequireAdminMiddleware(t *testing.T) {
	t.Parallel()
	svc := NewService(newStore(t), "test-secret", time.Hour)

	r := chi.NewRouter()
	r.With(RequireStaff(svc), RequireAdmin).Post("/admin-only", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	call := func(email string) *httptest.ResponseRecorder {
		t.Helper()
		token, err := svc.Login(context.Background(), email, "open-sesame")
		if err != nil {
			t.Fatalf("login %s: %v", email, err)
		}
		req := httptest.NewRequest(http.MethodPost, "/admin-only", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	rec := call("waiter@example.com")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("staff token status = %d, want 403", rec.Code)
	}
	var body apperrors.Body
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Code != apperrors.CodeForbidden {
		t.Fatalf("code = %q, want %q", body.Code, apperrors.CodeForbidden)
	}

	if rec := call("manager@example.com"); rec.Code != http.StatusCreated {
		t.Fatalf("admin token status = %d, want 201", rec.Code)
	}

	// without RequireStaff in front there are no claims to check
	bare := httptest.NewRecorder()
	RequireAdmin(http.NotFoundHandler()).ServeHTTP(bare, httptest.NewRequest(http.MethodGet, "/", nil))
	if bare.Code != http.StatusUnauthorized {
		t.Fatalf("no claims status = %d, want 401", bare.Code)
	}
}

func TestLoginHandler(t *testing.T) {
	t.Parallel()
	r := chi.NewRouter()
	NewHandler(NewService(newStore(t), "test-secret", time.Hour)).RegisterRoutes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"email":"manager@example.com","password":"open-sesame"}`)))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"token"`) {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"email":"manager@example.com","password":"nope"}`)))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad password status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":`)))
	var body apperrors.Body
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec.Code != http.StatusBadRequest || body.Code != apperrors.CodeValidation {
		t.Fatalf("malformed body status = %d code = %q", rec.Code, body.Code)
	}
}
