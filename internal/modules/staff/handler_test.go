package staff

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "github.com/georgemunganga/restro-backend/internal/platform/errors"
	"github.com/go-chi/chi/v5"
)

func allow(next http.Handler) http.Handler { return next }

func forbid(http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
}

func TestRegisterRouteRequiresAdmin(t *testing.T) {
	t.Parallel()
	repo := newMemRepo()
	r := chi.NewRouter()
	NewHandler(newTestService(repo), allow, forbid).RegisterRoutes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/staff",
		strings.NewReader(`{"email":"new@example.com","password":"long-enough","name":"New","role":"admin"}`)))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	if len(repo.byEmail) != 0 {
		t.Fatalf("stored %d accounts, want none", len(repo.byEmail))
	}

	// reading a profile only needs a staff token
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/staff/unknown", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get status = %d, want 404", rec.Code)
	}
}

func TestRegisterRouteAsAdmin(t *testing.T) {
	t.Parallel()
	r := chi.NewRouter()
	NewHandler(newTestService(newMemRepo()), allow, allow).RegisterRoutes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/staff",
		strings.NewReader(`{"email":"cook@example.com","password":"long-enough","name":"Cook"}`)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/staff", strings.NewReader(`not json`)))
	var body apperrors.Body
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec.Code != http.StatusBadRequest || body.Code != apperrors.CodeValidation {
		t.Fatalf("malformed body status = %d code = %q", rec.Code, body.Code)
	}
}
