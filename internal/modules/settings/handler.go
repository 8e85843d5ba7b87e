package settings

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/georgemunganga/restro-backend/internal/platform/errors"
	"github.com/go-chi/chi/v5"
)

// Handler exposes settings HTTP endpoints.
type Handler struct {
	service      Service
	requireStaff func(http.Handler) http.Handler
	requireAdmin func(http.Handler) http.Handler
}

func NewHandler(service Service, requireStaff, requireAdmin func(http.Handler) http.Handler) *Handler {
	return &Handler{service: service, requireStaff: requireStaff, requireAdmin: requireAdmin}
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/settings", func(r chi.Router) {
		r.Get("/", h.getSettings)                                         // GET /api/v1/settings
		r.With(h.requireStaff, h.requireAdmin).Put("/", h.updateSettings) // PUT /api/v1/settings
	})
}

func (h *Handler) getSettings(w http.ResponseWriter, r *http.Request) {
	s, err := h.service.Get(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, s)
}

func (h *Handler) updateSettings(w http.ResponseWriter, r *http.Request) {
	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, apperrors.Validation("invalid request body: "+err.Error()))
		return
	}
	s, err := h.service.Update(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, s)
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, err error) {
	respond(w, apperrors.HTTPStatus(err), apperrors.BodyOf(err))
}
