package staff

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/georgemunganga/restro-backend/internal/platform/errors"
	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service      Service
	requireStaff func(http.Handler) http.Handler
	requireAdmin func(http.Handler) http.Handler
}

func NewHandler(service Service, requireStaff, requireAdmin func(http.Handler) http.Handler) *Handler {
	return &Handler{service: service, requireStaff: requireStaff, requireAdmin: requireAdmin}
}

func (h *Handler) RegisterRoutes(router *chi.Mux) {
	router.Route("/api/v1/staff", func(r chi.Router) {
		r.Use(h.requireStaff)
		r.With(h.requireAdmin).Post("/", h.registerStaff) // POST /api/v1/staff
		r.Get("/{id}", h.getStaff)                        // GET  /api/v1/staff/{id}
	})
}

func (h *Handler) registerStaff(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, apperrors.Validation("invalid request body: "+err.Error()))
		return
	}

	member, err := h.service.Register(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, member)
}

func (h *Handler) getStaff(w http.ResponseWriter, r *http.Request) {
	member, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, member)
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, err error) {
	respond(w, apperrors.HTTPStatus(err), apperrors.BodyOf(err))
}
