package menu

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/georgemunganga/restro-backend/internal/platform/errors"
	"github.com/go-chi/chi/v5"
)

// Handler exposes menu HTTP endpoints.
type Handler struct {
	service      Service
	requireStaff func(http.Handler) http.Handler
	requireAdmin func(http.Handler) http.Handler
}

func NewHandler(service Service, requireStaff, requireAdmin func(http.Handler) http.Handler) *Handler {
	return &Handler{service: service, requireStaff: requireStaff, requireAdmin: requireAdmin}
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/menu", func(r chi.Router) {
		r.Get("/items", h.listItems)           // GET /api/v1/menu/items?category=&available=true
		r.Get("/items/{id}", h.getItem)        // GET /api/v1/menu/items/{id}
		r.Get("/categories", h.listCategories) // GET /api/v1/menu/categories

		r.Group(func(r chi.Router) {
			r.Use(h.requireStaff, h.requireAdmin)
			r.Post("/items", h.createItem)                         // POST   /api/v1/menu/items
			r.Put("/items/{id}", h.updateItem)                     // PUT    /api/v1/menu/items/{id}
			r.Patch("/items/{id}/availability", h.setAvailability) // PATCH  /api/v1/menu/items/{id}/availability
			r.Delete("/items/{id}", h.deleteItem)                  // DELETE /api/v1/menu/items/{id}
		})
	})
}

func (h *Handler) listItems(w http.ResponseWriter, r *http.Request) {
	filter := ListFilter{
		Category:      r.URL.Query().Get("category"),
		AvailableOnly: r.URL.Query().Get("available") == "true",
	}
	items, err := h.service.ListItems(r.Context(), filter)
	if err != nil {
		respondError(w, err)
		return
	}
	if items == nil {
		items = []*Item{}
	}
	respond(w, http.StatusOK, items)
}

func (h *Handler) getItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.service.GetItem(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, item)
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListCategories(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	if categories == nil {
		categories = []string{}
	}
	respond(w, http.StatusOK, categories)
}

func (h *Handler) createItem(w http.ResponseWriter, r *http.Request) {
	var req ItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, apperrors.Validation("invalid request body: "+err.Error()))
		return
	}
	item, err := h.service.CreateItem(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, item)
}

func (h *Handler) updateItem(w http.ResponseWriter, r *http.Request) {
	var req ItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, apperrors.Validation("invalid request body: "+err.Error()))
		return
	}
	item, err := h.service.UpdateItem(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, item)
}

func (h *Handler) setAvailability(w http.ResponseWriter, r *http.Request) {
	var req AvailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, apperrors.Validation("invalid request body: "+err.Error()))
		return
	}
	item, err := h.service.SetAvailability(r.Context(), chi.URLParam(r, "id"), req.IsAvailable)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, item)
}

func (h *Handler) deleteItem(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteItem(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, err error) {
	respond(w, apperrors.HTTPStatus(err), apperrors.BodyOf(err))
}
