package report

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/georgemunganga/restro-backend/internal/modules/order"
	apperrors "github.com/georgemunganga/restro-backend/internal/platform/errors"
	"github.com/go-chi/chi/v5"
)

// Handler exposes the staff reporting endpoints.
type Handler struct {
	service      Service
	requireStaff func(http.Handler) http.Handler
}

func NewHandler(service Service, requireStaff func(http.Handler) http.Handler) *Handler {
	return &Handler{service: service, requireStaff: requireStaff}
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/reports", func(r chi.Router) {
		r.Use(h.requireStaff)
		r.Get("/orders", h.orders)     // GET /api/v1/reports/orders?from=2024-01-01&to=2024-01-31&status=Cancelled
		r.Get("/earnings", h.earnings) // GET /api/v1/reports/earnings?from=&to=
		r.Get("/feedback", h.feedback) // GET /api/v1/reports/feedback?from=&to=
	})
}

func (h *Handler) orders(w http.ResponseWriter, r *http.Request) {
	rng, ok := parseRange(w, r)
	if !ok {
		return
	}
	var statuses []order.Status
	if raw := r.URL.Query().Get("status"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			statuses = append(statuses, order.Status(strings.TrimSpace(s)))
		}
	}
	rep, err := h.service.Orders(r.Context(), rng, statuses)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, rep)
}

func (h *Handler) earnings(w http.ResponseWriter, r *http.Request) {
	rng, ok := parseRange(w, r)
	if !ok {
		return
	}
	rep, err := h.service.Earnings(r.Context(), rng)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, rep)
}

func (h *Handler) feedback(w http.ResponseWriter, r *http.Request) {
	rng, ok := parseRange(w, r)
	if !ok {
		return
	}
	rep, err := h.service.Feedback(r.Context(), rng)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, rep)
}

func parseRange(w http.ResponseWriter, r *http.Request) (Range, bool) {
	from, to, err := order.ParseDateRange(r.URL.Query())
	if err != nil {
		respondError(w, err)
		return Range{}, false
	}
	return Range{From: from, To: to}, true
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, err error) {
	respond(w, apperrors.HTTPStatus(err), apperrors.BodyOf(err))
}
