package order

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "github.com/georgemunganga/restro-backend/internal/platform/errors"
	"github.com/go-chi/chi/v5"
)

// Handler exposes order HTTP endpoints.
type Handler struct {
	service      Service
	requireStaff func(http.Handler) http.Handler
}

func NewHandler(service Service, requireStaff func(http.Handler) http.Handler) *Handler {
	return &Handler{service: service, requireStaff: requireStaff}
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/orders", func(r chi.Router) {
		r.Post("/", h.placeOrder)                         // POST /api/v1/orders
		r.Get("/{id}", h.getOrder)                        // GET  /api/v1/orders/{id}
		r.Get("/customer/{mobile}", h.listCustomerOrders) // GET  /api/v1/orders/customer/{mobile}
		r.Post("/{id}/feedback", h.submitFeedback)        // POST /api/v1/orders/{id}/feedback

		r.Group(func(r chi.Router) {
			r.Use(h.requireStaff)
			r.Get("/", h.listOrders)                 // GET  /api/v1/orders?status=Pending,Ready&from=2024-01-01&to=2024-01-31
			r.Post("/{id}/advance", h.advanceStatus) // POST /api/v1/orders/{id}/advance
			r.Post("/{id}/cancel", h.cancelOrder)    // POST /api/v1/orders/{id}/cancel
		})
	})
}

func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	var req PlaceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, apperrors.Validation("invalid request body: "+err.Error()))
		return
	}
	o, err := h.service.PlaceOrder(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, o)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.service.GetOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, o)
}

func (h *Handler) listCustomerOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ListCustomerOrders(r.Context(), chi.URLParam(r, "mobile"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondList(w, orders)
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, to, err := ParseDateRange(q)
	if err != nil {
		respondError(w, err)
		return
	}
	filter := Filter{Mobile: q.Get("mobile"), From: from, To: to}
	if raw := q.Get("status"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			filter.Statuses = append(filter.Statuses, Status(strings.TrimSpace(s)))
		}
	}

	orders, err := h.service.ListOrders(r.Context(), filter)
	if err != nil {
		respondError(w, err)
		return
	}
	respondList(w, orders)
}

func (h *Handler) advanceStatus(w http.ResponseWriter, r *http.Request) {
	var req AdvanceRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, apperrors.Validation("invalid request body: "+err.Error()))
			return
		}
	}
	o, err := h.service.AdvanceStatus(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, o)
}

func (h *Handler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	var req CancelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, apperrors.Validation("invalid request body: "+err.Error()))
		return
	}
	o, err := h.service.CancelOrder(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, o)
}

func (h *Handler) submitFeedback(w http.ResponseWriter, r *http.Request) {
	var req FeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, apperrors.Validation("invalid request body: "+err.Error()))
		return
	}
	o, err := h.service.SubmitFeedback(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, o)
}

const dateLayout = "2006-01-02"

// ParseDateRange reads the from/to query parameters (YYYY-MM-DD, UTC). The
// returned To is exclusive: it is the day after the requested end date.
func ParseDateRange(q url.Values) (from, to time.Time, err error) {
	if raw := q.Get("from"); raw != "" {
		if from, err = time.Parse(dateLayout, raw); err != nil {
			return time.Time{}, time.Time{}, apperrors.Validation(fmt.Sprintf("from must be YYYY-MM-DD, got %q", raw))
		}
	}
	if raw := q.Get("to"); raw != "" {
		if to, err = time.Parse(dateLayout, raw); err != nil {
			return time.Time{}, time.Time{}, apperrors.Validation(fmt.Sprintf("to must be YYYY-MM-DD, got %q", raw))
		}
		to = to.AddDate(0, 0, 1)
	}
	if !from.IsZero() && !to.IsZero() && !from.Before(to) {
		return time.Time{}, time.Time{}, apperrors.Validation("from must not be after to")
	}
	return from, to, nil
}

func respondList(w http.ResponseWriter, orders []*Order) {
	if orders == nil {
		orders = []*Order{}
	}
	respond(w, http.StatusOK, orders)
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, err error) {
	respond(w, apperrors.HTTPStatus(err), apperrors.BodyOf(err))
}
