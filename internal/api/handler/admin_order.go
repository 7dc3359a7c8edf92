package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/amniuelmohamed/freshconcept/internal/repository"
	"github.com/amniuelmohamed/freshconcept/internal/service"
	"github.com/amniuelmohamed/freshconcept/internal/support/i18n"
)

// AdminOrderHandler serves the back-office order management endpoints.
type AdminOrderHandler struct {
	orders service.AdminOrderService
	i18n   *i18n.Manager
}

func NewAdminOrderHandler(orders service.AdminOrderService, i18n *i18n.Manager) *AdminOrderHandler {
	return &AdminOrderHandler{orders: orders, i18n: i18n}
}

type orderStatusRequest struct {
	Status string `json:"status"`
}

func (h *AdminOrderHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, ok := orderFilterFromQuery(r)
	if !ok {
		respondBadPayload(r.Context(), w, h.i18n)
		return
	}
	if raw := r.URL.Query().Get("account_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondBadPayload(r.Context(), w, h.i18n)
			return
		}
		filter.AccountID = &id
	}

	page, err := h.orders.List(r.Context(), filter)
	if err != nil {
		respondServiceError(r.Context(), w, err, h.i18n)
		return
	}
	respondData(w, http.StatusOK, page)
}

func (h *AdminOrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathID(r, "id")
	if !ok {
		respondErrorKey(r.Context(), w, http.StatusNotFound, "order.not_found", h.i18n)
		return
	}
	order, err := h.orders.Get(r.Context(), orderID)
	if err != nil {
		respondServiceError(r.Context(), w, err, h.i18n)
		return
	}
	respondData(w, http.StatusOK, order)
}

// UpdateStatus advances one order through the fulfillment lifecycle. Illegal
// jumps and lost conditional writes both come back as invalid transitions.
func (h *AdminOrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathID(r, "id")
	if !ok {
		respondErrorKey(r.Context(), w, http.StatusNotFound, "order.not_found", h.i18n)
		return
	}
	var payload orderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondBadPayload(r.Context(), w, h.i18n)
		return
	}
	order, err := h.orders.UpdateStatus(r.Context(), orderID, repository.OrderStatus(strings.TrimSpace(payload.Status)))
	if err != nil {
		respondServiceError(r.Context(), w, err, h.i18n)
		return
	}
	respondData(w, http.StatusOK, order)
}

func (h *AdminOrderHandler) StatusCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := h.orders.StatusCounts(r.Context())
	if err != nil {
		respondServiceError(r.Context(), w, err, h.i18n)
		return
	}
	respondData(w, http.StatusOK, counts)
}
