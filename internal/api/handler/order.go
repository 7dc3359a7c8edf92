package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/amniuelmohamed/freshconcept/internal/api/requestctx"
	"github.com/amniuelmohamed/freshconcept/internal/repository"
	"github.com/amniuelmohamed/freshconcept/internal/service"
	"github.com/amniuelmohamed/freshconcept/internal/support/i18n"
)

// OrderHandler serves the client ordering flow: delivery preview, checkout,
// history, and cancellation.
type OrderHandler struct {
	orders service.OrderService
	i18n   *i18n.Manager
}

func NewOrderHandler(orders service.OrderService, i18n *i18n.Manager) *OrderHandler {
	return &OrderHandler{orders: orders, i18n: i18n}
}

type checkoutRequest struct {
	Note string `json:"note"`
}

// NextDelivery previews the delivery date and cutoff the next checkout would
// get, so the storefront can show "order before Tue 14:00 for Wednesday".
func (h *OrderHandler) NextDelivery(w http.ResponseWriter, r *http.Request) {
	identity := requestctx.IdentityFromContext(r.Context())
	preview, err := h.orders.NextDelivery(r.Context(), identity)
	if err != nil {
		respondServiceError(r.Context(), w, err, h.i18n)
		return
	}
	respondData(w, http.StatusOK, preview)
}

func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	identity := requestctx.IdentityFromContext(r.Context())
	var payload checkoutRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			respondBadPayload(r.Context(), w, h.i18n)
			return
		}
	}
	order, err := h.orders.Checkout(r.Context(), identity, strings.TrimSpace(payload.Note))
	if err != nil {
		respondServiceError(r.Context(), w, err, h.i18n)
		return
	}
	respondData(w, http.StatusCreated, order)
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	identity := requestctx.IdentityFromContext(r.Context())
	filter, ok := orderFilterFromQuery(r)
	if !ok {
		respondBadPayload(r.Context(), w, h.i18n)
		return
	}
	page, err := h.orders.List(r.Context(), identity.AccountID, filter)
	if err != nil {
		respondServiceError(r.Context(), w, err, h.i18n)
		return
	}
	respondData(w, http.StatusOK, page)
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity := requestctx.IdentityFromContext(r.Context())
	orderID, ok := pathID(r, "id")
	if !ok {
		respondErrorKey(r.Context(), w, http.StatusNotFound, "order.not_found", h.i18n)
		return
	}
	order, err := h.orders.Get(r.Context(), identity.AccountID, orderID)
	if err != nil {
		respondServiceError(r.Context(), w, err, h.i18n)
		return
	}
	respondData(w, http.StatusOK, order)
}

func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	identity := requestctx.IdentityFromContext(r.Context())
	orderID, ok := pathID(r, "id")
	if !ok {
		respondErrorKey(r.Context(), w, http.StatusNotFound, "order.not_found", h.i18n)
		return
	}
	if err := h.orders.Cancel(r.Context(), identity, orderID); err != nil {
		respondServiceError(r.Context(), w, err, h.i18n)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// orderFilterFromQuery parses shared listing filters. The account scope is
// applied by the caller, never from the query.
func orderFilterFromQuery(r *http.Request) (repository.OrderFilter, bool) {
	filter := repository.OrderFilter{
		DeliveryFrom: strings.TrimSpace(r.URL.Query().Get("delivery_from")),
		DeliveryTo:   strings.TrimSpace(r.URL.Query().Get("delivery_to")),
		Limit:        queryInt(r, "limit", 0),
		Offset:       queryInt(r, "offset", 0),
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
		status := repository.OrderStatus(raw)
		if !status.Valid() {
			return repository.OrderFilter{}, false
		}
		filter.Status = &status
	}
	return filter, true
}
