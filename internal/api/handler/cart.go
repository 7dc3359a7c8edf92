package handler

import (
	"encoding/json"
	"net/http"

	"github.com/amniuelmohamed/freshconcept/internal/api/requestctx"
	"github.com/amniuelmohamed/freshconcept/internal/service"
	"github.com/amniuelmohamed/freshconcept/internal/support/i18n"
)

// CartHandler manages the authenticated client's persistent cart.
type CartHandler struct {
	carts service.CartService
	i18n  *i18n.Manager
}

func NewCartHandler(carts service.CartService, i18n *i18n.Manager) *CartHandler {
	return &CartHandler{carts: carts, i18n: i18n}
}

type cartPutRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity := requestctx.IdentityFromContext(r.Context())
	cart, err := h.carts.Get(r.Context(), identity.AccountID)
	if err != nil {
		respondServiceError(r.Context(), w, err, h.i18n)
		return
	}
	respondData(w, http.StatusOK, cart)
}

// Put sets the quantity of one cart line; zero removes the line.
func (h *CartHandler) Put(w http.ResponseWriter, r *http.Request) {
	identity := requestctx.IdentityFromContext(r.Context())
	var payload cartPutRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.ProductID <= 0 || payload.Quantity < 0 {
		respondBadPayload(r.Context(), w, h.i18n)
		return
	}
	if err := h.carts.Put(r.Context(), identity.AccountID, payload.ProductID, payload.Quantity); err != nil {
		respondServiceError(r.Context(), w, err, h.i18n)
		return
	}
	cart, err := h.carts.Get(r.Context(), identity.AccountID)
	if err != nil {
		respondServiceError(r.Context(), w, err, h.i18n)
		return
	}
	respondData(w, http.StatusOK, cart)
}

func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	identity := requestctx.IdentityFromContext(r.Context())
	productID, ok := pathID(r, "productID")
	if !ok {
		respondBadPayload(r.Context(), w, h.i18n)
		return
	}
	if err := h.carts.Remove(r.Context(), identity.AccountID, productID); err != nil {
		respondServiceError(r.Context(), w, err, h.i18n)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	identity := requestctx.IdentityFromContext(r.Context())
	if err := h.carts.Clear(r.Context(), identity.AccountID); err != nil {
		respondServiceError(r.Context(), w, err, h.i18n)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
