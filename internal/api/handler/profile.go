package handler

import (
	"net/http"

	"github.com/amniuelmohamed/freshconcept/internal/api/requestctx"
)

// ProfileHandler returns the authenticated identity as resolved by the guard.
type ProfileHandler struct{}

func NewProfileHandler() *ProfileHandler {
	return &ProfileHandler{}
}

func (h *ProfileHandler) Me(w http.ResponseWriter, r *http.Request) {
	respondData(w, http.StatusOK, requestctx.IdentityFromContext(r.Context()))
}
