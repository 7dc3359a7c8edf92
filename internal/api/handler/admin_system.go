package handler

import (
	"net/http"

	"github.com/amniuelmohamed/freshconcept/internal/service"
	"github.com/amniuelmohamed/freshconcept/internal/support/i18n"
)

// AdminSystemHandler reports process and host health for the back office.
type AdminSystemHandler struct {
	system service.SystemService
	i18n   *i18n.Manager
}

func NewAdminSystemHandler(system service.SystemService, i18n *i18n.Manager) *AdminSystemHandler {
	return &AdminSystemHandler{system: system, i18n: i18n}
}

func (h *AdminSystemHandler) Status(w http.ResponseWriter, r *http.Request) {
	status, err := h.system.Status(r.Context())
	if err != nil {
		respondServiceError(r.Context(), w, err, h.i18n)
		return
	}
	respondData(w, http.StatusOK, status)
}
