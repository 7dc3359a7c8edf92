package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/amniuelmohamed/freshconcept/internal/schedule"
	"github.com/amniuelmohamed/freshconcept/internal/service"
	"github.com/amniuelmohamed/freshconcept/internal/support/i18n"
)

// AdminSettingsHandler serves the organization settings, including the order
// cutoff policy.
type AdminSettingsHandler struct {
	settings service.SettingsService
	i18n     *i18n.Manager
}

func NewAdminSettingsHandler(settings service.SettingsService, i18n *i18n.Manager) *AdminSettingsHandler {
	return &AdminSettingsHandler{settings: settings, i18n: i18n}
}

type cutoffPolicyPayload struct {
	CutoffTime string `json:"cutoff_time"`
	DayOffset  int    `json:"day_offset"`
}

type settingUpdateRequest struct {
	Key      string `json:"key"`
	Value    string `json:"value"`
	Category string `json:"category"`
}

func (h *AdminSettingsHandler) List(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.List(r.Context())
	if err != nil {
		respondServiceError(r.Context(), w, err, h.i18n)
		return
	}
	respondData(w, http.StatusOK, settings)
}

// Update writes one plain setting row. Ordering policy keys are rejected
// here; they only change through the validated cutoff endpoint.
func (h *AdminSettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var payload settingUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || strings.TrimSpace(payload.Key) == "" {
		respondBadPayload(r.Context(), w, h.i18n)
		return
	}
	if err := h.settings.Update(r.Context(), strings.TrimSpace(payload.Key), payload.Value, strings.TrimSpace(payload.Category)); err != nil {
		respondServiceError(r.Context(), w, err, h.i18n)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *AdminSettingsHandler) CutoffPolicy(w http.ResponseWriter, r *http.Request) {
	policy, err := h.settings.CutoffPolicy(r.Context())
	if err != nil {
		respondServiceError(r.Context(), w, err, h.i18n)
		return
	}
	respondData(w, http.StatusOK, cutoffPolicyPayload{
		CutoffTime: policy.CutoffTime,
		DayOffset:  policy.DayOffset,
	})
}

func (h *AdminSettingsHandler) UpdateCutoffPolicy(w http.ResponseWriter, r *http.Request) {
	var payload cutoffPolicyPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondBadPayload(r.Context(), w, h.i18n)
		return
	}
	policy := schedule.CutoffPolicy{
		CutoffTime: strings.TrimSpace(payload.CutoffTime),
		DayOffset:  payload.DayOffset,
	}
	if err := h.settings.UpdateCutoffPolicy(r.Context(), policy); err != nil {
		respondServiceError(r.Context(), w, err, h.i18n)
		return
	}
	respondData(w, http.StatusOK, payload)
}
