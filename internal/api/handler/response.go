// Package handler implements the HTTP endpoints mounted by the router.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/amniuelmohamed/freshconcept/internal/api/requestctx"
	"github.com/amniuelmohamed/freshconcept/internal/service"
	"github.com/amniuelmohamed/freshconcept/internal/support/i18n"
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Warn("failed to encode response JSON", "error", err)
	}
}

func respondData(w http.ResponseWriter, status int, data any) {
	respondJSON(w, status, map[string]any{"data": data})
}

// respondErrorKey sends a translated error message for a message catalog key.
func respondErrorKey(ctx context.Context, w http.ResponseWriter, status int, key string, i18nMgr *i18n.Manager, args ...any) {
	msg := key
	if i18nMgr != nil {
		msg = i18nMgr.Translate(requestctx.GetLanguage(ctx), key, args...)
	}
	respondJSON(w, status, map[string]any{"error": msg})
}

func respondBadPayload(ctx context.Context, w http.ResponseWriter, i18nMgr *i18n.Manager) {
	respondErrorKey(ctx, w, http.StatusBadRequest, "request.invalid_payload", i18nMgr)
}

// respondServiceError maps service sentinels onto HTTP statuses and catalog
// keys. Unknown errors become an opaque 500.
func respondServiceError(ctx context.Context, w http.ResponseWriter, err error, i18nMgr *i18n.Manager) {
	status, key := classifyServiceError(err)
	if status == http.StatusInternalServerError {
		slog.ErrorContext(ctx, "request handler error", "error", err)
		respondJSON(w, status, map[string]any{"error": "internal server error"})
		return
	}
	respondErrorKey(ctx, w, status, key, i18nMgr)
}

func classifyServiceError(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, "request.not_found"
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, "auth.invalid_credentials"
	case errors.Is(err, service.ErrInvalidRefreshToken):
		return http.StatusUnauthorized, "auth.invalid_refresh_token"
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized, "auth.unauthorized"
	case errors.Is(err, service.ErrAccountDisabled):
		return http.StatusForbidden, "auth.account_disabled"
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, "auth.forbidden"
	case errors.Is(err, service.ErrRateLimited):
		return http.StatusTooManyRequests, "auth.too_many_attempts"
	case errors.Is(err, service.ErrEmailExists):
		return http.StatusConflict, "account.email_taken"
	case errors.Is(err, service.ErrEmptyCart):
		return http.StatusUnprocessableEntity, "cart.empty"
	case errors.Is(err, service.ErrProductUnavailable):
		return http.StatusUnprocessableEntity, "cart.product_unavailable"
	case errors.Is(err, service.ErrSchedulingUnavailable):
		return http.StatusConflict, "order.scheduling_unavailable"
	case errors.Is(err, service.ErrOrderLocked):
		return http.StatusConflict, "order.cancel_window_closed"
	case errors.Is(err, service.ErrInvalidTransition):
		return http.StatusUnprocessableEntity, "order.invalid_transition"
	case errors.Is(err, service.ErrInvalidCutoffPolicy):
		return http.StatusUnprocessableEntity, "settings.invalid_cutoff_time"
	case errors.Is(err, service.ErrInvalidDeliveryDay):
		return http.StatusUnprocessableEntity, "role.invalid_delivery_day"
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest, "request.invalid_payload"
	}
	return http.StatusInternalServerError, ""
}
