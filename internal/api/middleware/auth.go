package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/amniuelmohamed/freshconcept/internal/api/requestctx"
	"github.com/amniuelmohamed/freshconcept/internal/auth/token"
	"github.com/amniuelmohamed/freshconcept/internal/repository"
	"github.com/amniuelmohamed/freshconcept/internal/service"
)

// ClientGuard authenticates requests from client accounts. The JWT subject is
// the account id; the identity resolver re-checks the account on every
// request so a disabled account loses access within the cache TTL.
func ClientGuard(tokens *token.Manager, identities service.IdentityService) func(http.Handler) http.Handler {
	return kindGuard(tokens, identities, repository.AccountKindClient, "")
}

// EmployeeGuard authenticates employee accounts and, when permission is
// non-empty, requires the role to carry it.
func EmployeeGuard(tokens *token.Manager, identities service.IdentityService, permission string) func(http.Handler) http.Handler {
	return kindGuard(tokens, identities, repository.AccountKindEmployee, permission)
}

func kindGuard(tokens *token.Manager, identities service.IdentityService, kind, permission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if tokens == nil || identities == nil {
				writeGuardError(w, http.StatusUnauthorized, "auth unavailable")
				return
			}
			raw := extractBearer(r.Header.Get("Authorization"))
			if raw == "" {
				writeGuardError(w, http.StatusUnauthorized, "missing authorization header")
				return
			}
			claims, err := tokens.Parse(raw)
			if err != nil {
				writeGuardError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}
			accountID, err := strconv.ParseInt(claims.Subject, 10, 64)
			if err != nil {
				writeGuardError(w, http.StatusUnauthorized, "invalid token subject")
				return
			}
			identity, err := identities.Resolve(r.Context(), accountID)
			if err != nil {
				switch {
				case errors.Is(err, service.ErrAccountDisabled):
					writeGuardError(w, http.StatusForbidden, "account disabled")
				case errors.Is(err, service.ErrUnauthorized):
					writeGuardError(w, http.StatusUnauthorized, "unknown account")
				default:
					writeGuardError(w, http.StatusInternalServerError, "identity resolution failed")
				}
				return
			}
			if identity.Kind != kind {
				writeGuardError(w, http.StatusForbidden, "wrong account kind")
				return
			}
			if permission != "" && !identity.Can(permission) {
				writeGuardError(w, http.StatusForbidden, "permission required")
				return
			}
			next.ServeHTTP(w, r.WithContext(requestctx.WithIdentity(r.Context(), identity)))
		})
	}
}

func extractBearer(header string) string {
	trimmed := strings.TrimSpace(header)
	if trimmed == "" {
		return ""
	}
	parts := strings.SplitN(trimmed, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return trimmed
}

func writeGuardError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
