// Package requestctx carries per-request values set by middleware.
package requestctx

import (
	"context"

	"github.com/amniuelmohamed/freshconcept/internal/service"
)

type contextKey string

const identityContextKey contextKey = "freshconcept-identity"

// I18nKey stores the resolved locale tag in the request context.
type I18nKey struct{}

// WithLanguage attaches the resolved locale tag for downstream handlers.
func WithLanguage(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, I18nKey{}, lang)
}

// GetLanguage returns the resolved locale tag, defaulting to en-US.
func GetLanguage(ctx context.Context) string {
	if ctx == nil {
		return "en-US"
	}
	if lang, ok := ctx.Value(I18nKey{}).(string); ok && lang != "" {
		return lang
	}
	return "en-US"
}

// WithIdentity attaches the authenticated identity resolved by a guard.
func WithIdentity(ctx context.Context, identity *service.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}

// IdentityFromContext returns the authenticated identity, or nil when the
// request did not pass through a guard.
func IdentityFromContext(ctx context.Context) *service.Identity {
	if ctx == nil {
		return nil
	}
	identity, _ := ctx.Value(identityContextKey).(*service.Identity)
	return identity
}
