package middleware

import (
	"net/http"

	"github.com/amniuelmohamed/freshconcept/internal/api/requestctx"
	"github.com/amniuelmohamed/freshconcept/internal/support/i18n"
)

// I18n resolves the request locale and stores it in the context. The query
// parameter wins over the X-Locale header, which wins over Accept-Language
// matching against the loaded catalogs.
func I18n(manager *i18n.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lang := r.URL.Query().Get("lang")
			if lang == "" {
				lang = r.Header.Get("X-Locale")
			}
			if lang == "" && manager != nil {
				lang = manager.Match(r.Header.Get("Accept-Language"))
			}
			if lang == "" {
				lang = "en-US"
			}
			next.ServeHTTP(w, r.WithContext(requestctx.WithLanguage(r.Context(), lang)))
		})
	}
}
