package i18n

import (
	"net/http"

	"github.com/dmitrymomot/bootstrap/pkg/view"
)

// Middleware stores the negotiated language and the loader's translate
// function in the request context. It never blocks on loading; requests served
// before readiness get keys instead of translations.
func Middleware(l *Loader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lang := l.Language(r)
			ctx := SetLocale(r.Context(), lang)
			ctx = view.WithTranslator(ctx, l.Translate)
			ctx = view.WithLocals(ctx, view.Locals{"lang": lang})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
