package middleware

import (
	"net/http"

	"finitefield.org/bizcenter-web/internal/locale"
)

// VaryLocale sets Vary header for Accept-Language on dynamic responses
func VaryLocale(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// append to existing Vary if any
		w.Header().Add("Vary", "Accept-Language")
		next.ServeHTTP(w, r)
	})
}

// LocalePath requires a supported locale as the first path segment. Requests
// without one are redirected to the default locale with the rest of the URL
// kept. A valid segment is stored in the context and persisted as the
// visitor's choice.
func LocalePath(res *locale.Resolver, secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lang := locale.FirstSegment(r.URL.Path)
			if !res.Resolve(lang).NeedsRedirect() {
				store := locale.NewCookieStore(w, r)
				store.Secure = secure
				store.Set(lang)
				w.Header().Set("Content-Language", lang)
				next.ServeHTTP(w, r.WithContext(WithLocale(r.Context(), lang)))
				return
			}
			http.Redirect(w, r, res.RedirectTarget(r.URL), http.StatusFound)
		})
	}
}

// Lang returns the path locale of r, or fallback when none was resolved.
func Lang(r *http.Request, fallback string) string {
	if lang, ok := LocaleFromContext(r.Context()); ok {
		return lang
	}
	return fallback
}
