package i18n

import (
	"net/http"

	"golang.org/x/text/language"
)

// Middleware picks a translator per request from the Accept-Language header,
// falling back to lang.
func Middleware(lang string) func(http.Handler) http.Handler {
	matcher := language.NewMatcher([]language.Tag{language.English, language.Chinese})
	fallback := New(lang)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tr := fallback
			if accept := r.Header.Get("Accept-Language"); accept != "" {
				tag, _ := language.MatchStrings(matcher, accept)
				base, _ := tag.Base()
				tr = New(base.String())
			}
			next.ServeHTTP(w, r.WithContext(WithTranslator(r.Context(), tr)))
		})
	}
}
