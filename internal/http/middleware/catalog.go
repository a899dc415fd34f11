package middleware

import (
	"context"
	"net/http"

	scs "github.com/alexedwards/scs/v2"
	"github.com/rs/zerolog/hlog"
	"golang.org/x/text/language"

	"github.com/aniwatch/aniwatch/anime"
)

type contextKey string

const (
	ServiceKey  contextKey = "catalog_service"
	LanguageKey contextKey = "language"

	// ProviderSessionKey holds the provider chosen by the session.
	ProviderSessionKey = "provider"
)

// Catalog attaches a facade to every request, switched to the provider
// stored in the session when there is one.
func Catalog(sess *scs.SessionManager, registry *anime.Registry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			svc := anime.NewService(registry, *hlog.FromRequest(r))
			if name := sess.GetString(r.Context(), ProviderSessionKey); name != "" {
				svc.SetProvider(name)
			}
			ctx := context.WithValue(r.Context(), ServiceKey, svc)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Language resolves the display language from Accept-Language, using
// fallback when the header is absent.
func Language(fallback language.Tag) func(http.Handler) http.Handler {
	fallback = anime.MatchLanguage(fallback)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tag := fallback
			if h := r.Header.Get("Accept-Language"); h != "" {
				tag = anime.ParseAcceptLanguage(h)
			}
			ctx := context.WithValue(r.Context(), LanguageKey, tag)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ServiceFrom returns the facade attached by Catalog.
func ServiceFrom(ctx context.Context) *anime.Service {
	svc, _ := ctx.Value(ServiceKey).(*anime.Service)
	return svc
}

// LanguageFrom returns the tag attached by Language, or English.
func LanguageFrom(ctx context.Context) language.Tag {
	if tag, ok := ctx.Value(LanguageKey).(language.Tag); ok {
		return tag
	}
	return language.English
}
