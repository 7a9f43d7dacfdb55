package middleware

import (
	"context"
	"net/http"

	"instafeed/internal/session"

	"github.com/rs/zerolog/log"
)

// SessionResolver turns a session token into a session
type SessionResolver interface {
	Resolve(ctx context.Context, token string) session.Session
}

// LoadSession resolves the session cookie and stores the session in the
// request context. Requests without the cookie are Anonymous.
func LoadSession(resolver SessionResolver, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var token string
			if c, err := r.Cookie(cookieName); err == nil {
				token = c.Value
			}

			sess := resolver.Resolve(r.Context(), token)
			ctx := session.WithSession(r.Context(), sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ProtectedRoute lets only authenticated sessions through. Anonymous
// sessions are redirected to loginPath; sessions that could not be resolved
// get the unavailable handler instead of a login redirect.
func ProtectedRoute(loginPath string, unavailable http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := session.FromContext(r.Context())

			switch sess.State {
			case session.Authenticated:
				next.ServeHTTP(w, r)
			case session.Anonymous:
				http.Redirect(w, r, loginPath, http.StatusSeeOther)
			default:
				log.Warn().Str("path", r.URL.Path).Msg("Session unresolved, refusing protected route")
				unavailable.ServeHTTP(w, r)
			}
		})
	}
}

// IsUserLoggedIn redirects authenticated sessions to loggedInPath and renders
// the wrapped handler for everyone else.
func IsUserLoggedIn(loggedInPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if session.FromContext(r.Context()).IsAuthenticated() {
				http.Redirect(w, r, loggedInPath, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetUserID extracts the authenticated user ID from context
func GetUserID(ctx context.Context) string {
	return session.FromContext(ctx).UserID()
}
