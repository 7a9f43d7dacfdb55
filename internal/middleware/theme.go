package middleware

import (
	"context"
	"net/http"
)

// ThemeCookie holds "dark" when dark mode is on
const ThemeCookie = "theme"

type contextKey string

const darkModeKey contextKey = "dark_mode"

// Theme reads the dark-mode cookie into the request context
func Theme(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		dark := false
		if c, err := r.Cookie(ThemeCookie); err == nil {
			dark = c.Value == "dark"
		}
		ctx := context.WithValue(r.Context(), darkModeKey, dark)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// IsDarkMode reports whether the request asked for dark mode
func IsDarkMode(ctx context.Context) bool {
	dark, _ := ctx.Value(darkModeKey).(bool)
	return dark
}
