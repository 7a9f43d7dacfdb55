package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"instafeed/internal/models"
	"instafeed/internal/session"
)

type stubResolver struct {
	sess   session.Session
	tokens []string
}

func (s *stubResolver) Resolve(ctx context.Context, token string) session.Session {
	s.tokens = append(s.tokens, token)
	return s.sess
}

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("page body"))
})

var unavailableHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	http.Error(w, "try again", http.StatusServiceUnavailable)
})

func authenticated() session.Session {
	return session.NewAuthenticated(&models.User{ID: "user-1", Username: "alice"}, "token-1", time.Now().Add(time.Hour))
}

func TestLoadSession(t *testing.T) {
	resolver := &stubResolver{sess: authenticated()}

	var got session.Session
	h := LoadSession(resolver, "sid")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = session.FromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "abc"})
	h.ServeHTTP(httptest.NewRecorder(), req)

	if len(resolver.tokens) != 1 || resolver.tokens[0] != "abc" {
		t.Errorf("tokens = %v, want [abc]", resolver.tokens)
	}
	if got.State != session.Authenticated {
		t.Errorf("state = %v, want Authenticated", got.State)
	}
}

func TestLoadSession_NoCookiePassesEmptyToken(t *testing.T) {
	resolver := &stubResolver{sess: session.NewAnonymous()}
	h := LoadSession(resolver, "sid")(okHandler)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if len(resolver.tokens) != 1 || resolver.tokens[0] != "" {
		t.Errorf("tokens = %q, want one empty token", resolver.tokens)
	}
}

func TestProtectedRoute(t *testing.T) {
	tests := []struct {
		name         string
		sess         session.Session
		wantStatus   int
		wantLocation string
		wantBody     bool
	}{
		{"authenticated renders page", authenticated(), http.StatusOK, "", true},
		{"anonymous redirects to login", session.NewAnonymous(), http.StatusSeeOther, "/login", false},
		{"unresolved is unavailable", session.NewUnresolved(), http.StatusServiceUnavailable, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := ProtectedRoute("/login", unavailableHandler)(okHandler)

			req := httptest.NewRequest(http.MethodGet, "/upload", nil)
			req = req.WithContext(session.WithSession(req.Context(), tt.sess))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if loc := rec.Header().Get("Location"); loc != tt.wantLocation {
				t.Errorf("Location = %q, want %q", loc, tt.wantLocation)
			}
			if gotBody := rec.Body.String() == "page body"; gotBody != tt.wantBody {
				t.Errorf("page body rendered = %v, want %v", gotBody, tt.wantBody)
			}
		})
	}
}

func TestProtectedRoute_MissingSessionIsUnresolved(t *testing.T) {
	h := ProtectedRoute("/login", unavailableHandler)(okHandler)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/upload", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
}

func TestIsUserLoggedIn(t *testing.T) {
	tests := []struct {
		name         string
		sess         session.Session
		wantStatus   int
		wantLocation string
	}{
		{"authenticated redirects", authenticated(), http.StatusSeeOther, "/"},
		{"anonymous renders", session.NewAnonymous(), http.StatusOK, ""},
		{"unresolved renders", session.NewUnresolved(), http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := IsUserLoggedIn("/")(okHandler)

			req := httptest.NewRequest(http.MethodGet, "/login", nil)
			req = req.WithContext(session.WithSession(req.Context(), tt.sess))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if loc := rec.Header().Get("Location"); loc != tt.wantLocation {
				t.Errorf("Location = %q, want %q", loc, tt.wantLocation)
			}
		})
	}
}

func TestGetUserID(t *testing.T) {
	ctx := session.WithSession(context.Background(), authenticated())
	if got := GetUserID(ctx); got != "user-1" {
		t.Errorf("GetUserID() = %q, want user-1", got)
	}
	if got := GetUserID(context.Background()); got != "" {
		t.Errorf("GetUserID() = %q, want empty", got)
	}
}

func TestTheme(t *testing.T) {
	tests := []struct {
		cookie string
		want   bool
	}{
		{"", false},
		{"dark", true},
		{"light", false},
	}

	for _, tt := range tests {
		var got bool
		h := Theme(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = IsDarkMode(r.Context())
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tt.cookie != "" {
			req.AddCookie(&http.Cookie{Name: ThemeCookie, Value: tt.cookie})
		}
		h.ServeHTTP(httptest.NewRecorder(), req)

		if got != tt.want {
			t.Errorf("cookie %q: dark = %v, want %v", tt.cookie, got, tt.want)
		}
	}
}
