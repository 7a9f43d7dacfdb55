package session

import (
	"context"
	"testing"
	"time"

	"instafeed/internal/models"
)

func TestFromContext_DefaultsToUnresolved(t *testing.T) {
	s := FromContext(context.Background())
	if s.State != Unresolved {
		t.Errorf("State = %v, want unresolved", s.State)
	}
	if s.IsAuthenticated() {
		t.Error("empty context must not be authenticated")
	}
}

func TestWithSession_RoundTrip(t *testing.T) {
	user := &models.User{ID: "u1", Username: "alice"}
	ctx := WithSession(context.Background(), NewAuthenticated(user, "tok", time.Now().Add(time.Hour)))

	s := FromContext(ctx)
	if !s.IsAuthenticated() {
		t.Fatal("expected authenticated session")
	}
	if s.UserID() != "u1" {
		t.Errorf("UserID() = %q, want u1", s.UserID())
	}
	if s.TokenID != "tok" {
		t.Errorf("TokenID = %q", s.TokenID)
	}
}

func TestSession_UserIDWhenAnonymous(t *testing.T) {
	if id := NewAnonymous().UserID(); id != "" {
		t.Errorf("UserID() = %q, want empty", id)
	}
	// A session marked authenticated without a user is not usable
	if (Session{State: Authenticated}).IsAuthenticated() {
		t.Error("authenticated state without user must not count as signed in")
	}
}

func TestState_String(t *testing.T) {
	tests := map[State]string{
		Unresolved:    "unresolved",
		Anonymous:     "anonymous",
		Authenticated: "authenticated",
	}
	for state, want := range tests {
		if got := state.String(); got != want {
			t.Errorf("String() = %q, want %q", got, want)
		}
	}
}

func TestMemoryRevocations(t *testing.T) {
	store := NewMemoryRevocations()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	if err := store.Revoke(ctx, "a", now.Add(time.Hour)); err != nil {
		t.Fatalf("Revoke() error = %v", err)
	}
	if err := store.Revoke(ctx, "expired", now.Add(-time.Minute)); err != nil {
		t.Fatalf("Revoke() error = %v", err)
	}

	if revoked, _ := store.IsRevoked(ctx, "a"); !revoked {
		t.Error("expected a to be revoked")
	}
	if revoked, _ := store.IsRevoked(ctx, "expired"); revoked {
		t.Error("already expired token should not be stored")
	}
	if revoked, _ := store.IsRevoked(ctx, "unknown"); revoked {
		t.Error("unknown token reported revoked")
	}

	now = now.Add(2 * time.Hour)
	if revoked, _ := store.IsRevoked(ctx, "a"); revoked {
		t.Error("revocation should lapse once the token has expired")
	}
}
