package session

import (
	"context"
	"time"

	"instafeed/internal/models"
)

// State is the resolution state of a request's session
type State int

const (
	// Unresolved means the session could not be determined, e.g. the auth
	// backend was unreachable. It is distinct from Anonymous.
	Unresolved State = iota
	// Anonymous means no user is signed in
	Anonymous
	// Authenticated means User is signed in
	Authenticated
)

func (s State) String() string {
	switch s {
	case Anonymous:
		return "anonymous"
	case Authenticated:
		return "authenticated"
	default:
		return "unresolved"
	}
}

// Session is the identity attached to a request
type Session struct {
	State     State
	User      *models.User
	TokenID   string
	ExpiresAt time.Time
}

// NewAnonymous returns a session with no user
func NewAnonymous() Session {
	return Session{State: Anonymous}
}

// NewUnresolved returns a session whose state could not be determined
func NewUnresolved() Session {
	return Session{State: Unresolved}
}

// NewAuthenticated returns a signed-in session for user
func NewAuthenticated(user *models.User, tokenID string, expiresAt time.Time) Session {
	return Session{State: Authenticated, User: user, TokenID: tokenID, ExpiresAt: expiresAt}
}

// IsAuthenticated reports whether a user is signed in
func (s Session) IsAuthenticated() bool {
	return s.State == Authenticated && s.User != nil
}

// UserID returns the signed-in user's ID or ""
func (s Session) UserID() string {
	if !s.IsAuthenticated() {
		return ""
	}
	return s.User.ID
}

type contextKey struct{}

// WithSession returns a copy of ctx carrying s
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext extracts the session from ctx. A context without a session
// reports Unresolved.
func FromContext(ctx context.Context) Session {
	s, ok := ctx.Value(contextKey{}).(Session)
	if !ok {
		return NewUnresolved()
	}
	return s
}
