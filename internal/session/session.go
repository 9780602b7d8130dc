package session

import (
	"context"
	"time"
)

// Session represents an authenticated browser session on the login surface.
// It stores identity pointers only; authentication state itself lives with
// the identity provider.
type Session struct {
	SessionID string    // unique session identifier
	UserID    string    // provider-assigned user id
	Username  string    // display name, for the portal UI
	ExpiresAt time.Time // absolute expiry time
}

// Store defines how sessions are stored and retrieved. Implementations
// must remain stateless and opaque.
type Store interface {
	Create(ctx context.Context, s Session) error
	Get(ctx context.Context, sessionID string) (*Session, error)
	Delete(ctx context.Context, sessionID string) error
}
