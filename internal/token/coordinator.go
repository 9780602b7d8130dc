package token

import (
	"context"
	"errors"
	"sync"

	"github.com/taahs-backlog/dodgegame-web-portal/internal/auth"
	"github.com/taahs-backlog/dodgegame-web-portal/internal/logger"
)

// ErrNoActiveSession rejects a regeneration request made while no session
// is active. Nothing is attempted against the store in that case.
var ErrNoActiveSession = errors.New("token: no active session")

// Coordinator owns the decision of when the client-held token is created,
// replaced, and cleared; the synchronizer owns how that decision reaches
// the store.
//
// State is a pure function of the triggers it has seen: an empty userID is
// "no session", a non-empty userID with a token is a provisioned session.
// Transitions are mutex-serialized, store calls run outside the lock and
// are never cancelled; a superseded in-flight call completes and its result
// is simply ignored, so the locally retained token is always the one set by
// the latest trigger. A failed sync changes nothing: the held token stays,
// unsynchronized, until the next regeneration or session cycle.
type Coordinator struct {
	sync Synchronizer

	mu     sync.Mutex
	userID string
	token  string
}

func NewCoordinator(s Synchronizer) *Coordinator {
	return &Coordinator{sync: s}
}

// HandleSessionChange is the session stream subscriber. Session end clears
// the local token with no store call (the store keeps its last record; the
// user must re-authenticate to re-provision). Session start provisions in a
// detached call so a slow store never blocks delivery of later
// notifications.
func (c *Coordinator) HandleSessionChange(sess *auth.Session) {
	if sess == nil {
		c.mu.Lock()
		c.userID = ""
		c.token = ""
		c.mu.Unlock()
		return
	}

	userID := sess.Identity.UserID
	intent, value := c.prepare(userID)

	go func() {
		if err := c.sync.Sync(context.Background(), intent, value, userID); err != nil {
			logger.Warn("token sync failed", map[string]any{
				"intent":  string(intent),
				"user_id": userID,
				"error":   err.Error(),
			})
		}
	}()
}

// Provision synchronizes a token for a freshly authenticated identity. The
// login response and the session-change notification can race; whichever
// arrives second finds the token already held and re-syncs it with Update,
// so exactly one Create happens per session interval.
func (c *Coordinator) Provision(ctx context.Context, userID string) error {
	intent, value := c.prepare(userID)
	return c.sync.Sync(ctx, intent, value, userID)
}

// prepare applies the provisioning transition under the lock and returns
// the store call to make. First trigger for an identity: generate and
// Create. Any later trigger for the same identity: reuse the held value
// with Update, because a store record for that user id now exists.
func (c *Coordinator) prepare(userID string) (Intent, string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.userID == userID && c.token != "" {
		return IntentUpdate, c.token
	}

	c.userID = userID
	c.token = NewValue()
	return IntentCreate, c.token
}

// Regenerate replaces the held token with a fresh value and syncs it with
// Update, regardless of whether any previous sync succeeded. The new value
// is retained locally even when the sync fails; the error is returned so
// the caller can surface it as a status message.
func (c *Coordinator) Regenerate(ctx context.Context) (string, error) {
	c.mu.Lock()
	if c.userID == "" {
		c.mu.Unlock()
		return "", ErrNoActiveSession
	}
	userID := c.userID
	value := NewValue()
	c.token = value
	c.mu.Unlock()

	if err := c.sync.Sync(ctx, IntentUpdate, value, userID); err != nil {
		return value, err
	}
	return value, nil
}

// Token returns the locally held token value, empty when none.
func (c *Coordinator) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}
