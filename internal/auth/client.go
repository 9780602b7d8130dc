package auth

import (
	"context"
	"sync"
	"time"

	"github.com/taahs-backlog/dodgegame-web-portal/internal/logger"
	"github.com/taahs-backlog/dodgegame-web-portal/internal/metrics"
	"github.com/taahs-backlog/dodgegame-web-portal/internal/profile"
)

const profileUpsertTimeout = 5 * time.Second

// Client owns the single identity session of this process. The provider is
// the sole source of truth for authentication outcomes; the client only
// relays them as session replacements and performs the best-effort profile
// write after sign-up.
type Client struct {
	provider  IdentityProvider
	directory profile.Directory
	metrics   metrics.Collector
	stream    sessionStream

	timerMu sync.Mutex
	expiry  *time.Timer
}

func NewClient(p IdentityProvider, directory profile.Directory, m metrics.Collector) *Client {
	if m == nil {
		m = metrics.Noop{}
	}
	return &Client{
		provider:  p,
		directory: directory,
		metrics:   m,
	}
}

// SignUp delegates account creation to the provider and, on success, fires
// the detached profile upsert. The upsert is keyed by user id so a
// re-registration under a new username overwrites instead of duplicating,
// and its failure never surfaces to the caller: by then the account already
// exists and rolling it back is out of scope.
func (c *Client) SignUp(ctx context.Context, email, password, username string) (*Identity, error) {
	identity, err := c.provider.SignUp(ctx, email, password, map[string]string{
		"username": username,
	})
	if err != nil {
		c.metrics.RecordSignUp(false)
		return nil, err
	}
	c.metrics.RecordSignUp(true)

	go c.upsertProfile(identity.UserID, username)

	return identity, nil
}

func (c *Client) upsertProfile(userID, username string) {
	ctx, cancel := context.WithTimeout(context.Background(), profileUpsertTimeout)
	defer cancel()

	if err := c.directory.Upsert(ctx, userID, username); err != nil {
		c.metrics.RecordProfileUpsertFailure()
		logger.Warn("profile upsert after sign-up failed", map[string]any{
			"user_id":  userID,
			"username": username,
			"error":    err.Error(),
		})
	}
}

// SignIn authenticates and replaces the current session on success.
func (c *Client) SignIn(ctx context.Context, email, password string) (*Identity, error) {
	grant, err := c.provider.SignIn(ctx, email, password)
	if err != nil {
		c.metrics.RecordLogin(false)
		return nil, err
	}
	c.metrics.RecordLogin(true)

	c.setSession(&Session{
		Identity:  grant.Identity,
		Artifact:  grant.Artifact,
		ExpiresAt: grant.ExpiresAt,
	})

	return &grant.Identity, nil
}

// SignOut ends the provider session and clears the current one. The local
// session is cleared even when the provider call fails: a caller that asked
// to log out must not stay authenticated here. The provider error is still
// returned.
func (c *Client) SignOut(ctx context.Context) error {
	sess := c.stream.get()

	var err error
	if sess != nil {
		err = c.provider.SignOut(ctx, sess.Artifact)
	}

	c.setSession(nil)
	return err
}

// Current returns the session value as of now; nil means not authenticated.
func (c *Client) Current() *Session {
	return c.stream.get()
}

// OnChange subscribes to session replacements. The callback fires once
// immediately with the current value (which may be nil) and again on every
// subsequent transition, in order.
func (c *Client) OnChange(fn func(*Session)) {
	c.stream.subscribe(fn)
}

func (c *Client) setSession(sess *Session) {
	c.timerMu.Lock()
	if c.expiry != nil {
		c.expiry.Stop()
		c.expiry = nil
	}
	if sess != nil && !sess.ExpiresAt.IsZero() {
		c.expiry = time.AfterFunc(time.Until(sess.ExpiresAt), func() {
			// Only expire the session that armed this timer; a newer
			// session manages its own.
			if c.stream.get() == sess {
				logger.Info("provider session expired", map[string]any{
					"user_id": sess.Identity.UserID,
				})
				c.stream.set(nil)
			}
		})
	}
	c.timerMu.Unlock()

	c.stream.set(sess)
}
