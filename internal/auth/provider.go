package auth

import (
	"context"
	"time"
)

// Grant is what the provider returns on successful authentication: identity
// facts plus the opaque session artifact needed to end the provider-side
// session later.
type Grant struct {
	Identity  Identity
	Artifact  string // opaque provider session credential (refresh token)
	ExpiresAt time.Time
}

// IdentityProvider defines the contract against the external identity
// provider. Implementations return identity facts only and must not perform
// profile writes, token provisioning, or session bookkeeping; those
// decisions belong to the session client and the token coordinator.
//
// Errors are passed through with the provider's message text; callers
// surface them verbatim.
type IdentityProvider interface {
	// SignUp creates an account. attrs carries registration metadata such as
	// the chosen username. No session is established.
	SignUp(ctx context.Context, email, password string, attrs map[string]string) (*Identity, error)

	// SignIn authenticates the credential email against the provider.
	SignIn(ctx context.Context, email, password string) (*Grant, error)

	// SignOut invalidates the provider-side session behind the artifact.
	SignOut(ctx context.Context, artifact string) error

	// UserByID fetches the identity record for a user id through the
	// provider's admin surface. Used by the identifier resolver to turn a
	// directory hit into the credential email.
	UserByID(ctx context.Context, id string) (*Identity, error)
}
