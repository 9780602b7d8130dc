package resolver

import (
	"context"
	"errors"
)

var (
	// ErrNoAccount reports that the identifier cannot be tied to an account:
	// no profile row, or a profile row whose identity has no email.
	ErrNoAccount = errors.New("resolver: no account for identifier")

	// ErrLookupFailed reports a transient failure while resolving, distinct
	// from "no rows".
	ErrLookupFailed = errors.New("resolver: lookup failed")
)

// Resolver turns a user-supplied login identifier (email or username) into
// the credential email the identity provider expects. It is the ONLY place
// where identifier-to-credential logic lives.
type Resolver interface {
	Resolve(ctx context.Context, identifier string) (email string, err error)
}
