package profile

import (
	"context"
	"errors"
)

// ErrNotFound reports that no profile row exists for a username. Absence is
// a valid state: profile rows are written best-effort after sign-up and are
// never auto-repaired here.
var ErrNotFound = errors.New("profile: not found")

// Directory maps usernames to provider user ids. It is a thin read interface
// over the profiles table plus the one write the sign-up flow needs.
type Directory interface {
	// LookupByUsername returns the user id owning the username, exactly as
	// stored (the lookup is case-sensitive).
	LookupByUsername(ctx context.Context, username string) (string, error)

	// Upsert writes the username for a user id, overwriting a previous
	// username for the same id rather than duplicating.
	Upsert(ctx context.Context, userID, username string) error
}
