package resolver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/taahs-backlog/dodgegame-web-portal/internal/auth"
	"github.com/taahs-backlog/dodgegame-web-portal/internal/profile"
)

// UserLookup is the slice of the identity provider the resolver needs: the
// admin read that turns a user id into the identity holding the email.
type UserLookup interface {
	UserByID(ctx context.Context, id string) (*auth.Identity, error)
}

// DirectoryResolver resolves usernames through the profile directory and the
// provider's admin lookup. It performs no writes and is safe to retry.
type DirectoryResolver struct {
	directory profile.Directory
	users     UserLookup
}

func NewDirectoryResolver(directory profile.Directory, users UserLookup) *DirectoryResolver {
	return &DirectoryResolver{
		directory: directory,
		users:     users,
	}
}

func (r *DirectoryResolver) Resolve(ctx context.Context, identifier string) (string, error) {
	// An identifier containing "@" is already in credential form. This is a
	// shortcut to skip the directory round trip, not email validation.
	if strings.Contains(identifier, "@") {
		return identifier, nil
	}

	userID, err := r.directory.LookupByUsername(ctx, identifier)
	if errors.Is(err, profile.ErrNotFound) {
		return "", ErrNoAccount
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}

	identity, err := r.users.UserByID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}

	// A profile row pointing at an identity without an email is unusable;
	// treat it the same as an absent account.
	if identity == nil || identity.Email == "" {
		return "", ErrNoAccount
	}

	return identity.Email, nil
}
