package resolver

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taahs-backlog/dodgegame-web-portal/internal/auth"
	"github.com/taahs-backlog/dodgegame-web-portal/internal/profile"
)

type fakeDirectory struct {
	users   map[string]string // username -> user id
	err     error
	lookups int
}

func (f *fakeDirectory) LookupByUsername(ctx context.Context, username string) (string, error) {
	f.lookups++
	if f.err != nil {
		return "", f.err
	}
	id, ok := f.users[username]
	if !ok {
		return "", profile.ErrNotFound
	}
	return id, nil
}

func (f *fakeDirectory) Upsert(ctx context.Context, userID, username string) error {
	return errors.New("resolver must never write")
}

type fakeUserLookup struct {
	identities map[string]*auth.Identity
	err        error
}

func (f *fakeUserLookup) UserByID(ctx context.Context, id string) (*auth.Identity, error) {
	if f.err != nil {
		return nil, f.err
	}
	identity, ok := f.identities[id]
	if !ok {
		return nil, errors.New("user not found")
	}
	return identity, nil
}

func TestResolve_EmailPassthroughSkipsDirectory(t *testing.T) {
	dir := &fakeDirectory{}
	r := NewDirectoryResolver(dir, &fakeUserLookup{})

	email, err := r.Resolve(context.Background(), "player@arena.gg")
	require.NoError(t, err)
	assert.Equal(t, "player@arena.gg", email)
	assert.Zero(t, dir.lookups, "identifiers containing @ must not hit the directory")
}

func TestResolve_UsernameToEmail(t *testing.T) {
	dir := &fakeDirectory{users: map[string]string{"Nova": "user-1"}}
	users := &fakeUserLookup{identities: map[string]*auth.Identity{
		"user-1": {UserID: "user-1", Email: "a@x.com", Username: "Nova"},
	}}
	r := NewDirectoryResolver(dir, users)

	email, err := r.Resolve(context.Background(), "Nova")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", email)
}

func TestResolve_UnknownUsername(t *testing.T) {
	r := NewDirectoryResolver(&fakeDirectory{}, &fakeUserLookup{})

	_, err := r.Resolve(context.Background(), "Ghost")
	assert.ErrorIs(t, err, ErrNoAccount)
}

func TestResolve_DirectoryFailureIsDistinctFromNoRows(t *testing.T) {
	dir := &fakeDirectory{err: errors.New("connection reset")}
	r := NewDirectoryResolver(dir, &fakeUserLookup{})

	_, err := r.Resolve(context.Background(), "Nova")
	assert.ErrorIs(t, err, ErrLookupFailed)
	assert.NotErrorIs(t, err, ErrNoAccount)
}

func TestResolve_ProviderLookupFailure(t *testing.T) {
	dir := &fakeDirectory{users: map[string]string{"Nova": "user-1"}}
	users := &fakeUserLookup{err: errors.New("admin api unavailable")}
	r := NewDirectoryResolver(dir, users)

	_, err := r.Resolve(context.Background(), "Nova")
	assert.ErrorIs(t, err, ErrLookupFailed)
}

func TestResolve_IdentityWithoutEmailIsUnusable(t *testing.T) {
	dir := &fakeDirectory{users: map[string]string{"Nova": "user-1"}}
	users := &fakeUserLookup{identities: map[string]*auth.Identity{
		"user-1": {UserID: "user-1", Username: "Nova"},
	}}
	r := NewDirectoryResolver(dir, users)

	_, err := r.Resolve(context.Background(), "Nova")
	assert.ErrorIs(t, err, ErrNoAccount)
}
