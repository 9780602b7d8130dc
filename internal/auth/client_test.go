package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider scripts the identity provider's answers.
type fakeProvider struct {
	signUpIdentity *Identity
	signUpErr      error
	signInGrant    *Grant
	signInErr      error

	mu              sync.Mutex
	signOutArtifact string
	signOutCalls    int
	signOutErr      error
}

func (f *fakeProvider) SignUp(ctx context.Context, email, password string, attrs map[string]string) (*Identity, error) {
	if f.signUpErr != nil {
		return nil, f.signUpErr
	}
	return f.signUpIdentity, nil
}

func (f *fakeProvider) SignIn(ctx context.Context, email, password string) (*Grant, error) {
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	return f.signInGrant, nil
}

func (f *fakeProvider) SignOut(ctx context.Context, artifact string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signOutArtifact = artifact
	f.signOutCalls++
	return f.signOutErr
}

func (f *fakeProvider) UserByID(ctx context.Context, id string) (*Identity, error) {
	return nil, errors.New("not scripted")
}

// fakeDirectory records upserts and signals each one.
type fakeDirectory struct {
	mu       sync.Mutex
	upserts  map[string]string // user id -> username
	err      error
	upserted chan struct{}
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		upserts:  make(map[string]string),
		upserted: make(chan struct{}, 4),
	}
}

func (f *fakeDirectory) LookupByUsername(ctx context.Context, username string) (string, error) {
	return "", errors.New("not scripted")
}

func (f *fakeDirectory) Upsert(ctx context.Context, userID, username string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err == nil {
		f.upserts[userID] = username
	}
	f.upserted <- struct{}{}
	return f.err
}

func (f *fakeDirectory) wait(t *testing.T) {
	t.Helper()
	select {
	case <-f.upserted:
	case <-time.After(2 * time.Second):
		t.Fatal("expected a profile upsert")
	}
}

func grantFor(userID string) *Grant {
	return &Grant{
		Identity:  Identity{UserID: userID, Email: userID + "@x.com", Username: "Nova"},
		Artifact:  "refresh-" + userID,
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func TestOnChange_EmitsCurrentValueOnSubscribe(t *testing.T) {
	c := NewClient(&fakeProvider{}, newFakeDirectory(), nil)

	var emissions []*Session
	c.OnChange(func(s *Session) {
		emissions = append(emissions, s)
	})

	require.Len(t, emissions, 1)
	assert.Nil(t, emissions[0], "no restored session means an initial nil emission")
}

func TestSignIn_ReplacesSession(t *testing.T) {
	p := &fakeProvider{signInGrant: grantFor("user-1")}
	c := NewClient(p, newFakeDirectory(), nil)

	var emissions []*Session
	c.OnChange(func(s *Session) {
		emissions = append(emissions, s)
	})

	identity, err := c.SignIn(context.Background(), "a@x.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "user-1", identity.UserID)

	require.Len(t, emissions, 2)
	require.NotNil(t, emissions[1])
	assert.Equal(t, "user-1", emissions[1].Identity.UserID)
	assert.Equal(t, emissions[1], c.Current())
}

func TestSignIn_FailurePassesProviderMessageThrough(t *testing.T) {
	p := &fakeProvider{signInErr: errors.New("Invalid user credentials")}
	c := NewClient(p, newFakeDirectory(), nil)

	_, err := c.SignIn(context.Background(), "a@x.com", "wrong")
	require.EqualError(t, err, "Invalid user credentials")
	assert.Nil(t, c.Current())
}

func TestSignOut_ClearsSessionAndRevokesArtifact(t *testing.T) {
	p := &fakeProvider{signInGrant: grantFor("user-1")}
	c := NewClient(p, newFakeDirectory(), nil)

	_, err := c.SignIn(context.Background(), "a@x.com", "secret123")
	require.NoError(t, err)

	var last *Session = c.Current()
	c.OnChange(func(s *Session) { last = s })

	require.NoError(t, c.SignOut(context.Background()))
	assert.Nil(t, last)
	assert.Nil(t, c.Current())
	assert.Equal(t, "refresh-user-1", p.signOutArtifact)
}

func TestSignOut_ClearsSessionEvenWhenProviderFails(t *testing.T) {
	p := &fakeProvider{
		signInGrant: grantFor("user-1"),
		signOutErr:  errors.New("provider unavailable"),
	}
	c := NewClient(p, newFakeDirectory(), nil)

	_, err := c.SignIn(context.Background(), "a@x.com", "secret123")
	require.NoError(t, err)

	err = c.SignOut(context.Background())
	require.EqualError(t, err, "provider unavailable")
	assert.Nil(t, c.Current(), "local session must not survive a failed provider sign-out")
}

func TestSignUp_UpsertsProfileKeyedByUserID(t *testing.T) {
	dir := newFakeDirectory()
	p := &fakeProvider{
		signUpIdentity: &Identity{UserID: "user-1", Email: "a@x.com", Username: "Nova"},
	}
	c := NewClient(p, dir, nil)

	identity, err := c.SignUp(context.Background(), "a@x.com", "secret123", "Nova")
	require.NoError(t, err)
	assert.Equal(t, "user-1", identity.UserID)

	dir.wait(t)
	dir.mu.Lock()
	defer dir.mu.Unlock()
	assert.Equal(t, "Nova", dir.upserts["user-1"])
}

func TestSignUp_SwallowsProfileUpsertFailure(t *testing.T) {
	dir := newFakeDirectory()
	dir.err = errors.New("profiles table unavailable")
	p := &fakeProvider{
		signUpIdentity: &Identity{UserID: "user-1", Email: "a@x.com", Username: "Nova"},
	}
	c := NewClient(p, dir, nil)

	_, err := c.SignUp(context.Background(), "a@x.com", "secret123", "Nova")
	require.NoError(t, err, "a failed profile upsert must not fail the sign-up")

	dir.wait(t)
}

func TestSignUp_ProviderRejectionPassesThrough(t *testing.T) {
	p := &fakeProvider{signUpErr: errors.New("User exists with same email")}
	c := NewClient(p, newFakeDirectory(), nil)

	_, err := c.SignUp(context.Background(), "a@x.com", "secret123", "Nova")
	require.EqualError(t, err, "User exists with same email")
}

func TestSessionExpiry_EmitsNone(t *testing.T) {
	grant := grantFor("user-1")
	grant.ExpiresAt = time.Now().Add(30 * time.Millisecond)
	p := &fakeProvider{signInGrant: grant}
	c := NewClient(p, newFakeDirectory(), nil)

	_, err := c.SignIn(context.Background(), "a@x.com", "secret123")
	require.NoError(t, err)

	// Subscribing now emits the live session first; the next nil emission
	// can only come from provider-detected expiry.
	cleared := make(chan struct{})
	c.OnChange(func(s *Session) {
		if s == nil {
			close(cleared)
		}
	})

	select {
	case <-cleared:
	case <-time.After(2 * time.Second):
		t.Fatal("expected the expired session to emit a nil replacement")
	}
	assert.Nil(t, c.Current())
}
