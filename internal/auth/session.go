package auth

import (
	"sync"
	"time"
)

// Session is the current authentication state of this client instance.
// A nil *Session means "not authenticated". Each value fully supersedes the
// previous one; consumers never see partial updates.
type Session struct {
	Identity Identity
	// Artifact is the opaque provider session credential (refresh token).
	// It is carried only so sign-out can invalidate it; nothing else reads it.
	Artifact  string
	ExpiresAt time.Time
}

// sessionStream delivers a total order of session replacements to its
// subscribers. dispatchMu is held across the state update and the callback
// fan-out, so a subscriber always observes transitions in the order they
// happened, starting with the value current at subscribe time.
type sessionStream struct {
	dispatchMu sync.Mutex
	mu         sync.Mutex
	current    *Session
	subs       []func(*Session)
}

func (s *sessionStream) subscribe(fn func(*Session)) {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	s.mu.Lock()
	s.subs = append(s.subs, fn)
	cur := s.current
	s.mu.Unlock()

	fn(cur)
}

func (s *sessionStream) set(sess *Session) {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	s.mu.Lock()
	s.current = sess
	subs := make([]func(*Session), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(sess)
	}
}

func (s *sessionStream) get() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}
