// Package session owns the authenticated identity of the running client:
// who is logged in, what they may see, and when dependent data must be
// (re)loaded.
package session

import "github.com/bsanalyst/tui-go/internal/api"

// Store holds the current token and role. It is the single source of truth
// for "is the user logged in"; only Establish and Clear mutate it, so a
// session is never partially populated.
type Store struct {
	session api.Session
	epoch   int
}

// Establish installs a complete session atomically. A session without a
// token is ignored rather than half-applied.
func (s *Store) Establish(sess api.Session) {
	if sess.Token == "" {
		return
	}
	s.session = sess
	s.epoch++
}

// Clear removes the session. Callers are responsible for the transitive
// teardown (resource cache, workflow state).
func (s *Store) Clear() {
	s.session = api.Session{}
}

// Authenticated reports whether a session is present
func (s *Store) Authenticated() bool {
	return s.session.Token != ""
}

// Token returns the current token, empty when logged out
func (s *Store) Token() string {
	return s.session.Token
}

// Role returns the current role, empty when logged out
func (s *Store) Role() api.Role {
	return s.session.Role
}

// Epoch identifies the current login generation. It increments on every
// Establish, which gives dependents a key for "run exactly once per login"
// work such as the automatic company-list load.
func (s *Store) Epoch() int {
	return s.epoch
}
