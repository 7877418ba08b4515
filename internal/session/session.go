// Package session holds the resolved identity and role of one caller.
//
// A Session is created by Manager.Init when a request starts, re-resolved by
// Manager.Refresh when the auth provider issues new tokens and reset by
// Manager.Clear on logout. Consumers only read it.
package session

import (
	"sync"

	"ticketify/internal/model"

	"github.com/google/uuid"
)

type State uint8

const (
	StateUnresolved State = iota
	StateResolved
)

func (s State) String() string {
	switch s {
	case StateUnresolved:
		return "unresolved"
	case StateResolved:
		return "resolved"
	default:
		return "unknown"
	}
}

type Session struct {
	mu       sync.RWMutex
	state    State
	identity *model.Identity
	profile  *model.Profile
	tokens   *model.AuthTokens
}

// New returns an unresolved session.
func New() *Session {
	return &Session{}
}

// NewAnonymous returns a session resolved to RoleAnonymous.
func NewAnonymous() *Session {
	return &Session{state: StateResolved}
}

func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Role is RoleAnonymous until the session resolves to a signed-in profile.
func (s *Session) Role() model.Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state != StateResolved || s.profile == nil {
		return model.RoleAnonymous
	}
	return s.profile.Role
}

func (s *Session) UserID() (uuid.UUID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return uuid.Nil, false
	}
	return s.identity.ID, true
}

func (s *Session) Identity() (model.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return model.Identity{}, false
	}
	return *s.identity, true
}

func (s *Session) Profile() (model.Profile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.profile == nil {
		return model.Profile{}, false
	}
	return *s.profile, true
}

func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.tokens == nil {
		return ""
	}
	return s.tokens.AccessToken
}

func (s *Session) Tokens() (model.AuthTokens, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.tokens == nil {
		return model.AuthTokens{}, false
	}
	return *s.tokens, true
}

func (s *Session) resolve(identity *model.Identity, profile *model.Profile, tokens *model.AuthTokens) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateResolved
	s.identity = identity
	s.profile = profile
	s.tokens = tokens
}

func (s *Session) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateResolved
	s.identity = nil
	s.profile = nil
	s.tokens = nil
}
