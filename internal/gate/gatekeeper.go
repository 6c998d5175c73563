// Package gate holds the per-session password gate in front of the dashboard.
package gate

import (
	"crypto/subtle"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// ErrIncorrectPassword is returned by Submit when the candidate does not match.
var ErrIncorrectPassword = errors.New("password incorrect")

type State int

const (
	StateUnset State = iota
	StateRejected
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateRejected:
		return "rejected"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unset"
	}
}

type session struct {
	state    State
	lastSeen time.Time
}

type Gatekeeper struct {
	expected []byte
	clock    clockwork.Clock
	sessions map[string]*session
	mu       sync.RWMutex
}

type Option func(*Gatekeeper)

// WithClock sets the clock used to stamp session activity.
func WithClock(clock clockwork.Clock) Option {
	return func(g *Gatekeeper) {
		g.clock = clock
	}
}

func New(expected string, opts ...Option) *Gatekeeper {
	g := &Gatekeeper{
		expected: []byte(expected),
		clock:    clockwork.NewRealClock(),
		sessions: make(map[string]*session),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// NewSession registers a fresh session in the unset state.
func (g *Gatekeeper) NewSession() string {
	id := uuid.NewString()
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sessions[id] = &session{state: StateUnset, lastSeen: g.clock.Now()}
	return id
}

// Known reports whether the session id was issued by this gatekeeper and is
// still live. A known session is marked as seen.
func (g *Gatekeeper) Known(sessionID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	s, ok := g.sessions[sessionID]
	if ok {
		s.lastSeen = g.clock.Now()
	}
	return ok
}

func (g *Gatekeeper) State(sessionID string) State {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if s, ok := g.sessions[sessionID]; ok {
		return s.state
	}
	return StateUnset
}

func (g *Gatekeeper) Authenticated(sessionID string) bool {
	return g.State(sessionID) == StateAuthenticated
}

// Submit compares candidate against the configured password. The candidate is
// not retained.
func (g *Gatekeeper) Submit(sessionID, candidate string) error {
	match := subtle.ConstantTimeCompare([]byte(candidate), g.expected) == 1

	state := StateRejected
	if match {
		state = StateAuthenticated
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.sessions[sessionID] = &session{state: state, lastSeen: g.clock.Now()}

	if !match {
		return ErrIncorrectPassword
	}
	return nil
}

func (g *Gatekeeper) Reset(sessionID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.sessions, sessionID)
}

// PruneIdle forgets sessions not seen for longer than maxAge, whatever their
// state, and returns how many were dropped.
func (g *Gatekeeper) PruneIdle(maxAge time.Duration) int {
	cutoff := g.clock.Now().Add(-maxAge)

	g.mu.Lock()
	defer g.mu.Unlock()
	removed := 0
	for id, s := range g.sessions {
		if s.lastSeen.Before(cutoff) {
			delete(g.sessions, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of live sessions.
func (g *Gatekeeper) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.sessions)
}
