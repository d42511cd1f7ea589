// Package mirror keeps a display-only copy of the signed-in session on the
// client. It decodes the token without verifying its signature and must never
// be used for an authorization decision; the gateway guard is authoritative.
package mirror

import (
	"errors"
	"sync"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/access-gateway/internal/domain"
)

var (
	ErrTokenExpired = errors.New("session token expired")
	ErrNoRole       = errors.New("session token carries no role")
)

// Identity is the signed-in user as shown in the UI.
type Identity struct {
	ID    int64       `json:"id"`
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
	Name  string      `json:"name"`
}

type payload struct {
	User Identity `json:"user"`
	jwt.RegisteredClaims
}

// Snapshot is a consistent read of the mirror.
type Snapshot struct {
	Identity  *Identity
	Role      domain.Role
	IsLoading bool
}

// Mirror holds the client-side session. It starts loading and holds no
// session until SignIn decodes a token the client just received.
type Mirror struct {
	mu        sync.RWMutex
	identity  *Identity
	loading   bool
	now       func() time.Time
	onSignOut func()
}

// New returns a mirror in the loading state.
func New() *Mirror {
	return &Mirror{loading: true, now: time.Now}
}

// OnSignOut registers a hook run after the session is cleared, e.g. to call
// the logout endpoint.
func (m *Mirror) OnSignOut(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onSignOut = fn
}

// Init completes the single initialization step. The authoritative cookie is
// unreadable from the client, so no session is restored.
func (m *Mirror) Init() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loading = false
}

// SignIn decodes token and stores its identity. An undecodable, expired or
// role-less token signs the mirror out instead.
func (m *Mirror) SignIn(token string) (*Identity, error) {
	identity, err := Decode(token, m.now())
	if err != nil {
		m.SignOut()
		return nil, err
	}

	m.mu.Lock()
	m.identity = identity
	m.mu.Unlock()

	clone := *identity
	return &clone, nil
}

// SignOut clears the session.
func (m *Mirror) SignOut() {
	m.mu.Lock()
	m.identity = nil
	hook := m.onSignOut
	m.mu.Unlock()

	if hook != nil {
		hook()
	}
}

// Current returns the mirrored session.
func (m *Mirror) Current() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := Snapshot{IsLoading: m.loading}
	if m.identity != nil {
		clone := *m.identity
		snap.Identity = &clone
		snap.Role = clone.Role
	}
	return snap
}

// Decode reads the identity from token without verifying the signature.
func Decode(token string, now time.Time) (*Identity, error) {
	var p payload
	if _, _, err := jwt.NewParser().ParseUnverified(token, &p); err != nil {
		return nil, err
	}
	if p.ExpiresAt == nil || !now.Before(p.ExpiresAt.Time) {
		return nil, ErrTokenExpired
	}
	if p.User.Role == "" {
		return nil, ErrNoRole
	}
	identity := p.User
	return &identity, nil
}
