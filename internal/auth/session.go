// Package auth implements the shared-password login and the session
// lifecycle. Session state lives in an explicit Session value handed to
// handlers through the request context, never in package-level state.
package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strings"
	"sync"
	"time"
)

// DefaultTTL is the inactivity window after which a session expires.
const DefaultTTL = 2 * time.Hour

var (
	ErrInvalidPassword = errors.New("invalid password")
	ErrNoPasswordSet   = errors.New("no password hash configured")
)

// Session identifies one authenticated login.
type Session struct {
	ID            string
	Authenticated bool
	ExpiresAt     time.Time
}

// Manager checks the shared password and tracks live sessions.
type Manager struct {
	mu           sync.Mutex
	sessions     map[string]Session
	passwordHash string // hex-encoded SHA-256
	ttl          time.Duration
	now          func() time.Time
}

func NewManager(passwordHash string, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		sessions:     make(map[string]Session),
		passwordHash: strings.ToLower(strings.TrimSpace(passwordHash)),
		ttl:          ttl,
		now:          time.Now,
	}
}

// HashPassword returns the hex-encoded SHA-256 digest of password.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// Login verifies the password against the configured hash and opens a
// new session on success.
func (m *Manager) Login(password string) (Session, error) {
	if m.passwordHash == "" {
		return Session{}, ErrNoPasswordSet
	}
	entered := HashPassword(password)
	if subtle.ConstantTimeCompare([]byte(entered), []byte(m.passwordHash)) != 1 {
		return Session{}, ErrInvalidPassword
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	s := Session{
		ID:            newSessionID(),
		Authenticated: true,
		ExpiresAt:     m.now().Add(m.ttl),
	}
	m.sessions[s.ID] = s
	return s, nil
}

// Get returns the session for id if it exists and has not expired.
// Expired sessions are dropped on sight.
func (m *Manager) Get(id string) (Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return Session{}, false
	}
	if m.now().After(s.ExpiresAt) {
		delete(m.sessions, id)
		return Session{}, false
	}
	return s, true
}

// Touch extends the inactivity window of a live session.
func (m *Manager) Touch(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return
	}
	s.ExpiresAt = m.now().Add(m.ttl)
	m.sessions[id] = s
}

// Logout drops the session.
func (m *Manager) Logout(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// Sweep removes expired sessions and returns how many were dropped.
func (m *Manager) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	removed := 0
	for id, s := range m.sessions {
		if now.After(s.ExpiresAt) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

func newSessionID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand never fails on supported platforms
		panic(err)
	}
	return hex.EncodeToString(b)
}

type ctxKey struct{}

// WithSession stores the session in the context.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext retrieves the session placed by WithSession.
func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(Session)
	return s, ok
}
