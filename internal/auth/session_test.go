package auth

import (
	"context"
	"errors"
	"testing"
	"time"
)

const testPassword = "correct horse battery staple"

func newTestManager(ttl time.Duration) *Manager {
	return NewManager(HashPassword(testPassword), ttl)
}

func TestLogin(t *testing.T) {
	m := newTestManager(DefaultTTL)

	s, err := m.Login(testPassword)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if !s.Authenticated || s.ID == "" {
		t.Fatalf("unexpected session: %+v", s)
	}

	got, ok := m.Get(s.ID)
	if !ok || got.ID != s.ID {
		t.Fatalf("session not retrievable: %+v ok=%v", got, ok)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	m := newTestManager(DefaultTTL)
	if _, err := m.Login("wrong"); !errors.Is(err, ErrInvalidPassword) {
		t.Fatalf("expected ErrInvalidPassword, got %v", err)
	}
}

func TestLoginNoPasswordConfigured(t *testing.T) {
	m := NewManager("", DefaultTTL)
	if _, err := m.Login(testPassword); !errors.Is(err, ErrNoPasswordSet) {
		t.Fatalf("expected ErrNoPasswordSet, got %v", err)
	}
}

func TestHashIsCaseInsensitive(t *testing.T) {
	upper := NewManager("  "+toUpper(HashPassword(testPassword))+"  ", DefaultTTL)
	if _, err := upper.Login(testPassword); err != nil {
		t.Fatalf("mixed-case configured hash must still match: %v", err)
	}
}

func toUpper(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - 32
		}
	}
	return string(b)
}

func TestSessionExpiresAfterInactivity(t *testing.T) {
	m := newTestManager(2 * time.Hour)
	base := time.Date(2025, 3, 5, 9, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return base }

	s, err := m.Login(testPassword)
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	// Just inside the window.
	m.now = func() time.Time { return base.Add(2*time.Hour - time.Second) }
	if _, ok := m.Get(s.ID); !ok {
		t.Fatal("session expired too early")
	}

	// Past the window.
	m.now = func() time.Time { return base.Add(2*time.Hour + time.Second) }
	if _, ok := m.Get(s.ID); ok {
		t.Fatal("session survived past its expiry")
	}
	// Expired sessions are dropped, not resurrected.
	m.now = func() time.Time { return base }
	if _, ok := m.Get(s.ID); ok {
		t.Fatal("expired session came back")
	}
}

func TestTouchExtendsSession(t *testing.T) {
	m := newTestManager(2 * time.Hour)
	base := time.Date(2025, 3, 5, 9, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return base }

	s, err := m.Login(testPassword)
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	// Activity at +1h pushes the expiry to +3h.
	m.now = func() time.Time { return base.Add(time.Hour) }
	m.Touch(s.ID)

	m.now = func() time.Time { return base.Add(2*time.Hour + 30*time.Minute) }
	if _, ok := m.Get(s.ID); !ok {
		t.Fatal("touched session expired on the original schedule")
	}

	m.now = func() time.Time { return base.Add(3*time.Hour + time.Second) }
	if _, ok := m.Get(s.ID); ok {
		t.Fatal("touched session outlived the extended window")
	}
}

func TestLogout(t *testing.T) {
	m := newTestManager(DefaultTTL)
	s, err := m.Login(testPassword)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	m.Logout(s.ID)
	if _, ok := m.Get(s.ID); ok {
		t.Fatal("session still live after logout")
	}
	// Logging out twice is harmless.
	m.Logout(s.ID)
}

func TestSweep(t *testing.T) {
	m := newTestManager(time.Hour)
	base := time.Date(2025, 3, 5, 9, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return base }

	old, _ := m.Login(testPassword)
	m.now = func() time.Time { return base.Add(30 * time.Minute) }
	fresh, _ := m.Login(testPassword)

	m.now = func() time.Time { return base.Add(70 * time.Minute) }
	if removed := m.Sweep(); removed != 1 {
		t.Fatalf("expected 1 swept session, got %d", removed)
	}
	if _, ok := m.Get(old.ID); ok {
		t.Fatal("expired session survived the sweep")
	}
	if _, ok := m.Get(fresh.ID); !ok {
		t.Fatal("live session was swept")
	}
}

func TestSessionContext(t *testing.T) {
	ctx := context.Background()
	if _, ok := FromContext(ctx); ok {
		t.Fatal("empty context must not carry a session")
	}
	s := Session{ID: "abc", Authenticated: true}
	got, ok := FromContext(WithSession(ctx, s))
	if !ok || got != s {
		t.Fatalf("context round trip failed: %+v ok=%v", got, ok)
	}
}
