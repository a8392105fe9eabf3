package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

type session struct {
	actor     string
	expiresAt time.Time
}

// Manager is the authentication boundary: it checks config-declared
// credentials and tracks opaque session tokens in memory. The rest of the
// system only ever asks it whether there is an authenticated actor on the
// request, and what their display identity is.
type Manager struct {
	mu       sync.Mutex
	users    map[string]string
	sessions map[string]session
	ttl      time.Duration
	now      func() time.Time
}

func NewManager(users map[string]string, ttl time.Duration) *Manager {
	return &Manager{
		users:    users,
		sessions: make(map[string]session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Login validates the credentials and returns a new session token.
func (m *Manager) Login(username, password string) (string, error) {
	expected, ok := m.users[username]
	if !ok {
		// Compare against itself to keep timing uniform for unknown users.
		expected = password + "-"
	}
	if subtle.ConstantTimeCompare([]byte(expected), []byte(password)) != 1 {
		return "", ErrInvalidCredentials
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	token := hex.EncodeToString(buf)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.pruneLocked()
	m.sessions[token] = session{actor: username, expiresAt: m.now().Add(m.ttl)}
	return token, nil
}

// Logout invalidates the token. Unknown tokens are ignored.
func (m *Manager) Logout(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
}

// Resolve returns the actor identity for a live session token.
func (m *Manager) Resolve(token string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[token]
	if !ok {
		return "", false
	}
	if m.now().After(s.expiresAt) {
		delete(m.sessions, token)
		return "", false
	}
	return s.actor, true
}

func (m *Manager) pruneLocked() {
	now := m.now()
	for token, s := range m.sessions {
		if now.After(s.expiresAt) {
			delete(m.sessions, token)
		}
	}
}
