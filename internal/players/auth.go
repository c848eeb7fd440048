package players

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Role values carried on a session.
const (
	RoleAdmin  = "admin"
	RolePlayer = "player"
)

// HashPassword returns the hex SHA-256 digest of a password. The
// player-master file stores these digests, so the scheme cannot change
// without migrating existing data files.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// IsHashed reports whether a stored credential is already a digest.
// Legacy files hold plaintext, which the store migrates on load.
func IsHashed(credential string) bool {
	if len(credential) != sha256.Size*2 {
		return false
	}
	_, err := hex.DecodeString(credential)
	return err == nil
}

// Session is an authenticated login.
type Session struct {
	Token     string    `json:"token"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionManager issues and resolves bearer tokens in memory. Sessions
// do not survive a restart; the tracker is a single-operator tool.
type SessionManager struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]Session
	now      func() time.Time
}

func NewSessionManager(ttl time.Duration) *SessionManager {
	return &SessionManager{
		ttl:      ttl,
		sessions: make(map[string]Session),
		now:      time.Now,
	}
}

// Create issues a session for an authenticated user.
func (m *SessionManager) Create(name, role string) Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := Session{
		Token:     uuid.NewString(),
		Name:      name,
		Role:      role,
		ExpiresAt: m.now().Add(m.ttl),
	}
	m.sessions[s.Token] = s
	return s
}

// Get resolves a token, expiring stale sessions lazily.
func (m *SessionManager) Get(token string) (Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[token]
	if !ok {
		return Session{}, false
	}
	if m.now().After(s.ExpiresAt) {
		delete(m.sessions, token)
		return Session{}, false
	}
	return s, true
}

// Delete revokes a token.
func (m *SessionManager) Delete(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
}
