package players

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	digest := HashPassword("pass123")
	assert.Len(t, digest, 64)
	assert.Equal(t, digest, HashPassword("pass123"))
	assert.NotEqual(t, digest, HashPassword("pass124"))
}

func TestIsHashed(t *testing.T) {
	assert.True(t, IsHashed(HashPassword("secret")))
	assert.False(t, IsHashed("secret"))
	assert.False(t, IsHashed(""))
	// Right length but not hex.
	assert.False(t, IsHashed("zzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzz"))
}

func TestSessionManagerLifecycle(t *testing.T) {
	m := NewSessionManager(time.Hour)

	session := m.Create("sato", RolePlayer)
	require.NotEmpty(t, session.Token)
	assert.Equal(t, "sato", session.Name)
	assert.Equal(t, RolePlayer, session.Role)

	got, ok := m.Get(session.Token)
	require.True(t, ok)
	assert.Equal(t, session, got)

	m.Delete(session.Token)
	_, ok = m.Get(session.Token)
	assert.False(t, ok)
}

func TestSessionManagerExpiry(t *testing.T) {
	m := NewSessionManager(time.Hour)
	current := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return current }

	session := m.Create("admin", RoleAdmin)

	current = current.Add(59 * time.Minute)
	_, ok := m.Get(session.Token)
	assert.True(t, ok)

	current = current.Add(2 * time.Minute)
	_, ok = m.Get(session.Token)
	assert.False(t, ok, "expired session must not resolve")
}

func TestSessionManagerUnknownToken(t *testing.T) {
	m := NewSessionManager(time.Hour)
	_, ok := m.Get("no-such-token")
	assert.False(t, ok)
}
