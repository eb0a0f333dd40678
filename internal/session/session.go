// Package session holds the authenticated-user state between requests:
// who is logged in and which reporting period they selected. Sessions
// are addressed by opaque random tokens and expire by inactivity.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/devxxclaire/MyFinanceHub/internal/cache"
)

const tokenBytes = 32

// Period is the reporting month a session has selected.
type Period struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

// Session is the state addressed by one token.
type Session struct {
	Username string `json:"username"`
	Period   Period `json:"period"`
}

// Manager issues, resolves and revokes sessions over a TTL'd LRU
// registry. Resolving a session renews its TTL, so sessions expire by
// inactivity.
type Manager struct {
	registry *cache.LRUCache[Session]
	sweeper  *cache.Manager
}

// NewManager creates a manager holding at most limit concurrent
// sessions, each expiring after ttl of inactivity.
func NewManager(limit int, ttl time.Duration) *Manager {
	registry := cache.NewLRUCache[Session](limit, ttl)
	sweeper := cache.NewManager()
	sweeper.Register(registry)
	sweeper.StartCleanup(ttl)
	return &Manager{registry: registry, sweeper: sweeper}
}

// Issue creates a session for username with the current month selected
// and returns its token.
func (m *Manager) Issue(username string) (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	token := hex.EncodeToString(buf)

	now := time.Now().UTC()
	m.registry.Set(token, Session{
		Username: username,
		Period:   Period{Year: now.Year(), Month: now.Month()},
	})
	return token, nil
}

// Resolve returns the session behind token and renews its TTL.
func (m *Manager) Resolve(token string) (Session, bool) {
	sess, ok := m.registry.Get(token)
	if !ok {
		return Session{}, false
	}
	m.registry.Renew(token)
	return sess, true
}

// SetPeriod updates the selected reporting period of a live session.
func (m *Manager) SetPeriod(token string, year int, month time.Month) bool {
	sess, ok := m.registry.Get(token)
	if !ok {
		return false
	}
	sess.Period = Period{Year: year, Month: month}
	m.registry.Set(token, sess)
	return true
}

// Revoke ends the session behind token.
func (m *Manager) Revoke(token string) {
	m.registry.Delete(token)
}

// Close stops the background sweep.
func (m *Manager) Close() {
	m.sweeper.Stop()
}
