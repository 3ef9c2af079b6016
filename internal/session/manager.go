package session

import (
	"sync"

	"github.com/google/uuid"
	"k8s.io/klog/v2"
)

// Manager keeps the live sessions, keyed by session id.
type Manager struct {
	deck DeckSource

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates a Manager whose sessions all deal from deck.
func NewManager(deck DeckSource) *Manager {
	return &Manager{
		deck:     deck,
		sessions: make(map[string]*Session),
	}
}

// Get returns the session with the given id, if it exists.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Create registers a new session with a fresh id. The game is not dealt yet.
func (m *Manager) Create() *Session {
	s := New(uuid.NewString(), m.deck)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	klog.V(1).Infof("Manager: created session %s (%d live)", s.ID, len(m.sessions))
	return s
}

// Remove drops a session.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
