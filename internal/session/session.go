// Package session tracks matching sessions for the web UI: one session per
// track, from candidate search through ranking to an applied merge. State
// lives only in memory; no merge history survives the process.
package session

import (
	"context"
	"crypto/rand"
	"fmt"
	"sync"
	"time"

	"lyrictag/internal/match"
)

// Status represents the current state of a matching session
type Status string

const (
	StatusPending   Status = "pending"
	StatusSearching Status = "searching"
	StatusRanked    Status = "ranked"
	StatusApplied   Status = "applied"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// terminal reports whether a session in this status will not change again.
func (s Status) terminal() bool {
	return s == StatusApplied || s == StatusFailed || s == StatusCancelled
}

// Terminal is the exported form used by the websocket handler.
func (s Status) Terminal() bool { return s.terminal() }

// Session is one track's matching run.
type Session struct {
	ID          string
	Path        string
	Status      Status
	Reference   match.TrackReference
	Ranked      match.RankedList
	Error       string
	CreatedAt   time.Time
	StartedAt   *time.Time
	CompletedAt *time.Time
	Cancel      context.CancelFunc
}

// snapshot copies the session for use outside the manager's lock. The
// ranked list is replaced wholesale on update, never mutated in place, so
// copying the struct is enough.
func (s *Session) snapshot() *Session {
	c := *s
	return &c
}

// Manager is an in-memory session registry with change notification.
// Reads hand out snapshot copies, so callers never observe a session
// mid-update.
type Manager struct {
	mu        sync.RWMutex
	sessions  map[string]*Session
	listeners map[string][]chan *Session
}

const sessionRetention = 1 * time.Hour

// NewManager creates a new session manager
func NewManager() *Manager {
	return &Manager{
		sessions:  make(map[string]*Session),
		listeners: make(map[string][]chan *Session),
	}
}

// StartCleanup starts a background goroutine that removes old finished
// sessions. Stops when ctx is cancelled.
func (m *Manager) StartCleanup(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.cleanup()
			}
		}
	}()
}

func (m *Manager) cleanup() {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-sessionRetention)
	for id, s := range m.sessions {
		if s.CompletedAt != nil && s.CompletedAt.Before(cutoff) {
			delete(m.sessions, id)
			delete(m.listeners, id)
		}
	}
}

// Create registers a new pending session for the given file.
func (m *Manager) Create(path string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := &Session{
		ID:        generateID(),
		Path:      path,
		Status:    StatusPending,
		CreatedAt: time.Now(),
	}

	m.sessions[s.ID] = s
	return s.snapshot()
}

// Get retrieves a snapshot of a session by ID.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session not found: %s", id)
	}
	return s.snapshot(), nil
}

// List returns snapshots of all sessions.
func (m *Manager) List() []*Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s.snapshot())
	}
	return sessions
}

// Update applies fn to the session under the lock, maintains timestamps on
// status transitions, and notifies subscribers.
func (m *Manager) Update(id string, fn func(*Session)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return fmt.Errorf("session not found: %s", id)
	}

	oldStatus := s.Status
	fn(s)

	if oldStatus != s.Status {
		now := time.Now()
		switch {
		case s.Status == StatusSearching && s.StartedAt == nil:
			s.StartedAt = &now
		case s.Status.terminal() && s.CompletedAt == nil:
			s.CompletedAt = &now
		}
	}

	m.notify(id, s)
	return nil
}

// Subscribe returns a channel receiving the session after each update.
func (m *Manager) Subscribe(id string) <-chan *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	ch := make(chan *Session, 10)
	m.listeners[id] = append(m.listeners[id], ch)
	return ch
}

// Unsubscribe removes a listener
func (m *Manager) Unsubscribe(id string, ch <-chan *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()

	listeners := m.listeners[id]
	for i, listener := range listeners {
		if listener == ch {
			m.listeners[id] = append(listeners[:i], listeners[i+1:]...)
			close(listener)
			break
		}
	}
}

// notify sends a snapshot to all listeners without blocking on slow readers.
func (m *Manager) notify(id string, s *Session) {
	snap := s.snapshot()
	for _, ch := range m.listeners[id] {
		select {
		case ch <- snap:
		default:
		}
	}
}

func generateID() string {
	b := make([]byte, 8)
	rand.Read(b)
	return fmt.Sprintf("sess_%x", b)
}
