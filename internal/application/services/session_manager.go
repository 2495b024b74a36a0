package services

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SessionManagerOptions configures a SessionManager
type SessionManagerOptions struct {
	// IdleTimeout is how long an untouched session survives a Reap
	IdleTimeout time.Duration
	Now         func() time.Time
	Logger      *zerolog.Logger
}

type managedSession struct {
	session  *SearchSession
	lastSeen time.Time
}

// SessionManager keeps the live search sessions of a server by id
type SessionManager struct {
	create func() *SearchSession
	idle   time.Duration
	now    func() time.Time
	logger zerolog.Logger

	mu       sync.Mutex
	sessions map[string]*managedSession
}

// NewSessionManager creates a manager that builds sessions with create
func NewSessionManager(create func() *SearchSession, opts SessionManagerOptions) *SessionManager {
	if opts.IdleTimeout <= 0 {
		opts.IdleTimeout = 15 * time.Minute
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	logger := log.Logger
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	return &SessionManager{
		create:   create,
		idle:     opts.IdleTimeout,
		now:      opts.Now,
		logger:   logger.With().Str("component", "session_manager").Logger(),
		sessions: make(map[string]*managedSession),
	}
}

// Create starts a new session
func (m *SessionManager) Create() *SearchSession {
	session := m.create()

	m.mu.Lock()
	m.sessions[session.ID()] = &managedSession{session: session, lastSeen: m.now()}
	count := len(m.sessions)
	m.mu.Unlock()

	m.logger.Debug().Str("session_id", session.ID()).Int("sessions", count).Msg("session created")
	return session
}

// Get returns a live session and marks it as used
func (m *SessionManager) Get(id string) (*SearchSession, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	entry.lastSeen = m.now()
	return entry.session, true
}

// Remove closes and forgets a session
func (m *SessionManager) Remove(id string) bool {
	m.mu.Lock()
	entry, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if ok {
		entry.session.Close()
	}
	return ok
}

// Len returns the number of live sessions
func (m *SessionManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Reap closes sessions idle for longer than the idle timeout and returns
// how many it closed
func (m *SessionManager) Reap() int {
	cutoff := m.now().Add(-m.idle)

	var expired []*SearchSession
	m.mu.Lock()
	for id, entry := range m.sessions {
		if entry.lastSeen.Before(cutoff) {
			expired = append(expired, entry.session)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, session := range expired {
		session.Close()
	}
	if len(expired) > 0 {
		m.logger.Info().Int("reaped", len(expired)).Msg("idle sessions closed")
	}
	return len(expired)
}

// Close closes every session
func (m *SessionManager) Close() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*managedSession)
	m.mu.Unlock()

	for _, entry := range sessions {
		entry.session.Close()
	}
}
