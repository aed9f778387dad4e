package memory

import (
	"sync"

	"blindtest-service/internal/app"
)

// SessionStore is an in-memory implementation of app.SessionRepository.
// Every new session gets its own ledger from the factory, keeping the
// "one ledger per game session" contract explicit.
type SessionStore struct {
	newLedger func(gameID string) app.ResultLedger
	mu        sync.RWMutex
	sessions  map[string]*app.GameSession
}

func NewSessionStore() *SessionStore {
	return NewSessionStoreWithLedger(func(string) app.ResultLedger { return NewLedger() })
}

// NewSessionStoreWithLedger lets callers back sessions with a different
// ledger implementation (e.g. Redis).
func NewSessionStoreWithLedger(newLedger func(gameID string) app.ResultLedger) *SessionStore {
	return &SessionStore{
		newLedger: newLedger,
		sessions:  make(map[string]*app.GameSession),
	}
}

func (s *SessionStore) GetOrCreate(gameID string) *app.GameSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session, ok := s.sessions[gameID]; ok {
		return session
	}
	session := app.NewSession(gameID, s.newLedger(gameID))
	s.sessions[gameID] = session
	return session
}

func (s *SessionStore) Get(gameID string) (*app.GameSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[gameID]
	return session, ok
}

func (s *SessionStore) DeleteIfEmpty(gameID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[gameID]
	if !ok {
		return
	}
	if session.IsEmpty() {
		delete(s.sessions, gameID)
	}
}
