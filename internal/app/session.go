package app

import (
	"sync"
	"time"

	"blindtest-service/internal/domain"
)

// GameSession is the in-memory state of one running game: the ordered
// roster, the session's result ledger and the leaderboard subscribers.
// Roster order is what breaks ties in the leaderboard listing, so it is a
// slice, not a map.
type GameSession struct {
	id        string
	createdAt time.Time
	now       func() time.Time
	ledger    ResultLedger

	mu          sync.RWMutex
	players     []domain.Player
	subscribers map[chan domain.Leaderboard]struct{}
}

// NewSession is exported for infrastructure layers that create sessions.
func NewSession(id string, ledger ResultLedger) *GameSession {
	return newSessionWithClock(id, ledger, time.Now)
}

// NewSessionWithClock is test-only for deterministic timestamps.
func NewSessionWithClock(id string, ledger ResultLedger, now func() time.Time) *GameSession {
	return newSessionWithClock(id, ledger, now)
}

func newSessionWithClock(id string, ledger ResultLedger, now func() time.Time) *GameSession {
	return &GameSession{
		id:          id,
		createdAt:   now(),
		now:         now,
		ledger:      ledger,
		subscribers: make(map[chan domain.Leaderboard]struct{}),
	}
}

// Ledger exposes the session's result store to callers outside the use cases.
func (s *GameSession) Ledger() ResultLedger {
	return s.ledger
}

func (s *GameSession) join(playerID, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.players {
		if s.players[i].ID == playerID {
			s.players[i].Name = name
			return
		}
	}
	s.players = append(s.players, domain.Player{ID: playerID, Name: name})
}

func (s *GameSession) leave(playerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.players {
		if s.players[i].ID == playerID {
			s.players = append(s.players[:i], s.players[i+1:]...)
			return
		}
	}
}

func (s *GameSession) roster() []domain.Player {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Player, len(s.players))
	copy(out, s.players)
	return out
}

func (s *GameSession) isEmpty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.players) == 0
}

// IsEmpty reports whether the session has no players.
func (s *GameSession) IsEmpty() bool {
	return s.isEmpty()
}

func (s *GameSession) subscribe() (<-chan domain.Leaderboard, func()) {
	ch := make(chan domain.Leaderboard, 8)

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *GameSession) broadcast(lb domain.Leaderboard) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ch := range s.subscribers {
		select {
		case ch <- lb:
		default:
			// Drop the stale update so a slow client never blocks the rest.
			select {
			case <-ch:
			default:
			}
			ch <- lb
		}
	}
}
