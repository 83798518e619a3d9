// Package history keeps a short per-session record of recent interactions.
package history

import (
	"sync"

	"github.com/volumio-labs/volumio-api/internal/models"
)

// DefaultLimit is how many interactions a session log retains.
const DefaultLimit = 5

// Log is a bounded interaction log. Appending beyond the limit evicts the
// oldest entry. Safe for concurrent use.
type Log struct {
	mu      sync.Mutex
	limit   int
	entries []models.Interaction
}

func NewLog(limit int) *Log {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Log{limit: limit}
}

// Append records one interaction, evicting the oldest if the log is full.
func (l *Log) Append(interaction models.Interaction) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, interaction)
	if len(l.entries) > l.limit {
		l.entries = l.entries[len(l.entries)-l.limit:]
	}
}

// Recent returns the retained interactions, oldest first.
func (l *Log) Recent() []models.Interaction {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]models.Interaction, len(l.entries))
	copy(out, l.entries)
	return out
}

func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Store hands out one Log per session ID.
type Store struct {
	mu    sync.Mutex
	limit int
	logs  map[string]*Log
}

func NewStore(limit int) *Store {
	return &Store{limit: limit, logs: make(map[string]*Log)}
}

// ForSession returns the log for the session, creating it on first use.
func (s *Store) ForSession(sessionID string) *Log {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.logs[sessionID]
	if !ok {
		l = NewLog(s.limit)
		s.logs[sessionID] = l
	}
	return l
}
