// Package memstore is a lightweight history.Store implementation for tests.
package memstore

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"pragati/internal/chat"
	"pragati/internal/history"
)

// Store keeps serialized sessions in memory. Sessions are stored as JSON so
// tests exercise the same encode/decode path as the file store.
type Store struct {
	mu       sync.RWMutex
	sessions map[string][]byte

	// SaveCalls counts SaveChatSession invocations for coalescing assertions.
	SaveCalls int
	// FailSaves forces SaveChatSession to return a SaveError.
	FailSaves bool
	// FailLoads forces LoadChatHistory to return a LoadError.
	FailLoads bool
}

// New constructs an empty in-memory store.
func New() *Store {
	return &Store{sessions: make(map[string][]byte)}
}

func (s *Store) LoadChatHistory(ctx context.Context) ([]*chat.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.FailLoads {
		return nil, &history.LoadError{Err: context.DeadlineExceeded}
	}
	sessions := make([]*chat.Session, 0, len(s.sessions))
	for _, data := range s.sessions {
		var session chat.Session
		if err := json.Unmarshal(data, &session); err != nil {
			continue
		}
		sessions = append(sessions, &session)
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].UpdatedAt.After(sessions[j].UpdatedAt)
	})
	return sessions, nil
}

func (s *Store) SaveChatSession(ctx context.Context, session *chat.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.SaveCalls++
	if s.FailSaves {
		return &history.SaveError{SessionID: session.ID, Err: context.DeadlineExceeded}
	}
	data, err := json.Marshal(session)
	if err != nil {
		return &history.SaveError{SessionID: session.ID, Err: err}
	}
	s.sessions[session.ID] = data
	return nil
}

// SaveCount reports how many saves have been attempted.
func (s *Store) SaveCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.SaveCalls
}

// Get returns the stored snapshot of one session, if present.
func (s *Store) Get(sessionID string) (*chat.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.sessions[sessionID]
	if !ok {
		return nil, false
	}
	var session chat.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, false
	}
	return &session, true
}

// Len reports the number of stored sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
