// Package history defines the chat persistence contract. The orchestrator
// depends on the Store interface only; load failures are survivable ("no
// history"), save failures are logged and retried on the next natural
// trigger.
package history

import (
	"context"
	"fmt"

	"pragati/internal/chat"
)

// Store loads and saves whole chat sessions.
type Store interface {
	// LoadChatHistory returns all persisted sessions, newest first.
	LoadChatHistory(ctx context.Context) ([]*chat.Session, error)
	// SaveChatSession persists one session, replacing any prior snapshot.
	SaveChatSession(ctx context.Context, session *chat.Session) error
}

// LoadError reports that the history backend was unavailable at load time.
type LoadError struct {
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load chat history: %v", e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// SaveError reports a failed session save.
type SaveError struct {
	SessionID string
	Err       error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("save chat session %s: %v", e.SessionID, e.Err)
}

func (e *SaveError) Unwrap() error { return e.Err }
