// Package ids generates prefixed, time-ordered identifiers for sessions,
// messages and attachments. UUIDv7 keeps ids sortable by creation time so
// message ordering survives serialization round-trips.
package ids

import (
	"fmt"

	"github.com/google/uuid"
)

// NewSessionID generates a new session identifier with a stable prefix for display.
func NewSessionID() string {
	return newIdentifier("session")
}

// NewMessageID generates a new chat message identifier.
func NewMessageID() string {
	return newIdentifier("msg")
}

// NewAttachmentID generates a unique identifier for message attachments.
func NewAttachmentID() string {
	return newIdentifier("file")
}

func newIdentifier(prefix string) string {
	if v7, err := uuid.NewV7(); err == nil {
		return fmt.Sprintf("%s-%s", prefix, v7.String())
	}
	// uuid.NewV7 only fails when the random source is exhausted; fall back to v4.
	return fmt.Sprintf("%s-%s", prefix, uuid.NewString())
}
