// Package chat defines the conversation domain model: messages, attachments
// and sessions. Sessions are append-only; the orchestrator is the only
// writer, everything else reads derived views.
package chat

import (
	"strings"
	"time"

	"pragati/internal/ids"
	"pragati/internal/registry"
)

// Role identifies who authored a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// AttachmentType classifies an uploaded file.
type AttachmentType string

const (
	AttachmentImage AttachmentType = "image"
	AttachmentPDF   AttachmentType = "pdf"
)

// Attachment is a file reference owned by the message that created it. URL is
// an ephemeral local reference whose lifetime matches the message.
type Attachment struct {
	ID   string         `json:"id"`
	Name string         `json:"name"`
	Type AttachmentType `json:"type"`
	URL  string         `json:"url"`
	Size int64          `json:"size"`
}

// ClassifyAttachment maps a MIME type to an attachment type. Anything that is
// not an image is treated as a PDF, matching the upload widget's accept list.
func ClassifyAttachment(mimeType string) AttachmentType {
	if strings.HasPrefix(mimeType, "image/") {
		return AttachmentImage
	}
	return AttachmentPDF
}

// Message is one chat turn. Content is immutable after creation; only the
// Translations map grows, via the orchestrator's translate operation.
type Message struct {
	ID           string            `json:"id"`
	Role         Role              `json:"role"`
	Content      string            `json:"content"`
	Timestamp    time.Time         `json:"timestamp"`
	Attachments  []Attachment      `json:"attachments,omitempty"`
	Language     string            `json:"language,omitempty"`
	Translations map[string]string `json:"translations,omitempty"`
	Metadata     map[string]any    `json:"metadata,omitempty"`
	Error        bool              `json:"error,omitempty"`
}

// NewUserMessage builds a user message with a fresh time-ordered id.
func NewUserMessage(content, language string, attachments []Attachment) Message {
	return Message{
		ID:          ids.NewMessageID(),
		Role:        RoleUser,
		Content:     content,
		Timestamp:   time.Now(),
		Language:    language,
		Attachments: attachments,
	}
}

// NewAssistantMessage builds an assistant message with a fresh time-ordered id.
func NewAssistantMessage(content, language string, metadata map[string]any) Message {
	return Message{
		ID:        ids.NewMessageID(),
		Role:      RoleAssistant,
		Content:   content,
		Timestamp: time.Now(),
		Language:  language,
		Metadata:  metadata,
	}
}

// Session is one continuous conversation thread, optionally bound to exactly
// one agent for its entire lifetime. Switching agents creates a new session,
// never mutates an existing one.
type Session struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Messages  []Message       `json:"messages"`
	Agent     *registry.Agent `json:"agent,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
	Language  string          `json:"language"`
}

// NewSession creates an empty session with no agent bound.
func NewSession(language string) *Session {
	now := time.Now()
	return &Session{
		ID:        ids.NewSessionID(),
		Title:     "New Chat",
		Messages:  []Message{},
		CreatedAt: now,
		UpdatedAt: now,
		Language:  language,
	}
}

// titleLimit is the number of leading characters of the first user message
// used as the session title.
const titleLimit = 40

// DeriveTitle truncates the first user message into a session title.
func DeriveTitle(content string) string {
	runes := []rune(content)
	if len(runes) > titleLimit {
		return string(runes[:titleLimit]) + "..."
	}
	return content + "..."
}

// Append adds a message to the session, bumping UpdatedAt. A user message
// appended to an otherwise empty session sets the title; agent sessions keep
// the agent name because the welcome message is already present.
func (s *Session) Append(msg Message) {
	if msg.Role == RoleUser && len(s.Messages) == 0 {
		s.Title = DeriveTitle(msg.Content)
	}
	s.Messages = append(s.Messages, msg)
	s.UpdatedAt = time.Now()
}

// FindMessage returns a pointer to the message with the given id, or nil.
func (s *Session) FindMessage(id string) *Message {
	for i := range s.Messages {
		if s.Messages[i].ID == id {
			return &s.Messages[i]
		}
	}
	return nil
}

// RecentTurns returns up to n trailing messages as role/content pairs for the
// generic endpoint's conversation context.
func (s *Session) RecentTurns(n int) []Turn {
	start := len(s.Messages) - n
	if start < 0 {
		start = 0
	}
	turns := make([]Turn, 0, len(s.Messages)-start)
	for _, msg := range s.Messages[start:] {
		turns = append(turns, Turn{Role: string(msg.Role), Content: msg.Content})
	}
	return turns
}

// Turn is a minimal role/content pair used as conversation context.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
