package chat

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyAttachment(t *testing.T) {
	assert.Equal(t, AttachmentImage, ClassifyAttachment("image/png"))
	assert.Equal(t, AttachmentImage, ClassifyAttachment("image/jpeg"))
	assert.Equal(t, AttachmentPDF, ClassifyAttachment("application/pdf"))
	// Everything non-image falls through to pdf.
	assert.Equal(t, AttachmentPDF, ClassifyAttachment("text/csv"))
	assert.Equal(t, AttachmentPDF, ClassifyAttachment(""))
}

func TestDeriveTitleTruncatesAtFortyRunes(t *testing.T) {
	long := strings.Repeat("a", 45)
	assert.Equal(t, strings.Repeat("a", 40)+"...", DeriveTitle(long))

	short := "short question"
	assert.Equal(t, "short question...", DeriveTitle(short))
}

func TestDeriveTitleCountsRunesNotBytes(t *testing.T) {
	// 42 Devanagari characters, far more than 40 bytes.
	content := strings.Repeat("क", 42)
	title := DeriveTitle(content)
	assert.Equal(t, strings.Repeat("क", 40)+"...", title)
}

func TestAppendSetsTitleOnlyOnEmptySession(t *testing.T) {
	s := NewSession("en")
	require.Equal(t, "New Chat", s.Title)

	s.Append(NewUserMessage("first question", "en", nil))
	assert.Equal(t, "first question...", s.Title)

	s.Append(NewUserMessage("second question", "en", nil))
	assert.Equal(t, "first question...", s.Title)
}

func TestAppendKeepsTitleWhenWelcomeMessagePresent(t *testing.T) {
	s := NewSession("en")
	s.Title = "Weather & Climate Advisory"
	s.Append(NewAssistantMessage("Hello! How can I help?", "en", nil))

	s.Append(NewUserMessage("will it rain tomorrow?", "en", nil))
	assert.Equal(t, "Weather & Climate Advisory", s.Title)
}

func TestAppendBumpsUpdatedAt(t *testing.T) {
	s := NewSession("en")
	before := s.UpdatedAt
	s.Append(NewUserMessage("hi", "en", nil))
	assert.False(t, s.UpdatedAt.Before(before))
}

func TestFindMessage(t *testing.T) {
	s := NewSession("en")
	msg := NewUserMessage("hi", "en", nil)
	s.Append(msg)

	found := s.FindMessage(msg.ID)
	require.NotNil(t, found)
	assert.Equal(t, "hi", found.Content)

	// The pointer aliases session state so translations stick.
	found.Translations = map[string]string{"hi": "नमस्ते"}
	assert.Equal(t, "नमस्ते", s.Messages[0].Translations["hi"])

	assert.Nil(t, s.FindMessage("msg-missing"))
}

func TestRecentTurns(t *testing.T) {
	s := NewSession("en")
	for _, content := range []string{"one", "two", "three"} {
		s.Append(NewUserMessage(content, "en", nil))
	}

	turns := s.RecentTurns(2)
	require.Len(t, turns, 2)
	assert.Equal(t, "two", turns[0].Content)
	assert.Equal(t, "three", turns[1].Content)

	all := s.RecentTurns(10)
	assert.Len(t, all, 3)

	assert.Empty(t, NewSession("en").RecentTurns(5))
}

func TestSessionCloneIsDeep(t *testing.T) {
	s := NewSession("en")
	msg := NewUserMessage("hi", "en", []Attachment{{ID: "file-1", Name: "soil.pdf", Type: AttachmentPDF}})
	msg.Translations = map[string]string{"hi": "नमस्ते"}
	s.Append(msg)

	clone := s.Clone()
	clone.Messages[0].Content = "mutated"
	clone.Messages[0].Translations["hi"] = "mutated"
	clone.Messages[0].Attachments[0].Name = "mutated"

	assert.Equal(t, "hi", s.Messages[0].Content)
	assert.Equal(t, "नमस्ते", s.Messages[0].Translations["hi"])
	assert.Equal(t, "soil.pdf", s.Messages[0].Attachments[0].Name)
}

func TestNilSessionCloneIsNil(t *testing.T) {
	var s *Session
	assert.Nil(t, s.Clone())
}
