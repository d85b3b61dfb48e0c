// Package filestore persists chat sessions as one JSON document per session
// under a base directory.
package filestore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"pragati/internal/chat"
	"pragati/internal/history"
	"pragati/internal/logging"
)

type store struct {
	baseDir string
	logger  logging.Logger
}

// New creates a file-backed history store rooted at baseDir. "~/" expands to
// the user's home directory.
func New(baseDir string) history.Store {
	if strings.HasPrefix(baseDir, "~/") {
		home, _ := os.UserHomeDir()
		baseDir = filepath.Join(home, baseDir[2:])
	}
	_ = os.MkdirAll(baseDir, 0755) // Ignore error - directory may already exist
	return &store{
		baseDir: baseDir,
		logger:  logging.NewComponentLogger("HistoryFileStore"),
	}
}

func (s *store) LoadChatHistory(ctx context.Context) ([]*chat.Session, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, &history.LoadError{Err: err}
	}

	var sessions []*chat.Session
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(s.baseDir, entry.Name())
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			s.logger.Error("Failed to read session file %s: %v", entry.Name(), readErr)
			continue
		}
		var session chat.Session
		if jsonErr := json.Unmarshal(data, &session); jsonErr != nil {
			// A corrupt file loses one session, not the whole history.
			s.logger.Error("Failed to decode session file %s: %v. Preview: %s", entry.Name(), jsonErr, previewJSON(data))
			continue
		}
		sessions = append(sessions, &session)
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].UpdatedAt.After(sessions[j].UpdatedAt)
	})
	return sessions, nil
}

func (s *store) SaveChatSession(ctx context.Context, session *chat.Session) error {
	if session == nil || session.ID == "" {
		return &history.SaveError{SessionID: "", Err: fmt.Errorf("session has no id")}
	}
	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return &history.SaveError{SessionID: session.ID, Err: err}
	}
	path := filepath.Join(s.baseDir, fmt.Sprintf("%s.json", session.ID))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return &history.SaveError{SessionID: session.ID, Err: err}
	}
	return nil
}

func previewJSON(data []byte) string {
	const maxPreview = 512
	preview := strings.TrimSpace(string(data))
	preview = strings.ReplaceAll(preview, "\n", " ")
	preview = strings.ReplaceAll(preview, "\t", " ")
	if len(preview) > maxPreview {
		preview = preview[:maxPreview] + "... (truncated)"
	}
	return preview
}
