package server

import (
	"encoding/base64"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"pragati/internal/orchestrator"
	"pragati/internal/registry"
)

// APIResponse is the uniform JSON envelope.
type APIResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func ok(c *gin.Context, data any) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, APIResponse{Success: false, Error: message})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "pragati-assistant"})
}

func (s *Server) handleLanguages(c *gin.Context) {
	ok(c, registry.SupportedLanguages)
}

func (s *Server) handleAgents(c *gin.Context) {
	ok(c, registry.Agents)
}

func (s *Server) handleState(c *gin.Context) {
	ok(c, gin.H{
		"currentSessionId": s.orch.CurrentSessionID(),
		"isLoading":        s.orch.IsLoading(),
		"isLoadingHistory": s.orch.IsLoadingHistory(),
		"toolsEnabled":     s.orch.ToolsEnabled(),
		"agentChat":        s.orch.AgentChat(),
		"language":         s.orch.Language(),
	})
}

func (s *Server) handleSessions(c *gin.Context) {
	ok(c, gin.H{
		"sessions":         s.orch.Sessions(),
		"currentSessionId": s.orch.CurrentSessionID(),
	})
}

func (s *Server) handleCreateSession(c *gin.Context) {
	s.orch.CreateSession()
	ok(c, gin.H{"currentSessionId": s.orch.CurrentSessionID()})
}

func (s *Server) handleSelectSession(c *gin.Context) {
	s.orch.SelectSession(c.Param("id"))
	ok(c, gin.H{"currentSessionId": s.orch.CurrentSessionID()})
}

func (s *Server) handleSelectAgent(c *gin.Context) {
	s.orch.SelectAgent(c.Param("id"))
	ok(c, gin.H{"currentSessionId": s.orch.CurrentSessionID()})
}

type fileUploadRequest struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	URL         string `json:"url"`
	Size        int64  `json:"size"`
	Data        string `json:"data"` // base64; only needed for image analysis
}

type sendMessageRequest struct {
	Content           string              `json:"content" binding:"required"`
	VerificationToken string              `json:"verification_token"`
	Files             []fileUploadRequest `json:"files"`
}

func (s *Server) handleSendMessage(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "message content is required")
		return
	}

	if req.VerificationToken != "" {
		s.orch.SetVerificationToken(req.VerificationToken)
	}

	files := make([]orchestrator.FileUpload, 0, len(req.Files))
	for _, f := range req.Files {
		upload := orchestrator.FileUpload{
			Name:        f.Name,
			ContentType: f.ContentType,
			URL:         f.URL,
			Size:        f.Size,
		}
		if f.Data != "" {
			data, err := base64.StdEncoding.DecodeString(f.Data)
			if err != nil {
				fail(c, http.StatusBadRequest, "file data must be base64 encoded")
				return
			}
			upload.Data = data
		}
		files = append(files, upload)
	}

	err := s.orch.SendMessage(c.Request.Context(), req.Content, files)
	switch {
	case errors.Is(err, orchestrator.ErrVerificationRequired):
		fail(c, http.StatusForbidden, "please complete the verification challenge before sending")
		return
	case errors.Is(err, orchestrator.ErrBusy):
		fail(c, http.StatusConflict, "another message is already being processed")
		return
	case err != nil:
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}

	ok(c, gin.H{"session": s.orch.CurrentSession()})
}

type translateRequest struct {
	TargetLanguage string `json:"target_language" binding:"required"`
}

func (s *Server) handleTranslate(c *gin.Context) {
	var req translateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "target_language is required")
		return
	}
	s.orch.TranslateMessage(c.Request.Context(), c.Param("id"), req.TargetLanguage)
	ok(c, gin.H{"session": s.orch.CurrentSession()})
}

type verifyRequest struct {
	Token string `json:"token" binding:"required"`
}

func (s *Server) handleVerify(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "token is required")
		return
	}
	s.orch.SetVerificationToken(req.Token)
	ok(c, nil)
}

type toggleRequest struct {
	Enabled bool `json:"enabled"`
}

func (s *Server) handleToolsToggle(c *gin.Context) {
	var req toggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "enabled flag is required")
		return
	}
	s.orch.SetToolsEnabled(req.Enabled)
	ok(c, gin.H{"toolsEnabled": s.orch.ToolsEnabled()})
}

func (s *Server) handleAgentChatToggle(c *gin.Context) {
	var req toggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "enabled flag is required")
		return
	}
	s.orch.SetAgentChat(req.Enabled)
	ok(c, gin.H{"agentChat": s.orch.AgentChat()})
}

type languageRequest struct {
	Code string `json:"code" binding:"required"`
}

func (s *Server) handleLanguage(c *gin.Context) {
	var req languageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "language code is required")
		return
	}
	s.orch.SetLanguage(req.Code)
	ok(c, gin.H{"language": s.orch.Language()})
}
