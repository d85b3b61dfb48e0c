// Package server exposes the orchestrator to the UI layer over HTTP: session
// and registry reads, message sending, translation, the verification token
// hand-off, and a websocket change feed for re-rendering.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"pragati/internal/logging"
	"pragati/internal/orchestrator"
)

// Config holds the HTTP server settings.
type Config struct {
	Host         string
	Port         int
	EnableCORS   bool
	Debug        bool
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultConfig returns sensible server defaults.
func DefaultConfig() Config {
	return Config{
		Host:        "localhost",
		Port:        8080,
		EnableCORS:  true,
		ReadTimeout: 30 * time.Second,
		// Agent calls can run for minutes; the write timeout must outlive them.
		WriteTimeout: 5 * time.Minute,
	}
}

// Server is the HTTP facade over the orchestrator.
type Server struct {
	orch       *orchestrator.Orchestrator
	engine     *gin.Engine
	httpServer *http.Server
	logger     logging.Logger

	upgrader websocket.Upgrader

	connMu      sync.Mutex
	connections map[*websocket.Conn]struct{}
}

// New wires the routes and the orchestrator change feed.
func New(orch *orchestrator.Orchestrator, cfg Config) *Server {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())

	if cfg.EnableCORS {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
		corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
		corsConfig.AllowWebSockets = true
		engine.Use(cors.New(corsConfig))
	}

	s := &Server{
		orch:   orch,
		engine: engine,
		logger: logging.NewComponentLogger("Server"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		connections: make(map[*websocket.Conn]struct{}),
		httpServer: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
	}
	s.httpServer.Handler = engine
	s.registerRoutes()

	orch.Subscribe(s.broadcastChange)
	return s
}

func (s *Server) registerRoutes() {
	s.engine.GET("/health", s.handleHealth)

	api := s.engine.Group("/api")
	{
		api.GET("/languages", s.handleLanguages)
		api.GET("/agents", s.handleAgents)
		api.GET("/state", s.handleState)
		api.GET("/sessions", s.handleSessions)
		api.POST("/sessions", s.handleCreateSession)
		api.POST("/sessions/:id/select", s.handleSelectSession)
		api.POST("/agents/:id/select", s.handleSelectAgent)
		api.POST("/messages", s.handleSendMessage)
		api.POST("/messages/:id/translate", s.handleTranslate)
		api.POST("/verify", s.handleVerify)
		api.POST("/tools", s.handleToolsToggle)
		api.POST("/agent-chat", s.handleAgentChatToggle)
		api.POST("/language", s.handleLanguage)
		api.GET("/events", s.handleEvents)
	}
}

// Start serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.closeConnections()
	return s.httpServer.Shutdown(shutdownCtx)
}

// Engine exposes the router for handler tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// broadcastChange pushes a change notification to every websocket client so
// the UI re-renders from session state.
func (s *Server) broadcastChange() {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	for conn := range s.connections {
		if err := conn.WriteJSON(gin.H{"event": "sessions-changed"}); err != nil {
			_ = conn.Close()
			delete(s.connections, conn)
		}
	}
}

func (s *Server) closeConnections() {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	for conn := range s.connections {
		_ = conn.Close()
		delete(s.connections, conn)
	}
}

func (s *Server) handleEvents(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed: %v", err)
		return
	}
	s.connMu.Lock()
	s.connections[conn] = struct{}{}
	s.connMu.Unlock()

	// Drain client frames; removal happens when a broadcast write fails.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				s.connMu.Lock()
				delete(s.connections, conn)
				s.connMu.Unlock()
				_ = conn.Close()
				return
			}
		}
	}()
}
