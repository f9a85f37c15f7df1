// Package gateway exposes the turn pipeline over HTTP for the channel
// adapter (Teams/Web Chat). It returns intent, filters and SQL; it
// never executes the SQL itself. Running queries and rendering rows
// stays with the caller that owns the database credentials.
package gateway

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"datatalk/internal/bot"
	"datatalk/internal/config"
)

// messageRequest is the body of POST /api/messages.
type messageRequest struct {
	ConversationID string `json:"conversation_id"`
	Text           string `json:"text"`
}

// Server is the HTTP surface around one pipeline.
type Server struct {
	pipeline *bot.Pipeline
	cfg      *config.Config
	logger   *zap.Logger
	engine   *gin.Engine
}

// New wires the routes. The same endpoints the original service
// exposed: the message entry point plus health and environment
// diagnostics.
func New(pipeline *bot.Pipeline, cfg *config.Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		pipeline: pipeline,
		cfg:      cfg,
		logger:   logger,
		engine:   gin.New(),
	}
	s.engine.Use(gin.Recovery())

	s.engine.GET("/health", s.handleHealth)
	s.engine.GET("/diag/env", s.handleDiagEnv)
	s.engine.POST("/api/messages", s.handleMessage)
	return s
}

// Handler returns the underlying handler, mainly for tests.
func (s *Server) Handler() http.Handler { return s.engine }

// Run blocks serving on the configured address.
func (s *Server) Run() error {
	s.logger.Info("gateway listening", zap.String("addr", s.cfg.Server.Addr))
	return s.engine.Run(s.cfg.Server.Addr)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *Server) handleDiagEnv(c *gin.Context) {
	c.JSON(http.StatusOK, s.cfg.Snapshot())
}

func (s *Server) handleMessage(c *gin.Context) {
	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "body must be JSON with conversation_id and text"})
		return
	}
	if req.ConversationID == "" {
		req.ConversationID = "default"
	}

	turn := s.pipeline.HandleTurn(req.Text, req.ConversationID)

	s.logger.Debug("message handled",
		zap.String("conversation", req.ConversationID),
		zap.String("intent", string(turn.Intent)))

	c.JSON(http.StatusOK, turn)
}
