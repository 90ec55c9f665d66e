package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/codingislub/chat/internal/chatbot"
	"github.com/codingislub/chat/internal/config"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Server exposes the chatbot over HTTP. The pipeline underneath is the
// same one the CLI uses; this layer only frames requests and responses.
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
}

// NewServer builds the gin router and HTTP server around a bot.
func NewServer(cfg config.ServerConfig, bot *chatbot.Bot, debug bool, logger *zap.Logger) *Server {
	if debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(loggingMiddleware(logger))

	h := newHandlers(bot, logger)

	router.GET("/health", h.health)
	api := router.Group("/api/v1")
	{
		api.POST("/ask", h.ask)
		api.GET("/vendors", h.vendors)
	}

	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Handler:      router,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		logger: logger,
	}
}

// ListenAndServe starts serving and blocks until shutdown or failure.
func (s *Server) ListenAndServe() error {
	s.logger.Info("HTTP server listening", zap.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
		)
	}
}
