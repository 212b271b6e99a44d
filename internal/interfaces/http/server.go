// internal/interfaces/http/server.go
package http

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/gurukul-storefront/internal/config"
	"github.com/your-org/gurukul-storefront/internal/infrastructure/storage"
	"github.com/your-org/gurukul-storefront/internal/interfaces/http/middleware"
	"github.com/your-org/gurukul-storefront/internal/interfaces/http/routes"
)

const maxRequestBody = 1 << 20

// Server represents the local UI API server
type Server struct {
	config     *config.Config
	gin        *gin.Engine
	httpServer *http.Server
	storage    storage.Storage
	deps       routes.Dependencies
	logger     *logrus.Logger
	startedAt  time.Time
}

// NewServer creates the server and registers middleware and routes
func NewServer(cfg *config.Config, deps routes.Dependencies, store storage.Storage, logger *logrus.Logger) *Server {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		config:    cfg,
		gin:       gin.New(),
		storage:   store,
		deps:      deps,
		logger:    logger,
		startedAt: time.Now(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.gin
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         ":" + s.config.Server.Port,
		Handler:      s.gin,
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
		IdleTimeout:  s.config.Server.IdleTimeout,
	}

	log.Printf("🚀 Storefront API starting on port %s", s.config.Server.Port)
	log.Printf("🌐 API Base URL: http://localhost:%s/api/v1", s.config.Server.Port)
	log.Printf("📊 Health Check: http://localhost:%s/health", s.config.Server.Port)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	log.Println("🛑 Shutting down HTTP server...")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	log.Println("✅ HTTP server stopped gracefully")
	return nil
}

func (s *Server) setupMiddleware() {
	s.gin.Use(gin.Recovery())
	s.gin.Use(middleware.RequestID())
	s.gin.Use(middleware.Logger(s.logger))
	s.gin.Use(middleware.CORS(s.config.Security))
	s.gin.Use(middleware.SecurityHeaders())
	s.gin.Use(middleware.RequestSizeLimit(maxRequestBody))
	s.gin.Use(middleware.Timeout(s.config.Server.RequestTimeout))
}

func (s *Server) setupRoutes() {
	s.gin.GET("/health", s.healthCheck)

	apiV1 := s.gin.Group("/api/v1")
	routes.SetupRoutes(apiV1, s.deps)

	if s.config.IsDevelopment() {
		s.gin.GET("/", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"message":     s.config.App.Name,
				"version":     s.config.App.Version,
				"environment": s.config.App.Environment,
				"health":      "/health",
				"endpoints": gin.H{
					"cart":     "/api/v1/cart",
					"auth":     "/api/v1/auth",
					"products": "/api/v1/products",
					"admin":    "/api/v1/admin",
					"checkout": "/api/v1/checkout",
				},
			})
		})
	}
}

// healthCheck reports storage health and the session state
func (s *Server) healthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	if p, ok := s.storage.(storage.Pinger); ok {
		if err := p.Health(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  "storage ping failed",
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":         "healthy",
		"timestamp":      time.Now().UTC(),
		"uptime":         time.Since(s.startedAt).Round(time.Second).String(),
		"version":        s.config.App.Version,
		"environment":    s.config.App.Environment,
		"storage_driver": s.config.Storage.Driver,
		"cart_mode":      s.config.Cart.Mode,
		"session":        s.deps.Sessions.State(ctx).String(),
	})
}
