package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/twelled/spv-lifecycle/internal/activity"
	"github.com/twelled/spv-lifecycle/internal/api/middleware"
	"github.com/twelled/spv-lifecycle/internal/api/rest"
	"github.com/twelled/spv-lifecycle/internal/guard"
	"github.com/twelled/spv-lifecycle/internal/logger"
	"github.com/twelled/spv-lifecycle/internal/store"
	"github.com/twelled/spv-lifecycle/internal/wizard"
	"github.com/twelled/spv-lifecycle/internal/workflow"
)

// Config holds the server configuration
type Config struct {
	Debug          bool
	Host           string
	Port           int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	AllowedOrigins []string
}

// Server wraps the HTTP server and the lifecycle engine's services
type Server struct {
	config     Config
	store      store.Store
	guard      *guard.Guard
	uploader   wizard.Uploader
	httpServer *http.Server
}

// New creates a new API server
func New(cfg Config, s store.Store, g *guard.Guard, uploader wizard.Uploader) *Server {
	return &Server{
		config:   cfg,
		store:    s,
		guard:    g,
		uploader: uploader,
	}
}

// Start initializes and starts the HTTP server
func (s *Server) Start() error {
	// Set Gin mode based on debug flag
	if s.config.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create Gin router
	router := gin.New()

	// Setup middleware
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.SetupCORS(s.config.AllowedOrigins))

	// Wire the lifecycle engine's services
	activitySvc := activity.New(s.store)
	wizardCtl := wizard.NewController(s.store, activitySvc, s.uploader)
	workflowEng := workflow.New(s.store, activitySvc)

	// Create REST handler and routes
	restHandler := rest.NewHandler(s.store, wizardCtl, workflowEng, activitySvc)
	rest.SetupRoutes(router, restHandler, s.guard)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	logger.Info("Starting API server",
		zap.String("address", addr),
	)

	// Start server
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Info("Shutting down API server")

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown server: %w", err)
		}
	}

	return nil
}
