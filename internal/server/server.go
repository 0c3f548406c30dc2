// Package server provides the HTTP API for Oshiete.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/hyperjump/oshiete/internal/config"
	"github.com/hyperjump/oshiete/internal/extract"
	"github.com/hyperjump/oshiete/internal/pipeline"
	"github.com/hyperjump/oshiete/internal/trace"
	"github.com/hyperjump/oshiete/internal/vector"
)

// Server is the HTTP server for the Oshiete API.
type Server struct {
	pipeline  *pipeline.Pipeline
	index     vector.Index
	extractor *extract.Extractor
	recorder  trace.Recorder
	config    *config.Config
	logger    *zap.Logger
	server    *http.Server
}

// NewServer creates a server with the given dependencies.
func NewServer(
	p *pipeline.Pipeline,
	index vector.Index,
	extractor *extract.Extractor,
	recorder trace.Recorder,
	cfg *config.Config,
	logger *zap.Logger,
) *Server {
	return &Server{
		pipeline:  p,
		index:     index,
		extractor: extractor,
		recorder:  recorder,
		config:    cfg,
		logger:    logger,
	}
}

// Router builds the chi router with all routes and middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	// Generation calls can run for minutes on large code requests.
	r.Use(middleware.Timeout(5 * time.Minute))
	r.Use(middleware.Compress(5))

	r.Post("/api/chat", s.handleChat)
	r.Post("/api/chat/upload", s.handleChatUpload)
	r.Post("/api/chat/feedback", s.handleFeedback)
	r.Post("/api/generate", s.handleGenerate)
	r.Post("/api/generate/upload", s.handleGenerateUpload)
	r.Get("/health", s.handleHealth)
	r.Get("/", s.handleRoot)
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
