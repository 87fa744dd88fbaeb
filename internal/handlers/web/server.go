package web

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dialog-crowd/tablechat/internal/services/coordinator"
)

// Config holds the configuration for the web server
type Config struct {
	// Addr is the listen address, e.g. ":8080"
	Addr string

	// Coordinator service
	Coordinator coordinator.Service

	// Transcripts records chat traffic for offline analysis
	Transcripts *Transcript
}

// Server exposes the coordinator over a polling HTTP API and a websocket
// chat relay
type Server struct {
	coordinator coordinator.Service
	transcripts *Transcript
	hub         *hub
	httpServer  *http.Server
}

// New creates a new web server
func New(cfg *Config) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Addr == "" {
		return nil, errors.New("listen address cannot be empty")
	}

	if cfg.Coordinator == nil {
		return nil, errors.New("coordinator service cannot be nil")
	}

	if cfg.Transcripts == nil {
		return nil, errors.New("transcript recorder cannot be nil")
	}

	s := &Server{
		coordinator: cfg.Coordinator,
		transcripts: cfg.Transcripts,
		hub:         newHub(),
	}

	router := gin.Default()
	s.registerRoutes(router)

	s.httpServer = &http.Server{
		Addr:    cfg.Addr,
		Handler: router,
	}

	return s, nil
}

// Start begins serving. It returns once the listener is running; serve
// errors other than a clean shutdown are fatal.
func (s *Server) Start() error {
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	log.Printf("Server is now running on %s. Press CTRL-C to exit.", s.httpServer.Addr)
	return nil
}

// Stop gracefully shuts down the server, closing all live sockets
func (s *Server) Stop(ctx context.Context) error {
	s.hub.Close()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down HTTP server: %w", err)
	}

	return nil
}
