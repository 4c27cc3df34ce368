package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/reelbeat/reelbeat-engine/internal/beats"
	"github.com/reelbeat/reelbeat-engine/internal/library"
	"github.com/reelbeat/reelbeat-engine/internal/media"
	"github.com/reelbeat/reelbeat-engine/internal/preview"
	"github.com/reelbeat/reelbeat-engine/internal/project"
)

type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

type ServerConfig struct {
	Port           int
	ProjectService project.ProjectService
	LibraryService library.LibraryService
	MediaServer    media.MediaService
	Runner         *project.Runner
	BeatAnalyzer   *beats.Analyzer
	Preview        *preview.Renderer
	Logger         *slog.Logger
	StartTime      time.Time

	editors *editorPool
}

// NewServer builds the HTTP server. The engine is a local companion
// process, so it binds to loopback only.
func NewServer(cfg ServerConfig) *Server {
	router := NewRouter(cfg)

	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf("127.0.0.1:%d", cfg.Port),
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 0,
			IdleTimeout:  60 * time.Second,
		},
		logger: cfg.Logger,
	}
}

func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr)
	err := s.httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) Addr() string {
	return s.httpServer.Addr
}
