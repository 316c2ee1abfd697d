// Package server is the browser editor: a form page bound to a per-session
// state store, a live preview image and the download endpoint.
package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/AnyUserName/tweetshot/internal/export"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

// Config holds the collaborators of a Server.
type Config struct {
	Exporter   *export.Exporter
	SessionTTL time.Duration
	Logger     *zap.Logger
	Release    bool // gin release mode
}

// Server serves the editor.
type Server struct {
	engine   *gin.Engine
	exporter *export.Exporter
	sessions *Sessions
	log      *zap.Logger
}

// New builds the router.
func New(cfg Config) (*Server, error) {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Release {
		gin.SetMode(gin.ReleaseMode)
	}

	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	s := &Server{
		engine:   gin.New(),
		exporter: cfg.Exporter,
		sessions: NewSessions(cfg.SessionTTL),
		log:      log,
	}
	s.engine.SetHTMLTemplate(tmpl)
	s.engine.Use(gin.Recovery(), requestLogger(log))
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.engine.GET("/api/palette", s.listPalette)

	ui := s.engine.Group("/", withSession(s.sessions))
	ui.GET("/", s.editor)
	ui.GET("/api/state", s.getState)
	ui.POST("/api/state", s.updateState)
	ui.POST("/api/avatar", s.uploadAvatar)
	ui.GET("/preview.png", s.preview)
	ui.GET("/export", s.download)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("editor listening", zap.String("addr", addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
