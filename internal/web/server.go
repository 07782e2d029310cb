package web

import (
	"context"
	"net/http"

	"lyrictag/internal/config"
	"lyrictag/internal/logger"
	"lyrictag/internal/match"
	"lyrictag/internal/pipeline"
	"lyrictag/internal/session"
)

type Server struct {
	ctx      context.Context
	sessions *session.Manager
	config   config.Config
	logger   *logger.Logger
	sources  match.Source
}

func NewServer(ctx context.Context, sessions *session.Manager, cfg config.Config, log *logger.Logger) *Server {
	return &Server{
		ctx:      ctx,
		sessions: sessions,
		config:   cfg,
		logger:   log,
		// Built once so source rate limits hold across concurrent sessions.
		sources: pipeline.BuildSources(cfg, log),
	}
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	// Static files
	mux.Handle("/", http.FileServer(http.Dir("web/static")))

	// API endpoints
	mux.HandleFunc("/api/match", s.handleMatch)
	mux.HandleFunc("/api/sessions", s.handleListSessions)
	mux.HandleFunc("/api/sessions/", s.handleSessionAction)
	mux.HandleFunc("/ws", s.handleWebSocket)

	return s.loggingMiddleware(mux)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.logger.Debug("%s %s", r.Method, r.URL.Path)
		next.ServeHTTP(w, r)
	})
}
