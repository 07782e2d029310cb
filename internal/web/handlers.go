package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"lyrictag/internal/match"
	"lyrictag/internal/pipeline"
	"lyrictag/internal/session"
)

type MatchRequest struct {
	Path string `json:"path"`
}

// ApplyRequest picks, per field, the ranked candidate to take the value
// from. A missing (null) index keeps the file's current value.
type ApplyRequest struct {
	Title    *int `json:"title"`
	Artist   *int `json:"artist"`
	Album    *int `json:"album"`
	Duration *int `json:"duration"`
	Lyrics   *int `json:"lyrics"`
}

type CandidateResponse struct {
	Index           int     `json:"index"`
	Title           string  `json:"title"`
	Artist          string  `json:"artist"`
	Album           string  `json:"album"`
	DurationSeconds float64 `json:"duration_seconds"`
	Source          string  `json:"source"`
	Confidence      float64 `json:"confidence"`
	HasLyrics       bool    `json:"has_lyrics"`
}

type SessionResponse struct {
	ID          string              `json:"id"`
	Path        string              `json:"path"`
	Status      session.Status      `json:"status"`
	Error       string              `json:"error,omitempty"`
	Candidates  []CandidateResponse `json:"candidates,omitempty"`
	CreatedAt   string              `json:"created_at"`
	StartedAt   *string             `json:"started_at,omitempty"`
	CompletedAt *string             `json:"completed_at,omitempty"`
}

func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req MatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Path == "" {
		http.Error(w, "Path is required", http.StatusBadRequest)
		return
	}

	sess := s.sessions.Create(req.Path)
	s.logger.Info("Created session %s for file: %s", sess.ID, req.Path)

	// Run the search in background
	go s.processSession(sess)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.sessionToResponse(sess))
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sessions := s.sessions.List()
	responses := make([]*SessionResponse, len(sessions))
	for i, sess := range sessions {
		responses[i] = s.sessionToResponse(sess)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(responses)
}

func (s *Server) handleSessionAction(w http.ResponseWriter, r *http.Request) {
	// Extract session ID from path: /api/sessions/{id} or /api/sessions/{id}/{action}
	path := strings.TrimPrefix(r.URL.Path, "/api/sessions/")
	parts := strings.Split(path, "/")
	if len(parts) == 0 || parts[0] == "" {
		http.Error(w, "Session ID required", http.StatusBadRequest)
		return
	}

	sessionID := parts[0]

	// Handle GET /api/sessions/{id}
	if r.Method == http.MethodGet && len(parts) == 1 {
		sess, err := s.sessions.Get(sessionID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(s.sessionToResponse(sess))
		return
	}

	// Handle POST /api/sessions/{id}/apply
	if r.Method == http.MethodPost && len(parts) == 2 && parts[1] == "apply" {
		s.handleApply(w, r, sessionID)
		return
	}

	// Handle POST /api/sessions/{id}/cancel
	if r.Method == http.MethodPost && len(parts) == 2 && parts[1] == "cancel" {
		sess, err := s.sessions.Get(sessionID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}

		if sess.Cancel != nil {
			sess.Cancel()
		}

		s.sessions.Update(sessionID, func(sess *session.Session) {
			sess.Status = session.StatusCancelled
		})

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "cancelled"})
		return
	}

	http.Error(w, "Invalid request", http.StatusBadRequest)
}

func (s *Server) handleApply(w http.ResponseWriter, r *http.Request, sessionID string) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	if sess.Status != session.StatusRanked {
		http.Error(w, "Session has no ranked candidates to apply", http.StatusConflict)
		return
	}

	var req ApplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	sel := match.KeepAll()
	if req.Title != nil {
		sel.Title = match.TakeFrom(*req.Title)
	}
	if req.Artist != nil {
		sel.Artist = match.TakeFrom(*req.Artist)
	}
	if req.Album != nil {
		sel.Album = match.TakeFrom(*req.Album)
	}
	if req.Duration != nil {
		sel.Duration = match.TakeFrom(*req.Duration)
	}
	if req.Lyrics != nil {
		sel.Lyrics = match.TakeFrom(*req.Lyrics)
	}

	if err := pipeline.Apply(s.config, s.logger, sess.Path, sess.Reference, sess.Ranked, sel); err != nil {
		s.logger.Error("Apply failed for session %s: %v", sessionID, err)
		status := http.StatusInternalServerError
		if errors.Is(err, match.ErrSelection) {
			status = http.StatusBadRequest
		}
		http.Error(w, err.Error(), status)
		return
	}

	s.sessions.Update(sessionID, func(sess *session.Session) {
		sess.Status = session.StatusApplied
	})
	s.logger.Info("Session %s applied to %s", sessionID, sess.Path)

	sess, _ = s.sessions.Get(sessionID)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.sessionToResponse(sess))
}

func (s *Server) processSession(sess *session.Session) {
	ctx, cancel := context.WithCancel(s.ctx)
	defer cancel()

	s.sessions.Update(sess.ID, func(sess *session.Session) {
		sess.Cancel = cancel
		sess.Status = session.StatusSearching
	})

	s.logger.Info("Starting session %s", sess.ID)

	ref, ranked, err := pipeline.MatchFile(ctx, s.config, s.logger, s.sources, sess.Path)
	if err != nil {
		s.logger.Error("Session %s failed: %v", sess.ID, err)
		s.sessions.Update(sess.ID, func(sess *session.Session) {
			// Cancellation may race the search error, keep the cancelled status.
			if sess.Status == session.StatusCancelled {
				return
			}
			sess.Status = session.StatusFailed
			sess.Error = err.Error()
		})
		return
	}

	s.sessions.Update(sess.ID, func(sess *session.Session) {
		if sess.Status == session.StatusCancelled {
			return
		}
		sess.Reference = ref
		sess.Ranked = ranked
		sess.Status = session.StatusRanked
	})

	s.logger.Info("Session %s ranked %d candidates", sess.ID, len(ranked))
}

func (s *Server) sessionToResponse(sess *session.Session) *SessionResponse {
	resp := &SessionResponse{
		ID:        sess.ID,
		Path:      sess.Path,
		Status:    sess.Status,
		Error:     sess.Error,
		CreatedAt: sess.CreatedAt.Format("2006-01-02 15:04:05"),
	}

	for i, sc := range sess.Ranked {
		resp.Candidates = append(resp.Candidates, CandidateResponse{
			Index:           i,
			Title:           sc.Candidate.Song.Title,
			Artist:          sc.Candidate.Song.Artist,
			Album:           sc.Candidate.Song.Album,
			DurationSeconds: sc.Candidate.Song.Duration.Seconds(),
			Source:          sc.Candidate.Source,
			Confidence:      sc.Confidence,
			HasLyrics:       sc.HasLyrics,
		})
	}

	if sess.StartedAt != nil {
		started := sess.StartedAt.Format("2006-01-02 15:04:05")
		resp.StartedAt = &started
	}

	if sess.CompletedAt != nil {
		completed := sess.CompletedAt.Format("2006-01-02 15:04:05")
		resp.CompletedAt = &completed
	}

	return resp
}
