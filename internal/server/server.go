// Package server exposes interactive story traversal over HTTP.
//
// The server holds one loaded story (read-only) and tracks each reader's
// position in a [session.Store]. Only the current node id is persisted per
// session; the traversal state machine is rebuilt from the tree on every
// request.
//
// # API
//
//	POST /api/sessions              start a session at the root
//	GET  /api/sessions/{id}         current node, text, and numbered choices
//	POST /api/sessions/{id}/choice  body {"choice": k}, follow choice k
//	GET  /healthz                   liveness probe
//
// Input mistakes are recoverable exactly as in console play: an invalid
// choice returns 400 and leaves the session where it was.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	apperrors "github.com/fabulatree/fabula/pkg/errors"
	"github.com/fabulatree/fabula/pkg/play"
	"github.com/fabulatree/fabula/pkg/session"
	"github.com/fabulatree/fabula/pkg/story"
	"github.com/fabulatree/fabula/pkg/storyfile"
)

// Server serves one story over HTTP.
type Server struct {
	title    string
	tree     *story.Tree[string]
	sessions session.Store
	ttl      time.Duration
	logger   *log.Logger
	router   *chi.Mux
}

// New creates a server for the given story. ttl bounds how long an idle
// session survives; zero means [session.DefaultTTL].
func New(st *storyfile.Story, sessions session.Store, ttl time.Duration, logger *log.Logger) *Server {
	if ttl <= 0 {
		ttl = session.DefaultTTL
	}
	s := &Server{
		title:    st.Title,
		tree:     st.Tree,
		sessions: sessions,
		ttl:      ttl,
		logger:   logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Route("/api/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreate)
		r.Get("/{id}", s.handleGet)
		r.Post("/{id}/choice", s.handleChoose)
	})

	s.router = r
	return s
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler { return s.router }

// =============================================================================
// Views
// =============================================================================

type choiceView struct {
	N    int    `json:"n"`
	ID   string `json:"id"`
	Text string `json:"text"`
}

type nodeView struct {
	ID      string       `json:"id"`
	Text    string       `json:"text"`
	Done    bool         `json:"done"`
	Choices []choiceView `json:"choices,omitempty"`
}

type sessionView struct {
	SessionID string   `json:"session_id"`
	Title     string   `json:"title,omitempty"`
	Node      nodeView `json:"node"`
}

type choiceRequest struct {
	Choice int `json:"choice"`
}

type errorBody struct {
	Error struct {
		Code    apperrors.Code `json:"code"`
		Message string         `json:"message"`
	} `json:"error"`
}

func (s *Server) view(state *session.State, sess *play.Session[string]) sessionView {
	node := sess.Current()
	v := sessionView{
		SessionID: state.ID,
		Title:     s.title,
		Node: nodeView{
			ID:   node.ID,
			Text: node.Text(),
			Done: sess.Done(),
		},
	}
	for i, child := range sess.Choices() {
		v.Node.Choices = append(v.Node.Choices, choiceView{N: i + 1, ID: child.ID, Text: child.Text()})
	}
	return v
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	sess, err := play.NewSession(s.tree)
	if err != nil {
		s.writeError(w, http.StatusConflict, apperrors.ErrCodeNoRoot, "story has no root node")
		return
	}

	state := session.New(sess.Current().ID, s.ttl)
	if err := s.sessions.Set(r.Context(), state); err != nil {
		s.internalError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, s.view(state, sess))
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	state, sess, ok := s.resume(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, s.view(state, sess))
}

func (s *Server) handleChoose(w http.ResponseWriter, r *http.Request) {
	state, sess, ok := s.resume(w, r)
	if !ok {
		return
	}

	var req choiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, apperrors.ErrCodeInvalidChoice, "body must be JSON with a numeric \"choice\" field")
		return
	}

	node, err := sess.Choose(req.Choice)
	switch {
	case errors.Is(err, play.ErrFinished):
		s.writeError(w, http.StatusConflict, apperrors.ErrCodeSessionFinished, "the journey has already ended")
		return
	case errors.Is(err, play.ErrOutOfRange):
		s.writeError(w, http.StatusBadRequest, apperrors.ErrCodeInvalidChoice, "choice out of range")
		return
	case err != nil:
		s.internalError(w, err)
		return
	}

	state.NodeID = node.ID
	state.Touch(s.ttl)
	if err := s.sessions.Set(r.Context(), state); err != nil {
		s.internalError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.view(state, sess))
}

// resume loads the request's session and rebuilds the traversal state
// machine at its recorded node. On failure it writes the response itself.
func (s *Server) resume(w http.ResponseWriter, r *http.Request) (*session.State, *play.Session[string], bool) {
	id := chi.URLParam(r, "id")
	state, err := s.sessions.Get(r.Context(), id)
	if err != nil {
		s.internalError(w, err)
		return nil, nil, false
	}
	if state == nil {
		s.writeError(w, http.StatusNotFound, apperrors.ErrCodeSessionNotFound, "unknown or expired session")
		return nil, nil, false
	}

	sess, err := play.Resume(s.tree, state.NodeID)
	if err != nil {
		// The store references a node the loaded story no longer has.
		s.internalError(w, err)
		return nil, nil, false
	}
	return state, sess, true
}

// =============================================================================
// Helpers
// =============================================================================

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, code apperrors.Code, message string) {
	var body errorBody
	body.Error.Code = code
	body.Error.Message = message
	s.writeJSON(w, status, body)
}

func (s *Server) internalError(w http.ResponseWriter, err error) {
	s.logger.Error("request failed", "err", err)
	s.writeError(w, http.StatusInternalServerError, apperrors.ErrCodeInternal, "internal error")
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start).Round(time.Microsecond))
	})
}
