// Package httpapi exposes playback sessions over a JSON HTTP API.
package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/framelight/framelight/internal/logging"
	"github.com/framelight/framelight/pkg/domain"
	"github.com/framelight/framelight/pkg/session"
)

// SessionGauge tracks the number of live sessions.
type SessionGauge interface {
	SessionStarted()
	SessionEnded()
}

// Server routes playback requests to a session manager.
type Server struct {
	manager *session.Manager
	streams *StreamManager
	logger  *slog.Logger

	version string
	metrics http.Handler
	gauge   SessionGauge
}

// Option configures the Server.
type Option func(*Server)

// WithLogger configures the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithVersion sets the version string reported by /info.
func WithVersion(version string) Option {
	return func(s *Server) {
		s.version = version
	}
}

// WithMetricsHandler mounts a metrics handler at /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithSessionGauge reports session creation and deletion to a gauge.
func WithSessionGauge(g SessionGauge) Option {
	return func(s *Server) {
		s.gauge = g
	}
}

// NewHandler creates the HTTP handler for the playback API.
func NewHandler(manager *session.Manager, opts ...Option) http.Handler {
	s := &Server{
		manager: manager,
		streams: NewStreamManager(),
		logger:  logging.NewNop(),
		version: "dev",
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Get("/healthz", s.health)
	r.Get("/info", s.info)
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics)
	}

	r.Route("/api/sessions", func(r chi.Router) {
		r.Post("/", s.createSession)
		r.Get("/", s.listSessions)
		r.Route("/{sessionID}", func(r chi.Router) {
			r.Get("/", s.getSession)
			r.Delete("/", s.deleteSession)
			r.Post("/trigger", s.trigger)
			r.Post("/back", s.back)
			r.Post("/reset", s.reset)
			r.Put("/variables/{key}", s.setVariable)
			r.Get("/events", s.events)
		})
	})

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// sessionResponse is the wire shape of a playback snapshot.
type sessionResponse struct {
	SessionID string                 `json:"sessionId"`
	State     *domain.PrototypeState `json:"state"`
}

type triggerRequest struct {
	Trigger string `json:"trigger"`
}

type variableRequest struct {
	Value any `json:"value"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) info(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "framelight-http",
		"version": s.version,
	})
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	id, err := s.manager.Start(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	state, err := s.manager.Snapshot(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if s.gauge != nil {
		s.gauge.SessionStarted()
	}
	s.writeJSON(w, http.StatusCreated, sessionResponse{SessionID: id, State: state})
}

func (s *Server) listSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.manager.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"sessions": ids})
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	state, err := s.manager.Snapshot(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, sessionResponse{SessionID: id, State: state})
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	if err := s.manager.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	if s.gauge != nil {
		s.gauge.SessionEnded()
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) trigger(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")

	var body triggerRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("Trigger: invalid request body", "error", err)
		return
	}
	if body.Trigger == "" {
		http.Error(w, "Missing trigger", http.StatusBadRequest)
		return
	}

	state, err := s.manager.Trigger(r.Context(), id, domain.Trigger(body.Trigger))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.broadcast(id, state)
	s.writeJSON(w, http.StatusOK, sessionResponse{SessionID: id, State: state})
}

func (s *Server) back(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	state, err := s.manager.Back(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.broadcast(id, state)
	s.writeJSON(w, http.StatusOK, sessionResponse{SessionID: id, State: state})
}

func (s *Server) reset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	state, err := s.manager.Reset(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.broadcast(id, state)
	s.writeJSON(w, http.StatusOK, sessionResponse{SessionID: id, State: state})
}

func (s *Server) setVariable(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	key := chi.URLParam(r, "key")

	var body variableRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("SetVariable: invalid request body", "error", err)
		return
	}

	state, err := s.manager.SetVariable(r.Context(), id, key, body.Value)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.broadcast(id, state)
	s.writeJSON(w, http.StatusOK, sessionResponse{SessionID: id, State: state})
}

// events streams session state updates as SSE.
func (s *Server) events(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	id := chi.URLParam(r, "sessionID")
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.streams.Subscribe(id)
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Debug("SSE client disconnected", "session_id", id)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

func (s *Server) broadcast(sessionID string, state *domain.PrototypeState) {
	bytes, err := json.Marshal(state)
	if err != nil {
		s.logger.Error("Broadcast encode failed", "error", err)
		return
	}
	s.streams.Broadcast(sessionID, string(bytes))
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Response encode failed", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, domain.ErrSessionNotFound) {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}
	http.Error(w, fmt.Sprintf("Internal error: %v", err), http.StatusInternalServerError)
	s.logger.Error("Request failed", "path", r.URL.Path, "error", err)
}

// StreamManager handles active SSE connections.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan<- string]struct{}
}

func NewStreamManager() *StreamManager {
	return &StreamManager{
		subscribers: make(map[string]map[chan<- string]struct{}),
	}
}

func (sm *StreamManager) Subscribe(sessionID string) (chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 10)
	if _, ok := sm.subscribers[sessionID]; !ok {
		sm.subscribers[sessionID] = make(map[chan<- string]struct{})
	}
	sm.subscribers[sessionID][ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if subs, ok := sm.subscribers[sessionID]; ok {
			delete(subs, ch)
			close(ch)
			if len(subs) == 0 {
				delete(sm.subscribers, sessionID)
			}
		}
	}
}

func (sm *StreamManager) Broadcast(sessionID string, msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers[sessionID] {
		select {
		case ch <- msg:
		default:
			// Slow client, drop the update.
		}
	}
}
