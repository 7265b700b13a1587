// Package httpapi exposes the relay bridge over a small JSON HTTP API.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/relay"
	"github.com/aretw0/relay/internal/logging"
	"github.com/aretw0/relay/pkg/domain"
)

// Bridge defines the relay surface the HTTP layer needs.
type Bridge interface {
	AttachAssistant(ctx context.Context, assistantID string) (*domain.AssistantInfo, error)
	StartSession(ctx context.Context, info *domain.AssistantInfo) (*domain.Session, error)
	Send(ctx context.Context, sessionID, text string) (*relay.Reply, error)
	History(ctx context.Context, sessionID string) ([]domain.Message, error)
	Catalog(ctx context.Context) ([]domain.ToolDefinition, error)
}

// Server adapts a Bridge to HTTP.
type Server struct {
	bridge   Bridge
	logger   *slog.Logger
	gatherer prometheus.Gatherer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithGatherer enables the /metrics endpoint over the given registry.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// NewHandler builds the HTTP handler for the bridge.
func NewHandler(bridge Bridge, opts ...Option) http.Handler {
	s := &Server{
		bridge: bridge,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", s.getHealth)
	r.Get("/info", s.getInfo)
	r.Get("/tools", s.getTools)
	r.Post("/sessions", s.createSession)
	r.Post("/sessions/{sessionID}/messages", s.postMessage)
	r.Get("/sessions/{sessionID}/messages", s.getMessages)
	if s.gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type createSessionRequest struct {
	AssistantID string `json:"assistant_id"`
}

type sessionResponse struct {
	SessionID   string `json:"session_id"`
	AssistantID string `json:"assistant_id"`
	ThreadID    string `json:"thread_id"`
}

type postMessageRequest struct {
	Text string `json:"text"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	var body createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(body.AssistantID) == "" {
		s.writeError(w, http.StatusBadRequest, "assistant_id is required")
		return
	}

	info, err := s.bridge.AttachAssistant(r.Context(), body.AssistantID)
	if err != nil {
		s.writeError(w, http.StatusBadGateway, fmt.Sprintf("attach assistant: %v", err))
		s.logger.Error("attach assistant failed", "assistant_id", body.AssistantID, "err", err)
		return
	}

	sess, err := s.bridge.StartSession(r.Context(), info)
	if err != nil {
		s.writeError(w, http.StatusBadGateway, fmt.Sprintf("start session: %v", err))
		s.logger.Error("start session failed", "assistant_id", body.AssistantID, "err", err)
		return
	}

	s.writeJSON(w, http.StatusCreated, sessionResponse{
		SessionID:   sess.ID,
		AssistantID: sess.AssistantID,
		ThreadID:    sess.ThreadID,
	})
}

func (s *Server) postMessage(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var body postMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(body.Text) == "" {
		s.writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	reply, err := s.bridge.Send(r.Context(), sessionID, body.Text)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			s.writeError(w, http.StatusNotFound, "session not found")
			return
		}
		s.writeError(w, http.StatusBadGateway, fmt.Sprintf("send: %v", err))
		s.logger.Error("send failed", "session_id", sessionID, "err", err)
		return
	}

	s.writeJSON(w, http.StatusOK, reply)
}

func (s *Server) getMessages(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	messages, err := s.bridge.History(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			s.writeError(w, http.StatusNotFound, "session not found")
			return
		}
		s.writeError(w, http.StatusBadGateway, fmt.Sprintf("history: %v", err))
		s.logger.Error("history failed", "session_id", sessionID, "err", err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{"messages": messages})
}

func (s *Server) getTools(w http.ResponseWriter, r *http.Request) {
	tools, err := s.bridge.Catalog(r.Context())
	if err != nil {
		s.writeError(w, http.StatusBadGateway, fmt.Sprintf("catalog: %v", err))
		s.logger.Error("catalog fetch failed", "err", err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{"tools": tools})
}

func (s *Server) getHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) getInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "relay-http",
		"version": strings.TrimSpace(relay.Version),
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}
