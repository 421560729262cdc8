package a2a

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/agntcy/tourist-scheduler/schedule"
)

// maxMessageBytes bounds inbound payload size; demo messages are tiny.
const maxMessageBytes = 1 << 20

// ServerConfig holds configuration for the scheduler's A2A HTTP surface.
type ServerConfig struct {
	// BaseURL is the base URL where this server is accessible.
	BaseURL string
	// AgentName is the display name on the agent card.
	AgentName string
	// Description is the agent card description.
	Description string
	// Version is the agent card version.
	Version string
	// RequestTimeout is the timeout for processing one inbound message.
	RequestTimeout time.Duration
	// EnableAuth enables bearer-token authentication for incoming requests.
	EnableAuth bool
	// AuthToken is the expected token (if EnableAuth is true).
	AuthToken string
	// Logger is the logger instance.
	Logger *zap.Logger
}

// DefaultServerConfig returns a ServerConfig with sensible defaults.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		BaseURL:        "http://localhost:8080",
		AgentName:      "tourist-scheduler",
		Description:    "Matches tourist requests to guide offers under budget, time-window and capacity constraints",
		Version:        "1.0.0",
		RequestTimeout: 30 * time.Second,
		EnableAuth:     false,
		Logger:         zap.NewNop(),
	}
}

// Server exposes the scheduler coordinator over the A2A HTTP convention:
// message delivery at /a2a/messages, discovery at /.well-known/agent.json,
// and a state snapshot at /a2a/state.
type Server struct {
	config      *ServerConfig
	logger      *zap.Logger
	coordinator *schedule.Coordinator
	card        *AgentCard
}

// NewServer creates a Server fronting the given coordinator.
func NewServer(coordinator *schedule.Coordinator, config *ServerConfig) *Server {
	if config == nil {
		config = DefaultServerConfig()
	}
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}

	card := NewAgentCard(config.AgentName, config.Description, config.BaseURL, config.Version).
		AddSkill(schedule.MessageTypeTouristRequest.String(), "Schedule a tourist",
			"Registers a tourist request and returns a schedule proposal").
		AddSkill(schedule.MessageTypeGuideOffer.String(), "Register a guide offer",
			"Registers a guide's availability window, rate and capacity")

	return &Server{
		config:      config,
		logger:      config.Logger.With(zap.String("component", "a2a_server")),
		coordinator: coordinator,
		card:        card,
	}
}

// Card returns the agent card served for discovery.
func (s *Server) Card() *AgentCard {
	return s.card
}

// ServeHTTP implements http.Handler for the A2A routes.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if s.config.EnableAuth && !s.authenticate(r) {
		s.writeError(w, http.StatusUnauthorized, ErrAuthFailed)
		return
	}

	switch {
	case r.URL.Path == "/.well-known/agent.json" && r.Method == http.MethodGet:
		s.writeJSON(w, http.StatusOK, s.card)
	case r.URL.Path == "/a2a/messages" && r.Method == http.MethodPost:
		s.handleMessage(w, r)
	case r.URL.Path == "/a2a/state" && r.Method == http.MethodGet:
		s.writeJSON(w, http.StatusOK, s.coordinator.Store().Summary())
	default:
		s.writeError(w, http.StatusNotFound, fmt.Errorf("endpoint not found: %s %s", r.Method, r.URL.Path))
	}
}

// authenticate checks the Authorization header against the configured token.
func (s *Server) authenticate(r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return false
	}
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ") == s.config.AuthToken
	}
	return auth == s.config.AuthToken
}

// handleMessage feeds one raw payload to the coordinator. The coordinator's
// log-and-drop contract maps onto HTTP as 400 for undecodable payloads and
// 204 for unknown message types; valid messages get their artifact back.
func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxMessageBytes))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("failed to read request body: %w", err))
		return
	}
	defer r.Body.Close()

	ctx, cancel := context.WithTimeout(r.Context(), s.config.RequestTimeout)
	defer cancel()

	resp, err := s.coordinator.HandleMessage(ctx, body)
	if err != nil {
		if errors.Is(err, schedule.ErrUnknownMessageType) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	s.writeJSON(w, http.StatusOK, resp)
}

// writeJSON writes a JSON response.
func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

// writeError writes an error response.
func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.logger.Warn("request error",
		zap.Int("status", status),
		zap.Error(err),
	)
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}
