// Package server exposes the generation pipeline the way interactive
// clients drive it: a websocket at /ws taking one request frame and
// answering with status frames and a final image frame, plus a /health
// endpoint.
package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/openmuse/muse/engine"
)

// Config configures the server.
type Config struct {
	Engine *engine.Engine
	Logger *slog.Logger
}

// Server serves generation requests over websocket.
type Server struct {
	engine   *engine.Engine
	log      *slog.Logger
	upgrader websocket.Upgrader
	mux      *http.ServeMux
}

// Request is one inbound generation frame.
type Request struct {
	Prompt string `json:"prompt"`
}

// Frame is one outbound message.
type Frame struct {
	// Type is "status", "image" or "error".
	Type       string `json:"type"`
	Message    string `json:"message,omitempty"`
	Intent     string `json:"intent,omitempty"`
	Demoted    bool   `json:"demoted,omitempty"`
	CreationID string `json:"creation_id,omitempty"`
	// Image carries the base64-encoded image bytes on "image" frames.
	Image string `json:"image,omitempty"`
}

// New creates a server around an engine.
func New(cfg Config) (*Server, error) {
	if cfg.Engine == nil {
		return nil, fmt.Errorf("engine is required")
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	s := &Server{
		engine: cfg.Engine,
		log:    log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/health", s.handleHealth)
	s.mux = mux

	return s, nil
}

// Handler returns the HTTP handler, for embedding and tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Run blocks serving on addr.
func (s *Server) Run(addr string) error {
	s.log.Info("server listening", "addr", addr)
	return http.ListenAndServe(addr, s.mux)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	for {
		var req Request
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warn("websocket read failed", "error", err)
			}
			return
		}
		if req.Prompt == "" {
			_ = conn.WriteJSON(Frame{Type: "error", Message: "prompt is required"})
			continue
		}
		s.serveGeneration(r.Context(), conn, req.Prompt)
	}
}

func (s *Server) serveGeneration(ctx context.Context, conn *websocket.Conn, prompt string) {
	_ = conn.WriteJSON(Frame{Type: "status", Message: "generating"})

	res, err := s.engine.Run(ctx, prompt)
	if err != nil {
		s.log.Error("generation failed", "error", err)
		_ = conn.WriteJSON(Frame{Type: "error", Message: err.Error()})
		return
	}

	if res.Demoted {
		_ = conn.WriteJSON(Frame{
			Type:    "status",
			Message: "no past creation to remix, generated fresh",
			Demoted: true,
		})
	}

	_ = conn.WriteJSON(Frame{
		Type:       "image",
		Intent:     string(res.Intent),
		Demoted:    res.Demoted,
		CreationID: res.CreationID,
		Image:      base64.StdEncoding.EncodeToString(res.Image),
	})
}
