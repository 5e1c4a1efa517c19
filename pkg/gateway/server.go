// Package gateway exposes the dispatcher's command interface to GUI and
// remote clients over HTTP and websocket. The gateway is a thin client
// surface: every command flows through the same dispatch pipeline the
// CLI uses.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/hxcode/nativeos/pkg/render"
)

// authHeader carries the shared secret when one is configured.
const authHeader = "X-NativeOS-Secret"

// DispatchFunc routes one instruction through the dispatcher.
type DispatchFunc func(ctx context.Context, input string) render.Response

// Server is the gateway server.
type Server struct {
	port         int
	sharedSecret string
	dispatch     DispatchFunc
	server       *http.Server
	upgrader     websocket.Upgrader
	logger       zerolog.Logger
	inFlight     sync.WaitGroup
}

// Config holds server configuration.
type Config struct {
	Port int

	// SharedSecret enables header auth when non-empty
	SharedSecret string

	Dispatch DispatchFunc
	Logger   zerolog.Logger
}

// NewServer creates a gateway server.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Port <= 0 {
		return nil, fmt.Errorf("invalid port: %d", cfg.Port)
	}
	if cfg.Dispatch == nil {
		return nil, fmt.Errorf("dispatch function is required")
	}

	return &Server{
		port:         cfg.Port,
		sharedSecret: cfg.SharedSecret,
		dispatch:     cfg.Dispatch,
		logger:       cfg.Logger.With().Str("component", "gateway").Logger(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// Local GUI clients connect from file:// and app origins
				return true
			},
		},
	}, nil
}

// Handler returns the gateway's HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/rpc", s.handleRPC)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	return mux
}

// Start starts serving. It blocks until Shutdown is called or the
// listener fails.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info().Int("port", s.port).Msg("Gateway server starting")

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("gateway server failed: %w", err)
	}
	return nil
}

// Shutdown stops the server, waiting for in-flight dispatches.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}

	done := make(chan struct{})
	go func() {
		s.inFlight.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
	}

	return s.server.Shutdown(ctx)
}

// authorized checks the shared secret header when auth is configured.
func (s *Server) authorized(r *http.Request) bool {
	if s.sharedSecret == "" {
		return true
	}
	return r.Header.Get(authHeader) == s.sharedSecret
}

// handleRPC serves single-shot dispatch requests over plain HTTP.
func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !s.authorized(r) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}

	var req RPCRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeJSON(w, RPCResponse{Error: &RPCError{Code: CodeParseError, Message: "invalid JSON"}})
		return
	}

	resp := s.handleRequest(r.Context(), req)
	writeJSON(w, resp)
}

// handleWebSocket serves a persistent client connection carrying the
// same request envelope as /rpc.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Websocket upgrade failed")
		return
	}
	defer conn.Close()

	clientID := uuid.NewString()
	s.logger.Info().Str("client_id", clientID).Msg("Gateway client connected")

	for {
		var req RPCRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn().Err(err).Str("client_id", clientID).Msg("Gateway client read error")
			}
			break
		}

		resp := s.handleRequest(r.Context(), req)
		if err := conn.WriteJSON(resp); err != nil {
			s.logger.Warn().Err(err).Str("client_id", clientID).Msg("Gateway client write error")
			break
		}
	}

	s.logger.Info().Str("client_id", clientID).Msg("Gateway client disconnected")
}

// handleRequest routes one request envelope. Dispatch outcomes, including
// agent failures, are successful RPC responses; only malformed requests
// produce RPC errors.
func (s *Server) handleRequest(ctx context.Context, req RPCRequest) RPCResponse {
	if req.Method != "dispatch" {
		return RPCResponse{ID: req.ID, Error: &RPCError{
			Code:    CodeMethodNotFound,
			Message: fmt.Sprintf("unknown method: %s", req.Method),
		}}
	}
	if req.Params.Input == "" {
		return RPCResponse{ID: req.ID, Error: &RPCError{
			Code:    CodeInvalidRequest,
			Message: "params.input is required",
		}}
	}

	s.inFlight.Add(1)
	defer s.inFlight.Done()

	result := s.dispatch(ctx, req.Params.Input)
	return RPCResponse{ID: req.ID, Result: &result}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
