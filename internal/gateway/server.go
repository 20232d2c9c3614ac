// Package gateway exposes the tool registry and dispatcher to a calling host
// over HTTP and WebSocket. It owns protocol framing only; tool semantics live
// in the dispatch package.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"bullhorn/internal/dispatch"
	"bullhorn/internal/domain"
	"bullhorn/internal/tooling"
)

// ErrInvalidPort is returned when the gateway port is not in 0..65535.
var ErrInvalidPort = errors.New("gateway port must be 0-65535")

// maxCallBody limits a /tools/call request body to 1 MB.
const maxCallBody = 1 << 20

// ToolService is the surface the gateway needs from the dispatcher: schema
// export and call routing.
type ToolService interface {
	Definitions() []domain.ToolDefinition
	Dispatch(ctx context.Context, name string, args map[string]any) (string, error)
}

// Server is an HTTP server that optionally enforces Bearer token auth.
type Server struct {
	cfg         *domain.GatewayConfig
	server      *http.Server
	addr        string
	addrMu      sync.RWMutex
	listenErr   error
	listenErrMu sync.Mutex
	listener    net.Listener
	envelope    *jsonschema.Schema
	svc         ToolService
}

// NewServer builds a gateway server from config. Port 0 means pick a random
// port. Returns ErrInvalidPort if port is out of range. The call-request
// envelope schema is generated and compiled once here so every /tools/call
// body is validated against it.
func NewServer(cfg *domain.GatewayConfig, svc ToolService) (*Server, error) {
	if cfg == nil {
		cfg = &domain.GatewayConfig{Port: 8080}
	}
	if cfg.Port < 0 || cfg.Port > 65535 {
		return nil, ErrInvalidPort
	}
	if svc == nil {
		return nil, errors.New("gateway: tool service must not be nil")
	}

	schemaStr, err := tooling.GenerateSchema(domain.ToolCallRequest{})
	if err != nil {
		return nil, fmt.Errorf("gateway: envelope schema: %w", err)
	}
	envelope, err := tooling.CompileSchema(schemaStr)
	if err != nil {
		return nil, fmt.Errorf("gateway: envelope schema: %w", err)
	}

	s := &Server{cfg: cfg, envelope: envelope, svc: svc}

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	mux.HandleFunc("/tools", s.handleTools)
	mux.HandleFunc("/tools/call", s.handleCall)
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) { HandleWS(w, r, svc) })

	s.server = &http.Server{
		Handler:           BearerAuth(cfg.AuthToken)(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

type toolsResponse struct {
	Tools []domain.ToolDefinition `json:"tools"`
}

type callResponse struct {
	Content string `json:"content"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// handleTools exports the registry's descriptors verbatim, in registry order.
func (s *Server) handleTools(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}
	writeJSON(w, http.StatusOK, toolsResponse{Tools: s.svc.Definitions()})
}

// handleCall validates the request envelope against the generated schema and
// routes it through the dispatcher. User-level failures (missing argument,
// fetch failure) still come back as 200 with a text payload; an unknown tool
// name is the caller's integration bug and maps to 400.
func (s *Server) handleCall(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxCallBody))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "could not read request body"})
		return
	}
	if err := tooling.ValidateAgainstSchema(body, s.envelope); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	var req domain.ToolCallRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	text, err := s.svc.Dispatch(r.Context(), req.Name, req.Arguments)
	if err != nil {
		var unknown *dispatch.UnknownToolError
		if errors.As(err, &unknown) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: unknown.Error()})
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, callResponse{Content: text})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Addr returns the bound address after Run has started. Empty before Run.
func (s *Server) Addr() string {
	s.addrMu.RLock()
	defer s.addrMu.RUnlock()
	return s.addr
}

// ListenErr returns the error from the initial Listen in Run(), if any.
func (s *Server) ListenErr() error {
	s.listenErrMu.Lock()
	defer s.listenErrMu.Unlock()
	return s.listenErr
}

// Handler returns the HTTP handler used by the server (BearerAuth + mux).
// For testing without binding a port.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// netListen is the function used to listen; tests may replace it to force Listen errors.
var netListen = func(network, address string) (net.Listener, error) {
	return net.Listen(network, address)
}

// Run listens on the configured port and serves until shutdown is closed.
// Returns nil on clean shutdown.
func (s *Server) Run(shutdown <-chan struct{}) error {
	addr := ":" + strconv.Itoa(s.cfg.Port)
	ln, err := netListen("tcp", addr)
	if err != nil {
		s.listenErrMu.Lock()
		s.listenErr = err
		s.listenErrMu.Unlock()
		return err
	}
	s.addrMu.Lock()
	s.listener = ln
	s.addr = ln.Addr().String()
	s.addrMu.Unlock()

	done := make(chan error, 1)
	go func() {
		done <- s.server.Serve(ln)
	}()

	<-shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := serverShutdown(s.server, ctx); err != nil {
		return err
	}
	<-done
	return nil
}

// serverShutdown is the function used to shut down the server; tests may replace it.
var serverShutdown = func(srv *http.Server, ctx context.Context) error {
	return srv.Shutdown(ctx)
}
