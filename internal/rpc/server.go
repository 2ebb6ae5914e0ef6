// Package rpc implements the wallet JSON-RPC 2.0 API server.
package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/Klingon-tech/klingnet-wallet/config"
	"github.com/Klingon-tech/klingnet-wallet/internal/account"
	"github.com/Klingon-tech/klingnet-wallet/internal/balance"
	klog "github.com/Klingon-tech/klingnet-wallet/internal/log"
)

// maxBodySize is the maximum allowed request body size (1 MB).
const maxBodySize = 1 << 20

// Server is the JSON-RPC 2.0 HTTP server.
type Server struct {
	addr         string
	balances     *balance.Service
	accounts     *account.Service
	methods      map[string]handler
	defaultDepth uint64
	metrics      *metrics
	router       chi.Router
	server       *http.Server
	logger       zerolog.Logger
	ln           net.Listener
	allowedNets  []*net.IPNet // Empty = allow all.
}

// New creates a new RPC server. The rpcCfg parameter controls IP filtering,
// CORS and the metrics endpoint. A zero-value RPCConfig allows all IPs and
// disables both CORS and metrics.
func New(addr string, balances *balance.Service, accounts *account.Service, rpcCfg ...config.RPCConfig) *Server {
	s := &Server{
		addr:     addr,
		balances: balances,
		accounts: accounts,
		metrics:  newMetrics(),
		logger:   klog.WithComponent("rpc"),
	}
	s.methods = s.methodTable()

	var cfg config.RPCConfig
	if len(rpcCfg) > 0 {
		cfg = rpcCfg[0]
	}
	s.allowedNets = parseAllowedIPs(cfg.AllowedIPs)

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.filterIPs)
	if len(cfg.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type"},
			ExposedHeaders: []string{requestIDHeader},
			MaxAge:         300,
		}))
	}
	r.Post("/wallet", s.handleRequest)
	r.Get("/wallet", s.handleHelp)
	if cfg.Metrics {
		r.Handle("/metrics", s.metrics.handler())
	}
	s.router = r

	s.server = &http.Server{
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * time.Minute,
	}

	return s
}

// SetDefaultDepth sets the confirmation depth used when a request omits one.
func (s *Server) SetDefaultDepth(depth uint64) {
	s.defaultDepth = depth
}

// Handler returns the HTTP handler, for embedding or tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// parseAllowedIPs converts string IP/CIDR entries into net.IPNet.
func parseAllowedIPs(entries []string) []*net.IPNet {
	var nets []*net.IPNet
	for _, entry := range entries {
		_, ipNet, err := net.ParseCIDR(entry)
		if err == nil {
			nets = append(nets, ipNet)
			continue
		}
		// Try as a single IP (add /32 or /128).
		ip := net.ParseIP(entry)
		if ip == nil {
			continue
		}
		bits := 32
		if ip.To4() == nil {
			bits = 128
		}
		nets = append(nets, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
	}
	return nets
}

// Start begins listening and serving in a background goroutine.
// It returns immediately after the listener is bound.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("rpc listen: %w", err)
	}
	s.ln = ln

	go func() {
		if err := s.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Error().Err(err).Msg("RPC server error")
		}
	}()

	s.logger.Info().Str("addr", ln.Addr().String()).Msg("RPC server listening")
	return nil
}

// Addr returns the listener address (useful when bound to :0).
func (s *Server) Addr() string {
	if s.ln != nil {
		return s.ln.Addr().String()
	}
	return s.addr
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// handleRequest is the HTTP handler for JSON-RPC requests.
func (s *Server) handleRequest(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize+1))
	if err != nil {
		writeError(w, nil, CodeParseError, "failed to read request body")
		return
	}
	if len(body) > maxBodySize {
		writeError(w, nil, CodeInvalidRequest, "request body too large")
		return
	}

	var req Request
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, nil, CodeParseError, "invalid JSON")
		return
	}

	if req.JSONRPC != "2.0" {
		writeError(w, req.ID, CodeInvalidRequest, "jsonrpc must be \"2.0\"")
		return
	}

	start := time.Now()
	method := resolveMethod(req.Method)
	result, rpcErr := s.dispatch(r.Context(), method, &req)
	elapsed := time.Since(start)

	outcome := "ok"
	if rpcErr != nil {
		outcome = outcomeLabel(rpcErr.Code)
	}
	s.metrics.observe(metricMethod(s.methods, method), outcome, elapsed)

	ev := s.logger.Debug()
	if rpcErr != nil && rpcErr.Code == CodeInternalError {
		ev = s.logger.Warn()
	}
	ev.Str("request_id", requestIDFrom(r.Context())).
		Str("method", method).
		Str("outcome", outcome).
		Dur("latency", elapsed).
		Msg("RPC request")

	if rpcErr != nil {
		writeJSON(w, Response{
			JSONRPC: "2.0",
			Error:   rpcErr,
			ID:      req.ID,
		})
		return
	}

	writeJSON(w, Response{
		JSONRPC: "2.0",
		Result:  result,
		ID:      req.ID,
	})
}

// handleHelp lists the available methods.
func (s *Server) handleHelp(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, helpText(s.methods))
}

// writeJSON writes a JSON-RPC response.
func writeJSON(w http.ResponseWriter, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// writeError writes a JSON-RPC error response.
func writeError(w http.ResponseWriter, id interface{}, code int, message string) {
	writeJSON(w, Response{
		JSONRPC: "2.0",
		Error:   &Error{Code: code, Message: message},
		ID:      id,
	})
}

// isIPAllowed checks if the IP is in the allowed networks list.
func (s *Server) isIPAllowed(ip net.IP) bool {
	for _, n := range s.allowedNets {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}

// parseParams unmarshals the request params into the given target.
func parseParams(req *Request, target interface{}) *Error {
	if req.Params == nil {
		return &Error{Code: CodeInvalidParams, Message: "params required"}
	}

	data, err := json.Marshal(req.Params)
	if err != nil {
		return &Error{Code: CodeInvalidParams, Message: "invalid params"}
	}

	if err := json.Unmarshal(data, target); err != nil {
		return &Error{Code: CodeInvalidParams, Message: fmt.Sprintf("invalid params: %v", err)}
	}
	return nil
}
