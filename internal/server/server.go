// Package server hosts the dispatch router behind a net/http server,
// adding request IDs, access logging, and a Prometheus metrics endpoint.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vyrodovalexey/avarouter/internal/config"
	"github.com/vyrodovalexey/avarouter/internal/observability"
	"github.com/vyrodovalexey/avarouter/internal/router"
)

const (
	// RequestIDHeader is the header name for the request ID.
	RequestIDHeader = "X-Request-ID"
)

// Server hosts a router behind an HTTP listener. The active router is
// held behind an atomic pointer so configuration reloads can swap in a
// freshly built route table without pausing traffic.
type Server struct {
	router     atomic.Pointer[router.Router]
	httpServer *http.Server
	logger     observability.Logger
	config     config.ServerConfig
	mu         sync.RWMutex
	running    bool
}

// New creates a new server hosting the given router.
func New(cfg config.ServerConfig, rt *router.Router, logger observability.Logger) *Server {
	if logger == nil {
		logger = observability.NopLogger()
	}

	s := &Server{
		logger: logger,
		config: cfg,
	}
	s.router.Store(rt)

	return s
}

// SwapRouter replaces the active router. In-flight requests finish on
// the router they started with.
func (s *Server) SwapRouter(rt *router.Router) {
	s.router.Store(rt)
}

// ServeHTTP adapts the router's dispatch cycle to net/http. Every
// request is tagged with a request ID, reusing the inbound header when
// the client supplies one, and logged once the response is written.
func (s *Server) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	start := time.Now()

	requestID := req.Header.Get(RequestIDHeader)
	if requestID == "" {
		requestID = uuid.New().String()
	}
	req = req.WithContext(observability.ContextWithRequestID(req.Context(), requestID))
	w.Header().Set(RequestIDHeader, requestID)

	resp := s.router.Load().Dispatch(req)
	if err := resp.Write(w); err != nil {
		s.logger.Error("failed to write response",
			observability.String("requestId", requestID),
			observability.Error(err),
		)
	}

	s.logger.Info("request handled",
		observability.String("requestId", requestID),
		observability.String("method", req.Method),
		observability.String("path", req.URL.Path),
		observability.Int("status", resp.StatusCode),
		observability.Duration("duration", time.Since(start)),
	)
}

// handler builds the top-level mux: the metrics endpoint when
// configured, and the router for everything else.
func (s *Server) handler() http.Handler {
	mux := http.NewServeMux()
	if s.config.MetricsPath != "" {
		mux.Handle(s.config.MetricsPath, promhttp.Handler())
	}
	mux.Handle("/", s)
	return mux
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("server already running")
	}

	s.httpServer = &http.Server{
		Addr:         s.config.Addr,
		Handler:      s.handler(),
		ReadTimeout:  s.config.ReadTimeout.Duration(),
		WriteTimeout: s.config.WriteTimeout.Duration(),
		IdleTimeout:  s.config.IdleTimeout.Duration(),
	}

	s.running = true
	s.mu.Unlock()

	s.logger.Info("starting HTTP server",
		observability.String("address", s.config.Addr),
		observability.Duration("readTimeout", s.config.ReadTimeout.Duration()),
		observability.Duration("writeTimeout", s.config.WriteTimeout.Duration()),
	)

	err := s.httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Stop stops the HTTP server gracefully.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	s.logger.Info("stopping HTTP server")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	s.mu.Lock()
	s.running = false
	s.mu.Unlock()

	s.logger.Info("HTTP server stopped")
	return nil
}

// IsRunning returns whether the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}
