package metrics

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/andrescamacho/focusplanner/internal/infrastructure/config"
)

// Server exposes the global registry over HTTP for Prometheus to scrape
type Server struct {
	cfg      config.MetricsConfig
	server   *http.Server
	listener net.Listener
}

// NewServer creates a metrics server for the configured host, port and path
func NewServer(cfg config.MetricsConfig) *Server {
	path := cfg.Path
	if path == "" {
		path = "/metrics"
	}
	cfg.Path = path

	mux := http.NewServeMux()
	mux.Handle(path, Handler())

	return &Server{
		cfg: cfg,
		server: &http.Server{
			Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Handler serves the global registry, or an empty one when metrics are disabled
func Handler() http.Handler {
	if Registry == nil {
		return promhttp.HandlerFor(prometheus.NewRegistry(), promhttp.HandlerOpts{})
	}
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// Start binds the listener and serves in the background
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("failed to bind metrics server on %s: %w", s.server.Addr, err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Printf("Metrics server error: %v\n", err)
		}
	}()

	return nil
}

// Addr returns the bound address, useful when the configured port was 0
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.server.Addr
	}
	return s.listener.Addr().String()
}

// Path returns the metrics endpoint path
func (s *Server) Path() string {
	return s.cfg.Path
}

// Shutdown stops the server, waiting for in-flight scrapes until ctx expires
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
