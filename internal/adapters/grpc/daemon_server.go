package grpc

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"google.golang.org/grpc"

	"github.com/andrescamacho/focusplanner/internal/adapters/metrics"
	"github.com/andrescamacho/focusplanner/internal/application/logging"
	"github.com/andrescamacho/focusplanner/internal/application/mediator"
	"github.com/andrescamacho/focusplanner/internal/application/recipes"
	"github.com/andrescamacho/focusplanner/internal/domain/recipe"
	"github.com/andrescamacho/focusplanner/internal/infrastructure/config"
)

const defaultShutdownTimeout = 10 * time.Second

// ServerOptions tune the daemon server
type ServerOptions struct {
	Logger          logging.Logger
	RateLimit       config.RateLimitConfig
	ShutdownTimeout time.Duration

	// RecordRuns stores a plan history entry for every successful evaluation
	RecordRuns bool
}

// DaemonServer implements the planner gRPC service.
// It answers plan requests against the graph held in graphs and reloads the
// recipe book on request without blocking in-flight evaluations.
type DaemonServer struct {
	mediator mediator.Mediator
	book     *recipes.Book
	graphs   *GraphHolder
	options  ServerOptions

	listener   net.Listener
	grpcServer *grpc.Server

	reloadMu sync.Mutex

	// Shutdown coordination
	shutdownChan chan os.Signal
	stopChan     chan struct{}
	stopOnce     sync.Once
	done         chan struct{}
}

// Listen opens the daemon listener. Addresses of the form unix:///path bind a
// Unix domain socket readable by the owner only; anything else is a TCP host:port.
func Listen(address string) (net.Listener, error) {
	if socketPath, ok := strings.CutPrefix(address, "unix://"); ok {
		// Remove existing socket file if present
		if err := os.RemoveAll(socketPath); err != nil {
			return nil, fmt.Errorf("failed to remove existing socket: %w", err)
		}

		listener, err := net.Listen("unix", socketPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create unix socket listener: %w", err)
		}

		if err := os.Chmod(socketPath, 0600); err != nil {
			listener.Close()
			return nil, fmt.Errorf("failed to set socket permissions: %w", err)
		}
		return listener, nil
	}

	listener, err := net.Listen("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", address, err)
	}
	return listener, nil
}

// NewDaemonServer creates a daemon server on listener.
// med must have been built with graphs as its graph provider.
func NewDaemonServer(
	med mediator.Mediator,
	book *recipes.Book,
	graphs *GraphHolder,
	listener net.Listener,
	options ServerOptions,
) *DaemonServer {
	if options.ShutdownTimeout <= 0 {
		options.ShutdownTimeout = defaultShutdownTimeout
	}

	server := &DaemonServer{
		mediator:     med,
		book:         book,
		graphs:       graphs,
		options:      options,
		listener:     listener,
		shutdownChan: make(chan os.Signal, 1),
		stopChan:     make(chan struct{}),
		done:         make(chan struct{}),
	}

	server.grpcServer = grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			LoggingInterceptor(options.Logger),
			RateLimitInterceptor(newLimiter(options.RateLimit.Requests, options.RateLimit.Burst)),
		),
	)
	RegisterPlannerServer(server.grpcServer, newPlannerService(server))

	// Setup signal handling
	signal.Notify(server.shutdownChan, os.Interrupt, syscall.SIGTERM)

	return server
}

// Addr returns the listener address
func (s *DaemonServer) Addr() net.Addr {
	return s.listener.Addr()
}

// Start serves gRPC requests until a shutdown signal or Stop
func (s *DaemonServer) Start() error {
	s.log(logging.LevelInfo, "daemon server listening", map[string]interface{}{
		"address": s.listener.Addr().String(),
		"recipes": s.graphs.Len(),
	})

	go s.handleShutdown()

	errChan := make(chan error, 1)
	go func() {
		if err := s.grpcServer.Serve(s.listener); err != nil {
			errChan <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	select {
	case err := <-errChan:
		s.Stop()
		<-s.done
		s.grpcServer.Stop()
		return err
	case <-s.done:
		s.gracefulStop()
		return nil
	}
}

// Stop asks a running server to shut down gracefully
func (s *DaemonServer) Stop() {
	s.stopOnce.Do(func() { close(s.stopChan) })
}

func (s *DaemonServer) handleShutdown() {
	select {
	case <-s.shutdownChan:
		s.log(logging.LevelInfo, "shutdown signal received, stopping daemon", nil)
	case <-s.stopChan:
	}
	signal.Stop(s.shutdownChan)
	close(s.done)
}

// gracefulStop drains in-flight requests, forcing the stop after the shutdown timeout
func (s *DaemonServer) gracefulStop() {
	stopped := make(chan struct{})
	go func() {
		s.grpcServer.GracefulStop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(s.options.ShutdownTimeout):
		s.log(logging.LevelWarn, "graceful shutdown timed out, forcing stop", map[string]interface{}{
			"timeout": s.options.ShutdownTimeout.String(),
		})
		s.grpcServer.Stop()
	}
}

// Reload re-reads the recipe book from its repository and swaps the served graph.
// Evaluations already running keep the graph they started with.
func (s *DaemonServer) Reload(ctx context.Context) (recipe.LoadResult, error) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	result, err := s.book.Load(ctx)
	if err != nil {
		metrics.RecordReload(0, false)
		return recipe.LoadResult{}, err
	}

	s.graphs.Swap(s.book.Graph())
	metrics.RecordReload(result.Loaded, true)

	s.log(logging.LevelInfo, "recipe book reloaded", map[string]interface{}{
		"loaded":  result.Loaded,
		"dropped": len(result.Dropped),
	})
	return result, nil
}

func (s *DaemonServer) log(level, message string, metadata map[string]interface{}) {
	if s.options.Logger == nil {
		return
	}
	s.options.Logger.Log(level, message, metadata)
}
