package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/jsamuelsen11/go-accounts-service/internal/platform/config"
	"github.com/jsamuelsen11/go-accounts-service/internal/platform/logging"
)

const (
	readHeaderTimeout = 5 * time.Second
	drainTimeout      = 10 * time.Second
)

// Server owns the listener and http.Server for the accounts API. Listen and
// Serve are split so the caller can log the bound address (port 0 in tests)
// before blocking.
type Server struct {
	http   *http.Server
	logger *slog.Logger

	mu sync.Mutex
	ln net.Listener
}

func NewServer(cfg config.ServerConfig, handler http.Handler, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := &Server{logger: logger}
	s.http = &http.Server{
		Addr:              net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Handler:           handler,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
		BaseContext: func(net.Listener) context.Context {
			return logging.WithLogger(context.Background(), logger)
		},
	}
	return s
}

// Listen binds the configured address. Repeated calls are no-ops.
func (s *Server) Listen(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ln != nil {
		return nil
	}
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.http.Addr)
	if err != nil {
		return fmt.Errorf("binding %s: %w", s.http.Addr, err)
	}
	s.ln = ln
	return nil
}

// Start serves until Shutdown, binding first when Listen was not called. A
// graceful stop returns nil.
func (s *Server) Start() error {
	if err := s.Listen(context.Background()); err != nil {
		return err
	}

	s.logger.Info("serving HTTP", slog.String("addr", s.Addr()))
	err := s.http.Serve(s.listener())
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return fmt.Errorf("serving HTTP: %w", err)
}

// Shutdown stops accepting connections and waits for in-flight requests.
// Without a deadline on ctx it waits at most drainTimeout.
func (s *Server) Shutdown(ctx context.Context) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, drainTimeout)
		defer cancel()
	}

	s.logger.Info("draining HTTP server")
	return s.http.Shutdown(ctx)
}

// Addr is the bound address after Listen, the configured one before.
func (s *Server) Addr() string {
	if ln := s.listener(); ln != nil {
		return ln.Addr().String()
	}
	return s.http.Addr
}

func (s *Server) listener() net.Listener {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ln
}
