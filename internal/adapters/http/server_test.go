package http_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"time"

	adapthttp "github.com/jsamuelsen11/go-accounts-service/internal/adapters/http"
	"github.com/jsamuelsen11/go-accounts-service/internal/platform/config"
	"github.com/jsamuelsen11/go-accounts-service/internal/platform/logging"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func loopback() config.ServerConfig {
	return config.ServerConfig{
		Host:         "127.0.0.1",
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
		IdleTimeout:  30 * time.Second,
	}
}

// serve starts s in the background and returns a func that shuts it down
// and reports what Start returned.
func serve(t *testing.T, s *adapthttp.Server) func(context.Context) error {
	t.Helper()

	if err := s.Listen(context.Background()); err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	done := make(chan error, 1)
	go func() { done <- s.Start() }()

	return func(ctx context.Context) error {
		if err := s.Shutdown(ctx); err != nil {
			t.Fatalf("Shutdown() error = %v", err)
		}
		return <-done
	}
}

func TestServer_Addr(t *testing.T) {
	t.Parallel()

	s := adapthttp.NewServer(config.ServerConfig{Host: "127.0.0.1", Port: 9090}, http.NotFoundHandler(), nil)
	if got := s.Addr(); got != "127.0.0.1:9090" {
		t.Errorf("Addr() before Listen = %q, want 127.0.0.1:9090", got)
	}
}

func TestServer_RoundTrip(t *testing.T) {
	t.Parallel()

	sawLogger := make(chan bool, 1)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawLogger <- logging.FromContext(r.Context()) != slog.Default()
		_, _ = io.WriteString(w, "ok")
	})
	s := adapthttp.NewServer(loopback(), handler, discardLogger())
	stop := serve(t, s)

	if strings.HasSuffix(s.Addr(), ":0") {
		t.Fatalf("Addr() = %q, want the bound port", s.Addr())
	}

	resp, err := http.Get("http://" + s.Addr() + "/")
	if err != nil {
		t.Fatalf("GET error = %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()

	if string(body) != "ok" {
		t.Errorf("body = %q, want ok", body)
	}
	if !<-sawLogger {
		t.Error("request context did not carry the server logger")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := stop(ctx); err != nil {
		t.Errorf("Start() after graceful shutdown = %v, want nil", err)
	}
}

func TestServer_ShutdownWithoutDeadline(t *testing.T) {
	t.Parallel()

	s := adapthttp.NewServer(loopback(), http.NotFoundHandler(), discardLogger())
	stop := serve(t, s)

	if err := stop(context.Background()); err != nil {
		t.Errorf("Start() after graceful shutdown = %v, want nil", err)
	}
}

func TestServer_ListenTwiceKeepsFirstBinding(t *testing.T) {
	t.Parallel()

	s := adapthttp.NewServer(loopback(), http.NotFoundHandler(), discardLogger())
	stop := serve(t, s)
	first := s.Addr()

	if err := s.Listen(context.Background()); err != nil {
		t.Fatalf("second Listen() error = %v", err)
	}
	if s.Addr() != first {
		t.Errorf("Addr() = %q after second Listen, want %q", s.Addr(), first)
	}
	if err := stop(context.Background()); err != nil {
		t.Errorf("Start() after graceful shutdown = %v, want nil", err)
	}
}

func TestServer_BindFailure(t *testing.T) {
	t.Parallel()

	s := adapthttp.NewServer(config.ServerConfig{Host: "256.0.0.1", Port: 1}, http.NotFoundHandler(), discardLogger())
	if err := s.Start(); err == nil || !strings.Contains(err.Error(), "binding") {
		t.Fatalf("Start() error = %v, want a binding error", err)
	}
}
