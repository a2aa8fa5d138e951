package middleware_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/jsamuelsen11/go-accounts-service/internal/adapters/http/middleware"
	"github.com/jsamuelsen11/go-accounts-service/internal/platform/logging"
)

// logLine returns the first line of out containing msg.
func logLine(out, msg string) string {
	for line := range strings.SplitSeq(out, "\n") {
		if strings.Contains(line, msg) {
			return line
		}
	}
	return ""
}

func TestLogging_Entries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		body    string
		msg     string
		wantHas []string
	}{
		{
			name:    "start",
			status:  http.StatusOK,
			msg:     "request started",
			wantHas: []string{"level=INFO", "method=GET", "path=/api/v1/accounts/7"},
		},
		{
			name:    "created",
			status:  http.StatusCreated,
			body:    `{"id":"7"}`,
			msg:     "request completed",
			wantHas: []string{"level=INFO", "status=201", "bytes=10", "route=/api/v1/accounts/{id}", "duration="},
		},
		{
			name:    "not found",
			status:  http.StatusNotFound,
			msg:     "request completed",
			wantHas: []string{"level=WARN", "status=404", "bytes=0"},
		},
		{
			name:    "unavailable",
			status:  http.StatusServiceUnavailable,
			msg:     "request completed",
			wantHas: []string{"level=ERROR", "status=503"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			r := chi.NewRouter()
			r.Use(middleware.Logging(testLogger(&buf)))
			r.Get("/api/v1/accounts/{id}", func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/accounts/7", http.NoBody))

			line := logLine(buf.String(), tt.msg)
			if line == "" {
				t.Fatalf("no %q entry in:\n%s", tt.msg, buf.String())
			}
			for _, want := range tt.wantHas {
				if !strings.Contains(line, want) {
					t.Errorf("%q entry missing %q: %s", tt.msg, want, line)
				}
			}
		})
	}
}

func TestLogging_HandlersInheritRequestLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	handler := chi.Chain(
		middleware.RequestID(),
		middleware.CorrelationID(),
		middleware.Logging(testLogger(&buf)),
	).HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		logging.FromContext(r.Context()).InfoContext(r.Context(), "loading account")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts/7", http.NoBody)
	req.Header.Set("X-Request-ID", "req-7")
	req.Header.Set("X-Correlation-ID", "corr-7")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	line := logLine(buf.String(), "loading account")
	if line == "" {
		t.Fatalf("handler entry not written through the base logger:\n%s", buf.String())
	}
	for _, want := range []string{"request_id=req-7", "correlation_id=corr-7"} {
		if !strings.Contains(line, want) {
			t.Errorf("handler entry missing %q: %s", want, line)
		}
	}
}

func TestLogging_HeadersRedactedAtDebug(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	handler := middleware.Logging(testLogger(&buf))(statusHandler(http.StatusOK))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts", http.NoBody)
	req.Header.Set("Authorization", "Bearer secret-token")
	req.Header.Set("Accept", "application/json")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	line := logLine(buf.String(), "request headers")
	if line == "" {
		t.Fatalf("no header entry at debug level:\n%s", buf.String())
	}
	if strings.Contains(buf.String(), "secret-token") {
		t.Errorf("credential leaked into logs: %s", line)
	}
	if !strings.Contains(line, "Accept=application/json") {
		t.Errorf("header entry missing Accept: %s", line)
	}
}
