package middleware_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jsamuelsen11/go-accounts-service/internal/adapters/http/dto"
	"github.com/jsamuelsen11/go-accounts-service/internal/adapters/http/middleware"
)

func TestRecovery(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		handler    http.HandlerFunc
		wantStatus int
		wantBody   string
		wantLogs   []string
	}{
		{
			name:       "no panic",
			handler:    func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("ok")) },
			wantStatus: http.StatusOK,
			wantBody:   "ok",
		},
		{
			name:       "panic before any write",
			handler:    func(http.ResponseWriter, *http.Request) { panic("secret detail") },
			wantStatus: http.StatusInternalServerError,
			wantLogs:   []string{"panic recovered", "secret detail", "stack="},
		},
		{
			name: "panic after headers",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusAccepted)
				panic("late")
			},
			wantStatus: http.StatusAccepted,
			wantLogs:   []string{"panic recovered", "late"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var logs bytes.Buffer
			rec := httptest.NewRecorder()
			middleware.Recovery(testLogger(&logs))(tt.handler).
				ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/accounts", http.NoBody))

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus != http.StatusInternalServerError && rec.Body.String() != tt.wantBody {
				t.Errorf("body = %q, want %q", rec.Body.String(), tt.wantBody)
			}
			for _, want := range tt.wantLogs {
				if !strings.Contains(logs.String(), want) {
					t.Errorf("logs missing %q:\n%s", want, logs.String())
				}
			}
			if len(tt.wantLogs) == 0 && logs.Len() > 0 {
				t.Errorf("unexpected logs:\n%s", logs.String())
			}
		})
	}
}

func TestRecovery_HidesPanicValue(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	middleware.Recovery(discardLogger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("dsn=postgres://admin:hunter2@db")
	})).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/accounts", http.NoBody))

	if ct := rec.Header().Get("Content-Type"); ct != dto.ProblemContentType {
		t.Errorf("Content-Type = %q, want %q", ct, dto.ProblemContentType)
	}
	var problem dto.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&problem); err != nil {
		t.Fatalf("decoding problem: %v", err)
	}
	if problem.Status != http.StatusInternalServerError || strings.Contains(problem.Detail, "hunter2") {
		t.Errorf("problem = %+v, want a generic 500", problem)
	}
}

func TestRecovery_RepanicsAbortHandler(t *testing.T) {
	t.Parallel()

	defer func() {
		err, _ := recover().(error)
		if !errors.Is(err, http.ErrAbortHandler) {
			t.Errorf("recovered %v, want http.ErrAbortHandler", err)
		}
	}()

	middleware.Recovery(discardLogger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	})).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", http.NoBody))
}
