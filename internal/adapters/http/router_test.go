package http_test

import (
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	adapthttp "github.com/jsamuelsen11/go-accounts-service/internal/adapters/http"
	"github.com/jsamuelsen11/go-accounts-service/internal/adapters/http/dto"
	"github.com/jsamuelsen11/go-accounts-service/internal/adapters/http/handlers"
	"github.com/jsamuelsen11/go-accounts-service/internal/domain"
	"github.com/jsamuelsen11/go-accounts-service/internal/domain/result"
	"github.com/jsamuelsen11/go-accounts-service/mocks"
)

type routerDeps struct {
	dispatcher *mocks.MockDispatcher
	registry   *mocks.MockHealthRegistry
}

func newRouter(t *testing.T, middlewares ...func(http.Handler) http.Handler) (http.Handler, routerDeps) {
	t.Helper()

	deps := routerDeps{
		dispatcher: mocks.NewMockDispatcher(t),
		registry:   mocks.NewMockHealthRegistry(t),
	}
	router := adapthttp.NewRouter(
		handlers.NewAccountHandler(deps.dispatcher),
		handlers.NewHealthHandler(deps.registry, dto.ServiceInfo{Name: "accounts-service"}),
		middlewares...,
	)
	return router, deps
}

func TestRouter_Routes(t *testing.T) {
	t.Parallel()

	router, _ := newRouter(t)
	mux, ok := router.(*chi.Mux)
	if !ok {
		t.Fatalf("router is %T, want *chi.Mux", router)
	}

	var got []string
	if err := chi.Walk(mux, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		got = append(got, method+" "+route)
		return nil
	}); err != nil {
		t.Fatalf("chi.Walk() error = %v", err)
	}

	for _, want := range []string{
		"GET /health/live",
		"GET /health/ready",
		"POST /api/v1/accounts/",
		"GET /api/v1/accounts/",
		"GET /api/v1/accounts/{id}",
		"PATCH /api/v1/accounts/{id}",
		"DELETE /api/v1/accounts/{id}",
	} {
		if !slices.Contains(got, want) {
			t.Errorf("route %q missing; registered %v", want, got)
		}
	}
}

func TestRouter_Dispatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		method      string
		target      string
		body        string
		expect      func(routerDeps)
		wantStatus  int
		wantProblem bool
	}{
		{
			name:   "readiness",
			method: http.MethodGet,
			target: "/health/ready",
			expect: func(d routerDeps) {
				d.registry.EXPECT().CheckAll(mock.Anything).Return(map[string]error{})
			},
			wantStatus: http.StatusOK,
		},
		{
			name:   "account lookup reaches the dispatcher",
			method: http.MethodGet,
			target: "/api/v1/accounts/" + uuid.NewString(),
			expect: func(d routerDeps) {
				d.dispatcher.EXPECT().Execute(mock.Anything, mock.Anything).
					Return(result.Failure[any](domain.ErrNotFound))
			},
			wantStatus:  http.StatusNotFound,
			wantProblem: true,
		},
		{
			name:        "create without trailing slash",
			method:      http.MethodPost,
			target:      "/api/v1/accounts",
			body:        "{bad",
			wantStatus:  http.StatusBadRequest,
			wantProblem: true,
		},
		{
			name:        "unknown path",
			method:      http.MethodGet,
			target:      "/api/v2/things",
			wantStatus:  http.StatusNotFound,
			wantProblem: true,
		},
		{
			name:       "unsupported method",
			method:     http.MethodPut,
			target:     "/api/v1/accounts/" + uuid.NewString(),
			wantStatus: http.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			router, deps := newRouter(t)
			if tt.expect != nil {
				tt.expect(deps)
			}

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.target, strings.NewReader(tt.body)))

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d; body = %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if ct := rec.Header().Get("Content-Type"); tt.wantProblem && ct != dto.ProblemContentType {
				t.Errorf("Content-Type = %q, want %q", ct, dto.ProblemContentType)
			}
		})
	}
}

func TestRouter_AppliesMiddleware(t *testing.T) {
	t.Parallel()

	tag := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Tagged", "yes")
			next.ServeHTTP(w, r)
		})
	}
	router, _ := newRouter(t, tag)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", http.NoBody))

	if rec.Header().Get("X-Tagged") != "yes" {
		t.Error("middleware did not run for /health/live")
	}
}
