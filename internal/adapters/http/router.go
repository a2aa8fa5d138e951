// Package http is the inbound REST adapter: the chi router over the account
// and health handlers, and the Server that runs it.
package http

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jsamuelsen11/go-accounts-service/internal/adapters/http/dto"
	"github.com/jsamuelsen11/go-accounts-service/internal/adapters/http/handlers"
	"github.com/jsamuelsen11/go-accounts-service/internal/domain"
)

// NewRouter mounts the health probes and /api/v1/accounts behind
// middlewares, outermost first. Paths with no route answer with a NOT_FOUND
// problem rather than chi's plain-text 404.
func NewRouter(
	accountHandler *handlers.AccountHandler,
	healthHandler *handlers.HealthHandler,
	middlewares ...func(http.Handler) http.Handler,
) http.Handler {
	r := chi.NewRouter()

	for _, mw := range middlewares {
		r.Use(mw)
	}

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		dto.WriteErrorResponse(w, req, fmt.Errorf("%w: no route for %s", domain.ErrNotFound, req.URL.Path))
	})

	r.Get("/health/live", healthHandler.Liveness)
	r.Get("/health/ready", healthHandler.Readiness)

	r.Route("/api/v1/accounts", func(r chi.Router) {
		r.Post("/", accountHandler.CreateAccount)
		r.Get("/", accountHandler.GetAccounts)
		r.Get("/{id}", accountHandler.GetAccount)
		r.Patch("/{id}", accountHandler.RenameAccount)
		r.Delete("/{id}", accountHandler.DeleteAccount)
	})

	return r
}
