package ports

import (
	"context"

	"github.com/jsamuelsen11/go-accounts-service/internal/domain/result"
)

// Request is a command or query value routed by a Dispatcher. Routing is by
// the request's exact dynamic type; RequestName is used only for logs,
// traces, and metrics.
type Request interface {
	// RequestName returns a stable identifier such as "accounts.CreateAccount".
	RequestName() string
}

// Dispatcher is the inbound port transport adapters call. Implemented by the
// application runtime.
type Dispatcher interface {
	// Execute routes req to the handler registered for its concrete type and
	// returns that handler's Result unchanged. An unregistered type yields
	// Failure(domain.ErrUnsupportedOperation); an already-cancelled ctx yields
	// Failure(domain.ErrCanceled).
	Execute(ctx context.Context, req Request) result.Result[any]
}
