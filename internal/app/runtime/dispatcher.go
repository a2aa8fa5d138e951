// Package runtime provides the command/query dispatcher: a Registry that maps
// concrete request types to handlers during startup, and the immutable
// Dispatcher built from it that routes requests at run time.
//
// Composition happens once, at process start:
//
//	reg := runtime.NewRegistry()
//	reg.Use(runtime.Recovery(logger), runtime.Logging(logger))
//	runtime.MustRegister(reg, handlers.CreateAccount)
//	runtime.MustRegister(reg, handlers.GetAccount)
//	dispatcher := reg.Build()
//
// Transport adapters then call dispatcher.Execute (or the typed Execute
// helper) from any number of goroutines. The Dispatcher holds no per-request
// state and takes no locks.
package runtime

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"

	"github.com/jsamuelsen11/go-accounts-service/internal/domain"
	"github.com/jsamuelsen11/go-accounts-service/internal/domain/result"
	"github.com/jsamuelsen11/go-accounts-service/internal/ports"
)

// Compile-time check that Dispatcher implements ports.Dispatcher.
var _ ports.Dispatcher = (*Dispatcher)(nil)

// ErrDuplicateHandler is returned by Register when a handler is already
// registered for the request type. It indicates a composition bug and must
// abort startup.
var ErrDuplicateHandler = errors.New("runtime: duplicate handler registration")

// ErrInvalidHandler is returned by Register for a nil handler or a request
// type that can never be routed (an interface type).
var ErrInvalidHandler = errors.New("runtime: invalid handler registration")

// HandlerFunc is the type-erased handler signature stored by the Dispatcher
// and seen by middleware.
type HandlerFunc func(ctx context.Context, req ports.Request) result.Result[any]

// Handler is a typed handler for requests of concrete type Q producing a
// payload of type R.
type Handler[Q ports.Request, R any] func(ctx context.Context, req Q) result.Result[R]

// Middleware wraps a HandlerFunc with cross-cutting behavior.
type Middleware func(next HandlerFunc) HandlerFunc

type registration struct {
	name string
	fn   HandlerFunc
}

// Registry collects handler registrations during startup. It is not safe for
// concurrent use; build it from a single goroutine, then call Build.
type Registry struct {
	handlers    map[reflect.Type]registration
	middlewares []Middleware
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[reflect.Type]registration)}
}

// Register associates handler with the concrete request type Q. Routing
// matches Q exactly: registering CreateAccount does not route
// *CreateAccount, and there is no fallback between types.
//
// Returns ErrDuplicateHandler if Q already has a handler and
// ErrInvalidHandler if handler is nil or Q is an interface type.
func Register[Q ports.Request, R any](reg *Registry, handler Handler[Q, R]) error {
	t := reflect.TypeFor[Q]()
	if t.Kind() == reflect.Interface {
		return fmt.Errorf("%w: request type %s is an interface", ErrInvalidHandler, t)
	}
	if handler == nil {
		return fmt.Errorf("%w: nil handler for %s", ErrInvalidHandler, t)
	}
	if existing, dup := reg.handlers[t]; dup {
		return fmt.Errorf("%w: %s already handled by %s", ErrDuplicateHandler, t, existing.name)
	}

	reg.handlers[t] = registration{
		name: t.String(),
		fn: func(ctx context.Context, req ports.Request) result.Result[any] {
			q, ok := req.(Q)
			if !ok {
				return result.Failure[any](fmt.Errorf("%w: %T routed to handler for %s",
					domain.ErrUnsupportedOperation, req, t))
			}
			return erase(handler(ctx, q))
		},
	}
	return nil
}

// MustRegister is like Register but panics on error. Use it in startup
// composition where a registration failure means a broken deployment.
func MustRegister[Q ports.Request, R any](reg *Registry, handler Handler[Q, R]) {
	if err := Register(reg, handler); err != nil {
		panic(err)
	}
}

// Use appends middleware. The first middleware added is the outermost.
func (r *Registry) Use(middlewares ...Middleware) {
	r.middlewares = append(r.middlewares, middlewares...)
}

// Registered returns the registered request type names in sorted order.
func (r *Registry) Registered() []string {
	names := make([]string, 0, len(r.handlers))
	for _, reg := range r.handlers {
		names = append(names, reg.name)
	}
	sort.Strings(names)
	return names
}

// Build returns an immutable Dispatcher holding a snapshot of the current
// registrations, each wrapped in the middleware chain. Registrations made
// after Build do not affect the returned Dispatcher.
func (r *Registry) Build() *Dispatcher {
	handlers := make(map[reflect.Type]HandlerFunc, len(r.handlers))
	for t, reg := range r.handlers {
		handlers[t] = r.wrap(guardCanceled(reg.fn))
	}

	return &Dispatcher{
		handlers:    handlers,
		unsupported: r.wrap(guardCanceled(unsupported)),
	}
}

// wrap applies the middleware chain so that middlewares[0] runs first.
func (r *Registry) wrap(fn HandlerFunc) HandlerFunc {
	for i := len(r.middlewares) - 1; i >= 0; i-- {
		fn = r.middlewares[i](fn)
	}
	return fn
}

// Dispatcher routes requests to handlers by concrete type. It is read-only
// after construction and safe for concurrent use.
type Dispatcher struct {
	handlers    map[reflect.Type]HandlerFunc
	unsupported HandlerFunc
}

// Execute implements ports.Dispatcher. The handler's Result is returned
// unmodified; the Dispatcher never inspects payloads or errors.
func (d *Dispatcher) Execute(ctx context.Context, req ports.Request) result.Result[any] {
	if isNil(req) {
		return result.Failure[any](fmt.Errorf("%w: nil request %T", domain.ErrUnsupportedOperation, req))
	}

	if fn, ok := d.handlers[reflect.TypeOf(req)]; ok {
		return fn(ctx, req)
	}
	return d.unsupported(ctx, req)
}

// Handles reports whether a handler is registered for req's concrete type.
func (d *Dispatcher) Handles(req ports.Request) bool {
	if isNil(req) {
		return false
	}
	_, ok := d.handlers[reflect.TypeOf(req)]
	return ok
}

// Execute dispatches req and narrows the payload to R. A payload of another
// type means the request was wired to the wrong handler and is reported as
// Failure(domain.ErrUnsupportedOperation).
func Execute[R any](ctx context.Context, d ports.Dispatcher, req ports.Request) result.Result[R] {
	res := d.Execute(ctx, req)
	if !res.IsSuccess() {
		return result.Propagate[R](res)
	}

	payload, ok := res.Payload().(R)
	if !ok {
		var want R
		return result.Failure[R](fmt.Errorf("%w: %s returned %T, caller expected %T",
			domain.ErrUnsupportedOperation, req.RequestName(), res.Payload(), want))
	}
	return result.Success(payload)
}

// unsupported is the terminal handler for request types with no registration.
func unsupported(_ context.Context, req ports.Request) result.Result[any] {
	return result.Failure[any](fmt.Errorf("%w: no handler registered for %s",
		domain.ErrUnsupportedOperation, req.RequestName()))
}

// guardCanceled short-circuits an already-cancelled or expired context into
// Failure(domain.ErrCanceled) without invoking the handler.
func guardCanceled(next HandlerFunc) HandlerFunc {
	return func(ctx context.Context, req ports.Request) result.Result[any] {
		if err := ctx.Err(); err != nil {
			return result.Failure[any](err)
		}
		return next(ctx, req)
	}
}

// isNil reports whether req is a nil interface or wraps a nil pointer, map,
// slice, func or chan. Such a request carries no data and its RequestName
// may dereference nil, so it is never routed.
func isNil(req ports.Request) bool {
	if req == nil {
		return true
	}
	switch v := reflect.ValueOf(req); v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	default:
		return false
	}
}

// erase converts a typed Result into the dispatcher's Result[any]. The error
// of a Failure passes through unchanged. A zero Result from a handler becomes
// Failure(domain.ErrUnavailable) so middleware and callers only ever see one
// of the two variants.
func erase[R any](r result.Result[R]) result.Result[any] {
	switch {
	case r.IsSuccess():
		return result.Success[any](r.Payload())
	case r.IsFailure():
		return result.Propagate[any](r)
	default:
		return result.Failure[any](fmt.Errorf("%w: handler returned a zero Result", domain.ErrUnavailable))
	}
}
