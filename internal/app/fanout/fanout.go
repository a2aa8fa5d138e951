// Package fanout runs a function over a slice of items with bounded
// concurrency and reports one outcome per item, in input order. Failures are
// collected, never short-circuited: callers decide which errors are fatal.
package fanout

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Outcome is what fn produced for one item: Value when Err is nil.
type Outcome[R any] struct {
	Value R
	Err   error
}

// Map calls fn for every item with at most limit calls in flight and returns
// the outcomes indexed like items. A limit below 1 runs every item at once.
//
// An item whose turn arrives after ctx is done is not passed to fn; its
// outcome carries ctx.Err(). Calls already running are left to observe ctx
// themselves.
func Map[T, R any](ctx context.Context, limit int, items []T, fn func(context.Context, T) (R, error)) []Outcome[R] {
	outcomes := make([]Outcome[R], len(items))
	if len(items) == 0 {
		return outcomes
	}

	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, item := range items {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				outcomes[i].Err = err
				return nil
			}
			v, err := fn(ctx, item)
			outcomes[i] = Outcome[R]{Value: v, Err: err}
			return nil
		})
	}

	// Every closure returns nil; per-item errors live in outcomes.
	_ = g.Wait()
	return outcomes
}
