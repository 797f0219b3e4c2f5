// Package pipeline provides the bounded worker pool every stage command
// uses to process records in parallel while preserving input order
// (§5: "coarse-grained data parallelism by worker pool", order
// preserved by index, never completion order).
package pipeline

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Item is one input record paired with its 1-based line number, the
// unit Map processes.
type Item[T any] struct {
	Line int
	Rec  T
}

// Map runs fn over every item in items using up to processes concurrent
// goroutines, one errgroup.Group with a bounded limit, and returns
// results in input order regardless of completion order. A non-nil
// error from any fn call cancels the context passed to the other calls
// and is returned; calls not yet started still run.
func Map[T, R any](ctx context.Context, processes int, items []Item[T], fn func(ctx context.Context, line int, rec T) (R, error)) ([]R, error) {
	if processes < 1 {
		processes = 1
	}

	out := make([]R, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(processes)

	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			r, err := fn(gctx, item.Line, item.Rec)
			if err != nil {
				return err
			}
			out[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
