// Package parallel provides the data-parallel fan-out/fan-in helpers used
// by the filter implementations. Workers always write disjoint regions of
// the destination, so the helpers carry no locking; the only
// synchronization is the join barrier before returning.
package parallel

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Workers normalizes a requested worker count. Zero or negative requests
// fall back to GOMAXPROCS.
func Workers(requested int) int {
	if requested > 0 {
		return requested
	}
	return runtime.GOMAXPROCS(0)
}

// Rows splits [0, rows) into contiguous chunks and runs fn over each chunk
// on a fixed-size worker pool. fn receives a half-open [rowStart, rowEnd)
// range; ranges never overlap. Returns the first error and waits for all
// workers before returning.
func Rows(ctx context.Context, rows, workers int, fn func(rowStart, rowEnd int) error) error {
	if rows <= 0 {
		return nil
	}

	workers = Workers(workers)
	if workers > rows {
		workers = rows
	}

	chunk := (rows + workers - 1) / workers

	group, _ := errgroup.WithContext(ctx)
	for start := 0; start < rows; start += chunk {
		end := start + chunk
		if end > rows {
			end = rows
		}
		rowStart, rowEnd := start, end
		group.Go(func() error {
			return fn(rowStart, rowEnd)
		})
	}

	return group.Wait()
}

// Indexed runs fn(0) .. fn(n-1) concurrently, one goroutine each, and
// joins before returning. Used for channel-level fan-out where n is the
// channel count.
func Indexed(ctx context.Context, n int, fn func(i int) error) error {
	if n <= 0 {
		return nil
	}

	group, _ := errgroup.WithContext(ctx)
	for i := 0; i < n; i++ {
		idx := i
		group.Go(func() error {
			return fn(idx)
		})
	}

	return group.Wait()
}
