// Package rowsched partitions image rows across workers for parallel
// rendering.
//
// The partition is static and contiguous: each worker owns a disjoint
// range of rows, so workers never contend on output pixels and need no
// locks. Cancellation is cooperative, polled by the per-row callback.
package rowsched

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Range is a half-open row interval [Start, End).
type Range struct {
	Start, End int
}

// Rows returns the number of rows in the range.
func (r Range) Rows() int { return r.End - r.Start }

// Workers returns the worker count for an image of the given height:
// the available hardware concurrency, bounded by the row count, and
// never less than 1.
func Workers(height int) int {
	n := runtime.NumCPU()
	if n > height {
		n = height
	}
	if n < 1 {
		n = 1
	}
	return n
}

// Partition splits [0, height) into up to workers contiguous ranges of
// ceil(height/workers) rows each. The trailing range may be shorter;
// empty ranges are dropped.
func Partition(height, workers int) []Range {
	if height <= 0 {
		return nil
	}
	if workers < 1 {
		workers = 1
	}
	chunk := (height + workers - 1) / workers
	ranges := make([]Range, 0, workers)
	for start := 0; start < height; start += chunk {
		end := start + chunk
		if end > height {
			end = height
		}
		ranges = append(ranges, Range{Start: start, End: end})
	}
	return ranges
}

// Run executes fn once per range, each on its own goroutine, and waits
// for all of them. The first non-nil error is returned; other workers
// still run their ranges to completion (cancellation, if wanted, is
// fn's job via its own abort poll).
func Run(ranges []Range, fn func(r Range) error) error {
	if len(ranges) == 0 {
		return nil
	}
	if len(ranges) == 1 {
		return fn(ranges[0])
	}
	var g errgroup.Group
	for _, r := range ranges {
		g.Go(func() error { return fn(r) })
	}
	return g.Wait()
}
