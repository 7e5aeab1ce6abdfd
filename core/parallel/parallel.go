// Package parallel provides the CPU fan-out helpers shared by array kernels
// and the model-selection drivers.
package parallel

import (
	"context"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Parallelize splits [0, items) into one contiguous chunk per CPU core and
// runs fn(start, end) for each chunk concurrently, returning when all finish.
func Parallelize(items int, fn func(start, end int)) {
	if items <= 0 {
		return
	}

	numWorkers := runtime.NumCPU()
	if numWorkers > items {
		numWorkers = items
	}
	// ceiling division
	chunkSize := (items + numWorkers - 1) / numWorkers

	var wg sync.WaitGroup
	for start := 0; start < items; start += chunkSize {
		end := start + chunkSize
		if end > items {
			end = items
		}
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}

// ParallelizeWithThreshold runs fn(0, items) inline when items <= threshold
// and falls back to Parallelize otherwise.
func ParallelizeWithThreshold(items int, threshold int, fn func(start, end int)) {
	if items <= threshold {
		if items > 0 {
			fn(0, items)
		}
		return
	}
	Parallelize(items, fn)
}

// Workers resolves a scikit-learn style n_jobs value: -1 (or any value < 1)
// means one worker per CPU core.
func Workers(nJobs int) int {
	if nJobs < 1 {
		return runtime.NumCPU()
	}
	return nJobs
}

// ForEach calls fn for every i in [0, n) with at most Workers(nJobs) calls in
// flight. The first error cancels the context passed to the remaining calls
// and is returned once every started call has finished.
func ForEach(ctx context.Context, n, nJobs int, fn func(ctx context.Context, i int) error) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(Workers(nJobs))

	for i := 0; i < n; i++ {
		if gctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(gctx, i)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
