// Package parallel provides small goroutine fan-out helpers used by the
// forest trainer and the pipeline's concurrent model fits.
package parallel

import (
	"runtime"
	"sync"
)

// Chunked splits items into contiguous ranges, one per worker, and runs fn
// on each range concurrently. Workers never exceed the CPU count.
func Chunked(items int, fn func(start, end int)) {
	if items == 0 {
		return
	}

	numWorkers := runtime.NumCPU()
	if numWorkers > items {
		numWorkers = items
	}
	chunkSize := (items + numWorkers - 1) / numWorkers

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		start := i * chunkSize
		end := start + chunkSize
		if end > items {
			end = items
		}
		if start >= end {
			continue
		}
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}

// ForEach runs fn once per index concurrently and returns the per-index
// errors. Each index owns its own slot, so fn needs no synchronization of
// its own results.
func ForEach(items int, fn func(i int) error) []error {
	errs := make([]error, items)
	var wg sync.WaitGroup
	for i := 0; i < items; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = fn(i)
		}(i)
	}
	wg.Wait()
	return errs
}
