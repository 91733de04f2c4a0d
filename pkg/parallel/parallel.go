// Package parallel provides fan-out helpers for the data-parallel parts of
// the pipeline: per-point radius estimation and per-segment measurement are
// independent work over read-only shared inputs, so items are sharded into
// contiguous chunks with private outputs merged back in input order.
package parallel

import (
	"sync"
)

// ForEachChunk splits [0,n) into at most workers contiguous chunks and calls
// fn(start, end) for each chunk on its own goroutine. fn must only write to
// per-index private state; ForEachChunk provides no synchronization beyond
// the final join.
func ForEachChunk(n, workers int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	if workers <= 0 {
		workers = 1
	}
	if workers > n {
		workers = n
	}
	if workers == 1 {
		fn(0, n)
		return
	}

	chunk := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunk {
		end := start + chunk
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}
