package adapters

import (
	"context"
	"sync"

	"github.com/atniclimate/tcr-policy-scanner/internal/model"
)

// MaxConcurrentFetches bounds how many adapter fetches may be in flight at
// once. Spec.md §5: concurrency is confined to adapter network I/O; the
// rest of the pipeline is single-threaded.
const MaxConcurrentFetches = 4

// FetchAll runs every adapter's Fetch concurrently, bounded by
// MaxConcurrentFetches, and returns their combined raw items. This is the
// only concurrent surface in the pipeline: callers downstream of FetchAll
// see a single synchronous slice, same as the teacher's swarm poller
// presents a synchronous Changes() channel to its callers.
func FetchAll(ctx context.Context, adapterList []Adapter, windowDays int, programs []ProgramHint) []model.RawItem {
	sem := make(chan struct{}, MaxConcurrentFetches)
	results := make([][]model.RawItem, len(adapterList))

	var wg sync.WaitGroup
	for i, a := range adapterList {
		wg.Add(1)
		go func(i int, a Adapter) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[i] = a.Fetch(ctx, windowDays, programs)
		}(i, a)
	}
	wg.Wait()

	var all []model.RawItem
	for _, r := range results {
		all = append(all, r...)
	}
	return all
}
