package benchmark

import (
	"context"
	"runtime"
	"sync"

	"github.com/inodb/vibe-pheval/internal/standardise"
)

// WorkItem holds a raw result file ready for standardisation.
type WorkItem struct {
	Seq  int
	Path string
}

// WorkResult holds the standardised output of a single file.
type WorkResult struct {
	Seq    int
	Path   string
	Result *standardise.Result
	Err    error
}

// feed sends paths as sequence-numbered work items until ctx is done.
func feed(ctx context.Context, paths []string) <-chan WorkItem {
	items := make(chan WorkItem)
	go func() {
		defer close(items)
		for i, p := range paths {
			select {
			case items <- WorkItem{Seq: i, Path: p}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return items
}

// ParallelStandardise standardises work items using a pool of workers.
// Results are sent to the returned channel in arrival order (not sequence order).
// Use OrderedCollect to consume results in sequence-number order.
// If workers is 0, runtime.NumCPU() is used.
func (r *Runner) ParallelStandardise(items <-chan WorkItem, workers int) <-chan WorkResult {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make(chan WorkResult, 2*workers)

	var wg sync.WaitGroup
	wg.Add(workers)

	for range workers {
		go func() {
			defer wg.Done()
			for item := range items {
				res, err := r.loadResult(item.Path)
				results <- WorkResult{
					Seq:    item.Seq,
					Path:   item.Path,
					Result: res,
					Err:    err,
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

// OrderedCollect calls fn for each result in sequence-number order.
// It buffers out-of-order results in a pending map and emits them
// as soon as the next expected sequence number is available.
// Blocks until the results channel is closed.
func OrderedCollect(results <-chan WorkResult, fn func(WorkResult) error) error {
	pending := make(map[int]WorkResult)
	nextSeq := 0

	for res := range results {
		pending[res.Seq] = res

		for {
			rr, ok := pending[nextSeq]
			if !ok {
				break
			}
			delete(pending, nextSeq)
			nextSeq++
			if err := fn(rr); err != nil {
				// Drain remaining results to unblock workers.
				for range results {
				}
				return err
			}
		}
	}

	return nil
}
