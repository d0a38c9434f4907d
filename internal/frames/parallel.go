package frames

import (
	"context"
	"runtime"
	"sync"
)

// RunParallel computes all frames on a bounded worker pool and returns them
// in index order. workers <= 0 uses one worker per CPU. The result is
// identical to Run: frame construction is pure, so scheduling cannot change
// the output.
func (s *Sequencer) RunParallel(ctx context.Context, workers int) ([]*FrameRecord, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > s.total {
		workers = s.total
	}

	records := make([]*FrameRecord, s.total)
	errs := make([]error, s.total)
	indices := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indices {
				records[i], errs[i] = s.Frame(i)
			}
		}()
	}

feed:
	for i := 0; i < s.total; i++ {
		select {
		case <-ctx.Done():
			break feed
		case indices <- i:
		}
	}
	close(indices)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return records, nil
}
