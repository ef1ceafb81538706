// Package worker runs indexed jobs on a bounded set of goroutines.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/sohrab4u/consultation/pkg/logger"
	"github.com/sohrab4u/consultation/pkg/metrics"
)

// Task processes job i. Tasks own slot i of whatever output they write to, so
// they need no locking between each other.
type Task func(ctx context.Context, i int)

// Pool fans a fixed number of jobs out to at most size workers.
type Pool struct {
	size   int
	name   string
	logger logger.Logger
}

// NewPool creates a pool sized to the CPU count by default.
func NewPool(opts ...Option) *Pool {
	p := &Pool{
		size: runtime.NumCPU(),
		name: "worker-pool",
	}

	// Apply all options
	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = logger.Get().Named(p.name)
	}

	return p
}

// Size returns the configured number of workers.
func (p *Pool) Size() int { return p.size }

// Run executes task for every index in [0, n) and waits for all of them.
// It returns ErrStopped when ctx is cancelled before every job was handed
// out; jobs already started still finish.
func (p *Pool) Run(ctx context.Context, n int, task Task) error {
	if n <= 0 {
		return nil
	}

	count := p.size
	if count > n {
		count = n
	}
	metrics.UpdateWorkerActiveCount(count)
	defer metrics.UpdateWorkerActiveCount(0)

	jobs := make(chan int)
	var wg sync.WaitGroup
	for i := 0; i < count; i++ {
		w := &worker{logger: p.logger.With(logger.String("worker", p.name+"-"+strconv.Itoa(i)))}
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.run(ctx, jobs, task)
		}()
	}

	var err error
feed:
	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			err = fmt.Errorf("%w after %d of %d jobs: %w", ErrStopped, i, n, ctx.Err())
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	if err != nil {
		metrics.RecordErrorByComponent("worker", "cancelled")
		p.logger.Warn(ctx, "pool stopped early", logger.Error(err))
		return err
	}
	p.logger.Debug(ctx, "pool finished", logger.Int("jobs", n), logger.Int("workers", count))
	return nil
}

// worker drains the job channel until it is closed.
type worker struct {
	logger logger.Logger
}

func (w *worker) run(ctx context.Context, jobs <-chan int, task Task) {
	handled := 0
	for i := range jobs {
		start := time.Now()
		task(ctx, i)
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Microseconds()) / 1000)
		handled++
	}
	w.logger.Debug(ctx, "worker done", logger.Int("jobs", handled))
}
