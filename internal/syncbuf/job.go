package syncbuf

import (
	"context"
	"sync"
	"time"
)

// Flusher is the narrow contract the background job needs from the buffer.
type Flusher interface {
	FlushQueued(ctx context.Context) error
}

type flushJob struct {
	buffer   Flusher
	interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// FlushJob periodically flushes all auto-queued addresses in the
// background.
type FlushJob interface {
	// Start launches the background goroutine flushing every interval,
	// defaulting to 30 seconds if interval is zero or negative. Any
	// previously running job is stopped first.
	Start(ctx context.Context, interval time.Duration)

	// Stop signals the goroutine to exit and blocks until it terminated.
	Stop()

	// Run implements the workers.Worker contract: it starts the job with
	// its configured default interval.
	Run()
}

// NewFlushJob creates a FlushJob over buffer. The job is idle until Start
// (or Run) is called.
func NewFlushJob(buffer Flusher, defaultInterval time.Duration) FlushJob {
	return &flushJob{buffer: buffer, interval: defaultInterval}
}

func (j *flushJob) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 30 * time.Second
	}

	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				_ = j.buffer.FlushQueued(jobCtx)
			}
		}
	}()
}

func (j *flushJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}

func (j *flushJob) Run() {
	j.Start(context.Background(), j.interval)
}
