package filter

import (
	"context"
	"errors"
	"sync"
)

// ErrPoolStopped is returned when work is submitted to a stopped pool
var ErrPoolStopped = errors.New("worker pool is stopped")

// workerPool implements WorkerPool with a fixed set of goroutines
type workerPool struct {
	work     chan func()
	done     chan struct{}
	stopOnce sync.Once
	mu       sync.RWMutex
	stopped  bool
	wg       sync.WaitGroup
}

// NewWorkerPool starts a pool with the given number of workers
func NewWorkerPool(workers int) WorkerPool {
	workers = max(workers, 1)

	p := &workerPool{
		work: make(chan func(), workers*2),
		done: make(chan struct{}),
	}

	p.wg.Add(workers)
	for range workers {
		go p.worker()
	}

	return p
}

func (p *workerPool) worker() {
	defer p.wg.Done()

	for work := range p.work {
		work()
	}
}

// Submit queues work, blocking while the queue is full
func (p *workerPool) Submit(work func()) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.stopped {
		return ErrPoolStopped
	}

	p.work <- work
	return nil
}

// Stop closes the queue and waits for queued work to drain
func (p *workerPool) Stop(ctx context.Context) error {
	p.stopOnce.Do(func() {
		p.mu.Lock()
		p.stopped = true
		close(p.work)
		p.mu.Unlock()

		go func() {
			p.wg.Wait()
			close(p.done)
		}()
	})

	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
