package filter

import (
	"context"
	"runtime"
	"sync"

	"github.com/s0up4200/ghiblidex/catalog"
)

// EvaluatorOption configures an evaluator
type EvaluatorOption func(*ConcurrentEvaluator)

// WithWorkers sets the number of worker goroutines
func WithWorkers(workers int) EvaluatorOption {
	return func(e *ConcurrentEvaluator) {
		e.workerCount = workers
	}
}

// WithBatchSize sets the chunk size below which evaluation stays sequential
func WithBatchSize(size int) EvaluatorOption {
	return func(e *ConcurrentEvaluator) {
		if size > 0 {
			e.batchSize = size
		}
	}
}

// ConcurrentEvaluator implements both Evaluator and BatchEvaluator. Its worker pool
// starts on the first evaluation that needs it.
type ConcurrentEvaluator struct {
	workerCount int
	batchSize   int

	mu      sync.Mutex
	pool    WorkerPool
	stopped bool
}

// NewConcurrentEvaluator creates a new concurrent evaluator
func NewConcurrentEvaluator(opts ...EvaluatorOption) *ConcurrentEvaluator {
	e := &ConcurrentEvaluator{
		workerCount: runtime.GOMAXPROCS(0),
		batchSize:   100,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

func (e *ConcurrentEvaluator) workers() (WorkerPool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.stopped {
		return nil, ErrPoolStopped
	}
	if e.pool == nil {
		e.pool = NewWorkerPool(e.workerCount)
	}
	return e.pool, nil
}

// Evaluate returns the movies matching filter, preserving input order
func (e *ConcurrentEvaluator) Evaluate(ctx context.Context, filter CompiledFilter, movies []catalog.Movie) ([]catalog.Movie, error) {
	if len(movies) == 0 {
		return []catalog.Movie{}, nil
	}

	// a catalog page is far below the batch size
	if len(movies) < e.batchSize {
		return evaluateSequential(filter, movies), nil
	}

	return e.evaluateConcurrent(ctx, filter, movies)
}

// EvaluateBatch evaluates every filter against movies. Filters whose evaluation was
// cancelled are left out of the result.
func (e *ConcurrentEvaluator) EvaluateBatch(ctx context.Context, filters map[string]CompiledFilter, movies []catalog.Movie) (map[string][]catalog.Movie, error) {
	results := make(map[string][]catalog.Movie, len(filters))
	if len(filters) == 0 {
		return results, nil
	}

	pool, err := e.workers()
	if err != nil {
		return nil, err
	}

	resultChan := make(chan BatchResult, len(filters))

	var wg sync.WaitGroup
	for name, filter := range filters {
		wg.Add(1)

		err := pool.Submit(func() {
			defer wg.Done()

			if err := ctx.Err(); err != nil {
				resultChan <- BatchResult{FilterName: name, Err: err}
				return
			}

			// already on a worker; resubmitting chunks could starve the pool
			resultChan <- BatchResult{FilterName: name, Matches: evaluateSequential(filter, movies)}
		})
		if err != nil {
			wg.Done()
			wg.Wait()
			return nil, err
		}
	}

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	for result := range resultChan {
		if result.Err != nil {
			continue
		}
		results[result.FilterName] = result.Matches
	}

	return results, ctx.Err()
}

func evaluateSequential(filter CompiledFilter, movies []catalog.Movie) []catalog.Movie {
	matches := make([]catalog.Movie, 0, len(movies))
	for _, movie := range movies {
		if filter.Evaluate(movie) {
			matches = append(matches, movie)
		}
	}
	return matches
}

func (e *ConcurrentEvaluator) evaluateConcurrent(ctx context.Context, filter CompiledFilter, movies []catalog.Movie) ([]catalog.Movie, error) {
	pool, err := e.workers()
	if err != nil {
		return nil, err
	}

	chunkSize := max(len(movies)/max(e.workerCount, 1), e.batchSize)
	chunks := (len(movies) + chunkSize - 1) / chunkSize

	// each chunk writes only its own slot
	results := make([][]catalog.Movie, chunks)

	var wg sync.WaitGroup
	for index := range chunks {
		start := index * chunkSize
		chunk := movies[start:min(start+chunkSize, len(movies))]

		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()

			if ctx.Err() != nil {
				return
			}
			results[index] = evaluateSequential(filter, chunk)
		})
		if err != nil {
			wg.Done()
			wg.Wait()
			return nil, err
		}
	}

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	total := 0
	for _, matches := range results {
		total += len(matches)
	}

	all := make([]catalog.Movie, 0, total)
	for _, matches := range results {
		all = append(all, matches...)
	}

	return all, nil
}

// Stop gracefully stops the evaluator's worker pool, if it was ever started
func (e *ConcurrentEvaluator) Stop(ctx context.Context) error {
	e.mu.Lock()
	e.stopped = true
	pool := e.pool
	e.mu.Unlock()

	if pool == nil {
		return nil
	}
	return pool.Stop(ctx)
}
