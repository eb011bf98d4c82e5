package filter

import (
	"context"

	"github.com/s0up4200/ghiblidex/catalog"
)

// Filter defines the basic interface for movie filters
type Filter interface {
	// Evaluate checks if a movie matches the filter criteria
	Evaluate(movie catalog.Movie) bool
}

// CompiledFilter represents a pre-compiled filter ready for evaluation
type CompiledFilter interface {
	Filter

	// Expression returns the original filter expression
	Expression() string
}

// Compiler compiles filter expressions into executable filters
type Compiler interface {
	// Compile parses and compiles a filter expression
	Compile(expression string) (CompiledFilter, error)
}

// Evaluator evaluates filters against movies
type Evaluator interface {
	// Evaluate returns the movies matching filter, in input order
	Evaluate(ctx context.Context, filter CompiledFilter, movies []catalog.Movie) ([]catalog.Movie, error)
}

// BatchEvaluator evaluates multiple filters concurrently
type BatchEvaluator interface {
	// EvaluateBatch evaluates multiple filters against movies concurrently
	EvaluateBatch(ctx context.Context, filters map[string]CompiledFilter, movies []catalog.Movie) (map[string][]catalog.Movie, error)
}

// CachingCompiler provides caching for compiled filters
type CachingCompiler interface {
	Compiler

	// Clear removes all cached filters
	Clear()

	// Size returns the number of cached filters
	Size() int
}

// BatchResult represents the result of evaluating one named filter
type BatchResult struct {
	FilterName string
	Matches    []catalog.Movie
	Err        error
}

// WorkerPool runs submitted work with bounded concurrency
type WorkerPool interface {
	Submit(work func()) error
	Stop(ctx context.Context) error
}
