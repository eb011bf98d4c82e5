package filter

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/s0up4200/ghiblidex/catalog"
)

// Manager holds named filters, such as the presets from the config file, and
// evaluates them against the catalog
type Manager struct {
	compiler  Compiler
	evaluator *ConcurrentEvaluator
	filters   map[string]CompiledFilter
	mu        sync.RWMutex
}

// NewManager creates a new filter manager with its own compiled-filter cache
func NewManager() *Manager {
	m := &Manager{
		compiler:  NewExprCompiler(WithCache(DefaultCacheSize)),
		evaluator: NewConcurrentEvaluator(),
		filters:   make(map[string]CompiledFilter),
	}

	return m
}

// RegisterFilter registers a new filter or replaces an existing one
func (m *Manager) RegisterFilter(name, expression string) error {
	filter, err := m.compiler.Compile(expression)
	if err != nil {
		return fmt.Errorf("failed to compile filter '%s': %w", name, err)
	}

	m.mu.Lock()
	m.filters[name] = filter
	m.mu.Unlock()

	return nil
}

// RegisterFilters registers all filters, or none of them if any fails to compile
func (m *Manager) RegisterFilters(filters map[string]string) error {
	compiled := make(map[string]CompiledFilter, len(filters))

	for _, name := range slices.Sorted(maps.Keys(filters)) {
		filter, err := m.compiler.Compile(filters[name])
		if err != nil {
			return fmt.Errorf("failed to compile filter '%s': %w", name, err)
		}
		compiled[name] = filter
	}

	m.mu.Lock()
	maps.Copy(m.filters, compiled)
	m.mu.Unlock()

	return nil
}

// UnregisterFilter removes a filter
func (m *Manager) UnregisterFilter(name string) {
	m.mu.Lock()
	delete(m.filters, name)
	m.mu.Unlock()
}

// GetFilter returns a compiled filter by name
func (m *Manager) GetFilter(name string) (CompiledFilter, bool) {
	m.mu.RLock()
	filter, exists := m.filters[name]
	m.mu.RUnlock()
	return filter, exists
}

// ListFilters returns the registered filter names in sorted order
func (m *Manager) ListFilters() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return slices.Sorted(maps.Keys(m.filters))
}

// EvaluateFilter evaluates a single registered filter
func (m *Manager) EvaluateFilter(ctx context.Context, name string, movies []catalog.Movie) ([]catalog.Movie, error) {
	filter, exists := m.GetFilter(name)
	if !exists {
		return nil, fmt.Errorf("%w: '%s'", ErrFilterNotFound, name)
	}

	return m.evaluator.Evaluate(ctx, filter, movies)
}

// EvaluateExpression compiles an ad-hoc expression and evaluates it. An empty
// expression matches every movie.
func (m *Manager) EvaluateExpression(ctx context.Context, expression string, movies []catalog.Movie) ([]catalog.Movie, error) {
	if isBlank(expression) {
		return slices.Clone(movies), nil
	}

	filter, err := m.compiler.Compile(expression)
	if err != nil {
		return nil, err
	}

	return m.evaluator.Evaluate(ctx, filter, movies)
}

// EvaluateAll evaluates all registered filters
func (m *Manager) EvaluateAll(ctx context.Context, movies []catalog.Movie) (map[string][]catalog.Movie, error) {
	m.mu.RLock()
	filters := maps.Clone(m.filters)
	m.mu.RUnlock()

	return m.evaluator.EvaluateBatch(ctx, filters, movies)
}

// EvaluateSelected evaluates only the named filters
func (m *Manager) EvaluateSelected(ctx context.Context, names []string, movies []catalog.Movie) (map[string][]catalog.Movie, error) {
	m.mu.RLock()
	filters := make(map[string]CompiledFilter, len(names))
	for _, name := range names {
		filter, exists := m.filters[name]
		if !exists {
			m.mu.RUnlock()
			return nil, fmt.Errorf("%w: '%s'", ErrFilterNotFound, name)
		}
		filters[name] = filter
	}
	m.mu.RUnlock()

	return m.evaluator.EvaluateBatch(ctx, filters, movies)
}

// Close gracefully shuts down the manager
func (m *Manager) Close(ctx context.Context) error {
	return m.evaluator.Stop(ctx)
}
