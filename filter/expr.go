package filter

import (
	"maps"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/s0up4200/ghiblidex/catalog"
)

// DefaultCacheSize is the compiled-filter cache size used by NewManager
const DefaultCacheSize = 100

// exprFilter implements CompiledFilter using the expr language
type exprFilter struct {
	expression string
	program    *vm.Program
	custom     map[string]any
}

// ExprCompilerOption configures an expr compiler
type ExprCompilerOption func(*exprCompiler)

// WithCache enables filter caching with the specified size
func WithCache(size int) ExprCompilerOption {
	return func(c *exprCompiler) {
		if size > 0 {
			c.cache = newLRUCache[CompiledFilter](size)
		}
	}
}

// WithCustomFunctions adds custom helper functions
func WithCustomFunctions(funcs map[string]any) ExprCompilerOption {
	return func(c *exprCompiler) {
		maps.Copy(c.custom, funcs)
	}
}

// NewExprCompiler creates a new expr-based filter compiler
func NewExprCompiler(opts ...ExprCompilerOption) Compiler {
	c := &exprCompiler{
		custom: make(map[string]any),
	}

	for _, opt := range opts {
		opt(c)
	}

	// a zero movie gives the checker the field and helper types
	c.env = createRuntimeEnvironment(catalog.Movie{}, c.custom)

	return c
}

type exprCompiler struct {
	env    map[string]any
	custom map[string]any
	cache  *lruCache[CompiledFilter]
}

// Compile compiles an expression into an executable filter
func (c *exprCompiler) Compile(expression string) (CompiledFilter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
		}
	}

	if c.cache != nil {
		if cached, ok := c.cache.Get(expression); ok {
			return cached, nil
		}
	}

	program, err := expr.Compile(expression,
		expr.Env(c.env),
		expr.AsBool(),
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Err:        err,
		}
	}

	filter := &exprFilter{
		expression: expression,
		program:    program,
		custom:     c.custom,
	}

	if c.cache != nil {
		c.cache.Put(expression, filter)
	}

	return filter, nil
}

// Clear removes all cached filters
func (c *exprCompiler) Clear() {
	if c.cache != nil {
		c.cache.Clear()
	}
}

// Size returns the number of cached filters
func (c *exprCompiler) Size() int {
	if c.cache != nil {
		return c.cache.Len()
	}
	return 0
}

// Evaluate reports whether movie matches. Runtime errors count as no match.
func (f *exprFilter) Evaluate(movie catalog.Movie) bool {
	ok, err := f.Match(movie)
	return err == nil && ok
}

// Match runs the program against movie and surfaces runtime errors
func (f *exprFilter) Match(movie catalog.Movie) (bool, error) {
	result, err := expr.Run(f.program, createRuntimeEnvironment(movie, f.custom))
	if err != nil {
		return false, &EvaluationError{Expression: f.expression, MovieID: movie.ID, Err: err}
	}

	// AsBool guarantees the result type
	return result.(bool), nil
}

// Expression returns the original expression
func (f *exprFilter) Expression() string {
	return f.expression
}

func addHelperFunctions(env map[string]any) {
	// String helpers; contains, startsWith and endsWith are expr operators
	env["hasText"] = func(str, substr string) bool {
		return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
	}
	env["hasPrefix"] = func(str, prefix string) bool {
		return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
	}
	env["hasSuffix"] = func(str, suffix string) bool {
		return strings.HasSuffix(strings.ToLower(str), strings.ToLower(suffix))
	}
	env["lower"] = strings.ToLower
	env["upper"] = strings.ToUpper
	env["truncate"] = func(str string, limit int) string {
		return catalog.Truncate(str, limit)
	}
	// Year helpers
	env["thisYear"] = func() int {
		return time.Now().Year()
	}
	env["yearsAgo"] = func(years int) int {
		return time.Now().Year() - years
	}
	env["knownTitle"] = catalog.IsKnownTitle
}

func createRuntimeEnvironment(movie catalog.Movie, custom map[string]any) map[string]any {
	env := make(map[string]any, 32)
	addHelperFunctions(env)

	env["Movie"] = movie

	env["ID"] = movie.ID
	env["Title"] = movie.Title
	env["OriginalTitle"] = movie.OriginalTitle
	env["Director"] = movie.Director
	env["Producer"] = movie.Producer
	env["Year"] = movie.ReleaseYear
	env["Score"] = movie.Score
	env["HasScore"] = movie.HasScore
	env["Description"] = movie.Description
	env["ImageURL"] = movie.ImageURL

	env["directedBy"] = func(name string) bool {
		return strings.Contains(strings.ToLower(movie.Director), strings.ToLower(name))
	}
	env["scoreAtLeast"] = func(percent int) bool {
		return movie.HasScore && movie.Score >= percent
	}
	env["releasedBetween"] = func(from, to int) bool {
		return movie.ReleaseYear != 0 && movie.ReleaseYear >= from && movie.ReleaseYear <= to
	}
	env["hasPoster"] = func() bool {
		return movie.ImageURL != catalog.PlaceholderImageURL
	}

	maps.Copy(env, custom)

	return env
}
