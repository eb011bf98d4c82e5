package filter

import "strings"

var defaultCompiler = NewExprCompiler(WithCache(DefaultCacheSize))

// CompileFilter compiles expression with the shared caching compiler
func CompileFilter(expression string) (CompiledFilter, error) {
	return defaultCompiler.Compile(expression)
}

func isBlank(expression string) bool {
	return strings.TrimSpace(expression) == ""
}
