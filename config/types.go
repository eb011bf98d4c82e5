package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	Jikan   JikanConfig   `mapstructure:"jikan"`
	Search  SearchConfig  `mapstructure:"search"`
	Catalog CatalogConfig `mapstructure:"catalog"`
	Server  ServerConfig  `mapstructure:"server"`
	Filter  FilterConfig  `mapstructure:"filter"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// JikanConfig holds the catalog API connection details
type JikanConfig struct {
	URL        string        `mapstructure:"url"`
	ProducerID int           `mapstructure:"producer_id"`
	Timeout    time.Duration `mapstructure:"timeout"` // 0 waits indefinitely
	UserAgent  string        `mapstructure:"user_agent"`
}

// SearchConfig controls title searches
type SearchConfig struct {
	MinInterval time.Duration `mapstructure:"min_interval"`
	Studio      string        `mapstructure:"studio"`
}

// CatalogConfig controls the initial catalog view
type CatalogConfig struct {
	InitialCount int `mapstructure:"initial_count"`
}

// ServerConfig holds the web UI listener settings
type ServerConfig struct {
	Address string `mapstructure:"address"`
}

// FilterConfig contains the default list filter and named presets
type FilterConfig struct {
	DefaultExpression string                  `mapstructure:"default_expression"`
	Presets           map[string]PresetFilter `mapstructure:"presets"`
}

// PresetFilter is a named filter expression
type PresetFilter struct {
	Expression  string `mapstructure:"expression"`
	Description string `mapstructure:"description"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}

// PresetExpressions returns the preset expressions keyed by name
func (f FilterConfig) PresetExpressions() map[string]string {
	expressions := make(map[string]string, len(f.Presets))
	for name, preset := range f.Presets {
		expressions[name] = preset.Expression
	}
	return expressions
}
