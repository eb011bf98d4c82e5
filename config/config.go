package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/s0up4200/ghiblidex/browser"
	"github.com/s0up4200/ghiblidex/catalog"
	"github.com/s0up4200/ghiblidex/jikan"
)

// Load loads the configuration. Every setting has a default, so a missing config
// file is not an error unless configPath names it explicitly.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("GHIBLIDEX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		v.AddConfigPath(".")

		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".ghiblidex"))
		}

		v.AddConfigPath("/etc/ghiblidex/")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("jikan.url", jikan.DefaultBaseURL)
	v.SetDefault("jikan.producer_id", jikan.StudioGhibliProducerID)
	v.SetDefault("jikan.timeout", 0)
	v.SetDefault("jikan.user_agent", jikan.DefaultUserAgent)

	v.SetDefault("search.min_interval", browser.DefaultSearchInterval)
	v.SetDefault("search.studio", catalog.StudioName)

	v.SetDefault("catalog.initial_count", browser.DefaultInitialCount)

	v.SetDefault("server.address", "127.0.0.1:8080")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

var validLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// SetLogLevel overrides logging.level, e.g. from a command line flag
func (c *Config) SetLogLevel(level string) error {
	level = strings.ToLower(strings.TrimSpace(level))
	if !validLevels[level] {
		return fmt.Errorf("invalid logging level: %s", level)
	}
	c.Logging.Level = level
	return nil
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.Jikan.URL == "" {
		return fmt.Errorf("jikan.url is required")
	}
	if _, err := url.ParseRequestURI(cfg.Jikan.URL); err != nil {
		return fmt.Errorf("invalid jikan.url: %s", cfg.Jikan.URL)
	}
	if cfg.Jikan.ProducerID <= 0 {
		return fmt.Errorf("jikan.producer_id must be positive, got %d", cfg.Jikan.ProducerID)
	}
	if cfg.Jikan.Timeout < 0 {
		return fmt.Errorf("jikan.timeout must not be negative")
	}

	if cfg.Search.MinInterval < 0 {
		return fmt.Errorf("search.min_interval must not be negative")
	}
	if strings.TrimSpace(cfg.Search.Studio) == "" {
		return fmt.Errorf("search.studio is required")
	}

	if cfg.Catalog.InitialCount <= 0 {
		return fmt.Errorf("catalog.initial_count must be positive, got %d", cfg.Catalog.InitialCount)
	}

	if cfg.Server.Address == "" {
		return fmt.Errorf("server.address is required")
	}

	for name, preset := range cfg.Filter.Presets {
		if strings.TrimSpace(preset.Expression) == "" {
			return fmt.Errorf("filter.presets.%s.expression is required", name)
		}
	}

	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}
