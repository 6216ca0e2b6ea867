// Package config holds runtime configuration for entail: search bounds,
// resolver timeouts and logging, loadable from YAML with environment
// overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"entail/internal/deduction"
)

// Config is the root configuration.
type Config struct {
	Search   SearchConfig   `yaml:"search"`
	Resolver ResolverConfig `yaml:"resolver"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// SearchConfig bounds the proof search.
type SearchConfig struct {
	MaxDepth      int  `yaml:"max_depth"`
	MaxIterations int  `yaml:"max_iterations"`
	MaxQueue      int  `yaml:"max_queue"`
	MaxSteps      int  `yaml:"max_steps"`
	Parallel      bool `yaml:"parallel"`
}

// Options converts the section into the core's search options.
func (c SearchConfig) Options() deduction.SearchOptions {
	return deduction.SearchOptions{
		MaxDepth:      c.MaxDepth,
		MaxIterations: c.MaxIterations,
		MaxQueue:      c.MaxQueue,
		MaxSteps:      c.MaxSteps,
		Parallel:      c.Parallel,
	}
}

// ResolverConfig bounds fact resolution.
type ResolverConfig struct {
	Timeout string `yaml:"timeout"`
}

// TimeoutDuration parses the configured timeout, falling back to the default
// on a malformed or empty value.
func (c ResolverConfig) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return 5 * time.Second
	}
	return d
}

// LoggingConfig configures the zap logger built by the CLI.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	JSONFormat bool   `yaml:"json_format"`
}

// Default returns the stock configuration.
func Default() *Config {
	stock := deduction.DefaultSearchOptions()
	return &Config{
		Search: SearchConfig{
			MaxDepth:      stock.MaxDepth,
			MaxIterations: stock.MaxIterations,
			MaxQueue:      stock.MaxQueue,
			MaxSteps:      stock.MaxSteps,
		},
		Resolver: ResolverConfig{Timeout: "5s"},
		Logging:  LoggingConfig{Level: "info"},
	}
}

// Load reads a YAML config over the defaults and applies environment
// overrides. An empty path yields defaults plus overrides.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("decoding config: %w", err)
		}
	}
	cfg.applyEnvOverrides()
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	overrideInt("ENTAIL_MAX_DEPTH", &c.Search.MaxDepth)
	overrideInt("ENTAIL_MAX_ITERATIONS", &c.Search.MaxIterations)
	overrideInt("ENTAIL_MAX_QUEUE", &c.Search.MaxQueue)
	overrideInt("ENTAIL_MAX_STEPS", &c.Search.MaxSteps)
	overrideBool("ENTAIL_PARALLEL_SEARCH", &c.Search.Parallel)
	if v := os.Getenv("ENTAIL_RESOLVER_TIMEOUT"); v != "" {
		c.Resolver.Timeout = v
	}
	if v := os.Getenv("ENTAIL_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

func overrideInt(key string, dst *int) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	if n, err := strconv.Atoi(v); err == nil && n > 0 {
		*dst = n
	}
}

func overrideBool(key string, dst *bool) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	if b, err := strconv.ParseBool(v); err == nil {
		*dst = b
	}
}
