package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 6, cfg.Search.MaxDepth)
	assert.Equal(t, 2000, cfg.Search.MaxIterations)
	assert.Equal(t, 512, cfg.Search.MaxQueue)
	assert.Equal(t, 64, cfg.Search.MaxSteps)
	assert.False(t, cfg.Search.Parallel)
	assert.Equal(t, 5*time.Second, cfg.Resolver.TimeoutDuration())
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "entail.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
search:
  max_depth: 4
  parallel: true
resolver:
  timeout: 250ms
logging:
  level: debug
  json_format: true
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Search.MaxDepth)
	assert.True(t, cfg.Search.Parallel)
	// Sections the file omits keep their defaults.
	assert.Equal(t, 2000, cfg.Search.MaxIterations)
	assert.Equal(t, 250*time.Millisecond, cfg.Resolver.TimeoutDuration())
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.JSONFormat)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("search: [not, a, mapping]"), 0o644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("ENTAIL_MAX_DEPTH", "9")
	t.Setenv("ENTAIL_MAX_ITERATIONS", "0")
	t.Setenv("ENTAIL_MAX_QUEUE", "junk")
	t.Setenv("ENTAIL_PARALLEL_SEARCH", "true")
	t.Setenv("ENTAIL_RESOLVER_TIMEOUT", "1s")
	t.Setenv("ENTAIL_LOG_LEVEL", "warn")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.Search.MaxDepth)
	// Non-positive and unparsable values leave the defaults alone.
	assert.Equal(t, 2000, cfg.Search.MaxIterations)
	assert.Equal(t, 512, cfg.Search.MaxQueue)
	assert.True(t, cfg.Search.Parallel)
	assert.Equal(t, time.Second, cfg.Resolver.TimeoutDuration())
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestTimeoutDuration_Fallback(t *testing.T) {
	for _, raw := range []string{"", "soon", "-3s", "0"} {
		c := ResolverConfig{Timeout: raw}
		assert.Equal(t, 5*time.Second, c.TimeoutDuration(), "timeout %q", raw)
	}
}

func TestSearchConfigOptions(t *testing.T) {
	sc := SearchConfig{MaxDepth: 3, MaxIterations: 10, MaxQueue: 20, MaxSteps: 30, Parallel: true}
	opts := sc.Options()
	assert.Equal(t, 3, opts.MaxDepth)
	assert.Equal(t, 10, opts.MaxIterations)
	assert.Equal(t, 20, opts.MaxQueue)
	assert.Equal(t, 30, opts.MaxSteps)
	assert.True(t, opts.Parallel)
}
