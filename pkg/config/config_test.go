package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPoolConfigIsValid(t *testing.T) {
	require.NoError(t, DefaultPoolConfig().Validate())
}

func TestDefaultBenchConfigIsValid(t *testing.T) {
	require.NoError(t, DefaultBenchConfig().Validate())
}

func TestPoolConfigValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*PoolConfig)
	}{
		{"non power of two block", func(c *PoolConfig) { c.MinBlockSize = 24 }},
		{"zero block", func(c *PoolConfig) { c.MinBlockSize = 0 }},
		{"buffer smaller than block", func(c *PoolConfig) { c.BufferSize = 8 }},
		{"buffer not a block multiple", func(c *PoolConfig) { c.BufferSize = 1<<17 + 1 }},
		{"too few lists", func(c *PoolConfig) { c.MaxListNum = 1 }},
		{"largest block exceeds buffer", func(c *PoolConfig) { c.MaxListNum = 20 }},
		{"negative empty watermark", func(c *PoolConfig) { c.MaxEmptyNum = -1 }},
		{"budget below one buffer", func(c *PoolConfig) { c.MaxPoolSize = 16 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultPoolConfig()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestBenchConfigValidation(t *testing.T) {
	cfg := DefaultBenchConfig()
	cfg.Workers = 0
	assert.Error(t, cfg.Validate())

	cfg = DefaultBenchConfig()
	cfg.Duration = 0
	assert.Error(t, cfg.Validate())

	cfg = DefaultBenchConfig()
	cfg.PayloadSize = -1
	assert.Error(t, cfg.Validate())
}

func TestLoadWithEnvSubstitution(t *testing.T) {
	t.Setenv("POOL_WORKERS", "9")

	dir := t.TempDir()
	path := filepath.Join(dir, "bench.yaml")
	content := []byte(`
workers: ${POOL_WORKERS}
duration: 2s
payload_size: 64
compression: snappy
log_level: debug
pool:
  buffer_size: 131072
  min_block_size: 16
  max_list_num: 15
  max_empty_num: 4
  max_pool_size: 1152921504606846976
`)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	cfg := DefaultBenchConfig()
	require.NoError(t, Load(path, cfg))
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 9, cfg.Workers)
	assert.Equal(t, 2*time.Second, cfg.Duration.Std())
	assert.Equal(t, 64, cfg.PayloadSize)
	assert.Equal(t, "snappy", cfg.Compression)
	assert.Equal(t, uint64(131072), cfg.Pool.BufferSize)
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pool.yaml")

	cfg := DefaultPoolConfig()
	cfg.MaxEmptyNum = 7
	require.NoError(t, Save(path, cfg))

	loaded := &PoolConfig{}
	require.NoError(t, Load(path, loaded))
	assert.Equal(t, cfg, loaded)
}

func TestLoadMissingFile(t *testing.T) {
	assert.Error(t, Load("/nonexistent/peloton.yaml", &PoolConfig{}))
}
