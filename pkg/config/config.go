// Package config provides configuration for the peloton memory pool and
// the tools built on top of it. Configuration is declared as plain structs
// with yaml tags and loaded from YAML files with environment variable
// substitution.
//
// Example usage:
//
//	cfg := config.DefaultPoolConfig()
//	cfg.MaxEmptyNum = 8
//
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config

import (
	"time"

	"gopkg.in/yaml.v3"

	"github.com/AndryLeon/peloton/pkg/errors"
)

// Duration wraps time.Duration so YAML and JSON configs can use "5s"
// notation instead of raw nanosecond counts.
type Duration time.Duration

// MarshalYAML renders the duration in "5s" notation.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// UnmarshalYAML accepts either "5s" notation or a nanosecond count.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err == nil && value.ShortTag() != "!!int" {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return errors.Newf(errors.ErrorTypeConfig, "invalid duration %q", s)
		}
		*d = Duration(parsed)
		return nil
	}
	var n int64
	if err := value.Decode(&n); err != nil {
		return errors.Newf(errors.ErrorTypeConfig, "invalid duration node %q", value.Value)
	}
	*d = Duration(n)
	return nil
}

// MarshalJSON renders the duration in "5s" notation.
func (d Duration) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Duration(d).String() + `"`), nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Pool shape defaults. These mirror the compile-time constants the pool
// package uses when no configuration is supplied.
const (
	DefaultBufferSize   = 1 << 17
	DefaultMinBlockSize = 16
	DefaultMaxListNum   = 15
	DefaultMaxEmptyNum  = 4
	DefaultMaxPoolSize  = 1 << 60
)

// PoolConfig describes the shape of a variable-length memory pool.
type PoolConfig struct {
	// BufferSize is the byte capacity of each slab on the regular lists
	BufferSize uint64 `yaml:"buffer_size" json:"buffer_size"`
	// MinBlockSize is the block size served by list 0; must be a power of two
	MinBlockSize uint64 `yaml:"min_block_size" json:"min_block_size"`
	// MaxListNum is the number of segregated free lists, including the large list
	MaxListNum int `yaml:"max_list_num" json:"max_list_num"`
	// MaxEmptyNum is the number of empty buffers retained per list
	MaxEmptyNum int `yaml:"max_empty_num" json:"max_empty_num"`
	// MaxPoolSize caps the sum of buffer capacities held by the pool
	MaxPoolSize uint64 `yaml:"max_pool_size" json:"max_pool_size"`
}

// DefaultPoolConfig returns the pool shape used throughout the system.
func DefaultPoolConfig() *PoolConfig {
	return &PoolConfig{
		BufferSize:   DefaultBufferSize,
		MinBlockSize: DefaultMinBlockSize,
		MaxListNum:   DefaultMaxListNum,
		MaxEmptyNum:  DefaultMaxEmptyNum,
		MaxPoolSize:  DefaultMaxPoolSize,
	}
}

// Validate checks the pool configuration for consistency.
func (c *PoolConfig) Validate() error {
	if c.MinBlockSize == 0 || c.MinBlockSize&(c.MinBlockSize-1) != 0 {
		return errors.Newf(errors.ErrorTypeConfig,
			"min_block_size must be a power of two, got %d", c.MinBlockSize)
	}
	if c.BufferSize < c.MinBlockSize {
		return errors.Newf(errors.ErrorTypeConfig,
			"buffer_size %d is smaller than min_block_size %d", c.BufferSize, c.MinBlockSize)
	}
	if c.BufferSize%c.MinBlockSize != 0 {
		return errors.Newf(errors.ErrorTypeConfig,
			"buffer_size %d is not a multiple of min_block_size %d", c.BufferSize, c.MinBlockSize)
	}
	if c.MaxListNum < 2 {
		return errors.Newf(errors.ErrorTypeConfig,
			"max_list_num must be at least 2 (one size class plus the large list), got %d", c.MaxListNum)
	}
	// The largest regular block size must stay representable and fit a buffer.
	largest := c.MinBlockSize << uint(c.MaxListNum-2)
	if largest > c.BufferSize {
		return errors.Newf(errors.ErrorTypeConfig,
			"largest regular block size %d exceeds buffer_size %d", largest, c.BufferSize)
	}
	if c.MaxEmptyNum < 0 {
		return errors.Newf(errors.ErrorTypeConfig,
			"max_empty_num must be non-negative, got %d", c.MaxEmptyNum)
	}
	if c.MaxPoolSize < c.BufferSize {
		return errors.Newf(errors.ErrorTypeConfig,
			"max_pool_size %d cannot hold a single buffer of %d bytes", c.MaxPoolSize, c.BufferSize)
	}
	return nil
}

// BenchConfig drives the pool stress tool in cmd/peloton.
type BenchConfig struct {
	// Pool is the shape of the pool under test
	Pool PoolConfig `yaml:"pool" json:"pool"`
	// Workers is the number of concurrent allocator goroutines
	Workers int `yaml:"workers" json:"workers"`
	// Duration bounds the stress run
	Duration Duration `yaml:"duration" json:"duration"`
	// PayloadSize is the per-allocation payload size in bytes
	PayloadSize int `yaml:"payload_size" json:"payload_size"`
	// Compression optionally compresses the serialized value stream
	// produced during the run ("none", "snappy", "lz4", "zstd", "s2")
	Compression string `yaml:"compression" json:"compression"`
	// LogLevel sets the logger verbosity for the run
	LogLevel string `yaml:"log_level" json:"log_level"`
}

// DefaultBenchConfig returns a stress configuration suitable for a laptop.
func DefaultBenchConfig() *BenchConfig {
	return &BenchConfig{
		Pool:        *DefaultPoolConfig(),
		Workers:     4,
		Duration:    Duration(5 * time.Second),
		PayloadSize: 100,
		Compression: "none",
		LogLevel:    "info",
	}
}

// Validate checks the bench configuration.
func (c *BenchConfig) Validate() error {
	if err := c.Pool.Validate(); err != nil {
		return err
	}
	if c.Workers <= 0 {
		return errors.Newf(errors.ErrorTypeConfig, "workers must be positive, got %d", c.Workers)
	}
	if c.Duration <= 0 {
		return errors.Newf(errors.ErrorTypeConfig, "duration must be positive, got %s", c.Duration.Std())
	}
	if c.PayloadSize <= 0 {
		return errors.Newf(errors.ErrorTypeConfig, "payload_size must be positive, got %d", c.PayloadSize)
	}
	return nil
}
