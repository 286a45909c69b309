package main

import (
	"fmt"
	"os"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/AndryLeon/peloton/pkg/compression"
	"github.com/AndryLeon/peloton/pkg/config"
	"github.com/AndryLeon/peloton/pkg/logger"
	"github.com/AndryLeon/peloton/pkg/performance"
	"github.com/AndryLeon/peloton/pkg/pool"
	"github.com/AndryLeon/peloton/pkg/types"
)

var version = "0.1.0"

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:   "peloton",
		Short: "peloton - database kernel memory pool tools",
		Long: `Tools for exercising the peloton variable-length memory pool and
typed-value layer: stress benchmarks, pool diagnostics, and effective
configuration inspection.`,
	}

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("peloton v%s\n", version)
			fmt.Printf("Go version: %s\n", runtime.Version())
			fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})

	root.AddCommand(newConfigCmd())
	root.AddCommand(newStatsCmd())
	root.AddCommand(newBenchCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newConfigCmd prints the effective bench configuration after merging a
// config file over the defaults.
func newConfigCmd() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadBenchConfig(configFile)
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(cfg, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
	cmd.Flags().StringVarP(&configFile, "config", "c", "", "YAML configuration file")
	return cmd
}

// poolStats is the JSON document the stats command emits.
type poolStats struct {
	Shape            config.PoolConfig `json:"shape"`
	MaxPoolSize      uint64            `json:"max_pool_size"`
	TotalAllocated   uint64            `json:"total_allocated_bytes"`
	Lists            int               `json:"lists"`
	EmptyCountByList []int             `json:"empty_count_by_list"`
}

// newStatsCmd builds a pool from a configuration and dumps its
// diagnostics.
func newStatsCmd() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Dump pool diagnostics for a configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.DefaultPoolConfig()
			if configFile != "" {
				if err := config.Load(configFile, cfg); err != nil {
					return err
				}
			}
			p, err := pool.NewWithConfig(cfg)
			if err != nil {
				return err
			}
			defer p.Close()

			stats := &poolStats{
				Shape:          *cfg,
				MaxPoolSize:    p.MaximumPoolSize(),
				TotalAllocated: p.TotalAllocatedSpace(),
				Lists:          p.ListCount(),
			}
			for id := 0; id < p.ListCount(); id++ {
				stats.EmptyCountByList = append(stats.EmptyCountByList, p.EmptyCountByListID(id))
			}

			out, err := json.MarshalIndent(stats, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
	cmd.Flags().StringVarP(&configFile, "config", "c", "", "YAML pool configuration file")
	return cmd
}

// benchReport is the JSON document the bench command emits.
type benchReport struct {
	Workers          int                        `json:"workers"`
	Duration         string                     `json:"duration"`
	Operations       int64                      `json:"operations"`
	OpsPerSecond     float64                    `json:"ops_per_second"`
	AllocFailures    int64                      `json:"alloc_failures"`
	PoolSize         uint64                     `json:"pool_size_bytes"`
	SerializedBytes  int64                      `json:"serialized_bytes"`
	CompressedBytes  int64                      `json:"compressed_bytes"`
	Compression      string                     `json:"compression"`
	Resources        *performance.ResourceUsage `json:"resources,omitempty"`
	EmptyCountByList []int                      `json:"empty_count_by_list"`
}

func newBenchCmd() *cobra.Command {
	var configFile string
	cfg := config.DefaultBenchConfig()
	duration := cfg.Duration.Std()

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Stress the varlen pool and report throughput",
		Long: `Run a multi-worker allocate/serialize/share/free loop against a pool
and report throughput, pool diagnostics and resource usage as JSON.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if configFile != "" {
				loaded, err := loadBenchConfig(configFile)
				if err != nil {
					return err
				}
				cfg = loaded
			} else if cmd.Flags().Changed("duration") {
				cfg.Duration = config.Duration(duration)
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := logger.Init(logger.Config{Level: cfg.LogLevel, Encoding: "console"}); err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			return runBench(cfg)
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", "", "YAML configuration file")
	cmd.Flags().IntVar(&cfg.Workers, "workers", cfg.Workers, "concurrent allocator goroutines")
	cmd.Flags().DurationVar(&duration, "duration", duration, "stress run duration")
	cmd.Flags().IntVar(&cfg.PayloadSize, "payload", cfg.PayloadSize, "per-allocation payload size in bytes")
	cmd.Flags().StringVar(&cfg.Compression, "compress", cfg.Compression,
		"compress the serialized stream (none, snappy, lz4, zstd, s2)")
	return cmd
}

func loadBenchConfig(path string) (*config.BenchConfig, error) {
	cfg := config.DefaultBenchConfig()
	if path != "" {
		if err := config.Load(path, cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// runBench drives the full varlen life cycle from every worker:
// build a value, serialize it into a tuple slot, shallow-copy the slot,
// release both references, repeat until the clock runs out.
func runBench(cfg *config.BenchConfig) error {
	p, err := pool.NewWithConfig(&cfg.Pool)
	if err != nil {
		return err
	}
	defer p.Close()

	comp, err := compression.NewCompressor(compression.Algorithm(cfg.Compression))
	if err != nil {
		return err
	}

	log := logger.With(zap.String("component", "bench"))
	log.Info("starting stress run",
		zap.Int("workers", cfg.Workers),
		zap.Duration("duration", cfg.Duration.Std()),
		zap.Int("payload_size", cfg.PayloadSize))

	var (
		ops        atomic.Int64
		failures   atomic.Int64
		rawBytes   atomic.Int64
		packedByte atomic.Int64
	)

	payload := make([]byte, cfg.PayloadSize)
	for i := range payload {
		payload[i] = byte(i)
	}
	value := types.GetVarbinaryValue(payload)
	handler := types.GetInstance(types.Varbinary).(*types.VarlenType)

	deadline := time.Now().Add(cfg.Duration.Std())
	var wg sync.WaitGroup
	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			slot := make([]byte, types.Varbinary.Size())
			shared := make([]byte, types.Varbinary.Size())
			out := types.NewSerializeOutput(cfg.PayloadSize + 8)

			for time.Now().Before(deadline) {
				if err := handler.SerializeToStorage(value, slot, p); err != nil {
					failures.Add(1)
					continue
				}
				if err := handler.DoShallowCopy(shared, slot, p); err != nil {
					failures.Add(1)
				}

				out.Reset()
				if err := value.SerializeTo(out); err == nil {
					rawBytes.Add(int64(out.Len()))
					if packed, err := comp.Compress(out.Bytes()); err == nil {
						packedByte.Add(int64(len(packed)))
					}
				}

				handler.ReleaseStorage(shared, p)
				handler.ReleaseStorage(slot, p)
				ops.Add(1)
			}
		}()
	}
	wg.Wait()

	report := &benchReport{
		Workers:         cfg.Workers,
		Duration:        cfg.Duration.Std().String(),
		Operations:      ops.Load(),
		OpsPerSecond:    float64(ops.Load()) / cfg.Duration.Std().Seconds(),
		AllocFailures:   failures.Load(),
		PoolSize:        p.TotalAllocatedSpace(),
		SerializedBytes: rawBytes.Load(),
		CompressedBytes: packedByte.Load(),
		Compression:     cfg.Compression,
	}
	for id := 0; id < p.ListCount(); id++ {
		report.EmptyCountByList = append(report.EmptyCountByList, p.EmptyCountByListID(id))
	}
	if monitor, err := performance.NewResourceMonitor(); err == nil {
		if usage, err := monitor.Sample(); err == nil {
			report.Resources = usage
		}
	}

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
