// Package performance provides resource monitoring for the allocator
// stress tools: process and system memory usage, CPU load, and Go
// runtime allocation statistics.
package performance

import (
	"fmt"
	"os"
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// ResourceUsage is a point-in-time snapshot of process and system
// resources.
type ResourceUsage struct {
	// CPUPercent is the system-wide CPU utilization
	CPUPercent float64 `json:"cpu_percent"`
	// ProcessRSS is the process resident set size in bytes
	ProcessRSS uint64 `json:"process_rss"`
	// SystemTotal is the machine's physical memory in bytes
	SystemTotal uint64 `json:"system_total"`
	// SystemAvailable is the memory available to allocate in bytes
	SystemAvailable uint64 `json:"system_available"`
	// HeapAlloc is the Go heap in use, in bytes
	HeapAlloc uint64 `json:"heap_alloc"`
	// NumGC is the number of completed GC cycles
	NumGC uint32 `json:"num_gc"`
}

// ResourceMonitor samples resource usage for the current process.
type ResourceMonitor struct {
	proc *process.Process
}

// NewResourceMonitor creates a monitor bound to the current process.
func NewResourceMonitor() (*ResourceMonitor, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, fmt.Errorf("failed to open current process: %w", err)
	}
	return &ResourceMonitor{proc: proc}, nil
}

// Sample captures a resource snapshot. A failing CPU or process memory
// probe leaves its field zero; a failure to read system memory fails
// the whole sample.
func (rm *ResourceMonitor) Sample() (*ResourceUsage, error) {
	usage := &ResourceUsage{}

	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		usage.CPUPercent = percents[0]
	}

	if memInfo, err := rm.proc.MemoryInfo(); err == nil {
		usage.ProcessRSS = memInfo.RSS
	}

	vmStat, err := mem.VirtualMemory()
	if err != nil {
		return nil, fmt.Errorf("failed to read system memory: %w", err)
	}
	usage.SystemTotal = vmStat.Total
	usage.SystemAvailable = vmStat.Available

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	usage.HeapAlloc = ms.HeapAlloc
	usage.NumGC = ms.NumGC

	return usage, nil
}
