// Package probes implements failure-tolerant hardware probe adapters on top
// of gopsutil and the GPU vendor tooling. Each Sample method queries one
// hardware domain and returns a normalized reading plus an ok flag; errors
// from the underlying OS call are logged at debug level and converted to the
// domain's zero value. Nothing in this package propagates an error to the
// snapshot builder.
package probes

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	gnet "github.com/shirou/gopsutil/v3/net"

	"gitlab.com/tinyland/lab/hwpulse/metrics"
	"gitlab.com/tinyland/lab/hwpulse/probes/gpu"
)

// HardwareProbe is the capability set the snapshot builder consumes. Each
// method returns a best-effort reading; ok is false when the underlying
// query failed and the reading is the domain's zero value.
type HardwareProbe interface {
	SampleCPU(ctx context.Context) (metrics.CPUMetrics, bool)
	SampleMemory(ctx context.Context) (metrics.MemoryMetrics, bool)
	SampleDisks(ctx context.Context) ([]metrics.DiskMetrics, bool)
	SampleNetwork(ctx context.Context) ([]metrics.NetworkMetrics, bool)
	SampleGPU(ctx context.Context) ([]metrics.GPUMetrics, bool)
}

// SystemProbe queries the local host via gopsutil plus a GPU probe selected
// at startup. The gopsutil and filesystem entry points are function fields
// so tests can substitute canned readings.
type SystemProbe struct {
	logger *slog.Logger
	gpu    gpu.Probe

	cpuPercent     func(ctx context.Context, interval time.Duration, percpu bool) ([]float64, error)
	cpuInfo        func(ctx context.Context) ([]cpu.InfoStat, error)
	cpuCounts      func(ctx context.Context, logical bool) (int, error)
	virtualMemory  func(ctx context.Context) (*mem.VirtualMemoryStat, error)
	swapMemory     func(ctx context.Context) (*mem.SwapMemoryStat, error)
	diskPartitions func(ctx context.Context, all bool) ([]disk.PartitionStat, error)
	diskUsage      func(ctx context.Context, path string) (*disk.UsageStat, error)
	netInterfaces  func(ctx context.Context) (gnet.InterfaceStatList, error)
	netIOCounters  func(ctx context.Context, pernic bool) ([]gnet.IOCountersStat, error)
	hostInfo       func(ctx context.Context) (*host.InfoStat, error)
	readFile       func(path string) ([]byte, error)
}

// New creates a SystemProbe backed by the real OS entry points and the given
// GPU probe. If logger is nil, a no-op logger is used. If gpuProbe is nil,
// GPU sampling reports no devices.
func New(gpuProbe gpu.Probe, logger *slog.Logger) *SystemProbe {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if gpuProbe == nil {
		gpuProbe = gpu.None()
	}

	return &SystemProbe{
		logger:         logger,
		gpu:            gpuProbe,
		cpuPercent:     cpu.PercentWithContext,
		cpuInfo:        cpu.InfoWithContext,
		cpuCounts:      cpu.CountsWithContext,
		virtualMemory:  mem.VirtualMemoryWithContext,
		swapMemory:     mem.SwapMemoryWithContext,
		diskPartitions: disk.PartitionsWithContext,
		diskUsage:      disk.UsageWithContext,
		netInterfaces:  gnet.InterfacesWithContext,
		netIOCounters:  gnet.IOCountersWithContext,
		hostInfo:       host.InfoWithContext,
		readFile:       os.ReadFile,
	}
}

// BuildSnapshot assembles one complete live snapshot from a probe. All
// domains are sampled concurrently; a failing domain contributes its zero
// value and never aborts the others. BuildSnapshot never fails and is safe
// for concurrent callers.
func BuildSnapshot(ctx context.Context, p HardwareProbe) metrics.Snapshot {
	snap := metrics.Snapshot{Timestamp: time.Now()}

	var wg sync.WaitGroup
	wg.Add(5)

	go func() {
		defer wg.Done()
		snap.CPU, _ = p.SampleCPU(ctx)
	}()
	go func() {
		defer wg.Done()
		snap.Memory, _ = p.SampleMemory(ctx)
	}()
	go func() {
		defer wg.Done()
		snap.Disks, _ = p.SampleDisks(ctx)
	}()
	go func() {
		defer wg.Done()
		snap.Network, _ = p.SampleNetwork(ctx)
	}()
	go func() {
		defer wg.Done()
		snap.GPU, _ = p.SampleGPU(ctx)
	}()

	wg.Wait()
	return snap
}

// Snapshot builds one complete live snapshot from this probe.
func (p *SystemProbe) Snapshot(ctx context.Context) metrics.Snapshot {
	return BuildSnapshot(ctx, p)
}

// Compile-time interface compliance check.
var _ HardwareProbe = (*SystemProbe)(nil)
