package probes

import (
	"bufio"
	"context"
	"runtime"
	"strconv"
	"strings"
	"time"

	"gitlab.com/tinyland/lab/hwpulse/metrics"
)

// Inventory builds the one-shot hardware catalog. Like Snapshot it never
// fails: a domain whose query errors contributes its zero value.
func (p *SystemProbe) Inventory(ctx context.Context) metrics.Inventory {
	inv := metrics.Inventory{Timestamp: time.Now()}

	inv.System = p.systemInfo(ctx)
	inv.CPU = p.cpuInventory(ctx)

	if m, ok := p.SampleMemory(ctx); ok {
		inv.Memory = metrics.MemoryInfo{
			TotalBytes:     m.Total,
			AvailableBytes: m.Available,
			UsedBytes:      m.Used,
			UsagePercent:   m.Percent,
			SwapTotalBytes: m.SwapTotal,
			SwapUsedBytes:  m.SwapUsed,
			SwapPercent:    m.SwapPercent,
		}
	}

	disks, _ := p.SampleDisks(ctx)
	inv.Disks = make([]metrics.DiskInfo, 0, len(disks))
	for _, d := range disks {
		inv.Disks = append(inv.Disks, metrics.DiskInfo{
			Device:       d.Device,
			Mountpoint:   d.Mountpoint,
			Fstype:       d.Fstype,
			TotalBytes:   d.Total,
			UsedBytes:    d.Used,
			FreeBytes:    d.Free,
			UsagePercent: d.Percent,
		})
	}

	nets, _ := p.SampleNetwork(ctx)
	inv.Network = make([]metrics.NetworkInterface, 0, len(nets))
	for _, n := range nets {
		addrs := n.Addresses
		if addrs == nil {
			addrs = []string{}
		}
		inv.Network = append(inv.Network, metrics.NetworkInterface{
			Name:      n.Name,
			IsUp:      n.IsUp,
			SpeedMbps: n.SpeedMbps,
			Addresses: addrs,
		})
	}

	inv.GPU = p.gpuInventory(ctx)
	return inv
}

// systemInfo reads host identity via gopsutil.
func (p *SystemProbe) systemInfo(ctx context.Context) metrics.SystemInfo {
	info, err := p.hostInfo(ctx)
	if err != nil {
		p.logger.Debug("inventory: host info", "error", err)
		return metrics.SystemInfo{}
	}
	return metrics.SystemInfo{
		Hostname:      info.Hostname,
		OS:            info.OS,
		OSVersion:     info.PlatformVersion,
		KernelVersion: info.KernelVersion,
		Platform:      info.Platform,
		UptimeSeconds: info.Uptime,
	}
}

// cpuInventory reads the processor's static identity. The model name
// preferred is /proc/cpuinfo's, which is more descriptive than what some
// gopsutil backends report; frequencies come from cpufreq sysfs when present.
func (p *SystemProbe) cpuInventory(ctx context.Context) metrics.CPUInfo {
	info := metrics.CPUInfo{
		Model:        "Unknown",
		Architecture: runtime.GOARCH,
	}

	if physical, err := p.cpuCounts(ctx, false); err == nil {
		info.PhysicalCores = physical
	}
	if logical, err := p.cpuCounts(ctx, true); err == nil {
		info.LogicalThreads = logical
	}

	if stats, err := p.cpuInfo(ctx); err == nil && len(stats) > 0 {
		if stats[0].ModelName != "" {
			info.Model = stats[0].ModelName
		}
		if stats[0].Mhz > 0 {
			info.BaseFrequencyMHz = metrics.Float64Ptr(stats[0].Mhz)
		}
	}

	if model := p.procCPUModel(); model != "" {
		info.Model = model
	}

	info.MinFrequencyMHz = p.cpufreqKHz("cpuinfo_min_freq")
	info.MaxFrequencyMHz = p.cpufreqKHz("cpuinfo_max_freq")
	return info
}

// procCPUModel extracts the "model name" line from /proc/cpuinfo.
func (p *SystemProbe) procCPUModel() string {
	data, err := p.readFile("/proc/cpuinfo")
	if err != nil {
		return ""
	}
	sc := bufio.NewScanner(strings.NewReader(string(data)))
	for sc.Scan() {
		line := sc.Text()
		if !strings.HasPrefix(strings.ToLower(line), "model name") {
			continue
		}
		if _, value, found := strings.Cut(line, ":"); found {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

// cpufreqKHz reads a cpufreq sysfs file for cpu0 and converts kHz to MHz.
func (p *SystemProbe) cpufreqKHz(file string) *float64 {
	data, err := p.readFile("/sys/devices/system/cpu/cpu0/cpufreq/" + file)
	if err != nil {
		return nil
	}
	khz, err := strconv.ParseFloat(strings.TrimSpace(string(data)), 64)
	if err != nil || khz <= 0 {
		return nil
	}
	return metrics.Float64Ptr(khz / 1000)
}

// gpuInventory queries the selected GPU backend for static device identity.
func (p *SystemProbe) gpuInventory(ctx context.Context) metrics.GPUInventory {
	ctx, cancel := context.WithTimeout(ctx, gpuTimeout)
	defer cancel()

	inv, err := p.gpu.Inventory(ctx)
	if err != nil {
		p.logger.Debug("inventory: gpu", "backend", p.gpu.Name(), "error", err)
		return metrics.GPUInventory{GPUs: []metrics.GPUDevice{}}
	}
	if inv.GPUs == nil {
		inv.GPUs = []metrics.GPUDevice{}
	}
	inv.GPUCount = len(inv.GPUs)
	return inv
}
