// Package metrics defines the canonical data structures exchanged between
// the hardware probes, the broadcast hub, and the presentation layers.
// A Snapshot is immutable once built: producers hand it to consumers by
// value and never mutate it afterwards, so it can be shared across observer
// goroutines without copying.
package metrics

import "time"

// Snapshot is one timestamped reading of every hardware domain.
// A failing probe leaves its field at the documented zero value; a Snapshot
// is always fully populated, never partial.
type Snapshot struct {
	// Timestamp records when the snapshot was captured.
	Timestamp time.Time `json:"timestamp"`

	// CPU holds utilization and frequency readings.
	CPU CPUMetrics `json:"cpu"`

	// Memory holds RAM and swap usage.
	Memory MemoryMetrics `json:"memory"`

	// Disks lists per-mount usage. Mounts the process cannot read are
	// omitted, not reported as errors.
	Disks []DiskMetrics `json:"disks"`

	// Network lists per-interface counters. The loopback interface is
	// always excluded.
	Network []NetworkMetrics `json:"network"`

	// GPU lists per-device readings; empty when no compatible device or
	// vendor tooling is present.
	GPU []GPUMetrics `json:"gpu"`
}

// CPUMetrics holds live CPU utilization readings.
type CPUMetrics struct {
	// PerCore is the utilization percentage per logical core, indexed by
	// logical core id.
	PerCore []float64 `json:"per_core"`

	// Overall is the aggregate utilization percentage across all cores.
	Overall float64 `json:"overall"`

	// FrequencyMHz is the current clock frequency. Nil when unavailable.
	FrequencyMHz *float64 `json:"frequency_mhz"`

	// Cores is the number of logical cores.
	Cores int `json:"cores"`
}

// MemoryMetrics holds RAM and swap usage in bytes.
type MemoryMetrics struct {
	Total       uint64  `json:"total"`
	Available   uint64  `json:"available"`
	Used        uint64  `json:"used"`
	Percent     float64 `json:"percent"`
	SwapTotal   uint64  `json:"swap_total"`
	SwapUsed    uint64  `json:"swap_used"`
	SwapPercent float64 `json:"swap_percent"`
}

// DiskMetrics holds usage for a single mounted filesystem.
type DiskMetrics struct {
	Device     string  `json:"device"`
	Mountpoint string  `json:"mountpoint"`
	Fstype     string  `json:"fstype"`
	Total      uint64  `json:"total"`
	Used       uint64  `json:"used"`
	Free       uint64  `json:"free"`
	Percent    float64 `json:"percent"`
}

// NetworkMetrics holds counters for a single non-loopback interface.
type NetworkMetrics struct {
	Name string `json:"name"`
	IsUp bool   `json:"is_up"`

	// SpeedMbps is the negotiated link speed. Nil when the interface does
	// not report one (virtual interfaces, wifi on some drivers).
	SpeedMbps *int64 `json:"speed_mbps"`

	BytesSent uint64 `json:"bytes_sent"`
	BytesRecv uint64 `json:"bytes_recv"`

	// Addresses lists the bound addresses in CIDR form.
	Addresses []string `json:"addresses,omitempty"`
}

// GPUMetrics holds live readings for one GPU device. Pointer fields
// serialize as null when the vendor tooling could not report them.
type GPUMetrics struct {
	Index         int      `json:"index"`
	Name          string   `json:"name"`
	Utilization   *float64 `json:"utilization"`
	Temperature   *float64 `json:"temperature"`
	MemoryUsed    *uint64  `json:"memory_used"`
	MemoryTotal   *uint64  `json:"memory_total"`
	MemoryPercent *float64 `json:"memory_percent"`
	Power         *float64 `json:"power"`
}

// UsagePercent computes used/total as a percentage clamped to [0,100].
// A zero total yields 0, not NaN.
func UsagePercent(used, total uint64) float64 {
	if total == 0 {
		return 0
	}
	return ClampPercent(float64(used) * 100 / float64(total))
}

// ClampPercent clamps a percentage into [0,100].
func ClampPercent(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// Float64Ptr returns a pointer to v. Convenience for optional metric fields.
func Float64Ptr(v float64) *float64 { return &v }

// Uint64Ptr returns a pointer to v.
func Uint64Ptr(v uint64) *uint64 { return &v }

// Int64Ptr returns a pointer to v.
func Int64Ptr(v int64) *int64 { return &v }
