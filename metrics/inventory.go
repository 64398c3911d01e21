package metrics

import "time"

// Inventory is the one-shot hardware catalog. It carries static identity
// (CPU model, GPU driver version, interface addresses) that the live
// Snapshot omits, and is the payload of the inventory export file and the
// /api/inventory endpoint.
type Inventory struct {
	Timestamp time.Time          `json:"timestamp"`
	System    SystemInfo         `json:"system"`
	CPU       CPUInfo            `json:"cpu"`
	Memory    MemoryInfo         `json:"memory"`
	Disks     []DiskInfo         `json:"disks"`
	Network   []NetworkInterface `json:"network"`
	GPU       GPUInventory       `json:"gpu"`
}

// SystemInfo identifies the host.
type SystemInfo struct {
	Hostname      string `json:"hostname"`
	OS            string `json:"os"`
	OSVersion     string `json:"os_version"`
	KernelVersion string `json:"kernel_version"`
	Platform      string `json:"platform"`
	UptimeSeconds uint64 `json:"uptime_seconds"`
}

// CPUInfo describes the processor.
type CPUInfo struct {
	Model          string `json:"model"`
	PhysicalCores  int    `json:"physical_cores"`
	LogicalThreads int    `json:"logical_threads"`
	Architecture   string `json:"architecture"`

	// Frequencies are nil when the platform does not expose them.
	BaseFrequencyMHz *float64 `json:"base_frequency_mhz,omitempty"`
	MinFrequencyMHz  *float64 `json:"min_frequency_mhz,omitempty"`
	MaxFrequencyMHz  *float64 `json:"max_frequency_mhz,omitempty"`
}

// MemoryInfo describes installed memory and current usage.
type MemoryInfo struct {
	TotalBytes     uint64  `json:"total_bytes"`
	AvailableBytes uint64  `json:"available_bytes"`
	UsedBytes      uint64  `json:"used_bytes"`
	UsagePercent   float64 `json:"usage_percent"`
	SwapTotalBytes uint64  `json:"swap_total_bytes"`
	SwapUsedBytes  uint64  `json:"swap_used_bytes"`
	SwapPercent    float64 `json:"swap_percent"`
}

// DiskInfo describes one mounted filesystem.
type DiskInfo struct {
	Device       string  `json:"device"`
	Mountpoint   string  `json:"mountpoint"`
	Fstype       string  `json:"fstype"`
	TotalBytes   uint64  `json:"total_bytes"`
	UsedBytes    uint64  `json:"used_bytes"`
	FreeBytes    uint64  `json:"free_bytes"`
	UsagePercent float64 `json:"usage_percent"`
}

// NetworkInterface describes one non-loopback interface with its addresses.
type NetworkInterface struct {
	Name      string   `json:"name"`
	IsUp      bool     `json:"is_up"`
	SpeedMbps *int64   `json:"speed_mbps"`
	Addresses []string `json:"addresses"`
}

// GPUInventory describes detected GPU devices and vendor tooling versions.
type GPUInventory struct {
	DriverVersion string      `json:"driver_version,omitempty"`
	CUDAVersion   string      `json:"cuda_version,omitempty"`
	GPUs          []GPUDevice `json:"gpus"`
	GPUCount      int         `json:"gpu_count"`
}

// GPUDevice is the static identity of one GPU.
type GPUDevice struct {
	Index            int    `json:"index"`
	Name             string `json:"name"`
	DriverVersion    string `json:"driver_version"`
	TotalMemoryBytes uint64 `json:"total_memory_bytes"`
}
