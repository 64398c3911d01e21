package metrics

import (
	"encoding/json"
	"testing"
	"time"
)

func TestUsagePercent(t *testing.T) {
	tests := []struct {
		name  string
		used  uint64
		total uint64
		want  float64
	}{
		{"half", 8_000_000_000, 16_000_000_000, 50},
		{"zero total", 100, 0, 0},
		{"zero used", 0, 100, 0},
		{"full", 100, 100, 100},
		{"over full clamps", 150, 100, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UsagePercent(tt.used, tt.total); got != tt.want {
				t.Errorf("UsagePercent(%d, %d) = %v, want %v", tt.used, tt.total, got, tt.want)
			}
		})
	}
}

func TestClampPercent(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{-5, 0},
		{0, 0},
		{42.5, 42.5},
		{100, 100},
		{101.3, 100},
	}

	for _, tt := range tests {
		if got := ClampPercent(tt.in); got != tt.want {
			t.Errorf("ClampPercent(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSnapshotJSONFieldNames(t *testing.T) {
	snap := Snapshot{
		Timestamp: time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC),
		CPU: CPUMetrics{
			PerCore:      []float64{10, 20},
			Overall:      15,
			FrequencyMHz: Float64Ptr(3400),
			Cores:        2,
		},
		Memory: MemoryMetrics{Total: 16e9, Used: 8e9, Percent: 50},
		Disks: []DiskMetrics{
			{Device: "/dev/sda1", Mountpoint: "/", Fstype: "ext4", Percent: 42},
		},
		Network: []NetworkMetrics{
			{Name: "eth0", IsUp: true, SpeedMbps: Int64Ptr(1000)},
		},
		GPU: []GPUMetrics{
			{Index: 0, Name: "RTX 4090", Utilization: Float64Ptr(33)},
		},
	}

	data, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	for _, key := range []string{"timestamp", "cpu", "memory", "disks", "network", "gpu"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("missing top-level key %q", key)
		}
	}

	cpu := decoded["cpu"].(map[string]any)
	for _, key := range []string{"per_core", "overall", "frequency_mhz", "cores"} {
		if _, ok := cpu[key]; !ok {
			t.Errorf("missing cpu key %q", key)
		}
	}

	mem := decoded["memory"].(map[string]any)
	for _, key := range []string{"total", "available", "used", "percent", "swap_total", "swap_used", "swap_percent"} {
		if _, ok := mem[key]; !ok {
			t.Errorf("missing memory key %q", key)
		}
	}

	gpu := decoded["gpu"].([]any)[0].(map[string]any)
	for _, key := range []string{"index", "name", "utilization", "temperature", "memory_used", "memory_total", "memory_percent", "power"} {
		if _, ok := gpu[key]; !ok {
			t.Errorf("missing gpu key %q", key)
		}
	}
	if gpu["temperature"] != nil {
		t.Errorf("unreported temperature should serialize as null, got %v", gpu["temperature"])
	}
}

func TestGPUOptionalFieldsSerializeAsNull(t *testing.T) {
	data, err := json.Marshal(GPUMetrics{Index: 1, Name: "bare"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	for _, key := range []string{"utilization", "temperature", "memory_used", "memory_total", "memory_percent", "power"} {
		v, ok := decoded[key]
		if !ok {
			t.Errorf("key %q absent, want explicit null", key)
			continue
		}
		if v != nil {
			t.Errorf("key %q = %v, want null", key, v)
		}
	}
}
