//go:build linux && cgo

package gpu

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/NVIDIA/go-nvml/pkg/nvml"

	"gitlab.com/tinyland/lab/hwpulse/metrics"
)

// NVMLProbe queries GPUs through the in-process NVML library. NVML avoids
// the subprocess cost of nvidia-smi and reports the same fields; it is the
// preferred backend when the driver library loads.
type NVMLProbe struct {
	logger *slog.Logger
}

// detectNVML returns an NVMLProbe when the NVML library initializes, nil
// otherwise. The probing Init is shut down immediately; each query performs
// its own Init/Shutdown pair so a driver reload between calls cannot leave
// a stale handle.
func detectNVML(logger *slog.Logger) Probe {
	if ret := nvml.Init(); ret != nvml.SUCCESS {
		logger.Debug("gpu: nvml init failed", "error", nvml.ErrorString(ret))
		return nil
	}
	_ = nvml.Shutdown()
	return &NVMLProbe{logger: logger}
}

func (p *NVMLProbe) Name() string { return "nvml" }

// Devices reads live metrics for every device. Per-metric failures leave
// the field nil; only a library-level failure is an error.
func (p *NVMLProbe) Devices(ctx context.Context) ([]metrics.GPUMetrics, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if ret := nvml.Init(); ret != nvml.SUCCESS {
		return nil, fmt.Errorf("gpu: nvml init: %s", nvml.ErrorString(ret))
	}
	defer func() { _ = nvml.Shutdown() }()

	count, ret := nvml.DeviceGetCount()
	if ret != nvml.SUCCESS {
		return nil, fmt.Errorf("gpu: nvml device count: %s", nvml.ErrorString(ret))
	}

	devices := []metrics.GPUMetrics{}
	for i := 0; i < count; i++ {
		device, ret := nvml.DeviceGetHandleByIndex(i)
		if ret != nvml.SUCCESS {
			p.logger.Debug("gpu: nvml device handle",
				"index", i, "error", nvml.ErrorString(ret))
			continue
		}

		dev := metrics.GPUMetrics{Index: i}
		if name, ret := device.GetName(); ret == nvml.SUCCESS {
			dev.Name = name
		}
		if util, ret := device.GetUtilizationRates(); ret == nvml.SUCCESS {
			dev.Utilization = metrics.Float64Ptr(float64(util.Gpu))
		}
		if temp, ret := device.GetTemperature(nvml.TEMPERATURE_GPU); ret == nvml.SUCCESS {
			dev.Temperature = metrics.Float64Ptr(float64(temp))
		}
		if memInfo, ret := device.GetMemoryInfo(); ret == nvml.SUCCESS {
			dev.MemoryUsed = metrics.Uint64Ptr(memInfo.Used)
			dev.MemoryTotal = metrics.Uint64Ptr(memInfo.Total)
			if memInfo.Total > 0 {
				dev.MemoryPercent = metrics.Float64Ptr(
					metrics.UsagePercent(memInfo.Used, memInfo.Total))
			}
		}
		if powerMW, ret := device.GetPowerUsage(); ret == nvml.SUCCESS {
			dev.Power = metrics.Float64Ptr(float64(powerMW) / 1000)
		}
		devices = append(devices, dev)
	}

	return devices, nil
}

// Inventory reads static identity for every device plus driver and CUDA
// versions.
func (p *NVMLProbe) Inventory(ctx context.Context) (metrics.GPUInventory, error) {
	inv := metrics.GPUInventory{GPUs: []metrics.GPUDevice{}}
	if err := ctx.Err(); err != nil {
		return inv, err
	}
	if ret := nvml.Init(); ret != nvml.SUCCESS {
		return inv, fmt.Errorf("gpu: nvml init: %s", nvml.ErrorString(ret))
	}
	defer func() { _ = nvml.Shutdown() }()

	if driver, ret := nvml.SystemGetDriverVersion(); ret == nvml.SUCCESS {
		inv.DriverVersion = driver
	}
	if cudaVersion, ret := nvml.SystemGetCudaDriverVersion(); ret == nvml.SUCCESS && cudaVersion > 0 {
		inv.CUDAVersion = fmt.Sprintf("%d.%d", cudaVersion/1000, cudaVersion%1000/10)
	}

	count, ret := nvml.DeviceGetCount()
	if ret != nvml.SUCCESS {
		return inv, fmt.Errorf("gpu: nvml device count: %s", nvml.ErrorString(ret))
	}

	for i := 0; i < count; i++ {
		device, ret := nvml.DeviceGetHandleByIndex(i)
		if ret != nvml.SUCCESS {
			continue
		}
		dev := metrics.GPUDevice{Index: i, DriverVersion: inv.DriverVersion}
		if name, ret := device.GetName(); ret == nvml.SUCCESS {
			dev.Name = name
		}
		if memInfo, ret := device.GetMemoryInfo(); ret == nvml.SUCCESS {
			dev.TotalMemoryBytes = memInfo.Total
		}
		inv.GPUs = append(inv.GPUs, dev)
	}

	inv.GPUCount = len(inv.GPUs)
	return inv, nil
}

var _ Probe = (*NVMLProbe)(nil)
