// Package gpu provides NVIDIA GPU probing with two interchangeable
// backends: the in-process NVML library and the nvidia-smi CLI. Both
// normalize to the same device entry shape, so callers cannot tell which
// path served a reading. The backend is chosen once at startup by Detect;
// business logic never branches on backend per call.
package gpu

import (
	"context"
	"io"
	"log/slog"

	"gitlab.com/tinyland/lab/hwpulse/metrics"
)

// Probe queries GPU devices. Implementations must be safe for concurrent
// use and must honor context cancellation on every call.
type Probe interface {
	// Name identifies the backend ("nvml", "nvidia-smi", "none").
	Name() string

	// Devices returns live metrics for every device. A host without
	// devices yields an empty slice and no error.
	Devices(ctx context.Context) ([]metrics.GPUMetrics, error)

	// Inventory returns static device identity plus driver and CUDA
	// versions.
	Inventory(ctx context.Context) (metrics.GPUInventory, error)
}

// Detect selects the best available backend: NVML when the driver library
// loads, nvidia-smi when the CLI answers, otherwise a no-op probe.
func Detect(ctx context.Context, logger *slog.Logger) Probe {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if p := detectNVML(logger); p != nil {
		logger.Debug("gpu: using NVML backend")
		return p
	}

	smi := NewSMIProbe("", logger)
	if smi.available(ctx) {
		logger.Debug("gpu: using nvidia-smi backend")
		return smi
	}

	logger.Debug("gpu: no backend available")
	return None()
}

// None returns a probe that reports no devices. Used on hosts without
// NVIDIA tooling and when GPU sampling is disabled by configuration.
func None() Probe { return noneProbe{} }

type noneProbe struct{}

func (noneProbe) Name() string { return "none" }

func (noneProbe) Devices(context.Context) ([]metrics.GPUMetrics, error) {
	return []metrics.GPUMetrics{}, nil
}

func (noneProbe) Inventory(context.Context) (metrics.GPUInventory, error) {
	return metrics.GPUInventory{GPUs: []metrics.GPUDevice{}}, nil
}
