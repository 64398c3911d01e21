package probes

import (
	"context"
	"time"

	"gitlab.com/tinyland/lab/hwpulse/metrics"
)

// gpuTimeout bounds every vendor-tooling call so a hung nvidia-smi or a
// wedged driver cannot stall the snapshot builder.
const gpuTimeout = 5 * time.Second

// SampleGPU reads live metrics for every detected GPU. An empty slice with
// ok=true is the normal result on hosts without a compatible device; ok is
// false only when the selected probe itself failed.
func (p *SystemProbe) SampleGPU(ctx context.Context) ([]metrics.GPUMetrics, bool) {
	ctx, cancel := context.WithTimeout(ctx, gpuTimeout)
	defer cancel()

	devices, err := p.gpu.Devices(ctx)
	if err != nil {
		p.logger.Debug("gpu probe: devices", "backend", p.gpu.Name(), "error", err)
		return []metrics.GPUMetrics{}, false
	}
	if devices == nil {
		devices = []metrics.GPUMetrics{}
	}
	return devices, true
}
