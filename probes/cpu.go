package probes

import (
	"context"

	"gitlab.com/tinyland/lab/hwpulse/metrics"
)

// SampleCPU reads per-core and aggregate utilization. Utilization is the
// delta since the previous call (gopsutil keeps the last reading per
// process), so the first sample after startup reports near zero.
func (p *SystemProbe) SampleCPU(ctx context.Context) (metrics.CPUMetrics, bool) {
	perCore, err := p.cpuPercent(ctx, 0, true)
	if err != nil {
		p.logger.Debug("cpu probe: per-core percent", "error", err)
		return metrics.CPUMetrics{PerCore: []float64{}}, false
	}

	for i := range perCore {
		perCore[i] = metrics.ClampPercent(perCore[i])
	}

	m := metrics.CPUMetrics{
		PerCore: perCore,
		Cores:   len(perCore),
	}

	overall, err := p.cpuPercent(ctx, 0, false)
	if err != nil || len(overall) == 0 {
		p.logger.Debug("cpu probe: overall percent", "error", err)
	} else {
		m.Overall = metrics.ClampPercent(overall[0])
	}

	// Frequency is optional: not every platform reports it.
	if infos, err := p.cpuInfo(ctx); err == nil && len(infos) > 0 && infos[0].Mhz > 0 {
		m.FrequencyMHz = metrics.Float64Ptr(infos[0].Mhz)
	}

	return m, true
}
