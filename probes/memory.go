package probes

import (
	"context"

	"gitlab.com/tinyland/lab/hwpulse/metrics"
)

// SampleMemory reads RAM and swap usage. A failed virtual memory read fails
// the whole domain; a failed swap read only zeroes the swap fields, since
// hosts without swap are common and still have meaningful RAM readings.
func (p *SystemProbe) SampleMemory(ctx context.Context) (metrics.MemoryMetrics, bool) {
	vm, err := p.virtualMemory(ctx)
	if err != nil {
		p.logger.Debug("memory probe: virtual memory", "error", err)
		return metrics.MemoryMetrics{}, false
	}

	m := metrics.MemoryMetrics{
		Total:     vm.Total,
		Available: vm.Available,
		Used:      vm.Used,
		Percent:   metrics.UsagePercent(vm.Used, vm.Total),
	}

	if swap, err := p.swapMemory(ctx); err != nil {
		p.logger.Debug("memory probe: swap", "error", err)
	} else {
		m.SwapTotal = swap.Total
		m.SwapUsed = swap.Used
		m.SwapPercent = metrics.UsagePercent(swap.Used, swap.Total)
	}

	return m, true
}
