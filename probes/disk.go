package probes

import (
	"context"

	"gitlab.com/tinyland/lab/hwpulse/metrics"
)

// SampleDisks reads usage for every mounted filesystem. Mounts the process
// cannot stat (permission denied, stale network mounts) are skipped, not
// reported as errors; an empty slice means nothing readable was detected.
func (p *SystemProbe) SampleDisks(ctx context.Context) ([]metrics.DiskMetrics, bool) {
	parts, err := p.diskPartitions(ctx, false)
	if err != nil {
		p.logger.Debug("disk probe: partitions", "error", err)
		return []metrics.DiskMetrics{}, false
	}

	disks := make([]metrics.DiskMetrics, 0, len(parts))
	for _, part := range parts {
		usage, err := p.diskUsage(ctx, part.Mountpoint)
		if err != nil {
			p.logger.Debug("disk probe: skipping mount",
				"mountpoint", part.Mountpoint, "error", err)
			continue
		}
		disks = append(disks, metrics.DiskMetrics{
			Device:     part.Device,
			Mountpoint: part.Mountpoint,
			Fstype:     part.Fstype,
			Total:      usage.Total,
			Used:       usage.Used,
			Free:       usage.Free,
			Percent:    metrics.ClampPercent(usage.UsedPercent),
		})
	}

	return disks, true
}
