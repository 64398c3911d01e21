package probes

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"gitlab.com/tinyland/lab/hwpulse/metrics"
)

// SampleNetwork reads per-interface state and byte counters. The loopback
// interface is always excluded. Interfaces missing from the counter table
// report zero bytes rather than being dropped.
func (p *SystemProbe) SampleNetwork(ctx context.Context) ([]metrics.NetworkMetrics, bool) {
	ifaces, err := p.netInterfaces(ctx)
	if err != nil {
		p.logger.Debug("network probe: interfaces", "error", err)
		return []metrics.NetworkMetrics{}, false
	}

	counters := make(map[string]struct{ sent, recv uint64 })
	if io, err := p.netIOCounters(ctx, true); err != nil {
		p.logger.Debug("network probe: io counters", "error", err)
	} else {
		for _, c := range io {
			counters[c.Name] = struct{ sent, recv uint64 }{c.BytesSent, c.BytesRecv}
		}
	}

	out := make([]metrics.NetworkMetrics, 0, len(ifaces))
	for _, iface := range ifaces {
		if isLoopback(iface.Name, iface.Flags) {
			continue
		}

		m := metrics.NetworkMetrics{
			Name:      iface.Name,
			IsUp:      hasFlag(iface.Flags, "up"),
			SpeedMbps: p.linkSpeed(iface.Name),
		}
		for _, addr := range iface.Addrs {
			m.Addresses = append(m.Addresses, addr.Addr)
		}
		if c, ok := counters[iface.Name]; ok {
			m.BytesSent = c.sent
			m.BytesRecv = c.recv
		}
		out = append(out, m)
	}

	return out, true
}

// linkSpeed reads the negotiated speed from sysfs. Interfaces that do not
// negotiate (virtual devices, some wifi drivers) report -1 or nothing; both
// map to nil.
func (p *SystemProbe) linkSpeed(name string) *int64 {
	data, err := p.readFile(fmt.Sprintf("/sys/class/net/%s/speed", name))
	if err != nil {
		return nil
	}
	speed, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil || speed <= 0 {
		return nil
	}
	return metrics.Int64Ptr(speed)
}

func isLoopback(name string, flags []string) bool {
	return name == "lo" || hasFlag(flags, "loopback")
}

func hasFlag(flags []string, want string) bool {
	for _, f := range flags {
		if strings.EqualFold(f, want) {
			return true
		}
	}
	return false
}
