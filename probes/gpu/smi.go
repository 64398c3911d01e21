package gpu

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"

	"gitlab.com/tinyland/lab/hwpulse/metrics"
)

const defaultSMIBinary = "nvidia-smi"

// mib is the unit nvidia-smi reports memory in with nounits formatting.
const mib = 1024 * 1024

// SMIProbe queries GPUs by invoking the nvidia-smi CLI with CSV output.
// The command runner is a function field so tests can substitute canned
// output without a GPU present.
type SMIProbe struct {
	binary string
	logger *slog.Logger
	run    func(ctx context.Context, name string, args ...string) ([]byte, error)
}

// NewSMIProbe creates an SMIProbe. An empty binary uses "nvidia-smi" from
// PATH. If logger is nil, a no-op logger is used.
func NewSMIProbe(binary string, logger *slog.Logger) *SMIProbe {
	if binary == "" {
		binary = defaultSMIBinary
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &SMIProbe{
		binary: binary,
		logger: logger,
		run: func(ctx context.Context, name string, args ...string) ([]byte, error) {
			return exec.CommandContext(ctx, name, args...).Output()
		},
	}
}

func (p *SMIProbe) Name() string { return "nvidia-smi" }

// available reports whether the CLI answers at all.
func (p *SMIProbe) available(ctx context.Context) bool {
	_, err := p.run(ctx, p.binary, "--query-gpu=count", "--format=csv,noheader")
	return err == nil
}

// Devices queries live metrics for all GPUs in one CLI invocation.
func (p *SMIProbe) Devices(ctx context.Context) ([]metrics.GPUMetrics, error) {
	out, err := p.run(ctx, p.binary,
		"--query-gpu=index,name,utilization.gpu,temperature.gpu,memory.used,memory.total,power.draw",
		"--format=csv,noheader,nounits")
	if err != nil {
		return nil, fmt.Errorf("gpu: nvidia-smi query: %w", err)
	}

	devices := []metrics.GPUMetrics{}
	sc := bufio.NewScanner(strings.NewReader(string(out)))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fields := splitCSV(line)
		if len(fields) < 7 {
			p.logger.Debug("gpu: short nvidia-smi line", "line", line)
			continue
		}

		index, err := strconv.Atoi(fields[0])
		if err != nil {
			p.logger.Debug("gpu: bad device index", "line", line)
			continue
		}

		dev := metrics.GPUMetrics{
			Index:       index,
			Name:        fields[1],
			Utilization: parseOptionalFloat(fields[2]),
			Temperature: parseOptionalFloat(fields[3]),
			Power:       parseOptionalFloat(fields[6]),
		}
		if used := parseOptionalFloat(fields[4]); used != nil {
			dev.MemoryUsed = metrics.Uint64Ptr(uint64(*used * mib))
		}
		if total := parseOptionalFloat(fields[5]); total != nil {
			dev.MemoryTotal = metrics.Uint64Ptr(uint64(*total * mib))
		}
		if dev.MemoryUsed != nil && dev.MemoryTotal != nil && *dev.MemoryTotal > 0 {
			dev.MemoryPercent = metrics.Float64Ptr(
				metrics.UsagePercent(*dev.MemoryUsed, *dev.MemoryTotal))
		}
		devices = append(devices, dev)
	}

	return devices, nil
}

// Inventory queries static device identity plus driver and CUDA versions.
func (p *SMIProbe) Inventory(ctx context.Context) (metrics.GPUInventory, error) {
	inv := metrics.GPUInventory{GPUs: []metrics.GPUDevice{}}

	if out, err := p.run(ctx, p.binary,
		"--query-gpu=driver_version,cuda_version", "--format=csv,noheader"); err == nil {
		if lines := strings.Split(strings.TrimSpace(string(out)), "\n"); len(lines) > 0 {
			fields := splitCSV(lines[0])
			if len(fields) >= 1 && fields[0] != "" && !isNotAvailable(fields[0]) {
				inv.DriverVersion = fields[0]
			}
			if len(fields) >= 2 && fields[1] != "" && !isNotAvailable(fields[1]) {
				inv.CUDAVersion = fields[1]
			}
		}
	}

	out, err := p.run(ctx, p.binary,
		"--query-gpu=index,name,memory.total", "--format=csv,noheader,nounits")
	if err != nil {
		return inv, fmt.Errorf("gpu: nvidia-smi inventory query: %w", err)
	}

	sc := bufio.NewScanner(strings.NewReader(string(out)))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fields := splitCSV(line)
		if len(fields) < 3 {
			continue
		}
		index, err := strconv.Atoi(fields[0])
		if err != nil {
			continue
		}
		dev := metrics.GPUDevice{
			Index:         index,
			Name:          fields[1],
			DriverVersion: inv.DriverVersion,
		}
		if totalMiB, err := strconv.ParseUint(fields[2], 10, 64); err == nil {
			dev.TotalMemoryBytes = totalMiB * mib
		}
		inv.GPUs = append(inv.GPUs, dev)
	}

	inv.GPUCount = len(inv.GPUs)
	return inv, nil
}

// splitCSV splits one nvidia-smi CSV line and trims whitespace per field.
func splitCSV(line string) []string {
	parts := strings.Split(line, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// parseOptionalFloat converts one CSV field to a float. nvidia-smi reports
// "[N/A]" (or "N/A" on older drivers) for metrics a device cannot supply.
func parseOptionalFloat(field string) *float64 {
	if isNotAvailable(field) {
		return nil
	}
	v, err := strconv.ParseFloat(field, 64)
	if err != nil {
		return nil
	}
	return metrics.Float64Ptr(v)
}

func isNotAvailable(field string) bool {
	f := strings.Trim(field, "[]")
	return f == "" || strings.EqualFold(f, "N/A")
}

var _ Probe = (*SMIProbe)(nil)
