// Package setupcheck inspects the host for the GPU tooling hwpulse can use
// and reports actionable findings. Checks never fail the process; a missing
// driver or toolkit is a finding, not an error.
package setupcheck

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Status classifies one check outcome.
type Status string

const (
	// StatusPass means the component is present and usable.
	StatusPass Status = "pass"
	// StatusWarn means the component works but with a caveat.
	StatusWarn Status = "warn"
	// StatusFail means the component is missing or unusable.
	StatusFail Status = "fail"
)

// CheckResult is one environment finding.
type CheckResult struct {
	Name           string `json:"name"`
	Status         Status `json:"status"`
	Message        string `json:"message"`
	Recommendation string `json:"recommendation,omitempty"`
}

// Report is the full set of findings from one run.
type Report struct {
	Timestamp time.Time     `json:"timestamp"`
	Results   []CheckResult `json:"results"`
	AllPassed bool          `json:"all_passed"`
}

// Checker runs the environment checks. The command entry points are
// function fields so tests can substitute canned output.
type Checker struct {
	logger *slog.Logger

	run      func(ctx context.Context, name string, args ...string) ([]byte, error)
	lookPath func(name string) (string, error)
}

// New creates a Checker backed by the real PATH and subprocess entry
// points. If logger is nil, a no-op logger is used.
func New(logger *slog.Logger) *Checker {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Checker{
		logger: logger,
		run: func(ctx context.Context, name string, args ...string) ([]byte, error) {
			return exec.CommandContext(ctx, name, args...).Output()
		},
		lookPath: exec.LookPath,
	}
}

// Run executes every check and assembles the report.
func (c *Checker) Run(ctx context.Context) Report {
	driver := c.checkDriver(ctx)
	toolkit := c.checkCUDAToolkit(ctx)
	compat := c.checkCompatibility(ctx, driver, toolkit)

	report := Report{
		Timestamp: time.Now(),
		Results:   []CheckResult{driver, toolkit, compat},
		AllPassed: true,
	}
	for _, r := range report.Results {
		if r.Status == StatusFail {
			report.AllPassed = false
		}
	}
	return report
}

// checkDriver verifies the NVIDIA driver by asking nvidia-smi for its
// version.
func (c *Checker) checkDriver(ctx context.Context) CheckResult {
	result := CheckResult{Name: "nvidia-driver"}

	if _, err := c.lookPath("nvidia-smi"); err != nil {
		result.Status = StatusFail
		result.Message = "nvidia-smi not found in PATH"
		result.Recommendation = "Install the NVIDIA driver package for your distribution"
		return result
	}

	out, err := c.run(ctx, "nvidia-smi",
		"--query-gpu=driver_version", "--format=csv,noheader")
	if err != nil {
		result.Status = StatusFail
		result.Message = fmt.Sprintf("nvidia-smi present but not responding: %v", err)
		result.Recommendation = "Check that the NVIDIA kernel module is loaded (lsmod | grep nvidia)"
		return result
	}

	version := firstLine(string(out))
	if version == "" {
		result.Status = StatusWarn
		result.Message = "nvidia-smi responded but reported no driver version"
		return result
	}

	result.Status = StatusPass
	result.Message = fmt.Sprintf("driver version %s", version)
	return result
}

// checkCUDAToolkit verifies the CUDA compiler is installed.
func (c *Checker) checkCUDAToolkit(ctx context.Context) CheckResult {
	result := CheckResult{Name: "cuda-toolkit"}

	if _, err := c.lookPath("nvcc"); err != nil {
		result.Status = StatusWarn
		result.Message = "nvcc not found in PATH"
		result.Recommendation = "Install the CUDA toolkit if you plan to build CUDA workloads"
		return result
	}

	out, err := c.run(ctx, "nvcc", "--version")
	if err != nil {
		result.Status = StatusWarn
		result.Message = fmt.Sprintf("nvcc present but not responding: %v", err)
		return result
	}

	version := parseNvccVersion(string(out))
	if version == "" {
		result.Status = StatusWarn
		result.Message = "nvcc responded but its version could not be parsed"
		return result
	}

	result.Status = StatusPass
	result.Message = fmt.Sprintf("CUDA toolkit %s", version)
	return result
}

// checkCompatibility compares the toolkit version against the highest CUDA
// version the driver supports. A toolkit newer than the driver supports is
// the common broken setup after a partial upgrade.
func (c *Checker) checkCompatibility(ctx context.Context, driver, toolkit CheckResult) CheckResult {
	result := CheckResult{Name: "driver-cuda-compat"}

	if driver.Status == StatusFail || toolkit.Status != StatusPass {
		result.Status = StatusWarn
		result.Message = "skipped: needs both a working driver and a CUDA toolkit"
		return result
	}

	out, err := c.run(ctx, "nvidia-smi",
		"--query-gpu=cuda_version", "--format=csv,noheader")
	driverCUDA := ""
	if err == nil {
		driverCUDA = firstLine(string(out))
	}
	if driverCUDA == "" || strings.Contains(driverCUDA, "N/A") {
		result.Status = StatusWarn
		result.Message = "driver did not report a supported CUDA version"
		return result
	}

	toolkitCUDA := strings.TrimPrefix(toolkit.Message, "CUDA toolkit ")
	if versionLess(driverCUDA, toolkitCUDA) {
		result.Status = StatusFail
		result.Message = fmt.Sprintf(
			"toolkit %s is newer than the driver's CUDA %s", toolkitCUDA, driverCUDA)
		result.Recommendation = "Upgrade the NVIDIA driver or install a matching older toolkit"
		return result
	}

	result.Status = StatusPass
	result.Message = fmt.Sprintf("driver CUDA %s supports toolkit %s", driverCUDA, toolkitCUDA)
	return result
}

var nvccReleaseRe = regexp.MustCompile(`release (\d+\.\d+)`)

// parseNvccVersion extracts the "release X.Y" version from nvcc output.
func parseNvccVersion(out string) string {
	m := nvccReleaseRe.FindStringSubmatch(out)
	if m == nil {
		return ""
	}
	return m[1]
}

// versionLess reports whether version a is lower than b, comparing
// major.minor numerically.
func versionLess(a, b string) bool {
	amaj, amin := splitVersion(a)
	bmaj, bmin := splitVersion(b)
	if amaj != bmaj {
		return amaj < bmaj
	}
	return amin < bmin
}

func splitVersion(v string) (major, minor int) {
	parts := strings.SplitN(strings.TrimSpace(v), ".", 3)
	if len(parts) > 0 {
		major, _ = strconv.Atoi(parts[0])
	}
	if len(parts) > 1 {
		minor, _ = strconv.Atoi(parts[1])
	}
	return major, minor
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(line)
}
