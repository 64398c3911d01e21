package inventory

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"

	"gitlab.com/tinyland/lab/hwpulse/internal/format"
	"gitlab.com/tinyland/lab/hwpulse/metrics"
)

var (
	styleHeading = lipgloss.NewStyle().Bold(true)
	styleSection = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7AA2F7"))
	styleDim     = lipgloss.NewStyle().Foreground(lipgloss.Color("#565F89"))
)

// Summary renders a human-readable inventory report sized to the current
// terminal.
func Summary(inv metrics.Inventory) string {
	width := terminalWidth()
	rule := strings.Repeat("=", width)

	var b strings.Builder
	b.WriteString(rule + "\n")
	b.WriteString(styleHeading.Render("HARDWARE INVENTORY SUMMARY") + "\n")
	b.WriteString(rule + "\n")
	b.WriteString(fmt.Sprintf("Timestamp: %s\n", inv.Timestamp.Format("2006-01-02 15:04:05")))
	b.WriteString(fmt.Sprintf("Hostname:  %s\n", inv.System.Hostname))
	b.WriteString(fmt.Sprintf("OS:        %s %s (%s)\n",
		inv.System.OS, inv.System.OSVersion, inv.System.KernelVersion))
	b.WriteString(fmt.Sprintf("Uptime:    %s\n", format.Uptime(inv.System.UptimeSeconds)))

	b.WriteString("\n" + styleSection.Render("--- CPU ---") + "\n")
	model := inv.CPU.Model
	if model == "" {
		model = "unknown"
	}
	b.WriteString(fmt.Sprintf("Model:           %s\n", format.TruncateWithEllipsis(model, width-17)))
	b.WriteString(fmt.Sprintf("Physical Cores:  %d\n", inv.CPU.PhysicalCores))
	b.WriteString(fmt.Sprintf("Logical Threads: %d\n", inv.CPU.LogicalThreads))
	if inv.CPU.MaxFrequencyMHz != nil {
		b.WriteString(fmt.Sprintf("Max Frequency:   %s\n", format.MHz(*inv.CPU.MaxFrequencyMHz)))
	}

	b.WriteString("\n" + styleSection.Render("--- Memory ---") + "\n")
	b.WriteString(fmt.Sprintf("Total:     %s\n", format.Bytes(inv.Memory.TotalBytes)))
	b.WriteString(fmt.Sprintf("Available: %s\n", format.Bytes(inv.Memory.AvailableBytes)))
	b.WriteString(fmt.Sprintf("Used:      %s (%s)\n",
		format.Bytes(inv.Memory.UsedBytes), format.Percent(inv.Memory.UsagePercent)))

	b.WriteString("\n" + styleSection.Render("--- Disks ---") + "\n")
	if len(inv.Disks) == 0 {
		b.WriteString(styleDim.Render("no mounted filesystems") + "\n")
	}
	for _, d := range inv.Disks {
		b.WriteString(fmt.Sprintf("%s (%s): %s free of %s (%s used)\n",
			d.Mountpoint, d.Fstype,
			format.Bytes(d.FreeBytes), format.Bytes(d.TotalBytes),
			format.Percent(d.UsagePercent)))
	}

	b.WriteString("\n" + styleSection.Render("--- Network Interfaces ---") + "\n")
	if len(inv.Network) == 0 {
		b.WriteString(styleDim.Render("no interfaces") + "\n")
	}
	for _, n := range inv.Network {
		status := "UP"
		if !n.IsUp {
			status = "DOWN"
		}
		b.WriteString(fmt.Sprintf("%s: %s\n", n.Name, status))
		for _, addr := range n.Addresses {
			b.WriteString(fmt.Sprintf("  %s\n", addr))
		}
	}

	b.WriteString("\n" + styleSection.Render("--- GPU ---") + "\n")
	if inv.GPU.GPUCount == 0 {
		b.WriteString(styleDim.Render("No GPU detected") + "\n")
	} else {
		b.WriteString(fmt.Sprintf("Driver Version: %s\n", orUnknown(inv.GPU.DriverVersion)))
		b.WriteString(fmt.Sprintf("CUDA Version:   %s\n", orUnknown(inv.GPU.CUDAVersion)))
		b.WriteString(fmt.Sprintf("GPU Count:      %d\n", inv.GPU.GPUCount))
		for _, g := range inv.GPU.GPUs {
			b.WriteString(fmt.Sprintf("  GPU %d: %s (%s)\n",
				g.Index, g.Name, format.Bytes(g.TotalMemoryBytes)))
		}
	}

	b.WriteString(rule + "\n")
	return b.String()
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

// terminalWidth returns the stdout width, clamped to a readable range.
// Falls back to 60 columns when stdout is not a terminal.
func terminalWidth() int {
	width, _, err := term.GetSize(os.Stdout.Fd())
	if err != nil || width <= 0 {
		return 60
	}
	if width > 100 {
		return 100
	}
	if width < 40 {
		return 40
	}
	return width
}
