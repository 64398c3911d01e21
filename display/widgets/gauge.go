// Package widgets provides small terminal rendering primitives for the
// dashboard: horizontal gauges and sparklines.
package widgets

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	gaugeWarning = 70
	gaugeDanger  = 90

	filledChar = "█"
	emptyChar  = "░"
)

// gaugeColor maps a percentage to green, yellow, or red.
func gaugeColor(percent float64) lipgloss.Color {
	switch {
	case percent >= gaugeDanger:
		return lipgloss.Color("#F7768E")
	case percent >= gaugeWarning:
		return lipgloss.Color("#E0AF68")
	default:
		return lipgloss.Color("#9ECE6A")
	}
}

// Gauge renders a horizontal bar with a trailing percentage.
// Format: ████████░░░░  42.5%
func Gauge(percent float64, width int) string {
	percent = math.Max(0, math.Min(100, percent))
	if width <= 0 {
		width = 20
	}

	filled := int(math.Round(percent / 100 * float64(width)))
	bar := lipgloss.NewStyle().
		Foreground(gaugeColor(percent)).
		Render(strings.Repeat(filledChar, filled))
	bar += strings.Repeat(emptyChar, width-filled)

	return fmt.Sprintf("%s %5.1f%%", bar, percent)
}

// MiniGauge renders a bar with no percentage text, for tight layouts.
func MiniGauge(percent float64, width int) string {
	percent = math.Max(0, math.Min(100, percent))
	if width <= 0 {
		width = 10
	}

	filled := int(math.Round(percent / 100 * float64(width)))
	bar := lipgloss.NewStyle().
		Foreground(gaugeColor(percent)).
		Render(strings.Repeat(filledChar, filled))
	return bar + strings.Repeat(emptyChar, width-filled)
}
