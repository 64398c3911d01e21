package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// sparkBlocks are the unicode block characters used for sparkline
// rendering, ordered from lowest to highest.
var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders a fixed-scale 0-100 sparkline of the most recent
// width values. Shorter series are left-padded with spaces so the chart
// grows rightward as samples arrive.
func Sparkline(data []float64, width int) string {
	if width <= 0 {
		width = len(data)
	}
	if len(data) > width {
		data = data[len(data)-width:]
	}

	runes := make([]rune, 0, len(data))
	for _, v := range data {
		if v < 0 {
			v = 0
		}
		if v > 100 {
			v = 100
		}
		idx := int(v / 100 * float64(len(sparkBlocks)-1))
		runes = append(runes, sparkBlocks[idx])
	}

	spark := string(runes)
	if len(data) < width {
		spark = strings.Repeat(" ", width-len(data)) + spark
	}

	return lipgloss.NewStyle().Foreground(lipgloss.Color("#7AA2F7")).Render(spark)
}
