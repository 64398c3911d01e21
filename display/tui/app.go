// Package tui implements the live terminal dashboard. The model consumes
// snapshots from the broadcast hub and re-renders on every delivery; it
// never samples hardware itself.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"gitlab.com/tinyland/lab/hwpulse/broadcast"
	"gitlab.com/tinyland/lab/hwpulse/display/widgets"
	"gitlab.com/tinyland/lab/hwpulse/internal/format"
	"gitlab.com/tinyland/lab/hwpulse/metrics"
)

// historyLen is how many overall CPU samples the sparkline keeps.
const historyLen = 60

// snapshotMsg delivers one snapshot from the hub channel.
type snapshotMsg metrics.Snapshot

// streamClosedMsg signals that the hub closed our observer channel.
type streamClosedMsg struct{}

// Model is the top-level Bubbletea model for the dashboard.
type Model struct {
	snapshots <-chan metrics.Snapshot

	snap       *metrics.Snapshot
	cpuHistory []float64
	width      int
	height     int
	paused     bool
	perCore    bool
	ready      bool
}

// NewModel returns a Model reading from the given snapshot channel.
func NewModel(snapshots <-chan metrics.Snapshot) Model {
	return Model{snapshots: snapshots}
}

// Run registers a hub observer and runs the dashboard until the user quits
// or ctx is canceled.
func Run(ctx context.Context, hub *broadcast.Hub) error {
	id, ch := hub.Register()
	defer hub.Unregister(id)

	p := tea.NewProgram(NewModel(ch), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if err == tea.ErrProgramKilled && ctx.Err() != nil {
		return nil
	}
	return err
}

// waitForSnapshot blocks on the hub channel and converts the delivery into
// a message. A closed channel means the hub dropped us.
func (m Model) waitForSnapshot() tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-m.snapshots
		if !ok {
			return streamClosedMsg{}
		}
		return snapshotMsg(snap)
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.waitForSnapshot()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Pause):
			m.paused = !m.paused
		case key.Matches(msg, keys.PerCore):
			m.perCore = !m.perCore
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case snapshotMsg:
		if !m.paused {
			snap := metrics.Snapshot(msg)
			m.snap = &snap
			m.cpuHistory = append(m.cpuHistory, snap.CPU.Overall)
			if len(m.cpuHistory) > historyLen {
				m.cpuHistory = m.cpuHistory[len(m.cpuHistory)-historyLen:]
			}
		}
		return m, m.waitForSnapshot()

	case streamClosedMsg:
		return m, tea.Quit
	}

	return m, nil
}

var (
	styleTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7AA2F7"))
	styleCard  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#414868")).
			Padding(0, 1)
	styleCardTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7AA2F7"))
	styleMuted     = lipgloss.NewStyle().Foreground(lipgloss.Color("#565F89"))
	styleLabel     = lipgloss.NewStyle().Width(12)
)

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready || m.snap == nil {
		return "Collecting first snapshot..."
	}

	header := styleTitle.Render("hwpulse") + "  " +
		styleMuted.Render(m.snap.Timestamp.Format("15:04:05"))
	if m.paused {
		header += "  " + styleMuted.Render("[paused]")
	}

	cards := []string{
		m.cpuCard(),
		m.memoryCard(),
		m.diskCard(),
		m.networkCard(),
		m.gpuCard(),
	}

	footer := styleMuted.Render("p pause · c per-core · q quit")

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		lipgloss.JoinVertical(lipgloss.Left, cards...),
		footer,
	)
}

func (m Model) card(title string, lines ...string) string {
	body := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return styleCard.Render(styleCardTitle.Render(title) + "\n" + body)
}

func (m Model) gaugeWidth() int {
	w := m.width - 30
	if w < 10 {
		w = 10
	}
	if w > 50 {
		w = 50
	}
	return w
}

func (m Model) cpuCard() string {
	c := m.snap.CPU
	width := m.gaugeWidth()

	lines := []string{
		styleLabel.Render("Overall") + widgets.Gauge(c.Overall, width),
		styleLabel.Render("History") + widgets.Sparkline(m.cpuHistory, width),
	}

	info := fmt.Sprintf("%d cores", c.Cores)
	if c.FrequencyMHz != nil {
		info += " @ " + format.MHz(*c.FrequencyMHz)
	}
	lines = append(lines, styleMuted.Render(info))

	if m.perCore {
		for i, p := range c.PerCore {
			lines = append(lines,
				styleLabel.Render(fmt.Sprintf("Core %d", i))+widgets.Gauge(p, width))
		}
	}

	return m.card("CPU", lines...)
}

func (m Model) memoryCard() string {
	mem := m.snap.Memory
	width := m.gaugeWidth()

	lines := []string{
		styleLabel.Render("RAM") + widgets.Gauge(mem.Percent, width),
		styleMuted.Render(fmt.Sprintf("%s used / %s total, %s available",
			format.Bytes(mem.Used), format.Bytes(mem.Total), format.Bytes(mem.Available))),
	}
	if mem.SwapTotal > 0 {
		lines = append(lines,
			styleLabel.Render("Swap")+widgets.Gauge(mem.SwapPercent, width),
			styleMuted.Render(fmt.Sprintf("%s used / %s total",
				format.Bytes(mem.SwapUsed), format.Bytes(mem.SwapTotal))))
	}

	return m.card("Memory", lines...)
}

func (m Model) diskCard() string {
	width := m.gaugeWidth()

	var lines []string
	for _, d := range m.snap.Disks {
		label := format.TruncateWithEllipsis(d.Mountpoint, 12)
		lines = append(lines,
			styleLabel.Render(label)+widgets.Gauge(d.Percent, width),
			styleMuted.Render(fmt.Sprintf("%s free of %s (%s)",
				format.Bytes(d.Free), format.Bytes(d.Total), d.Fstype)))
	}
	if len(lines) == 0 {
		lines = []string{styleMuted.Render("no mounted filesystems")}
	}

	return m.card("Disks", lines...)
}

func (m Model) networkCard() string {
	var lines []string
	for _, n := range m.snap.Network {
		status := "up"
		if !n.IsUp {
			status = "down"
		}
		line := fmt.Sprintf("%s (%s)  tx %s  rx %s",
			n.Name, status, format.Bytes(n.BytesSent), format.Bytes(n.BytesRecv))
		if n.SpeedMbps != nil {
			line += fmt.Sprintf("  %d Mbps", *n.SpeedMbps)
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		lines = []string{styleMuted.Render("no interfaces")}
	}

	return m.card("Network", lines...)
}

func (m Model) gpuCard() string {
	if len(m.snap.GPU) == 0 {
		return m.card("GPU", styleMuted.Render("No GPU detected"))
	}

	width := m.gaugeWidth()
	var lines []string
	for _, g := range m.snap.GPU {
		lines = append(lines, fmt.Sprintf("GPU %d: %s", g.Index, g.Name))
		if g.Utilization != nil {
			lines = append(lines,
				styleLabel.Render("Util")+widgets.Gauge(*g.Utilization, width))
		}
		if g.MemoryPercent != nil {
			lines = append(lines,
				styleLabel.Render("VRAM")+widgets.Gauge(*g.MemoryPercent, width))
		}

		var extras []string
		if g.MemoryUsed != nil && g.MemoryTotal != nil {
			extras = append(extras, fmt.Sprintf("%s / %s",
				format.Bytes(*g.MemoryUsed), format.Bytes(*g.MemoryTotal)))
		}
		if g.Temperature != nil {
			extras = append(extras, fmt.Sprintf("%.0f°C", *g.Temperature))
		}
		if g.Power != nil {
			extras = append(extras, fmt.Sprintf("%.1f W", *g.Power))
		}
		if len(extras) > 0 {
			lines = append(lines, styleMuted.Render(strings.Join(extras, "  ")))
		}
	}

	return m.card("GPU", lines...)
}
