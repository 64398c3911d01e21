package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"gitlab.com/tinyland/lab/hwpulse/metrics"
)

func testSnapshot() metrics.Snapshot {
	return metrics.Snapshot{
		Timestamp: time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC),
		CPU: metrics.CPUMetrics{
			PerCore:      []float64{10, 90},
			Overall:      50,
			FrequencyMHz: metrics.Float64Ptr(3400),
			Cores:        2,
		},
		Memory: metrics.MemoryMetrics{
			Total: 16e9, Used: 8e9, Available: 8e9, Percent: 50,
			SwapTotal: 4e9, SwapUsed: 1e9, SwapPercent: 25,
		},
		Disks: []metrics.DiskMetrics{
			{Device: "/dev/sda1", Mountpoint: "/", Fstype: "ext4",
				Total: 1e12, Used: 4e11, Free: 6e11, Percent: 40},
		},
		Network: []metrics.NetworkMetrics{
			{Name: "eth0", IsUp: true, SpeedMbps: metrics.Int64Ptr(1000),
				BytesSent: 1e6, BytesRecv: 2e6},
		},
		GPU: []metrics.GPUMetrics{},
	}
}

func readyModel(snap metrics.Snapshot) Model {
	ch := make(chan metrics.Snapshot)
	m := NewModel(ch)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m = updated.(Model)
	updated, _ = m.Update(snapshotMsg(snap))
	return updated.(Model)
}

func TestViewBeforeFirstSnapshot(t *testing.T) {
	m := NewModel(make(chan metrics.Snapshot))
	if !strings.Contains(m.View(), "Collecting") {
		t.Errorf("initial view = %q", m.View())
	}
}

func TestViewRendersAllDomains(t *testing.T) {
	m := readyModel(testSnapshot())
	view := m.View()

	for _, want := range []string{"hwpulse", "CPU", "Memory", "Disks", "Network", "GPU", "eth0", "ext4"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if !strings.Contains(view, "No GPU detected") {
		t.Error("view missing GPU absence message")
	}
}

func TestViewRendersGPUDevices(t *testing.T) {
	snap := testSnapshot()
	snap.GPU = []metrics.GPUMetrics{{
		Index:       0,
		Name:        "RTX 4090",
		Utilization: metrics.Float64Ptr(66),
		Temperature: metrics.Float64Ptr(70),
	}}

	view := readyModel(snap).View()
	if !strings.Contains(view, "RTX 4090") {
		t.Error("view missing GPU name")
	}
	if strings.Contains(view, "No GPU detected") {
		t.Error("absence message shown despite devices")
	}
}

func TestQuitKey(t *testing.T) {
	m := readyModel(testSnapshot())

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("q produced no command")
	}
	if msg := cmd(); msg != (tea.QuitMsg{}) {
		t.Errorf("q produced %T, want tea.QuitMsg", msg)
	}
}

func TestPauseFreezesSnapshot(t *testing.T) {
	first := testSnapshot()
	m := readyModel(first)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'p'}})
	m = updated.(Model)

	second := testSnapshot()
	second.Timestamp = second.Timestamp.Add(time.Second)
	updated, _ = m.Update(snapshotMsg(second))
	m = updated.(Model)

	if !m.snap.Timestamp.Equal(first.Timestamp) {
		t.Error("paused model accepted a new snapshot")
	}
}

func TestPerCoreToggle(t *testing.T) {
	m := readyModel(testSnapshot())
	if strings.Contains(m.View(), "Core 0") {
		t.Error("per-core rows shown before toggle")
	}

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}})
	m = updated.(Model)

	view := m.View()
	if !strings.Contains(view, "Core 0") || !strings.Contains(view, "Core 1") {
		t.Error("per-core rows missing after toggle")
	}
}

func TestStreamClosedQuits(t *testing.T) {
	m := readyModel(testSnapshot())

	_, cmd := m.Update(streamClosedMsg{})
	if cmd == nil {
		t.Fatal("closed stream produced no command")
	}
	if msg := cmd(); msg != (tea.QuitMsg{}) {
		t.Errorf("closed stream produced %T, want tea.QuitMsg", msg)
	}
}

func TestSnapshotUpdatesHistory(t *testing.T) {
	ch := make(chan metrics.Snapshot)
	m := NewModel(ch)

	for i := 0; i < historyLen+10; i++ {
		updated, _ := m.Update(snapshotMsg(testSnapshot()))
		m = updated.(Model)
	}

	if len(m.cpuHistory) != historyLen {
		t.Errorf("history length = %d, want %d", len(m.cpuHistory), historyLen)
	}
}
