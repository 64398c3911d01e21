package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"gitlab.com/tinyland/lab/hwpulse/broadcast"
	"gitlab.com/tinyland/lab/hwpulse/metrics"
	"gitlab.com/tinyland/lab/hwpulse/setupcheck"
)

// fakeSource returns fixed readings.
type fakeSource struct{}

func (fakeSource) Snapshot(context.Context) metrics.Snapshot {
	return metrics.Snapshot{
		Timestamp: time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC),
		CPU:       metrics.CPUMetrics{PerCore: []float64{10, 20}, Overall: 15, Cores: 2},
		Memory:    metrics.MemoryMetrics{Total: 100, Used: 50, Percent: 50},
		Disks:     []metrics.DiskMetrics{},
		Network:   []metrics.NetworkMetrics{},
		GPU:       []metrics.GPUMetrics{},
	}
}

func (fakeSource) Inventory(context.Context) metrics.Inventory {
	return metrics.Inventory{
		Timestamp: time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC),
		System:    metrics.SystemInfo{Hostname: "workbench"},
		CPU:       metrics.CPUInfo{Model: "test cpu", PhysicalCores: 4, LogicalThreads: 8},
		Disks:     []metrics.DiskInfo{},
		Network:   []metrics.NetworkInterface{},
		GPU:       metrics.GPUInventory{GPUs: []metrics.GPUDevice{}},
	}
}

func newTestServer(t *testing.T) (*httptest.Server, *broadcast.Hub) {
	t.Helper()
	hub := broadcast.NewHub(nil)
	s := New(fakeSource{}, hub, setupcheck.New(nil), nil)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts, hub
}

func TestDashboardRoute(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q, want text/html", ct)
	}
}

func TestDashboardUnknownPathIs404(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/nope")
	if err != nil {
		t.Fatalf("GET /nope: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/metrics")
	if err != nil {
		t.Fatalf("GET /api/metrics: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var decoded map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, key := range []string{"timestamp", "cpu", "memory", "disks", "network", "gpu"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("missing key %q", key)
		}
	}
}

func TestMetricsEndpointMethodNotAllowed(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Post(ts.URL+"/api/metrics", "application/json", nil)
	if err != nil {
		t.Fatalf("POST /api/metrics: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", resp.StatusCode)
	}
}

func TestInventoryEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/inventory")
	if err != nil {
		t.Fatalf("GET /api/inventory: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var inv metrics.Inventory
	if err := json.NewDecoder(resp.Body).Decode(&inv); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if inv.System.Hostname != "workbench" {
		t.Errorf("hostname = %q, want workbench", inv.System.Hostname)
	}
}

func TestSetupCheckEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/setup-check")
	if err != nil {
		t.Fatalf("GET /api/setup-check: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var report setupcheck.Report
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(report.Results) == 0 {
		t.Error("report has no results")
	}
}

func TestWebSocketStream(t *testing.T) {
	ts, hub := newTestServer(t)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	if resp != nil {
		defer resp.Body.Close()
	}
	defer conn.Close()

	waitForObservers(t, hub, 1)

	want := fakeSource{}.Snapshot(context.Background())
	hub.Broadcast(want)

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got metrics.Snapshot
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if !got.Timestamp.Equal(want.Timestamp) {
		t.Errorf("timestamp = %v, want %v", got.Timestamp, want.Timestamp)
	}
	if got.CPU.Overall != 15 {
		t.Errorf("cpu overall = %v, want 15", got.CPU.Overall)
	}
}

func TestWebSocketDisconnectUnregisters(t *testing.T) {
	ts, hub := newTestServer(t)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	if resp != nil {
		defer resp.Body.Close()
	}

	waitForObservers(t, hub, 1)

	conn.Close()
	waitForObservers(t, hub, 0)
}

func TestWebSocketTwoClientsIndependent(t *testing.T) {
	ts, hub := newTestServer(t)
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"

	conn1, resp1, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial 1: %v", err)
	}
	if resp1 != nil {
		defer resp1.Body.Close()
	}
	defer conn1.Close()

	conn2, resp2, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial 2: %v", err)
	}
	if resp2 != nil {
		defer resp2.Body.Close()
	}

	waitForObservers(t, hub, 2)

	// Drop the second client, then broadcast: the first still receives.
	conn2.Close()
	waitForObservers(t, hub, 1)

	hub.Broadcast(fakeSource{}.Snapshot(context.Background()))

	_ = conn1.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got metrics.Snapshot
	if err := conn1.ReadJSON(&got); err != nil {
		t.Fatalf("surviving client read: %v", err)
	}
}

// waitForObservers polls until the hub has n observers or times out.
func waitForObservers(t *testing.T, hub *broadcast.Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hub.Len() == n {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("hub observer count = %d, want %d", hub.Len(), n)
}
