package broadcast

import (
	"testing"
	"time"

	"gitlab.com/tinyland/lab/hwpulse/metrics"
)

func snapAt(sec int) metrics.Snapshot {
	return metrics.Snapshot{Timestamp: time.Date(2026, 8, 25, 12, 0, sec, 0, time.UTC)}
}

func TestRegisterBroadcastUnregister(t *testing.T) {
	h := NewHub(nil)

	id, ch := h.Register()
	if h.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", h.Len())
	}

	want := snapAt(1)
	h.Broadcast(want)

	got := <-ch
	if !got.Timestamp.Equal(want.Timestamp) {
		t.Errorf("received timestamp %v, want %v", got.Timestamp, want.Timestamp)
	}

	h.Unregister(id)
	if h.Len() != 0 {
		t.Errorf("Len() after unregister = %d, want 0", h.Len())
	}
	if _, ok := <-ch; ok {
		t.Error("channel still open after unregister")
	}
}

func TestBroadcastPreservesOrder(t *testing.T) {
	h := NewHub(nil)
	_, ch := h.Register()

	for i := 0; i < 5; i++ {
		h.Broadcast(snapAt(i))
	}

	for i := 0; i < 5; i++ {
		got := <-ch
		if got.Timestamp.Second() != i {
			t.Fatalf("delivery %d has second %d, want %d", i, got.Timestamp.Second(), i)
		}
	}
}

func TestStalledObserverDroppedOthersUnaffected(t *testing.T) {
	h := NewHub(nil)
	h.buffer = 1

	_, ch1 := h.Register()
	_, ch2 := h.Register()
	_, ch3 := h.Register()

	// First broadcast fills every buffer. Observers 1 and 3 drain theirs;
	// observer 2 never reads.
	h.Broadcast(snapAt(0))
	<-ch1
	<-ch3

	// Observer 2's buffer is still full, so this delivery drops it.
	h.Broadcast(snapAt(1))

	if h.Len() != 2 {
		t.Fatalf("Len() = %d, want 2 after dropping stalled observer", h.Len())
	}

	if got := <-ch1; got.Timestamp.Second() != 1 {
		t.Errorf("observer 1 second = %d, want 1", got.Timestamp.Second())
	}
	if got := <-ch3; got.Timestamp.Second() != 1 {
		t.Errorf("observer 3 second = %d, want 1", got.Timestamp.Second())
	}

	// Observer 2 keeps its buffered first delivery, then sees close.
	if got := <-ch2; got.Timestamp.Second() != 0 {
		t.Errorf("observer 2 buffered second = %d, want 0", got.Timestamp.Second())
	}
	if _, ok := <-ch2; ok {
		t.Error("stalled observer channel not closed")
	}
}

func TestUnregisterIdempotent(t *testing.T) {
	h := NewHub(nil)
	id, _ := h.Register()

	h.Unregister(id)
	h.Unregister(id)
	h.Unregister(ObserverID(9999))

	if h.Len() != 0 {
		t.Errorf("Len() = %d, want 0", h.Len())
	}
}

func TestBroadcastWithNoObservers(t *testing.T) {
	h := NewHub(nil)
	h.Broadcast(snapAt(0))
	if h.Len() != 0 {
		t.Errorf("Len() = %d, want 0", h.Len())
	}
}

func TestConcurrentRegisterBroadcast(t *testing.T) {
	h := NewHub(nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			h.Broadcast(snapAt(i % 60))
		}
	}()

	for i := 0; i < 20; i++ {
		id, ch := h.Register()
		go func(id ObserverID, ch <-chan metrics.Snapshot) {
			for range ch {
			}
		}(id, ch)
		h.Unregister(id)
	}

	<-done
}
