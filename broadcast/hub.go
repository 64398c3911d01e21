// Package broadcast fans snapshots out to a dynamic set of observers.
// The Hub owns the observer set exclusively: consumers register for a
// receive channel and unregister when done; nothing outside this package
// can reach the set. One dead or stalled observer never delays or corrupts
// delivery to the others.
package broadcast

import (
	"io"
	"log/slog"
	"sync"

	"gitlab.com/tinyland/lab/hwpulse/metrics"
)

// ObserverID identifies one registered observer for later removal.
type ObserverID uint64

// defaultObserverBuffer is the per-observer channel capacity. A consumer
// that falls this many snapshots behind is treated as dead and removed
// rather than allowed to stall or reorder delivery.
const defaultObserverBuffer = 8

// Hub is a mutex-guarded registry of snapshot observers. All methods are
// safe for concurrent use; registration and unregistration may overlap an
// in-flight Broadcast.
type Hub struct {
	logger *slog.Logger

	mu        sync.Mutex
	nextID    ObserverID
	observers map[ObserverID]chan metrics.Snapshot
	buffer    int
}

// NewHub creates an empty Hub. If logger is nil, a no-op logger is used.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Hub{
		logger:    logger,
		observers: make(map[ObserverID]chan metrics.Snapshot),
		buffer:    defaultObserverBuffer,
	}
}

// Register adds an observer and returns its id plus the channel snapshots
// will be delivered on. The channel is closed when the observer is
// unregistered, whether by Unregister or by the Hub removing it during a
// failed delivery.
func (h *Hub) Register() (ObserverID, <-chan metrics.Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	id := h.nextID
	ch := make(chan metrics.Snapshot, h.buffer)
	h.observers[id] = ch

	h.logger.Info("observer registered", "id", id, "total", len(h.observers))
	return id, ch
}

// Unregister removes an observer and closes its channel. Calling it for an
// unknown or already-removed id is a no-op, so a client disconnecting
// during an in-flight broadcast cannot double-close.
func (h *Hub) Unregister(id ObserverID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.remove(id)
}

// Broadcast delivers snap to every registered observer. Delivery is
// non-blocking: an observer whose buffer is full cannot accept without
// either stalling this call or reordering its stream, so it is removed and
// its channel closed as part of this call. Remaining observers are
// unaffected.
func (h *Hub) Broadcast(snap metrics.Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, ch := range h.observers {
		select {
		case ch <- snap:
		default:
			h.logger.Info("observer stalled, dropping", "id", id)
			h.remove(id)
		}
	}
}

// Len returns the number of registered observers.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.observers)
}

// remove deletes and closes an observer. Caller holds h.mu.
func (h *Hub) remove(id ObserverID) {
	ch, ok := h.observers[id]
	if !ok {
		return
	}
	delete(h.observers, id)
	close(ch)
	h.logger.Info("observer removed", "id", id, "total", len(h.observers))
}
