// Package sampler drives periodic snapshot collection. A Sampler owns one
// background goroutine that builds a snapshot, hands it to the sink, then
// sleeps for the configured interval. The cycle timing is build-then-sleep:
// a slow probe stretches the effective period rather than stacking up
// overlapping collections.
package sampler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"gitlab.com/tinyland/lab/hwpulse/metrics"
	"gitlab.com/tinyland/lab/hwpulse/probes"
)

// Sink receives each completed snapshot. broadcast.Hub satisfies this.
type Sink interface {
	Broadcast(snap metrics.Snapshot)
}

// Sampler periodically collects snapshots and pushes them to a sink. It
// moves Stopped -> Running -> Stopped exactly once; a stopped Sampler is
// not restartable.
type Sampler struct {
	probe    probes.HardwareProbe
	sink     Sink
	interval time.Duration
	logger   *slog.Logger

	mu      sync.Mutex
	started bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// New creates a Sampler. The interval must be positive. If logger is nil,
// a no-op logger is used.
func New(probe probes.HardwareProbe, sink Sink, interval time.Duration, logger *slog.Logger) (*Sampler, error) {
	if probe == nil {
		return nil, fmt.Errorf("sampler: probe is required")
	}
	if sink == nil {
		return nil, fmt.Errorf("sampler: sink is required")
	}
	if interval <= 0 {
		return nil, fmt.Errorf("sampler: interval must be positive, got %v", interval)
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Sampler{
		probe:    probe,
		sink:     sink,
		interval: interval,
		logger:   logger,
	}, nil
}

// Start launches the collection loop. The first snapshot is collected
// immediately rather than after the first interval. Calling Start on a
// Sampler that is already running or already stopped is an error.
func (s *Sampler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return fmt.Errorf("sampler: already started")
	}
	s.started = true

	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})

	s.logger.Info("sampler started", "interval", s.interval)
	go s.loop(ctx)
	return nil
}

// Stop halts the loop and waits for the in-flight cycle to finish. It is
// safe to call from any goroutine and safe to call more than once.
func (s *Sampler) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel = nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	s.logger.Info("sampler stopped")
}

func (s *Sampler) loop(ctx context.Context) {
	defer close(s.done)

	for {
		snap := probes.BuildSnapshot(ctx, s.probe)
		if ctx.Err() != nil {
			return
		}
		s.sink.Broadcast(snap)

		select {
		case <-ctx.Done():
			return
		case <-time.After(s.interval):
		}
	}
}
