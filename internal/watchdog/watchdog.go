// Package watchdog detects stalled simulations by sampling per-session
// frame counters. It observes only; it never mutates simulation state and
// never terminates anything.
package watchdog

import (
	"context"
	"sync"
	"time"

	"go.uber.org/atomic"
	"go.uber.org/zap"
)

type entry struct {
	counter *atomic.Uint64
	last    uint64
	primed  bool
}

// Watchdog polls registered frame counters on a fixed period and logs an
// error-level diagnostic when one has not advanced between wakes.
type Watchdog struct {
	logger *zap.Logger
	period time.Duration

	mu      sync.Mutex
	entries map[string]*entry
}

// New creates a watchdog with the given sampling period.
func New(logger *zap.Logger, period time.Duration) *Watchdog {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watchdog{
		logger:  logger,
		period:  period,
		entries: make(map[string]*entry),
	}
}

// Register adds a session and returns the frame counter its driver must
// store the post-step frame number into.
func (w *Watchdog) Register(sessionID string) *atomic.Uint64 {
	counter := atomic.NewUint64(0)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.entries[sessionID] = &entry{counter: counter}
	return counter
}

// Unregister removes a session from monitoring.
func (w *Watchdog) Unregister(sessionID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.entries, sessionID)
}

// Run samples all registered counters until the context is cancelled.
func (w *Watchdog) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.Sweep()
		}
	}
}

// Sweep performs one sampling pass. The first observation of a session only
// records a baseline; a diagnostic fires when a later pass sees no progress.
func (w *Watchdog) Sweep() {
	w.mu.Lock()
	defer w.mu.Unlock()

	for id, e := range w.entries {
		current := e.counter.Load()
		if e.primed && current == e.last {
			w.logger.Error("simulation may be hung",
				zap.String("session_id", id),
				zap.Uint64("frame_number", current),
				zap.Duration("window", w.period))
		}
		e.last = current
		e.primed = true
	}
}
