package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"pix-link-gateway/internal/core/domain"
	"pix-link-gateway/internal/core/ports"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	sweepInterval = 1 * time.Second
	// terminalRetention keeps Expired and Errored entries visible to pollers
	// for a while before the sweeper drops them.
	terminalRetention = 10 * time.Minute
)

type trackedInstrument struct {
	inst       *domain.Instrument
	terminalAt time.Time
}

// MemoryTracker implements ports.InstrumentTracker with an in-process map.
// Instruments are ephemeral by design: a restart forgets them and the payer
// regenerates the charge.
type MemoryTracker struct {
	mu    sync.Mutex
	items map[uuid.UUID]*trackedInstrument
	now   func() time.Time
	log   zerolog.Logger
}

// NewMemoryTracker creates a new in-memory instrument tracker.
func NewMemoryTracker(log zerolog.Logger) *MemoryTracker {
	return &MemoryTracker{
		items: make(map[uuid.UUID]*trackedInstrument),
		now:   time.Now,
		log:   log,
	}
}

// Begin registers a Pending instrument and returns its ID.
func (t *MemoryTracker) Begin() uuid.UUID {
	inst := domain.NewInstrument()
	t.mu.Lock()
	t.items[inst.ID] = &trackedInstrument{inst: inst}
	t.mu.Unlock()
	return inst.ID
}

// Activate moves an instrument to Active with its pay code and deadline.
func (t *MemoryTracker) Activate(id uuid.UUID, payCode string, expiresAt time.Time) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry, ok := t.items[id]
	if !ok {
		return fmt.Errorf("unknown instrument %s", id)
	}
	return entry.inst.Activate(payCode, expiresAt)
}

// Fail moves a Pending instrument to the terminal Errored state.
func (t *MemoryTracker) Fail(id uuid.UUID) {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry, ok := t.items[id]
	if !ok {
		return
	}
	if err := entry.inst.Fail(); err != nil {
		t.log.Warn().Err(err).Str("instrument_id", id.String()).Msg("Instrument fail transition rejected")
		return
	}
	entry.terminalAt = t.now()
}

// Status re-evaluates and reports an instrument's countdown. The tick happens
// on read, so a poll between sweeps still sees an expired instrument as
// Expired.
func (t *MemoryTracker) Status(id uuid.UUID) (*ports.InstrumentStatus, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry, ok := t.items[id]
	if !ok {
		return nil, false
	}

	now := t.now()
	state := entry.inst.Tick(now)
	if entry.inst.IsTerminal() && entry.terminalAt.IsZero() {
		entry.terminalAt = now
	}

	return &ports.InstrumentStatus{
		State:     state,
		Remaining: entry.inst.Remaining(now),
		ExpiresAt: entry.inst.ExpiresAt,
	}, true
}

// Run drives the countdown sweep until the context is cancelled. Expired
// transitions happen here even when nobody is polling, and terminal entries
// are dropped after the retention window.
func (t *MemoryTracker) Run(ctx context.Context) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.sweep()
		}
	}
}

func (t *MemoryTracker) sweep() {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	for id, entry := range t.items {
		entry.inst.Tick(now)
		if entry.inst.IsTerminal() && entry.terminalAt.IsZero() {
			entry.terminalAt = now
		}
		if !entry.terminalAt.IsZero() && now.Sub(entry.terminalAt) > terminalRetention {
			delete(t.items, id)
		}
	}
}
