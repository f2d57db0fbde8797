package service

import (
	"testing"
	"time"

	"pix-link-gateway/internal/core/domain"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedClock lets tests move the tracker's clock explicitly.
type fixedClock struct {
	t time.Time
}

func (c *fixedClock) now() time.Time { return c.t }

func (c *fixedClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func setupTracker() (*MemoryTracker, *fixedClock) {
	clock := &fixedClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	tracker := NewMemoryTracker(zerolog.Nop())
	tracker.now = clock.now
	return tracker, clock
}

func TestMemoryTracker_BeginIsPending(t *testing.T) {
	tracker, _ := setupTracker()

	id := tracker.Begin()

	status, ok := tracker.Status(id)
	require.True(t, ok)
	assert.Equal(t, domain.InstrumentPending, status.State)
	assert.Equal(t, time.Duration(0), status.Remaining)
}

func TestMemoryTracker_ActivateAndCountdown(t *testing.T) {
	tracker, clock := setupTracker()

	id := tracker.Begin()
	expiresAt := clock.now().Add(10 * time.Minute)
	require.NoError(t, tracker.Activate(id, "paycode", expiresAt))

	status, ok := tracker.Status(id)
	require.True(t, ok)
	assert.Equal(t, domain.InstrumentActive, status.State)
	assert.Equal(t, 10*time.Minute, status.Remaining)
	assert.Equal(t, expiresAt, status.ExpiresAt)

	clock.advance(4 * time.Minute)
	status, _ = tracker.Status(id)
	assert.Equal(t, domain.InstrumentActive, status.State)
	assert.Equal(t, 6*time.Minute, status.Remaining)
}

func TestMemoryTracker_ExpiresOnRead(t *testing.T) {
	tracker, clock := setupTracker()

	id := tracker.Begin()
	require.NoError(t, tracker.Activate(id, "paycode", clock.now().Add(10*time.Minute)))

	// Past the deadline with no sweep in between: the read itself must
	// observe the expiry.
	clock.advance(11 * time.Minute)

	status, ok := tracker.Status(id)
	require.True(t, ok)
	assert.Equal(t, domain.InstrumentExpired, status.State)
	assert.Equal(t, time.Duration(0), status.Remaining)
}

func TestMemoryTracker_ExpiryIsOneWay(t *testing.T) {
	tracker, clock := setupTracker()

	id := tracker.Begin()
	require.NoError(t, tracker.Activate(id, "paycode", clock.now().Add(time.Minute)))

	clock.advance(2 * time.Minute)
	status, _ := tracker.Status(id)
	require.Equal(t, domain.InstrumentExpired, status.State)

	// Winding the clock back must not resurrect the instrument.
	clock.advance(-90 * time.Second)
	status, _ = tracker.Status(id)
	assert.Equal(t, domain.InstrumentExpired, status.State)
}

func TestMemoryTracker_Fail(t *testing.T) {
	tracker, _ := setupTracker()

	id := tracker.Begin()
	tracker.Fail(id)

	status, ok := tracker.Status(id)
	require.True(t, ok)
	assert.Equal(t, domain.InstrumentErrored, status.State)

	// Errored is terminal: activation afterwards is rejected.
	err := tracker.Activate(id, "paycode", time.Now().Add(time.Minute))
	assert.Error(t, err)
}

func TestMemoryTracker_ActivateRequiresPayCode(t *testing.T) {
	tracker, clock := setupTracker()

	id := tracker.Begin()
	err := tracker.Activate(id, "", clock.now().Add(time.Minute))
	assert.ErrorIs(t, err, domain.ErrPayCodeMissing)

	status, _ := tracker.Status(id)
	assert.Equal(t, domain.InstrumentPending, status.State)
}

func TestMemoryTracker_UnknownInstrument(t *testing.T) {
	tracker, _ := setupTracker()

	_, ok := tracker.Status(uuid.New())
	assert.False(t, ok)

	err := tracker.Activate(uuid.New(), "paycode", time.Now())
	assert.Error(t, err)
}

func TestMemoryTracker_SweepPrunesTerminalEntries(t *testing.T) {
	tracker, clock := setupTracker()

	id := tracker.Begin()
	require.NoError(t, tracker.Activate(id, "paycode", clock.now().Add(time.Minute)))

	clock.advance(2 * time.Minute)
	tracker.sweep()

	_, ok := tracker.Status(id)
	require.True(t, ok, "terminal entry should survive until retention passes")

	clock.advance(terminalRetention + time.Second)
	tracker.sweep()

	_, ok = tracker.Status(id)
	assert.False(t, ok, "terminal entry should be pruned after retention")
}
