package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// InstrumentState is the client-visible lifecycle state of a generated PIX
// charge.
type InstrumentState string

const (
	// InstrumentPending means the gateway call has not completed yet.
	InstrumentPending InstrumentState = "PENDING"
	// InstrumentActive means a pay code exists and the countdown is running.
	InstrumentActive InstrumentState = "ACTIVE"
	// InstrumentExpired means the countdown reached zero. Terminal.
	InstrumentExpired InstrumentState = "EXPIRED"
	// InstrumentErrored means the gateway call failed. Terminal, and distinct
	// from Expired: the payer retries instead of regenerating.
	InstrumentErrored InstrumentState = "ERRORED"
)

// ErrPayCodeMissing rejects activation without a pay code. No QR or
// copy-paste affordance may exist before the code does.
var ErrPayCodeMissing = errors.New("pay code required to activate instrument")

// Instrument is the countdown state machine for one generated charge.
// Transitions are one-way: Pending -> Active -> Expired, or Pending ->
// Errored. Time is always passed in, never read from the wall clock.
type Instrument struct {
	ID        uuid.UUID
	State     InstrumentState
	PayCode   string
	ExpiresAt time.Time
}

// NewInstrument creates an instrument in the Pending state.
func NewInstrument() *Instrument {
	return &Instrument{
		ID:    uuid.New(),
		State: InstrumentPending,
	}
}

// Activate moves Pending -> Active with the gateway-supplied pay code and
// expiration.
func (i *Instrument) Activate(payCode string, expiresAt time.Time) error {
	if i.State != InstrumentPending {
		return fmt.Errorf("cannot activate instrument in state %s", i.State)
	}
	if payCode == "" {
		return ErrPayCodeMissing
	}
	i.PayCode = payCode
	i.ExpiresAt = expiresAt
	i.State = InstrumentActive
	return nil
}

// Fail moves Pending -> Errored after a gateway failure.
func (i *Instrument) Fail() error {
	if i.State != InstrumentPending {
		return fmt.Errorf("cannot fail instrument in state %s", i.State)
	}
	i.State = InstrumentErrored
	return nil
}

// Tick re-evaluates the countdown at the given instant and returns the
// resulting state. An Active instrument whose remaining time is <= 0 expires
// immediately, regardless of tick alignment.
func (i *Instrument) Tick(now time.Time) InstrumentState {
	if i.State == InstrumentActive && !now.Before(i.ExpiresAt) {
		i.State = InstrumentExpired
	}
	return i.State
}

// Remaining returns the time left before expiry, clamped at zero.
func (i *Instrument) Remaining(now time.Time) time.Duration {
	if i.State != InstrumentActive {
		return 0
	}
	if d := i.ExpiresAt.Sub(now); d > 0 {
		return d
	}
	return 0
}

// IsTerminal returns true once no further transition is possible.
func (i *Instrument) IsTerminal() bool {
	return i.State == InstrumentExpired || i.State == InstrumentErrored
}
