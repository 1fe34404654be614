package automation

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// StateStore owns the one piece of mutable shared state of the trigger
// subsystem: each automation's last-fired timestamp. TryFire must be atomic
// so concurrent evaluators cannot double-fire the same automation.
type StateStore interface {
	// TryFire atomically claims a fire for the key. It returns false when
	// a previous fire is still inside the cooldown window. A zero cooldown
	// always claims. The key is normally the automation id; schedule
	// evaluators fold the tick identity into it for per-tick idempotency.
	TryFire(ctx context.Context, key string, cooldown time.Duration) (bool, error)

	// LastFiredAt returns the recorded last fire time for the key.
	// The zero time means the key has never fired.
	LastFiredAt(ctx context.Context, key string) (time.Time, error)

	// Close releases store resources
	Close() error
}

// FireKey is the state-store key for an automation's cooldown window
func FireKey(automationID uuid.UUID) string {
	return automationID.String()
}

// TickKey is the state-store key claiming one schedule fire. Folding the
// fire time into the key makes re-delivered ticks idempotent.
func TickKey(automationID uuid.UUID, fireAt time.Time) string {
	return automationID.String() + ":" + fireAt.UTC().Format(time.RFC3339)
}

// ---------------------------------------------------------------------------
// External Store Ports
// ---------------------------------------------------------------------------

// Repository loads automation definitions from the external entity store.
// The core never writes definitions; the config UI owns them.
type Repository interface {
	// ListEnabled returns the enabled automations of a tenant
	ListEnabled(ctx context.Context, tenantID uuid.UUID) ([]Automation, error)
	// Get returns one automation by id
	Get(ctx context.Context, id uuid.UUID) (*Automation, error)
}

// RunRecorder persists run results and statistics updates to the external
// entity store
type RunRecorder interface {
	// RecordRun stores a finished run's execution log
	RecordRun(ctx context.Context, run *RunResult) error
}
