package automation

import (
	"time"

	"github.com/google/uuid"
)

// ---------------------------------------------------------------------------
// Evaluation Outcomes
// ---------------------------------------------------------------------------

// EvalState is the trigger evaluation state of one automation, surfaced in
// evaluation logging
type EvalState string

const (
	StateIdle       EvalState = "idle"
	StateEvaluating EvalState = "evaluating"
	StateFired      EvalState = "fired"
	StateCooldown   EvalState = "cooldown"
)

// EvalOutcome is the result of evaluating a trigger against one event or tick
type EvalOutcome string

const (
	// OutcomeFired means the trigger matched and the fire was claimed
	OutcomeFired EvalOutcome = "fired"
	// OutcomeNoMatch means one or more conditions did not hold
	OutcomeNoMatch EvalOutcome = "no_match"
	// OutcomeCooldownSuppressed means the trigger matched but the fire was
	// suppressed by the cooldown window. A normal no-op, not an error.
	OutcomeCooldownSuppressed EvalOutcome = "cooldown_suppressed"
)

// State maps the evaluation outcome onto the automation's resulting state
func (o EvalOutcome) State() EvalState {
	switch o {
	case OutcomeFired:
		return StateFired
	case OutcomeCooldownSuppressed:
		return StateCooldown
	default:
		return StateIdle
	}
}

// ---------------------------------------------------------------------------
// Execution Log
// ---------------------------------------------------------------------------

// ActionStatus is the terminal status of one action within a run
type ActionStatus string

const (
	ActionStatusSucceeded ActionStatus = "succeeded"
	ActionStatusFailed    ActionStatus = "failed"
	// ActionStatusSkipped marks actions not run because an earlier action
	// halted the chain or a branch routed around them
	ActionStatusSkipped ActionStatus = "skipped"
)

// ActionLogEntry is one row of the flat per-run execution log
type ActionLogEntry struct {
	ActionID string       `json:"action_id"`
	Status   ActionStatus `json:"status"`
	// Attempts is the number of tries, including retries
	Attempts int           `json:"attempts"`
	Duration time.Duration `json:"duration"`
	Error    string        `json:"error,omitempty"`
}

// RunResult is the complete record of one automation run, produced by the
// executor and consumed by the monitoring UI
type RunResult struct {
	RunID        uuid.UUID        `json:"run_id"`
	AutomationID uuid.UUID        `json:"automation_id"`
	TenantID     uuid.UUID        `json:"tenant_id"`
	StartedAt    time.Time        `json:"started_at"`
	FinishedAt   time.Time        `json:"finished_at"`
	Entries      []ActionLogEntry `json:"entries"`
	// Halted is true when a failure stopped the chain early
	Halted bool `json:"halted"`
	// FirstError is the first fatal error of the run, empty on success
	FirstError string `json:"first_error,omitempty"`
}

// Succeeded reports whether every executed action succeeded
func (r *RunResult) Succeeded() bool {
	if r.Halted {
		return false
	}
	for _, e := range r.Entries {
		if e.Status == ActionStatusFailed {
			return false
		}
	}
	return true
}

// Entry returns the log entry for an action id, nil when absent
func (r *RunResult) Entry(actionID string) *ActionLogEntry {
	for i := range r.Entries {
		if r.Entries[i].ActionID == actionID {
			return &r.Entries[i]
		}
	}
	return nil
}
