package automation

import (
	"errors"
	"fmt"
)

var (
	// Config errors
	ErrConfigInvalid      = errors.New("automation: invalid configuration")
	ErrUnknownOperator    = errors.New("automation: unknown operator")
	ErrOperatorNotAllowed = errors.New("automation: operator not allowed for value type")
	ErrUnknownValueType   = errors.New("automation: unknown value type")
	ErrDuplicateActionID  = errors.New("automation: duplicate action id")
	ErrBranchTargetMissing = errors.New("automation: branch target action not found")
	ErrBranchNotFound      = errors.New("automation: no conditional branch for action")

	// Execution errors
	ErrCycleDetected     = errors.New("automation: action revisited within one run")
	ErrUnknownActionType = errors.New("automation: no handler for action type")
	ErrActionTimeout     = errors.New("automation: action exceeded its deadline")
	ErrRunCancelled      = errors.New("automation: run cancelled")

	// Schedule errors
	ErrInvalidSchedule = errors.New("automation: invalid schedule configuration")
)

// ValidationError reports a malformed automation configuration field.
// It is not retryable; the executor surfaces it to the run log and halts
// the affected action.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("automation: invalid config field %q: %s", e.Field, e.Message)
}

// Is makes all validation errors match ErrConfigInvalid
func (e *ValidationError) Is(target error) bool {
	return target == ErrConfigInvalid
}
