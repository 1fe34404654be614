package automation

import (
	"time"

	"github.com/google/uuid"
)

// ---------------------------------------------------------------------------
// Enumerations
// ---------------------------------------------------------------------------

// TriggerType distinguishes event-driven from scheduled triggers
type TriggerType string

const (
	// TriggerTypeEvent fires on incoming webhook events
	TriggerTypeEvent TriggerType = "event"
	// TriggerTypeSchedule fires on scheduler ticks
	TriggerTypeSchedule TriggerType = "schedule"
)

// IsValid returns true if the trigger type is valid
func (t TriggerType) IsValid() bool {
	return t == TriggerTypeEvent || t == TriggerTypeSchedule
}

// ValueType is the declared type of a condition value
type ValueType string

const (
	ValueTypeText    ValueType = "text"
	ValueTypeNumber  ValueType = "number"
	ValueTypeBoolean ValueType = "boolean"
)

// IsValid returns true if the value type is valid
func (t ValueType) IsValid() bool {
	return t == ValueTypeText || t == ValueTypeNumber || t == ValueTypeBoolean
}

// Operator is a comparison operator usable in conditions and branches
type Operator string

const (
	OperatorEquals         Operator = "equals"
	OperatorNotEquals      Operator = "not_equals"
	OperatorGreaterThan    Operator = "greater_than"
	OperatorLessThan       Operator = "less_than"
	OperatorGreaterOrEqual Operator = "greater_or_equal"
	OperatorLessOrEqual    Operator = "less_or_equal"
	OperatorContains       Operator = "contains"
	OperatorNotContains    Operator = "not_contains"
	OperatorIsEmpty        Operator = "is_empty"
	OperatorIsNotEmpty     Operator = "is_not_empty"
)

// IsValid returns true if the operator is valid
func (o Operator) IsValid() bool {
	switch o {
	case OperatorEquals, OperatorNotEquals, OperatorGreaterThan, OperatorLessThan,
		OperatorGreaterOrEqual, OperatorLessOrEqual, OperatorContains,
		OperatorNotContains, OperatorIsEmpty, OperatorIsNotEmpty:
		return true
	default:
		return false
	}
}

// ValidFor reports whether the operator is allowed for a value type.
// Boolean values only support equals/not_equals ("is true"/"is false");
// ordering operators require numbers.
func (o Operator) ValidFor(t ValueType) bool {
	switch t {
	case ValueTypeBoolean:
		return o == OperatorEquals || o == OperatorNotEquals
	case ValueTypeNumber:
		switch o {
		case OperatorEquals, OperatorNotEquals, OperatorGreaterThan, OperatorLessThan,
			OperatorGreaterOrEqual, OperatorLessOrEqual, OperatorIsEmpty, OperatorIsNotEmpty:
			return true
		default:
			return false
		}
	case ValueTypeText:
		switch o {
		case OperatorEquals, OperatorNotEquals, OperatorContains, OperatorNotContains,
			OperatorIsEmpty, OperatorIsNotEmpty:
			return true
		default:
			return false
		}
	default:
		return false
	}
}

// ScheduleFrequency is how often a schedule trigger fires
type ScheduleFrequency string

const (
	FrequencyHourly  ScheduleFrequency = "hourly"
	FrequencyDaily   ScheduleFrequency = "daily"
	FrequencyWeekly  ScheduleFrequency = "weekly"
	FrequencyMonthly ScheduleFrequency = "monthly"
	FrequencyCustom  ScheduleFrequency = "custom"
)

// IsValid returns true if the frequency is valid
func (f ScheduleFrequency) IsValid() bool {
	switch f {
	case FrequencyHourly, FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyCustom:
		return true
	default:
		return false
	}
}

// ---------------------------------------------------------------------------
// Configuration Objects
// ---------------------------------------------------------------------------

// Condition is a single typed comparison against the event context.
// Field is a dot-path into the context; a missing path resolves to empty.
type Condition struct {
	Field     string    `json:"field" validate:"required"`
	Operator  Operator  `json:"operator" validate:"required"`
	Value     string    `json:"value"`
	ValueType ValueType `json:"value_type" validate:"required"`
}

// ScheduleConfig resolves a schedule trigger into concrete fire times
type ScheduleConfig struct {
	// Frequency selects the cadence
	Frequency ScheduleFrequency `json:"frequency" validate:"required"`
	// Minute of the hour for hourly runs, minute of Hour otherwise
	Minute int `json:"minute" validate:"gte=0,lte=59"`
	// Hour of the day for daily/weekly/monthly runs (24h clock)
	Hour int `json:"hour" validate:"gte=0,lte=23"`
	// Weekday for weekly runs, 0=Sunday
	Weekday int `json:"weekday" validate:"gte=0,lte=6"`
	// DayOfMonth for monthly runs, 1-28 to stay valid in February
	DayOfMonth int `json:"day_of_month" validate:"gte=0,lte=28"`
	// CronExpression for custom frequency, standard 5-field cron
	CronExpression string `json:"cron_expression"`
	// Timezone is an IANA zone name, defaults to UTC
	Timezone string `json:"timezone"`
}

// Trigger decides when an automation fires
type Trigger struct {
	TriggerType TriggerType `json:"trigger_type" validate:"required"`
	// EventType restricts event triggers to one event type, empty matches all
	EventType string `json:"event_type"`
	// Conditions must all hold (logical AND) for the trigger to fire
	Conditions []Condition `json:"conditions" validate:"dive"`
	// ScheduleConfig is required for schedule triggers
	ScheduleConfig *ScheduleConfig `json:"schedule_config,omitempty"`
	// CooldownMinutes is the minimum time between successive fires,
	// zero disables the cooldown
	CooldownMinutes int `json:"cooldown_minutes" validate:"gte=0"`
}

// Cooldown returns the cooldown window as a duration
func (t *Trigger) Cooldown() time.Duration {
	return time.Duration(t.CooldownMinutes) * time.Minute
}

// ActionTypeConditionalBranch is the action type resolved by the executor
// itself rather than by a registered handler.
const ActionTypeConditionalBranch = "conditional_branch"

// Action is one step of an automation's action chain
type Action struct {
	// ActionID uniquely identifies the action within its automation
	ActionID string `json:"action_id" validate:"required"`
	// ActionType selects the handler, or conditional_branch
	ActionType string `json:"action_type" validate:"required"`
	// Order groups actions; groups execute by ascending order
	Order int `json:"order"`
	// RunParallel runs this action concurrently with other parallel
	// actions of the same order group
	RunParallel bool `json:"run_parallel"`
	// ContinueOnFailure lets the chain proceed past a final failure
	ContinueOnFailure bool `json:"continue_on_failure"`
	// RetryOnFailure retries the action up to MaxRetries times
	RetryOnFailure bool `json:"retry_on_failure"`
	// MaxRetries bounds retry attempts after the first try
	MaxRetries int `json:"max_retries" validate:"gte=0"`
	// TimeoutSeconds bounds a single attempt, zero uses the executor default
	TimeoutSeconds int `json:"timeout_seconds" validate:"gte=0"`
	// Config carries handler-specific parameters
	Config map[string]any `json:"config"`
}

// ConditionalBranch routes execution to one of two action ids based on a
// typed comparison. FalseActionID may be empty, meaning skip.
type ConditionalBranch struct {
	Field         string    `json:"field" validate:"required"`
	Operator      Operator  `json:"operator" validate:"required"`
	Value         string    `json:"value"`
	ValueType     ValueType `json:"value_type"`
	TrueActionID  string    `json:"true_action_id" validate:"required"`
	FalseActionID string    `json:"false_action_id"`
}

// Statistics aggregates historical run outcomes of an automation
type Statistics struct {
	TotalRuns     int        `json:"total_runs"`
	SucceededRuns int        `json:"succeeded_runs"`
	FailedRuns    int        `json:"failed_runs"`
	LastRunAt     *time.Time `json:"last_run_at,omitempty"`
	LastFiredAt   *time.Time `json:"last_fired_at,omitempty"`
}

// Automation is a complete automation definition. Definitions are created
// and edited by the external config UI, persisted externally, and loaded
// immutably per execution run; a run never mutates its definition.
type Automation struct {
	ID       uuid.UUID `json:"id"`
	TenantID uuid.UUID `json:"tenant_id"`
	Name     string    `json:"name" validate:"required"`
	Enabled  bool      `json:"enabled"`
	Trigger  Trigger   `json:"trigger" validate:"required"`
	// ActionChain is the ordered (and partially parallel) action sequence
	ActionChain []Action `json:"action_chain" validate:"dive"`
	// ConditionalBranches are referenced by conditional_branch actions
	// through the branch config key
	ConditionalBranches []ConditionalBranch `json:"conditional_branches" validate:"dive"`
	Statistics          Statistics          `json:"statistics"`
}
