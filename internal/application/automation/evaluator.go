package automation

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/commercehub/backend/internal/domain/automation"
	"github.com/commercehub/backend/internal/domain/standard"
)

// tickClaimTTL bounds how long a claimed schedule tick stays in the state
// store. Re-delivered ticks inside this window are idempotent no-ops.
const tickClaimTTL = 48 * time.Hour

// TriggerEvaluator decides whether an automation fires for an event or a
// scheduler tick. It is stateless apart from the shared state store, so any
// number of evaluators can run concurrently; the store's atomic claim
// prevents double-fires.
type TriggerEvaluator struct {
	state  automation.StateStore
	logger *zap.Logger
}

// NewTriggerEvaluator creates a trigger evaluator
func NewTriggerEvaluator(state automation.StateStore, logger *zap.Logger) *TriggerEvaluator {
	return &TriggerEvaluator{state: state, logger: logger}
}

// EvaluateEvent evaluates an event trigger against a webhook event. All
// trigger conditions must hold; a matched trigger still inside its cooldown
// window resolves to OutcomeCooldownSuppressed, a normal no-op.
func (e *TriggerEvaluator) EvaluateEvent(ctx context.Context, auto *automation.Automation, event *standard.StandardWebhookEvent) (automation.EvalOutcome, error) {
	if !auto.Enabled || auto.Trigger.TriggerType != automation.TriggerTypeEvent {
		return automation.OutcomeNoMatch, nil
	}
	if auto.Trigger.EventType != "" && auto.Trigger.EventType != event.EventType {
		return automation.OutcomeNoMatch, nil
	}
	e.logger.Debug("evaluating event trigger",
		zap.String("automation_id", auto.ID.String()),
		zap.String("event_id", event.EventID),
		zap.String("state", string(automation.StateEvaluating)),
	)

	eventCtx := event.Context()
	for _, cond := range auto.Trigger.Conditions {
		matched, err := automation.EvaluateCondition(cond, eventCtx)
		if err != nil {
			return automation.OutcomeNoMatch, err
		}
		if !matched {
			return automation.OutcomeNoMatch, nil
		}
	}

	claimed, err := e.state.TryFire(ctx, automation.FireKey(auto.ID), auto.Trigger.Cooldown())
	if err != nil {
		return automation.OutcomeNoMatch, err
	}
	if !claimed {
		lastFired, _ := e.state.LastFiredAt(ctx, automation.FireKey(auto.ID))
		e.logger.Debug("trigger suppressed by cooldown",
			zap.String("automation_id", auto.ID.String()),
			zap.String("event_id", event.EventID),
			zap.String("state", string(automation.StateCooldown)),
			zap.Time("last_fired_at", lastFired),
		)
		return automation.OutcomeCooldownSuppressed, nil
	}
	return automation.OutcomeFired, nil
}

// EvaluateTick evaluates a schedule trigger at a scheduler tick. The fire
// time folded into the claim key makes re-delivered ticks idempotent; the
// cooldown claim then applies on top, like for event triggers.
func (e *TriggerEvaluator) EvaluateTick(ctx context.Context, auto *automation.Automation, lastCheck, now time.Time) (time.Time, automation.EvalOutcome, error) {
	if !auto.Enabled || auto.Trigger.TriggerType != automation.TriggerTypeSchedule || auto.Trigger.ScheduleConfig == nil {
		return time.Time{}, automation.OutcomeNoMatch, nil
	}

	fireAt, due, err := auto.Trigger.ScheduleConfig.DueAt(lastCheck, now)
	if err != nil {
		return time.Time{}, automation.OutcomeNoMatch, err
	}
	if !due {
		return time.Time{}, automation.OutcomeNoMatch, nil
	}

	claimed, err := e.state.TryFire(ctx, automation.TickKey(auto.ID, fireAt), tickClaimTTL)
	if err != nil {
		return time.Time{}, automation.OutcomeNoMatch, err
	}
	if !claimed {
		// Another instance already took this tick.
		return fireAt, automation.OutcomeCooldownSuppressed, nil
	}

	if cooldown := auto.Trigger.Cooldown(); cooldown > 0 {
		claimed, err := e.state.TryFire(ctx, automation.FireKey(auto.ID), cooldown)
		if err != nil {
			return time.Time{}, automation.OutcomeNoMatch, err
		}
		if !claimed {
			lastFired, _ := e.state.LastFiredAt(ctx, automation.FireKey(auto.ID))
			e.logger.Debug("scheduled fire suppressed by cooldown",
				zap.String("automation_id", auto.ID.String()),
				zap.Time("fire_at", fireAt),
				zap.String("state", string(automation.StateCooldown)),
				zap.Time("last_fired_at", lastFired),
			)
			return fireAt, automation.OutcomeCooldownSuppressed, nil
		}
	}
	return fireAt, automation.OutcomeFired, nil
}
