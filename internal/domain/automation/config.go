package automation

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ParseConfig decodes and validates an automation configuration produced by
// the external config UI. The core consumes these objects, never mutates them.
func ParseConfig(raw []byte) (*Automation, error) {
	var auto Automation
	if err := json.Unmarshal(raw, &auto); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigInvalid, err)
	}
	if err := auto.ValidateConfig(); err != nil {
		return nil, err
	}
	return &auto, nil
}

// ValidateConfig checks the structural and semantic invariants of an
// automation definition.
func (a *Automation) ValidateConfig() error {
	if err := validate.Struct(a); err != nil {
		return fmt.Errorf("%w: %v", ErrConfigInvalid, err)
	}

	if !a.Trigger.TriggerType.IsValid() {
		return &ValidationError{Field: "trigger.trigger_type", Message: fmt.Sprintf("unknown trigger type %q", a.Trigger.TriggerType)}
	}
	if a.Trigger.TriggerType == TriggerTypeSchedule {
		if a.Trigger.ScheduleConfig == nil {
			return &ValidationError{Field: "trigger.schedule_config", Message: "required for schedule triggers"}
		}
		if err := a.Trigger.ScheduleConfig.Validate(); err != nil {
			return err
		}
	}
	for i, cond := range a.Trigger.Conditions {
		if err := validateComparison(fmt.Sprintf("trigger.conditions[%d]", i), cond.Operator, cond.ValueType); err != nil {
			return err
		}
	}

	ids := make(map[string]struct{}, len(a.ActionChain))
	branchActions := 0
	for i, action := range a.ActionChain {
		if _, dup := ids[action.ActionID]; dup {
			return &ValidationError{
				Field:   fmt.Sprintf("action_chain[%d].action_id", i),
				Message: fmt.Sprintf("duplicate action id %q", action.ActionID),
			}
		}
		ids[action.ActionID] = struct{}{}
		if action.ActionType == ActionTypeConditionalBranch {
			branchActions++
		}
	}

	for i, branch := range a.ConditionalBranches {
		vt := branch.ValueType
		if vt == "" {
			vt = ValueTypeText
		}
		if err := validateComparison(fmt.Sprintf("conditional_branches[%d]", i), branch.Operator, vt); err != nil {
			return err
		}
		if _, ok := ids[branch.TrueActionID]; !ok {
			return &ValidationError{
				Field:   fmt.Sprintf("conditional_branches[%d].true_action_id", i),
				Message: fmt.Sprintf("target action %q not in chain", branch.TrueActionID),
			}
		}
		if branch.FalseActionID != "" {
			if _, ok := ids[branch.FalseActionID]; !ok {
				return &ValidationError{
					Field:   fmt.Sprintf("conditional_branches[%d].false_action_id", i),
					Message: fmt.Sprintf("target action %q not in chain", branch.FalseActionID),
				}
			}
		}
	}

	if branchActions > len(a.ConditionalBranches) {
		return &ValidationError{
			Field:   "conditional_branches",
			Message: "fewer branches than conditional_branch actions",
		}
	}
	return nil
}

func validateComparison(field string, op Operator, vt ValueType) error {
	if !op.IsValid() {
		return &ValidationError{Field: field + ".operator", Message: fmt.Sprintf("unknown operator %q", op)}
	}
	if !vt.IsValid() {
		return &ValidationError{Field: field + ".value_type", Message: fmt.Sprintf("unknown value type %q", vt)}
	}
	if !op.ValidFor(vt) {
		return &ValidationError{Field: field + ".operator", Message: fmt.Sprintf("%s not allowed for %s values", op, vt)}
	}
	return nil
}

// BranchFor resolves the conditional branch backing a conditional_branch
// action. An explicit branch_index config key wins; otherwise branches pair
// with conditional_branch actions positionally, in declared chain order.
func (a *Automation) BranchFor(actionID string) (*ConditionalBranch, error) {
	position := 0
	for _, action := range a.ActionChain {
		if action.ActionType != ActionTypeConditionalBranch {
			continue
		}
		if action.ActionID == actionID {
			idx := position
			if raw, ok := action.Config["branch_index"]; ok {
				f, ok := raw.(float64)
				if !ok {
					return nil, &ValidationError{Field: "config.branch_index", Message: "must be a number"}
				}
				idx = int(f)
			}
			if idx < 0 || idx >= len(a.ConditionalBranches) {
				return nil, fmt.Errorf("%w: action %q", ErrBranchNotFound, actionID)
			}
			return &a.ConditionalBranches[idx], nil
		}
		position++
	}
	return nil, fmt.Errorf("%w: action %q", ErrBranchNotFound, actionID)
}

// ActionByID returns the chain action with the given id
func (a *Automation) ActionByID(actionID string) (*Action, bool) {
	for i := range a.ActionChain {
		if a.ActionChain[i].ActionID == actionID {
			return &a.ActionChain[i], true
		}
	}
	return nil, false
}
