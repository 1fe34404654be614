package automation

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustUUID(t *testing.T) uuid.UUID {
	t.Helper()
	return uuid.New()
}

func validAutomation() *Automation {
	return &Automation{
		ID:       uuid.New(),
		TenantID: uuid.New(),
		Name:     "low stock alert",
		Enabled:  true,
		Trigger: Trigger{
			TriggerType: TriggerTypeEvent,
			EventType:   "inventory.updated",
			Conditions: []Condition{
				{Field: "total_stock", Operator: OperatorLessOrEqual, Value: "10", ValueType: ValueTypeNumber},
			},
		},
		ActionChain: []Action{
			{ActionID: "a1", ActionType: "update_inventory", Order: 1},
			{ActionID: "a2", ActionType: "send_notification", Order: 2},
		},
	}
}

func TestParseConfig(t *testing.T) {
	raw := []byte(`{
		"id": "7a9d7f76-97b9-4c0f-a84e-25f3d6b5c7a1",
		"tenant_id": "0b6ad54a-3e18-43cd-8bcb-7ce1a3e24b10",
		"name": "fulfil wholesale orders",
		"enabled": true,
		"trigger": {
			"trigger_type": "event",
			"event_type": "order.created",
			"conditions": [
				{"field": "order.total", "operator": "greater_than", "value": "100", "value_type": "number"}
			],
			"cooldown_minutes": 5
		},
		"action_chain": [
			{"action_id": "fulfil", "action_type": "fulfill_order", "order": 1},
			{"action_id": "notify", "action_type": "send_notification", "order": 2, "run_parallel": true}
		]
	}`)

	auto, err := ParseConfig(raw)
	require.NoError(t, err)
	assert.Equal(t, "fulfil wholesale orders", auto.Name)
	assert.Equal(t, TriggerTypeEvent, auto.Trigger.TriggerType)
	assert.Len(t, auto.ActionChain, 2)
	assert.True(t, auto.ActionChain[1].RunParallel)
	assert.Equal(t, 5, auto.Trigger.CooldownMinutes)
}

func TestParseConfig_MalformedJSON(t *testing.T) {
	_, err := ParseConfig([]byte(`{"name":`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfigInvalid))
}

func TestValidateConfig(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, validAutomation().ValidateConfig())
	})

	t.Run("unknown trigger type", func(t *testing.T) {
		auto := validAutomation()
		auto.Trigger.TriggerType = "webhook"
		err := auto.ValidateConfig()
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrConfigInvalid))
	})

	t.Run("schedule trigger requires schedule config", func(t *testing.T) {
		auto := validAutomation()
		auto.Trigger.TriggerType = TriggerTypeSchedule
		auto.Trigger.ScheduleConfig = nil
		require.Error(t, auto.ValidateConfig())

		auto.Trigger.ScheduleConfig = &ScheduleConfig{Frequency: FrequencyDaily, Hour: 3}
		assert.NoError(t, auto.ValidateConfig())
	})

	t.Run("operator must suit value type", func(t *testing.T) {
		auto := validAutomation()
		auto.Trigger.Conditions = []Condition{
			{Field: "enabled", Operator: OperatorContains, Value: "true", ValueType: ValueTypeBoolean},
		}
		require.Error(t, auto.ValidateConfig())
	})

	t.Run("duplicate action ids rejected", func(t *testing.T) {
		auto := validAutomation()
		auto.ActionChain = append(auto.ActionChain, Action{ActionID: "a1", ActionType: "send_notification"})
		err := auto.ValidateConfig()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate")
	})

	t.Run("branch targets must exist in chain", func(t *testing.T) {
		auto := validAutomation()
		auto.ActionChain = append(auto.ActionChain, Action{ActionID: "br", ActionType: ActionTypeConditionalBranch, Order: 3})
		auto.ConditionalBranches = []ConditionalBranch{
			{Field: "x", Operator: OperatorEquals, Value: "y", ValueType: ValueTypeText, TrueActionID: "ghost"},
		}
		require.Error(t, auto.ValidateConfig())

		auto.ConditionalBranches[0].TrueActionID = "a2"
		assert.NoError(t, auto.ValidateConfig())
	})

	t.Run("branch action without a branch rejected", func(t *testing.T) {
		auto := validAutomation()
		auto.ActionChain = append(auto.ActionChain, Action{ActionID: "br", ActionType: ActionTypeConditionalBranch, Order: 3})
		require.Error(t, auto.ValidateConfig())
	})
}

func TestBranchFor(t *testing.T) {
	auto := validAutomation()
	auto.ActionChain = append(auto.ActionChain,
		Action{ActionID: "br1", ActionType: ActionTypeConditionalBranch, Order: 3},
		Action{ActionID: "br2", ActionType: ActionTypeConditionalBranch, Order: 4},
	)
	auto.ConditionalBranches = []ConditionalBranch{
		{Field: "f1", Operator: OperatorEquals, Value: "v", ValueType: ValueTypeText, TrueActionID: "a1"},
		{Field: "f2", Operator: OperatorEquals, Value: "v", ValueType: ValueTypeText, TrueActionID: "a2"},
	}

	t.Run("positional pairing", func(t *testing.T) {
		b, err := auto.BranchFor("br1")
		require.NoError(t, err)
		assert.Equal(t, "f1", b.Field)

		b, err = auto.BranchFor("br2")
		require.NoError(t, err)
		assert.Equal(t, "f2", b.Field)
	})

	t.Run("explicit branch_index wins", func(t *testing.T) {
		auto2 := *auto
		auto2.ActionChain = append([]Action(nil), auto.ActionChain...)
		auto2.ActionChain[2].Config = map[string]any{"branch_index": float64(1)}

		b, err := auto2.BranchFor("br1")
		require.NoError(t, err)
		assert.Equal(t, "f2", b.Field)
	})

	t.Run("out of range index", func(t *testing.T) {
		auto2 := *auto
		auto2.ActionChain = append([]Action(nil), auto.ActionChain...)
		auto2.ActionChain[2].Config = map[string]any{"branch_index": float64(9)}

		_, err := auto2.BranchFor("br1")
		assert.True(t, errors.Is(err, ErrBranchNotFound))
	})

	t.Run("non branch action", func(t *testing.T) {
		_, err := auto.BranchFor("a1")
		assert.True(t, errors.Is(err, ErrBranchNotFound))
	})
}

func TestActionByID(t *testing.T) {
	auto := validAutomation()

	action, ok := auto.ActionByID("a2")
	require.True(t, ok)
	assert.Equal(t, "send_notification", action.ActionType)

	_, ok = auto.ActionByID("missing")
	assert.False(t, ok)
}

func TestOperatorValidFor(t *testing.T) {
	assert.True(t, OperatorEquals.ValidFor(ValueTypeBoolean))
	assert.False(t, OperatorGreaterThan.ValidFor(ValueTypeBoolean))
	assert.True(t, OperatorGreaterThan.ValidFor(ValueTypeNumber))
	assert.False(t, OperatorContains.ValidFor(ValueTypeNumber))
	assert.True(t, OperatorContains.ValidFor(ValueTypeText))
	assert.False(t, OperatorLessThan.ValidFor(ValueTypeText))
}
