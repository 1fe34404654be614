package automation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveFieldPath(t *testing.T) {
	data := map[string]any{
		"platform":   "faire",
		"event_type": "order.created",
		"order": map[string]any{
			"total": 125.50,
			"customer": map[string]any{
				"email": "shop@example.com",
			},
		},
		"tags": []any{"wholesale"},
	}

	tests := []struct {
		name     string
		path     string
		expected any
	}{
		{"top level", "platform", "faire"},
		{"nested", "order.total", 125.50},
		{"deeply nested", "order.customer.email", "shop@example.com"},
		{"missing top level", "warehouse", nil},
		{"missing nested", "order.discount", nil},
		{"path through scalar", "platform.code", nil},
		{"path through array", "tags.0", nil},
		{"empty path", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ResolveFieldPath(data, tt.path))
		})
	}
}

func TestCompare_Number(t *testing.T) {
	tests := []struct {
		name    string
		actual  any
		op      Operator
		value   string
		matched bool
	}{
		{"greater_than true", 15.0, OperatorGreaterThan, "10", true},
		{"greater_than false", 5.0, OperatorGreaterThan, "10", false},
		{"less_or_equal boundary", 10.0, OperatorLessOrEqual, "10", true},
		{"equals int actual", 42, OperatorEquals, "42", true},
		{"not_equals", 42, OperatorNotEquals, "41", true},
		{"string actual parses", "3.5", OperatorLessThan, "4", true},
		{"unparseable actual never matches", "abc", OperatorEquals, "1", false},
		{"missing field never matches", nil, OperatorGreaterThan, "0", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matched, err := Compare(tt.actual, tt.op, tt.value, ValueTypeNumber)
			require.NoError(t, err)
			assert.Equal(t, tt.matched, matched)
		})
	}
}

func TestCompare_NumberInvalidConfigValue(t *testing.T) {
	_, err := Compare(5.0, OperatorEquals, "not-a-number", ValueTypeNumber)
	require.Error(t, err)

	var vErr *ValidationError
	assert.True(t, errors.As(err, &vErr))
	assert.True(t, errors.Is(err, ErrConfigInvalid))
}

func TestCompare_Boolean(t *testing.T) {
	tests := []struct {
		name    string
		actual  any
		op      Operator
		value   string
		matched bool
	}{
		{"true equals true", true, OperatorEquals, "true", true},
		{"string true coerces", "true", OperatorEquals, "true", true},
		{"case insensitive", "TRUE", OperatorEquals, "True", true},
		{"false equals false", false, OperatorEquals, "false", true},
		{"not_equals", true, OperatorNotEquals, "false", true},
		{"missing field is false", nil, OperatorEquals, "false", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matched, err := Compare(tt.actual, tt.op, tt.value, ValueTypeBoolean)
			require.NoError(t, err)
			assert.Equal(t, tt.matched, matched)
		})
	}
}

func TestCompare_BooleanRejectsOrderingOperators(t *testing.T) {
	_, err := Compare(true, OperatorGreaterThan, "true", ValueTypeBoolean)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOperatorNotAllowed))
}

func TestCompare_Text(t *testing.T) {
	tests := []struct {
		name    string
		actual  any
		op      Operator
		value   string
		matched bool
	}{
		{"equals", "wholesale", OperatorEquals, "wholesale", true},
		{"not_equals", "retail", OperatorNotEquals, "wholesale", true},
		{"contains", "spring collection", OperatorContains, "spring", true},
		{"not_contains", "autumn", OperatorNotContains, "spring", true},
		{"number renders as text", 42.0, OperatorEquals, "42", true},
		{"missing field is empty text", nil, OperatorEquals, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matched, err := Compare(tt.actual, tt.op, tt.value, ValueTypeText)
			require.NoError(t, err)
			assert.Equal(t, tt.matched, matched)
		})
	}
}

func TestCompare_Emptiness(t *testing.T) {
	tests := []struct {
		name    string
		actual  any
		op      Operator
		matched bool
	}{
		{"nil is empty", nil, OperatorIsEmpty, true},
		{"empty string is empty", "", OperatorIsEmpty, true},
		{"empty slice is empty", []any{}, OperatorIsEmpty, true},
		{"empty map is empty", map[string]any{}, OperatorIsEmpty, true},
		{"value is not empty", "x", OperatorIsNotEmpty, true},
		{"zero is not empty", 0.0, OperatorIsEmpty, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// The stored value is ignored entirely for emptiness checks.
			matched, err := Compare(tt.actual, tt.op, "ignored", ValueTypeText)
			require.NoError(t, err)
			assert.Equal(t, tt.matched, matched)
		})
	}
}

func TestCompare_UnknownOperator(t *testing.T) {
	_, err := Compare("x", Operator("matches"), "x", ValueTypeText)
	assert.True(t, errors.Is(err, ErrUnknownOperator))

	_, err = Compare("x", OperatorEquals, "x", ValueType("date"))
	assert.True(t, errors.Is(err, ErrUnknownValueType))
}

func TestEvaluateCondition(t *testing.T) {
	eventCtx := map[string]any{
		"order": map[string]any{"total": 250.0},
	}

	cond := Condition{
		Field:     "order.total",
		Operator:  OperatorGreaterOrEqual,
		Value:     "100",
		ValueType: ValueTypeNumber,
	}
	matched, err := EvaluateCondition(cond, eventCtx)
	require.NoError(t, err)
	assert.True(t, matched)

	cond.Field = "order.discount"
	matched, err = EvaluateCondition(cond, eventCtx)
	require.NoError(t, err)
	assert.False(t, matched)
}

func TestEvaluateBranch(t *testing.T) {
	eventCtx := map[string]any{"total_stock": 5.0}

	branch := ConditionalBranch{
		Field:         "total_stock",
		Operator:      OperatorLessOrEqual,
		Value:         "10",
		ValueType:     ValueTypeNumber,
		TrueActionID:  "restock",
		FalseActionID: "noop",
	}

	t.Run("true side", func(t *testing.T) {
		target, taken, err := EvaluateBranch(branch, eventCtx)
		require.NoError(t, err)
		assert.True(t, taken)
		assert.Equal(t, "restock", target)
	})

	t.Run("false side", func(t *testing.T) {
		target, taken, err := EvaluateBranch(branch, map[string]any{"total_stock": 50.0})
		require.NoError(t, err)
		assert.True(t, taken)
		assert.Equal(t, "noop", target)
	})

	t.Run("empty false side means skip", func(t *testing.T) {
		b := branch
		b.FalseActionID = ""
		_, taken, err := EvaluateBranch(b, map[string]any{"total_stock": 50.0})
		require.NoError(t, err)
		assert.False(t, taken)
	})

	t.Run("missing value type defaults to text", func(t *testing.T) {
		b := ConditionalBranch{
			Field:        "platform",
			Operator:     OperatorEquals,
			Value:        "faire",
			TrueActionID: "sync",
		}
		target, taken, err := EvaluateBranch(b, map[string]any{"platform": "faire"})
		require.NoError(t, err)
		assert.True(t, taken)
		assert.Equal(t, "sync", target)
	})
}
