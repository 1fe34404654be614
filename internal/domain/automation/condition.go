package automation

import (
	"fmt"
	"strconv"
	"strings"
)

// ResolveFieldPath looks up a dot-path (e.g. "order.totals.total") in the
// event context. A missing path resolves to nil, which the comparison layer
// treats as empty.
func ResolveFieldPath(data map[string]any, path string) any {
	if path == "" {
		return nil
	}
	var current any = data
	for _, segment := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		current, ok = m[segment]
		if !ok {
			return nil
		}
	}
	return current
}

// EvaluateCondition resolves the condition's field against the event context
// and applies the typed comparison. Missing fields are treated as empty.
func EvaluateCondition(cond Condition, eventCtx map[string]any) (bool, error) {
	actual := ResolveFieldPath(eventCtx, cond.Field)
	return Compare(actual, cond.Operator, cond.Value, cond.ValueType)
}

// EvaluateBranch resolves a conditional branch to exactly one successor
// action id. The second return is false when the branch resolved to the
// empty false side ("skip").
func EvaluateBranch(branch ConditionalBranch, eventCtx map[string]any) (string, bool, error) {
	valueType := branch.ValueType
	if valueType == "" {
		valueType = ValueTypeText
	}
	actual := ResolveFieldPath(eventCtx, branch.Field)
	matched, err := Compare(actual, branch.Operator, branch.Value, valueType)
	if err != nil {
		return "", false, err
	}
	if matched {
		return branch.TrueActionID, true, nil
	}
	if branch.FalseActionID == "" {
		return "", false, nil
	}
	return branch.FalseActionID, true, nil
}

// Compare applies one typed comparison. Numeric comparisons parse both sides
// as floating point; boolean comparisons coerce "true"/true equivalence;
// is_empty and is_not_empty ignore the stored value entirely.
func Compare(actual any, op Operator, value string, valueType ValueType) (bool, error) {
	if !op.IsValid() {
		return false, fmt.Errorf("%w: %q", ErrUnknownOperator, op)
	}
	if !valueType.IsValid() {
		return false, fmt.Errorf("%w: %q", ErrUnknownValueType, valueType)
	}
	if !op.ValidFor(valueType) {
		return false, fmt.Errorf("%w: %s on %s", ErrOperatorNotAllowed, op, valueType)
	}

	// Emptiness checks apply to the resolved field only.
	switch op {
	case OperatorIsEmpty:
		return isEmpty(actual), nil
	case OperatorIsNotEmpty:
		return !isEmpty(actual), nil
	}

	switch valueType {
	case ValueTypeNumber:
		return compareNumber(actual, op, value)
	case ValueTypeBoolean:
		return compareBoolean(actual, op, value), nil
	default:
		return compareText(actual, op, value), nil
	}
}

func isEmpty(actual any) bool {
	switch v := actual.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case []any:
		return len(v) == 0
	case map[string]any:
		return len(v) == 0
	default:
		return false
	}
}

func compareNumber(actual any, op Operator, value string) (bool, error) {
	left, ok := toFloat(actual)
	if !ok {
		// An unparseable or missing field never satisfies a numeric
		// comparison.
		return false, nil
	}
	right, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return false, &ValidationError{Field: "value", Message: fmt.Sprintf("not a number: %q", value)}
	}

	switch op {
	case OperatorEquals:
		return left == right, nil
	case OperatorNotEquals:
		return left != right, nil
	case OperatorGreaterThan:
		return left > right, nil
	case OperatorLessThan:
		return left < right, nil
	case OperatorGreaterOrEqual:
		return left >= right, nil
	case OperatorLessOrEqual:
		return left <= right, nil
	default:
		return false, fmt.Errorf("%w: %s on number", ErrOperatorNotAllowed, op)
	}
}

func compareBoolean(actual any, op Operator, value string) bool {
	left := toBool(actual)
	right := strings.EqualFold(strings.TrimSpace(value), "true")
	if op == OperatorNotEquals {
		return left != right
	}
	return left == right
}

func compareText(actual any, op Operator, value string) bool {
	left := toText(actual)
	switch op {
	case OperatorEquals:
		return left == value
	case OperatorNotEquals:
		return left != value
	case OperatorContains:
		return strings.Contains(left, value)
	case OperatorNotContains:
		return !strings.Contains(left, value)
	default:
		return false
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func toBool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		return strings.EqualFold(strings.TrimSpace(b), "true")
	default:
		return false
	}
}

func toText(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	default:
		return fmt.Sprintf("%v", s)
	}
}
