package domain

import (
	"fmt"
	"strings"
)

// ConditionOperator compares a variable's current value against a literal.
type ConditionOperator string

const (
	OpEquals         ConditionOperator = "equals"
	OpNotEquals      ConditionOperator = "not_equals"
	OpGreaterThan    ConditionOperator = "greater_than"
	OpLessThan       ConditionOperator = "less_than"
	OpGreaterOrEqual ConditionOperator = "greater_or_equal"
	OpLessOrEqual    ConditionOperator = "less_or_equal"
	OpContains       ConditionOperator = "contains"
	OpStartsWith     ConditionOperator = "starts_with"
	OpEndsWith       ConditionOperator = "ends_with"
	OpIsEmpty        ConditionOperator = "is_empty"
	OpIsNotEmpty     ConditionOperator = "is_not_empty"
)

// LogicalOperator joins adjacent conditions in a group.
type LogicalOperator string

const (
	LogicalAnd LogicalOperator = "and"
	LogicalOr  LogicalOperator = "or"
)

// Condition is a single variable comparison. Type-mismatched comparisons
// degrade to false rather than erroring: a broken condition in a visual
// prototype must not stop playback.
type Condition struct {
	Variable string            `json:"variableId" yaml:"variable" mapstructure:"variableId"`
	Operator ConditionOperator `json:"operator" yaml:"operator" mapstructure:"operator"`
	Value    any               `json:"value,omitempty" yaml:"value,omitempty" mapstructure:"value,omitempty"`
}

// Evaluate resolves the condition against the variable map.
func (c Condition) Evaluate(vars map[string]any) bool {
	current := vars[c.Variable]

	switch c.Operator {
	case OpEquals:
		return looseEqual(current, c.Value)
	case OpNotEquals:
		return !looseEqual(current, c.Value)
	case OpGreaterThan, OpLessThan, OpGreaterOrEqual, OpLessOrEqual:
		a, okA := asNumber(current)
		b, okB := asNumber(c.Value)
		if !okA || !okB {
			return false
		}
		switch c.Operator {
		case OpGreaterThan:
			return a > b
		case OpLessThan:
			return a < b
		case OpGreaterOrEqual:
			return a >= b
		default:
			return a <= b
		}
	case OpContains, OpStartsWith, OpEndsWith:
		a, okA := current.(string)
		b, okB := c.Value.(string)
		if !okA || !okB {
			return false
		}
		switch c.Operator {
		case OpContains:
			return strings.Contains(a, b)
		case OpStartsWith:
			return strings.HasPrefix(a, b)
		default:
			return strings.HasSuffix(a, b)
		}
	case OpIsEmpty:
		return isEmptyValue(current)
	case OpIsNotEmpty:
		return !isEmptyValue(current)
	default:
		return false
	}
}

// ConditionGroup is a flat sequence of conditions joined by explicit
// pairwise operators: Operators[i] joins the running result with
// Conditions[i+1]. There is no precedence and no parenthesization; the
// group folds strictly left to right, and every condition is evaluated
// (no short-circuit).
type ConditionGroup struct {
	Conditions []Condition       `json:"conditions" yaml:"conditions" mapstructure:"conditions"`
	Operators  []LogicalOperator `json:"operators,omitempty" yaml:"operators,omitempty" mapstructure:"operators,omitempty"`
}

// Evaluate folds the group left to right. An empty group is true.
func (g ConditionGroup) Evaluate(vars map[string]any) bool {
	if len(g.Conditions) == 0 {
		return true
	}
	result := g.Conditions[0].Evaluate(vars)
	for i := 1; i < len(g.Conditions); i++ {
		next := g.Conditions[i].Evaluate(vars)
		op := LogicalAnd
		if i-1 < len(g.Operators) {
			op = g.Operators[i-1]
		}
		if op == LogicalOr {
			result = result || next
		} else {
			result = result && next
		}
	}
	return result
}

// ConditionalAction routes an ActionConditional interaction: if the group
// holds, navigate to Then, otherwise Else. Either destination may be empty,
// in which case that branch is a no-op.
type ConditionalAction struct {
	If   ConditionGroup `json:"if" yaml:"if" mapstructure:"if"`
	Then string         `json:"then,omitempty" yaml:"then,omitempty" mapstructure:"then,omitempty"`
	Else string         `json:"else,omitempty" yaml:"else,omitempty" mapstructure:"else,omitempty"`
}

// looseEqual compares values with numeric coercion so that a YAML int and a
// JSON float64 holding the same quantity compare equal.
func looseEqual(a, b any) bool {
	na, okA := asNumber(a)
	nb, okB := asNumber(b)
	if okA && okB {
		return na == nb
	}
	return fmt.Sprintf("%v", a) == fmt.Sprintf("%v", b) && (a == nil) == (b == nil)
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	default:
		return 0, false
	}
}

func isEmptyValue(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	default:
		return false
	}
}
