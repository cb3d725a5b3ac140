package domain

import (
	"fmt"
	"strconv"

	"github.com/lucasb-eyer/go-colorful"
)

// VariableType mirrors the document's dynamic variable typing.
type VariableType string

const (
	VarString  VariableType = "string"
	VarNumber  VariableType = "number"
	VarBoolean VariableType = "boolean"
	VarColor   VariableType = "color"
)

// Variable declares a prototype-scoped variable and its default value.
// Defaults are applied when a player session starts and restored on reset.
type Variable struct {
	Name    string       `json:"name" yaml:"name" mapstructure:"name"`
	Type    VariableType `json:"type" yaml:"type" mapstructure:"type"`
	Default any          `json:"default,omitempty" yaml:"default,omitempty" mapstructure:"default,omitempty"`
}

// CoerceValue normalizes a raw value to the canonical representation for
// the variable type: string, float64, bool, or normalized hex color.
// Values that cannot be coerced are returned unchanged; the condition
// evaluator's type guards absorb the mismatch downstream.
func CoerceValue(t VariableType, v any) any {
	switch t {
	case VarNumber:
		if n, ok := asNumber(v); ok {
			return n
		}
		if s, ok := v.(string); ok {
			if n, err := strconv.ParseFloat(s, 64); err == nil {
				return n
			}
		}
	case VarBoolean:
		if b, ok := v.(bool); ok {
			return b
		}
		if s, ok := v.(string); ok {
			if b, err := strconv.ParseBool(s); err == nil {
				return b
			}
		}
	case VarColor:
		if s, ok := v.(string); ok {
			if c, err := colorful.Hex(s); err == nil {
				return c.Hex()
			}
		}
	case VarString:
		if s, ok := v.(string); ok {
			return s
		}
		return fmt.Sprintf("%v", v)
	}
	return v
}
