package model

import (
	"fmt"
	"strconv"
)

// ValueKind selects the stored representation of a property value.
type ValueKind int

const (
	ValueText ValueKind = iota
	ValueInteger
	ValueReal
	ValueBoolean
)

func (k ValueKind) String() string {
	switch k {
	case ValueText:
		return "text"
	case ValueInteger:
		return "integer"
	case ValueReal:
		return "real"
	case ValueBoolean:
		return "boolean"
	default:
		return "unknown"
	}
}

// Value is a typed property value. Exactly one of the payload fields is
// meaningful, selected by Kind.
type Value struct {
	Kind ValueKind
	Text string
	Int  int64
	Real float64
	Bool bool
}

// Text, Integer, Real and Boolean construct typed values.
func Text(s string) Value { return Value{Kind: ValueText, Text: s} }
func Integer(i int64) Value { return Value{Kind: ValueInteger, Int: i} }
func Real(r float64) Value { return Value{Kind: ValueReal, Real: r} }
func Boolean(b bool) Value { return Value{Kind: ValueBoolean, Bool: b} }

func (v Value) String() string {
	switch v.Kind {
	case ValueText:
		return v.Text
	case ValueInteger:
		return strconv.FormatInt(v.Int, 10)
	case ValueReal:
		return strconv.FormatFloat(v.Real, 'g', -1, 64)
	case ValueBoolean:
		return strconv.FormatBool(v.Bool)
	default:
		return fmt.Sprintf("Value(kind=%d)", int(v.Kind))
	}
}

// Property is a named typed value inside a property set. Names are
// case-sensitive; uniqueness within a set is a policy of the property-set
// manager, not of the model.
type Property struct {
	Name        string
	Description string
	Value       Value
}
