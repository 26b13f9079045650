package types

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/A2-ai/spackle/pkg/errors"
)

// SlotType is the declared kind of a slot's value
type SlotType string

const (
	SlotString  SlotType = "String"
	SlotNumber  SlotType = "Number"
	SlotBoolean SlotType = "Boolean"
)

// ParseSlotType maps the manifest spelling onto a SlotType
func ParseSlotType(s string) (SlotType, bool) {
	switch SlotType(s) {
	case SlotString, SlotNumber, SlotBoolean:
		return SlotType(s), true
	}
	return "", false
}

// Slot is a named, typed input parameter available to templates
type Slot struct {
	Key         string     `json:"key" yaml:"key"`
	Type        SlotType   `json:"type" yaml:"type"`
	Name        string     `json:"name,omitempty" yaml:"name,omitempty"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Default     *SlotValue `json:"default,omitempty" yaml:"default,omitempty"`
	Needs       []string   `json:"needs,omitempty" yaml:"needs,omitempty"`
}

// Value returns the value bound to the slot: the supplied one, else the
// default, else the zero value of the slot type.
func (s Slot) Value(values Values) SlotValue {
	if v, ok := values[s.Key]; ok {
		return v
	}
	if s.Default != nil {
		return *s.Default
	}
	return ZeroValue(s.Type)
}

// Enabled reports whether the bound value differs from the zero value
func (s Slot) Enabled(values Values) bool {
	return !s.Value(values).IsZero()
}

// SlotValue is a tagged slot value. Only the field matching Type is meaningful.
type SlotValue struct {
	Type SlotType
	Str  string
	Num  float64
	Bool bool
}

func StringValue(s string) SlotValue  { return SlotValue{Type: SlotString, Str: s} }
func NumberValue(n float64) SlotValue { return SlotValue{Type: SlotNumber, Num: n} }
func BooleanValue(b bool) SlotValue   { return SlotValue{Type: SlotBoolean, Bool: b} }

// ZeroValue returns "", 0 or false for the given type
func ZeroValue(t SlotType) SlotValue {
	return SlotValue{Type: t}
}

// IsZero reports whether v equals its type's zero value
func (v SlotValue) IsZero() bool {
	switch v.Type {
	case SlotNumber:
		return v.Num == 0
	case SlotBoolean:
		return !v.Bool
	default:
		return v.Str == ""
	}
}

// String returns the literal text of the value
func (v SlotValue) String() string {
	switch v.Type {
	case SlotNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case SlotBoolean:
		return strconv.FormatBool(v.Bool)
	default:
		return v.Str
	}
}

// Native returns the Go value handed to template engines. Integral numbers
// become int64 so they render without a decimal part.
func (v SlotValue) Native() interface{} {
	switch v.Type {
	case SlotNumber:
		if v.Num == math.Trunc(v.Num) && math.Abs(v.Num) < 1<<53 {
			return int64(v.Num)
		}
		return v.Num
	case SlotBoolean:
		return v.Bool
	default:
		return v.Str
	}
}

func (v SlotValue) MarshalJSON() ([]byte, error) {
	switch v.Type {
	case SlotNumber, SlotBoolean:
		return []byte(v.String()), nil
	default:
		return json.Marshal(v.Str)
	}
}

func (v SlotValue) MarshalYAML() (interface{}, error) {
	return v.Native(), nil
}

// ParseSlotValue parses user supplied text as a value of type t
func ParseSlotValue(t SlotType, raw string) (SlotValue, error) {
	switch t {
	case SlotString:
		return StringValue(raw), nil
	case SlotNumber:
		n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return SlotValue{}, errors.Newf(errors.ErrValueTypeMismatch, "%q is not a Number", raw)
		}
		return NumberValue(n), nil
	case SlotBoolean:
		b, ok := ParseBoolean(raw)
		if !ok {
			return SlotValue{}, errors.Newf(errors.ErrValueTypeMismatch, "%q is not a Boolean", raw)
		}
		return BooleanValue(b), nil
	}
	return SlotValue{}, errors.Newf(errors.ErrManifestUnknownType, "unknown slot type %q", t)
}

// ParseBoolean accepts "true" or "false" in any case, ignoring surrounding
// whitespace. Numeric and abbreviated forms are rejected.
func ParseBoolean(raw string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true":
		return true, true
	case "false":
		return false, true
	}
	return false, false
}

// SlotValueFromLiteral converts a decoded TOML literal into a value of type t.
// No coercion across kinds is performed.
func SlotValueFromLiteral(t SlotType, lit interface{}) (SlotValue, error) {
	switch t {
	case SlotString:
		if s, ok := lit.(string); ok {
			return StringValue(s), nil
		}
	case SlotNumber:
		switch n := lit.(type) {
		case int64:
			return NumberValue(float64(n)), nil
		case int:
			return NumberValue(float64(n)), nil
		case float64:
			if !math.IsNaN(n) && !math.IsInf(n, 0) {
				return NumberValue(n), nil
			}
		}
	case SlotBoolean:
		if b, ok := lit.(bool); ok {
			return BooleanValue(b), nil
		}
	}
	return SlotValue{}, fmt.Errorf("%v (%T) is not a %s", lit, lit, t)
}

// Values binds slot keys to user supplied values
type Values map[string]SlotValue
