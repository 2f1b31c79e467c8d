package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// ValueKind tags the variant held by a Value
type ValueKind uint8

const (
	KindAbsent ValueKind = iota
	KindNumber
	KindString
)

// Value is an optional metadata value: a number, a string, or absent.
// The zero Value is absent.
type Value struct {
	kind ValueKind
	num  float64
	str  string
}

// Number wraps a float. NaN and infinities are stored as absent.
func Number(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{}
	}
	return Value{kind: KindNumber, num: f}
}

// String wraps a string.
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// Absent returns the absent value.
func Absent() Value {
	return Value{}
}

// ValueOf converts a loosely typed provider value.
// Unsupported types (bools, maps, slices, nil) become absent.
func ValueOf(raw interface{}) Value {
	switch v := raw.(type) {
	case Value:
		return v
	case float64:
		return Number(v)
	case float32:
		return Number(float64(v))
	case int:
		return Number(float64(v))
	case int8:
		return Number(float64(v))
	case int16:
		return Number(float64(v))
	case int32:
		return Number(float64(v))
	case int64:
		return Number(float64(v))
	case uint:
		return Number(float64(v))
	case uint8:
		return Number(float64(v))
	case uint16:
		return Number(float64(v))
	case uint32:
		return Number(float64(v))
	case uint64:
		return Number(float64(v))
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return String(v.String())
		}
		return Number(f)
	case string:
		return String(v)
	default:
		return Value{}
	}
}

func (v Value) Kind() ValueKind { return v.kind }

func (v Value) IsAbsent() bool { return v.kind == KindAbsent }

// Float returns the numeric payload. Strings never convert.
func (v Value) Float() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.num, true
}

// Str returns the string payload.
func (v Value) Str() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.str, true
}

// Truthy mirrors the provider's loose "has a value" check: non-zero numbers and non-empty strings.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindNumber:
		return v.num != 0
	case KindString:
		return v.str != ""
	default:
		return false
	}
}

// Interface returns the payload as float64, string, or nil.
func (v Value) Interface() interface{} {
	switch v.kind {
	case KindNumber:
		return v.num
	case KindString:
		return v.str
	default:
		return nil
	}
}

func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindString:
		return v.str
	default:
		return "<absent>"
	}
}

// MarshalJSON encodes numbers, strings, and null for absent.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

// UnmarshalJSON accepts a number, a string, or null.
func (v *Value) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*v = Value{}
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	var raw interface{}
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("failed to decode value: %w", err)
	}
	*v = ValueOf(raw)
	return nil
}
