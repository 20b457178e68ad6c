// Package property defines the typed property values attached to telemetry
// events and the ordered property maps they are collected in.
//
// Property values are a closed union over the JSON-compatible types the
// ingestion endpoint accepts: null, booleans, numbers, strings, timestamps,
// arrays, and nested objects. Arbitrary Go values are converted at the API
// boundary with FromAny; anything outside the union is rejected there so a
// bad value can never reach the pending queue.
package property

import (
	"encoding/json"
	"fmt"
	"time"
)

// Kind identifies the variant held by a Value.
type Kind int

// Value variants.
const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindTime
	KindArray
	KindObject
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindTime:
		return "time"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is a tagged union over the property types accepted on events.
// The zero Value is null.
type Value struct {
	kind Kind
	b    bool
	n    float64
	s    string
	t    time.Time
	arr  []Value
	obj  *Properties
}

// Null returns the null value.
func Null() Value {
	return Value{kind: KindNull}
}

// Bool returns a boolean value.
func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// Number returns a numeric value.
func Number(n float64) Value {
	return Value{kind: KindNumber, n: n}
}

// String returns a string value.
func String(s string) Value {
	return Value{kind: KindString, s: s}
}

// Time returns a timestamp value.
func Time(t time.Time) Value {
	return Value{kind: KindTime, t: t}
}

// Array returns an array value holding the given elements.
func Array(elems ...Value) Value {
	return Value{kind: KindArray, arr: elems}
}

// Object returns an object value wrapping the given properties.
func Object(props *Properties) Value {
	if props == nil {
		props = NewProperties()
	}
	return Value{kind: KindObject, obj: props}
}

// Kind returns the variant tag.
func (v Value) Kind() Kind {
	return v.kind
}

// BoolVal returns the boolean payload. Valid only when Kind is KindBool.
func (v Value) BoolVal() bool { return v.b }

// NumberVal returns the numeric payload. Valid only when Kind is KindNumber.
func (v Value) NumberVal() float64 { return v.n }

// StringVal returns the string payload. Valid only when Kind is KindString.
func (v Value) StringVal() string { return v.s }

// TimeVal returns the timestamp payload. Valid only when Kind is KindTime.
func (v Value) TimeVal() time.Time { return v.t }

// ArrayVal returns the array payload. Valid only when Kind is KindArray.
func (v Value) ArrayVal() []Value { return v.arr }

// ObjectVal returns the object payload. Valid only when Kind is KindObject.
func (v Value) ObjectVal() *Properties { return v.obj }

// Equal reports whether two values hold the same variant and payload.
// Arrays and objects are compared element-wise.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == other.b
	case KindNumber:
		return v.n == other.n
	case KindString:
		return v.s == other.s
	case KindTime:
		return v.t.Equal(other.t)
	case KindArray:
		if len(v.arr) != len(other.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(other.arr[i]) {
				return false
			}
		}
		return true
	case KindObject:
		return v.obj.Equal(other.obj)
	default:
		return false
	}
}

// InvalidValueError indicates a caller-supplied property value of an
// unsupported type. It is surfaced synchronously at the tracking call;
// the event is never enqueued.
type InvalidValueError struct {
	// Key is the property key the value was supplied for, if known.
	Key string
	// Got describes the rejected Go type.
	Got string
}

// Error implements the error interface.
func (e *InvalidValueError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("invalid property value for %q: unsupported type %s", e.Key, e.Got)
	}
	return fmt.Sprintf("invalid property value: unsupported type %s", e.Got)
}

// FromAny converts a Go value into a Value.
// Supported inputs: nil, bool, all integer and float types, string,
// time.Time, []any, map[string]any, and Value itself (returned unchanged).
// Anything else yields an InvalidValueError.
func FromAny(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return Null(), nil
	case Value:
		return val, nil
	case bool:
		return Bool(val), nil
	case int:
		return Number(float64(val)), nil
	case int8:
		return Number(float64(val)), nil
	case int16:
		return Number(float64(val)), nil
	case int32:
		return Number(float64(val)), nil
	case int64:
		return Number(float64(val)), nil
	case uint:
		return Number(float64(val)), nil
	case uint8:
		return Number(float64(val)), nil
	case uint16:
		return Number(float64(val)), nil
	case uint32:
		return Number(float64(val)), nil
	case uint64:
		return Number(float64(val)), nil
	case float32:
		return Number(float64(val)), nil
	case float64:
		return Number(val), nil
	case json.Number:
		if f, err := val.Float64(); err == nil {
			return Number(f), nil
		}
		return Value{}, &InvalidValueError{Got: "json.Number"}
	case string:
		return String(val), nil
	case time.Time:
		return Time(val), nil
	case []any:
		elems := make([]Value, 0, len(val))
		for _, item := range val {
			converted, err := FromAny(item)
			if err != nil {
				return Value{}, err
			}
			elems = append(elems, converted)
		}
		return Array(elems...), nil
	case map[string]any:
		props, err := FromMap(val)
		if err != nil {
			return Value{}, err
		}
		return Object(props), nil
	default:
		return Value{}, &InvalidValueError{Got: fmt.Sprintf("%T", v)}
	}
}

// MarshalJSON implements json.Marshaler.
// Timestamps are encoded as RFC 3339 strings.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindBool:
		return json.Marshal(v.b)
	case KindNumber:
		return json.Marshal(v.n)
	case KindString:
		return json.Marshal(v.s)
	case KindTime:
		return json.Marshal(v.t.Format(time.RFC3339Nano))
	case KindArray:
		if v.arr == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.arr)
	case KindObject:
		return v.obj.MarshalJSON()
	default:
		return nil, fmt.Errorf("marshal value: unknown kind %d", v.kind)
	}
}

// UnmarshalJSON implements json.Unmarshaler.
// Strings that parse as RFC 3339 timestamps are decoded as KindTime so
// snapshot round-trips preserve the variant.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(newByteReader(data))
	dec.UseNumber()
	decoded, err := decodeValue(dec)
	if err != nil {
		return err
	}
	*v = decoded
	return nil
}
