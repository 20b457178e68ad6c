package property

import (
	"bytes"
	"encoding/json"
	"errors"
	"sort"
)

// ErrEmptyKey indicates a property was supplied with an empty key.
var ErrEmptyKey = errors.New("property key must be a non-empty string")

// Properties is an insertion-ordered mapping of property keys to values.
// Iteration, JSON encoding, and snapshot round-trips all preserve the
// order keys were first set in. Properties is not safe for concurrent
// use; callers serialize access.
type Properties struct {
	keys   []string
	values map[string]Value
}

// NewProperties returns an empty property map.
func NewProperties() *Properties {
	return &Properties{values: make(map[string]Value)}
}

// FromMap converts a plain map into Properties, validating every value
// with FromAny. Key order follows the sorted map keys so conversion is
// deterministic. An empty key or unsupported value aborts the conversion.
func FromMap(m map[string]any) (*Properties, error) {
	props := NewProperties()
	for _, key := range sortedKeys(m) {
		if key == "" {
			return nil, ErrEmptyKey
		}
		val, err := FromAny(m[key])
		if err != nil {
			var invalid *InvalidValueError
			if errors.As(err, &invalid) && invalid.Key == "" {
				invalid.Key = key
			}
			return nil, err
		}
		props.Set(key, val)
	}
	return props, nil
}

// Set stores a value under key, appending the key to the order on first
// insertion. Setting an existing key overwrites in place.
func (p *Properties) Set(key string, val Value) {
	if _, exists := p.values[key]; !exists {
		p.keys = append(p.keys, key)
	}
	p.values[key] = val
}

// SetOnce stores a value only if the key is not already present.
// Returns true if the value was written.
func (p *Properties) SetOnce(key string, val Value) bool {
	if _, exists := p.values[key]; exists {
		return false
	}
	p.Set(key, val)
	return true
}

// Get returns the value for key and whether it exists.
func (p *Properties) Get(key string) (Value, bool) {
	v, ok := p.values[key]
	return v, ok
}

// Has returns true if the key is present.
func (p *Properties) Has(key string) bool {
	_, ok := p.values[key]
	return ok
}

// Delete removes a key. Missing keys are ignored.
func (p *Properties) Delete(key string) {
	if _, exists := p.values[key]; !exists {
		return
	}
	delete(p.values, key)
	for i, k := range p.keys {
		if k == key {
			p.keys = append(p.keys[:i], p.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in insertion order.
// The returned slice is a copy.
func (p *Properties) Keys() []string {
	keys := make([]string, len(p.keys))
	copy(keys, p.keys)
	return keys
}

// Len returns the number of keys.
func (p *Properties) Len() int {
	return len(p.keys)
}

// Clone returns a deep-order copy of the property map.
// Values are immutable, so they are shared.
func (p *Properties) Clone() *Properties {
	clone := &Properties{
		keys:   make([]string, len(p.keys)),
		values: make(map[string]Value, len(p.values)),
	}
	copy(clone.keys, p.keys)
	for k, v := range p.values {
		clone.values[k] = v
	}
	return clone
}

// Merge sets every key from other into p, overwriting existing keys.
// Keys new to p are appended in other's insertion order.
func (p *Properties) Merge(other *Properties) {
	if other == nil {
		return
	}
	for _, key := range other.keys {
		p.Set(key, other.values[key])
	}
}

// Clear removes all keys.
func (p *Properties) Clear() {
	p.keys = p.keys[:0]
	p.values = make(map[string]Value)
}

// Equal reports whether both maps hold the same keys in the same order
// with equal values.
func (p *Properties) Equal(other *Properties) bool {
	if p == nil || other == nil {
		return p == other
	}
	if len(p.keys) != len(other.keys) {
		return false
	}
	for i, key := range p.keys {
		if other.keys[i] != key {
			return false
		}
		if !p.values[key].Equal(other.values[key]) {
			return false
		}
	}
	return true
}

// MarshalJSON implements json.Marshaler, emitting keys in insertion order.
func (p *Properties) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range p.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyJSON, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(keyJSON)
		buf.WriteByte(':')
		valJSON, err := p.values[key].MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(valJSON)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler, restoring key order from the
// document order.
func (p *Properties) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(newByteReader(data))
	dec.UseNumber()
	decoded, err := decodeValue(dec)
	if err != nil {
		return err
	}
	if decoded.Kind() != KindObject {
		return errors.New("properties: expected JSON object")
	}
	*p = *decoded.ObjectVal()
	return nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
