package property

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"
)

func newByteReader(data []byte) io.Reader {
	return bytes.NewReader(data)
}

// decodeValue reads a single JSON value from the decoder and converts it
// into a Value, preserving object key order via json.Token iteration.
func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}
	return decodeToken(dec, tok)
}

func decodeToken(dec *json.Decoder, tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("decode number: %w", err)
		}
		return Number(f), nil
	case string:
		if ts, err := time.Parse(time.RFC3339Nano, t); err == nil {
			return Time(ts), nil
		}
		return String(t), nil
	case json.Delim:
		switch t {
		case '[':
			var elems []Value
			for dec.More() {
				elem, err := decodeValue(dec)
				if err != nil {
					return Value{}, err
				}
				elems = append(elems, elem)
			}
			if _, err := dec.Token(); err != nil { // closing ]
				return Value{}, err
			}
			return Array(elems...), nil
		case '{':
			props := NewProperties()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Value{}, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return Value{}, fmt.Errorf("decode object: non-string key %v", keyTok)
				}
				val, err := decodeValue(dec)
				if err != nil {
					return Value{}, err
				}
				props.Set(key, val)
			}
			if _, err := dec.Token(); err != nil { // closing }
				return Value{}, err
			}
			return Object(props), nil
		default:
			return Value{}, fmt.Errorf("decode value: unexpected delimiter %v", t)
		}
	default:
		return Value{}, fmt.Errorf("decode value: unexpected token %v", tok)
	}
}
