// json.go — bridging between host JSON documents and runtime Values.
//
// The host hands the engine a JSON-compatible Data object and receives it
// back mutated; these helpers are the canonical conversion in both
// directions. Decoding preserves object key order by walking the raw token
// stream rather than unmarshalling into Go maps.
package jyro

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FromJSON decodes a JSON document into a runtime Value, preserving object
// key order. Numbers decode into the unified Number kind.
func FromJSON(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := decodeValue(dec)
	if err != nil {
		return Null, err
	}
	if dec.More() {
		return Null, fmt.Errorf("unexpected data after JSON document")
	}
	return v, nil
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Null, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '[':
			elems := []Value{}
			for dec.More() {
				e, err := decodeValue(dec)
				if err != nil {
					return Null, err
				}
				elems = append(elems, e)
			}
			if _, err := dec.Token(); err != nil { // ']'
				return Null, err
			}
			return Arr(elems), nil
		case '{':
			mo := NewMapObject()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Null, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return Null, fmt.Errorf("invalid JSON object key %v", keyTok)
				}
				v, err := decodeValue(dec)
				if err != nil {
					return Null, err
				}
				mo.Set(key, v)
			}
			if _, err := dec.Token(); err != nil { // '}'
				return Null, err
			}
			return Obj(mo), nil
		}
		return Null, fmt.Errorf("unexpected JSON delimiter %v", t)
	case string:
		return Str(t), nil
	case json.Number:
		f, err := strconv.ParseFloat(t.String(), 64)
		if err != nil {
			return Null, err
		}
		return Num(f), nil
	case bool:
		return Bool(t), nil
	case nil:
		return Null, nil
	default:
		return Null, fmt.Errorf("unexpected JSON token %v", tok)
	}
}

// ToJSON encodes a Value as compact JSON. Object keys emit in insertion
// order. Lambdas (not JSON-representable) encode as null.
func ToJSON(v Value) []byte {
	var b strings.Builder
	encodeValue(&b, v)
	return []byte(b.String())
}

// ToJSONIndent is ToJSON piped through json.Indent for display purposes.
func ToJSONIndent(v Value) []byte {
	var out bytes.Buffer
	if err := json.Indent(&out, ToJSON(v), "", "  "); err != nil {
		return ToJSON(v)
	}
	return out.Bytes()
}

func encodeValue(b *strings.Builder, v Value) {
	switch v.Tag {
	case VTBool:
		b.WriteString(strconv.FormatBool(v.Data.(bool)))
	case VTNum:
		b.WriteString(formatNumber(v.Data.(float64)))
	case VTStr:
		enc, _ := json.Marshal(v.Data.(string))
		b.Write(enc)
	case VTArray:
		b.WriteByte('[')
		for i, e := range v.Data.(*ArrayObject).Elems {
			if i > 0 {
				b.WriteByte(',')
			}
			encodeValue(b, e)
		}
		b.WriteByte(']')
	case VTObj:
		mo := v.Data.(*MapObject)
		b.WriteByte('{')
		for i, k := range mo.Keys {
			if i > 0 {
				b.WriteByte(',')
			}
			enc, _ := json.Marshal(k)
			b.Write(enc)
			b.WriteByte(':')
			encodeValue(b, mo.Entries[k])
		}
		b.WriteByte('}')
	default:
		b.WriteString("null")
	}
}
