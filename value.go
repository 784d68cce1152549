// value.go — the Jyro runtime value model.
//
// Jyro operates on a closed tagged union of the six JSON-compatible kinds
// (null, boolean, number, string, array, object) plus first-class lambdas.
// Numbers are unified: integer, float, hex and binary literals all land in a
// single float64-backed Number kind.
//
// Arrays and objects are boxed (*ArrayObject / *MapObject) so that element
// writes through access chains mutate shared state and so that container
// identity is a plain pointer comparison (the foreach mutation guard relies
// on this). Objects preserve insertion order via MapObject.Keys, which makes
// Keys/Values/foreach deterministic.
package jyro

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// ValueTag enumerates all runtime kinds a Value may hold.
type ValueTag int

const (
	VTNull  ValueTag = iota // null (no payload)
	VTBool                  // bool
	VTNum                   // float64
	VTStr                   // string
	VTArray                 // *ArrayObject
	VTObj                   // *MapObject (ordered)
	VTFun                   // *Fun (lambda closure)
)

// Value is the universal runtime carrier used by the interpreter.
// The tag determines which Go type Data holds (see ValueTag).
type Value struct {
	Tag  ValueTag
	Data any
}

// Null is the singleton null Value.
var Null = Value{Tag: VTNull}

// Primitive constructors.
func Bool(b bool) Value   { return Value{Tag: VTBool, Data: b} }
func Num(f float64) Value { return Value{Tag: VTNum, Data: f} }
func Str(s string) Value  { return Value{Tag: VTStr, Data: s} }

// ArrayObject boxes an ordered sequence of Values. The box pointer is the
// array's identity for the duration of a run.
type ArrayObject struct {
	Elems []Value
}

// Arr wraps a fresh ArrayObject around the given elements.
func Arr(xs []Value) Value { return Value{Tag: VTArray, Data: &ArrayObject{Elems: xs}} }

// MapObject is an ordered map preserving insertion order.
//
//   - Entries — key/value storage.
//   - Keys    — insertion order (unique keys); iterate via Keys for
//     deterministic order.
//
// Setting a value for a new key appends that key to Keys; deleting a key
// must also remove it from Keys.
type MapObject struct {
	Entries map[string]Value
	Keys    []string
}

// NewMapObject returns an empty ordered object box.
func NewMapObject() *MapObject {
	return &MapObject{Entries: map[string]Value{}}
}

// Set inserts or updates a key, appending to the insertion order on first sight.
func (m *MapObject) Set(key string, v Value) {
	if _, ok := m.Entries[key]; !ok {
		m.Keys = append(m.Keys, key)
	}
	m.Entries[key] = v
}

// Get retrieves a key's value; ok is false for absent keys.
func (m *MapObject) Get(key string) (Value, bool) {
	v, ok := m.Entries[key]
	return v, ok
}

// Delete removes a key and its order slot. No-op for absent keys.
func (m *MapObject) Delete(key string) {
	if _, ok := m.Entries[key]; !ok {
		return
	}
	delete(m.Entries, key)
	for i, k := range m.Keys {
		if k == key {
			m.Keys = append(m.Keys[:i], m.Keys[i+1:]...)
			break
		}
	}
}

// Obj wraps an existing MapObject box.
func Obj(m *MapObject) Value { return Value{Tag: VTObj, Data: m} }

// Fun is a lambda closure: parameter names, a single body expression, and a
// shared (not copied) reference to the scope frame active at creation, so
// later mutations to captured variables remain visible.
type Fun struct {
	Params []string
	Body   Expr
	Env    *Env
	Line   int
}

// FunVal wraps *Fun into a Value.
func FunVal(f *Fun) Value { return Value{Tag: VTFun, Data: f} }

// TypeName maps a tag to the documented type-name string.
func (t ValueTag) TypeName() string {
	switch t {
	case VTNull:
		return "null"
	case VTBool:
		return "boolean"
	case VTNum:
		return "number"
	case VTStr:
		return "string"
	case VTArray:
		return "array"
	case VTObj:
		return "object"
	case VTFun:
		return "function"
	default:
		return "unknown"
	}
}

// Truthy implements Jyro truthiness: null, false, zero and the empty string
// are false; everything else (including empty containers) is true.
func Truthy(v Value) bool {
	switch v.Tag {
	case VTNull:
		return false
	case VTBool:
		return v.Data.(bool)
	case VTNum:
		return v.Data.(float64) != 0
	case VTStr:
		return v.Data.(string) != ""
	default:
		return true
	}
}

// DeepEqual is the structural equality behind == and case matching.
// Cross-kind comparisons are false, and null compares false against
// everything including another null (deliberately non-reflexive).
// Lambdas only compare equal by identity.
func DeepEqual(a, b Value) bool {
	if a.Tag == VTNull || b.Tag == VTNull {
		return false
	}
	if a.Tag != b.Tag {
		return false
	}
	switch a.Tag {
	case VTBool:
		return a.Data.(bool) == b.Data.(bool)
	case VTNum:
		return a.Data.(float64) == b.Data.(float64)
	case VTStr:
		return a.Data.(string) == b.Data.(string)
	case VTArray:
		ax := a.Data.(*ArrayObject).Elems
		bx := b.Data.(*ArrayObject).Elems
		if len(ax) != len(bx) {
			return false
		}
		for i := range ax {
			if !DeepEqual(ax[i], bx[i]) {
				return false
			}
		}
		return true
	case VTObj:
		am := a.Data.(*MapObject)
		bm := b.Data.(*MapObject)
		if len(am.Entries) != len(bm.Entries) {
			return false
		}
		for k, av := range am.Entries {
			bv, ok := bm.Entries[k]
			if !ok || !DeepEqual(av, bv) {
				return false
			}
		}
		return true
	case VTFun:
		return a.Data == b.Data
	default:
		return false
	}
}

// Stringify renders a Value the way + concatenation and ToString do.
// Whole numbers print without a fractional part.
func Stringify(v Value) string {
	switch v.Tag {
	case VTNull:
		return "null"
	case VTBool:
		return strconv.FormatBool(v.Data.(bool))
	case VTNum:
		return formatNumber(v.Data.(float64))
	case VTStr:
		return v.Data.(string)
	case VTArray:
		var b strings.Builder
		b.WriteByte('[')
		for i, e := range v.Data.(*ArrayObject).Elems {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(displayString(e))
		}
		b.WriteByte(']')
		return b.String()
	case VTObj:
		mo := v.Data.(*MapObject)
		var b strings.Builder
		b.WriteByte('{')
		for i, k := range mo.Keys {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(strconv.Quote(k))
			b.WriteString(": ")
			b.WriteString(displayString(mo.Entries[k]))
		}
		b.WriteByte('}')
		return b.String()
	case VTFun:
		return "<lambda>"
	default:
		return "<unknown>"
	}
}

// displayString is Stringify except strings render quoted (inside containers).
func displayString(v Value) string {
	if v.Tag == VTStr {
		return strconv.Quote(v.Data.(string))
	}
	return Stringify(v)
}

func formatNumber(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatFloat(f, 'f', 0, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// sortRank fixes the cross-kind ordering used by Sort/SortBy/OrderBy:
// null < numbers < strings < booleans. Containers and lambdas sort last in
// insertion-stable position.
func sortRank(v Value) int {
	switch v.Tag {
	case VTNull:
		return 0
	case VTNum:
		return 1
	case VTStr:
		return 2
	case VTBool:
		return 3
	default:
		return 4
	}
}

// compareValues orders two values under the fixed mixed-kind sort order.
// Negative means a before b.
func compareValues(a, b Value) int {
	ra, rb := sortRank(a), sortRank(b)
	if ra != rb {
		return ra - rb
	}
	switch a.Tag {
	case VTNum:
		af, bf := a.Data.(float64), b.Data.(float64)
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		}
		return 0
	case VTStr:
		return strings.Compare(a.Data.(string), b.Data.(string))
	case VTBool:
		af, bf := a.Data.(bool), b.Data.(bool)
		switch {
		case !af && bf:
			return -1
		case af && !bf:
			return 1
		}
		return 0
	}
	return 0
}

// sortValues sorts the slice in place under compareValues, stably so
// unordered kinds keep their relative positions.
func sortValues(xs []Value) {
	sort.SliceStable(xs, func(i, j int) bool { return compareValues(xs[i], xs[j]) < 0 })
}

// sortValuesBy sorts by a derived key, stably, optionally descending.
func sortValuesBy(xs []Value, key func(Value) Value, desc bool) {
	sort.SliceStable(xs, func(i, j int) bool {
		c := compareValues(key(xs[i]), key(xs[j]))
		if desc {
			return c > 0
		}
		return c < 0
	})
}

// CloneValue deep-copies a Value. Fresh boxes are allocated for every array
// and object reached; lambdas and scalars are shared (immutable).
func CloneValue(v Value) Value {
	switch v.Tag {
	case VTArray:
		src := v.Data.(*ArrayObject).Elems
		out := make([]Value, len(src))
		for i, e := range src {
			out[i] = CloneValue(e)
		}
		return Arr(out)
	case VTObj:
		src := v.Data.(*MapObject)
		out := NewMapObject()
		for _, k := range src.Keys {
			out.Set(k, CloneValue(src.Entries[k]))
		}
		return Obj(out)
	default:
		return v
	}
}
