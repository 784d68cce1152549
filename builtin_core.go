// builtin_core.go — stdlib registry, argument helpers, and the utility
// category (type inspection, conversions, object access, cloning, JSON).
//
// The registry is the fixed, flat identifier namespace scripts call into:
// there are no user-defined named functions, so name resolution is just
// this map plus the scope chain. Every array/object a builtin returns is a
// freshly allocated container; no builtin aliases caller-visible state.
package jyro

import (
	"math"
	"strconv"
	"strings"
)

// builtinFn is the implementation signature for stdlib functions. line is
// the call site, used for diagnostics.
type builtinFn func(ip *interp, args []Value, line int) Value

var stdRegistry = map[string]builtinFn{}

func register(name string, fn builtinFn) {
	if _, dup := stdRegistry[name]; dup {
		panic("duplicate builtin: " + name)
	}
	stdRegistry[name] = fn
}

// BuiltinNames lists the registered stdlib function names (for tooling).
func BuiltinNames() []string {
	names := make([]string, 0, len(stdRegistry))
	for n := range stdRegistry {
		names = append(names, n)
	}
	return names
}

func init() {
	registerUtilityBuiltins()
	registerStringBuiltins()
	registerArrayBuiltins()
	registerMathBuiltins()
	registerTimeBuiltins()
	registerQueryBuiltins()
	registerHigherOrderBuiltins()
	registerSchemaBuiltins()
}

// --- argument helpers -------------------------------------------------------

func expectArgs(fname string, args []Value, line, min, max int) {
	if len(args) < min || (max >= 0 && len(args) > max) {
		switch {
		case min == max:
			failAt(DiagTypeMismatch, line, "%s expects %d argument(s), got %d", fname, min, len(args))
		case max < 0:
			failAt(DiagTypeMismatch, line, "%s expects at least %d argument(s), got %d", fname, min, len(args))
		default:
			failAt(DiagTypeMismatch, line, "%s expects %d to %d arguments, got %d", fname, min, max, len(args))
		}
	}
}

func strArg(fname string, args []Value, i, line int) string {
	if args[i].Tag != VTStr {
		failAt(DiagTypeMismatch, line, "%s: argument %d must be a string, got %s", fname, i+1, args[i].Tag.TypeName())
	}
	return args[i].Data.(string)
}

func numArg(fname string, args []Value, i, line int) float64 {
	if args[i].Tag != VTNum {
		failAt(DiagTypeMismatch, line, "%s: argument %d must be a number, got %s", fname, i+1, args[i].Tag.TypeName())
	}
	return args[i].Data.(float64)
}

func intArg(fname string, args []Value, i, line int) int {
	f := numArg(fname, args, i, line)
	if f != math.Trunc(f) {
		failAt(DiagTypeMismatch, line, "%s: argument %d must be an integer, got %s", fname, i+1, formatNumber(f))
	}
	return int(f)
}

func arrArg(fname string, args []Value, i, line int) *ArrayObject {
	if args[i].Tag != VTArray {
		failAt(DiagTypeMismatch, line, "%s: argument %d must be an array, got %s", fname, i+1, args[i].Tag.TypeName())
	}
	return args[i].Data.(*ArrayObject)
}

func objArg(fname string, args []Value, i, line int) *MapObject {
	if args[i].Tag != VTObj {
		failAt(DiagTypeMismatch, line, "%s: argument %d must be an object, got %s", fname, i+1, args[i].Tag.TypeName())
	}
	return args[i].Data.(*MapObject)
}

func funArg(fname string, args []Value, i, line int) *Fun {
	if args[i].Tag != VTFun {
		failAt(DiagTypeMismatch, line, "%s: argument %d must be a lambda, got %s", fname, i+1, args[i].Tag.TypeName())
	}
	return args[i].Data.(*Fun)
}

// sameValue is DeepEqual with the null exception lifted: for deduplication
// and membership checks two nulls do count as the same value.
func sameValue(a, b Value) bool {
	if a.Tag == VTNull && b.Tag == VTNull {
		return true
	}
	return DeepEqual(a, b)
}

// --- utility category -------------------------------------------------------

func registerUtilityBuiltins() {
	// TypeOf(v) -> "null" | "boolean" | "number" | "string" | "array" | "object" | "function"
	register("TypeOf", func(_ *interp, args []Value, line int) Value {
		expectArgs("TypeOf", args, line, 1, 1)
		return Str(args[0].Tag.TypeName())
	})

	// Length(v): rune count for strings, element count for arrays, key count
	// for objects; null measures 0.
	register("Length", func(_ *interp, args []Value, line int) Value {
		expectArgs("Length", args, line, 1, 1)
		switch args[0].Tag {
		case VTNull:
			return Num(0)
		case VTStr:
			return Num(float64(len([]rune(args[0].Data.(string)))))
		case VTArray:
			return Num(float64(len(args[0].Data.(*ArrayObject).Elems)))
		case VTObj:
			return Num(float64(len(args[0].Data.(*MapObject).Keys)))
		}
		failAt(DiagTypeMismatch, line, "Length: cannot measure a %s", args[0].Tag.TypeName())
		return Null
	})

	// ToNumber is the lenient conversion: unconvertible inputs yield null
	// rather than failing (the strict path is a number-hinted variable).
	register("ToNumber", func(_ *interp, args []Value, line int) Value {
		expectArgs("ToNumber", args, line, 1, 1)
		switch args[0].Tag {
		case VTNum:
			return args[0]
		case VTBool:
			if args[0].Data.(bool) {
				return Num(1)
			}
			return Num(0)
		case VTStr:
			f, err := strconv.ParseFloat(strings.TrimSpace(args[0].Data.(string)), 64)
			if err != nil {
				return Null
			}
			return Num(f)
		}
		return Null
	})

	register("ToString", func(_ *interp, args []Value, line int) Value {
		expectArgs("ToString", args, line, 1, 1)
		return Str(Stringify(args[0]))
	})

	// ToBoolean follows truthiness, so empty containers convert to true.
	register("ToBoolean", func(_ *interp, args []Value, line int) Value {
		expectArgs("ToBoolean", args, line, 1, 1)
		return Bool(Truthy(args[0]))
	})

	register("IsNull", func(_ *interp, args []Value, line int) Value {
		expectArgs("IsNull", args, line, 1, 1)
		return Bool(args[0].Tag == VTNull)
	})

	// Equal is structural equality as a function; it carries the same
	// null-never-equal rule as the == operator.
	register("Equal", func(_ *interp, args []Value, line int) Value {
		expectArgs("Equal", args, line, 2, 2)
		return Bool(DeepEqual(args[0], args[1]))
	})

	register("Keys", func(_ *interp, args []Value, line int) Value {
		expectArgs("Keys", args, line, 1, 1)
		mo := objArg("Keys", args, 0, line)
		out := make([]Value, len(mo.Keys))
		for i, k := range mo.Keys {
			out[i] = Str(k)
		}
		return Arr(out)
	})

	register("Values", func(_ *interp, args []Value, line int) Value {
		expectArgs("Values", args, line, 1, 1)
		mo := objArg("Values", args, 0, line)
		out := make([]Value, len(mo.Keys))
		for i, k := range mo.Keys {
			out[i] = mo.Entries[k]
		}
		return Arr(out)
	})

	register("HasField", func(_ *interp, args []Value, line int) Value {
		expectArgs("HasField", args, line, 2, 2)
		mo := objArg("HasField", args, 0, line)
		key := strArg("HasField", args, 1, line)
		_, ok := mo.Get(key)
		return Bool(ok)
	})

	register("RemoveField", func(_ *interp, args []Value, line int) Value {
		expectArgs("RemoveField", args, line, 2, 2)
		mo := objArg("RemoveField", args, 0, line)
		key := strArg("RemoveField", args, 1, line)
		out := NewMapObject()
		for _, k := range mo.Keys {
			if k != key {
				out.Set(k, mo.Entries[k])
			}
		}
		return Obj(out)
	})

	register("Clone", func(_ *interp, args []Value, line int) Value {
		expectArgs("Clone", args, line, 1, 1)
		return CloneValue(args[0])
	})

	// Sort(array) under the fixed mixed-kind order:
	// null < numbers < strings < booleans.
	register("Sort", func(_ *interp, args []Value, line int) Value {
		expectArgs("Sort", args, line, 1, 1)
		src := arrArg("Sort", args, 0, line)
		out := append([]Value(nil), src.Elems...)
		sortValues(out)
		return Arr(out)
	})

	register("ToJson", func(_ *interp, args []Value, line int) Value {
		expectArgs("ToJson", args, line, 1, 1)
		return Str(string(ToJSON(args[0])))
	})

	register("ParseJson", func(_ *interp, args []Value, line int) Value {
		expectArgs("ParseJson", args, line, 1, 1)
		s := strArg("ParseJson", args, 0, line)
		v, err := FromJSON([]byte(s))
		if err != nil {
			failAt(DiagTypeMismatch, line, "ParseJson: invalid JSON: %v", err)
		}
		return v
	})
}
