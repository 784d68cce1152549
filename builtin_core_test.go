package jyro

import (
	"strings"
	"testing"
)

func Test_Builtin_TypeOf(t *testing.T) {
	res := mustRun(t, `
Data.n = TypeOf(1)
Data.s = TypeOf("x")
Data.b = TypeOf(true)
Data.a = TypeOf([])
Data.o = TypeOf({})
Data.nul = TypeOf(null)
Data.f = TypeOf(x => x)
`, "")
	wantStr(t, field(t, res, "n"), "number")
	wantStr(t, field(t, res, "s"), "string")
	wantStr(t, field(t, res, "b"), "boolean")
	wantStr(t, field(t, res, "a"), "array")
	wantStr(t, field(t, res, "o"), "object")
	wantStr(t, field(t, res, "nul"), "null")
	wantStr(t, field(t, res, "f"), "function")
}

func Test_Builtin_Length(t *testing.T) {
	res := mustRun(t, `
Data.str = Length("héllo")
Data.arr = Length([1, 2, 3])
Data.obj = Length({a: 1, b: 2})
Data.nul = Length(null)
`, "")
	wantNum(t, field(t, res, "str"), 5)
	wantNum(t, field(t, res, "arr"), 3)
	wantNum(t, field(t, res, "obj"), 2)
	wantNum(t, field(t, res, "nul"), 0)
}

func Test_Builtin_Length_Number_Fails(t *testing.T) {
	mustFail(t, `Data.x = Length(42)`, "", DiagTypeMismatch)
}

func Test_Builtin_Conversions(t *testing.T) {
	res := mustRun(t, `
Data.a = ToNumber("3.5")
Data.b = ToNumber("  42  ")
Data.c = ToNumber("abc")
Data.d = ToNumber(true)
Data.e = ToString(2.5)
Data.f = ToString(null)
Data.g = ToBoolean([])
Data.h = ToBoolean("")
`, "")
	wantNum(t, field(t, res, "a"), 3.5)
	wantNum(t, field(t, res, "b"), 42)
	wantNull(t, field(t, res, "c"))
	wantNum(t, field(t, res, "d"), 1)
	wantStr(t, field(t, res, "e"), "2.5")
	wantStr(t, field(t, res, "f"), "null")
	wantBool(t, field(t, res, "g"), true)
	wantBool(t, field(t, res, "h"), false)
}

func Test_Builtin_Object_Access(t *testing.T) {
	res := mustRun(t, `
Data.keys = Keys(Data.obj)
Data.vals = Values(Data.obj)
Data.has = HasField(Data.obj, "a")
Data.hasNot = HasField(Data.obj, "zz")
Data.trimmed = RemoveField(Data.obj, "a")
`, `{"obj":{"a":1,"b":2}}`)
	keys := field(t, res, "keys").Data.(*ArrayObject).Elems
	wantStr(t, keys[0], "a")
	wantStr(t, keys[1], "b")
	wantNums(t, field(t, res, "vals"), []float64{1, 2})
	wantBool(t, field(t, res, "has"), true)
	wantBool(t, field(t, res, "hasNot"), false)
	trimmed := field(t, res, "trimmed").Data.(*MapObject)
	if len(trimmed.Keys) != 1 || trimmed.Keys[0] != "b" {
		t.Fatalf("RemoveField result keys: %v", trimmed.Keys)
	}
	// Original object untouched.
	orig := field(t, res, "obj").Data.(*MapObject)
	if len(orig.Keys) != 2 {
		t.Fatalf("RemoveField mutated its argument: %v", orig.Keys)
	}
}

func Test_Builtin_Sort_MixedKinds(t *testing.T) {
	res := mustRun(t, `
Data.out = Sort([true, "b", 2, null, "a", 1, false])
`, "")
	elems := field(t, res, "out").Data.(*ArrayObject).Elems
	wantNull(t, elems[0])
	wantNum(t, elems[1], 1)
	wantNum(t, elems[2], 2)
	wantStr(t, elems[3], "a")
	wantStr(t, elems[4], "b")
	wantBool(t, elems[5], false)
	wantBool(t, elems[6], true)
}

func Test_Builtin_Sort_Does_Not_Mutate(t *testing.T) {
	res := mustRun(t, `
Data.sorted = Sort(Data.xs)
`, `{"xs":[3,1,2]}`)
	wantNums(t, field(t, res, "xs"), []float64{3, 1, 2})
	wantNums(t, field(t, res, "sorted"), []float64{1, 2, 3})
}

func Test_Builtin_Json_Functions(t *testing.T) {
	res := mustRun(t, `
Data.text = ToJson({a: [1, 2]})
Data.back = ParseJson("{\"x\": 5}")
`, "")
	wantStr(t, field(t, res, "text"), `{"a":[1,2]}`)
	v, _ := field(t, res, "back").Data.(*MapObject).Get("x")
	wantNum(t, v, 5)
}

func Test_Builtin_ParseJson_Invalid_Fails(t *testing.T) {
	mustFail(t, `Data.x = ParseJson("{oops")`, "", DiagTypeMismatch)
}

func Test_Builtin_Equal_Follows_Null_Rule(t *testing.T) {
	res := mustRun(t, `
Data.a = Equal([1, 2], [1, 2])
Data.b = Equal(null, null)
Data.c = IsNull(null)
Data.d = IsNull(0)
`, "")
	wantBool(t, field(t, res, "a"), true)
	wantBool(t, field(t, res, "b"), false)
	wantBool(t, field(t, res, "c"), true)
	wantBool(t, field(t, res, "d"), false)
}

func Test_Builtin_WrongArity_Fails(t *testing.T) {
	mustFail(t, `Data.x = TypeOf()`, "", DiagTypeMismatch)
	mustFail(t, `Data.x = TypeOf(1, 2)`, "", DiagTypeMismatch)
}

func Test_Builtin_Variadic_Arity_Message(t *testing.T) {
	res := mustFail(t, `Data.x = Merge()`, "", DiagTypeMismatch)
	if !strings.Contains(res.Message, "at least 1") {
		t.Fatalf("want 'at least' diagnostic, got %q", res.Message)
	}
}
