package jyro

import "testing"

const peopleJSON = `{"people":[
  {"name":"ann","dept":"eng","age":30,"address":{"city":"berlin"}},
  {"name":"bob","dept":"ops","age":25,"address":{"city":"paris"}},
  {"name":"cid","dept":"eng","age":35},
  {"name":"dee","dept":null,"age":28}
]}`

func Test_Builtin_Pluck_DotPath(t *testing.T) {
	res := mustRun(t, `
Data.names = Pluck(Data.people, "name")
Data.cities = Pluck(Data.people, "address.city")
`, peopleJSON)
	names := field(t, res, "names").Data.(*ArrayObject).Elems
	wantStr(t, names[0], "ann")
	wantStr(t, names[3], "dee")
	cities := field(t, res, "cities").Data.(*ArrayObject).Elems
	wantStr(t, cities[0], "berlin")
	wantNull(t, cities[2])
}

func Test_Builtin_FilterBy_FirstBy(t *testing.T) {
	res := mustRun(t, `
Data.eng = FilterBy(Data.people, "dept", "eng")
Data.first = FirstBy(Data.people, "dept", "eng")
Data.none = FirstBy(Data.people, "dept", "hr")
`, peopleJSON)
	eng := field(t, res, "eng").Data.(*ArrayObject).Elems
	if len(eng) != 2 {
		t.Fatalf("want 2 eng rows, got %d", len(eng))
	}
	name, _ := field(t, res, "first").Data.(*MapObject).Get("name")
	wantStr(t, name, "ann")
	wantNull(t, field(t, res, "none"))
}

func Test_Builtin_DistinctBy(t *testing.T) {
	res := mustRun(t, `
Data.uniq = DistinctBy(Data.people, "dept")
`, peopleJSON)
	uniq := field(t, res, "uniq").Data.(*ArrayObject).Elems
	// eng, ops, null keep their first representative each.
	if len(uniq) != 3 {
		t.Fatalf("want 3 rows, got %d", len(uniq))
	}
}

func Test_Builtin_OrderBy(t *testing.T) {
	res := mustRun(t, `
Data.asc = Pluck(OrderBy(Data.people, "age"), "name")
Data.desc = Pluck(OrderBy(Data.people, "age", "desc"), "name")
`, peopleJSON)
	asc := field(t, res, "asc").Data.(*ArrayObject).Elems
	wantStr(t, asc[0], "bob")
	wantStr(t, asc[3], "cid")
	desc := field(t, res, "desc").Data.(*ArrayObject).Elems
	wantStr(t, desc[0], "cid")
	wantStr(t, desc[3], "bob")
}

func Test_Builtin_OrderBy_BadDirection_Fails(t *testing.T) {
	mustFail(t, `Data.x = OrderBy([], "k", "sideways")`, "", DiagTypeMismatch)
}

func Test_Builtin_GroupBy_Keys(t *testing.T) {
	res := mustRun(t, `
Data.groups = GroupBy(Data.rows, "k")
`, `{"rows":[{"k":"a"},{"k":"a"},{"k":null},{"x":1}]}`)
	groups := field(t, res, "groups").Data.(*MapObject)
	a, ok := groups.Get("a")
	if !ok || len(a.Data.(*ArrayObject).Elems) != 2 {
		t.Fatalf("group \"a\" wrong: %#v", a)
	}
	// Explicit null groups under "null"; a missing field groups under "".
	if _, ok := groups.Get("null"); !ok {
		t.Fatalf("null group missing (keys %v)", groups.Keys)
	}
	if _, ok := groups.Get(""); !ok {
		t.Fatalf("missing-field group absent (keys %v)", groups.Keys)
	}
}

func Test_Builtin_Merge_Shallow_LeftToRight(t *testing.T) {
	res := mustRun(t, `
Data.out = Merge({a: 1, nest: {x: 1}}, {b: 2}, {a: 9, nest: {y: 2}})
`, "")
	out := field(t, res, "out").Data.(*MapObject)
	a, _ := out.Get("a")
	wantNum(t, a, 9)
	b, _ := out.Get("b")
	wantNum(t, b, 2)
	// Shallow: the later nested object replaces the earlier one wholesale.
	nest, _ := out.Get("nest")
	if _, ok := nest.Data.(*MapObject).Get("x"); ok {
		t.Fatalf("Merge deep-merged nested objects: %#v", nest)
	}
	if v, ok := nest.Data.(*MapObject).Get("y"); !ok || v.Data.(float64) != 2 {
		t.Fatalf("later nested object lost: %#v", nest)
	}
	// Key order follows first appearance.
	if out.Keys[0] != "a" || out.Keys[1] != "nest" || out.Keys[2] != "b" {
		t.Fatalf("key order: %v", out.Keys)
	}
}

func Test_Builtin_Merge_Array_Form(t *testing.T) {
	res := mustRun(t, `
Data.out = Merge([{nested: {x: 1, y: 2}}, {nested: {z: 3}}])
`, "")
	out := field(t, res, "out").Data.(*MapObject)
	nested, _ := out.Get("nested")
	mo := nested.Data.(*MapObject)
	if _, ok := mo.Get("x"); ok {
		t.Fatalf("Merge deep-merged nested objects: %#v", nested)
	}
	z, _ := mo.Get("z")
	wantNum(t, z, 3)
}

func Test_Builtin_Merge_Array_Form_Rejects_NonObject_Element(t *testing.T) {
	mustFail(t, `Data.out = Merge([{a: 1}, 2])`, "", DiagTypeMismatch)
}

func Test_Builtin_Merge_DoesNot_Mutate_Arguments(t *testing.T) {
	res := mustRun(t, `
Data.merged = Merge(Data.a, Data.b)
`, `{"a":{"x":1},"b":{"x":2}}`)
	x, _ := field(t, res, "a").Data.(*MapObject).Get("x")
	wantNum(t, x, 1)
	m, _ := field(t, res, "merged").Data.(*MapObject).Get("x")
	wantNum(t, m, 2)
}
