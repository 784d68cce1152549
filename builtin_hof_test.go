package jyro

import "testing"

func Test_Builtin_Map_Where(t *testing.T) {
	res := mustRun(t, `
Data.doubled = Map(Data.xs, x => x * 2)
Data.indexed = Map(Data.xs, (x, i) => x + i)
Data.evens = Where(Data.xs, x => x % 2 == 0)
`, `{"xs":[1,2,3,4]}`)
	wantNums(t, field(t, res, "doubled"), []float64{2, 4, 6, 8})
	wantNums(t, field(t, res, "indexed"), []float64{1, 3, 5, 7})
	wantNums(t, field(t, res, "evens"), []float64{2, 4})
	wantNums(t, field(t, res, "xs"), []float64{1, 2, 3, 4})
}

func Test_Builtin_Reduce(t *testing.T) {
	res := mustRun(t, `
Data.seeded = Reduce([1, 2, 3], (acc, x) => acc + x, 10)
Data.unseeded = Reduce([1, 2, 3], (acc, x) => acc * x)
Data.empty = Reduce([], (acc, x) => acc + x)
`, "")
	wantNum(t, field(t, res, "seeded"), 16)
	wantNum(t, field(t, res, "unseeded"), 6)
	wantNull(t, field(t, res, "empty"))
}

func Test_Builtin_Each_Side_Effects(t *testing.T) {
	res := mustRun(t, `
var calls = 0
Each([1, 2, 3], x => calls++)
Data.calls = calls
`, "")
	wantNum(t, field(t, res, "calls"), 3)
}

func Test_Builtin_Find_All_Any(t *testing.T) {
	res := mustRun(t, `
Data.found = Find([1, 8, 3], x => x > 5)
Data.missing = Find([1, 2], x => x > 5)
Data.all = All([2, 4], x => x % 2 == 0)
Data.notAll = All([2, 3], x => x % 2 == 0)
Data.any = Any([1, 3, 4], x => x % 2 == 0)
Data.none = Any([1, 3], x => x % 2 == 0)
`, "")
	wantNum(t, field(t, res, "found"), 8)
	wantNull(t, field(t, res, "missing"))
	wantBool(t, field(t, res, "all"), true)
	wantBool(t, field(t, res, "notAll"), false)
	wantBool(t, field(t, res, "any"), true)
	wantBool(t, field(t, res, "none"), false)
}

func Test_Builtin_SortBy(t *testing.T) {
	res := mustRun(t, `
Data.byLen = SortBy(["ccc", "a", "bb"], s => Length(s))
Data.desc = SortBy([1, 3, 2], x => x, "desc")
`, "")
	byLen := field(t, res, "byLen").Data.(*ArrayObject).Elems
	wantStr(t, byLen[0], "a")
	wantStr(t, byLen[1], "bb")
	wantStr(t, byLen[2], "ccc")
	wantNums(t, field(t, res, "desc"), []float64{3, 2, 1})
}

func Test_Builtin_SortBy_Stable(t *testing.T) {
	res := mustRun(t, `
Data.out = Pluck(SortBy(Data.rows, r => r.k), "n")
`, `{"rows":[{"k":1,"n":1},{"k":0,"n":2},{"k":1,"n":3},{"k":0,"n":4}]}`)
	wantNums(t, field(t, res, "out"), []float64{2, 4, 1, 3})
}

func Test_Builtin_HOF_NonLambda_Fails(t *testing.T) {
	mustFail(t, `Data.x = Map([1], 5)`, "", DiagTypeMismatch)
}

func Test_Builtin_HOF_Respects_Governor(t *testing.T) {
	res := Execute(`
var boom = x => boom(x)
Data.x = Map([1], boom)
`, Obj(NewMapObject()), Limits{MaxCallDepth: 30})
	if res.Kind != DiagResourceLimit {
		t.Fatalf("want ResourceLimitExceeded, got %s: %s", res.Kind, res.Message)
	}
}
