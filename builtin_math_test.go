package jyro

import "testing"

func Test_Builtin_Scalar_Math(t *testing.T) {
	res := mustRun(t, `
Data.abs = Abs(-3.5)
Data.floor = Floor(2.7)
Data.ceil = Ceil(2.1)
Data.round = Round(2.5)
Data.digits = Round(2.345, 2)
Data.sqrt = Sqrt(16)
Data.pow = Pow(2, 10)
Data.clampLo = Clamp(-5, 0, 10)
Data.clampHi = Clamp(15, 0, 10)
Data.clampIn = Clamp(5, 0, 10)
`, "")
	wantNum(t, field(t, res, "abs"), 3.5)
	wantNum(t, field(t, res, "floor"), 2)
	wantNum(t, field(t, res, "ceil"), 3)
	wantNum(t, field(t, res, "round"), 3)
	wantNum(t, field(t, res, "digits"), 2.35)
	wantNum(t, field(t, res, "sqrt"), 4)
	wantNum(t, field(t, res, "pow"), 1024)
	wantNum(t, field(t, res, "clampLo"), 0)
	wantNum(t, field(t, res, "clampHi"), 10)
	wantNum(t, field(t, res, "clampIn"), 5)
}

func Test_Builtin_Sqrt_Negative_Fails(t *testing.T) {
	mustFail(t, `Data.x = Sqrt(-1)`, "", DiagTypeMismatch)
}

func Test_Builtin_Aggregates(t *testing.T) {
	res := mustRun(t, `
Data.min = Min([3, 1, 2])
Data.max = Max([3, 1, 2])
Data.sum = Sum([1, 2, 3])
Data.avg = Average([1, 2, 3])
Data.medOdd = Median([3, 1, 2])
Data.medEven = Median([4, 1, 2, 3])
Data.mode = Mode([1, 2, 2, 3, 2])
`, "")
	wantNum(t, field(t, res, "min"), 1)
	wantNum(t, field(t, res, "max"), 3)
	wantNum(t, field(t, res, "sum"), 6)
	wantNum(t, field(t, res, "avg"), 2)
	wantNum(t, field(t, res, "medOdd"), 2)
	wantNum(t, field(t, res, "medEven"), 2.5)
	wantNum(t, field(t, res, "mode"), 2)
}

func Test_Builtin_Aggregates_Skip_NonNumeric(t *testing.T) {
	res := mustRun(t, `
Data.sum = Sum([1, "x", 2, null, true])
Data.min = Min(["a", null])
Data.avg = Average([])
Data.emptySum = Sum([])
`, "")
	wantNum(t, field(t, res, "sum"), 3)
	wantNull(t, field(t, res, "min"))
	wantNull(t, field(t, res, "avg"))
	wantNum(t, field(t, res, "emptySum"), 0)
}

func Test_Builtin_Aggregate_NonArray_Fails(t *testing.T) {
	mustFail(t, `Data.x = Sum(5)`, "", DiagTypeMismatch)
}
