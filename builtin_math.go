// builtin_math.go — math category: scalar helpers plus the collection
// aggregates. Aggregates skip non-numeric elements and return null when no
// numeric element is present, except Sum which returns 0 for an empty or
// all-non-numeric array.
package jyro

import (
	"math"
	"sort"
)

func registerMathBuiltins() {
	register("Abs", func(_ *interp, args []Value, line int) Value {
		expectArgs("Abs", args, line, 1, 1)
		return Num(math.Abs(numArg("Abs", args, 0, line)))
	})

	register("Floor", func(_ *interp, args []Value, line int) Value {
		expectArgs("Floor", args, line, 1, 1)
		return Num(math.Floor(numArg("Floor", args, 0, line)))
	})

	register("Ceil", func(_ *interp, args []Value, line int) Value {
		expectArgs("Ceil", args, line, 1, 1)
		return Num(math.Ceil(numArg("Ceil", args, 0, line)))
	})

	// Round(n, digits?): half away from zero.
	register("Round", func(_ *interp, args []Value, line int) Value {
		expectArgs("Round", args, line, 1, 2)
		n := numArg("Round", args, 0, line)
		if len(args) == 2 {
			digits := intArg("Round", args, 1, line)
			scale := math.Pow(10, float64(digits))
			return Num(math.Round(n*scale) / scale)
		}
		return Num(math.Round(n))
	})

	register("Sqrt", func(_ *interp, args []Value, line int) Value {
		expectArgs("Sqrt", args, line, 1, 1)
		n := numArg("Sqrt", args, 0, line)
		if n < 0 {
			failAt(DiagTypeMismatch, line, "Sqrt: argument must not be negative, got %s", formatNumber(n))
		}
		return Num(math.Sqrt(n))
	})

	register("Pow", func(_ *interp, args []Value, line int) Value {
		expectArgs("Pow", args, line, 2, 2)
		return Num(math.Pow(numArg("Pow", args, 0, line), numArg("Pow", args, 1, line)))
	})

	register("Clamp", func(_ *interp, args []Value, line int) Value {
		expectArgs("Clamp", args, line, 3, 3)
		n := numArg("Clamp", args, 0, line)
		lo := numArg("Clamp", args, 1, line)
		hi := numArg("Clamp", args, 2, line)
		if lo > hi {
			failAt(DiagTypeMismatch, line, "Clamp: lower bound %s exceeds upper bound %s", formatNumber(lo), formatNumber(hi))
		}
		return Num(math.Min(math.Max(n, lo), hi))
	})

	register("Min", func(_ *interp, args []Value, line int) Value {
		expectArgs("Min", args, line, 1, 1)
		nums := numericElems(arrArg("Min", args, 0, line))
		if len(nums) == 0 {
			return Null
		}
		best := nums[0]
		for _, n := range nums[1:] {
			if n < best {
				best = n
			}
		}
		return Num(best)
	})

	register("Max", func(_ *interp, args []Value, line int) Value {
		expectArgs("Max", args, line, 1, 1)
		nums := numericElems(arrArg("Max", args, 0, line))
		if len(nums) == 0 {
			return Null
		}
		best := nums[0]
		for _, n := range nums[1:] {
			if n > best {
				best = n
			}
		}
		return Num(best)
	})

	register("Sum", func(_ *interp, args []Value, line int) Value {
		expectArgs("Sum", args, line, 1, 1)
		total := 0.0
		for _, n := range numericElems(arrArg("Sum", args, 0, line)) {
			total += n
		}
		return Num(total)
	})

	register("Average", func(_ *interp, args []Value, line int) Value {
		expectArgs("Average", args, line, 1, 1)
		nums := numericElems(arrArg("Average", args, 0, line))
		if len(nums) == 0 {
			return Null
		}
		total := 0.0
		for _, n := range nums {
			total += n
		}
		return Num(total / float64(len(nums)))
	})

	register("Median", func(_ *interp, args []Value, line int) Value {
		expectArgs("Median", args, line, 1, 1)
		nums := numericElems(arrArg("Median", args, 0, line))
		if len(nums) == 0 {
			return Null
		}
		sort.Float64s(nums)
		mid := len(nums) / 2
		if len(nums)%2 == 1 {
			return Num(nums[mid])
		}
		return Num((nums[mid-1] + nums[mid]) / 2)
	})

	// Mode returns the most frequent numeric element; on a tie, the one
	// that first reached the winning count.
	register("Mode", func(_ *interp, args []Value, line int) Value {
		expectArgs("Mode", args, line, 1, 1)
		nums := numericElems(arrArg("Mode", args, 0, line))
		if len(nums) == 0 {
			return Null
		}
		counts := make(map[float64]int, len(nums))
		best := nums[0]
		bestCount := 0
		for _, n := range nums {
			counts[n]++
			if counts[n] > bestCount {
				best = n
				bestCount = counts[n]
			}
		}
		return Num(best)
	})
}

func numericElems(arr *ArrayObject) []float64 {
	var nums []float64
	for _, e := range arr.Elems {
		if e.Tag == VTNum {
			nums = append(nums, e.Data.(float64))
		}
	}
	return nums
}
