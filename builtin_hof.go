// builtin_hof.go — higher-order category: the builtins that take a lambda.
// Lambdas are invoked through the interpreter so closure scope, call depth
// and resource accounting behave exactly as in a direct call.
package jyro

import "sort"

func registerHigherOrderBuiltins() {
	register("Map", func(ip *interp, args []Value, line int) Value {
		expectArgs("Map", args, line, 2, 2)
		src := arrArg("Map", args, 0, line)
		fn := funArg("Map", args, 1, line)
		out := make([]Value, len(src.Elems))
		for i, e := range src.Elems {
			out[i] = ip.callLambda(fn, lambdaArgs(fn, e, i), line)
		}
		return Arr(out)
	})

	register("Where", func(ip *interp, args []Value, line int) Value {
		expectArgs("Where", args, line, 2, 2)
		src := arrArg("Where", args, 0, line)
		fn := funArg("Where", args, 1, line)
		var out []Value
		for i, e := range src.Elems {
			if Truthy(ip.callLambda(fn, lambdaArgs(fn, e, i), line)) {
				out = append(out, e)
			}
		}
		return Arr(out)
	})

	// Reduce(arr, fn, seed?): without a seed the first element seeds the
	// fold and an empty array reduces to null.
	register("Reduce", func(ip *interp, args []Value, line int) Value {
		expectArgs("Reduce", args, line, 2, 3)
		src := arrArg("Reduce", args, 0, line)
		fn := funArg("Reduce", args, 1, line)
		acc := Null
		start := 0
		if len(args) == 3 {
			acc = args[2]
		} else {
			if len(src.Elems) == 0 {
				return Null
			}
			acc = src.Elems[0]
			start = 1
		}
		for _, e := range src.Elems[start:] {
			acc = ip.callLambda(fn, []Value{acc, e}, line)
		}
		return acc
	})

	register("Each", func(ip *interp, args []Value, line int) Value {
		expectArgs("Each", args, line, 2, 2)
		src := arrArg("Each", args, 0, line)
		fn := funArg("Each", args, 1, line)
		for i, e := range src.Elems {
			ip.callLambda(fn, lambdaArgs(fn, e, i), line)
		}
		return Null
	})

	register("Find", func(ip *interp, args []Value, line int) Value {
		expectArgs("Find", args, line, 2, 2)
		src := arrArg("Find", args, 0, line)
		fn := funArg("Find", args, 1, line)
		for i, e := range src.Elems {
			if Truthy(ip.callLambda(fn, lambdaArgs(fn, e, i), line)) {
				return e
			}
		}
		return Null
	})

	register("All", func(ip *interp, args []Value, line int) Value {
		expectArgs("All", args, line, 2, 2)
		src := arrArg("All", args, 0, line)
		fn := funArg("All", args, 1, line)
		for i, e := range src.Elems {
			if !Truthy(ip.callLambda(fn, lambdaArgs(fn, e, i), line)) {
				return Bool(false)
			}
		}
		return Bool(true)
	})

	register("Any", func(ip *interp, args []Value, line int) Value {
		expectArgs("Any", args, line, 2, 2)
		src := arrArg("Any", args, 0, line)
		fn := funArg("Any", args, 1, line)
		for i, e := range src.Elems {
			if Truthy(ip.callLambda(fn, lambdaArgs(fn, e, i), line)) {
				return Bool(true)
			}
		}
		return Bool(false)
	})

	// SortBy(arr, fn, dir?) — stable sort on the lambda-derived key. Keys
	// are computed once per element, not once per comparison.
	register("SortBy", func(ip *interp, args []Value, line int) Value {
		expectArgs("SortBy", args, line, 2, 3)
		src := arrArg("SortBy", args, 0, line)
		fn := funArg("SortBy", args, 1, line)
		desc := false
		if len(args) == 3 {
			switch strArg("SortBy", args, 2, line) {
			case "asc":
			case "desc":
				desc = true
			default:
				failAt(DiagTypeMismatch, line, "SortBy: direction must be \"asc\" or \"desc\"")
			}
		}
		keys := make([]Value, len(src.Elems))
		for i, e := range src.Elems {
			keys[i] = ip.callLambda(fn, []Value{e}, line)
		}
		idx := make([]int, len(src.Elems))
		for i := range idx {
			idx[i] = i
		}
		sort.SliceStable(idx, func(a, b int) bool {
			c := compareValues(keys[idx[a]], keys[idx[b]])
			if desc {
				return c > 0
			}
			return c < 0
		})
		out := make([]Value, len(idx))
		for i, j := range idx {
			out[i] = src.Elems[j]
		}
		return Arr(out)
	})
}

// lambdaArgs passes the element, plus the index when the lambda declares a
// second parameter.
func lambdaArgs(fn *Fun, elem Value, i int) []Value {
	if len(fn.Params) >= 2 {
		return []Value{elem, Num(float64(i))}
	}
	return []Value{elem}
}
