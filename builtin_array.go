// builtin_array.go — array category of the standard library.
//
// Every function here returns a freshly allocated container and never
// mutates its argument. Flatten is the one recursive builtin; its recursion
// depth is charged against the governor so deeply self-nested input cannot
// escape the resource ceilings.
package jyro

import "strings"

func registerArrayBuiltins() {
	register("Append", func(_ *interp, args []Value, line int) Value {
		expectArgs("Append", args, line, 2, 2)
		src := arrArg("Append", args, 0, line)
		out := make([]Value, 0, len(src.Elems)+1)
		out = append(out, src.Elems...)
		out = append(out, args[1])
		return Arr(out)
	})

	// Insert(arr, index, value); index clamps to [0, len].
	register("Insert", func(_ *interp, args []Value, line int) Value {
		expectArgs("Insert", args, line, 3, 3)
		src := arrArg("Insert", args, 0, line)
		i := intArg("Insert", args, 1, line)
		if i < 0 {
			i = 0
		}
		if i > len(src.Elems) {
			i = len(src.Elems)
		}
		out := make([]Value, 0, len(src.Elems)+1)
		out = append(out, src.Elems[:i]...)
		out = append(out, args[2])
		out = append(out, src.Elems[i:]...)
		return Arr(out)
	})

	// RemoveAt(arr, index); out-of-range indices leave the copy unchanged.
	register("RemoveAt", func(_ *interp, args []Value, line int) Value {
		expectArgs("RemoveAt", args, line, 2, 2)
		src := arrArg("RemoveAt", args, 0, line)
		i := intArg("RemoveAt", args, 1, line)
		out := make([]Value, 0, len(src.Elems))
		for j, e := range src.Elems {
			if j != i {
				out = append(out, e)
			}
		}
		return Arr(out)
	})

	register("Concat", func(_ *interp, args []Value, line int) Value {
		expectArgs("Concat", args, line, 2, 2)
		a := arrArg("Concat", args, 0, line)
		b := arrArg("Concat", args, 1, line)
		out := make([]Value, 0, len(a.Elems)+len(b.Elems))
		out = append(out, a.Elems...)
		out = append(out, b.Elems...)
		return Arr(out)
	})

	// Slice(arr, start, end?) half-open, clamped.
	register("Slice", func(_ *interp, args []Value, line int) Value {
		expectArgs("Slice", args, line, 2, 3)
		src := arrArg("Slice", args, 0, line)
		start := intArg("Slice", args, 1, line)
		end := len(src.Elems)
		if len(args) == 3 {
			end = intArg("Slice", args, 2, line)
		}
		if start < 0 {
			start = 0
		}
		if end > len(src.Elems) {
			end = len(src.Elems)
		}
		if start > end {
			start = end
		}
		return Arr(append([]Value(nil), src.Elems[start:end]...))
	})

	register("Reverse", func(_ *interp, args []Value, line int) Value {
		expectArgs("Reverse", args, line, 1, 1)
		src := arrArg("Reverse", args, 0, line)
		out := make([]Value, len(src.Elems))
		for i, e := range src.Elems {
			out[len(src.Elems)-1-i] = e
		}
		return Arr(out)
	})

	// Contains works for arrays (membership via structural equality, nulls
	// matching nulls) and strings (substring).
	register("Contains", func(_ *interp, args []Value, line int) Value {
		expectArgs("Contains", args, line, 2, 2)
		switch args[0].Tag {
		case VTArray:
			for _, e := range args[0].Data.(*ArrayObject).Elems {
				if sameValue(e, args[1]) {
					return Bool(true)
				}
			}
			return Bool(false)
		case VTStr:
			sub := strArg("Contains", args, 1, line)
			return Bool(strings.Contains(args[0].Data.(string), sub))
		}
		failAt(DiagTypeMismatch, line, "Contains: argument 1 must be an array or string, got %s", args[0].Tag.TypeName())
		return Null
	})

	// IndexOf for arrays (structural equality) and strings (rune index of
	// first occurrence); -1 when absent.
	register("IndexOf", func(_ *interp, args []Value, line int) Value {
		expectArgs("IndexOf", args, line, 2, 2)
		switch args[0].Tag {
		case VTArray:
			for i, e := range args[0].Data.(*ArrayObject).Elems {
				if sameValue(e, args[1]) {
					return Num(float64(i))
				}
			}
			return Num(-1)
		case VTStr:
			s := args[0].Data.(string)
			sub := strArg("IndexOf", args, 1, line)
			byteIdx := strings.Index(s, sub)
			if byteIdx < 0 {
				return Num(-1)
			}
			return Num(float64(len([]rune(s[:byteIdx]))))
		}
		failAt(DiagTypeMismatch, line, "IndexOf: argument 1 must be an array or string, got %s", args[0].Tag.TypeName())
		return Null
	})

	register("Distinct", func(_ *interp, args []Value, line int) Value {
		expectArgs("Distinct", args, line, 1, 1)
		src := arrArg("Distinct", args, 0, line)
		var out []Value
		for _, e := range src.Elems {
			dup := false
			for _, seen := range out {
				if sameValue(e, seen) {
					dup = true
					break
				}
			}
			if !dup {
				out = append(out, e)
			}
		}
		return Arr(out)
	})

	register("First", func(_ *interp, args []Value, line int) Value {
		expectArgs("First", args, line, 1, 1)
		src := arrArg("First", args, 0, line)
		if len(src.Elems) == 0 {
			return Null
		}
		return src.Elems[0]
	})

	register("Last", func(_ *interp, args []Value, line int) Value {
		expectArgs("Last", args, line, 1, 1)
		src := arrArg("Last", args, 0, line)
		if len(src.Elems) == 0 {
			return Null
		}
		return src.Elems[len(src.Elems)-1]
	})

	// Flatten(arr, depth?). Without a depth it flattens fully; recursion is
	// governor-charged either way.
	register("Flatten", func(ip *interp, args []Value, line int) Value {
		expectArgs("Flatten", args, line, 1, 2)
		src := arrArg("Flatten", args, 0, line)
		depth := -1
		if len(args) == 2 {
			depth = intArg("Flatten", args, 1, line)
		}
		var out []Value
		flattenInto(ip, &out, src.Elems, depth, line)
		return Arr(out)
	})

	// Range(start, end, step?) — half-open like the for loop.
	register("Range", func(ip *interp, args []Value, line int) Value {
		expectArgs("Range", args, line, 2, 3)
		start := numArg("Range", args, 0, line)
		end := numArg("Range", args, 1, line)
		step := 1.0
		if len(args) == 3 {
			step = numArg("Range", args, 2, line)
		}
		if step <= 0 {
			failAt(DiagInvalidStep, line, "Range: step must be strictly positive, got %s", formatNumber(step))
		}
		var out []Value
		if start <= end {
			for i := start; i < end; i += step {
				ip.gov.checkIteration(line)
				out = append(out, Num(i))
			}
		} else {
			for i := start; i > end; i -= step {
				ip.gov.checkIteration(line)
				out = append(out, Num(i))
			}
		}
		return Arr(out)
	})

	register("Chunk", func(_ *interp, args []Value, line int) Value {
		expectArgs("Chunk", args, line, 2, 2)
		src := arrArg("Chunk", args, 0, line)
		size := intArg("Chunk", args, 1, line)
		if size <= 0 {
			failAt(DiagTypeMismatch, line, "Chunk: size must be positive, got %d", size)
		}
		var out []Value
		for i := 0; i < len(src.Elems); i += size {
			end := i + size
			if end > len(src.Elems) {
				end = len(src.Elems)
			}
			out = append(out, Arr(append([]Value(nil), src.Elems[i:end]...)))
		}
		return Arr(out)
	})
}

func flattenInto(ip *interp, out *[]Value, elems []Value, depth, line int) {
	ip.gov.enter(line)
	defer ip.gov.leave()
	for _, e := range elems {
		if e.Tag == VTArray && depth != 0 {
			flattenInto(ip, out, e.Data.(*ArrayObject).Elems, depth-1, line)
			continue
		}
		*out = append(*out, e)
	}
}
