// builtin_query.go — data-shaping category: the record-oriented helpers that
// operate on arrays of objects by field path. Paths use dot notation
// ("address.city"); a missing segment resolves to null rather than failing,
// matching lenient member reads in the language itself.
package jyro

func registerQueryBuiltins() {
	register("Pluck", func(_ *interp, args []Value, line int) Value {
		expectArgs("Pluck", args, line, 2, 2)
		src := arrArg("Pluck", args, 0, line)
		path := strArg("Pluck", args, 1, line)
		out := make([]Value, len(src.Elems))
		for i, e := range src.Elems {
			out[i] = resolvePath(e, path)
		}
		return Arr(out)
	})

	register("FilterBy", func(_ *interp, args []Value, line int) Value {
		expectArgs("FilterBy", args, line, 3, 3)
		src := arrArg("FilterBy", args, 0, line)
		path := strArg("FilterBy", args, 1, line)
		var out []Value
		for _, e := range src.Elems {
			if sameValue(resolvePath(e, path), args[2]) {
				out = append(out, e)
			}
		}
		return Arr(out)
	})

	register("FirstBy", func(_ *interp, args []Value, line int) Value {
		expectArgs("FirstBy", args, line, 3, 3)
		src := arrArg("FirstBy", args, 0, line)
		path := strArg("FirstBy", args, 1, line)
		for _, e := range src.Elems {
			if sameValue(resolvePath(e, path), args[2]) {
				return e
			}
		}
		return Null
	})

	register("DistinctBy", func(_ *interp, args []Value, line int) Value {
		expectArgs("DistinctBy", args, line, 2, 2)
		src := arrArg("DistinctBy", args, 0, line)
		path := strArg("DistinctBy", args, 1, line)
		var keys []Value
		var out []Value
		for _, e := range src.Elems {
			k := resolvePath(e, path)
			dup := false
			for _, seen := range keys {
				if sameValue(k, seen) {
					dup = true
					break
				}
			}
			if !dup {
				keys = append(keys, k)
				out = append(out, e)
			}
		}
		return Arr(out)
	})

	// OrderBy(arr, path, dir?) — stable; dir is "asc" (default) or "desc".
	register("OrderBy", func(_ *interp, args []Value, line int) Value {
		expectArgs("OrderBy", args, line, 2, 3)
		src := arrArg("OrderBy", args, 0, line)
		path := strArg("OrderBy", args, 1, line)
		desc := false
		if len(args) == 3 {
			switch strArg("OrderBy", args, 2, line) {
			case "asc":
			case "desc":
				desc = true
			default:
				failAt(DiagTypeMismatch, line, "OrderBy: direction must be \"asc\" or \"desc\"")
			}
		}
		out := append([]Value(nil), src.Elems...)
		sortValuesBy(out, func(v Value) Value { return resolvePath(v, path) }, desc)
		return Arr(out)
	})

	// GroupBy(arr, path) — object keyed by the stringified field; a missing
	// field groups under "" and an explicit null under "null".
	register("GroupBy", func(_ *interp, args []Value, line int) Value {
		expectArgs("GroupBy", args, line, 2, 2)
		src := arrArg("GroupBy", args, 0, line)
		path := strArg("GroupBy", args, 1, line)
		groups := NewMapObject()
		for _, e := range src.Elems {
			key := groupKey(e, path)
			bucket, ok := groups.Get(key)
			if !ok {
				bucket = Arr(nil)
				groups.Set(key, bucket)
			}
			box := bucket.Data.(*ArrayObject)
			box.Elems = append(box.Elems, e)
		}
		return Obj(groups)
	})

	// Merge([a, b, ...]) or Merge(a, b, ...) — shallow, left to right;
	// later objects win on key collisions (whole nested values replaced,
	// never merged recursively), key order follows first appearance.
	register("Merge", func(_ *interp, args []Value, line int) Value {
		expectArgs("Merge", args, line, 1, -1)
		srcs := args
		if len(args) == 1 {
			srcs = arrArg("Merge", args, 0, line).Elems
		}
		out := NewMapObject()
		for i, s := range srcs {
			if s.Tag != VTObj {
				failAt(DiagTypeMismatch, line, "Merge: element %d must be an object, got %s", i+1, s.Tag.TypeName())
			}
			src := s.Data.(*MapObject)
			for _, k := range src.Keys {
				v, _ := src.Get(k)
				out.Set(k, v)
			}
		}
		return Obj(out)
	})
}

func groupKey(e Value, path string) string {
	v := resolvePath(e, path)
	switch v.Tag {
	case VTNull:
		if hasPath(e, path) {
			return "null"
		}
		return ""
	default:
		return Stringify(v)
	}
}

// resolvePath walks a dot path through nested objects; any miss yields null.
func resolvePath(v Value, path string) Value {
	cur := v
	for _, seg := range splitPath(path) {
		if cur.Tag != VTObj {
			return Null
		}
		next, ok := cur.Data.(*MapObject).Get(seg)
		if !ok {
			return Null
		}
		cur = next
	}
	return cur
}

// hasPath reports whether every segment of the path exists, even if the
// final value is null.
func hasPath(v Value, path string) bool {
	cur := v
	for _, seg := range splitPath(path) {
		if cur.Tag != VTObj {
			return false
		}
		next, ok := cur.Data.(*MapObject).Get(seg)
		if !ok {
			return false
		}
		cur = next
	}
	return true
}

func splitPath(path string) []string {
	var segs []string
	start := 0
	for i := 0; i < len(path); i++ {
		if path[i] == '.' {
			segs = append(segs, path[start:i])
			start = i + 1
		}
	}
	return append(segs, path[start:])
}
