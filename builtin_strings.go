// builtin_strings.go — string category of the standard library.
//
// Indices are rune-based and clamped; regex support uses Go's regexp
// (RE2). Because the lexer rejects undocumented escapes, patterns must use
// character classes ([0-9], [[:space:]]) instead of \d / \s shorthand
// written with a single backslash.
package jyro

import (
	"regexp"
	"strings"
)

func registerStringBuiltins() {
	register("Upper", func(_ *interp, args []Value, line int) Value {
		expectArgs("Upper", args, line, 1, 1)
		return Str(strings.ToUpper(strArg("Upper", args, 0, line)))
	})

	register("Lower", func(_ *interp, args []Value, line int) Value {
		expectArgs("Lower", args, line, 1, 1)
		return Str(strings.ToLower(strArg("Lower", args, 0, line)))
	})

	register("Trim", func(_ *interp, args []Value, line int) Value {
		expectArgs("Trim", args, line, 1, 1)
		return Str(strings.TrimSpace(strArg("Trim", args, 0, line)))
	})

	register("TrimStart", func(_ *interp, args []Value, line int) Value {
		expectArgs("TrimStart", args, line, 1, 1)
		return Str(strings.TrimLeft(strArg("TrimStart", args, 0, line), " \t\r\n"))
	})

	register("TrimEnd", func(_ *interp, args []Value, line int) Value {
		expectArgs("TrimEnd", args, line, 1, 1)
		return Str(strings.TrimRight(strArg("TrimEnd", args, 0, line), " \t\r\n"))
	})

	// Split(s, sep). An empty separator splits into runes.
	register("Split", func(_ *interp, args []Value, line int) Value {
		expectArgs("Split", args, line, 2, 2)
		s := strArg("Split", args, 0, line)
		sep := strArg("Split", args, 1, line)
		var parts []string
		if sep == "" {
			for _, r := range s {
				parts = append(parts, string(r))
			}
		} else {
			parts = strings.Split(s, sep)
		}
		out := make([]Value, len(parts))
		for i, p := range parts {
			out[i] = Str(p)
		}
		return Arr(out)
	})

	// Join(arr, sep) stringifies scalar elements; containers in the array
	// are a TypeMismatch.
	register("Join", func(_ *interp, args []Value, line int) Value {
		expectArgs("Join", args, line, 2, 2)
		src := arrArg("Join", args, 0, line)
		sep := strArg("Join", args, 1, line)
		parts := make([]string, len(src.Elems))
		for i, e := range src.Elems {
			switch e.Tag {
			case VTStr, VTNum, VTBool, VTNull:
				parts[i] = Stringify(e)
			default:
				failAt(DiagTypeMismatch, line, "Join: cannot join a %s element", e.Tag.TypeName())
			}
		}
		return Str(strings.Join(parts, sep))
	})

	register("Replace", func(_ *interp, args []Value, line int) Value {
		expectArgs("Replace", args, line, 3, 3)
		s := strArg("Replace", args, 0, line)
		old := strArg("Replace", args, 1, line)
		new_ := strArg("Replace", args, 2, line)
		return Str(strings.ReplaceAll(s, old, new_))
	})

	register("StartsWith", func(_ *interp, args []Value, line int) Value {
		expectArgs("StartsWith", args, line, 2, 2)
		return Bool(strings.HasPrefix(strArg("StartsWith", args, 0, line), strArg("StartsWith", args, 1, line)))
	})

	register("EndsWith", func(_ *interp, args []Value, line int) Value {
		expectArgs("EndsWith", args, line, 2, 2)
		return Bool(strings.HasSuffix(strArg("EndsWith", args, 0, line), strArg("EndsWith", args, 1, line)))
	})

	// Substring(s, start, length?) by rune index, clamped to bounds.
	register("Substring", func(_ *interp, args []Value, line int) Value {
		expectArgs("Substring", args, line, 2, 3)
		r := []rune(strArg("Substring", args, 0, line))
		start := intArg("Substring", args, 1, line)
		if start < 0 {
			start = 0
		}
		if start > len(r) {
			start = len(r)
		}
		end := len(r)
		if len(args) == 3 {
			n := intArg("Substring", args, 2, line)
			if n < 0 {
				n = 0
			}
			if start+n < end {
				end = start + n
			}
		}
		return Str(string(r[start:end]))
	})

	register("PadLeft", func(_ *interp, args []Value, line int) Value {
		expectArgs("PadLeft", args, line, 2, 3)
		return Str(pad("PadLeft", args, line, true))
	})

	register("PadRight", func(_ *interp, args []Value, line int) Value {
		expectArgs("PadRight", args, line, 2, 3)
		return Str(pad("PadRight", args, line, false))
	})

	register("Repeat", func(_ *interp, args []Value, line int) Value {
		expectArgs("Repeat", args, line, 2, 2)
		s := strArg("Repeat", args, 0, line)
		n := intArg("Repeat", args, 1, line)
		if n < 0 {
			n = 0
		}
		return Str(strings.Repeat(s, n))
	})

	register("IsMatch", func(_ *interp, args []Value, line int) Value {
		expectArgs("IsMatch", args, line, 2, 2)
		re := compilePattern("IsMatch", args, line)
		return Bool(re.MatchString(strArg("IsMatch", args, 0, line)))
	})

	// Matches(s, pattern) returns every match in order.
	register("Matches", func(_ *interp, args []Value, line int) Value {
		expectArgs("Matches", args, line, 2, 2)
		re := compilePattern("Matches", args, line)
		ms := re.FindAllString(strArg("Matches", args, 0, line), -1)
		out := make([]Value, len(ms))
		for i, m := range ms {
			out[i] = Str(m)
		}
		return Arr(out)
	})

	register("RegexReplace", func(_ *interp, args []Value, line int) Value {
		expectArgs("RegexReplace", args, line, 3, 3)
		re := compilePattern("RegexReplace", args, line)
		s := strArg("RegexReplace", args, 0, line)
		repl := strArg("RegexReplace", args, 2, line)
		return Str(re.ReplaceAllString(s, repl))
	})
}

func pad(fname string, args []Value, line int, left bool) string {
	s := strArg(fname, args, 0, line)
	width := intArg(fname, args, 1, line)
	fill := " "
	if len(args) == 3 {
		fill = strArg(fname, args, 2, line)
		if fill == "" {
			fill = " "
		}
	}
	r := []rune(s)
	fr := []rune(fill)
	var b strings.Builder
	need := width - len(r)
	for i := 0; i < need; i++ {
		b.WriteRune(fr[i%len(fr)])
	}
	if left {
		return b.String() + s
	}
	return s + b.String()
}

func compilePattern(fname string, args []Value, line int) *regexp.Regexp {
	pat := strArg(fname, args, 1, line)
	re, err := regexp.Compile(pat)
	if err != nil {
		failAt(DiagTypeMismatch, line, "%s: invalid pattern: %v", fname, err)
	}
	return re
}
