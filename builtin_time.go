// builtin_time.go — date and time category. Timestamps travel through the
// engine as RFC 3339 strings in UTC; date-only values use yyyy-mm-dd. Parsing
// accepts both forms.
package jyro

import (
	"math"
	"strings"
	"time"
)

const dateOnly = "2006-01-02"

func registerTimeBuiltins() {
	register("Now", func(_ *interp, args []Value, line int) Value {
		expectArgs("Now", args, line, 0, 0)
		return Str(time.Now().UTC().Format(time.RFC3339))
	})

	register("Today", func(_ *interp, args []Value, line int) Value {
		expectArgs("Today", args, line, 0, 0)
		return Str(time.Now().UTC().Format(dateOnly))
	})

	// FormatDate(ts, layout) using Go reference-time layouts.
	register("FormatDate", func(_ *interp, args []Value, line int) Value {
		expectArgs("FormatDate", args, line, 2, 2)
		t := timeArg("FormatDate", args, 0, line)
		return Str(t.Format(strArg("FormatDate", args, 1, line)))
	})

	// ParseDate(s, layout?) normalizes to RFC 3339; null when unparseable.
	register("ParseDate", func(_ *interp, args []Value, line int) Value {
		expectArgs("ParseDate", args, line, 1, 2)
		s := strArg("ParseDate", args, 0, line)
		if len(args) == 2 {
			t, err := time.Parse(strArg("ParseDate", args, 1, line), s)
			if err != nil {
				return Null
			}
			return Str(t.UTC().Format(time.RFC3339))
		}
		t, ok := parseTimestamp(s)
		if !ok {
			return Null
		}
		return Str(t.Format(time.RFC3339))
	})

	register("AddDays", func(_ *interp, args []Value, line int) Value {
		expectArgs("AddDays", args, line, 2, 2)
		s := strArg("AddDays", args, 0, line)
		days := intArg("AddDays", args, 1, line)
		t := timeArg("AddDays", args, 0, line)
		t = t.AddDate(0, 0, days)
		if len(s) == len(dateOnly) && !strings.ContainsAny(s, "T ") {
			return Str(t.Format(dateOnly))
		}
		return Str(t.Format(time.RFC3339))
	})

	// DateDiff(a, b) in whole days, truncated toward zero, positive when b
	// is after a.
	register("DateDiff", func(_ *interp, args []Value, line int) Value {
		expectArgs("DateDiff", args, line, 2, 2)
		a := timeArg("DateDiff", args, 0, line)
		b := timeArg("DateDiff", args, 1, line)
		return Num(math.Trunc(b.Sub(a).Hours() / 24))
	})

	register("DatePart", func(_ *interp, args []Value, line int) Value {
		expectArgs("DatePart", args, line, 2, 2)
		t := timeArg("DatePart", args, 0, line)
		part := strArg("DatePart", args, 1, line)
		switch strings.ToLower(part) {
		case "year":
			return Num(float64(t.Year()))
		case "month":
			return Num(float64(t.Month()))
		case "day":
			return Num(float64(t.Day()))
		case "hour":
			return Num(float64(t.Hour()))
		case "minute":
			return Num(float64(t.Minute()))
		case "second":
			return Num(float64(t.Second()))
		case "weekday":
			return Num(float64(t.Weekday()))
		case "dayofyear":
			return Num(float64(t.YearDay()))
		}
		failAt(DiagTypeMismatch, line, "DatePart: unknown part %q", part)
		return Null
	})
}

func timeArg(fname string, args []Value, i, line int) time.Time {
	s := strArg(fname, args, i, line)
	t, ok := parseTimestamp(s)
	if !ok {
		failAt(DiagTypeMismatch, line, "%s: argument %d is not a valid timestamp: %q", fname, i+1, s)
	}
	return t
}

func parseTimestamp(s string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339, dateOnly, "2006-01-02 15:04:05", "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
