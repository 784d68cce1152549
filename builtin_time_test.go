package jyro

import (
	"testing"
	"time"
)

func Test_Builtin_Now_Today_Shapes(t *testing.T) {
	res := mustRun(t, `
Data.now = Now()
Data.today = Today()
`, "")
	now := field(t, res, "now")
	if now.Tag != VTStr {
		t.Fatalf("Now did not return a string: %#v", now)
	}
	if _, err := time.Parse(time.RFC3339, now.Data.(string)); err != nil {
		t.Fatalf("Now not RFC 3339: %q (%v)", now.Data, err)
	}
	today := field(t, res, "today")
	if _, err := time.Parse("2006-01-02", today.Data.(string)); err != nil {
		t.Fatalf("Today not yyyy-mm-dd: %q (%v)", today.Data, err)
	}
}

func Test_Builtin_ParseDate_FormatDate(t *testing.T) {
	res := mustRun(t, `
Data.norm = ParseDate("2024-03-05")
Data.custom = ParseDate("05/03/2024", "02/01/2006")
Data.bad = ParseDate("not a date")
Data.fmt = FormatDate("2024-03-05T10:20:30Z", "2006-01-02 15:04")
`, "")
	wantStr(t, field(t, res, "norm"), "2024-03-05T00:00:00Z")
	wantStr(t, field(t, res, "custom"), "2024-03-05T00:00:00Z")
	wantNull(t, field(t, res, "bad"))
	wantStr(t, field(t, res, "fmt"), "2024-03-05 10:20")
}

func Test_Builtin_AddDays(t *testing.T) {
	res := mustRun(t, `
Data.plain = AddDays("2024-02-27", 3)
Data.stamp = AddDays("2024-02-27T12:00:00Z", 3)
Data.back = AddDays("2024-01-01", -1)
`, "")
	wantStr(t, field(t, res, "plain"), "2024-03-01")
	wantStr(t, field(t, res, "stamp"), "2024-03-01T12:00:00Z")
	wantStr(t, field(t, res, "back"), "2023-12-31")
}

func Test_Builtin_DateDiff(t *testing.T) {
	res := mustRun(t, `
Data.fwd = DateDiff("2024-01-01", "2024-01-11")
Data.back = DateDiff("2024-01-11", "2024-01-01")
Data.partial = DateDiff("2024-01-01T00:00:00Z", "2024-01-02T12:00:00Z")
`, "")
	wantNum(t, field(t, res, "fwd"), 10)
	wantNum(t, field(t, res, "back"), -10)
	wantNum(t, field(t, res, "partial"), 1)
}

func Test_Builtin_DatePart(t *testing.T) {
	res := mustRun(t, `
Data.y = DatePart("2024-03-05T10:20:30Z", "year")
Data.m = DatePart("2024-03-05T10:20:30Z", "month")
Data.d = DatePart("2024-03-05T10:20:30Z", "day")
Data.h = DatePart("2024-03-05T10:20:30Z", "hour")
Data.wd = DatePart("2024-03-05", "weekday")
`, "")
	wantNum(t, field(t, res, "y"), 2024)
	wantNum(t, field(t, res, "m"), 3)
	wantNum(t, field(t, res, "d"), 5)
	wantNum(t, field(t, res, "h"), 10)
	// 2024-03-05 is a Tuesday.
	wantNum(t, field(t, res, "wd"), 2)
}

func Test_Builtin_DatePart_Unknown_Fails(t *testing.T) {
	mustFail(t, `Data.x = DatePart("2024-01-01", "fortnight")`, "", DiagTypeMismatch)
}

func Test_Builtin_Time_BadTimestamp_Fails(t *testing.T) {
	mustFail(t, `Data.x = DateDiff("junk", "2024-01-01")`, "", DiagTypeMismatch)
}
