// errors.go — diagnostic taxonomy and caret-snippet rendering.
//
// Every failure the engine can surface carries a machine-distinguishable
// DiagKind and a 1-based source line. Lex and parse failures are Go errors
// returned by Parse; runtime failures travel internally as panic signals
// (see evaluator.go) and surface as Result fields.
//
// WrapErrorWithSource turns lex/parse/runtime errors into readable,
// Python-style snippets with a caret under the offending column:
//
//	PARSE ERROR at 3:12: expected 'then' after if condition
//
//	   2 | var x = 1
//	   3 | if x == 1
//	       |          ^
//	   4 | end
//
// Other error kinds pass through unchanged.
package jyro

import (
	"fmt"
	"strings"
)

// DiagKind classifies every way a script can fail (or finish).
type DiagKind int

const (
	DiagNone            DiagKind = iota // clean completion / return
	DiagParse                           // malformed source; script never ran
	DiagTypeMismatch                    // operand/coercion kind violation
	DiagDivideByZero                    // / or % with zero divisor
	DiagInvalidStep                     // non-positive for-loop step
	DiagNotIterable                     // foreach over a non-iterable kind
	DiagMutationDuringIteration         // iterated container reassigned mid-loop
	DiagNullAssignment                  // write through a null base
	DiagUndefinedField                  // out-of-range index write
	DiagResourceLimit                   // governor ceiling exceeded
	DiagUserFail                        // explicit fail statement
)

// String names the kind for diagnostics and logs.
func (k DiagKind) String() string {
	switch k {
	case DiagNone:
		return "None"
	case DiagParse:
		return "ParseError"
	case DiagTypeMismatch:
		return "TypeMismatch"
	case DiagDivideByZero:
		return "DivideByZero"
	case DiagInvalidStep:
		return "InvalidStep"
	case DiagNotIterable:
		return "NotIterable"
	case DiagMutationDuringIteration:
		return "MutationDuringIteration"
	case DiagNullAssignment:
		return "NullTargetAssignment"
	case DiagUndefinedField:
		return "UndefinedField"
	case DiagResourceLimit:
		return "ResourceLimitExceeded"
	case DiagUserFail:
		return "UserFail"
	default:
		return "Unknown"
	}
}

// LexError is a tokenization failure. Col is 0-based.
type LexError struct {
	Line int
	Col  int
	Msg  string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("LEXICAL ERROR at %d:%d: %s", e.Line, e.Col+1, e.Msg)
}

// ParseError is a grammar failure. Col is 0-based.
type ParseError struct {
	Line int
	Col  int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("PARSE ERROR at %d:%d: %s", e.Line, e.Col+1, e.Msg)
}

// RuntimeError is an execution-time failure with its diagnostic kind.
// Line is 1-based.
type RuntimeError struct {
	Kind DiagKind
	Line int
	Msg  string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("RUNTIME ERROR (%s) at line %d: %s", e.Kind, e.Line, e.Msg)
}

// WrapErrorWithSource returns an error augmented with a caret-annotated
// snippet of the provided source. It recognizes lexer/parser/runtime errors
// and leaves other errors untouched.
func WrapErrorWithSource(err error, src string) error {
	switch e := err.(type) {
	case *LexError:
		return fmt.Errorf("%s", prettyErrorString(src, "LEXICAL ERROR", e.Line, e.Col+1, e.Msg))
	case *ParseError:
		return fmt.Errorf("%s", prettyErrorString(src, "PARSE ERROR", e.Line, e.Col+1, e.Msg))
	case *RuntimeError:
		header := fmt.Sprintf("RUNTIME ERROR (%s)", e.Kind)
		return fmt.Errorf("%s", prettyErrorString(src, header, e.Line, 1, e.Msg))
	default:
		return err
	}
}

// prettyErrorString builds a snippet with a header and a caret. It shows at
// most one previous and one next line. Coordinates are 1-based and clamped
// to the source bounds so out-of-range positions render safely.
func prettyErrorString(src, header string, line, col int, msg string) string {
	lines := strings.Split(src, "\n")
	if line < 1 {
		line = 1
	}
	if col < 1 {
		col = 1
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	if line > len(lines) {
		line = len(lines)
	}
	lineTxt := lines[line-1]

	var b strings.Builder
	fmt.Fprintf(&b, "%s at %d:%d: %s\n\n", header, line, col, msg)
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lineTxt)
	fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", col-1))
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}
	return b.String()
}
