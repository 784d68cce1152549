// execute.go — the host-facing API surface.
//
// Hosts parse once and run many times (Parse + Program.Run), or use the
// Execute convenience wrapper. Every run owns an independent Value graph,
// scope chain and governor, so hosts may run arbitrarily many invocations
// concurrently as long as they do not share a Data value between them.
//
// On every exit path — normal completion, return, fail, runtime error or
// resource exhaustion — the Data context with all mutations applied so far
// is handed back. Only a parse error suppresses mutation, because execution
// never begins.
package jyro

// Outcome is the binary success/failure verdict of a run.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeFailure
)

func (o Outcome) String() string {
	if o == OutcomeSuccess {
		return "Success"
	}
	return "Failure"
}

// Result is what every run hands back to the host.
//
//   - Outcome — Success for completion/return, Failure otherwise.
//   - Message — the return/fail message, or the diagnostic text.
//   - Kind    — machine-distinguishable diagnostic kind (DiagNone on a
//     clean success).
//   - Line    — 1-based source line of the failure (0 when not applicable).
//   - Data    — the Data context, mutated up to the exit point.
type Result struct {
	Outcome Outcome
	Message string
	Kind    DiagKind
	Line    int
	Data    Value
}

// Program is a parsed, reusable script. A Program is immutable after Parse
// and safe to Run from multiple goroutines concurrently.
type Program struct {
	stmts  []Stmt
	source string
}

// Parse compiles source text into a reusable Program. The returned error is
// a *LexError or *ParseError; wrap it with WrapErrorWithSource for a
// caret-annotated snippet.
func Parse(src string) (*Program, error) {
	stmts, err := parseProgram(src)
	if err != nil {
		return nil, err
	}
	return &Program{stmts: stmts, source: src}, nil
}

// Source returns the original source text the Program was parsed from.
func (p *Program) Source() string { return p.source }

// Run executes the program against data under the given limits. data must
// be an object; it is mutated in place and returned in the Result.
func (p *Program) Run(data Value, limits Limits) (res Result) {
	if data.Tag != VTObj {
		return Result{
			Outcome: OutcomeFailure,
			Kind:    DiagTypeMismatch,
			Message: "initial data must be an object, got " + data.Tag.TypeName(),
			Data:    data,
		}
	}

	ip := &interp{gov: newGovernor(limits), data: data}
	root := NewEnv(nil)

	defer func() {
		if r := recover(); r != nil {
			switch sig := r.(type) {
			case haltReturn:
				res = Result{Outcome: OutcomeSuccess, Message: sig.msg, Data: data}
			case rtErr:
				res = Result{
					Outcome: OutcomeFailure,
					Kind:    sig.kind,
					Message: sig.msg,
					Line:    sig.line,
					Data:    data,
				}
			default:
				panic(r)
			}
		}
	}()

	for _, s := range p.stmts {
		ip.execStmt(s, root)
	}
	return Result{Outcome: OutcomeSuccess, Data: data}
}

// Execute parses and runs source against data in one step. A parse failure
// yields a Failure result with DiagParse, the rendered caret snippet as the
// message, and data untouched.
func Execute(src string, data Value, limits Limits) Result {
	prog, err := Parse(src)
	if err != nil {
		line := 0
		switch e := err.(type) {
		case *LexError:
			line = e.Line
		case *ParseError:
			line = e.Line
		}
		return Result{
			Outcome: OutcomeFailure,
			Kind:    DiagParse,
			Message: WrapErrorWithSource(err, src).Error(),
			Line:    line,
			Data:    data,
		}
	}
	return prog.Run(data, limits)
}
