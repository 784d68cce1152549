// evaluator.go — tree-walking interpreter for Jyro programs.
//
// Executes the statement list against a root scope and the Data context,
// consulting the Governor at every checkpoint. Control transfer uses two
// panic signals caught at the single boundary in execute.go:
//
//   - rtErr       — runtime failures (TypeMismatch, DivideByZero, ...), the
//     governor's ResourceLimitExceeded, and explicit fail (DiagUserFail).
//   - haltReturn  — explicit return; Success outcome.
//
// Neither signal is interceptable from script code (the language has no
// try/catch), so both unconditionally unwind the remaining program.
// break/continue are ordinary control results threaded back through the
// statement walk; they never cross a loop boundary.
package jyro

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// rtErr is the non-resumable runtime failure signal.
type rtErr struct {
	kind DiagKind
	line int
	msg  string
}

// haltReturn is the non-resumable success signal raised by return.
type haltReturn struct {
	msg    string
	hasMsg bool
}

func failAt(kind DiagKind, line int, format string, args ...any) {
	panic(rtErr{kind: kind, line: line, msg: fmt.Sprintf(format, args...)})
}

// ctrl is the statement-walk control result.
type ctrl int

const (
	ctrlNone ctrl = iota
	ctrlBreak
	ctrlContinue
)

// interp is one invocation's evaluator state: the Data box, the governor
// and nothing else. Invocations never share state.
type interp struct {
	gov  *Governor
	data Value
}

////////////////////////////////////////////////////////////////////////////////
//                                 STATEMENTS
////////////////////////////////////////////////////////////////////////////////

func (ip *interp) execBlock(stmts []Stmt, env *Env) ctrl {
	for _, s := range stmts {
		if c := ip.execStmt(s, env); c != ctrlNone {
			return c
		}
	}
	return ctrlNone
}

func (ip *interp) execStmt(s Stmt, env *Env) ctrl {
	ip.gov.checkStatement(s.Pos())
	ip.gov.enter(s.Pos())
	defer ip.gov.leave()

	switch st := s.(type) {
	case *VarDeclStmt:
		if env.definedHere(st.Name) {
			failAt(DiagTypeMismatch, st.Line, "variable %q already declared in this block", st.Name)
		}
		v := ip.coerce(ip.eval(st.Init, env), st.Hint, st.Line)
		env.Define(st.Name, v, st.Hint)

	case *AssignStmt:
		loc := ip.resolveTarget(st.Target, env)
		if st.Op == "=" {
			loc.write(ip.eval(st.Value, env))
			break
		}
		old := loc.read()
		loc.write(ip.binaryOp(st.Op[:1], old, ip.eval(st.Value, env), st.Line))

	case *IfStmt:
		for _, cl := range st.Clauses {
			if Truthy(ip.eval(cl.Cond, env)) {
				return ip.execBlock(cl.Body, NewEnv(env))
			}
		}
		if st.HasElse {
			return ip.execBlock(st.Else, NewEnv(env))
		}

	case *WhileStmt:
		for {
			ip.gov.checkIteration(st.Line)
			if !Truthy(ip.eval(st.Cond, env)) {
				break
			}
			switch ip.execBlock(st.Body, NewEnv(env)) {
			case ctrlBreak:
				return ctrlNone
			case ctrlContinue:
				continue
			}
		}

	case *ForStmt:
		return ip.execFor(st, env)

	case *ForeachStmt:
		return ip.execForeach(st, env)

	case *SwitchStmt:
		subj := ip.eval(st.Subject, env)
		for _, cs := range st.Cases {
			for _, cand := range cs.Values {
				if DeepEqual(subj, ip.eval(cand, env)) {
					return ip.execBlock(cs.Body, NewEnv(env))
				}
			}
		}
		if st.HasDefault {
			return ip.execBlock(st.Default, NewEnv(env))
		}

	case *BreakStmt:
		return ctrlBreak

	case *ContinueStmt:
		return ctrlContinue

	case *ReturnStmt:
		if st.Msg != nil {
			panic(haltReturn{msg: ip.messageString(st.Msg, env, st.Line), hasMsg: true})
		}
		panic(haltReturn{})

	case *FailStmt:
		msg := ""
		if st.Msg != nil {
			msg = ip.messageString(st.Msg, env, st.Line)
		}
		panic(rtErr{kind: DiagUserFail, line: st.Line, msg: msg})

	case *ExprStmt:
		ip.eval(st.X, env)
	}
	return ctrlNone
}

// messageString evaluates a return/fail message, which must be a string.
func (ip *interp) messageString(e Expr, env *Env, line int) string {
	v := ip.eval(e, env)
	if v.Tag != VTStr {
		failAt(DiagTypeMismatch, line, "return/fail message must be a string, got %s", v.Tag.TypeName())
	}
	return v.Data.(string)
}

// execFor runs a counted loop. Bounds and step are evaluated exactly once;
// the upper bound ('to') and lower bound ('downto') are exclusive; the loop
// variable is scoped to each iteration's body frame and the internal
// counter is unaffected by body writes to it.
func (ip *interp) execFor(st *ForStmt, env *Env) ctrl {
	start := ip.evalNumber(st.Start, env, "for loop start")
	end := ip.evalNumber(st.End, env, "for loop end")
	step := 1.0
	if st.Step != nil {
		sv := ip.eval(st.Step, env)
		if sv.Tag != VTNum {
			failAt(DiagInvalidStep, st.Step.Pos(), "for loop step must be a number, got %s", sv.Tag.TypeName())
		}
		step = sv.Data.(float64)
	}
	if step <= 0 {
		failAt(DiagInvalidStep, st.Line, "for loop step must be strictly positive, got %s", formatNumber(step))
	}
	for i := start; ; {
		if st.Descending {
			if i <= end {
				break
			}
		} else if i >= end {
			break
		}
		ip.gov.checkIteration(st.Line)
		frame := NewEnv(env)
		frame.Define(st.Var, Num(i), HintNone)
		switch ip.execBlock(st.Body, frame) {
		case ctrlBreak:
			return ctrlNone
		}
		if st.Descending {
			i -= step
		} else {
			i += step
		}
	}
	return ctrlNone
}

func (ip *interp) evalNumber(e Expr, env *Env, what string) float64 {
	v := ip.eval(e, env)
	if v.Tag != VTNum {
		failAt(DiagTypeMismatch, e.Pos(), "%s must be a number, got %s", what, v.Tag.TypeName())
	}
	return v.Data.(float64)
}

// execForeach iterates arrays in order, strings rune-wise (one-rune
// strings) and object values in insertion order. For container operands
// reached through a stable reference (identifier/property/index chains),
// the container's box identity is snapshotted at entry and the reference is
// re-resolved before every step; structural reassignment mid-loop is a
// MutationDuringIteration failure. Temporaries (call results, literals)
// cannot be reassigned from script code, so they skip the recheck.
func (ip *interp) execForeach(st *ForeachStmt, env *Env) ctrl {
	iter := ip.eval(st.Iterable, env)
	stable := isStableRef(st.Iterable)

	step := func(v Value) (ctrl, bool) {
		ip.gov.checkIteration(st.Line)
		frame := NewEnv(env)
		frame.Define(st.Var, v, HintNone)
		switch ip.execBlock(st.Body, frame) {
		case ctrlBreak:
			return ctrlNone, false
		}
		return ctrlNone, true
	}

	recheck := func(want any) {
		if !stable {
			return
		}
		cur := ip.eval(st.Iterable, env)
		if cur.Data != want {
			failAt(DiagMutationDuringIteration, st.Line,
				"container being iterated was reassigned during iteration")
		}
	}

	switch iter.Tag {
	case VTArray:
		box := iter.Data.(*ArrayObject)
		for i := 0; i < len(box.Elems); i++ {
			recheck(box)
			if c, cont := step(box.Elems[i]); !cont {
				return c
			}
		}
	case VTStr:
		for _, r := range iter.Data.(string) {
			if c, cont := step(Str(string(r))); !cont {
				return c
			}
		}
	case VTObj:
		box := iter.Data.(*MapObject)
		keys := append([]string(nil), box.Keys...)
		for _, k := range keys {
			recheck(box)
			v, ok := box.Get(k)
			if !ok {
				continue
			}
			if c, cont := step(v); !cont {
				return c
			}
		}
	default:
		failAt(DiagNotIterable, st.Line, "cannot iterate a %s", iter.Tag.TypeName())
	}
	return ctrlNone
}

// isStableRef reports whether re-evaluating e is a pure re-resolution of
// the same storage location (no fresh containers, no side effects).
func isStableRef(e Expr) bool {
	switch t := e.(type) {
	case *DataExpr, *IdentExpr:
		return true
	case *PropExpr:
		return isStableRef(t.X)
	case *IndexExpr:
		return isStableRef(t.X) && isPureIndex(t.Index)
	default:
		return false
	}
}

func isPureIndex(e Expr) bool {
	switch e.(type) {
	case *NumLit, *StrLit:
		return true
	case *IdentExpr:
		return true
	default:
		return false
	}
}

////////////////////////////////////////////////////////////////////////////////
//                                 ASSIGNMENT
////////////////////////////////////////////////////////////////////////////////

// location is a resolved assignment target. The target's base and index
// subexpressions are evaluated exactly once at resolution time, so
// read-modify-write forms (compound assignment, ++/--) observe any side
// effects in the target a single time and read the same slot they write.
type location struct {
	read  func() Value
	write func(Value)
}

// resolveTarget evaluates an assignable target's subexpressions and returns
// its location. Reads through the location are lenient, writes are strict:
// writing through null is NullTargetAssignment, a property write on a
// non-object or an element write on a non-array is TypeMismatch, and an
// out-of-range index write is UndefinedField.
func (ip *interp) resolveTarget(target Expr, env *Env) location {
	switch t := target.(type) {
	case *IdentExpr:
		b := env.lookup(t.Name)
		if b == nil {
			failAt(DiagTypeMismatch, t.Line, "undefined variable: %s", t.Name)
		}
		return location{
			read:  func() Value { return b.val },
			write: func(v Value) { b.val = ip.coerce(v, b.hint, t.Line) },
		}

	case *PropExpr:
		base := ip.eval(t.X, env)
		return location{
			read: func() Value { return readProp(base, t.Name) },
			write: func(v Value) {
				switch base.Tag {
				case VTNull:
					failAt(DiagNullAssignment, t.Line, "cannot assign property %q through null", t.Name)
				case VTObj:
					base.Data.(*MapObject).Set(t.Name, v)
				default:
					failAt(DiagTypeMismatch, t.Line, "cannot assign property %q on a %s", t.Name, base.Tag.TypeName())
				}
			},
		}

	case *IndexExpr:
		base := ip.eval(t.X, env)
		idx := ip.eval(t.Index, env)
		return location{
			read: func() Value { return ip.readIndex(base, idx, t.Line) },
			write: func(v Value) {
				switch base.Tag {
				case VTNull:
					failAt(DiagNullAssignment, t.Line, "cannot assign element through null")
				case VTArray:
					box := base.Data.(*ArrayObject)
					i := ip.intIndex(idx, t.Line)
					if i < 0 || i >= len(box.Elems) {
						failAt(DiagUndefinedField, t.Line, "array index %d out of range (length %d)", i, len(box.Elems))
					}
					box.Elems[i] = v
				case VTObj:
					if idx.Tag != VTStr {
						failAt(DiagTypeMismatch, t.Line, "object index must be a string, got %s", idx.Tag.TypeName())
					}
					base.Data.(*MapObject).Set(idx.Data.(string), v)
				default:
					failAt(DiagTypeMismatch, t.Line, "cannot assign element on a %s", base.Tag.TypeName())
				}
			},
		}

	default:
		failAt(DiagTypeMismatch, target.Pos(), "invalid assignment target")
		return location{}
	}
}

func (ip *interp) intIndex(idx Value, line int) int {
	if idx.Tag != VTNum {
		failAt(DiagTypeMismatch, line, "array index must be a number, got %s", idx.Tag.TypeName())
	}
	f := idx.Data.(float64)
	if f != math.Trunc(f) {
		failAt(DiagTypeMismatch, line, "array index must be an integer, got %s", formatNumber(f))
	}
	return int(f)
}

// coerce applies the fixed per-declared-type conversion table on assignment
// to a type-hinted variable. Untyped variables accept any kind unchanged.
func (ip *interp) coerce(v Value, hint TypeHint, line int) Value {
	switch hint {
	case HintNone:
		return v

	case HintNumber:
		switch v.Tag {
		case VTNum:
			return v
		case VTStr:
			s := strings.TrimSpace(v.Data.(string))
			f, err := strconv.ParseFloat(s, 64)
			if err != nil {
				failAt(DiagTypeMismatch, line, "cannot convert %q to number", v.Data.(string))
			}
			return Num(f)
		case VTBool:
			if v.Data.(bool) {
				return Num(1)
			}
			return Num(0)
		}
		failAt(DiagTypeMismatch, line, "cannot assign %s to a number variable", v.Tag.TypeName())

	case HintString:
		switch v.Tag {
		case VTStr:
			return v
		case VTNum:
			return Str(formatNumber(v.Data.(float64)))
		case VTBool:
			return Str(strconv.FormatBool(v.Data.(bool)))
		}
		failAt(DiagTypeMismatch, line, "cannot assign %s to a string variable", v.Tag.TypeName())

	case HintBoolean:
		switch v.Tag {
		case VTBool:
			return v
		case VTNum:
			return Bool(v.Data.(float64) != 0)
		case VTStr:
			switch strings.ToLower(v.Data.(string)) {
			case "true":
				return Bool(true)
			case "false":
				return Bool(false)
			}
			failAt(DiagTypeMismatch, line, "cannot convert %q to boolean", v.Data.(string))
		}
		failAt(DiagTypeMismatch, line, "cannot assign %s to a boolean variable", v.Tag.TypeName())

	case HintArray:
		if v.Tag != VTArray {
			failAt(DiagTypeMismatch, line, "cannot assign %s to an array variable", v.Tag.TypeName())
		}
		return v

	case HintObject:
		if v.Tag != VTObj {
			failAt(DiagTypeMismatch, line, "cannot assign %s to an object variable", v.Tag.TypeName())
		}
		return v
	}
	return v
}

////////////////////////////////////////////////////////////////////////////////
//                                 EXPRESSIONS
////////////////////////////////////////////////////////////////////////////////

func (ip *interp) eval(e Expr, env *Env) Value {
	ip.gov.enter(e.Pos())
	defer ip.gov.leave()

	switch x := e.(type) {
	case *NullLit:
		return Null
	case *BoolLit:
		return Bool(x.Val)
	case *NumLit:
		return Num(x.Val)
	case *StrLit:
		return Str(x.Val)

	case *ArrayLit:
		elems := make([]Value, len(x.Elems))
		for i, el := range x.Elems {
			elems[i] = ip.eval(el, env)
		}
		return Arr(elems)

	case *ObjectLit:
		mo := NewMapObject()
		for i, k := range x.Keys {
			mo.Set(k, ip.eval(x.Vals[i], env))
		}
		return Obj(mo)

	case *DataExpr:
		return ip.data

	case *IdentExpr:
		v, ok := env.Get(x.Name)
		if !ok {
			failAt(DiagTypeMismatch, x.Line, "undefined variable: %s", x.Name)
		}
		return v

	case *PropExpr:
		return readProp(ip.eval(x.X, env), x.Name)

	case *IndexExpr:
		return ip.readIndex(ip.eval(x.X, env), ip.eval(x.Index, env), x.Line)

	case *CallExpr:
		return ip.evalCall(x, env)

	case *LambdaExpr:
		return FunVal(&Fun{Params: x.Params, Body: x.Body, Env: env, Line: x.Line})

	case *BinaryExpr:
		switch x.Op {
		case "and":
			l := ip.eval(x.L, env)
			if !Truthy(l) {
				return l
			}
			return ip.eval(x.R, env)
		case "or":
			l := ip.eval(x.L, env)
			if Truthy(l) {
				return l
			}
			return ip.eval(x.R, env)
		}
		return ip.binaryOp(x.Op, ip.eval(x.L, env), ip.eval(x.R, env), x.Line)

	case *UnaryExpr:
		v := ip.eval(x.X, env)
		switch x.Op {
		case "-":
			if v.Tag != VTNum {
				failAt(DiagTypeMismatch, x.Line, "cannot negate a %s", v.Tag.TypeName())
			}
			return Num(-v.Data.(float64))
		case "not":
			return Bool(!Truthy(v))
		}
		return Null

	case *IncDecExpr:
		loc := ip.resolveTarget(x.Target, env)
		old := loc.read()
		if old.Tag != VTNum {
			failAt(DiagTypeMismatch, x.Line, "%s requires a number target, got %s", x.Op, old.Tag.TypeName())
		}
		delta := 1.0
		if x.Op == "--" {
			delta = -1
		}
		newV := Num(old.Data.(float64) + delta)
		loc.write(newV)
		if x.Prefix {
			return newV
		}
		return old

	case *TernaryExpr:
		if Truthy(ip.eval(x.Cond, env)) {
			return ip.eval(x.Then, env)
		}
		return ip.eval(x.Else, env)

	case *CoalesceExpr:
		l := ip.eval(x.L, env)
		if l.Tag != VTNull {
			return l
		}
		return ip.eval(x.R, env)

	case *TypeCheckExpr:
		v := ip.eval(x.X, env)
		match := v.Tag.TypeName() == x.TypeName
		if x.Negate {
			match = !match
		}
		return Bool(match)
	}
	return Null
}

// readProp is the lenient property read: null base short-circuits to null,
// missing keys and non-object bases read as null.
func readProp(base Value, name string) Value {
	if base.Tag != VTObj {
		return Null
	}
	v, ok := base.Data.(*MapObject).Get(name)
	if !ok {
		return Null
	}
	return v
}

// readIndex reads arr[i], str[i] (one-rune string) or obj[key]. Out-of-range
// and missing reads yield null; kind mismatches between base and index are
// TypeMismatch failures.
func (ip *interp) readIndex(base, idx Value, line int) Value {
	switch base.Tag {
	case VTNull:
		return Null
	case VTArray:
		i := ip.intIndex(idx, line)
		elems := base.Data.(*ArrayObject).Elems
		if i < 0 || i >= len(elems) {
			return Null
		}
		return elems[i]
	case VTStr:
		i := ip.intIndex(idx, line)
		runes := []rune(base.Data.(string))
		if i < 0 || i >= len(runes) {
			return Null
		}
		return Str(string(runes[i]))
	case VTObj:
		if idx.Tag != VTStr {
			failAt(DiagTypeMismatch, line, "object index must be a string, got %s", idx.Tag.TypeName())
		}
		return readProp(base, idx.Data.(string))
	default:
		return Null
	}
}

func (ip *interp) binaryOp(op string, l, r Value, line int) Value {
	switch op {
	case "+":
		if l.Tag == VTNum && r.Tag == VTNum {
			return Num(l.Data.(float64) + r.Data.(float64))
		}
		if l.Tag == VTStr || r.Tag == VTStr {
			return Str(concatString(l, line) + concatString(r, line))
		}
		failAt(DiagTypeMismatch, line, "cannot add %s and %s", l.Tag.TypeName(), r.Tag.TypeName())

	case "-", "*", "/", "%":
		if l.Tag != VTNum || r.Tag != VTNum {
			failAt(DiagTypeMismatch, line, "operator %q requires numbers, got %s and %s",
				op, l.Tag.TypeName(), r.Tag.TypeName())
		}
		a, b := l.Data.(float64), r.Data.(float64)
		switch op {
		case "-":
			return Num(a - b)
		case "*":
			return Num(a * b)
		case "/":
			if b == 0 {
				failAt(DiagDivideByZero, line, "division by zero")
			}
			return Num(a / b)
		case "%":
			if b == 0 {
				failAt(DiagDivideByZero, line, "modulo by zero")
			}
			return Num(math.Mod(a, b))
		}

	case "<", "<=", ">", ">=":
		var cmp int
		switch {
		case l.Tag == VTNum && r.Tag == VTNum:
			a, b := l.Data.(float64), r.Data.(float64)
			switch {
			case a < b:
				cmp = -1
			case a > b:
				cmp = 1
			}
		case l.Tag == VTStr && r.Tag == VTStr:
			cmp = strings.Compare(l.Data.(string), r.Data.(string))
		default:
			failAt(DiagTypeMismatch, line, "cannot order %s and %s", l.Tag.TypeName(), r.Tag.TypeName())
		}
		switch op {
		case "<":
			return Bool(cmp < 0)
		case "<=":
			return Bool(cmp <= 0)
		case ">":
			return Bool(cmp > 0)
		default:
			return Bool(cmp >= 0)
		}

	case "==":
		return Bool(DeepEqual(l, r))
	case "!=":
		return Bool(!DeepEqual(l, r))
	}
	failAt(DiagTypeMismatch, line, "unsupported operator %q", op)
	return Null
}

// concatString stringifies scalars for + concatenation. Arrays and objects
// stay a TypeMismatch in that position.
func concatString(v Value, line int) string {
	switch v.Tag {
	case VTStr, VTNum, VTBool, VTNull:
		return Stringify(v)
	default:
		failAt(DiagTypeMismatch, line, "cannot concatenate a %s", v.Tag.TypeName())
		return ""
	}
}

////////////////////////////////////////////////////////////////////////////////
//                                   CALLS
////////////////////////////////////////////////////////////////////////////////

// evalCall dispatches a call by name: the fixed stdlib registry first, then
// a local variable holding a lambda.
func (ip *interp) evalCall(x *CallExpr, env *Env) Value {
	args := make([]Value, len(x.Args))
	for i, a := range x.Args {
		args[i] = ip.eval(a, env)
	}
	if fn, ok := stdRegistry[x.Name]; ok {
		return fn(ip, args, x.Line)
	}
	if v, ok := env.Get(x.Name); ok && v.Tag == VTFun {
		return ip.callLambda(v.Data.(*Fun), args, x.Line)
	}
	failAt(DiagTypeMismatch, x.Line, "unknown function: %s", x.Name)
	return Null
}

// callLambda invokes a lambda through the governor's call checkpoint. The
// parameter frame is a child of the closure's captured frame, so captured
// variables stay shared with the defining scope.
func (ip *interp) callLambda(f *Fun, args []Value, line int) Value {
	ip.gov.checkCall(line)
	ip.gov.enter(line)
	defer ip.gov.leave()

	if len(args) != len(f.Params) {
		failAt(DiagTypeMismatch, line, "lambda expects %d argument(s), got %d", len(f.Params), len(args))
	}
	frame := NewEnv(f.Env)
	for i, p := range f.Params {
		frame.Define(p, args[i], HintNone)
	}
	return ip.eval(f.Body, frame)
}
