// ast.go — the abstract syntax tree the parser builds and the evaluator walks.
//
// A Program is a flat ordered statement list. Every node remembers the
// 1-based source line it started on, which is the coordinate all runtime
// diagnostics carry.
package jyro

// Stmt is the interface all statement nodes satisfy.
type Stmt interface {
	Pos() int
	stmtNode()
}

// Expr is the interface all expression nodes satisfy.
type Expr interface {
	Pos() int
	exprNode()
}

// TypeHint is the optional declared type on a var declaration. Assignments
// to hinted variables pass through the fixed coercion table.
type TypeHint int

const (
	HintNone TypeHint = iota
	HintNumber
	HintString
	HintBoolean
	HintArray
	HintObject
)

func (h TypeHint) String() string {
	switch h {
	case HintNumber:
		return "number"
	case HintString:
		return "string"
	case HintBoolean:
		return "boolean"
	case HintArray:
		return "array"
	case HintObject:
		return "object"
	default:
		return "any"
	}
}

type node struct{ Line int }

func (n node) Pos() int { return n.Line }

// --- Statements ---

// VarDeclStmt: var <name> [as <hint>] = <init>
type VarDeclStmt struct {
	node
	Name string
	Hint TypeHint
	Init Expr
}

// AssignStmt: <target> <op>= <value>, target one of Ident/Prop/Index.
// Op is "=", "+=", "-=", "*=" or "/=".
type AssignStmt struct {
	node
	Target Expr
	Op     string
	Value  Expr
}

// IfClause is one condition/body pair of an if/elseif chain.
type IfClause struct {
	Cond Expr
	Body []Stmt
}

type IfStmt struct {
	node
	Clauses []IfClause
	Else    []Stmt
	HasElse bool
}

type WhileStmt struct {
	node
	Cond Expr
	Body []Stmt
}

// ForStmt: for <var> in <start> to|downto <end> [by <step>] do ... end
type ForStmt struct {
	node
	Var        string
	Start, End Expr
	Step       Expr // nil means step 1
	Descending bool
	Body       []Stmt
}

type ForeachStmt struct {
	node
	Var      string
	Iterable Expr
	Body     []Stmt
}

// SwitchCase lists one or more candidate values sharing a body.
type SwitchCase struct {
	Values []Expr
	Body   []Stmt
}

type SwitchStmt struct {
	node
	Subject    Expr
	Cases      []SwitchCase
	Default    []Stmt
	HasDefault bool
}

type BreakStmt struct{ node }
type ContinueStmt struct{ node }

// ReturnStmt ends the whole program with a Success outcome. Msg, when
// present, must have appeared on the same source line as the keyword.
type ReturnStmt struct {
	node
	Msg Expr // nil when no message
}

// FailStmt ends the whole program with a Failure outcome. Same same-line
// rule for Msg as ReturnStmt.
type FailStmt struct {
	node
	Msg Expr
}

type ExprStmt struct {
	node
	X Expr
}

func (*VarDeclStmt) stmtNode()  {}
func (*AssignStmt) stmtNode()   {}
func (*IfStmt) stmtNode()       {}
func (*WhileStmt) stmtNode()    {}
func (*ForStmt) stmtNode()      {}
func (*ForeachStmt) stmtNode()  {}
func (*SwitchStmt) stmtNode()   {}
func (*BreakStmt) stmtNode()    {}
func (*ContinueStmt) stmtNode() {}
func (*ReturnStmt) stmtNode()   {}
func (*FailStmt) stmtNode()     {}
func (*ExprStmt) stmtNode()     {}

// --- Expressions ---

type NullLit struct{ node }

type BoolLit struct {
	node
	Val bool
}

type NumLit struct {
	node
	Val float64
}

type StrLit struct {
	node
	Val string
}

type ArrayLit struct {
	node
	Elems []Expr
}

// ObjectLit keeps keys in source order; duplicate keys keep the last value
// but the first position (MapObject semantics).
type ObjectLit struct {
	node
	Keys []string
	Vals []Expr
}

// DataExpr is the special Data binding — the script's sole input/output.
type DataExpr struct{ node }

type IdentExpr struct {
	node
	Name string
}

type PropExpr struct {
	node
	X    Expr
	Name string
}

type IndexExpr struct {
	node
	X     Expr
	Index Expr
}

// CallExpr invokes a standard-library function by name, or a lambda held in
// a local variable.
type CallExpr struct {
	node
	Name string
	Args []Expr
}

// LambdaExpr has a single expression body, never a block.
type LambdaExpr struct {
	node
	Params []string
	Body   Expr
}

type BinaryExpr struct {
	node
	Op   string
	L, R Expr
}

// UnaryExpr covers prefix "-" and "not".
type UnaryExpr struct {
	node
	Op string
	X  Expr
}

// IncDecExpr: ++/-- on an assignable target. Postfix yields the
// pre-mutation value, prefix the post-mutation value.
type IncDecExpr struct {
	node
	Op     string // "++" or "--"
	Target Expr
	Prefix bool
}

type TernaryExpr struct {
	node
	Cond, Then, Else Expr
}

// CoalesceExpr: a ?? b, right-associative, first non-null operand.
type CoalesceExpr struct {
	node
	L, R Expr
}

// TypeCheckExpr: x is <type> / x is not <type>.
type TypeCheckExpr struct {
	node
	X        Expr
	TypeName string
	Negate   bool
}

func (*NullLit) exprNode()       {}
func (*BoolLit) exprNode()       {}
func (*NumLit) exprNode()        {}
func (*StrLit) exprNode()        {}
func (*ArrayLit) exprNode()      {}
func (*ObjectLit) exprNode()     {}
func (*DataExpr) exprNode()      {}
func (*IdentExpr) exprNode()     {}
func (*PropExpr) exprNode()      {}
func (*IndexExpr) exprNode()     {}
func (*CallExpr) exprNode()      {}
func (*LambdaExpr) exprNode()    {}
func (*BinaryExpr) exprNode()    {}
func (*UnaryExpr) exprNode()     {}
func (*IncDecExpr) exprNode()    {}
func (*TernaryExpr) exprNode()   {}
func (*CoalesceExpr) exprNode()  {}
func (*TypeCheckExpr) exprNode() {}
