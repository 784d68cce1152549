package jyro

import (
	"strings"
	"testing"
)

func parseOK(t *testing.T, src string) []Stmt {
	t.Helper()
	stmts, err := parseProgram(src)
	if err != nil {
		t.Fatalf("parse error: %v\nsource:\n%s", err, src)
	}
	return stmts
}

func parseErr(t *testing.T, src, substr string) {
	t.Helper()
	_, err := parseProgram(src)
	if err == nil {
		t.Fatalf("want parse error containing %q, got none\nsource:\n%s", substr, src)
	}
	if !strings.Contains(err.Error(), substr) {
		t.Fatalf("want error containing %q, got %q", substr, err.Error())
	}
}

func Test_Parser_VarDecl_Hints(t *testing.T) {
	stmts := parseOK(t, `var x as number = 1
var s = "y"`)
	d := stmts[0].(*VarDeclStmt)
	if d.Name != "x" || d.Hint != HintNumber {
		t.Fatalf("unexpected decl %#v", d)
	}
	if stmts[1].(*VarDeclStmt).Hint != HintNone {
		t.Fatalf("untyped decl should carry no hint")
	}
}

func Test_Parser_VarDecl_Unknown_Hint_Fails(t *testing.T) {
	parseErr(t, `var x as integer = 1`, "unknown type")
}

func Test_Parser_Data_Not_Declarable(t *testing.T) {
	parseErr(t, `var Data = 1`, "Data")
}

func Test_Parser_Data_Not_Reassignable(t *testing.T) {
	parseErr(t, `Data = {}`, "Data")
	// Fields of Data remain assignable.
	parseOK(t, `Data.x = 1`)
	parseOK(t, `Data["x"] = 1`)
}

func Test_Parser_If_Elseif_Single_End(t *testing.T) {
	stmts := parseOK(t, `
if a then
    x = 1
elseif b then
    x = 2
elseif c then
    x = 3
else
    x = 4
end
`)
	s := stmts[0].(*IfStmt)
	if len(s.Clauses) != 3 || !s.HasElse {
		t.Fatalf("want 3 clauses + else, got %d (else=%v)", len(s.Clauses), s.HasElse)
	}
}

func Test_Parser_For_Shapes(t *testing.T) {
	stmts := parseOK(t, `
for i in 0 to 5 do
end
for i in 10 downto 0 by 2 do
end
`)
	up := stmts[0].(*ForStmt)
	if up.Descending || up.Step != nil {
		t.Fatalf("unexpected ascending loop %#v", up)
	}
	down := stmts[1].(*ForStmt)
	if !down.Descending || down.Step == nil {
		t.Fatalf("unexpected descending loop %#v", down)
	}
}

func Test_Parser_Break_Outside_Loop_Fails(t *testing.T) {
	parseErr(t, `break`, "loop")
	parseErr(t, `
if true then
    continue
end
`, "loop")
}

func Test_Parser_Break_Inside_Loop_OK(t *testing.T) {
	parseOK(t, `
while true do
    if x then
        break
    end
    continue
end
`)
}

func Test_Parser_Return_Message_Same_Line(t *testing.T) {
	stmts := parseOK(t, `
return "done"
`)
	if stmts[0].(*ReturnStmt).Msg == nil {
		t.Fatalf("same-line message not attached")
	}

	// A string on the next line is a separate statement, not a message.
	stmts = parseOK(t, `
return
"not a message"
`)
	if stmts[0].(*ReturnStmt).Msg != nil {
		t.Fatalf("next-line expression wrongly attached as message")
	}
}

func Test_Parser_Fail_Bare(t *testing.T) {
	stmts := parseOK(t, `
while true do
    fail
end
`)
	body := stmts[0].(*WhileStmt).Body
	if body[0].(*FailStmt).Msg != nil {
		t.Fatalf("bare fail should carry no message")
	}
}

func Test_Parser_Switch_Cases(t *testing.T) {
	stmts := parseOK(t, `
switch x
case 1, 2 then
    y = "low"
case "big" then
    y = "high"
default then
    y = "other"
end
`)
	s := stmts[0].(*SwitchStmt)
	if len(s.Cases) != 2 || !s.HasDefault {
		t.Fatalf("want 2 cases + default, got %d (default=%v)", len(s.Cases), s.HasDefault)
	}
	if len(s.Cases[0].Values) != 2 {
		t.Fatalf("want 2 candidate values in first case, got %d", len(s.Cases[0].Values))
	}
}

func Test_Parser_Precedence(t *testing.T) {
	stmts := parseOK(t, `x = 1 + 2 * 3 == 7 and not false`)
	// and(==(+(1,*(2,3)),7), not(false))
	root := stmts[0].(*AssignStmt).Value.(*BinaryExpr)
	if root.Op != "and" {
		t.Fatalf("want top-level and, got %q", root.Op)
	}
	eq := root.L.(*BinaryExpr)
	if eq.Op != "==" {
		t.Fatalf("want == below and, got %q", eq.Op)
	}
	sum := eq.L.(*BinaryExpr)
	if sum.Op != "+" || sum.R.(*BinaryExpr).Op != "*" {
		t.Fatalf("want * below +, got %#v", sum)
	}
}

func Test_Parser_Coalesce_Right_Assoc(t *testing.T) {
	stmts := parseOK(t, `x = a ?? b ?? c`)
	root := stmts[0].(*AssignStmt).Value.(*CoalesceExpr)
	if _, ok := root.R.(*CoalesceExpr); !ok {
		t.Fatalf("want right-nested coalesce, got %#v", root.R)
	}
}

func Test_Parser_Ternary(t *testing.T) {
	stmts := parseOK(t, `x = a ? b : c ? d : e`)
	root := stmts[0].(*AssignStmt).Value.(*TernaryExpr)
	if _, ok := root.Else.(*TernaryExpr); !ok {
		t.Fatalf("want right-nested ternary in else, got %#v", root.Else)
	}
}

func Test_Parser_Is_Not_Chain_Fails(t *testing.T) {
	parseOK(t, `x = v is not number`)
	parseErr(t, `x = v is number is string`, "")
}

func Test_Parser_Lambda_Forms(t *testing.T) {
	stmts := parseOK(t, `
f = x => x + 1
g = (a, b) => a * b
h = () => 42
`)
	if got := stmts[0].(*AssignStmt).Value.(*LambdaExpr).Params; len(got) != 1 || got[0] != "x" {
		t.Fatalf("bare-ident lambda params: %v", got)
	}
	if got := stmts[1].(*AssignStmt).Value.(*LambdaExpr).Params; len(got) != 2 {
		t.Fatalf("two-param lambda params: %v", got)
	}
	if got := stmts[2].(*AssignStmt).Value.(*LambdaExpr).Params; len(got) != 0 {
		t.Fatalf("zero-param lambda params: %v", got)
	}
}

func Test_Parser_Parenthesized_Expr_Still_Works(t *testing.T) {
	parseOK(t, `x = (1 + 2) * 3`)
}

func Test_Parser_Object_Literal_Keys(t *testing.T) {
	stmts := parseOK(t, `x = {name: "a", "with space": 1}`)
	lit := stmts[0].(*AssignStmt).Value.(*ObjectLit)
	if len(lit.Keys) != 2 || lit.Keys[1] != "with space" {
		t.Fatalf("object keys: %v", lit.Keys)
	}
}

func Test_Parser_Incomplete_Block_Reports_End_Of_Input(t *testing.T) {
	parseErr(t, `
if x then
    y = 1
`, "end of input")
}

func Test_Parser_Call_On_NonIdent_Fails(t *testing.T) {
	parseErr(t, `x = (f)(1)`, "")
}
