// parser.go — recursive-descent parser for Jyro.
//
// Consumes the token stream from lexer.go and builds the typed AST in
// ast.go. Expression parsing is precedence climbing over the fixed 12-level
// table (tightest first):
//
//	call / property / index / postfix ++ --
//	prefix ++ -- and unary -
//	* / %
//	+ -
//	< <= > >=
//	== !=
//	is / is not          (non-chaining)
//	not
//	and
//	or
//	??                   (right-assoc)
//	?:                   (right-assoc)
//
// Statement grammar requires explicit terminators: 'then' after every
// if/elseif condition and every case/default, 'do' after while/for/foreach,
// and 'end' closing every compound statement. 'elseif' extends the
// enclosing if (one closing 'end'); an 'else' holding a fresh 'if' is a
// separately-closed construct. return/fail accept a message expression only
// when it starts on the same source line as the keyword, enforced by token
// line numbers. break/continue outside any loop are parse errors.
package jyro

import "fmt"

type parser struct {
	toks      []Token
	pos       int
	loopDepth int
}

// parseProgram runs the lexer and parser over src and returns the statement
// list. Errors are *LexError or *ParseError.
func parseProgram(src string) ([]Stmt, error) {
	toks, err := NewLexer(src).Scan()
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	var stmts []Stmt
	for !p.check(EOF) {
		s, err := p.statement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}
	return stmts, nil
}

func (p *parser) cur() Token  { return p.toks[p.pos] }
func (p *parser) prev() Token { return p.toks[p.pos-1] }

func (p *parser) advance() Token {
	t := p.toks[p.pos]
	if t.Type != EOF {
		p.pos++
	}
	return t
}

func (p *parser) check(tt TokenType) bool { return p.cur().Type == tt }

func (p *parser) match(tt TokenType) bool {
	if p.check(tt) {
		p.advance()
		return true
	}
	return false
}

func (p *parser) expect(tt TokenType, msg string) (Token, error) {
	if p.check(tt) {
		return p.advance(), nil
	}
	return Token{}, p.errHere(msg)
}

func (p *parser) errHere(format string, args ...any) error {
	t := p.cur()
	return &ParseError{Line: t.Line, Col: t.Col, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) errAt(t Token, format string, args ...any) error {
	return &ParseError{Line: t.Line, Col: t.Col, Msg: fmt.Sprintf(format, args...)}
}

////////////////////////////////////////////////////////////////////////////////
//                                 STATEMENTS
////////////////////////////////////////////////////////////////////////////////

func (p *parser) statement() (Stmt, error) {
	switch p.cur().Type {
	case KW_VAR:
		return p.varDecl()
	case KW_IF:
		return p.ifStmt()
	case KW_WHILE:
		return p.whileStmt()
	case KW_FOR:
		return p.forStmt()
	case KW_FOREACH:
		return p.foreachStmt()
	case KW_SWITCH:
		return p.switchStmt()
	case KW_BREAK:
		t := p.advance()
		if p.loopDepth == 0 {
			return nil, p.errAt(t, "'break' outside of loop")
		}
		return &BreakStmt{node{t.Line}}, nil
	case KW_CONTINUE:
		t := p.advance()
		if p.loopDepth == 0 {
			return nil, p.errAt(t, "'continue' outside of loop")
		}
		return &ContinueStmt{node{t.Line}}, nil
	case KW_RETURN:
		t := p.advance()
		msg, err := p.sameLineMessage(t)
		if err != nil {
			return nil, err
		}
		return &ReturnStmt{node{t.Line}, msg}, nil
	case KW_FAIL:
		t := p.advance()
		msg, err := p.sameLineMessage(t)
		if err != nil {
			return nil, err
		}
		return &FailStmt{node{t.Line}, msg}, nil
	default:
		return p.exprOrAssignStmt()
	}
}

// sameLineMessage parses the optional return/fail message, accepted only
// when an expression starts on the keyword's own line.
func (p *parser) sameLineMessage(kw Token) (Expr, error) {
	if p.cur().Line != kw.Line || !canStartExpr(p.cur().Type) {
		return nil, nil
	}
	return p.expression()
}

func canStartExpr(tt TokenType) bool {
	switch tt {
	case NUMBER, STRING, IDENT, KW_NULL, KW_TRUE, KW_FALSE,
		LPAREN, LBRACKET, LBRACE, MINUS, KW_NOT, INCREMENT, DECREMENT:
		return true
	default:
		return false
	}
}

func (p *parser) varDecl() (Stmt, error) {
	kw := p.advance()
	name, err := p.expect(IDENT, "expected variable name after 'var'")
	if err != nil {
		return nil, err
	}
	if name.Lexeme == "Data" {
		return nil, p.errAt(name, "cannot declare a variable named 'Data'")
	}
	hint := HintNone
	if p.match(KW_AS) {
		ht, err := p.expect(IDENT, "expected type name after 'as'")
		if err != nil {
			return nil, err
		}
		switch ht.Lexeme {
		case "number":
			hint = HintNumber
		case "string":
			hint = HintString
		case "boolean":
			hint = HintBoolean
		case "array":
			hint = HintArray
		case "object":
			hint = HintObject
		default:
			return nil, p.errAt(ht, "unknown type name %q", ht.Lexeme)
		}
	}
	if _, err := p.expect(ASSIGN, "expected '=' in variable declaration"); err != nil {
		return nil, err
	}
	init, err := p.expression()
	if err != nil {
		return nil, err
	}
	return &VarDeclStmt{node{kw.Line}, name.Lexeme, hint, init}, nil
}

func (p *parser) ifStmt() (Stmt, error) {
	kw := p.advance()
	st := &IfStmt{node: node{kw.Line}}
	for {
		cond, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(KW_THEN, "expected 'then' after if condition"); err != nil {
			return nil, err
		}
		body, err := p.block(KW_ELSEIF, KW_ELSE, KW_END)
		if err != nil {
			return nil, err
		}
		st.Clauses = append(st.Clauses, IfClause{Cond: cond, Body: body})
		if !p.match(KW_ELSEIF) {
			break
		}
	}
	if p.match(KW_ELSE) {
		body, err := p.block(KW_END)
		if err != nil {
			return nil, err
		}
		st.Else = body
		st.HasElse = true
	}
	if _, err := p.expect(KW_END, "expected 'end' to close if statement"); err != nil {
		return nil, err
	}
	return st, nil
}

func (p *parser) whileStmt() (Stmt, error) {
	kw := p.advance()
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(KW_DO, "expected 'do' after while condition"); err != nil {
		return nil, err
	}
	body, err := p.loopBlock(KW_END)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(KW_END, "expected 'end' to close while loop"); err != nil {
		return nil, err
	}
	return &WhileStmt{node{kw.Line}, cond, body}, nil
}

func (p *parser) forStmt() (Stmt, error) {
	kw := p.advance()
	name, err := p.expect(IDENT, "expected loop variable after 'for'")
	if err != nil {
		return nil, err
	}
	if name.Lexeme == "Data" {
		return nil, p.errAt(name, "cannot use 'Data' as a loop variable")
	}
	if _, err := p.expect(KW_IN, "expected 'in' after loop variable"); err != nil {
		return nil, err
	}
	start, err := p.expression()
	if err != nil {
		return nil, err
	}
	desc := false
	switch {
	case p.match(KW_TO):
	case p.match(KW_DOWNTO):
		desc = true
	default:
		return nil, p.errHere("expected 'to' or 'downto' in for loop")
	}
	end, err := p.expression()
	if err != nil {
		return nil, err
	}
	var step Expr
	if p.match(KW_BY) {
		step, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(KW_DO, "expected 'do' after for loop header"); err != nil {
		return nil, err
	}
	body, err := p.loopBlock(KW_END)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(KW_END, "expected 'end' to close for loop"); err != nil {
		return nil, err
	}
	return &ForStmt{node{kw.Line}, name.Lexeme, start, end, step, desc, body}, nil
}

func (p *parser) foreachStmt() (Stmt, error) {
	kw := p.advance()
	name, err := p.expect(IDENT, "expected loop variable after 'foreach'")
	if err != nil {
		return nil, err
	}
	if name.Lexeme == "Data" {
		return nil, p.errAt(name, "cannot use 'Data' as a loop variable")
	}
	if _, err := p.expect(KW_IN, "expected 'in' after loop variable"); err != nil {
		return nil, err
	}
	iter, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(KW_DO, "expected 'do' after foreach header"); err != nil {
		return nil, err
	}
	body, err := p.loopBlock(KW_END)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(KW_END, "expected 'end' to close foreach loop"); err != nil {
		return nil, err
	}
	return &ForeachStmt{node{kw.Line}, name.Lexeme, iter, body}, nil
}

func (p *parser) switchStmt() (Stmt, error) {
	kw := p.advance()
	subj, err := p.expression()
	if err != nil {
		return nil, err
	}
	st := &SwitchStmt{node: node{kw.Line}, Subject: subj}
	for p.match(KW_CASE) {
		var vals []Expr
		for {
			v, err := p.expression()
			if err != nil {
				return nil, err
			}
			vals = append(vals, v)
			if !p.match(COMMA) {
				break
			}
		}
		if _, err := p.expect(KW_THEN, "expected 'then' after case values"); err != nil {
			return nil, err
		}
		body, err := p.block(KW_CASE, KW_DEFAULT, KW_END)
		if err != nil {
			return nil, err
		}
		st.Cases = append(st.Cases, SwitchCase{Values: vals, Body: body})
	}
	if p.match(KW_DEFAULT) {
		if _, err := p.expect(KW_THEN, "expected 'then' after 'default'"); err != nil {
			return nil, err
		}
		body, err := p.block(KW_END)
		if err != nil {
			return nil, err
		}
		st.Default = body
		st.HasDefault = true
	}
	if _, err := p.expect(KW_END, "expected 'end' to close switch statement"); err != nil {
		return nil, err
	}
	return st, nil
}

// block parses statements until one of the terminator tokens is current
// (without consuming it).
func (p *parser) block(until ...TokenType) ([]Stmt, error) {
	var stmts []Stmt
	for {
		if p.check(EOF) {
			return nil, p.errHere("unexpected end of input inside block")
		}
		for _, tt := range until {
			if p.check(tt) {
				return stmts, nil
			}
		}
		s, err := p.statement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}
}

// loopBlock is block with break/continue legal inside.
func (p *parser) loopBlock(until ...TokenType) ([]Stmt, error) {
	p.loopDepth++
	defer func() { p.loopDepth-- }()
	return p.block(until...)
}

func (p *parser) exprOrAssignStmt() (Stmt, error) {
	startTok := p.cur()
	x, err := p.expression()
	if err != nil {
		return nil, err
	}
	switch p.cur().Type {
	case ASSIGN, PLUS_ASSIGN, MINUS_ASSIGN, STAR_ASSIGN, SLASH_ASSIGN:
		opTok := p.advance()
		if err := assignableTarget(x, opTok); err != nil {
			return nil, err
		}
		val, err := p.expression()
		if err != nil {
			return nil, err
		}
		op := map[TokenType]string{
			ASSIGN: "=", PLUS_ASSIGN: "+=", MINUS_ASSIGN: "-=",
			STAR_ASSIGN: "*=", SLASH_ASSIGN: "/=",
		}[opTok.Type]
		return &AssignStmt{node{startTok.Line}, x, op, val}, nil
	}
	return &ExprStmt{node{startTok.Line}, x}, nil
}

// assignableTarget admits identifiers, property access and index access.
// Data itself is never reassignable; only its fields and elements are.
func assignableTarget(x Expr, at Token) error {
	switch t := x.(type) {
	case *IdentExpr:
		return nil
	case *PropExpr, *IndexExpr:
		return nil
	case *DataExpr:
		_ = t
		return &ParseError{Line: at.Line, Col: at.Col, Msg: "cannot reassign 'Data' itself"}
	default:
		return &ParseError{Line: at.Line, Col: at.Col, Msg: "invalid assignment target"}
	}
}

////////////////////////////////////////////////////////////////////////////////
//                                 EXPRESSIONS
////////////////////////////////////////////////////////////////////////////////

func (p *parser) expression() (Expr, error) { return p.ternary() }

func (p *parser) ternary() (Expr, error) {
	cond, err := p.coalesce()
	if err != nil {
		return nil, err
	}
	if !p.match(QUESTION) {
		return cond, nil
	}
	q := p.prev()
	thenE, err := p.ternary()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(COLON, "expected ':' in ternary expression"); err != nil {
		return nil, err
	}
	elseE, err := p.ternary()
	if err != nil {
		return nil, err
	}
	return &TernaryExpr{node{q.Line}, cond, thenE, elseE}, nil
}

func (p *parser) coalesce() (Expr, error) {
	left, err := p.orExpr()
	if err != nil {
		return nil, err
	}
	if !p.match(COALESCE) {
		return left, nil
	}
	op := p.prev()
	right, err := p.coalesce() // right-assoc
	if err != nil {
		return nil, err
	}
	return &CoalesceExpr{node{op.Line}, left, right}, nil
}

func (p *parser) orExpr() (Expr, error) {
	left, err := p.andExpr()
	if err != nil {
		return nil, err
	}
	for p.match(KW_OR) {
		op := p.prev()
		right, err := p.andExpr()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{node{op.Line}, "or", left, right}
	}
	return left, nil
}

func (p *parser) andExpr() (Expr, error) {
	left, err := p.notExpr()
	if err != nil {
		return nil, err
	}
	for p.match(KW_AND) {
		op := p.prev()
		right, err := p.notExpr()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{node{op.Line}, "and", left, right}
	}
	return left, nil
}

func (p *parser) notExpr() (Expr, error) {
	if p.match(KW_NOT) {
		op := p.prev()
		x, err := p.notExpr()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{node{op.Line}, "not", x}, nil
	}
	return p.typeCheck()
}

// typeCheck is non-chaining: at most one 'is' / 'is not' per operand.
func (p *parser) typeCheck() (Expr, error) {
	x, err := p.equality()
	if err != nil {
		return nil, err
	}
	if !p.match(KW_IS) {
		return x, nil
	}
	op := p.prev()
	negate := p.match(KW_NOT)
	name, err := p.typeName()
	if err != nil {
		return nil, err
	}
	return &TypeCheckExpr{node{op.Line}, x, name, negate}, nil
}

func (p *parser) typeName() (string, error) {
	if p.match(KW_NULL) {
		return "null", nil
	}
	t, err := p.expect(IDENT, "expected type name after 'is'")
	if err != nil {
		return "", err
	}
	switch t.Lexeme {
	case "number", "string", "boolean", "array", "object", "function":
		return t.Lexeme, nil
	}
	return "", p.errAt(t, "unknown type name %q", t.Lexeme)
}

func (p *parser) equality() (Expr, error) {
	left, err := p.relational()
	if err != nil {
		return nil, err
	}
	for p.check(EQ) || p.check(NEQ) {
		op := p.advance()
		right, err := p.relational()
		if err != nil {
			return nil, err
		}
		sym := "=="
		if op.Type == NEQ {
			sym = "!="
		}
		left = &BinaryExpr{node{op.Line}, sym, left, right}
	}
	return left, nil
}

func (p *parser) relational() (Expr, error) {
	left, err := p.additive()
	if err != nil {
		return nil, err
	}
	for {
		var sym string
		switch p.cur().Type {
		case LESS:
			sym = "<"
		case LESS_EQ:
			sym = "<="
		case GREATER:
			sym = ">"
		case GREATER_EQ:
			sym = ">="
		default:
			return left, nil
		}
		op := p.advance()
		right, err := p.additive()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{node{op.Line}, sym, left, right}
	}
}

func (p *parser) additive() (Expr, error) {
	left, err := p.multiplicative()
	if err != nil {
		return nil, err
	}
	for p.check(PLUS) || p.check(MINUS) {
		op := p.advance()
		right, err := p.multiplicative()
		if err != nil {
			return nil, err
		}
		sym := "+"
		if op.Type == MINUS {
			sym = "-"
		}
		left = &BinaryExpr{node{op.Line}, sym, left, right}
	}
	return left, nil
}

func (p *parser) multiplicative() (Expr, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for {
		var sym string
		switch p.cur().Type {
		case STAR:
			sym = "*"
		case SLASH:
			sym = "/"
		case PERCENT:
			sym = "%"
		default:
			return left, nil
		}
		op := p.advance()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{node{op.Line}, sym, left, right}
	}
}

func (p *parser) unary() (Expr, error) {
	switch p.cur().Type {
	case MINUS:
		op := p.advance()
		x, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{node{op.Line}, "-", x}, nil
	case INCREMENT, DECREMENT:
		op := p.advance()
		x, err := p.unary()
		if err != nil {
			return nil, err
		}
		if err := assignableTarget(x, op); err != nil {
			return nil, err
		}
		sym := "++"
		if op.Type == DECREMENT {
			sym = "--"
		}
		return &IncDecExpr{node{op.Line}, sym, x, true}, nil
	}
	return p.postfix()
}

func (p *parser) postfix() (Expr, error) {
	x, err := p.primary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.cur().Type {
		case DOT:
			p.advance()
			name, err := p.expect(IDENT, "expected property name after '.'")
			if err != nil {
				return nil, err
			}
			x = &PropExpr{node{name.Line}, x, name.Lexeme}
		case LBRACKET:
			open := p.advance()
			idx, err := p.expression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(RBRACKET, "expected ']' after index expression"); err != nil {
				return nil, err
			}
			x = &IndexExpr{node{open.Line}, x, idx}
		case LPAREN:
			ident, ok := x.(*IdentExpr)
			if !ok {
				return nil, p.errHere("only named functions can be called")
			}
			open := p.advance()
			var args []Expr
			if !p.check(RPAREN) {
				for {
					a, err := p.expression()
					if err != nil {
						return nil, err
					}
					args = append(args, a)
					if !p.match(COMMA) {
						break
					}
				}
			}
			if _, err := p.expect(RPAREN, "expected ')' after arguments"); err != nil {
				return nil, err
			}
			x = &CallExpr{node{open.Line}, ident.Name, args}
		case INCREMENT, DECREMENT:
			op := p.advance()
			if err := assignableTarget(x, op); err != nil {
				return nil, err
			}
			sym := "++"
			if op.Type == DECREMENT {
				sym = "--"
			}
			return &IncDecExpr{node{op.Line}, sym, x, false}, nil
		default:
			return x, nil
		}
	}
}

func (p *parser) primary() (Expr, error) {
	t := p.cur()
	switch t.Type {
	case NUMBER:
		p.advance()
		return &NumLit{node{t.Line}, t.Literal.(float64)}, nil
	case STRING:
		p.advance()
		return &StrLit{node{t.Line}, t.Literal.(string)}, nil
	case KW_NULL:
		p.advance()
		return &NullLit{node{t.Line}}, nil
	case KW_TRUE:
		p.advance()
		return &BoolLit{node{t.Line}, true}, nil
	case KW_FALSE:
		p.advance()
		return &BoolLit{node{t.Line}, false}, nil
	case IDENT:
		// Bare-identifier lambda: x => expr
		if p.toks[p.pos+1].Type == ARROW {
			p.advance()
			p.advance()
			body, err := p.expression()
			if err != nil {
				return nil, err
			}
			return &LambdaExpr{node{t.Line}, []string{t.Lexeme}, body}, nil
		}
		p.advance()
		if t.Lexeme == "Data" {
			return &DataExpr{node{t.Line}}, nil
		}
		return &IdentExpr{node{t.Line}, t.Lexeme}, nil
	case LPAREN:
		if params, ok := p.lambdaParamsAhead(); ok {
			p.advance() // '('
			for !p.check(RPAREN) {
				p.advance()
			}
			p.advance() // ')'
			if _, err := p.expect(ARROW, "expected '=>' after lambda parameters"); err != nil {
				return nil, err
			}
			body, err := p.expression()
			if err != nil {
				return nil, err
			}
			return &LambdaExpr{node{t.Line}, params, body}, nil
		}
		p.advance()
		x, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(RPAREN, "expected ')' after expression"); err != nil {
			return nil, err
		}
		return x, nil
	case LBRACKET:
		p.advance()
		var elems []Expr
		if !p.check(RBRACKET) {
			for {
				e, err := p.expression()
				if err != nil {
					return nil, err
				}
				elems = append(elems, e)
				if !p.match(COMMA) {
					break
				}
			}
		}
		if _, err := p.expect(RBRACKET, "expected ']' to close array literal"); err != nil {
			return nil, err
		}
		return &ArrayLit{node{t.Line}, elems}, nil
	case LBRACE:
		return p.objectLit()
	default:
		return nil, p.errHere("unexpected token %q", t.Lexeme)
	}
}

// lambdaParamsAhead looks ahead from a current '(' for the exact shape
// ( [ident [, ident]*] ) => without consuming anything. On success it
// returns the parameter names; advancing past them is the caller's job.
func (p *parser) lambdaParamsAhead() ([]string, bool) {
	i := p.pos + 1 // past '('
	var params []string
	if p.toks[i].Type == RPAREN {
		if p.toks[i+1].Type == ARROW {
			return []string{}, true
		}
		return nil, false
	}
	for {
		if p.toks[i].Type != IDENT {
			return nil, false
		}
		params = append(params, p.toks[i].Lexeme)
		i++
		if p.toks[i].Type == COMMA {
			i++
			continue
		}
		break
	}
	if p.toks[i].Type != RPAREN || p.toks[i+1].Type != ARROW {
		return nil, false
	}
	return params, true
}

func (p *parser) objectLit() (Expr, error) {
	open := p.advance()
	lit := &ObjectLit{node: node{open.Line}}
	if !p.check(RBRACE) {
		for {
			var key string
			switch p.cur().Type {
			case IDENT:
				key = p.advance().Lexeme
			case STRING:
				key = p.advance().Literal.(string)
			default:
				return nil, p.errHere("expected object key (identifier or string)")
			}
			if _, err := p.expect(COLON, "expected ':' after object key"); err != nil {
				return nil, err
			}
			val, err := p.expression()
			if err != nil {
				return nil, err
			}
			lit.Keys = append(lit.Keys, key)
			lit.Vals = append(lit.Vals, val)
			if !p.match(COMMA) {
				break
			}
		}
	}
	if _, err := p.expect(RBRACE, "expected '}' to close object literal"); err != nil {
		return nil, err
	}
	return lit, nil
}
