// lexer.go — scans Jyro source into a token stream.
//
// Tokens carry 1-based line numbers (and 0-based columns) for diagnostics.
// Comments run from '#' to end of line. String literals accept single or
// double quotes interchangeably and recognize exactly the escapes
// \n \r \t \\ \" \' \0 \uXXXX; any other backslash sequence is a lex-time
// failure. Number literals may be decimal, float, hex (0x) or binary (0b);
// all unify into the single Number kind.
package jyro

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// TokenType represents the kind of token.
type TokenType int

const (
	// Special
	EOF TokenType = iota

	// Punctuation
	LPAREN   // "("
	RPAREN   // ")"
	LBRACKET // "["
	RBRACKET // "]"
	LBRACE   // "{"
	RBRACE   // "}"
	COLON    // ":"
	COMMA    // ","
	DOT      // "."
	QUESTION // "?"

	// Operators
	PLUS         // "+"
	MINUS        // "-"
	STAR         // "*"
	SLASH        // "/"
	PERCENT      // "%"
	ASSIGN       // "="
	PLUS_ASSIGN  // "+="
	MINUS_ASSIGN // "-="
	STAR_ASSIGN  // "*="
	SLASH_ASSIGN // "/="
	EQ           // "=="
	NEQ          // "!="
	LESS         // "<"
	LESS_EQ      // "<="
	GREATER      // ">"
	GREATER_EQ   // ">="
	INCREMENT    // "++"
	DECREMENT    // "--"
	COALESCE     // "??"
	ARROW        // "=>"

	// Literals & identifiers
	IDENT
	STRING
	NUMBER

	// Keywords
	KW_VAR
	KW_AS
	KW_IF
	KW_THEN
	KW_ELSEIF
	KW_ELSE
	KW_END
	KW_WHILE
	KW_DO
	KW_FOR
	KW_TO
	KW_DOWNTO
	KW_BY
	KW_FOREACH
	KW_IN
	KW_SWITCH
	KW_CASE
	KW_DEFAULT
	KW_BREAK
	KW_CONTINUE
	KW_RETURN
	KW_FAIL
	KW_AND
	KW_OR
	KW_NOT
	KW_IS
	KW_NULL
	KW_TRUE
	KW_FALSE
)

// Token is a lexical token with an optional parsed literal value.
type Token struct {
	Type    TokenType
	Lexeme  string
	Literal any // float64 for NUMBER, string for STRING
	Line    int // 1-based
	Col     int // 0-based
}

var keywords = map[string]TokenType{
	"var":      KW_VAR,
	"as":       KW_AS,
	"if":       KW_IF,
	"then":     KW_THEN,
	"elseif":   KW_ELSEIF,
	"else":     KW_ELSE,
	"end":      KW_END,
	"while":    KW_WHILE,
	"do":       KW_DO,
	"for":      KW_FOR,
	"to":       KW_TO,
	"downto":   KW_DOWNTO,
	"by":       KW_BY,
	"foreach":  KW_FOREACH,
	"in":       KW_IN,
	"switch":   KW_SWITCH,
	"case":     KW_CASE,
	"default":  KW_DEFAULT,
	"break":    KW_BREAK,
	"continue": KW_CONTINUE,
	"return":   KW_RETURN,
	"fail":     KW_FAIL,
	"and":      KW_AND,
	"or":       KW_OR,
	"not":      KW_NOT,
	"is":       KW_IS,
	"null":     KW_NULL,
	"true":     KW_TRUE,
	"false":    KW_FALSE,
}

// Lexer scans a Jyro source string into tokens.
type Lexer struct {
	src    string
	start  int // start index of current token
	cur    int // current index
	line   int // 1-based
	col    int // 0-based column within line
	tokens []Token

	tokStartLine int
	tokStartCol  int
}

// NewLexer creates a new lexer for the given source.
func NewLexer(src string) *Lexer {
	return &Lexer{src: src, line: 1}
}

func (l *Lexer) isAtEnd() bool { return l.cur >= len(l.src) }

func (l *Lexer) peek() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	return l.src[l.cur], true
}

func (l *Lexer) peekN(n int) (byte, bool) {
	idx := l.cur + n
	if idx >= len(l.src) {
		return 0, false
	}
	return l.src[idx], true
}

func (l *Lexer) advance() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	ch := l.src[l.cur]
	l.cur++
	if ch == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
	return ch, true
}

func (l *Lexer) match(expected byte) bool {
	if ch, ok := l.peek(); ok && ch == expected {
		l.advance()
		return true
	}
	return false
}

func (l *Lexer) addToken(tt TokenType, lit any) {
	l.tokens = append(l.tokens, Token{
		Type:    tt,
		Lexeme:  l.src[l.start:l.cur],
		Literal: lit,
		Line:    l.tokStartLine,
		Col:     l.tokStartCol,
	})
	l.start = l.cur
}

func (l *Lexer) errf(format string, args ...any) *LexError {
	return &LexError{Line: l.tokStartLine, Col: l.tokStartCol, Msg: fmt.Sprintf(format, args...)}
}

func (l *Lexer) skipBlanksAndComments() {
	for !l.isAtEnd() {
		ch, _ := l.peek()
		switch ch {
		case ' ', '\t', '\r', '\n':
			l.advance()
			l.start = l.cur
		case '#':
			for !l.isAtEnd() {
				if c, _ := l.peek(); c == '\n' {
					break
				}
				l.advance()
			}
			l.start = l.cur
		default:
			return
		}
	}
}

// Scan tokenizes the whole source, ending with an EOF token.
func (l *Lexer) Scan() ([]Token, error) {
	for {
		l.skipBlanksAndComments()
		if l.isAtEnd() {
			break
		}
		l.tokStartLine = l.line
		l.tokStartCol = l.col
		if err := l.scanToken(); err != nil {
			return nil, err
		}
	}
	l.tokStartLine = l.line
	l.tokStartCol = l.col
	l.addToken(EOF, nil)
	return l.tokens, nil
}

func (l *Lexer) scanToken() error {
	ch, _ := l.advance()
	switch ch {
	case '(':
		l.addToken(LPAREN, nil)
	case ')':
		l.addToken(RPAREN, nil)
	case '[':
		l.addToken(LBRACKET, nil)
	case ']':
		l.addToken(RBRACKET, nil)
	case '{':
		l.addToken(LBRACE, nil)
	case '}':
		l.addToken(RBRACE, nil)
	case ':':
		l.addToken(COLON, nil)
	case ',':
		l.addToken(COMMA, nil)
	case '.':
		l.addToken(DOT, nil)
	case '?':
		if l.match('?') {
			l.addToken(COALESCE, nil)
		} else {
			l.addToken(QUESTION, nil)
		}
	case '+':
		switch {
		case l.match('+'):
			l.addToken(INCREMENT, nil)
		case l.match('='):
			l.addToken(PLUS_ASSIGN, nil)
		default:
			l.addToken(PLUS, nil)
		}
	case '-':
		switch {
		case l.match('-'):
			l.addToken(DECREMENT, nil)
		case l.match('='):
			l.addToken(MINUS_ASSIGN, nil)
		default:
			l.addToken(MINUS, nil)
		}
	case '*':
		if l.match('=') {
			l.addToken(STAR_ASSIGN, nil)
		} else {
			l.addToken(STAR, nil)
		}
	case '/':
		if l.match('=') {
			l.addToken(SLASH_ASSIGN, nil)
		} else {
			l.addToken(SLASH, nil)
		}
	case '%':
		l.addToken(PERCENT, nil)
	case '=':
		switch {
		case l.match('='):
			l.addToken(EQ, nil)
		case l.match('>'):
			l.addToken(ARROW, nil)
		default:
			l.addToken(ASSIGN, nil)
		}
	case '!':
		if l.match('=') {
			l.addToken(NEQ, nil)
		} else {
			return l.errf("unexpected character '!'")
		}
	case '<':
		if l.match('=') {
			l.addToken(LESS_EQ, nil)
		} else {
			l.addToken(LESS, nil)
		}
	case '>':
		if l.match('=') {
			l.addToken(GREATER_EQ, nil)
		} else {
			l.addToken(GREATER, nil)
		}
	case '"', '\'':
		return l.scanString(ch)
	default:
		switch {
		case isDigit(ch):
			return l.scanNumber(ch)
		case isIdentStart(ch):
			l.scanIdent()
		default:
			return l.errf("unexpected character %q", string(rune(ch)))
		}
	}
	return nil
}

func isDigit(ch byte) bool { return ch >= '0' && ch <= '9' }

func isHexDigit(ch byte) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentPart(ch byte) bool { return isIdentStart(ch) || isDigit(ch) }

func (l *Lexer) scanIdent() {
	for {
		ch, ok := l.peek()
		if !ok || !isIdentPart(ch) {
			break
		}
		l.advance()
	}
	word := l.src[l.start:l.cur]
	if kw, ok := keywords[word]; ok {
		l.addToken(kw, nil)
		return
	}
	l.addToken(IDENT, nil)
}

func (l *Lexer) scanNumber(first byte) error {
	if first == '0' {
		if ch, ok := l.peek(); ok && (ch == 'x' || ch == 'X') {
			l.advance()
			digits := 0
			for {
				c, ok := l.peek()
				if !ok || !isHexDigit(c) {
					break
				}
				l.advance()
				digits++
			}
			if digits == 0 {
				return l.errf("malformed hex literal")
			}
			n, err := strconv.ParseUint(l.src[l.start+2:l.cur], 16, 64)
			if err != nil {
				return l.errf("malformed hex literal: %v", err)
			}
			l.addToken(NUMBER, float64(n))
			return nil
		}
		if ch, ok := l.peek(); ok && (ch == 'b' || ch == 'B') {
			l.advance()
			digits := 0
			for {
				c, ok := l.peek()
				if !ok || (c != '0' && c != '1') {
					break
				}
				l.advance()
				digits++
			}
			if digits == 0 {
				return l.errf("malformed binary literal")
			}
			n, err := strconv.ParseUint(l.src[l.start+2:l.cur], 2, 64)
			if err != nil {
				return l.errf("malformed binary literal: %v", err)
			}
			l.addToken(NUMBER, float64(n))
			return nil
		}
	}
	for {
		ch, ok := l.peek()
		if !ok || !isDigit(ch) {
			break
		}
		l.advance()
	}
	// Fractional part: '.' followed by a digit (a bare '.' is property access).
	if ch, ok := l.peek(); ok && ch == '.' {
		if next, ok2 := l.peekN(1); ok2 && isDigit(next) {
			l.advance()
			for {
				c, ok := l.peek()
				if !ok || !isDigit(c) {
					break
				}
				l.advance()
			}
		}
	}
	// Optional exponent.
	if ch, ok := l.peek(); ok && (ch == 'e' || ch == 'E') {
		next, ok2 := l.peekN(1)
		next2, ok3 := l.peekN(2)
		if ok2 && (isDigit(next) || ((next == '+' || next == '-') && ok3 && isDigit(next2))) {
			l.advance()
			l.advance()
			for {
				c, ok := l.peek()
				if !ok || !isDigit(c) {
					break
				}
				l.advance()
			}
		}
	}
	f, err := strconv.ParseFloat(l.src[l.start:l.cur], 64)
	if err != nil {
		return l.errf("malformed number literal %q", l.src[l.start:l.cur])
	}
	l.addToken(NUMBER, f)
	return nil
}

// scanString decodes a quoted literal. Only the documented escapes are
// legal; anything else after a backslash is a hard lex error so that, e.g.,
// regex authors use character classes instead of \d.
func (l *Lexer) scanString(quote byte) error {
	var b strings.Builder
	for {
		ch, ok := l.advance()
		if !ok {
			return l.errf("unterminated string literal")
		}
		if ch == quote {
			break
		}
		if ch == '\n' {
			return l.errf("unterminated string literal")
		}
		if ch != '\\' {
			b.WriteByte(ch)
			continue
		}
		esc, ok := l.advance()
		if !ok {
			return l.errf("unterminated string literal")
		}
		switch esc {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case '\\':
			b.WriteByte('\\')
		case '"':
			b.WriteByte('"')
		case '\'':
			b.WriteByte('\'')
		case '0':
			b.WriteByte(0)
		case 'u':
			r, err := l.scanUnicodeEscape()
			if err != nil {
				return err
			}
			b.WriteRune(r)
		default:
			return l.errf("unsupported escape sequence \\%s", string(rune(esc)))
		}
	}
	l.addToken(STRING, b.String())
	return nil
}

// scanUnicodeEscape reads the XXXX of a \uXXXX escape already begun. A high
// surrogate followed by another \uXXXX low surrogate combines into one rune.
func (l *Lexer) scanUnicodeEscape() (rune, error) {
	read4 := func() (rune, error) {
		if l.cur+4 > len(l.src) {
			return 0, l.errf("unterminated \\u escape")
		}
		hex := l.src[l.cur : l.cur+4]
		for i := 0; i < 4; i++ {
			if !isHexDigit(hex[i]) {
				return 0, l.errf("malformed \\u escape \\u%s", hex)
			}
			l.advance()
		}
		n, _ := strconv.ParseUint(hex, 16, 32)
		return rune(n), nil
	}
	r, err := read4()
	if err != nil {
		return 0, err
	}
	if utf16.IsSurrogate(r) {
		// Try to pair with a following \uXXXX.
		if c1, ok := l.peek(); ok && c1 == '\\' {
			if c2, ok2 := l.peekN(1); ok2 && c2 == 'u' {
				l.advance()
				l.advance()
				r2, err := read4()
				if err != nil {
					return 0, err
				}
				if dec := utf16.DecodeRune(r, r2); dec != utf8.RuneError {
					return dec, nil
				}
				return utf8.RuneError, nil
			}
		}
		return utf8.RuneError, nil
	}
	return r, nil
}
