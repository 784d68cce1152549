package jyro

import (
	"reflect"
	"strings"
	"testing"
)

func toks(t *testing.T, src string) []Token {
	t.Helper()
	ts, err := NewLexer(src).Scan()
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}
	return ts
}

func typesWithoutEOF(tokens []Token) []TokenType {
	if len(tokens) == 0 {
		return nil
	}
	end := len(tokens)
	if tokens[end-1].Type == EOF {
		end--
	}
	out := make([]TokenType, 0, end)
	for i := 0; i < end; i++ {
		out = append(out, tokens[i].Type)
	}
	return out
}

func wantTypes(t *testing.T, src string, want []TokenType) []Token {
	t.Helper()
	got := toks(t, src)
	gotTypes := typesWithoutEOF(got)
	if !reflect.DeepEqual(gotTypes, want) {
		t.Fatalf("\nsource:\n%s\nwant types:\n%v\ngot types:\n%v\n", src, want, gotTypes)
	}
	return got
}

func wantLexError(t *testing.T, src, substr string) {
	t.Helper()
	_, err := NewLexer(src).Scan()
	if err == nil {
		t.Fatalf("want lex error containing %q, got none\nsource: %s", substr, src)
	}
	if !strings.Contains(err.Error(), substr) {
		t.Fatalf("want error containing %q, got %q", substr, err.Error())
	}
}

func Test_Lexer_VarDecl_With_Hint(t *testing.T) {
	wantTypes(t, `var score as number = 0`, []TokenType{
		KW_VAR, IDENT, KW_AS, IDENT, ASSIGN, NUMBER,
	})
}

func Test_Lexer_If_Chain(t *testing.T) {
	src := `
if x >= 1 then
    y = "hi"
elseif x != 0 then
    y = 'lo'
else
    y = null
end
`
	wantTypes(t, src, []TokenType{
		KW_IF, IDENT, GREATER_EQ, NUMBER, KW_THEN,
		IDENT, ASSIGN, STRING,
		KW_ELSEIF, IDENT, NEQ, NUMBER, KW_THEN,
		IDENT, ASSIGN, STRING,
		KW_ELSE,
		IDENT, ASSIGN, KW_NULL,
		KW_END,
	})
}

func Test_Lexer_Operators(t *testing.T) {
	got := wantTypes(t, `a += 1 ?? b ++ -- == => <=`, []TokenType{
		IDENT, PLUS_ASSIGN, NUMBER, COALESCE, IDENT,
		INCREMENT, DECREMENT, EQ, ARROW, LESS_EQ,
	})
	if got[1].Lexeme != "+=" {
		t.Fatalf("want lexeme \"+=\", got %q", got[1].Lexeme)
	}
}

func Test_Lexer_Comments_Skipped(t *testing.T) {
	wantTypes(t, "x = 1 # trailing\n# whole line\ny = 2", []TokenType{
		IDENT, ASSIGN, NUMBER, IDENT, ASSIGN, NUMBER,
	})
}

func Test_Lexer_Number_Forms(t *testing.T) {
	got := wantTypes(t, `1 2.5 0.25 1e3 2.5e-1 0xFF 0b1010`, []TokenType{
		NUMBER, NUMBER, NUMBER, NUMBER, NUMBER, NUMBER, NUMBER,
	})
	want := []float64{1, 2.5, 0.25, 1000, 0.25, 255, 10}
	for i, w := range want {
		if got[i].Literal.(float64) != w {
			t.Fatalf("token %d: want %g, got %v", i, w, got[i].Literal)
		}
	}
}

func Test_Lexer_Number_Member_Access_Not_Float(t *testing.T) {
	// '1.x' must not swallow the dot as a fraction.
	wantTypes(t, `xs[0].name`, []TokenType{
		IDENT, LBRACKET, NUMBER, RBRACKET, DOT, IDENT,
	})
}

func Test_Lexer_String_Escapes(t *testing.T) {
	got := toks(t, `"a\n\t\\\"é\0b"`)
	want := "a\n\t\\\"é\x00b"
	if got[0].Literal.(string) != want {
		t.Fatalf("want %q, got %q", want, got[0].Literal)
	}
}

func Test_Lexer_String_Surrogate_Pair(t *testing.T) {
	got := toks(t, `"😀"`)
	if got[0].Literal.(string) != "😀" {
		t.Fatalf("surrogate pair not combined: %q", got[0].Literal)
	}
}

func Test_Lexer_String_Single_Quotes(t *testing.T) {
	got := toks(t, `'it\'s'`)
	if got[0].Literal.(string) != "it's" {
		t.Fatalf("got %q", got[0].Literal)
	}
}

func Test_Lexer_String_Unknown_Escape_Fails(t *testing.T) {
	wantLexError(t, `"\q"`, "escape")
}

func Test_Lexer_String_Unterminated_Fails(t *testing.T) {
	wantLexError(t, `"abc`, "unterminated")
}

func Test_Lexer_Line_Numbers(t *testing.T) {
	got := toks(t, "a\nb\n\nc")
	if got[0].Line != 1 || got[1].Line != 2 || got[2].Line != 4 {
		t.Fatalf("want lines 1,2,4, got %d,%d,%d", got[0].Line, got[1].Line, got[2].Line)
	}
}
