package lexer

import (
	"testing"

	"github.com/funvibe/distcheck/internal/token"
)

func TestNextToken(t *testing.T) {
	input := `on actor: Act, target: RemoteCallTarget) -> [Res]? ... Act.ID == ActorID & Any.Type inout _mangled`

	tests := []struct {
		expectedType   token.TokenType
		expectedLexeme string
	}{
		{token.IDENT, "on"},
		{token.IDENT, "actor"},
		{token.COLON, ":"},
		{token.IDENT, "Act"},
		{token.COMMA, ","},
		{token.IDENT, "target"},
		{token.COLON, ":"},
		{token.IDENT, "RemoteCallTarget"},
		{token.RPAREN, ")"},
		{token.ARROW, "->"},
		{token.LBRACKET, "["},
		{token.IDENT, "Res"},
		{token.RBRACKET, "]"},
		{token.QUESTION, "?"},
		{token.ELLIPSIS, "..."},
		{token.IDENT, "Act"},
		{token.DOT, "."},
		{token.IDENT, "ID"},
		{token.EQ, "=="},
		{token.IDENT, "ActorID"},
		{token.AMP, "&"},
		{token.ANY, "Any"},
		{token.DOT, "."},
		{token.TPE, "Type"},
		{token.INOUT, "inout"},
		{token.IDENT, "_mangled"},
		{token.EOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q (%q)", i, tt.expectedType, tok.Type, tok.Lexeme)
		}
		if tok.Lexeme != tt.expectedLexeme {
			t.Fatalf("tests[%d] - lexeme wrong. expected=%q, got=%q", i, tt.expectedLexeme, tok.Lexeme)
		}
	}
}

func TestIllegalCharacters(t *testing.T) {
	for _, input := range []string{"=", "-", "#", "<"} {
		tok := New(input).NextToken()
		if tok.Type != token.ILLEGAL {
			t.Errorf("%q: expected ILLEGAL, got %q", input, tok.Type)
		}
	}
}

func TestDotsShortOfEllipsis(t *testing.T) {
	l := New("..")
	for i := 0; i < 2; i++ {
		if tok := l.NextToken(); tok.Type != token.DOT {
			t.Fatalf("token %d: expected DOT, got %q", i, tok.Type)
		}
	}
	if tok := l.NextToken(); tok.Type != token.EOF {
		t.Fatalf("expected EOF, got %q", tok.Type)
	}
}

func TestPositionsAreOffset(t *testing.T) {
	l := NewAt("x: Int", 7, 12)

	want := []struct {
		lexeme string
		col    int
	}{
		{"x", 13},
		{":", 14},
		{"Int", 16},
	}
	for _, w := range want {
		tok := l.NextToken()
		if tok.Lexeme != w.lexeme || tok.Line != 7 || tok.Column != w.col {
			t.Errorf("got %q at %s, want %q at 7:%d", tok.Lexeme, tok.Pos(), w.lexeme, w.col)
		}
	}
}

func TestNewStartsAtLineOne(t *testing.T) {
	tok := New("Int").NextToken()
	if tok.Line != 1 || tok.Column != 1 {
		t.Errorf("expected 1:1, got %s", tok.Pos())
	}
}
