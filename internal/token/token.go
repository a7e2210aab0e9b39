package token

import "fmt"

type TokenType string

const (
	ILLEGAL TokenType = "ILLEGAL"
	EOF     TokenType = "EOF"

	IDENT TokenType = "IDENT"

	COLON    TokenType = ":"
	COMMA    TokenType = ","
	DOT      TokenType = "."
	AMP      TokenType = "&"
	EQ       TokenType = "=="
	LPAREN   TokenType = "("
	RPAREN   TokenType = ")"
	LBRACKET TokenType = "["
	RBRACKET TokenType = "]"
	ARROW    TokenType = "->"
	ELLIPSIS TokenType = "..."
	QUESTION TokenType = "?"

	// Keywords
	INOUT TokenType = "INOUT"
	ANY   TokenType = "ANY"
	TPE   TokenType = "TYPE" // the `.Type` metatype suffix
)

var keywords = map[string]TokenType{
	"inout": INOUT,
	"Any":   ANY,
	"Type":  TPE,
}

// LookupIdent returns the keyword type for ident, or IDENT.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// Token is a lexical token. Declarations loaded from unit files also carry
// one so diagnostics can point at the declaration site.
type Token struct {
	Type    TokenType
	Lexeme  string
	Literal interface{}
	Line    int
	Column  int
}

// Pos renders the token position as line:col.
func (t Token) Pos() string {
	return fmt.Sprintf("%d:%d", t.Line, t.Column)
}

// At builds a positional token for a declaration site.
func At(line, column int, lexeme string) Token {
	return Token{Type: IDENT, Lexeme: lexeme, Literal: lexeme, Line: line, Column: column}
}
