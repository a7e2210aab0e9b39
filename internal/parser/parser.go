package parser

import (
	"fmt"

	"github.com/funvibe/distcheck/internal/diagnostics"
	"github.com/funvibe/distcheck/internal/lexer"
	"github.com/funvibe/distcheck/internal/token"
)

// Parser is a recursive-descent parser over the type-expression language
// of unit files.
type Parser struct {
	l         *lexer.Lexer
	curToken  token.Token
	peekToken token.Token
	errors    []*diagnostics.DiagnosticError
}

func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}
	// Read two tokens, so curToken and peekToken are both set
	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) Errors() []*diagnostics.DiagnosticError {
	return p.errors
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) curTokenIs(t token.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t token.TokenType) bool {
	return p.peekToken.Type == t
}

func (p *Parser) expectPeek(t token.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

func (p *Parser) peekError(t token.TokenType) {
	p.errorf(p.peekToken, "expected %s, got %s", describe(t), describeToken(p.peekToken))
}

func (p *Parser) errorf(tok token.Token, format string, args ...interface{}) {
	p.errors = append(p.errors, diagnostics.NewError(diagnostics.ErrL002, tok, fmt.Sprintf(format, args...)))
}

// expectEnd reports trailing input after a complete construct.
func (p *Parser) expectEnd() bool {
	if !p.peekTokenIs(token.EOF) {
		p.errorf(p.peekToken, "unexpected %s", describeToken(p.peekToken))
		return false
	}
	return true
}

func describe(t token.TokenType) string {
	switch t {
	case token.IDENT:
		return "identifier"
	case token.EOF:
		return "end of input"
	default:
		return "'" + string(t) + "'"
	}
}

func describeToken(tok token.Token) string {
	if tok.Type == token.EOF {
		return "end of input"
	}
	return "'" + tok.Lexeme + "'"
}
