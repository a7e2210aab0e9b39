package parser

import (
	"github.com/funvibe/distcheck/internal/ast"
	"github.com/funvibe/distcheck/internal/token"
)

// ParseParam parses "[label] name: [inout] Type[...]".
func (p *Parser) ParseParam() *ast.ParamDecl {
	if !p.curTokenIs(token.IDENT) {
		p.errorf(p.curToken, "expected parameter name, got %s", describeToken(p.curToken))
		return nil
	}
	param := &ast.ParamDecl{Token: p.curToken}
	first := p.curToken.Lexeme

	if p.peekTokenIs(token.IDENT) {
		p.nextToken()
		param.Label = first
		param.Name = p.curToken.Lexeme
	} else {
		param.Label = first
		param.Name = first
	}

	if !p.expectPeek(token.COLON) {
		return nil
	}
	p.nextToken()

	if p.curTokenIs(token.INOUT) {
		param.IsInOut = true
		p.nextToken()
	}

	param.Type = p.ParseType()
	if param.Type == nil {
		return nil
	}

	if p.peekTokenIs(token.ELLIPSIS) {
		p.nextToken()
		param.IsVariadic = true
	}
	return param
}
