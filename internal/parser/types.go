package parser

import (
	"github.com/funvibe/distcheck/internal/token"
	"github.com/funvibe/distcheck/internal/typesystem"
)

// ParseType parses a complete type expression. curToken must be on its
// first token; on return curToken is on its last.
func (p *Parser) ParseType() typesystem.Type {
	// Parse primary type (including function types)
	t := p.parsePostfixType()
	if t == nil {
		return nil
	}

	// Check for composition 'A & B & C'
	if p.peekTokenIs(token.AMP) {
		members := []typesystem.Type{t}
		for p.peekTokenIs(token.AMP) {
			p.nextToken() // consume '&'
			p.nextToken() // move to next type
			next := p.parsePostfixType()
			if next == nil {
				return nil
			}
			members = append(members, next)
		}
		return typesystem.TComposition{Members: members}
	}

	return t
}

func (p *Parser) parsePostfixType() typesystem.Type {
	t := p.parsePrimaryType()
	if t == nil {
		return nil
	}
	for {
		switch {
		case p.peekTokenIs(token.DOT):
			p.nextToken() // consume '.'
			switch {
			case p.peekTokenIs(token.TPE):
				p.nextToken()
				t = typesystem.TMetatype{Instance: t}
			case p.peekTokenIs(token.IDENT):
				p.nextToken()
				t = typesystem.TMember{Base: t, Name: p.curToken.Lexeme}
			default:
				p.errorf(p.peekToken, "expected member name or 'Type' after '.', got %s", describeToken(p.peekToken))
				return nil
			}
		case p.peekTokenIs(token.QUESTION):
			p.nextToken()
			t = typesystem.TOptional{Wrapped: t}
		default:
			return t
		}
	}
}

func (p *Parser) parsePrimaryType() typesystem.Type {
	switch p.curToken.Type {
	case token.ANY:
		return typesystem.TAny{}
	case token.IDENT:
		if p.curToken.Lexeme == "Void" {
			return typesystem.Void
		}
		return typesystem.TCon{Name: p.curToken.Lexeme}
	case token.LBRACKET:
		p.nextToken()
		elem := p.ParseType()
		if elem == nil {
			return nil
		}
		if !p.expectPeek(token.RBRACKET) {
			return nil
		}
		return typesystem.TArray{Element: elem}
	case token.LPAREN:
		return p.parseParenType()
	default:
		p.errorf(p.curToken, "expected type, got %s", describeToken(p.curToken))
		return nil
	}
}

// parseParenType parses (), (A), (A, B) and (A, B) -> R.
func (p *Parser) parseParenType() typesystem.Type {
	var elems []typesystem.Type
	if !p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		first := p.ParseType()
		if first == nil {
			return nil
		}
		elems = append(elems, first)
		for p.peekTokenIs(token.COMMA) {
			p.nextToken() // consume ','
			p.nextToken()
			next := p.ParseType()
			if next == nil {
				return nil
			}
			elems = append(elems, next)
		}
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}

	if p.peekTokenIs(token.ARROW) {
		p.nextToken() // consume '->'
		p.nextToken()
		ret := p.ParseType()
		if ret == nil {
			return nil
		}
		return typesystem.TFunc{Params: elems, ReturnType: ret}
	}

	if len(elems) == 1 {
		return elems[0]
	}
	return typesystem.TTuple{Elements: elems}
}
