package parser

import (
	"github.com/funvibe/distcheck/internal/token"
	"github.com/funvibe/distcheck/internal/typesystem"
)

// ParseRequirement parses "T: P", "T: A & B" or "T.A == U".
func (p *Parser) ParseRequirement() (typesystem.Requirement, bool) {
	subject := p.parsePostfixType()
	if subject == nil {
		return typesystem.Requirement{}, false
	}

	switch {
	case p.peekTokenIs(token.COLON):
		p.nextToken()
		p.nextToken()
		constraint := p.ParseType()
		if constraint == nil {
			return typesystem.Requirement{}, false
		}
		return typesystem.Requirement{
			Kind:       typesystem.ConformanceRequirement,
			Subject:    subject,
			Constraint: constraint,
		}, true
	case p.peekTokenIs(token.EQ):
		p.nextToken()
		p.nextToken()
		other := p.ParseType()
		if other == nil {
			return typesystem.Requirement{}, false
		}
		return typesystem.SameType(subject, other), true
	default:
		p.errorf(p.peekToken, "expected ':' or '==' in requirement, got %s", describeToken(p.peekToken))
		return typesystem.Requirement{}, false
	}
}
