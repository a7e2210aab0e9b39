package parser

import (
	"github.com/funvibe/distcheck/internal/ast"
	"github.com/funvibe/distcheck/internal/diagnostics"
	"github.com/funvibe/distcheck/internal/lexer"
	"github.com/funvibe/distcheck/internal/typesystem"
)

// TypeFromString parses a standalone type expression located at line:col.
func TypeFromString(src string, line, col int) (typesystem.Type, []*diagnostics.DiagnosticError) {
	p := New(lexer.NewAt(src, line, col))
	t := p.ParseType()
	if t == nil || !p.expectEnd() {
		return nil, p.Errors()
	}
	return t, nil
}

// ParamFromString parses a standalone parameter spec.
func ParamFromString(src string, line, col int) (*ast.ParamDecl, []*diagnostics.DiagnosticError) {
	p := New(lexer.NewAt(src, line, col))
	param := p.ParseParam()
	if param == nil || !p.expectEnd() {
		return nil, p.Errors()
	}
	return param, nil
}

// RequirementFromString parses a standalone where-clause entry.
func RequirementFromString(src string, line, col int) (typesystem.Requirement, []*diagnostics.DiagnosticError) {
	p := New(lexer.NewAt(src, line, col))
	req, ok := p.ParseRequirement()
	if !ok || !p.expectEnd() {
		return typesystem.Requirement{}, p.Errors()
	}
	return req, nil
}
