package analyzer

import (
	"fmt"

	"github.com/funvibe/distcheck/internal/ast"
	"github.com/funvibe/distcheck/internal/diagnostics"
)

// CheckMarkerProtocolAdHocRequirements checks that decl provides every
// ad-hoc operation of proto, diagnosing each missing, ambiguous or
// insufficiently visible one. It returns true when anything was wrong.
func (c *Checker) CheckMarkerProtocolAdHocRequirements(proto MarkerProtocol, decl *ast.NominalDecl) bool {
	anyMissing := false
	for _, op := range proto.Operations() {
		res, _ := c.candidates(decl, op)
		switch len(res.matches) {
		case 0:
			c.diagnoseMissing(proto, decl, op)
			anyMissing = true
		case 1:
			if c.checkAdHocRequirementAccessControl(proto, decl, res.matches[0]) {
				anyMissing = true
			}
		default:
			c.diagnoseAmbiguous(decl, op, res.matches)
			anyMissing = true
		}
	}
	return anyMissing
}

func (c *Checker) diagnoseMissing(proto MarkerProtocol, decl *ast.NominalDecl, op Operation) {
	tmpl := op.Template()
	d := diagnostics.NewError(diagnostics.ErrD001, decl.Token,
		fmt.Sprintf("%s '%s' is missing witness for protocol requirement '%s'", decl.DescriptiveKind(), decl.Name, tmpl.Name)).
		WithDecl(decl.Name).
		WithNote(fmt.Sprintf("protocol '%s' requires function '%s' with signature:", proto.ProtocolName(), tmpl.Name), tmpl.Skeleton)
	c.report(d)
}

func (c *Checker) diagnoseAmbiguous(decl *ast.NominalDecl, op Operation, matches []*ast.FuncDecl) {
	d := diagnostics.NewError(diagnostics.ErrD002, decl.Token,
		fmt.Sprintf("%s '%s' has %d members matching ad-hoc requirement '%s'", decl.DescriptiveKind(), decl.Name, len(matches), op)).
		WithDecl(decl.Name)
	for _, fn := range matches {
		d = d.WithNote(fmt.Sprintf("candidate at line %d: %s", fn.Token.Line, fn.Signature()), "")
	}
	c.report(d)
}

// checkAdHocRequirementAccessControl requires a witness on a public type to
// be public itself.
func (c *Checker) checkAdHocRequirementAccessControl(proto MarkerProtocol, decl *ast.NominalDecl, fn *ast.FuncDecl) bool {
	if fn == nil || decl.EffectiveAccess() < ast.AccessPublic {
		return false
	}
	if fn.EffectiveAccess() >= ast.AccessPublic {
		return false
	}
	c.report(diagnostics.NewError(diagnostics.ErrD003, fn.Token,
		fmt.Sprintf("method '%s' must be as accessible as its enclosing type because it matches a requirement in protocol '%s'", fn.Name, proto.ProtocolName())).
		WithDecl(decl.Name).
		WithNote(fmt.Sprintf("mark the method '%s' to satisfy the requirement", ast.AccessPublic), ""))
	return true
}
