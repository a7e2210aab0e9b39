package analyzer

import (
	"github.com/funvibe/distcheck/internal/ast"
	"github.com/funvibe/distcheck/internal/diagnostics"
)

// CheckDistributedActor runs every declaration-level check on a distributed
// actor: initializers, reserved properties, distributed functions and
// properties. Nothing beyond the missing-module diagnostic is reported when
// the Distributed module is unavailable.
func (c *Checker) CheckDistributedActor(decl *ast.NominalDecl) {
	if decl == nil || !c.IsDistributedActor(decl) || decl.Kind == ast.KindProtocol {
		return
	}
	if !c.EnsureDistributedModuleLoaded(decl) {
		return
	}
	c.logf("checking distributed actor %s", decl.Name)
	c.checkDistributedActorProperties(decl)
	w := &memberWalker{checker: c, decl: decl}
	for _, m := range decl.AllMembers() {
		m.Accept(w)
	}
}

// CheckUnit checks every type declared in the unit: ad-hoc requirements of
// each marker protocol it conforms to, then distributed actor rules.
func (c *Checker) CheckUnit() {
	for _, decl := range c.env.Declarations() {
		c.checkDecl(decl)
	}
}

func (c *Checker) checkDecl(decl *ast.NominalDecl) {
	if decl.Kind != ast.KindProtocol {
		conformances := c.env.Conformances(decl)
		for _, marker := range MarkerProtocols {
			if !conformances.Has(marker.ProtocolName()) {
				continue
			}
			if !c.EnsureDistributedModuleLoaded(decl) {
				break
			}
			c.CheckMarkerProtocolAdHocRequirements(marker, decl)
		}
	}
	c.CheckDistributedActor(decl)
}

// memberWalker visits the members of one distributed actor.
type memberWalker struct {
	checker *Checker
	decl    *ast.NominalDecl
}

func (w *memberWalker) VisitFunc(fn *ast.FuncDecl) {
	if fn.IsDistributed {
		w.checker.CheckDistributedFunction(fn)
	}
}

func (w *memberWalker) VisitVar(v *ast.VarDecl) {
	if v.IsDistributed {
		w.checker.CheckDistributedProperty(v)
	}
}

func (w *memberWalker) VisitConstructor(ctor *ast.ConstructorDecl) {
	w.checker.CheckDistributedConstructor(w.decl, ctor)
}

func (w *memberWalker) VisitTypeAlias(*ast.TypeAliasDecl) {}

var _ ast.Visitor = (*memberWalker)(nil)

// recoverAmbiguity turns an ambiguity panic into an internal diagnostic so a
// driver can keep going with other units.
func recoverAmbiguity(sink diagnostics.Sink, r interface{}) bool {
	amb, ok := r.(*AmbiguousAdHocWitnessError)
	if !ok {
		return false
	}
	tok := amb.Decl.GetToken()
	sink.Report(diagnostics.NewError(diagnostics.ErrI001, tok, amb.Error()).WithDecl(amb.Decl.Name))
	return true
}
