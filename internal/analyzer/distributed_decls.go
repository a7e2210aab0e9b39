package analyzer

import (
	"fmt"

	"github.com/funvibe/distcheck/internal/ast"
	"github.com/funvibe/distcheck/internal/config"
	"github.com/funvibe/distcheck/internal/diagnostics"
	"github.com/funvibe/distcheck/internal/typesystem"
)

// CheckDistributedFunction validates the parameters and result of a
// distributed function against the effective serialization requirement.
// Every defect is reported; the result is true when any was an error.
func (c *Checker) CheckDistributedFunction(fn *ast.FuncDecl) bool {
	if fn.Context == nil {
		return false
	}
	req := c.effectiveRequirement(fn.Context)
	nominal := fn.Context.SelfNominal()
	failed := false

	for _, p := range fn.Params {
		paramTy := c.env.Canonicalize(p.Type, nominal)
		if proto, ok := c.firstUnsatisfied(fn, paramTy, req); ok {
			d := diagnostics.NewError(diagnostics.ErrD004, p.Token,
				fmt.Sprintf("parameter '%s' of type '%s' in %s '%s' does not conform to serialization requirement '%s'",
					p.Name, p.Type, describeFunc(fn), fn.Name, requirementSpelling(req, proto))).
				WithDecl(fn.Name)
			c.report(c.withConformanceFixIt(d, paramTy, req, proto))
			failed = true
		}
		if p.IsInOut {
			c.report(diagnostics.NewError(diagnostics.ErrD006, p.Token,
				fmt.Sprintf("cannot declare 'inout' argument '%s' in %s '%s'", p.Name, describeFunc(fn), fn.Name)).
				WithDecl(fn.Name))
			failed = true
		}
		if p.IsVariadic {
			c.report(diagnostics.NewWarning(diagnostics.ErrD007, p.Token,
				fmt.Sprintf("cannot declare variadic argument '%s' in %s '%s'", p.Name, describeFunc(fn), fn.Name)).
				WithDecl(fn.Name))
		}
	}

	if c.checkDistributedTargetResultType(fn, fn.ResultType(), req, nominal) {
		failed = true
	}
	return failed
}

// CheckDistributedProperty validates a distributed computed property. Shape
// defects and the type check are all reported.
func (c *Checker) CheckDistributedProperty(v *ast.VarDecl) bool {
	failed := false
	if v.IsStatic {
		c.report(diagnostics.NewError(diagnostics.ErrD010, v.Token,
			fmt.Sprintf("'distributed' property '%s' cannot be 'static'", v.Name)).WithDecl(v.Name))
		failed = true
	}
	if v.IsLet || v.HasStorage {
		c.report(diagnostics.NewError(diagnostics.ErrD011, v.Token,
			fmt.Sprintf("%s '%s' cannot be 'distributed', only computed properties can", v.DescriptiveKind(), v.Name)).WithDecl(v.Name))
		failed = true
	}
	if v.HasSetter {
		c.report(diagnostics.NewError(diagnostics.ErrD012, v.Token,
			fmt.Sprintf("'distributed' computed property '%s' cannot have setter", v.Name)).WithDecl(v.Name))
		failed = true
	}
	if v.Context == nil {
		return failed
	}
	nominal := v.Context.SelfNominal()
	req := c.requirementOrUnconstrained(nominal, MarkerDistributedActor)
	return c.checkDistributedTargetResultType(v, v.Type, req, nominal) || failed
}

// CheckDistributedConstructor requires a designated initializer of a
// distributed actor to take exactly one parameter of the actor system type.
func (c *Checker) CheckDistributedConstructor(decl *ast.NominalDecl, ctor *ast.ConstructorDecl) {
	if !c.IsDistributedActor(decl) || decl.Kind == ast.KindProtocol {
		return
	}
	if !ctor.IsDesignated() {
		return
	}
	systemTy, ok := c.ActorSystemType(decl)
	if !ok {
		// Nothing to count against; the missing binding is diagnosed
		// where the conformance is checked.
		return
	}
	count := 0
	for _, p := range ctor.Params {
		if c.env.TypesEqual(p.Type, systemTy, decl) {
			count++
		}
	}
	switch {
	case count == 0:
		c.report(diagnostics.NewError(diagnostics.ErrD008, ctor.Token,
			fmt.Sprintf("designated distributed actor initializer '%s' is missing required %s parameter", ctor.FullName(), config.ActorSystemProtocol)).
			WithDecl(decl.Name))
	case count > 1:
		c.report(diagnostics.NewError(diagnostics.ErrD009, ctor.Token,
			fmt.Sprintf("designated distributed actor initializer '%s' must accept exactly one %s parameter, found %d", ctor.FullName(), config.ActorSystemProtocol, count)).
			WithDecl(decl.Name))
	}
}

// checkDistributedActorProperties rejects user-declared properties that
// collide with the synthesized actorSystem and id.
func (c *Checker) checkDistributedActorProperties(decl *ast.NominalDecl) {
	for _, m := range decl.Members {
		v, ok := m.(*ast.VarDecl)
		if !ok || v.IsSynthesized {
			continue
		}
		if v.Name == config.ActorSystemPropertyName || v.Name == config.IDPropertyName {
			c.report(diagnostics.NewError(diagnostics.ErrD014, v.Token,
				fmt.Sprintf("property '%s' cannot be defined explicitly, as it conflicts with distributed actor synthesized stored property", v.Name)).
				WithDecl(decl.Name))
		}
	}
}

// EnsureDistributedModuleLoaded reports once per declaration when the
// Distributed module is missing.
func (c *Checker) EnsureDistributedModuleLoaded(decl *ast.NominalDecl) bool {
	loaded, _ := c.moduleChecks.Evaluate(decl, func() bool {
		if c.env.IsModuleLoaded(config.DistributedModuleName) {
			return true
		}
		c.report(diagnostics.NewError(diagnostics.ErrD013, decl.Token,
			fmt.Sprintf("'%s' module not imported, required for '%s'", config.DistributedModuleName, describeRequirer(decl))).
			WithDecl(decl.Name))
		return false
	})
	return loaded
}

func describeRequirer(decl *ast.NominalDecl) string {
	if decl.Kind == ast.KindActor && decl.Distributed {
		return "distributed actor"
	}
	return decl.DescriptiveKind() + " " + decl.Name
}

// checkDistributedTargetResultType checks a function result or property
// type; Void needs nothing.
func (c *Checker) checkDistributedTargetResultType(target ast.Decl, resultTy typesystem.Type, req SerializationRequirement, nominal *ast.NominalDecl) bool {
	canonical := c.env.Canonicalize(resultTy, nominal)
	if typesystem.IsVoid(canonical) {
		return false
	}
	var fn *ast.FuncDecl
	kind := "property"
	if f, ok := target.(*ast.FuncDecl); ok {
		fn = f
		kind = describeFunc(f)
	}
	proto, ok := c.firstUnsatisfied(fn, canonical, req)
	if !ok {
		return false
	}
	d := diagnostics.NewError(diagnostics.ErrD005, target.GetToken(),
		fmt.Sprintf("result type '%s' of %s '%s' does not conform to serialization requirement '%s'",
			resultTy, kind, target.DeclName(), requirementSpelling(req, proto))).
		WithDecl(target.DeclName())
	c.report(c.withConformanceFixIt(d, canonical, req, proto))
	return true
}

// firstUnsatisfied returns the first protocol of req, in sorted order, that
// t fails to conform to. fn, when set, supplies generic requirements for
// its own generic parameters.
func (c *Checker) firstUnsatisfied(fn *ast.FuncDecl, t typesystem.Type, req SerializationRequirement) (string, bool) {
	for _, proto := range req.Protocols() {
		if !c.conformsInContext(fn, t, proto) {
			return proto, true
		}
	}
	return "", false
}

func (c *Checker) conformsInContext(fn *ast.FuncDecl, t typesystem.Type, proto string) bool {
	if fn != nil && fn.IsGenericParam(t) {
		var ctx *ast.NominalDecl
		if fn.Context != nil {
			ctx = fn.Context.SelfNominal()
		}
		reqs := c.env.CanonicalRequirements(fn.Requirements, ctx)
		if c.requiresConformance(t.(typesystem.TParam), proto, reqs) {
			return true
		}
		// A superclass bound brings the class's conformances along.
		for _, r := range reqs {
			if r.Kind == typesystem.SuperclassRequirement && typesystem.Equal(r.Subject, t) &&
				c.env.ConformsToProtocol(r.Constraint, proto, c.env.Module()) {
				return true
			}
		}
		return false
	}
	return c.env.ConformsToProtocol(t, proto, c.env.Module())
}

// requirementSpelling names the failed protocol, or Codable when the
// requirement is exactly the Codable pair.
func requirementSpelling(req SerializationRequirement, failed string) string {
	if req.IsCodable {
		return config.CodableAlias
	}
	return failed
}

// withConformanceFixIt suggests adding the missing conformance when the
// offending type is a nominal declared in this unit.
func (c *Checker) withConformanceFixIt(d *diagnostics.DiagnosticError, t typesystem.Type, req SerializationRequirement, failed string) *diagnostics.DiagnosticError {
	name, ok := typesystem.NominalName(t)
	if !ok {
		return d
	}
	decl, ok := c.env.FindNominal(name)
	if !ok || decl.Module != c.env.Module() {
		return d
	}
	sep := ": "
	if len(decl.Inherited) > 0 {
		sep = ", "
	}
	return d.WithFixIt(decl.Name, sep+requirementSpelling(req, failed))
}

func describeFunc(fn *ast.FuncDecl) string {
	if fn.IsDistributed {
		return "distributed instance method"
	}
	return "instance method"
}
