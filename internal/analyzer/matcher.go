package analyzer

import (
	"github.com/funvibe/distcheck/internal/ast"
	"github.com/funvibe/distcheck/internal/config"
	"github.com/funvibe/distcheck/internal/typesystem"
)

// matchContext carries what a template is matched against: the type whose
// members are scanned, and the requirement serialization constraints are
// checked against.
type matchContext struct {
	decl *ast.NominalDecl
	req  SerializationRequirement
}

// matchAll returns the members of decl named after tmpl that satisfy it,
// in declaration order.
func (c *Checker) matchAll(mc matchContext, tmpl *Template) []*ast.FuncDecl {
	var out []*ast.FuncDecl
	for _, member := range c.env.LookupDirectMembers(mc.decl, tmpl.Name) {
		fn, ok := member.(*ast.FuncDecl)
		if !ok {
			continue
		}
		if c.matches(mc, tmpl, fn) {
			out = append(out, fn)
		}
	}
	return out
}

// matches tests one candidate against a template. Every condition must hold;
// there is no partial credit.
func (c *Checker) matches(mc matchContext, tmpl *Template, fn *ast.FuncDecl) bool {
	if fn.IsStatic {
		return false
	}
	if !tmpl.Async.admits(fn.IsAsync) || !tmpl.Throws.admits(fn.Throws) {
		return false
	}
	if tmpl.MutatingCapable && !fn.IsMutating && !mc.decl.IsReferenceType() {
		return false
	}
	if len(fn.Params) != len(tmpl.Params) || len(fn.GenericParams) != len(tmpl.Generics) {
		return false
	}

	bindings, ok := c.bindParams(mc, tmpl, fn)
	if !ok {
		return false
	}
	if !c.matchResult(mc, tmpl, fn, bindings) {
		return false
	}
	// Each role bound to a distinct parameter, and every parameter used.
	if len(bindings) != len(tmpl.Generics) {
		return false
	}
	seen := make(map[string]bool, len(bindings))
	for _, name := range bindings {
		if seen[name] {
			return false
		}
		seen[name] = true
	}

	reqs := c.env.CanonicalRequirements(fn.Requirements, mc.decl)
	for _, slot := range tmpl.Generics {
		param, ok := bindings[slot.Role]
		if !ok {
			return false
		}
		if !c.satisfiesConstraints(mc, tmpl, typesystem.TParam{Name: param}, slot.Constraints, reqs) {
			return false
		}
	}
	return true
}

type roleBindings map[GenericRole]string

func (b roleBindings) bind(role GenericRole, name string) bool {
	if prev, ok := b[role]; ok {
		return prev == name
	}
	b[role] = name
	return true
}

func (c *Checker) bindParams(mc matchContext, tmpl *Template, fn *ast.FuncDecl) (roleBindings, bool) {
	bindings := make(roleBindings)
	for i, slot := range tmpl.Params {
		p := fn.Params[i]
		if tmpl.CheckLabels && p.ArgumentName() != slot.Label {
			return nil, false
		}
		if p.IsVariadic || p.IsInOut != (slot.Role == RoleInvocation) {
			return nil, false
		}
		t := c.env.Canonicalize(p.Type, mc.decl)
		switch slot.Role {
		case RoleGenericValue:
			if !fn.IsGenericParam(t) || !bindings.bind(slot.Generic, t.(typesystem.TParam).Name) {
				return nil, false
			}
		case RoleGenericMeta:
			meta, ok := t.(typesystem.TMetatype)
			if !ok || !fn.IsGenericParam(meta.Instance) || !bindings.bind(slot.Generic, meta.Instance.(typesystem.TParam).Name) {
				return nil, false
			}
		case RoleTarget:
			if !typesystem.Equal(t, typesystem.TCon{Name: config.RemoteCallTargetType}) {
				return nil, false
			}
		case RoleInvocation:
			encoder := c.env.Canonicalize(typesystem.TCon{Name: config.InvocationEncoderName}, mc.decl)
			if !typesystem.Equal(t, encoder) {
				return nil, false
			}
		}
	}
	return bindings, true
}

func (c *Checker) matchResult(mc matchContext, tmpl *Template, fn *ast.FuncDecl, bindings roleBindings) bool {
	switch tmpl.Result {
	case ResultAbsent:
		return fn.Result == nil
	case ResultAbsentOrVoid:
		return fn.Result == nil || typesystem.IsVoid(c.env.Canonicalize(fn.Result, mc.decl))
	case ResultGeneric:
		if fn.Result == nil {
			return false
		}
		t := c.env.Canonicalize(fn.Result, mc.decl)
		if !fn.IsGenericParam(t) {
			return false
		}
		// The decoder has no parameters; its generic is bound here.
		return bindings.bind(tmpl.ResultRole, t.(typesystem.TParam).Name)
	}
	return false
}

func (c *Checker) satisfiesConstraints(mc matchContext, tmpl *Template, param typesystem.TParam, constraints []Constraint, reqs []typesystem.Requirement) bool {
	for _, con := range constraints {
		switch con {
		case ConstrainDistributedActor:
			if !c.requiresConformance(param, config.DistributedActorProtocol, reqs) {
				return false
			}
		case ConstrainError:
			if !c.requiresConformance(param, config.ErrorProtocol, reqs) {
				return false
			}
		case ConstrainActorID:
			if !c.requiresActorID(mc, param, reqs) {
				return false
			}
		case ConstrainSerialization:
			if tmpl.CountCoverage {
				if countCovered(param, mc.req, reqs) != mc.req.Len() {
					return false
				}
				continue
			}
			for _, proto := range mc.req.Protocols() {
				if !c.requiresConformance(param, proto, reqs) {
					return false
				}
			}
		}
	}
	return true
}

// requiresConformance reports whether reqs make param conform to proto,
// directly or through a refining protocol.
func (c *Checker) requiresConformance(param typesystem.TParam, proto string, reqs []typesystem.Requirement) bool {
	for _, r := range reqs {
		name, ok := r.ProtocolName()
		if !ok || !typesystem.Equal(r.Subject, param) {
			continue
		}
		if name == proto || c.env.Refines(name, proto) {
			return true
		}
	}
	return false
}

// countCovered counts the conformance requirements on param that name a
// protocol of req. Requirements are deduplicated by canonicalization.
func countCovered(param typesystem.TParam, req SerializationRequirement, reqs []typesystem.Requirement) int {
	n := 0
	for _, r := range reqs {
		name, ok := r.ProtocolName()
		if ok && typesystem.Equal(r.Subject, param) && req.Has(name) {
			n++
		}
	}
	return n
}

// requiresActorID looks for param.ID == ActorID in either orientation, with
// ActorID read from the conforming type.
func (c *Checker) requiresActorID(mc matchContext, param typesystem.TParam, reqs []typesystem.Requirement) bool {
	member := typesystem.TMember{Base: param, Name: config.ActorIDMemberName}
	actorID := c.env.Canonicalize(typesystem.TCon{Name: config.ActorIDName}, mc.decl)
	if typesystem.HasError(actorID) {
		return false
	}
	for _, r := range reqs {
		if r.Kind != typesystem.SameTypeRequirement {
			continue
		}
		if typesystem.Equal(r.Subject, member) && typesystem.Equal(r.Constraint, actorID) {
			return true
		}
		if typesystem.Equal(r.Constraint, member) && typesystem.Equal(r.Subject, actorID) {
			return true
		}
	}
	return false
}
