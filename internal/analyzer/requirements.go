package analyzer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/creachadair/mds/mapset"
	"github.com/funvibe/distcheck/internal/ast"
	"github.com/funvibe/distcheck/internal/config"
	"github.com/funvibe/distcheck/internal/requests"
	"github.com/funvibe/distcheck/internal/typesystem"
)

// SerializationRequirement is the flattened set of protocols every value
// crossing the transport must conform to. The zero value is unconstrained.
type SerializationRequirement struct {
	protocols mapset.Set[string]
	// IsCodable is set when the set is exactly {Encodable, Decodable}.
	IsCodable bool
}

// NewSerializationRequirement builds a requirement from protocol names.
func NewSerializationRequirement(protos ...string) SerializationRequirement {
	set := mapset.New(protos...)
	return SerializationRequirement{protocols: set, IsCodable: isCodableSet(set)}
}

func isCodableSet(set mapset.Set[string]) bool {
	return set.Len() == 2 && set.Has(config.EncodableProtocol) && set.Has(config.DecodableProtocol)
}

// Len is the number of protocols.
func (r SerializationRequirement) Len() int { return r.protocols.Len() }

// Has reports whether proto is part of the requirement.
func (r SerializationRequirement) Has(proto string) bool { return r.protocols.Has(proto) }

// IsUnconstrained reports whether any type satisfies the requirement.
func (r SerializationRequirement) IsUnconstrained() bool { return r.protocols.IsEmpty() }

// Protocols returns the protocol names sorted.
func (r SerializationRequirement) Protocols() []string {
	out := r.protocols.Slice()
	sort.Strings(out)
	return out
}

// Set returns a copy of the underlying protocol set.
func (r SerializationRequirement) Set() mapset.Set[string] { return r.protocols.Clone() }

// Equal compares two requirements as sets.
func (r SerializationRequirement) Equal(o SerializationRequirement) bool {
	return r.protocols.Equals(o.protocols)
}

// Name is how diagnostics spell the requirement.
func (r SerializationRequirement) Name() string {
	if r.IsCodable {
		return config.CodableAlias
	}
	if r.IsUnconstrained() {
		return config.AnyTypeName
	}
	return strings.Join(r.Protocols(), " & ")
}

func (r SerializationRequirement) String() string { return r.Name() }

// RequirementExpr is a serialization requirement as written: a single
// protocol, a conjunction of sub-expressions, or unconstrained.
type RequirementExpr interface {
	isRequirementExpr()
}

type SingleRequirement struct{ Protocol string }
type ConjunctionRequirement struct{ Parts []RequirementExpr }
type UnconstrainedRequirement struct{}

func (SingleRequirement) isRequirementExpr()        {}
func (ConjunctionRequirement) isRequirementExpr()   {}
func (UnconstrainedRequirement) isRequirementExpr() {}

// Flatten collects every protocol named anywhere in expr.
func Flatten(expr RequirementExpr) SerializationRequirement {
	set := mapset.New[string]()
	var walk func(RequirementExpr)
	walk = func(e RequirementExpr) {
		switch ex := e.(type) {
		case SingleRequirement:
			set.Add(ex.Protocol)
		case ConjunctionRequirement:
			for _, p := range ex.Parts {
				walk(p)
			}
		}
	}
	walk(expr)
	return SerializationRequirement{protocols: set, IsCodable: isCodableSet(set)}
}

// UnresolvableRequirementError means no usable serialization requirement
// could be located; callers treat it as unconstrained.
type UnresolvableRequirementError struct {
	Decl   string
	Reason string
}

func (e *UnresolvableRequirementError) Error() string {
	return fmt.Sprintf("cannot resolve %s of '%s': %s", config.SerializationRequirementName, e.Decl, e.Reason)
}

// SerializationRequirementOf locates the requirement that governs decl in
// its role as marker and flattens it. Results are cached per (decl, marker).
func (c *Checker) SerializationRequirementOf(decl *ast.NominalDecl, marker MarkerProtocol) (SerializationRequirement, error) {
	key := requirementKey{decl: decl, marker: marker}
	res, status := c.requirements.Evaluate(key, func() requirementResult {
		req, err := c.computeRequirement(decl, marker)
		return requirementResult{req: req, err: err}
	})
	if status == requests.Cycle {
		return SerializationRequirement{}, &UnresolvableRequirementError{Decl: decl.Name, Reason: "requirement depends on itself"}
	}
	return res.req, res.err
}

// requirementOrUnconstrained is SerializationRequirementOf with failures
// mapped to the unconstrained requirement.
func (c *Checker) requirementOrUnconstrained(decl *ast.NominalDecl, marker MarkerProtocol) SerializationRequirement {
	req, err := c.SerializationRequirementOf(decl, marker)
	if err != nil {
		c.logf("%v; treating as unconstrained", err)
		return SerializationRequirement{}
	}
	return req
}

func (c *Checker) computeRequirement(decl *ast.NominalDecl, marker MarkerProtocol) (SerializationRequirement, error) {
	binding, ctx, err := c.requirementBinding(decl, marker)
	if err != nil {
		return SerializationRequirement{}, err
	}
	expr, err := c.BuildRequirementExpr(binding, ctx)
	if err != nil {
		return SerializationRequirement{}, err
	}
	return Flatten(expr), nil
}

// requirementBinding finds the type bound to SerializationRequirement and
// the context it was written in. Actors inherit their actor system's
// binding when they declare none.
func (c *Checker) requirementBinding(decl *ast.NominalDecl, marker MarkerProtocol) (typesystem.Type, *ast.NominalDecl, error) {
	if alias, ok := decl.TypeAlias(config.SerializationRequirementName); ok {
		return alias.Underlying, decl, nil
	}
	if marker != MarkerDistributedActor {
		return nil, nil, &UnresolvableRequirementError{Decl: decl.Name, Reason: "no binding"}
	}
	system, ok := c.ActorSystemDecl(decl)
	if !ok {
		return nil, nil, &UnresolvableRequirementError{Decl: decl.Name, Reason: "actor system unknown"}
	}
	if alias, ok := system.TypeAlias(config.SerializationRequirementName); ok {
		return alias.Underlying, system, nil
	}
	return nil, nil, &UnresolvableRequirementError{Decl: system.Name, Reason: "no binding"}
}

// BuildRequirementExpr interprets t, written in ctx, as a serialization
// requirement. Aliases are expanded through any depth of nesting.
func (c *Checker) BuildRequirementExpr(t typesystem.Type, ctx *ast.NominalDecl) (RequirementExpr, error) {
	resolved, err := c.env.ResolveTypeAlias(t, ctx)
	if err != nil {
		return nil, &UnresolvableRequirementError{Decl: nameOf(ctx), Reason: err.Error()}
	}
	switch typ := resolved.(type) {
	case typesystem.TAny:
		return UnconstrainedRequirement{}, nil
	case typesystem.TComposition:
		parts := make([]RequirementExpr, 0, len(typ.Members))
		for _, m := range typ.Members {
			part, err := c.BuildRequirementExpr(m, ctx)
			if err != nil {
				return nil, err
			}
			parts = append(parts, part)
		}
		return ConjunctionRequirement{Parts: parts}, nil
	case typesystem.TCon:
		if typ.Name == config.AnyTypeName {
			return UnconstrainedRequirement{}, nil
		}
		if _, ok := c.env.LookupProtocol(typ.Name); ok {
			return SingleRequirement{Protocol: typ.Name}, nil
		}
		return nil, &UnresolvableRequirementError{Decl: nameOf(ctx), Reason: fmt.Sprintf("'%s' is not a protocol", typ.Name)}
	default:
		return nil, &UnresolvableRequirementError{Decl: nameOf(ctx), Reason: fmt.Sprintf("'%s' cannot constrain serialization", resolved)}
	}
}

// BuildRequirementSet flattens the requirement bound on decl.
func (c *Checker) BuildRequirementSet(decl *ast.NominalDecl, marker MarkerProtocol) (SerializationRequirement, error) {
	return c.SerializationRequirementOf(decl, marker)
}

// effectiveRequirement is the requirement governing a distributed member:
// an extension's `SerializationRequirement == X` clause when present,
// otherwise the actor's.
func (c *Checker) effectiveRequirement(ctx ast.DeclContext) SerializationRequirement {
	nominal := ctx.SelfNominal()
	if ext, ok := ctx.(*ast.ExtensionDecl); ok {
		for _, r := range ext.Requirements {
			if r.Kind != typesystem.SameTypeRequirement {
				continue
			}
			var other typesystem.Type
			switch {
			case namesRequirementAlias(r.Subject):
				other = r.Constraint
			case namesRequirementAlias(r.Constraint):
				other = r.Subject
			default:
				continue
			}
			expr, err := c.BuildRequirementExpr(other, nominal)
			if err != nil {
				c.logf("%v; treating as unconstrained", err)
				return SerializationRequirement{}
			}
			return Flatten(expr)
		}
	}
	if nominal == nil {
		return SerializationRequirement{}
	}
	return c.requirementOrUnconstrained(nominal, MarkerDistributedActor)
}

// namesRequirementAlias matches SerializationRequirement and
// Self.SerializationRequirement.
func namesRequirementAlias(t typesystem.Type) bool {
	switch typ := t.(type) {
	case typesystem.TCon:
		return typ.Name == config.SerializationRequirementName
	case typesystem.TMember:
		base, ok := typ.Base.(typesystem.TCon)
		return ok && base.Name == config.SelfTypeName && typ.Name == config.SerializationRequirementName
	}
	return false
}

func nameOf(decl *ast.NominalDecl) string {
	if decl == nil {
		return "<module>"
	}
	return decl.Name
}
