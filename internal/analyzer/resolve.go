package analyzer

import (
	"fmt"
	"strings"

	"github.com/funvibe/distcheck/internal/ast"
	"github.com/funvibe/distcheck/internal/config"
	"github.com/funvibe/distcheck/internal/requests"
	"github.com/funvibe/distcheck/internal/typesystem"
)

// AmbiguousAdHocWitnessError is the panic value raised when more than one
// member satisfies an ad-hoc template. A type that reached resolution was
// admitted as conforming, so a tie means that admission was wrong.
type AmbiguousAdHocWitnessError struct {
	Decl       *ast.NominalDecl
	Op         Operation
	Candidates []*ast.FuncDecl
}

func (e *AmbiguousAdHocWitnessError) Error() string {
	lines := make([]string, len(e.Candidates))
	for i, fn := range e.Candidates {
		lines[i] = fmt.Sprintf("%d:%d", fn.Token.Line, fn.Token.Column)
	}
	return fmt.Sprintf("internal error: %d members of '%s' match ad-hoc requirement '%s' (at %s)",
		len(e.Candidates), e.Decl.Name, e.Op, strings.Join(lines, ", "))
}

// Resolve returns the member of decl that witnesses op, or nil. The scan
// runs at most once per (decl, op); a re-entrant call made while that scan
// is in flight gets nil without affecting the stored answer. Resolve panics
// with *AmbiguousAdHocWitnessError when several members match.
func (c *Checker) Resolve(decl *ast.NominalDecl, op Operation) *ast.FuncDecl {
	res, status := c.candidates(decl, op)
	if status == requests.Cycle {
		return nil
	}
	if len(res.matches) > 1 {
		panic(&AmbiguousAdHocWitnessError{Decl: decl, Op: op, Candidates: res.matches})
	}
	return res.first()
}

// candidates returns every match for (decl, op) through the cache.
func (c *Checker) candidates(decl *ast.NominalDecl, op Operation) (resolution, requests.Status) {
	key := resolutionKey{decl: decl, op: op}
	res, status := c.resolutions.Evaluate(key, func() resolution {
		return c.computeResolution(decl, op)
	})
	if status == requests.Computed {
		c.logf("resolved %s on %s: %d match(es)", op, decl.Name, len(res.matches))
	}
	return res, status
}

// computeResolution is the uncached scan.
func (c *Checker) computeResolution(decl *ast.NominalDecl, op Operation) resolution {
	if decl == nil || !c.env.IsModuleLoaded(config.DistributedModuleName) {
		return resolution{}
	}
	tmpl := op.Template()
	if tmpl == nil {
		return resolution{}
	}
	mc := matchContext{decl: decl, req: c.requirementOrUnconstrained(decl, tmpl.Marker)}
	return resolution{matches: c.matchAll(mc, tmpl)}
}

// ActorSystemDecl returns the actor system type of a distributed actor: its
// ActorSystem binding, or the module's DefaultDistributedActorSystem.
func (c *Checker) ActorSystemDecl(actor *ast.NominalDecl) (*ast.NominalDecl, bool) {
	t, ok := c.ActorSystemType(actor)
	if !ok {
		return nil, false
	}
	name, ok := typesystem.NominalName(t)
	if !ok {
		return nil, false
	}
	return c.env.FindNominal(name)
}

// ActorSystemType is the canonical actor system type of actor.
func (c *Checker) ActorSystemType(actor *ast.NominalDecl) (typesystem.Type, bool) {
	if t, ok := c.env.AssociatedType(actor, config.ActorSystemName); ok {
		return t, !typesystem.HasError(t)
	}
	fallback := typesystem.TCon{Name: config.DefaultDistributedActorSystemName}
	t, err := c.env.ResolveTypeAlias(fallback, nil)
	if err != nil || typesystem.Equal(t, fallback) {
		return nil, false
	}
	t = c.env.Canonicalize(t, nil)
	return t, !typesystem.HasError(t)
}

// InvocationDecoder returns the decoder type the actor's system declares.
func (c *Checker) InvocationDecoder(actor *ast.NominalDecl) (*ast.NominalDecl, bool) {
	system, ok := c.ActorSystemDecl(actor)
	if !ok {
		return nil, false
	}
	t, ok := c.env.AssociatedType(system, config.InvocationDecoderName)
	if !ok {
		return nil, false
	}
	name, ok := typesystem.NominalName(t)
	if !ok {
		return nil, false
	}
	return c.env.FindNominal(name)
}

// ArgumentDecodingMethod resolves decodeNextArgument on the decoder of
// actor's system, matched against the actor's serialization requirement.
// It panics with *AmbiguousAdHocWitnessError on a tie.
func (c *Checker) ArgumentDecodingMethod(actor *ast.NominalDecl) *ast.FuncDecl {
	res, status := c.decodingMethods.Evaluate(actor, func() resolution {
		if !c.env.IsModuleLoaded(config.DistributedModuleName) {
			return resolution{}
		}
		decoder, ok := c.InvocationDecoder(actor)
		if !ok {
			return resolution{}
		}
		mc := matchContext{decl: decoder, req: c.requirementOrUnconstrained(actor, MarkerDistributedActor)}
		return resolution{matches: c.matchAll(mc, OpDecodeNextArgument.Template())}
	})
	if status == requests.Cycle {
		return nil
	}
	if len(res.matches) > 1 {
		decoder, _ := c.InvocationDecoder(actor)
		panic(&AmbiguousAdHocWitnessError{Decl: decoder, Op: OpDecodeNextArgument, Candidates: res.matches})
	}
	return res.first()
}

// RemoteCallTargetInitializer finds init(_mangledName:) on RemoteCallTarget.
func (c *Checker) RemoteCallTargetInitializer() *ast.ConstructorDecl {
	target, ok := c.env.FindNominal(config.RemoteCallTargetType)
	if !ok {
		return nil
	}
	for _, m := range c.env.LookupDirectMembers(target, "init") {
		ctor, ok := m.(*ast.ConstructorDecl)
		if !ok || len(ctor.Params) != 1 {
			continue
		}
		p := ctor.Params[0]
		if p.ArgumentName() == config.MangledNameLabel &&
			c.env.TypesEqual(p.Type, typesystem.TCon{Name: "String"}, target) {
			return ctor
		}
	}
	return nil
}

// IsDistributedActor reports whether decl is a distributed actor, or a
// protocol refining DistributedActor.
func (c *Checker) IsDistributedActor(decl *ast.NominalDecl) bool {
	if decl == nil {
		return false
	}
	if decl.Kind == ast.KindActor && decl.Distributed {
		return true
	}
	if decl.Kind == ast.KindProtocol {
		return decl.Name == config.DistributedActorProtocol || c.env.Refines(decl.Name, config.DistributedActorProtocol)
	}
	return false
}
