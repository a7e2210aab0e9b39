package symbols

import (
	"github.com/funvibe/distcheck/internal/ast"
	"github.com/funvibe/distcheck/internal/typesystem"
)

// LookupDirectMembers returns the members named name declared on decl or
// on extensions of decl itself. Protocol extensions and superclasses are
// never searched.
func (s *SymbolTable) LookupDirectMembers(decl *ast.NominalDecl, name string) []ast.Decl {
	var out []ast.Decl
	for _, m := range decl.AllMembers() {
		if m.DeclName() == name {
			out = append(out, m)
		}
	}
	return out
}

// AssociatedType returns the canonical type a conforming type binds to an
// associated type name, via its typealias members.
func (s *SymbolTable) AssociatedType(decl *ast.NominalDecl, name string) (typesystem.Type, bool) {
	alias, ok := decl.TypeAlias(name)
	if !ok {
		return nil, false
	}
	return s.Canonicalize(alias.Underlying, decl), true
}

// CanonicalRequirements rewrites a where clause the way a generic signature
// would state it: every type canonicalized, conformances to aliases and
// compositions split into one requirement per protocol, conformances to
// Any dropped, class constraints turned into superclass requirements and
// duplicates removed. Order of first appearance is kept.
func (s *SymbolTable) CanonicalRequirements(reqs []typesystem.Requirement, ctx *ast.NominalDecl) []typesystem.Requirement {
	var out []typesystem.Requirement
	seen := make(map[string]bool)
	add := func(r typesystem.Requirement) {
		key := r.String()
		if seen[key] {
			return
		}
		seen[key] = true
		out = append(out, r)
	}

	for _, r := range reqs {
		subject := s.Canonicalize(r.Subject, ctx)
		constraint := s.Canonicalize(r.Constraint, ctx)
		switch r.Kind {
		case typesystem.ConformanceRequirement:
			for _, c := range splitComposition(constraint) {
				if con, ok := c.(typesystem.TCon); ok {
					if decl, found := s.FindNominal(con.Name); found && decl.Kind != ast.KindProtocol {
						add(typesystem.Requirement{Kind: typesystem.SuperclassRequirement, Subject: subject, Constraint: c})
						continue
					}
					add(typesystem.Conforms(subject, con.Name))
					continue
				}
				add(typesystem.Requirement{Kind: typesystem.ConformanceRequirement, Subject: subject, Constraint: c})
			}
		default:
			add(typesystem.Requirement{Kind: r.Kind, Subject: subject, Constraint: constraint})
		}
	}
	return out
}

func splitComposition(t typesystem.Type) []typesystem.Type {
	switch typ := t.(type) {
	case typesystem.TAny:
		return nil
	case typesystem.TComposition:
		var out []typesystem.Type
		for _, m := range typ.Members {
			out = append(out, splitComposition(m)...)
		}
		return out
	default:
		return []typesystem.Type{t}
	}
}
