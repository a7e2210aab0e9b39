package symbols

import (
	"github.com/creachadair/mds/mapset"
	"github.com/funvibe/distcheck/internal/ast"
	"github.com/funvibe/distcheck/internal/config"
	"github.com/funvibe/distcheck/internal/typesystem"
)

// RegisterImplementation records that typeName conforms to proto without a
// declaration spelling it (used by the prelude).
func (s *SymbolTable) RegisterImplementation(typeName, proto string) {
	impls, ok := s.implementations[typeName]
	if !ok {
		impls = mapset.New[string]()
		s.implementations[typeName] = impls
	}
	impls.Add(proto)
}

func (s *SymbolTable) registeredImplementations(typeName string) []string {
	var out []string
	for p := range s.implementations[typeName] {
		out = append(out, p)
	}
	if s.outer != nil {
		out = append(out, s.outer.registeredImplementations(typeName)...)
	}
	return out
}

// ConformsToProtocol is the conformance oracle. Conformances are global to
// the unit, so the asking module is ignored.
func (s *SymbolTable) ConformsToProtocol(t typesystem.Type, proto string, _ string) bool {
	return s.conformsTo(s.Canonicalize(t, nil), proto)
}

func (s *SymbolTable) conformsTo(t typesystem.Type, proto string) bool {
	switch typ := t.(type) {
	case typesystem.TError:
		// Already diagnosed upstream; do not pile on.
		return true
	case typesystem.TCon:
		decl, ok := s.FindNominal(typ.Name)
		if !ok || decl.Kind == ast.KindProtocol {
			return false
		}
		return s.Conformances(decl).Has(proto)
	case typesystem.TArray:
		return conditionalConformances[proto] && s.conformsTo(typ.Element, proto)
	case typesystem.TOptional:
		return conditionalConformances[proto] && s.conformsTo(typ.Wrapped, proto)
	default:
		return false
	}
}

// Conformances returns every protocol decl conforms to: declared in its
// inheritance clause or extensions, registered, inherited from a superclass,
// and implied through protocol refinement.
func (s *SymbolTable) Conformances(decl *ast.NominalDecl) mapset.Set[string] {
	result := mapset.New[string]()
	s.collectConformances(decl, result, make(map[string]bool))
	return result
}

func (s *SymbolTable) collectConformances(decl *ast.NominalDecl, result mapset.Set[string], visited map[string]bool) {
	if visited[decl.Name] {
		return
	}
	visited[decl.Name] = true

	inherited := append([]typesystem.Type{}, decl.Inherited...)
	for _, ext := range decl.Extensions {
		inherited = append(inherited, ext.Inherited...)
	}
	for _, name := range s.registeredImplementations(decl.Name) {
		inherited = append(inherited, typesystem.TCon{Name: name})
	}
	if decl.Kind == ast.KindActor && decl.Distributed {
		inherited = append(inherited, typesystem.TCon{Name: config.DistributedActorProtocol})
	}

	for _, t := range inherited {
		for _, name := range s.protocolsOf(s.Canonicalize(t, decl)) {
			if other, ok := s.FindNominal(name); ok {
				if other.Kind == ast.KindProtocol {
					s.addProtocolClosure(other, result, make(map[string]bool))
				} else if decl.Kind == ast.KindClass && other.Kind == ast.KindClass {
					// Superclass conformances are inherited.
					s.collectConformances(other, result, visited)
				}
			}
		}
	}
}

// addProtocolClosure adds proto and every protocol it refines.
func (s *SymbolTable) addProtocolClosure(proto *ast.NominalDecl, result mapset.Set[string], visited map[string]bool) {
	if visited[proto.Name] {
		return
	}
	visited[proto.Name] = true
	result.Add(proto.Name)
	for _, t := range proto.Inherited {
		for _, name := range s.protocolsOf(s.Canonicalize(t, proto)) {
			if refined, ok := s.LookupProtocol(name); ok {
				s.addProtocolClosure(refined, result, visited)
			}
		}
	}
}

// protocolsOf lists the nominal names a canonical inheritance entry refers
// to; compositions contribute each member.
func (s *SymbolTable) protocolsOf(t typesystem.Type) []string {
	switch typ := t.(type) {
	case typesystem.TCon:
		return []string{typ.Name}
	case typesystem.TComposition:
		var out []string
		for _, m := range typ.Members {
			out = append(out, s.protocolsOf(m)...)
		}
		return out
	default:
		return nil
	}
}

// Refines reports whether protocol a is b or refines b.
func (s *SymbolTable) Refines(a, b string) bool {
	proto, ok := s.LookupProtocol(a)
	if !ok {
		return false
	}
	closure := mapset.New[string]()
	s.addProtocolClosure(proto, closure, make(map[string]bool))
	return closure.Has(b)
}
