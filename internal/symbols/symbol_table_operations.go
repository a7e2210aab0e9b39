package symbols

import (
	"fmt"

	"github.com/creachadair/mds/mapset"
	"github.com/funvibe/distcheck/internal/ast"
)

// DuplicateDeclarationError reports a name defined twice in one scope.
type DuplicateDeclarationError struct {
	Name string
}

func (e *DuplicateDeclarationError) Error() string {
	return fmt.Sprintf("invalid redeclaration of %s", e.Name)
}

// DefineNominal registers a type or protocol declaration.
func (s *SymbolTable) DefineNominal(decl *ast.NominalDecl) error {
	if _, exists := s.types[decl.Name]; exists {
		return &DuplicateDeclarationError{Name: decl.Name}
	}
	if _, exists := s.typeAliases[decl.Name]; exists {
		return &DuplicateDeclarationError{Name: decl.Name}
	}
	if decl.Module == "" {
		decl.Module = s.module
	}
	s.types[decl.Name] = decl
	s.order = append(s.order, decl.Name)
	return nil
}

// DefineTypeAlias registers a module-level typealias.
func (s *SymbolTable) DefineTypeAlias(alias *ast.TypeAliasDecl) error {
	if _, exists := s.typeAliases[alias.Name]; exists {
		return &DuplicateDeclarationError{Name: alias.Name}
	}
	if _, exists := s.types[alias.Name]; exists {
		return &DuplicateDeclarationError{Name: alias.Name}
	}
	s.typeAliases[alias.Name] = alias
	return nil
}

// AddExtension attaches an extension to the declaration it extends.
func (s *SymbolTable) AddExtension(ext *ast.ExtensionDecl) {
	ext.Extended.Extensions = append(ext.Extended.Extensions, ext)
}

// FindNominal finds a type or protocol in this scope or any outer scope.
func (s *SymbolTable) FindNominal(name string) (*ast.NominalDecl, bool) {
	if decl, ok := s.types[name]; ok {
		return decl, true
	}
	if s.outer != nil {
		return s.outer.FindNominal(name)
	}
	return nil, false
}

// LookupNominal finds a non-protocol type declaration.
func (s *SymbolTable) LookupNominal(name string) (*ast.NominalDecl, bool) {
	decl, ok := s.FindNominal(name)
	if !ok || decl.Kind == ast.KindProtocol {
		return nil, false
	}
	return decl, true
}

// LookupProtocol finds a protocol declaration.
func (s *SymbolTable) LookupProtocol(name string) (*ast.NominalDecl, bool) {
	decl, ok := s.FindNominal(name)
	if !ok || decl.Kind != ast.KindProtocol {
		return nil, false
	}
	return decl, true
}

// IsKnownProtocol reports whether name denotes a protocol.
func (s *SymbolTable) IsKnownProtocol(name string) bool {
	_, ok := s.LookupProtocol(name)
	return ok
}

// GetTypeAlias returns a module-level typealias.
func (s *SymbolTable) GetTypeAlias(name string) (*ast.TypeAliasDecl, bool) {
	if alias, ok := s.typeAliases[name]; ok {
		return alias, true
	}
	if s.outer != nil {
		return s.outer.GetTypeAlias(name)
	}
	return nil, false
}

// Declarations returns the nominal declarations of this scope only, in
// declaration order.
func (s *SymbolTable) Declarations() []*ast.NominalDecl {
	out := make([]*ast.NominalDecl, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.types[name])
	}
	return out
}

// ImportModule marks a module as loaded.
func (s *SymbolTable) ImportModule(name string) {
	s.loadedModules.Add(name)
}

// IsModuleLoaded reports whether the unit imported name.
func (s *SymbolTable) IsModuleLoaded(name string) bool {
	if s.loadedModules.Has(name) {
		return true
	}
	if s.outer != nil {
		return s.outer.IsModuleLoaded(name)
	}
	return false
}

// LoadedModules lists the imported modules of this scope.
func (s *SymbolTable) LoadedModules() mapset.Set[string] {
	return s.loadedModules.Clone()
}
