// symbols/symbol_table.go - Main symbol table entry point
//
// The symbol table is split into focused files:
// - symbol_table.go: SymbolTable struct and constructors
// - symbol_table_init.go: Prelude protocols, aliases and built-in types
// - symbol_table_operations.go: Defining and finding declarations
// - symbol_table_aliases.go: Typealias resolution and canonicalization
// - symbol_table_implementations.go: Conformance oracle
// - symbol_table_resolution.go: Member lookup, associated types, requirements

package symbols

import (
	"github.com/creachadair/mds/mapset"
	"github.com/funvibe/distcheck/internal/ast"
)

type ScopeType int

const (
	ScopePrelude ScopeType = iota // Built-in protocols and types
	ScopeModule                   // The compilation unit being checked
)

// SymbolTable is the declaration registry of one compilation unit. Lookups
// fall back to the outer (prelude) scope.
type SymbolTable struct {
	module    string
	scopeType ScopeType
	outer     *SymbolTable

	// Nominal types and protocols: Name -> declaration
	types map[string]*ast.NominalDecl

	// Module-level typealiases: Name -> declaration
	// e.g. "Codable" -> Encodable & Decodable
	typeAliases map[string]*ast.TypeAliasDecl

	// Conformances registered outside of declarations (prelude types):
	// TypeName -> protocols
	implementations map[string]mapset.Set[string]

	// Modules imported by the unit
	loadedModules mapset.Set[string]

	order []string // declaration order of types, for deterministic sweeps
}

func NewEmptySymbolTable(module string, scopeType ScopeType) *SymbolTable {
	return &SymbolTable{
		module:          module,
		scopeType:       scopeType,
		types:           make(map[string]*ast.NominalDecl),
		typeAliases:     make(map[string]*ast.TypeAliasDecl),
		implementations: make(map[string]mapset.Set[string]),
		loadedModules:   mapset.New[string](),
	}
}

// New creates a module scope enclosed by a fresh prelude.
func New(module string) *SymbolTable {
	st := NewEmptySymbolTable(module, ScopeModule)
	st.outer = NewPrelude()
	return st
}

// NewEnclosedSymbolTable creates a module scope over an existing outer scope.
func NewEnclosedSymbolTable(outer *SymbolTable, module string) *SymbolTable {
	st := NewEmptySymbolTable(module, ScopeModule)
	st.outer = outer
	return st
}

// Outer returns the outer scope symbol table
func (s *SymbolTable) Outer() *SymbolTable {
	return s.outer
}

// Module is the name of the module this scope belongs to.
func (s *SymbolTable) Module() string {
	return s.module
}
