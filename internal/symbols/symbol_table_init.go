package symbols

import (
	"github.com/funvibe/distcheck/internal/ast"
	"github.com/funvibe/distcheck/internal/config"
	"github.com/funvibe/distcheck/internal/typesystem"
)

const (
	swiftModule       = "Swift"
	distributedModule = config.DistributedModuleName
)

// Protocols every value type in the prelude gets.
var valueTypeConformances = []string{
	config.EncodableProtocol,
	config.DecodableProtocol,
	"Hashable",
	"Equatable",
	"Sendable",
}

// Protocols that arrays and optionals conform to when their element does.
var conditionalConformances = map[string]bool{
	config.EncodableProtocol: true,
	config.DecodableProtocol: true,
	"Hashable":               true,
	"Equatable":              true,
	"Sendable":               true,
}

var preludeValueTypes = []string{
	"Int", "Int8", "Int16", "Int32", "Int64",
	"UInt", "UInt8", "UInt16", "UInt32", "UInt64",
	"Float", "Double", "Bool", "String", "Character",
}

// NewPrelude builds the built-in scope: standard protocols, the Codable
// alias, value types and the declarations of the Distributed module.
// Distributed declarations exist even when the module is not imported;
// IsModuleLoaded tells whether they are usable.
func NewPrelude() *SymbolTable {
	st := NewEmptySymbolTable(swiftModule, ScopePrelude)

	for _, name := range []string{config.EncodableProtocol, config.DecodableProtocol, "Equatable", "Sendable", config.ErrorProtocol} {
		st.definePreludeProtocol(name, swiftModule)
	}
	st.definePreludeProtocol("Hashable", swiftModule, "Equatable")
	st.definePreludeProtocol("Identifiable", swiftModule)

	st.typeAliases[config.CodableAlias] = &ast.TypeAliasDecl{
		Name:   config.CodableAlias,
		Access: ast.AccessPublic,
		Underlying: typesystem.TComposition{Members: []typesystem.Type{
			typesystem.TCon{Name: config.EncodableProtocol},
			typesystem.TCon{Name: config.DecodableProtocol},
		}},
	}

	for _, name := range preludeValueTypes {
		st.definePreludeType(name, swiftModule, ast.KindStruct)
		for _, proto := range valueTypeConformances {
			st.RegisterImplementation(name, proto)
		}
	}

	st.definePreludeProtocol(config.DistributedActorProtocol, distributedModule, "Sendable", "Identifiable")
	st.definePreludeProtocol(config.ActorSystemProtocol, distributedModule, "Sendable")
	st.definePreludeProtocol(config.InvocationEncoderProtocol, distributedModule)
	st.definePreludeProtocol(config.InvocationDecoderProtocol, distributedModule)
	st.definePreludeProtocol(config.InvocationResultHandlerProtocol, distributedModule)

	target := st.definePreludeType(config.RemoteCallTargetType, distributedModule, ast.KindStruct)
	target.Members = append(target.Members, &ast.ConstructorDecl{
		Access: ast.AccessPublic,
		Params: []*ast.ParamDecl{{
			Label: config.MangledNameLabel,
			Name:  "identifier",
			Type:  typesystem.TCon{Name: "String"},
		}},
		Context: target,
	})
	for _, proto := range []string{"Hashable", "Equatable", "Sendable"} {
		st.RegisterImplementation(config.RemoteCallTargetType, proto)
	}

	return st
}

func (s *SymbolTable) definePreludeProtocol(name, module string, refines ...string) *ast.NominalDecl {
	decl := &ast.NominalDecl{
		Name:   name,
		Module: module,
		Kind:   ast.KindProtocol,
		Access: ast.AccessPublic,
	}
	for _, r := range refines {
		decl.Inherited = append(decl.Inherited, typesystem.TCon{Name: r})
	}
	s.types[name] = decl
	s.order = append(s.order, name)
	return decl
}

func (s *SymbolTable) definePreludeType(name, module string, kind ast.NominalKind) *ast.NominalDecl {
	decl := &ast.NominalDecl{
		Name:   name,
		Module: module,
		Kind:   kind,
		Access: ast.AccessPublic,
	}
	s.types[name] = decl
	s.order = append(s.order, name)
	return decl
}
