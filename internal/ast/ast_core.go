package ast

import (
	"github.com/funvibe/distcheck/internal/token"
	"github.com/funvibe/distcheck/internal/typesystem"
)

// TokenProvider is an interface for any declaration that can provide its
// primary token. This is useful for error reporting.
type TokenProvider interface {
	GetToken() token.Token
}

// Decl is a member declaration of a nominal type or extension.
type Decl interface {
	TokenProvider
	DeclName() string
	Accept(v Visitor)
}

// Visitor walks member declarations.
type Visitor interface {
	VisitFunc(*FuncDecl)
	VisitVar(*VarDecl)
	VisitConstructor(*ConstructorDecl)
	VisitTypeAlias(*TypeAliasDecl)
}

// DeclContext is where a member lives: a nominal type or an extension of one.
type DeclContext interface {
	TokenProvider
	// SelfNominal is the nominal type the context extends or declares.
	SelfNominal() *NominalDecl
}

type AccessLevel int

const (
	AccessPrivate AccessLevel = iota
	AccessFilePrivate
	AccessInternal
	AccessPackage
	AccessPublic
	AccessOpen
)

var accessNames = map[AccessLevel]string{
	AccessPrivate:     "private",
	AccessFilePrivate: "fileprivate",
	AccessInternal:    "internal",
	AccessPackage:     "package",
	AccessPublic:      "public",
	AccessOpen:        "open",
}

func (a AccessLevel) String() string {
	if s, ok := accessNames[a]; ok {
		return s
	}
	return "internal"
}

// ParseAccessLevel maps a keyword to an access level. Empty means internal.
func ParseAccessLevel(s string) (AccessLevel, bool) {
	if s == "" {
		return AccessInternal, true
	}
	for lvl, name := range accessNames {
		if name == s {
			return lvl, true
		}
	}
	return AccessInternal, false
}

// Narrower returns the less visible of two access levels.
func Narrower(a, b AccessLevel) AccessLevel {
	if a < b {
		return a
	}
	return b
}

// GenericParam is a generic parameter of a function.
type GenericParam struct {
	Token token.Token
	Name  string
}

func (g *GenericParam) Type() typesystem.Type { return typesystem.TParam{Name: g.Name} }

// GenericParamNames lists the names of params in order.
func GenericParamNames(params []*GenericParam) []string {
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Name
	}
	return names
}
