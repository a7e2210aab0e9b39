package ast

import (
	"github.com/funvibe/distcheck/internal/token"
	"github.com/funvibe/distcheck/internal/typesystem"
)

type NominalKind int

const (
	KindStruct NominalKind = iota
	KindClass
	KindActor
	KindEnum
	KindProtocol
)

var nominalKindNames = map[NominalKind]string{
	KindStruct:   "struct",
	KindClass:    "class",
	KindActor:    "actor",
	KindEnum:     "enum",
	KindProtocol: "protocol",
}

func (k NominalKind) String() string { return nominalKindNames[k] }

// ParseNominalKind maps a keyword to a kind.
func ParseNominalKind(s string) (NominalKind, bool) {
	for k, name := range nominalKindNames {
		if name == s {
			return k, true
		}
	}
	return KindStruct, false
}

// NominalDecl is a struct, class, actor, enum or protocol declaration.
type NominalDecl struct {
	Token       token.Token
	Name        string
	Module      string
	Kind        NominalKind
	Distributed bool // `distributed actor`
	Access      AccessLevel
	Inherited   []typesystem.Type // superclass, conformances, refined protocols
	Members     []Decl
	Extensions  []*ExtensionDecl
}

func (n *NominalDecl) GetToken() token.Token {
	if n == nil {
		return token.Token{}
	}
	return n.Token
}

func (n *NominalDecl) SelfNominal() *NominalDecl { return n }

// DescriptiveKind renders the kind the way diagnostics mention it.
func (n *NominalDecl) DescriptiveKind() string {
	if n.Kind == KindActor && n.Distributed {
		return "distributed actor"
	}
	return n.Kind.String()
}

// IsReferenceType reports whether instances have reference semantics, which
// makes every method mutating-capable.
func (n *NominalDecl) IsReferenceType() bool {
	return n.Kind == KindClass || n.Kind == KindActor
}

// EffectiveAccess is the declared access of the type. Nested types are not
// modeled, so nothing narrows it further.
func (n *NominalDecl) EffectiveAccess() AccessLevel { return n.Access }

// AllMembers returns the direct members followed by the members of every
// extension of this exact declaration, in declaration order.
func (n *NominalDecl) AllMembers() []Decl {
	out := make([]Decl, 0, len(n.Members))
	out = append(out, n.Members...)
	for _, ext := range n.Extensions {
		out = append(out, ext.Members...)
	}
	return out
}

// TypeAlias finds a typealias member by name, searching extensions too.
func (n *NominalDecl) TypeAlias(name string) (*TypeAliasDecl, bool) {
	for _, m := range n.AllMembers() {
		if ta, ok := m.(*TypeAliasDecl); ok && ta.Name == name {
			return ta, true
		}
	}
	return nil, false
}

// Type returns the declared type of the nominal.
func (n *NominalDecl) Type() typesystem.Type {
	return typesystem.TCon{Name: n.Name, Module: n.Module}
}

// ExtensionDecl extends a nominal type, optionally under a where clause.
type ExtensionDecl struct {
	Token        token.Token
	Extended     *NominalDecl
	Inherited    []typesystem.Type // conformances added by the extension
	Requirements []typesystem.Requirement
	Members      []Decl
}

func (e *ExtensionDecl) GetToken() token.Token    { return e.Token }
func (e *ExtensionDecl) SelfNominal() *NominalDecl { return e.Extended }

// FuncDecl is a method declaration.
type FuncDecl struct {
	Token         token.Token
	Name          string
	Access        AccessLevel
	GenericParams []*GenericParam
	Requirements  []typesystem.Requirement
	Params        []*ParamDecl
	Result        typesystem.Type // nil when no return type is written
	IsAsync       bool
	Throws        bool
	IsMutating    bool
	IsStatic      bool
	IsDistributed bool
	Context       DeclContext
}

func (f *FuncDecl) GetToken() token.Token { return f.Token }
func (f *FuncDecl) DeclName() string      { return f.Name }
func (f *FuncDecl) Accept(v Visitor)      { v.VisitFunc(f) }

// EffectiveAccess is the narrower of the declared access and the access of
// the enclosing type.
func (f *FuncDecl) EffectiveAccess() AccessLevel {
	if f.Context == nil || f.Context.SelfNominal() == nil {
		return f.Access
	}
	return Narrower(f.Access, f.Context.SelfNominal().EffectiveAccess())
}

// ResultType is the declared return type, Void when none is written.
func (f *FuncDecl) ResultType() typesystem.Type {
	if f.Result == nil {
		return typesystem.Void
	}
	return f.Result
}

// IsGenericParam reports whether t names one of f's generic parameters.
func (f *FuncDecl) IsGenericParam(t typesystem.Type) bool {
	p, ok := t.(typesystem.TParam)
	if !ok {
		return false
	}
	for _, g := range f.GenericParams {
		if g.Name == p.Name {
			return true
		}
	}
	return false
}

// Signature renders a compact signature for notes and dumps.
func (f *FuncDecl) Signature() string {
	return renderSignature(f)
}

// ParamDecl is a function or initializer parameter.
type ParamDecl struct {
	Token      token.Token
	Label      string // argument label; "_" or empty when unlabeled
	Name       string // parameter name
	Type       typesystem.Type
	IsInOut    bool
	IsVariadic bool
}

func (p *ParamDecl) GetToken() token.Token { return p.Token }

// ArgumentName is the label callers write, empty when unlabeled.
func (p *ParamDecl) ArgumentName() string {
	if p.Label == "_" {
		return ""
	}
	return p.Label
}

// VarDecl is a property declaration.
type VarDecl struct {
	Token         token.Token
	Name          string
	Access        AccessLevel
	Type          typesystem.Type
	IsLet         bool
	IsStatic      bool
	HasStorage    bool
	HasSetter     bool
	IsDistributed bool
	IsSynthesized bool
	Context       DeclContext
}

func (v *VarDecl) GetToken() token.Token { return v.Token }
func (v *VarDecl) DeclName() string      { return v.Name }
func (v *VarDecl) Accept(vis Visitor)    { vis.VisitVar(v) }

// DescriptiveKind renders the kind the way diagnostics mention it.
func (v *VarDecl) DescriptiveKind() string {
	if v.IsLet {
		return "let"
	}
	return "property"
}

// ConstructorDecl is an initializer.
type ConstructorDecl struct {
	Token         token.Token
	Access        AccessLevel
	Params        []*ParamDecl
	IsConvenience bool
	IsFailable    bool
	Context       DeclContext
}

func (c *ConstructorDecl) GetToken() token.Token { return c.Token }
func (c *ConstructorDecl) DeclName() string      { return "init" }
func (c *ConstructorDecl) Accept(v Visitor)      { v.VisitConstructor(c) }

// IsDesignated reports whether the initializer fully establishes state
// itself. Initializers declared in extensions of classes delegate.
func (c *ConstructorDecl) IsDesignated() bool {
	if c.IsConvenience {
		return false
	}
	if _, inExtension := c.Context.(*ExtensionDecl); inExtension {
		if n := c.Context.SelfNominal(); n != nil && n.IsReferenceType() {
			return false
		}
	}
	return true
}

// FullName renders init(label:label:).
func (c *ConstructorDecl) FullName() string {
	name := "init("
	for _, p := range c.Params {
		label := p.ArgumentName()
		if label == "" {
			label = "_"
		}
		name += label + ":"
	}
	return name + ")"
}

// TypeAliasDecl binds a name to a type; on conforming types it is how
// associated types are bound.
type TypeAliasDecl struct {
	Token      token.Token
	Name       string
	Access     AccessLevel
	Underlying typesystem.Type
}

func (t *TypeAliasDecl) GetToken() token.Token { return t.Token }
func (t *TypeAliasDecl) DeclName() string      { return t.Name }
func (t *TypeAliasDecl) Accept(v Visitor)      { v.VisitTypeAlias(t) }
