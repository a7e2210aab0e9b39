package typesystem

import (
	"sort"
	"strings"
)

// Type is the interface for all types in our system.
type Type interface {
	String() string
	Apply(Subst) Type
}

// Subst maps generic parameter and alias names to replacement types.
type Subst map[string]Type

// TCon is a reference to a nominal type, protocol or typealias by name.
// Aliases are resolved by the symbol table, not here.
type TCon struct {
	Name   string
	Module string // Optional module of origin
}

func (t TCon) String() string {
	return t.Name
}

func (t TCon) Apply(s Subst) Type {
	if replacement, ok := s[t.Name]; ok {
		if tCon, ok := replacement.(TCon); ok && tCon.Name == t.Name {
			return t
		}
		return replacement
	}
	return t
}

// TParam is a generic parameter of a function or type (e.g. 'Act', 'Res').
type TParam struct {
	Name string
}

func (t TParam) String() string { return t.Name }

func (t TParam) Apply(s Subst) Type {
	if replacement, ok := s[t.Name]; ok {
		return replacement
	}
	return t
}

// TMember is a dependent member type such as Act.ID or Self.ActorSystem.
type TMember struct {
	Base Type
	Name string
}

func (t TMember) String() string {
	return t.Base.String() + "." + t.Name
}

func (t TMember) Apply(s Subst) Type {
	return TMember{Base: t.Base.Apply(s), Name: t.Name}
}

// TMetatype is the type of a type: Err.Type.
type TMetatype struct {
	Instance Type
}

func (t TMetatype) String() string {
	if _, ok := t.Instance.(TComposition); ok {
		return "(" + t.Instance.String() + ").Type"
	}
	return t.Instance.String() + ".Type"
}

func (t TMetatype) Apply(s Subst) Type {
	return TMetatype{Instance: t.Instance.Apply(s)}
}

// TTuple is a tuple type. The empty tuple is Void.
type TTuple struct {
	Elements []Type
}

func (t TTuple) String() string {
	if len(t.Elements) == 0 {
		return "Void"
	}
	parts := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (t TTuple) Apply(s Subst) Type {
	newElems := make([]Type, len(t.Elements))
	for i, e := range t.Elements {
		newElems[i] = e.Apply(s)
	}
	return TTuple{Elements: newElems}
}

// Void is the empty tuple.
var Void = TTuple{}

// TComposition is a protocol composition "A & B". Members may themselves be
// aliases or compositions; flattening is left to the symbol table.
type TComposition struct {
	Members []Type
}

func (t TComposition) String() string {
	parts := make([]string, len(t.Members))
	for i, m := range t.Members {
		parts[i] = m.String()
	}
	return strings.Join(parts, " & ")
}

func (t TComposition) Apply(s Subst) Type {
	newMembers := make([]Type, len(t.Members))
	for i, m := range t.Members {
		newMembers[i] = m.Apply(s)
	}
	return TComposition{Members: newMembers}
}

// TAny is the universal type, imposing no constraint.
type TAny struct{}

func (TAny) String() string      { return "Any" }
func (t TAny) Apply(Subst) Type { return t }

// TFunc is a function type. Values of function type have no nominal
// declaration to attach a conformance to.
type TFunc struct {
	Params     []Type
	ReturnType Type
	IsAsync    bool
	Throws     bool
}

func (t TFunc) String() string {
	parts := make([]string, len(t.Params))
	for i, p := range t.Params {
		parts[i] = p.String()
	}
	var b strings.Builder
	b.WriteString("(" + strings.Join(parts, ", ") + ")")
	if t.IsAsync {
		b.WriteString(" async")
	}
	if t.Throws {
		b.WriteString(" throws")
	}
	b.WriteString(" -> ")
	if t.ReturnType == nil {
		b.WriteString("Void")
	} else {
		b.WriteString(t.ReturnType.String())
	}
	return b.String()
}

func (t TFunc) Apply(s Subst) Type {
	newParams := make([]Type, len(t.Params))
	for i, p := range t.Params {
		newParams[i] = p.Apply(s)
	}
	var ret Type
	if t.ReturnType != nil {
		ret = t.ReturnType.Apply(s)
	}
	return TFunc{Params: newParams, ReturnType: ret, IsAsync: t.IsAsync, Throws: t.Throws}
}

// TArray is the sugared array type [Element].
type TArray struct {
	Element Type
}

func (t TArray) String() string     { return "[" + t.Element.String() + "]" }
func (t TArray) Apply(s Subst) Type { return TArray{Element: t.Element.Apply(s)} }

// TOptional is the sugared optional type Wrapped?.
type TOptional struct {
	Wrapped Type
}

func (t TOptional) String() string     { return t.Wrapped.String() + "?" }
func (t TOptional) Apply(s Subst) Type { return TOptional{Wrapped: t.Wrapped.Apply(s)} }

// TError stands for a type that failed to resolve upstream.
type TError struct {
	Reason string
}

func (t TError) String() string   { return "<<error type>>" }
func (t TError) Apply(Subst) Type { return t }

// HasError reports whether t or any component of t failed to resolve.
func HasError(t Type) bool {
	switch typ := t.(type) {
	case nil:
		return false
	case TError:
		return true
	case TMember:
		return HasError(typ.Base)
	case TMetatype:
		return HasError(typ.Instance)
	case TTuple:
		for _, e := range typ.Elements {
			if HasError(e) {
				return true
			}
		}
	case TComposition:
		for _, m := range typ.Members {
			if HasError(m) {
				return true
			}
		}
	case TFunc:
		for _, p := range typ.Params {
			if HasError(p) {
				return true
			}
		}
		return HasError(typ.ReturnType)
	case TArray:
		return HasError(typ.Element)
	case TOptional:
		return HasError(typ.Wrapped)
	}
	return false
}

// IsVoid reports whether t is the empty tuple.
func IsVoid(t Type) bool {
	tup, ok := t.(TTuple)
	return ok && len(tup.Elements) == 0
}

// Equal compares two types structurally. Composition members compare as
// sets; everything else compares positionally.
func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch x := a.(type) {
	case TCon:
		y, ok := b.(TCon)
		return ok && x.Name == y.Name && (x.Module == "" || y.Module == "" || x.Module == y.Module)
	case TParam:
		y, ok := b.(TParam)
		return ok && x.Name == y.Name
	case TMember:
		y, ok := b.(TMember)
		return ok && x.Name == y.Name && Equal(x.Base, y.Base)
	case TMetatype:
		y, ok := b.(TMetatype)
		return ok && Equal(x.Instance, y.Instance)
	case TTuple:
		y, ok := b.(TTuple)
		return ok && equalLists(x.Elements, y.Elements)
	case TComposition:
		y, ok := b.(TComposition)
		if !ok {
			return false
		}
		return equalSets(x.Members, y.Members)
	case TAny:
		_, ok := b.(TAny)
		return ok
	case TFunc:
		y, ok := b.(TFunc)
		return ok && x.IsAsync == y.IsAsync && x.Throws == y.Throws &&
			equalLists(x.Params, y.Params) && Equal(orVoid(x.ReturnType), orVoid(y.ReturnType))
	case TArray:
		y, ok := b.(TArray)
		return ok && Equal(x.Element, y.Element)
	case TOptional:
		y, ok := b.(TOptional)
		return ok && Equal(x.Wrapped, y.Wrapped)
	case TError:
		// Error types never compare equal, not even to themselves.
		return false
	}
	return false
}

func orVoid(t Type) Type {
	if t == nil {
		return Void
	}
	return t
}

func equalLists(a, b []Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

func equalSets(a, b []Type) bool {
	as := sortedStrings(a)
	bs := sortedStrings(b)
	if len(as) != len(bs) {
		return false
	}
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}

func sortedStrings(ts []Type) []string {
	seen := make(map[string]bool, len(ts))
	var out []string
	for _, t := range ts {
		s := t.String()
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}

// NominalName returns the name of the nominal type t refers to directly.
func NominalName(t Type) (string, bool) {
	if c, ok := t.(TCon); ok {
		return c.Name, true
	}
	return "", false
}
