package symbols

import (
	"github.com/funvibe/distcheck/internal/ast"
	"github.com/funvibe/distcheck/internal/config"
	"github.com/funvibe/distcheck/internal/typesystem"
)

// ResolveTypeAlias expands a top-level alias reference until it names a
// non-alias type. Member typealiases of ctx (associated type bindings) are
// considered before module-level aliases. Components of structural types
// are not touched; use Canonicalize for a deep rewrite.
func (s *SymbolTable) ResolveTypeAlias(t typesystem.Type, ctx *ast.NominalDecl) (typesystem.Type, error) {
	return s.resolveTypeAliasWithCycleCheck(t, ctx, make(map[string]bool))
}

func (s *SymbolTable) resolveTypeAliasWithCycleCheck(t typesystem.Type, ctx *ast.NominalDecl, visited map[string]bool) (typesystem.Type, error) {
	switch typ := t.(type) {
	case typesystem.TCon:
		if typ.Name == config.SelfTypeName && ctx != nil {
			return ctx.Type(), nil
		}
		underlying, key, ok := s.aliasTarget(typ.Name, ctx)
		if !ok {
			return typ, nil
		}
		if visited[key] {
			return typesystem.TError{Reason: "alias cycle"}, &typesystem.AliasCycleError{Name: typ.Name}
		}
		visited[key] = true
		return s.resolveTypeAliasWithCycleCheck(underlying, ctx, visited)
	case typesystem.TMember:
		base, err := s.resolveTypeAliasWithCycleCheck(typ.Base, ctx, visited)
		if err != nil {
			return base, err
		}
		baseCon, ok := base.(typesystem.TCon)
		if !ok {
			return typesystem.TMember{Base: base, Name: typ.Name}, nil
		}
		owner, ok := s.FindNominal(baseCon.Name)
		if !ok {
			return typesystem.TMember{Base: base, Name: typ.Name}, nil
		}
		alias, ok := owner.TypeAlias(typ.Name)
		if !ok {
			return typesystem.TMember{Base: base, Name: typ.Name}, nil
		}
		key := owner.Name + "." + typ.Name
		if visited[key] {
			return typesystem.TError{Reason: "alias cycle"}, &typesystem.AliasCycleError{Name: key}
		}
		visited[key] = true
		// Associated type bindings are written in the owner's context.
		return s.resolveTypeAliasWithCycleCheck(alias.Underlying, owner, visited)
	default:
		return t, nil
	}
}

// aliasTarget finds what an alias name refers to in ctx. The returned key
// identifies the alias for cycle detection.
func (s *SymbolTable) aliasTarget(name string, ctx *ast.NominalDecl) (typesystem.Type, string, bool) {
	if ctx != nil {
		if alias, ok := ctx.TypeAlias(name); ok {
			return alias.Underlying, ctx.Name + "." + name, true
		}
	}
	if alias, ok := s.GetTypeAlias(name); ok {
		return alias.Underlying, name, true
	}
	return nil, "", false
}

// Canonicalize rewrites t so that every alias reference, Self and every
// bound dependent member is replaced by what it denotes. Unresolvable
// aliases become TError.
func (s *SymbolTable) Canonicalize(t typesystem.Type, ctx *ast.NominalDecl) typesystem.Type {
	return s.canonicalize(t, ctx, 0)
}

// Deep enough for any sane alias chain; cycles are cut by ResolveTypeAlias.
const maxCanonicalDepth = 64

func (s *SymbolTable) canonicalize(t typesystem.Type, ctx *ast.NominalDecl, depth int) typesystem.Type {
	if t == nil {
		return nil
	}
	if depth > maxCanonicalDepth {
		return typesystem.TError{Reason: "type too deeply nested"}
	}
	switch typ := t.(type) {
	case typesystem.TCon, typesystem.TMember:
		resolved, err := s.ResolveTypeAlias(typ, ctx)
		if err != nil {
			return typesystem.TError{Reason: err.Error()}
		}
		if typesystem.Equal(resolved, typ) {
			if m, ok := resolved.(typesystem.TMember); ok {
				return typesystem.TMember{Base: s.canonicalize(m.Base, ctx, depth+1), Name: m.Name}
			}
			return s.tagModule(resolved)
		}
		return s.canonicalize(resolved, ctx, depth+1)
	case typesystem.TMetatype:
		return typesystem.TMetatype{Instance: s.canonicalize(typ.Instance, ctx, depth+1)}
	case typesystem.TTuple:
		elems := make([]typesystem.Type, len(typ.Elements))
		for i, e := range typ.Elements {
			elems[i] = s.canonicalize(e, ctx, depth+1)
		}
		if len(elems) == 1 {
			return elems[0]
		}
		return typesystem.TTuple{Elements: elems}
	case typesystem.TComposition:
		var members []typesystem.Type
		for _, m := range typ.Members {
			c := s.canonicalize(m, ctx, depth+1)
			// Nested compositions flatten; Any contributes nothing.
			switch cm := c.(type) {
			case typesystem.TComposition:
				members = append(members, cm.Members...)
			case typesystem.TAny:
			default:
				members = append(members, c)
			}
		}
		switch len(members) {
		case 0:
			return typesystem.TAny{}
		case 1:
			return members[0]
		}
		return typesystem.TComposition{Members: members}
	case typesystem.TFunc:
		params := make([]typesystem.Type, len(typ.Params))
		for i, p := range typ.Params {
			params[i] = s.canonicalize(p, ctx, depth+1)
		}
		return typesystem.TFunc{Params: params, ReturnType: s.canonicalize(typ.ReturnType, ctx, depth+1), IsAsync: typ.IsAsync, Throws: typ.Throws}
	case typesystem.TArray:
		return typesystem.TArray{Element: s.canonicalize(typ.Element, ctx, depth+1)}
	case typesystem.TOptional:
		return typesystem.TOptional{Wrapped: s.canonicalize(typ.Wrapped, ctx, depth+1)}
	default:
		return t
	}
}

// tagModule fills in the defining module of a nominal reference.
func (s *SymbolTable) tagModule(t typesystem.Type) typesystem.Type {
	c, ok := t.(typesystem.TCon)
	if !ok || c.Module != "" {
		return t
	}
	if decl, found := s.FindNominal(c.Name); found {
		c.Module = decl.Module
	}
	return c
}

// TypesEqual compares two types after canonicalization in ctx.
func (s *SymbolTable) TypesEqual(a, b typesystem.Type, ctx *ast.NominalDecl) bool {
	return typesystem.Equal(s.Canonicalize(a, ctx), s.Canonicalize(b, ctx))
}
