package unit

import (
	"fmt"

	"github.com/funvibe/distcheck/internal/ast"
	"github.com/funvibe/distcheck/internal/diagnostics"
	"github.com/funvibe/distcheck/internal/parser"
	"github.com/funvibe/distcheck/internal/symbols"
	"github.com/funvibe/distcheck/internal/token"
	"github.com/funvibe/distcheck/internal/typesystem"
)

// builder turns a parsed Unit into declarations registered in a symbol
// table, collecting every syntax and declaration error on the way.
type builder struct {
	file   string
	st     *symbols.SymbolTable
	errors []*diagnostics.DiagnosticError
}

// Build declares everything in u in a fresh module scope.
func Build(u *Unit, file string) (*symbols.SymbolTable, []*diagnostics.DiagnosticError) {
	b := &builder{file: file, st: symbols.New(u.Module)}
	for _, m := range u.Imports {
		b.st.ImportModule(m)
	}

	for _, a := range u.TypeAliases {
		b.defineAlias(a)
	}

	// Declare every nominal first so members can refer to any of them.
	specs := append(append([]TypeSpec{}, u.Protocols...), u.Types...)
	decls := make([]*ast.NominalDecl, len(specs))
	for i, spec := range specs {
		decls[i] = b.declareNominal(spec)
	}
	for i, spec := range specs {
		if decls[i] != nil {
			b.fillNominal(decls[i], spec)
		}
	}
	for _, e := range u.Extensions {
		b.defineExtension(e)
	}

	for _, err := range b.errors {
		if err.File == "" {
			err.File = file
		}
	}
	return b.st, b.errors
}

func (b *builder) errorf(code diagnostics.ErrorCode, line, col int, format string, args ...interface{}) {
	b.errors = append(b.errors, diagnostics.NewError(code, token.At(line, col, ""), fmt.Sprintf(format, args...)))
}

func (b *builder) defineAlias(a AliasSpec) {
	t, ok := b.parseType(a.Type, nil)
	if !ok {
		return
	}
	access, _ := ast.ParseAccessLevel(a.Access)
	alias := &ast.TypeAliasDecl{Token: token.At(a.Line, a.Column, a.Name), Name: a.Name, Access: access, Underlying: t}
	if err := b.st.DefineTypeAlias(alias); err != nil {
		b.errorf(diagnostics.ErrL003, a.Line, a.Column, "%v", err)
	}
}

func (b *builder) declareNominal(spec TypeSpec) *ast.NominalDecl {
	kind, _ := ast.ParseNominalKind(spec.Kind)
	access, _ := ast.ParseAccessLevel(spec.Access)
	decl := &ast.NominalDecl{
		Token:       token.At(spec.Line, spec.Column, spec.Name),
		Name:        spec.Name,
		Kind:        kind,
		Distributed: spec.Distributed,
		Access:      access,
	}
	if err := b.st.DefineNominal(decl); err != nil {
		b.errorf(diagnostics.ErrL003, spec.Line, spec.Column, "%v", err)
		return nil
	}
	return decl
}

func (b *builder) fillNominal(decl *ast.NominalDecl, spec TypeSpec) {
	decl.Inherited = b.parseInherited(spec.Inherits)
	decl.Members = b.buildMembers(spec.Members, decl, decl)
}

func (b *builder) defineExtension(e ExtensionSpec) {
	extended, ok := b.st.FindNominal(e.Extends)
	if !ok {
		b.errorf(diagnostics.ErrL003, e.Line, e.Column, "cannot find type '%s' in scope", e.Extends)
		return
	}
	ext := &ast.ExtensionDecl{
		Token:     token.At(e.Line, e.Column, e.Extends),
		Extended:  extended,
		Inherited: b.parseInherited(e.Conforms),
	}
	for _, w := range e.Where {
		if req, ok := b.parseRequirement(w, nil); ok {
			ext.Requirements = append(ext.Requirements, req)
		}
	}
	ext.Members = b.buildMembers(e.Members, ext, extended)
	b.st.AddExtension(ext)
}

func (b *builder) parseInherited(srcs []Source) []typesystem.Type {
	var out []typesystem.Type
	for _, src := range srcs {
		if t, ok := b.parseType(src, nil); ok {
			out = append(out, t)
		}
	}
	return out
}

func (b *builder) buildMembers(specs []MemberSpec, ctx ast.DeclContext, owner *ast.NominalDecl) []ast.Decl {
	var out []ast.Decl
	seenAliases := make(map[string]bool)
	for _, m := range specs {
		name, kind := m.name()
		tok := token.At(m.Line, m.Column, name)
		access, _ := ast.ParseAccessLevel(m.Access)
		switch kind {
		case "func":
			if fn := b.buildFunc(m, tok, access, ctx); fn != nil {
				out = append(out, fn)
			}
		case "var", "let":
			t, ok := b.parseType(*m.Type, nil)
			if !ok {
				continue
			}
			out = append(out, &ast.VarDecl{
				Token:         tok,
				Name:          name,
				Access:        access,
				Type:          t,
				IsLet:         kind == "let",
				IsStatic:      m.Static,
				HasStorage:    m.Stored,
				HasSetter:     m.Setter,
				IsDistributed: m.Distributed,
				IsSynthesized: m.Synthesized,
				Context:       ctx,
			})
		case "init":
			ctor := &ast.ConstructorDecl{
				Token:         tok,
				Access:        access,
				IsConvenience: m.Convenience,
				IsFailable:    m.Failable,
				Context:       ctx,
			}
			ctor.Params = b.parseParams(m.Params, nil)
			out = append(out, ctor)
		case "typealias":
			if seenAliases[name] {
				b.errorf(diagnostics.ErrL003, m.Line, m.Column, "invalid redeclaration of %s.%s", owner.Name, name)
				continue
			}
			seenAliases[name] = true
			t, ok := b.parseType(*m.Type, nil)
			if !ok {
				continue
			}
			out = append(out, &ast.TypeAliasDecl{Token: tok, Name: name, Access: access, Underlying: t})
		}
	}
	return out
}

func (b *builder) buildFunc(m MemberSpec, tok token.Token, access ast.AccessLevel, ctx ast.DeclContext) *ast.FuncDecl {
	fn := &ast.FuncDecl{
		Token:         tok,
		Name:          m.Func,
		Access:        access,
		IsAsync:       m.Async,
		Throws:        m.Throws,
		IsMutating:    m.Mutating,
		IsStatic:      m.Static,
		IsDistributed: m.Distributed,
		Context:       ctx,
	}
	seen := make(map[string]bool)
	for _, g := range m.Generics {
		if seen[g] {
			b.errorf(diagnostics.ErrL003, m.Line, m.Column, "invalid redeclaration of generic parameter '%s' in %s", g, m.Func)
			continue
		}
		seen[g] = true
		fn.GenericParams = append(fn.GenericParams, &ast.GenericParam{Token: token.At(m.Line, m.Column, g), Name: g})
	}
	generics := ast.GenericParamNames(fn.GenericParams)

	fn.Params = b.parseParams(m.Params, generics)
	for _, w := range m.Where {
		if req, ok := b.parseRequirement(w, generics); ok {
			fn.Requirements = append(fn.Requirements, req)
		}
	}
	if m.Returns != nil {
		t, ok := b.parseType(*m.Returns, generics)
		if !ok {
			return nil
		}
		fn.Result = t
	}
	return fn
}

func (b *builder) parseParams(srcs []Source, generics []string) []*ast.ParamDecl {
	var out []*ast.ParamDecl
	for _, src := range srcs {
		p, errs := parser.ParamFromString(src.Text, src.Line, src.Column)
		if len(errs) > 0 {
			b.errors = append(b.errors, errs...)
			continue
		}
		p.Type = typesystem.BindGenericParams(p.Type, generics)
		out = append(out, p)
	}
	return out
}

func (b *builder) parseType(src Source, generics []string) (typesystem.Type, bool) {
	t, errs := parser.TypeFromString(src.Text, src.Line, src.Column)
	if len(errs) > 0 {
		b.errors = append(b.errors, errs...)
		return nil, false
	}
	return typesystem.BindGenericParams(t, generics), true
}

func (b *builder) parseRequirement(src Source, generics []string) (typesystem.Requirement, bool) {
	req, errs := parser.RequirementFromString(src.Text, src.Line, src.Column)
	if len(errs) > 0 {
		b.errors = append(b.errors, errs...)
		return typesystem.Requirement{}, false
	}
	req.Subject = typesystem.BindGenericParams(req.Subject, generics)
	req.Constraint = typesystem.BindGenericParams(req.Constraint, generics)
	return req, true
}
