package ast

import (
	"strings"
)

func renderSignature(f *FuncDecl) string {
	var b strings.Builder
	if f.IsDistributed {
		b.WriteString("distributed ")
	}
	if f.IsMutating {
		b.WriteString("mutating ")
	}
	if f.IsStatic {
		b.WriteString("static ")
	}
	b.WriteString("func ")
	b.WriteString(f.Name)
	if len(f.GenericParams) > 0 {
		b.WriteString("<" + strings.Join(GenericParamNames(f.GenericParams), ", ") + ">")
	}
	b.WriteString("(")
	for i, p := range f.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(RenderParam(p))
	}
	b.WriteString(")")
	if f.IsAsync {
		b.WriteString(" async")
	}
	if f.Throws {
		b.WriteString(" throws")
	}
	if f.Result != nil {
		b.WriteString(" -> " + f.Result.String())
	}
	if len(f.Requirements) > 0 {
		reqs := make([]string, len(f.Requirements))
		for i, r := range f.Requirements {
			reqs[i] = r.String()
		}
		b.WriteString(" where " + strings.Join(reqs, ", "))
	}
	return b.String()
}

// RenderParam renders "label name: inout Type...".
func RenderParam(p *ParamDecl) string {
	var b strings.Builder
	if p.Label != "" && p.Label != p.Name {
		b.WriteString(p.Label + " ")
	}
	b.WriteString(p.Name + ": ")
	if p.IsInOut {
		b.WriteString("inout ")
	}
	if p.Type != nil {
		b.WriteString(p.Type.String())
	}
	if p.IsVariadic {
		b.WriteString("...")
	}
	return b.String()
}
