package distcheck

import (
	"errors"

	"github.com/funvibe/distcheck/internal/ast"
	"github.com/funvibe/distcheck/internal/diagnostics"
	"github.com/funvibe/distcheck/internal/pipeline"
	"github.com/funvibe/distcheck/internal/report"
)

// ErrDiagnostics is returned by Resolve when loading or resolving reported
// diagnostics. They are available on the accompanying Result.
var ErrDiagnostics = errors.New("distcheck: resolution reported diagnostics")

// Diagnostic is one finding of a run.
type Diagnostic = report.Record

// Summary counts the outcome of a run.
type Summary = report.Summary

// Result is the outcome of checking one unit.
type Result struct {
	File        string
	Module      string
	Diagnostics []Diagnostic
	Summary     Summary

	diags []*diagnostics.DiagnosticError
}

// OK reports whether the run found no errors. Warnings do not count.
func (r *Result) OK() bool { return r.Summary.Errors == 0 }

// Witness describes the declaration that satisfies an ad-hoc requirement.
type Witness struct {
	Name      string
	Owner     string
	Line      int
	Column    int
	Access    string
	Signature string
}

// Marshaller converts pipeline state into the public result types.
type Marshaller struct{}

func NewMarshaller() *Marshaller {
	return &Marshaller{}
}

// Result summarizes a finished pipeline context.
func (m *Marshaller) Result(ctx *pipeline.PipelineContext) *Result {
	return &Result{
		File:        ctx.FilePath,
		Module:      ctx.Module,
		Diagnostics: report.Records(ctx.Errors),
		Summary:     report.Summarize(ctx.Errors, ctx.Stats),
		diags:       ctx.Errors,
	}
}

// Witness converts a resolved function declaration.
func (m *Marshaller) Witness(fn *ast.FuncDecl) *Witness {
	w := &Witness{
		Name:      fn.Name,
		Line:      fn.Token.Line,
		Column:    fn.Token.Column,
		Access:    fn.Access.String(),
		Signature: fn.Signature(),
	}
	if fn.Context != nil {
		w.Owner = fn.Context.SelfNominal().Name
	}
	return w
}
