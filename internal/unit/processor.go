package unit

import (
	"fmt"

	"github.com/funvibe/distcheck/internal/diagnostics"
	"github.com/funvibe/distcheck/internal/pipeline"
	"github.com/funvibe/distcheck/internal/token"
)

// LoadProcessor parses ctx.Source as a unit file and builds its symbol
// table.
type LoadProcessor struct{}

func (lp *LoadProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	u, err := Parse(ctx.Source, ctx.FilePath)
	if err != nil {
		ctx.Errors = append(ctx.Errors, diagnostics.NewError(diagnostics.ErrL001, token.Token{}, err.Error()))
		return ctx
	}
	st, errs := Build(u, ctx.FilePath)
	ctx.Module = u.Module
	ctx.SymbolTable = st
	ctx.Errors = append(ctx.Errors, errs...)
	if ctx.Log != nil {
		fmt.Fprintf(ctx.Log, "[distcheck] loaded %s: module %s, %d declarations\n", ctx.FilePath, u.Module, len(st.Declarations()))
	}
	return ctx
}
