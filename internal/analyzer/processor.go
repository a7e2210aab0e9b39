package analyzer

import (
	"fmt"

	"github.com/funvibe/distcheck/internal/ast"
	"github.com/funvibe/distcheck/internal/diagnostics"
	"github.com/funvibe/distcheck/internal/pipeline"
	"github.com/funvibe/distcheck/internal/token"
)

// DistributedCheckProcessor runs the whole-unit check.
type DistributedCheckProcessor struct{}

func (p *DistributedCheckProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.SymbolTable == nil || ctx.HasLoadErrors() {
		return ctx
	}
	collector := diagnostics.NewCollector(ctx.FilePath)
	checker := New(ctx.SymbolTable, collector)
	checker.SetLogger(ctx.Log)

	guard(collector, checker.CheckUnit)

	ctx.Errors = append(ctx.Errors, collector.Diagnostics()...)
	ctx.Stats = ctx.Stats.Add(checker.Stats())
	return ctx
}

// ResolveProcessor resolves one ad-hoc operation on one type and keeps the
// witness it found.
type ResolveProcessor struct {
	TypeName  string
	Operation Operation
	// ViaActor resolves decodeNextArgument through the named actor's
	// system decoder instead of on the type itself.
	ViaActor bool

	Witness *ast.FuncDecl
}

func (p *ResolveProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.SymbolTable == nil || ctx.HasLoadErrors() {
		return ctx
	}
	decl, ok := ctx.SymbolTable.FindNominal(p.TypeName)
	if !ok {
		ctx.Errors = append(ctx.Errors, diagnostics.NewError(diagnostics.ErrL003, token.Token{},
			fmt.Sprintf("unknown type '%s'", p.TypeName)))
		return ctx
	}
	collector := diagnostics.NewCollector(ctx.FilePath)
	checker := New(ctx.SymbolTable, collector)
	checker.SetLogger(ctx.Log)

	guard(collector, func() {
		if p.ViaActor {
			p.Witness = checker.ArgumentDecodingMethod(decl)
			return
		}
		p.Witness = checker.Resolve(decl, p.Operation)
	})

	ctx.Errors = append(ctx.Errors, collector.Diagnostics()...)
	ctx.Stats = ctx.Stats.Add(checker.Stats())
	return ctx
}

// guard runs fn, converting an ambiguity trap into an internal diagnostic.
// Any other panic propagates.
func guard(sink diagnostics.Sink, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			if !recoverAmbiguity(sink, r) {
				panic(r)
			}
		}
	}()
	fn()
}
