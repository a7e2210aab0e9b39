package pipeline

import (
	"testing"

	"github.com/funvibe/distcheck/internal/diagnostics"
	"github.com/funvibe/distcheck/internal/token"
)

func TestRunContinuesAfterErrors(t *testing.T) {
	var order []string
	failing := ProcessorFunc(func(ctx *PipelineContext) *PipelineContext {
		order = append(order, "first")
		ctx.Errors = append(ctx.Errors, diagnostics.NewError(diagnostics.ErrL001, token.Token{Line: 1}, "broken"))
		return ctx
	})
	second := ProcessorFunc(func(ctx *PipelineContext) *PipelineContext {
		order = append(order, "second")
		return ctx
	})

	ctx := New(failing, second).Run(NewPipelineContext("unit.yaml", nil))

	if len(order) != 2 {
		t.Fatalf("expected both stages to run, got %v", order)
	}
	if !ctx.HasErrors() || !ctx.HasLoadErrors() {
		t.Errorf("expected load errors to be recorded")
	}
	if ctx.Errors[0].File != "unit.yaml" {
		t.Errorf("expected file to be filled in, got %q", ctx.Errors[0].File)
	}
}

func TestWarningsAreNotErrors(t *testing.T) {
	ctx := NewPipelineContext("", nil)
	ctx.Errors = append(ctx.Errors, diagnostics.NewWarning(diagnostics.ErrD007, token.Token{}, "variadic"))
	if ctx.HasErrors() {
		t.Errorf("a warning must not count as an error")
	}
}
