package pipeline

import (
	"io"

	"github.com/funvibe/distcheck/internal/diagnostics"
	"github.com/funvibe/distcheck/internal/requests"
	"github.com/funvibe/distcheck/internal/symbols"
)

// Processor is one stage of the pipeline.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// ProcessorFunc adapts a function to Processor.
type ProcessorFunc func(ctx *PipelineContext) *PipelineContext

func (f ProcessorFunc) Process(ctx *PipelineContext) *PipelineContext { return f(ctx) }

// PipelineContext carries one compilation unit through the stages.
type PipelineContext struct {
	FilePath string
	Source   []byte

	// Set by the loader.
	Module      string
	SymbolTable *symbols.SymbolTable

	Errors []*diagnostics.DiagnosticError
	Stats  requests.Stats

	// Log receives verbose progress lines when non-nil.
	Log io.Writer
}

func NewPipelineContext(filePath string, source []byte) *PipelineContext {
	return &PipelineContext{FilePath: filePath, Source: source}
}

// HasErrors reports whether any error-severity diagnostic was collected.
func (ctx *PipelineContext) HasErrors() bool {
	for _, e := range ctx.Errors {
		if e.Severity == diagnostics.SeverityError {
			return true
		}
	}
	return false
}

// HasLoadErrors reports whether the unit itself failed to load.
func (ctx *PipelineContext) HasLoadErrors() bool {
	for _, e := range ctx.Errors {
		if e.Tag == diagnostics.TagMalformedUnit {
			return true
		}
	}
	return false
}
