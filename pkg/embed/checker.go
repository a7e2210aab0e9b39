// Package distcheck exposes the distributed requirement checker to Go
// programs that want to validate actor declarations without the CLI.
package distcheck

import (
	"fmt"
	"io"
	"os"

	"github.com/funvibe/distcheck/internal/analyzer"
	"github.com/funvibe/distcheck/internal/pipeline"
	"github.com/funvibe/distcheck/internal/report"
	"github.com/funvibe/distcheck/internal/unit"
)

// Checker wraps the load and check pipeline and provides a high-level
// embedding API.
type Checker struct {
	log        io.Writer
	marshaller *Marshaller
}

// New creates a Checker with logging disabled.
func New() *Checker {
	return &Checker{marshaller: NewMarshaller()}
}

// SetLog sends verbose progress lines to w. A nil w disables them.
func (c *Checker) SetLog(w io.Writer) { c.log = w }

func (c *Checker) context(name string, src []byte) *pipeline.PipelineContext {
	ctx := pipeline.NewPipelineContext(name, src)
	ctx.Log = c.log
	return ctx
}

// Check loads the unit in src and runs every distributed check on it.
// name is used for diagnostic positions only.
func (c *Checker) Check(name string, src []byte) *Result {
	ctx := pipeline.New(&unit.LoadProcessor{}, &analyzer.DistributedCheckProcessor{}).Run(c.context(name, src))
	return c.marshaller.Result(ctx)
}

// CheckFile reads and checks the unit at path.
func (c *Checker) CheckFile(path string) (*Result, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return c.Check(path, src), nil
}

// Resolve looks up the witness of one ad-hoc requirement, such as
// "recordArgument", on typeName. With viaActor, decodeNextArgument is
// resolved through the actor's system decoder.
func (c *Checker) Resolve(name string, src []byte, typeName, operation string, viaActor bool) (*Witness, *Result, error) {
	op, ok := analyzer.OperationByName(operation)
	if !ok {
		return nil, nil, fmt.Errorf("unknown operation %q", operation)
	}
	if viaActor && op != analyzer.OpDecodeNextArgument {
		return nil, nil, fmt.Errorf("resolving through an actor only applies to decodeNextArgument")
	}
	p := &analyzer.ResolveProcessor{TypeName: typeName, Operation: op, ViaActor: viaActor}
	ctx := pipeline.New(&unit.LoadProcessor{}, p).Run(c.context(name, src))

	res := c.marshaller.Result(ctx)
	if len(ctx.Errors) > 0 {
		return nil, res, ErrDiagnostics
	}
	if p.Witness == nil {
		return nil, res, fmt.Errorf("no witness for %s on %s", operation, typeName)
	}
	return c.marshaller.Witness(p.Witness), res, nil
}

// Report writes r the way the check command prints it.
func (c *Checker) Report(w io.Writer, r *Result) error {
	tw := report.NewTextWriter(w, report.ColorNever)
	return tw.Write(r.diags, r.Summary)
}
