package analyzer

import (
	"fmt"
	"io"

	"github.com/creachadair/mds/mapset"
	"github.com/funvibe/distcheck/internal/ast"
	"github.com/funvibe/distcheck/internal/diagnostics"
	"github.com/funvibe/distcheck/internal/requests"
	"github.com/funvibe/distcheck/internal/typesystem"
)

// Conformances answers conformance questions about types.
type Conformances interface {
	ConformsToProtocol(t typesystem.Type, proto string, module string) bool
	Conformances(decl *ast.NominalDecl) mapset.Set[string]
	Refines(a, b string) bool
}

// MemberLookup finds declarations by name.
type MemberLookup interface {
	LookupDirectMembers(decl *ast.NominalDecl, name string) []ast.Decl
	FindNominal(name string) (*ast.NominalDecl, bool)
	LookupProtocol(name string) (*ast.NominalDecl, bool)
	Declarations() []*ast.NominalDecl
}

// TypeResolver relates type spellings to what they denote.
type TypeResolver interface {
	ResolveTypeAlias(t typesystem.Type, ctx *ast.NominalDecl) (typesystem.Type, error)
	Canonicalize(t typesystem.Type, ctx *ast.NominalDecl) typesystem.Type
	TypesEqual(a, b typesystem.Type, ctx *ast.NominalDecl) bool
	AssociatedType(decl *ast.NominalDecl, name string) (typesystem.Type, bool)
	CanonicalRequirements(reqs []typesystem.Requirement, ctx *ast.NominalDecl) []typesystem.Requirement
}

// Environment is everything the checker consumes from the surrounding
// type checker. *symbols.SymbolTable implements it.
type Environment interface {
	Conformances
	MemberLookup
	TypeResolver
	IsModuleLoaded(name string) bool
	Module() string
}

type resolutionKey struct {
	decl *ast.NominalDecl
	op   Operation
}

type requirementKey struct {
	decl   *ast.NominalDecl
	marker MarkerProtocol
}

type requirementResult struct {
	req SerializationRequirement
	err error
}

// resolution is the cached outcome of scanning one (type, operation) pair:
// every matching member in declaration order.
type resolution struct {
	matches []*ast.FuncDecl
}

func (r resolution) first() *ast.FuncDecl {
	if len(r.matches) == 0 {
		return nil
	}
	return r.matches[0]
}

// Checker resolves ad-hoc requirements and validates distributed
// declarations for one compilation unit. It owns every cache; create one per
// unit and drop it when the unit is done.
type Checker struct {
	env  Environment
	sink diagnostics.Sink
	log  io.Writer

	resolutions     requests.Cache[resolutionKey, resolution]
	decodingMethods requests.Cache[*ast.NominalDecl, resolution]
	requirements    requests.Cache[requirementKey, requirementResult]
	moduleChecks    requests.Cache[*ast.NominalDecl, bool]
}

// New creates a Checker reporting to sink. A nil sink discards.
func New(env Environment, sink diagnostics.Sink) *Checker {
	if sink == nil {
		sink = diagnostics.Discard{}
	}
	c := &Checker{env: env, sink: sink}
	// A module check re-entered while it is diagnosing counts as available.
	c.moduleChecks.OnCycle = func(*ast.NominalDecl) bool { return true }
	return c
}

// SetLogger enables verbose progress output.
func (c *Checker) SetLogger(w io.Writer) {
	c.log = w
}

func (c *Checker) logf(format string, args ...interface{}) {
	if c.log == nil {
		return
	}
	fmt.Fprintf(c.log, "[distcheck] "+format+"\n", args...)
}

func (c *Checker) report(d *diagnostics.DiagnosticError) {
	c.sink.Report(d)
}

// Stats sums the traffic of every cache the checker owns.
func (c *Checker) Stats() requests.Stats {
	return c.resolutions.Stats().
		Add(c.decodingMethods.Stats()).
		Add(c.requirements.Stats()).
		Add(c.moduleChecks.Stats())
}
