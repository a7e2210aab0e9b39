package analyzer

import (
	"strings"
	"testing"

	"github.com/funvibe/distcheck/internal/ast"
	"github.com/funvibe/distcheck/internal/diagnostics"
	"github.com/funvibe/distcheck/internal/symbols"
	"github.com/funvibe/distcheck/internal/unit"
)

// loadUnit parses and builds a unit, failing the test on load errors.
func loadUnit(t *testing.T, src string) *symbols.SymbolTable {
	t.Helper()
	u, err := unit.Parse([]byte(src), "test.yaml")
	if err != nil {
		t.Fatalf("unit does not parse: %v\ninput:\n%s", err, src)
	}
	st, errs := unit.Build(u, "test.yaml")
	if len(errs) > 0 {
		t.Fatalf("unit has load errors: %v\ninput:\n%s", errs, src)
	}
	return st
}

// newChecker builds a checker for src that collects diagnostics.
func newChecker(t *testing.T, src string) (*Checker, *symbols.SymbolTable, *diagnostics.Collector) {
	t.Helper()
	st := loadUnit(t, src)
	collector := diagnostics.NewCollector("test.yaml")
	return New(st, collector), st, collector
}

// checkSource runs the whole-unit check and returns every diagnostic.
func checkSource(t *testing.T, src string) []*diagnostics.DiagnosticError {
	t.Helper()
	c, _, collector := newChecker(t, src)
	c.CheckUnit()
	return collector.Diagnostics()
}

func render(diags []*diagnostics.DiagnosticError) string {
	var msgs []string
	for _, d := range diags {
		msgs = append(msgs, d.Error())
	}
	return strings.Join(msgs, "\n")
}

// expectCheckError asserts at least one diagnostic with the given code.
func expectCheckError(t *testing.T, src string, code diagnostics.ErrorCode) *diagnostics.DiagnosticError {
	t.Helper()
	diags := checkSource(t, src)
	for _, d := range diags {
		if d.Code == code {
			return d
		}
	}
	t.Fatalf("expected error %s, got:\n%s", code, render(diags))
	return nil
}

// expectCheckErrorContains asserts a diagnostic with code whose message
// contains substr.
func expectCheckErrorContains(t *testing.T, src string, code diagnostics.ErrorCode, substr string) *diagnostics.DiagnosticError {
	t.Helper()
	diags := checkSource(t, src)
	for _, d := range diags {
		if d.Code == code && strings.Contains(d.Message, substr) {
			return d
		}
	}
	t.Fatalf("expected error %s containing %q, got:\n%s", code, substr, render(diags))
	return nil
}

// expectNoCheckErrors asserts no error-severity diagnostics. Warnings are
// allowed.
func expectNoCheckErrors(t *testing.T, src string) []*diagnostics.DiagnosticError {
	t.Helper()
	diags := checkSource(t, src)
	for _, d := range diags {
		if d.Severity == diagnostics.SeverityError {
			t.Fatalf("expected no errors, got:\n%s", render(diags))
		}
	}
	return diags
}

func countCode(diags []*diagnostics.DiagnosticError, code diagnostics.ErrorCode) int {
	n := 0
	for _, d := range diags {
		if d.Code == code {
			n++
		}
	}
	return n
}

func mustFind(t *testing.T, st *symbols.SymbolTable, name string) *ast.NominalDecl {
	t.Helper()
	decl, ok := st.FindNominal(name)
	if !ok {
		t.Fatalf("type %s not declared", name)
	}
	return decl
}

// expectAmbiguous runs fn and asserts it traps with an ambiguity error.
func expectAmbiguous(t *testing.T, fn func()) *AmbiguousAdHocWitnessError {
	t.Helper()
	var got *AmbiguousAdHocWitnessError
	func() {
		defer func() {
			if r := recover(); r != nil {
				amb, ok := r.(*AmbiguousAdHocWitnessError)
				if !ok {
					panic(r)
				}
				got = amb
			}
		}()
		fn()
	}()
	if got == nil {
		t.Fatalf("expected an ambiguity trap, got none")
	}
	return got
}
