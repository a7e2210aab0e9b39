package diagnostics

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/funvibe/distcheck/internal/token"
)

func at(line, col int) token.Token {
	return token.Token{Type: token.IDENT, Line: line, Column: col}
}

func TestErrorRendering(t *testing.T) {
	d := NewError(ErrD004, at(12, 5), "parameter 'greeting' does not conform")
	if got, want := d.Error(), "12:5: error[D004]: parameter 'greeting' does not conform"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	d.File = "greeter.yaml"
	if got, want := d.Error(), "greeter.yaml:12:5: error[D004]: parameter 'greeting' does not conform"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	w := NewWarning(ErrD007, at(3, 1), "variadic")
	if got, want := w.Error(), "3:1: warning[D007]: variadic"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !w.IsWarning() || d.IsWarning() {
		t.Errorf("IsWarning mismatch: warning=%v error=%v", w.IsWarning(), d.IsWarning())
	}
}

func TestTags(t *testing.T) {
	tests := map[ErrorCode]Tag{
		ErrD001: TagMissing,
		ErrD002: TagTooManyMatches,
		ErrD003: TagWrongAccessLevel,
		ErrD005: TagWrongReturnType,
		ErrD009: TagTransportArity,
		ErrD013: TagModuleUnavailable,
		ErrL002: TagMalformedUnit,
		ErrI001: TagNone,
	}
	for code, want := range tests {
		if got := NewError(code, at(1, 1), "x").Tag; got != want {
			t.Errorf("%s: tag %q, want %q", code, got, want)
		}
		if got := TagOf(code); got != want {
			t.Errorf("TagOf(%s) = %q, want %q", code, got, want)
		}
	}
}

func TestChaining(t *testing.T) {
	d := NewError(ErrD001, at(1, 1), "missing").
		WithDecl("GreeterSystem").
		WithNote("protocol requires function", "func remoteCall()").
		WithFixIt("Greeting", ": Codable")

	if d.Decl != "GreeterSystem" {
		t.Errorf("Decl = %q", d.Decl)
	}
	if diff := cmp.Diff([]Note{{Message: "protocol requires function", Template: "func remoteCall()"}}, d.Notes); diff != "" {
		t.Errorf("notes mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]FixIt{{Target: "Greeting", Insert: ": Codable"}}, d.FixIts); diff != "" {
		t.Errorf("fix-its mismatch (-want +got):\n%s", diff)
	}
}

func TestCollectorDeduplicates(t *testing.T) {
	c := NewCollector("unit.yaml")
	c.Report(NewError(ErrD004, at(4, 2), "same"))
	c.Report(NewError(ErrD004, at(4, 2), "same"))
	c.Report(NewError(ErrD004, at(4, 2), "other"))
	c.Report(NewError(ErrD005, at(4, 2), "same"))

	if c.Len() != 3 {
		t.Fatalf("expected 3 distinct diagnostics, got %d", c.Len())
	}
	for _, d := range c.Diagnostics() {
		if d.File != "unit.yaml" {
			t.Errorf("file not stamped: %q", d.File)
		}
	}
}

func TestCollectorKeepsExplicitFile(t *testing.T) {
	c := NewCollector("unit.yaml")
	d := NewError(ErrL001, at(1, 1), "broken")
	d.File = "other.yaml"
	c.Report(d)
	if got := c.Diagnostics()[0].File; got != "other.yaml" {
		t.Errorf("File = %q", got)
	}
}

func TestCollectorSortsByPosition(t *testing.T) {
	c := NewCollector("")
	c.ReportAll([]*DiagnosticError{
		NewError(ErrD005, at(9, 1), "c"),
		NewError(ErrD004, at(2, 7), "b"),
		NewError(ErrD001, at(2, 3), "a"),
		NewError(ErrD002, at(9, 1), "d"),
	})

	var got []string
	for _, d := range c.Diagnostics() {
		got = append(got, d.Message)
	}
	if diff := cmp.Diff([]string{"a", "b", "c", "d"}, got); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestCollectorErrors(t *testing.T) {
	c := NewCollector("")
	c.Report(NewWarning(ErrD007, at(1, 1), "variadic"))
	if c.HasErrors() {
		t.Fatalf("warnings alone are not errors")
	}
	if len(c.Errors()) != 0 {
		t.Fatalf("Errors() returned warnings")
	}

	c.Report(NewError(ErrD006, at(2, 1), "inout"))
	if !c.HasErrors() {
		t.Fatalf("expected HasErrors")
	}
	if errs := c.Errors(); len(errs) != 1 || errs[0].Code != ErrD006 {
		t.Fatalf("Errors() = %v", errs)
	}
}

func TestZeroCollector(t *testing.T) {
	var c Collector
	c.Report(NewError(ErrD001, at(1, 1), "x"))
	if c.Len() != 1 {
		t.Errorf("zero-value collector dropped a report")
	}
	Discard{}.Report(NewError(ErrD001, at(1, 1), "x"))
}
