package report

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"github.com/funvibe/distcheck/internal/diagnostics"
	"github.com/funvibe/distcheck/internal/requests"
	"github.com/funvibe/distcheck/internal/token"
)

func sampleDiagnostics() []*diagnostics.DiagnosticError {
	missing := diagnostics.NewError(diagnostics.ErrD001, token.At(3, 5, "FakeActorSystem"),
		"struct 'FakeActorSystem' is missing witness for protocol requirement 'remoteCall'").
		WithDecl("FakeActorSystem").
		WithNote("protocol 'DistributedActorSystem' requires function 'remoteCall' with signature:",
			"func remoteCall<Act, Err, Res>(\n    on actor: Act\n)")
	missing.File = "greeter.yaml"

	param := diagnostics.NewError(diagnostics.ErrD004, token.At(12, 9, "greeting"),
		"parameter 'greeting' of type 'Greeting' in distributed instance method 'greet' does not conform to serialization requirement 'Codable'").
		WithFixIt("Greeting", ": Codable")
	param.File = "greeter.yaml"

	variadic := diagnostics.NewWarning(diagnostics.ErrD007, token.At(14, 9, "names"),
		"cannot declare variadic argument 'names' in distributed instance method 'all'")
	variadic.File = "greeter.yaml"

	return []*diagnostics.DiagnosticError{missing, param, variadic}
}

func TestSummarize(t *testing.T) {
	got := Summarize(sampleDiagnostics(), requests.Stats{Hits: 4, Misses: 7, Cycles: 1})
	want := Summary{Errors: 2, Warnings: 1, Hits: 4, Misses: 7, Cycles: 1}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Summarize mismatch (-want +got):\n%s", diff)
	}
}

func TestNewRecord(t *testing.T) {
	r := NewRecord(sampleDiagnostics()[1])
	want := Record{
		Code:     "D004",
		Severity: "error",
		Tag:      "wrong-conformance",
		File:     "greeter.yaml",
		Line:     12,
		Column:   9,
		Message:  r.Message,
		FixIts:   []diagnostics.FixIt{{Target: "Greeting", Insert: ": Codable"}},
	}
	if diff := cmp.Diff(want, r); diff != "" {
		t.Errorf("NewRecord mismatch (-want +got):\n%s", diff)
	}
}

func TestTextWriter(t *testing.T) {
	var buf bytes.Buffer
	diags := sampleDiagnostics()
	if err := NewTextWriter(&buf, ColorNever).Write(diags, Summarize(diags, requests.Stats{})); err != nil {
		t.Fatal(err)
	}
	want := `greeter.yaml:3:5: error[D001]: struct 'FakeActorSystem' is missing witness for protocol requirement 'remoteCall'
  note: protocol 'DistributedActorSystem' requires function 'remoteCall' with signature:
    func remoteCall<Act, Err, Res>(
        on actor: Act
    )
greeter.yaml:12:9: error[D004]: parameter 'greeting' of type 'Greeting' in distributed instance method 'greet' does not conform to serialization requirement 'Codable'
  fix-it: insert ': Codable' after 'Greeting'
greeter.yaml:14:9: warning[D007]: cannot declare variadic argument 'names' in distributed instance method 'all'
2 errors, 1 warning
`
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("text report mismatch (-want +got):\n%s", diff)
	}
}

func TestTextWriterEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := NewTextWriter(&buf, ColorAuto).Write(nil, Summary{}); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "no diagnostics\n" {
		t.Errorf("got %q", buf.String())
	}
}

func TestTextWriterColor(t *testing.T) {
	var buf bytes.Buffer
	diags := sampleDiagnostics()[2:]
	if err := NewTextWriter(&buf, ColorAlways).Write(diags, Summarize(diags, requests.Stats{})); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), ansiYellow+"warning"+ansiReset) {
		t.Errorf("warning not coloured: %q", buf.String())
	}

	// A buffer is never a terminal.
	if useColor(&bytes.Buffer{}, ColorAuto) {
		t.Errorf("auto mode coloured a non-terminal")
	}
	t.Setenv("NO_COLOR", "1")
	if useColor(&bytes.Buffer{}, ColorAuto) {
		t.Errorf("NO_COLOR ignored")
	}
	if !useColor(&bytes.Buffer{}, ColorAlways) {
		t.Errorf("always must win over NO_COLOR")
	}
}

func TestWriteStats(t *testing.T) {
	var buf bytes.Buffer
	if err := NewTextWriter(&buf, ColorNever).WriteStats(Summary{Hits: 3, Misses: 9, Cycles: 1}); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "requests: 9 evaluated, 3 cached, 1 cycles\n" {
		t.Errorf("got %q", buf.String())
	}
}

func TestParseColorMode(t *testing.T) {
	for in, want := range map[string]ColorMode{"": ColorAuto, "auto": ColorAuto, "always": ColorAlways, "never": ColorNever} {
		got, err := ParseColorMode(in)
		if err != nil || got != want {
			t.Errorf("ParseColorMode(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseColorMode("sometimes"); err == nil {
		t.Errorf("expected an error")
	}
}

func TestYAMLRoundTrip(t *testing.T) {
	diags := sampleDiagnostics()
	sum := Summarize(diags, requests.Stats{Misses: 5})

	var buf bytes.Buffer
	if err := WriteYAML(&buf, "greeter.yaml", "Main", diags, sum); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "code: D004") || !strings.Contains(buf.String(), "tag: wrong-conformance") {
		t.Errorf("unexpected YAML:\n%s", buf.String())
	}

	doc, err := ReadYAML(&buf)
	if err != nil {
		t.Fatal(err)
	}
	want := &Document{File: "greeter.yaml", Module: "Main", Diagnostics: Records(diags), Summary: sum}
	if diff := cmp.Diff(want, doc); diff != "" {
		t.Errorf("YAML round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestYAMLEmptyReport(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteYAML(&buf, "ok.yaml", "", nil, Summary{}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "diagnostics: []") {
		t.Errorf("empty list not rendered:\n%s", buf.String())
	}
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenStore(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	clock := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return s
}

func TestStoreSaveAndLoad(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	diags := sampleDiagnostics()
	sum := Summarize(diags, requests.Stats{Hits: 2, Misses: 3})

	id, err := s.Save(ctx, "greeter.yaml", "Main", diags, sum)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if id == uuid.Nil {
		t.Fatalf("nil run id")
	}

	run, err := s.Run(ctx, id)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if run.ID != id || run.File != "greeter.yaml" || run.Module != "Main" {
		t.Errorf("run = %+v", run)
	}
	if diff := cmp.Diff(sum, run.Summary); diff != "" {
		t.Errorf("summary mismatch (-want +got):\n%s", diff)
	}

	got, err := s.Diagnostics(ctx, id)
	if err != nil {
		t.Fatalf("Diagnostics: %v", err)
	}
	if diff := cmp.Diff(Records(diags), got); diff != "" {
		t.Errorf("stored diagnostics mismatch (-want +got):\n%s", diff)
	}
}

func TestStoreEmptyRun(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	id, err := s.Save(ctx, "ok.yaml", "Main", nil, Summary{})
	if err != nil {
		t.Fatal(err)
	}
	got, err := s.Diagnostics(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("expected no diagnostics, got %v", got)
	}
}

func TestStoreUnknownRun(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Diagnostics(context.Background(), uuid.New())
	if !errors.Is(err, ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound, got %v", err)
	}
}

func TestStoreRunsAndPrune(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		id, err := s.Save(ctx, "greeter.yaml", "Main", sampleDiagnostics(), Summary{Errors: i})
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, id)
	}
	if _, err := s.Save(ctx, "other.yaml", "Main", nil, Summary{}); err != nil {
		t.Fatal(err)
	}

	runs, err := s.Runs(ctx, "greeter.yaml")
	if err != nil {
		t.Fatal(err)
	}
	var got []uuid.UUID
	for _, r := range runs {
		got = append(got, r.ID)
	}
	if diff := cmp.Diff([]uuid.UUID{ids[2], ids[1], ids[0]}, got); diff != "" {
		t.Errorf("runs must be newest first (-want +got):\n%s", diff)
	}

	all, err := s.Runs(ctx, "")
	if err != nil || len(all) != 4 {
		t.Fatalf("Runs(all) = %d, %v", len(all), err)
	}

	n, err := s.Prune(ctx, "greeter.yaml", 1)
	if err != nil || n != 2 {
		t.Fatalf("Prune = %d, %v", n, err)
	}
	if _, err := s.Diagnostics(ctx, ids[0]); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("pruned run still present: %v", err)
	}
	if recs, err := s.Diagnostics(ctx, ids[2]); err != nil || len(recs) != 3 {
		t.Errorf("newest run damaged: %d, %v", len(recs), err)
	}
	if n, err := s.Prune(ctx, "greeter.yaml", 5); err != nil || n != 0 {
		t.Errorf("Prune beyond count = %d, %v", n, err)
	}
}
