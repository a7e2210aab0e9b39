package main

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/creachadair/command"
	"github.com/google/go-cmp/cmp"

	"github.com/funvibe/distcheck/internal/analyzer"
	"github.com/funvibe/distcheck/internal/pipeline"
	"github.com/funvibe/distcheck/internal/report"
	"github.com/funvibe/distcheck/internal/unit"
)

func run(t *testing.T, args ...string) error {
	t.Helper()
	env := newRoot().NewEnv(nil).SetContext(context.Background())
	return command.Run(env, args)
}

func TestExpandUnits(t *testing.T) {
	got, err := expandUnits([]string{"testdata"})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		filepath.Join("testdata", "bad", "mood.yaml"),
		filepath.Join("testdata", "greeter.yaml"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("expandUnits mismatch (-want +got):\n%s", diff)
	}

	if _, err := expandUnits([]string{"testdata/missing.yaml"}); err == nil {
		t.Errorf("expected an error for a missing unit")
	}
}

func TestCheckCommand(t *testing.T) {
	if err := run(t, "check", "testdata/greeter.yaml"); err != nil {
		t.Errorf("check greeter.yaml: %v", err)
	}

	err := run(t, "check", "--format", "yaml", "testdata")
	if err == nil || !strings.Contains(err.Error(), "1 of 2 units failed") {
		t.Errorf("expected one failing unit, got %v", err)
	}

	if err := run(t, "check", "--format", "json", "testdata/greeter.yaml"); err == nil {
		t.Errorf("unknown format accepted")
	}
	if err := run(t, "check"); err == nil {
		t.Errorf("check without units accepted")
	}
}

func TestCheckRecordsRuns(t *testing.T) {
	db := filepath.Join(t.TempDir(), "runs.db")
	run(t, "check", "--db", db, "testdata/bad/mood.yaml")

	store, err := report.OpenStore(context.Background(), db)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	runs, err := store.Runs(context.Background(), "testdata/bad/mood.yaml")
	if err != nil || len(runs) != 1 {
		t.Fatalf("Runs = %v, %v", runs, err)
	}
	recs, err := store.Diagnostics(context.Background(), runs[0].ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 || recs[0].Code != "D004" {
		t.Fatalf("expected one D004, got %+v", recs)
	}
	if len(recs[0].FixIts) != 1 || recs[0].FixIts[0].Insert != ": Codable" {
		t.Errorf("fix-it not stored: %+v", recs[0].FixIts)
	}

	if err := run(t, "history", "--db", db); err != nil {
		t.Errorf("history: %v", err)
	}
	if err := run(t, "history", "--db", db, "show", runs[0].ID.String()); err != nil {
		t.Errorf("history show: %v", err)
	}
	if err := run(t, "history", "--db", db, "show", "not-a-uuid"); err == nil {
		t.Errorf("invalid run id accepted")
	}
}

func TestResolveCommand(t *testing.T) {
	if err := run(t, "resolve", "testdata/greeter.yaml", "FakeActorSystem", "remoteCall"); err != nil {
		t.Errorf("resolve remoteCall: %v", err)
	}
	if err := run(t, "resolve", "--via-actor", "--raw", "testdata/greeter.yaml", "Greeter", "decodeNextArgument"); err != nil {
		t.Errorf("resolve via actor: %v", err)
	}
	if err := run(t, "resolve", "testdata/greeter.yaml", "FakeActorSystem", "teleport"); err == nil {
		t.Errorf("unknown operation accepted")
	}
	if err := run(t, "resolve", "testdata/greeter.yaml", "Nobody", "remoteCall"); err == nil {
		t.Errorf("unknown type accepted")
	}
	if err := run(t, "resolve", "--via-actor", "testdata/greeter.yaml", "Greeter", "remoteCall"); err == nil {
		t.Errorf("--via-actor accepted for remoteCall")
	}
}

func TestDumpWitness(t *testing.T) {
	p := &analyzer.ResolveProcessor{TypeName: "FakeInvocationEncoder", Operation: analyzer.OpRecordArgument}
	ctx, err := unitContext("testdata/greeter.yaml")
	if err != nil {
		t.Fatal(err)
	}
	pipeline.New(&unit.LoadProcessor{}, p).Run(ctx)
	if p.Witness == nil {
		t.Fatalf("recordArgument not resolved")
	}

	d := dumpWitness(p.Witness)
	if d.Owner != "FakeInvocationEncoder" || d.Name != "recordArgument" || !d.IsMutating || !d.Throws {
		t.Errorf("dump = %+v", d)
	}
	if diff := cmp.Diff([]string{"Value"}, d.Generics); diff != "" {
		t.Errorf("generics mismatch (-want +got):\n%s", diff)
	}
}
