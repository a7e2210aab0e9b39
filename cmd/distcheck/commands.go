package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/creachadair/command"
	"github.com/google/uuid"
	"github.com/kr/pretty"

	"github.com/funvibe/distcheck/internal/analyzer"
	"github.com/funvibe/distcheck/internal/ast"
	"github.com/funvibe/distcheck/internal/config"
	"github.com/funvibe/distcheck/internal/pipeline"
	"github.com/funvibe/distcheck/internal/report"
	"github.com/funvibe/distcheck/internal/typesystem"
	"github.com/funvibe/distcheck/internal/unit"
)

// unitContext reads path into a fresh pipeline context.
func unitContext(path string) (*pipeline.PipelineContext, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading unit %s: %w", path, err)
	}
	ctx := pipeline.NewPipelineContext(path, src)
	if globalArgs.Verbose {
		ctx.Log = os.Stderr
	}
	return ctx, nil
}

// expandUnits replaces directories by the unit files they contain.
func expandUnits(args []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			out = append(out, arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && slices.Contains(config.UnitFileExtensions, filepath.Ext(path)) {
				out = append(out, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", arg, err)
		}
	}
	return out, nil
}

func runCheck(env *command.Env) error {
	if len(env.Args) == 0 {
		return env.Usagef("check requires at least one unit")
	}
	if checkArgs.Format != "text" && checkArgs.Format != "yaml" {
		return env.Usagef("unknown format %q (want text or yaml)", checkArgs.Format)
	}
	mode, err := report.ParseColorMode(checkArgs.Color)
	if err != nil {
		return env.Usagef("%v", err)
	}
	paths, err := expandUnits(env.Args)
	if err != nil {
		return err
	}

	var store *report.Store
	if checkArgs.DB != "" {
		store, err = report.OpenStore(env.Context(), checkArgs.DB)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	failed := 0
	for _, path := range paths {
		ctx, err := unitContext(path)
		if err != nil {
			return err
		}
		ctx = pipeline.New(&unit.LoadProcessor{}, &analyzer.DistributedCheckProcessor{}).Run(ctx)

		sum := report.Summarize(ctx.Errors, ctx.Stats)
		switch checkArgs.Format {
		case "yaml":
			err = report.WriteYAML(os.Stdout, path, ctx.Module, ctx.Errors, sum)
		default:
			tw := report.NewTextWriter(os.Stdout, mode)
			err = tw.Write(ctx.Errors, sum)
			if err == nil && checkArgs.Stats {
				err = tw.WriteStats(sum)
			}
		}
		if err != nil {
			return err
		}

		if store != nil {
			id, err := store.Save(env.Context(), path, ctx.Module, ctx.Errors, sum)
			if err != nil {
				return fmt.Errorf("recording run of %s: %w", path, err)
			}
			if globalArgs.Verbose {
				fmt.Fprintf(os.Stderr, "[distcheck] recorded run %s\n", id)
			}
		}
		if ctx.HasErrors() {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d units failed", failed, len(paths))
	}
	return nil
}

// witnessDump is the --raw view of a witness. Declarations point back at
// their context, so the raw form is flattened.
type witnessDump struct {
	Name         string
	Owner        string
	Line, Column int
	Access       string
	Generics     []string
	Params       []*ast.ParamDecl
	Requirements []typesystem.Requirement
	Result       typesystem.Type
	IsAsync      bool
	Throws       bool
	IsMutating   bool
}

func dumpWitness(fn *ast.FuncDecl) witnessDump {
	d := witnessDump{
		Name:         fn.Name,
		Line:         fn.Token.Line,
		Column:       fn.Token.Column,
		Access:       fn.Access.String(),
		Generics:     ast.GenericParamNames(fn.GenericParams),
		Params:       fn.Params,
		Requirements: fn.Requirements,
		Result:       fn.Result,
		IsAsync:      fn.IsAsync,
		Throws:       fn.Throws,
		IsMutating:   fn.IsMutating,
	}
	if fn.Context != nil {
		d.Owner = fn.Context.SelfNominal().Name
	}
	return d
}

func runResolve(env *command.Env, path, typeName, opName string) error {
	op, ok := analyzer.OperationByName(opName)
	if !ok {
		return env.Usagef("unknown operation %q", opName)
	}
	if resolveArgs.ViaActor && op != analyzer.OpDecodeNextArgument {
		return env.Usagef("--via-actor only applies to decodeNextArgument")
	}
	ctx, err := unitContext(path)
	if err != nil {
		return err
	}
	p := &analyzer.ResolveProcessor{TypeName: typeName, Operation: op, ViaActor: resolveArgs.ViaActor}
	ctx = pipeline.New(&unit.LoadProcessor{}, p).Run(ctx)

	if len(ctx.Errors) > 0 {
		report.NewTextWriter(os.Stderr, report.ColorAuto).Write(ctx.Errors, report.Summarize(ctx.Errors, ctx.Stats))
		return errors.New("resolution failed")
	}
	if p.Witness == nil {
		return fmt.Errorf("no witness for %s on %s", opName, typeName)
	}
	if resolveArgs.Raw {
		fmt.Printf("%# v\n", pretty.Formatter(dumpWitness(p.Witness)))
		return nil
	}
	fmt.Printf("%s:%d:%d: %s\n", path, p.Witness.Token.Line, p.Witness.Token.Column, p.Witness.Signature())
	return nil
}

func runHistory(env *command.Env) error {
	if len(env.Args) > 1 {
		return env.Usagef("history takes at most one unit")
	}
	store, err := report.OpenStore(env.Context(), historyArgs.DB)
	if err != nil {
		return err
	}
	defer store.Close()

	file := ""
	if len(env.Args) == 1 {
		file = env.Args[0]
	}
	runs, err := store.Runs(env.Context(), file)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tUNIT\tMODULE\tWHEN\tERRORS\tWARNINGS")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\n", r.ID, r.File, r.Module,
			r.Created.Local().Format("2006-01-02 15:04:05"), r.Summary.Errors, r.Summary.Warnings)
	}
	return tw.Flush()
}

func runHistoryShow(env *command.Env, runID string) error {
	id, err := uuid.Parse(runID)
	if err != nil {
		return env.Usagef("invalid run id %q: %v", runID, err)
	}
	store, err := report.OpenStore(env.Context(), historyArgs.DB)
	if err != nil {
		return err
	}
	defer store.Close()

	recs, err := store.Diagnostics(env.Context(), id)
	if err != nil {
		return err
	}
	var b strings.Builder
	for _, r := range recs {
		fmt.Fprintf(&b, "%s:%d:%d: %s[%s]: %s\n", r.File, r.Line, r.Column, r.Severity, r.Code, r.Message)
		for _, n := range r.Notes {
			fmt.Fprintf(&b, "  note: %s\n", n.Message)
		}
		for _, f := range r.FixIts {
			fmt.Fprintf(&b, "  fix-it: insert '%s' after '%s'\n", f.Insert, f.Target)
		}
	}
	if len(recs) == 0 {
		b.WriteString("no diagnostics\n")
	}
	_, err = os.Stdout.WriteString(b.String())
	return err
}

func runHistoryPrune(env *command.Env, file string) error {
	store, err := report.OpenStore(env.Context(), historyArgs.DB)
	if err != nil {
		return err
	}
	defer store.Close()

	n, err := store.Prune(env.Context(), file, historyArgs.Keep)
	if err != nil {
		return err
	}
	fmt.Printf("pruned %d runs of %s\n", n, file)
	return nil
}
