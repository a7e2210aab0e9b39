// Command distcheck checks distributed actor declarations in unit files.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/creachadair/command"
	"github.com/creachadair/flax"
)

var globalArgs struct {
	Verbose bool `flag:"verbose,Log progress to stderr"`
}

var checkArgs struct {
	Format string `flag:"format,default=text,Report format (text or yaml)"`
	DB     string `flag:"db,Record the run in this SQLite database"`
	Stats  bool   `flag:"stats,Print request cache counters"`
	Color  string `flag:"color,default=auto,Colour text output (auto, always or never)"`
}

var resolveArgs struct {
	ViaActor bool `flag:"via-actor,Resolve decodeNextArgument through the actor's system decoder"`
	Raw      bool `flag:"raw,Dump the witness declaration"`
}

var historyArgs struct {
	DB   string `flag:"db,default=distcheck.db,SQLite database of recorded runs"`
	Keep int    `flag:"keep,default=10,Number of runs per unit to keep when pruning"`
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			if os.Getenv("DEBUG") == "1" {
				panic(r)
			}
			fmt.Fprintf(os.Stderr, "Internal error: %v\n", r)
			fmt.Fprintln(os.Stderr, "This is a bug. Please report it.")
			os.Exit(1)
		}
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	env := newRoot().NewEnv(nil).SetContext(ctx)
	command.RunOrFail(env, os.Args[1:])
}

func newRoot() *command.C {
	return &command.C{
		Name:     "distcheck",
		Usage:    "command args...",
		Help:     "Check distributed actor systems, actors and their ad-hoc requirements.",
		SetFlags: command.Flags(flax.MustBind, &globalArgs),
		Commands: []*command.C{
			{
				Name:  "check",
				Usage: "check unit-or-dir...",
				Help: `Check compilation units.

Each argument is a unit file or a directory searched recursively for unit
files (.yaml, .yml). Every distributed actor system, invocation encoder,
decoder and result handler is checked for its ad-hoc requirements, and
every distributed actor for the serialization requirement of its
distributed members.

The command fails if any error-severity diagnostic is reported.`,
				SetFlags: command.Flags(flax.MustBind, &checkArgs),
				Run:      runCheck,
			},
			{
				Name:  "resolve",
				Usage: "resolve unit type operation",
				Help: `Resolve one ad-hoc requirement and print the witness.

Operations are remoteCall, remoteCallVoid, recordArgument,
recordReturnType, recordErrorType, decodeNextArgument, onReturn,
onReturnVoid and onThrow.`,
				SetFlags: command.Flags(flax.MustBind, &resolveArgs),
				Run:      command.Adapt(runResolve),
			},
			{
				Name:     "history",
				Usage:    "history [unit]",
				Help:     "List runs recorded with check --db.",
				SetFlags: command.Flags(flax.MustBind, &historyArgs),
				Run:      runHistory,
				Commands: []*command.C{
					{
						Name:  "show",
						Usage: "show run-id",
						Help:  "Print the diagnostics of a recorded run.",
						Run:   command.Adapt(runHistoryShow),
					},
					{
						Name:  "prune",
						Usage: "prune unit",
						Help:  "Delete all but the newest --keep runs of a unit.",
						Run:   command.Adapt(runHistoryPrune),
					},
				},
			},
			command.HelpCommand(nil),
			command.VersionCommand(),
		},
	}
}
