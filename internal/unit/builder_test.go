package unit

import (
	"bytes"
	"strings"
	"testing"

	"github.com/funvibe/distcheck/internal/ast"
	"github.com/funvibe/distcheck/internal/diagnostics"
	"github.com/funvibe/distcheck/internal/pipeline"
	"github.com/funvibe/distcheck/internal/typesystem"
)

func buildSource(t *testing.T, src string) (*Unit, []*diagnostics.DiagnosticError) {
	t.Helper()
	u, err := Parse([]byte(src), "test.yaml")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	st, errs := Build(u, "test.yaml")
	if st == nil {
		t.Fatalf("Build returned no symbol table")
	}
	return u, errs
}

func TestBuild_Declarations(t *testing.T) {
	src := `
module: Chat
imports: [Distributed]
typealiases:
  - name: DefaultDistributedActorSystem
    type: ChatSystem
protocols:
  - name: Wire
    inherits: [Sendable]
types:
  - name: ChatSystem
    kind: class
    access: public
    inherits: [DistributedActorSystem]
    members:
      - typealias: SerializationRequirement
        type: Wire
      - func: remoteCall
        generics: [Act, Err, Res]
        params:
          - "on actor: Act"
          - "target: RemoteCallTarget"
          - "invocation: inout InvocationEncoder"
          - "throwing: Err.Type"
          - "returning: Res.Type"
        where: ["Act: DistributedActor", "Act.ID == ActorID", "Err: Error", "Res: SerializationRequirement"]
        returns: Res
        async: true
        throws: true
        access: public
  - name: Greeter
    kind: actor
    distributed: true
    members:
      - var: mood
        type: String
        distributed: true
      - init: true
        params: ["actorSystem: ActorSystem"]
extensions:
  - extends: Greeter
    conforms: [Wire]
    where: ["SerializationRequirement == Wire"]
    members:
      - func: wave
        distributed: true
`
	u, err := Parse([]byte(src), "test.yaml")
	if err != nil {
		t.Fatal(err)
	}
	st, errs := Build(u, "test.yaml")
	if len(errs) > 0 {
		t.Fatalf("unexpected build errors: %v", errs)
	}
	if !st.IsModuleLoaded("Distributed") {
		t.Errorf("import not recorded")
	}
	if st.Module() != "Chat" {
		t.Errorf("module = %q", st.Module())
	}

	var names []string
	for _, d := range st.Declarations() {
		names = append(names, d.Name)
	}
	if strings.Join(names, ",") != "Wire,ChatSystem,Greeter" {
		t.Errorf("declarations = %v", names)
	}

	system, _ := st.LookupNominal("ChatSystem")
	if system.Kind != ast.KindClass || system.Access != ast.AccessPublic || system.Module != "Chat" {
		t.Errorf("system = %+v", system)
	}
	remote, ok := st.LookupDirectMembers(system, "remoteCall")[0].(*ast.FuncDecl)
	if !ok {
		t.Fatalf("remoteCall is not a function")
	}
	if got := remote.Signature(); got != "func remoteCall<Act, Err, Res>(on actor: Act, target: RemoteCallTarget, invocation: inout InvocationEncoder, throwing: Err.Type, returning: Res.Type) async throws -> Res where Act: DistributedActor, Act.ID == ActorID, Err: Error, Res: SerializationRequirement" {
		t.Errorf("signature = %s", got)
	}
	if _, ok := remote.Params[0].Type.(typesystem.TParam); !ok {
		t.Errorf("generic parameter not bound: %#v", remote.Params[0].Type)
	}
	if _, ok := remote.Params[1].Type.(typesystem.TCon); !ok {
		t.Errorf("non-generic type bound as generic: %#v", remote.Params[1].Type)
	}
	if remote.Context != ast.DeclContext(system) {
		t.Errorf("context not set")
	}
	if remote.Token.Line == 0 {
		t.Errorf("position missing")
	}

	greeter, _ := st.LookupNominal("Greeter")
	if !greeter.Distributed || greeter.Kind != ast.KindActor {
		t.Errorf("greeter = %+v", greeter)
	}
	if len(greeter.Extensions) != 1 {
		t.Fatalf("extension not attached")
	}
	ext := greeter.Extensions[0]
	if len(ext.Requirements) != 1 || ext.Requirements[0].Kind != typesystem.SameTypeRequirement {
		t.Errorf("extension requirements = %v", ext.Requirements)
	}
	if !st.ConformsToProtocol(greeter.Type(), "Wire", "Chat") {
		t.Errorf("extension conformance not visible")
	}
	if len(greeter.AllMembers()) != 3 {
		t.Errorf("members = %d", len(greeter.AllMembers()))
	}
	if _, ok := st.GetTypeAlias("DefaultDistributedActorSystem"); !ok {
		t.Errorf("module alias missing")
	}
}

func TestBuild_ReferencesLaterTypes(t *testing.T) {
	_, errs := buildSource(t, `
types:
  - name: First
    inherits: [Later]
  - name: Second
protocols:
  - name: Later
extensions:
  - extends: String
    conforms: [Later]
`)
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code diagnostics.ErrorCode
		want string
		line int
	}{
		{"unknown extension target", "extensions:\n  - extends: Missing\n", diagnostics.ErrL003, "cannot find type 'Missing' in scope", 2},
		{"duplicate type", "types:\n  - name: A\n  - name: A\n", diagnostics.ErrL003, "invalid redeclaration of A", 3},
		{"protocol and type clash", "protocols:\n  - name: A\ntypes:\n  - name: A\n", diagnostics.ErrL003, "invalid redeclaration of A", 4},
		{"alias and type clash", "typealiases:\n  - name: A\n    type: Int\ntypes:\n  - name: A\n", diagnostics.ErrL003, "invalid redeclaration of A", 5},
		{"duplicate member alias", "types:\n  - name: A\n    members:\n      - typealias: X\n        type: Int\n      - typealias: X\n        type: String\n", diagnostics.ErrL003, "invalid redeclaration of A.X", 6},
		{"duplicate generic", "types:\n  - name: A\n    members:\n      - func: f\n        generics: [T, T]\n", diagnostics.ErrL003, "generic parameter 'T'", 4},
		{"bad param", "types:\n  - name: A\n    members:\n      - func: f\n        params: [\"x Int\"]\n", diagnostics.ErrL002, "expected ':'", 5},
		{"bad returns", "types:\n  - name: A\n    members:\n      - func: f\n        returns: \"[Int\"\n", diagnostics.ErrL002, "expected ']'", 5},
		{"bad where", "types:\n  - name: A\n    members:\n      - func: f\n        where: [\"T\"]\n", diagnostics.ErrL002, "expected ':' or '=='", 5},
		{"bad inherits", "types:\n  - name: A\n    inherits: [\"P &\"]\n", diagnostics.ErrL002, "expected type", 3},
		{"bad property type", "types:\n  - name: A\n    members:\n      - var: v\n        type: \"Int String\"\n", diagnostics.ErrL002, "unexpected 'String'", 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errs := buildSource(t, tt.src)
			if len(errs) == 0 {
				t.Fatalf("expected %s, got no errors", tt.code)
			}
			e := errs[0]
			if e.Code != tt.code {
				t.Errorf("code = %s, want %s", e.Code, tt.code)
			}
			if !strings.Contains(e.Message, tt.want) {
				t.Errorf("message = %q, want it to contain %q", e.Message, tt.want)
			}
			if e.Token.Line != tt.line {
				t.Errorf("line = %d, want %d", e.Token.Line, tt.line)
			}
			if e.File != "test.yaml" {
				t.Errorf("file = %q", e.File)
			}
		})
	}
}

func TestBuild_CollectsEveryError(t *testing.T) {
	_, errs := buildSource(t, `
types:
  - name: A
    inherits: ["&"]
    members:
      - func: f
        params: ["x Int", "y: [Int"]
extensions:
  - extends: Nowhere
`)
	if len(errs) != 4 {
		t.Fatalf("expected 4 errors, got %d: %v", len(errs), errs)
	}
}

func TestLoadProcessor(t *testing.T) {
	var log bytes.Buffer
	ctx := pipeline.NewPipelineContext("chat.yaml", []byte("module: Chat\nimports: [Distributed]\ntypes:\n  - name: Greeting\n"))
	ctx.Log = &log

	ctx = (&LoadProcessor{}).Process(ctx)
	if len(ctx.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", ctx.Errors)
	}
	if ctx.Module != "Chat" || ctx.SymbolTable == nil {
		t.Fatalf("context not populated: module=%q", ctx.Module)
	}
	if _, ok := ctx.SymbolTable.LookupNominal("Greeting"); !ok {
		t.Errorf("Greeting not declared")
	}
	if !strings.Contains(log.String(), "[distcheck] loaded chat.yaml: module Chat, 1 declarations") {
		t.Errorf("log = %q", log.String())
	}
}

func TestLoadProcessor_Malformed(t *testing.T) {
	ctx := pipeline.NewPipelineContext("broken.yaml", []byte("types: ["))
	ctx = (&LoadProcessor{}).Process(ctx)
	if len(ctx.Errors) != 1 || ctx.Errors[0].Code != diagnostics.ErrL001 {
		t.Fatalf("expected one L001, got %v", ctx.Errors)
	}
	if !ctx.HasLoadErrors() || ctx.SymbolTable != nil {
		t.Errorf("malformed unit must not produce a symbol table")
	}
}

func TestLoadProcessor_BuildErrors(t *testing.T) {
	ctx := pipeline.NewPipelineContext("u.yaml", []byte("extensions:\n  - extends: Missing\n"))
	ctx = (&LoadProcessor{}).Process(ctx)
	if !ctx.HasLoadErrors() {
		t.Fatalf("expected load errors")
	}
	if ctx.SymbolTable == nil {
		t.Errorf("symbol table must still be set")
	}
	if ctx.Errors[0].File != "u.yaml" {
		t.Errorf("file = %q", ctx.Errors[0].File)
	}
}
