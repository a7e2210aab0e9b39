package typesystem

import (
	"testing"
)

func TestTypeString(t *testing.T) {
	tests := []struct {
		typ  Type
		want string
	}{
		{TCon{Name: "String", Module: "Swift"}, "String"},
		{TParam{Name: "Res"}, "Res"},
		{TMember{Base: TParam{Name: "Act"}, Name: "ID"}, "Act.ID"},
		{TMetatype{Instance: TCon{Name: "Err"}}, "Err.Type"},
		{TMetatype{Instance: TComposition{Members: []Type{TCon{Name: "A"}, TCon{Name: "B"}}}}, "(A & B).Type"},
		{Void, "Void"},
		{TTuple{Elements: []Type{TCon{Name: "Int"}, TCon{Name: "Bool"}}}, "(Int, Bool)"},
		{TAny{}, "Any"},
		{TFunc{Params: []Type{TCon{Name: "Int"}}, IsAsync: true, Throws: true}, "(Int) async throws -> Void"},
		{TArray{Element: TCon{Name: "Int"}}, "[Int]"},
		{TOptional{Wrapped: TCon{Name: "Int"}}, "Int?"},
		{TError{Reason: "unknown"}, "<<error type>>"},
	}
	for _, tt := range tests {
		if got := tt.typ.String(); got != tt.want {
			t.Errorf("%#v.String() = %q, want %q", tt.typ, got, tt.want)
		}
	}
}

func TestEqual(t *testing.T) {
	a := TCon{Name: "A"}
	b := TCon{Name: "B"}

	tests := []struct {
		name string
		x, y Type
		want bool
	}{
		{"same nominal", a, TCon{Name: "A"}, true},
		{"different nominal", a, b, false},
		{"module unknown on one side", TCon{Name: "String"}, TCon{Name: "String", Module: "Swift"}, true},
		{"different modules", TCon{Name: "Greeting", Module: "Main"}, TCon{Name: "Greeting", Module: "Other"}, false},
		{"nominal vs param", TCon{Name: "Res"}, TParam{Name: "Res"}, false},
		{"composition is unordered", TComposition{Members: []Type{a, b}}, TComposition{Members: []Type{b, a}}, true},
		{"composition ignores duplicates", TComposition{Members: []Type{a, a, b}}, TComposition{Members: []Type{b, a}}, true},
		{"tuple is ordered", TTuple{Elements: []Type{a, b}}, TTuple{Elements: []Type{b, a}}, false},
		{"nil return is void", TFunc{Params: []Type{a}}, TFunc{Params: []Type{a}, ReturnType: Void}, true},
		{"effects matter", TFunc{IsAsync: true}, TFunc{}, false},
		{"member", TMember{Base: TParam{Name: "Act"}, Name: "ID"}, TMember{Base: TParam{Name: "Act"}, Name: "ID"}, true},
		{"member base", TMember{Base: TParam{Name: "Act"}, Name: "ID"}, TMember{Base: TParam{Name: "Other"}, Name: "ID"}, false},
		{"optional", TOptional{Wrapped: a}, TOptional{Wrapped: a}, true},
		{"array vs optional", TArray{Element: a}, TOptional{Wrapped: a}, false},
		{"any", TAny{}, TAny{}, true},
		{"error is never equal", TError{}, TError{}, false},
		{"nil", nil, nil, true},
		{"nil vs type", nil, a, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.x, tt.y); got != tt.want {
				t.Errorf("Equal(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestBindGenericParams(t *testing.T) {
	in := TFunc{
		Params: []Type{
			TMember{Base: TCon{Name: "Act"}, Name: "ID"},
			TArray{Element: TCon{Name: "Res"}},
			TCon{Name: "Act", Module: "Main"},
		},
		ReturnType: TOptional{Wrapped: TCon{Name: "Res"}},
	}
	got := BindGenericParams(in, []string{"Act", "Res"})
	want := TFunc{
		Params: []Type{
			TMember{Base: TParam{Name: "Act"}, Name: "ID"},
			TArray{Element: TParam{Name: "Res"}},
			// Module-qualified references name a real nominal.
			TCon{Name: "Act", Module: "Main"},
		},
		ReturnType: TOptional{Wrapped: TParam{Name: "Res"}},
	}
	if !Equal(got, want) {
		t.Fatalf("BindGenericParams = %s, want %s", got, want)
	}
	if _, ok := BindGenericParams(TCon{Name: "Act"}, nil).(TCon); !ok {
		t.Errorf("no names must leave the type alone")
	}
}

func TestApply(t *testing.T) {
	s := Subst{"Res": TCon{Name: "Greeting"}, "Act": TCon{Name: "Greeter"}}
	in := TTuple{Elements: []Type{TParam{Name: "Res"}, TMember{Base: TParam{Name: "Act"}, Name: "ID"}, TParam{Name: "Err"}}}
	want := TTuple{Elements: []Type{TCon{Name: "Greeting"}, TMember{Base: TCon{Name: "Greeter"}, Name: "ID"}, TParam{Name: "Err"}}}
	if got := in.Apply(s); !Equal(got, want) {
		t.Errorf("Apply = %s, want %s", got, want)
	}

	req := Conforms(TParam{Name: "Res"}, "Codable").Apply(s)
	if req.String() != "Greeting: Codable" {
		t.Errorf("requirement Apply = %q", req.String())
	}
}

func TestReplaceTCon(t *testing.T) {
	in := TComposition{Members: []Type{TCon{Name: "Codable"}, TCon{Name: "Sendable"}}}
	got := ReplaceTCon(in, "Codable", TComposition{Members: []Type{TCon{Name: "Encodable"}, TCon{Name: "Decodable"}}})
	if got.String() != "Encodable & Decodable & Sendable" {
		t.Errorf("ReplaceTCon = %q", got.String())
	}
}

func TestHasError(t *testing.T) {
	if HasError(TArray{Element: TCon{Name: "Int"}}) {
		t.Errorf("clean array reported as error")
	}
	if !HasError(TOptional{Wrapped: TArray{Element: TError{}}}) {
		t.Errorf("nested error not found")
	}
	if !HasError(TFunc{ReturnType: TError{}}) {
		t.Errorf("error in return type not found")
	}
	if HasError(nil) {
		t.Errorf("nil reported as error")
	}
}

func TestRequirementProtocolName(t *testing.T) {
	if name, ok := Conforms(TParam{Name: "Res"}, "Codable").ProtocolName(); !ok || name != "Codable" {
		t.Errorf("ProtocolName = %q, %v", name, ok)
	}
	if _, ok := SameType(TParam{Name: "A"}, TParam{Name: "B"}).ProtocolName(); ok {
		t.Errorf("same-type requirement has no protocol")
	}
	if got := SameType(TMember{Base: TParam{Name: "Act"}, Name: "ID"}, TCon{Name: "ActorID"}).String(); got != "Act.ID == ActorID" {
		t.Errorf("String = %q", got)
	}
}
