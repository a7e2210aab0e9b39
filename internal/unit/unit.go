// Package unit loads compilation units described in YAML.
//
// A unit file declares the module being checked, the modules it imports,
// module-level typealiases, protocols, types with their members, and
// extensions. Type expressions, parameters and where-clause entries are
// written as strings in the checked language's own syntax:
//
//	module: Main
//	imports: [Distributed]
//	types:
//	  - name: FakeActorSystem
//	    kind: struct
//	    inherits: [DistributedActorSystem]
//	    members:
//	      - typealias: SerializationRequirement
//	        type: Codable
//	      - func: recordArgument
//	        generics: [Argument]
//	        params: ["_ argument: Argument"]
//	        where: ["Argument: SerializationRequirement"]
//	        mutating: true
//	        throws: true
package unit

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/funvibe/distcheck/internal/ast"
)

// DefaultModule is used when a unit does not name its module.
const DefaultModule = "Main"

// Unit is the top-level structure of a unit file.
type Unit struct {
	Module      string          `yaml:"module"`
	Imports     []string        `yaml:"imports,omitempty"`
	TypeAliases []AliasSpec     `yaml:"typealiases,omitempty"`
	Protocols   []TypeSpec      `yaml:"protocols,omitempty"`
	Types       []TypeSpec      `yaml:"types,omitempty"`
	Extensions  []ExtensionSpec `yaml:"extensions,omitempty"`
}

// Source is a string written in the checked language, with the position of
// its YAML node.
type Source struct {
	Text   string
	Line   int
	Column int
}

func (s *Source) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a string", value.Line)
	}
	s.Text = value.Value
	s.Line = value.Line
	s.Column = value.Column
	return nil
}

func (s Source) MarshalYAML() (interface{}, error) {
	return s.Text, nil
}

// Position is where a declaration starts in the unit file.
type Position struct {
	Line   int `yaml:"-"`
	Column int `yaml:"-"`
}

// AliasSpec is a module-level typealias.
type AliasSpec struct {
	Position `yaml:"-"`
	Name     string `yaml:"name"`
	Type     Source `yaml:"type"`
	Access   string `yaml:"access,omitempty"`
}

func (a *AliasSpec) UnmarshalYAML(value *yaml.Node) error {
	type plain AliasSpec
	if err := value.Decode((*plain)(a)); err != nil {
		return err
	}
	a.Line, a.Column = value.Line, value.Column
	return nil
}

// TypeSpec declares a protocol or a nominal type.
type TypeSpec struct {
	Position `yaml:"-"`
	Name     string `yaml:"name"`
	// Kind is struct, class, actor or enum. Protocols leave it empty.
	Kind        string       `yaml:"kind,omitempty"`
	Distributed bool         `yaml:"distributed,omitempty"`
	Access      string       `yaml:"access,omitempty"`
	Inherits    []Source     `yaml:"inherits,omitempty"`
	Members     []MemberSpec `yaml:"members,omitempty"`
}

func (t *TypeSpec) UnmarshalYAML(value *yaml.Node) error {
	type plain TypeSpec
	if err := value.Decode((*plain)(t)); err != nil {
		return err
	}
	t.Line, t.Column = value.Line, value.Column
	return nil
}

// ExtensionSpec extends a declared or built-in type.
type ExtensionSpec struct {
	Position `yaml:"-"`
	Extends  string       `yaml:"extends"`
	Conforms []Source     `yaml:"conforms,omitempty"`
	Where    []Source     `yaml:"where,omitempty"`
	Members  []MemberSpec `yaml:"members,omitempty"`
}

func (e *ExtensionSpec) UnmarshalYAML(value *yaml.Node) error {
	type plain ExtensionSpec
	if err := value.Decode((*plain)(e)); err != nil {
		return err
	}
	e.Line, e.Column = value.Line, value.Column
	return nil
}

// MemberSpec is one member. Exactly one of Func, Var, Let, Init and
// TypeAlias identifies what it declares.
type MemberSpec struct {
	Position  `yaml:"-"`
	Func      string `yaml:"func,omitempty"`
	Var       string `yaml:"var,omitempty"`
	Let       string `yaml:"let,omitempty"`
	Init      bool   `yaml:"init,omitempty"`
	TypeAlias string `yaml:"typealias,omitempty"`

	// Type of a property, or the target of a typealias.
	Type *Source `yaml:"type,omitempty"`

	Generics []string `yaml:"generics,omitempty"`
	Params   []Source `yaml:"params,omitempty"`
	Where    []Source `yaml:"where,omitempty"`
	Returns  *Source  `yaml:"returns,omitempty"`

	Access      string `yaml:"access,omitempty"`
	Async       bool   `yaml:"async,omitempty"`
	Throws      bool   `yaml:"throws,omitempty"`
	Mutating    bool   `yaml:"mutating,omitempty"`
	Static      bool   `yaml:"static,omitempty"`
	Distributed bool   `yaml:"distributed,omitempty"`
	Stored      bool   `yaml:"stored,omitempty"`
	Setter      bool   `yaml:"setter,omitempty"`
	Convenience bool   `yaml:"convenience,omitempty"`
	Failable    bool   `yaml:"failable,omitempty"`
	Synthesized bool   `yaml:"synthesized,omitempty"`
}

func (m *MemberSpec) UnmarshalYAML(value *yaml.Node) error {
	type plain MemberSpec
	if err := value.Decode((*plain)(m)); err != nil {
		return err
	}
	m.Line, m.Column = value.Line, value.Column
	return nil
}

// name returns the declared name and what kind of member it is.
func (m *MemberSpec) name() (string, string) {
	switch {
	case m.Func != "":
		return m.Func, "func"
	case m.Var != "":
		return m.Var, "var"
	case m.Let != "":
		return m.Let, "let"
	case m.Init:
		return "init", "init"
	case m.TypeAlias != "":
		return m.TypeAlias, "typealias"
	}
	return "", ""
}

// LoadFile reads and parses a unit file.
func LoadFile(path string) (*Unit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading unit %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse parses unit content from bytes.
// The path argument is used only for error messages.
func Parse(data []byte, path string) (*Unit, error) {
	var u Unit
	if err := yaml.Unmarshal(data, &u); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := u.validate(path); err != nil {
		return nil, err
	}
	u.setDefaults()
	return &u, nil
}

// Marshal renders a unit back to YAML.
func Marshal(u *Unit) ([]byte, error) {
	return yaml.Marshal(u)
}

// validate checks the unit for structural errors. Type expressions are
// checked later, when the unit is built.
func (u *Unit) validate(path string) error {
	for i, a := range u.TypeAliases {
		if a.Name == "" {
			return fmt.Errorf("%s: typealiases[%d]: name is required", path, i)
		}
		if a.Type.Text == "" {
			return fmt.Errorf("%s: typealias %s: type is required", path, a.Name)
		}
		if err := validateAccess(path, a.Name, a.Access); err != nil {
			return err
		}
	}
	for i, p := range u.Protocols {
		if p.Name == "" {
			return fmt.Errorf("%s: protocols[%d]: name is required", path, i)
		}
		if p.Kind != "" && p.Kind != "protocol" {
			return fmt.Errorf("%s: protocol %s: kind must be empty or protocol, got %q", path, p.Name, p.Kind)
		}
		if err := validateMembers(path, p.Name, p.Members); err != nil {
			return err
		}
	}
	for i, t := range u.Types {
		if t.Name == "" {
			return fmt.Errorf("%s: types[%d]: name is required", path, i)
		}
		if t.Kind != "" {
			kind, ok := ast.ParseNominalKind(t.Kind)
			if !ok || kind == ast.KindProtocol {
				return fmt.Errorf("%s: type %s: unknown kind %q (want struct, class, actor or enum)", path, t.Name, t.Kind)
			}
			if t.Distributed && kind != ast.KindActor {
				return fmt.Errorf("%s: type %s: only actors can be distributed", path, t.Name)
			}
		} else if t.Distributed {
			return fmt.Errorf("%s: type %s: only actors can be distributed", path, t.Name)
		}
		if err := validateAccess(path, t.Name, t.Access); err != nil {
			return err
		}
		if err := validateMembers(path, t.Name, t.Members); err != nil {
			return err
		}
	}
	for i, e := range u.Extensions {
		if e.Extends == "" {
			return fmt.Errorf("%s: extensions[%d]: extends is required", path, i)
		}
		if err := validateMembers(path, "extension "+e.Extends, e.Members); err != nil {
			return err
		}
	}
	return nil
}

func validateMembers(path, owner string, members []MemberSpec) error {
	for i := range members {
		m := &members[i]
		count := 0
		for _, set := range []bool{m.Func != "", m.Var != "", m.Let != "", m.Init, m.TypeAlias != ""} {
			if set {
				count++
			}
		}
		if count != 1 {
			return fmt.Errorf("%s: %s: members[%d]: exactly one of func, var, let, init or typealias is required", path, owner, i)
		}
		name, kind := m.name()
		switch kind {
		case "var", "let", "typealias":
			if m.Type == nil || m.Type.Text == "" {
				return fmt.Errorf("%s: %s.%s: type is required", path, owner, name)
			}
		}
		if kind != "func" && (len(m.Generics) > 0 || m.Returns != nil) {
			return fmt.Errorf("%s: %s.%s: only functions take generics or returns", path, owner, name)
		}
		if err := validateAccess(path, owner+"."+name, m.Access); err != nil {
			return err
		}
	}
	return nil
}

func validateAccess(path, name, access string) error {
	if access == "" {
		return nil
	}
	if _, ok := ast.ParseAccessLevel(access); !ok {
		return fmt.Errorf("%s: %s: unknown access level %q", path, name, access)
	}
	return nil
}

// setDefaults fills in default values for optional fields.
func (u *Unit) setDefaults() {
	if u.Module == "" {
		u.Module = DefaultModule
	}
	for i := range u.Types {
		if u.Types[i].Kind == "" {
			u.Types[i].Kind = ast.KindStruct.String()
		}
	}
	for i := range u.Protocols {
		u.Protocols[i].Kind = ast.KindProtocol.String()
	}
}
