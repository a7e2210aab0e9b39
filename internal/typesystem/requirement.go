package typesystem

import "fmt"

type RequirementKind int

const (
	ConformanceRequirement RequirementKind = iota // T: P
	SameTypeRequirement                           // T.A == U
	SuperclassRequirement                         // T: SomeClass
)

// Requirement is one entry of a generic where clause.
// For conformance requirements Constraint names a protocol, alias or
// composition; after canonicalization it is always a single protocol TCon.
type Requirement struct {
	Kind       RequirementKind
	Subject    Type
	Constraint Type
}

func (r Requirement) String() string {
	switch r.Kind {
	case SameTypeRequirement:
		return fmt.Sprintf("%s == %s", r.Subject, r.Constraint)
	default:
		return fmt.Sprintf("%s: %s", r.Subject, r.Constraint)
	}
}

func (r Requirement) Apply(s Subst) Requirement {
	return Requirement{Kind: r.Kind, Subject: r.Subject.Apply(s), Constraint: r.Constraint.Apply(s)}
}

// ProtocolName returns the protocol of a canonical conformance requirement.
func (r Requirement) ProtocolName() (string, bool) {
	if r.Kind != ConformanceRequirement {
		return "", false
	}
	c, ok := r.Constraint.(TCon)
	if !ok {
		return "", false
	}
	return c.Name, true
}

// Conforms builds the conformance requirement subject: proto.
func Conforms(subject Type, proto string) Requirement {
	return Requirement{Kind: ConformanceRequirement, Subject: subject, Constraint: TCon{Name: proto}}
}

// SameType builds the requirement a == b.
func SameType(a, b Type) Requirement {
	return Requirement{Kind: SameTypeRequirement, Subject: a, Constraint: b}
}
