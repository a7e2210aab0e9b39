package diagnostics

import (
	"fmt"
	"strings"

	"github.com/funvibe/distcheck/internal/token"
)

type ErrorCode string

const (
	// Distributed checks
	ErrD001 ErrorCode = "D001" // missing ad-hoc requirement witness
	ErrD002 ErrorCode = "D002" // more than one candidate matches an ad-hoc requirement
	ErrD003 ErrorCode = "D003" // ad-hoc witness less visible than the conforming type
	ErrD004 ErrorCode = "D004" // distributed parameter does not conform to the serialization requirement
	ErrD005 ErrorCode = "D005" // distributed result does not conform to the serialization requirement
	ErrD006 ErrorCode = "D006" // inout parameter on a distributed function
	ErrD007 ErrorCode = "D007" // variadic parameter on a distributed function (warning)
	ErrD008 ErrorCode = "D008" // designated initializer without an actor system parameter
	ErrD009 ErrorCode = "D009" // designated initializer with several actor system parameters
	ErrD010 ErrorCode = "D010" // static distributed property
	ErrD011 ErrorCode = "D011" // stored distributed property
	ErrD012 ErrorCode = "D012" // settable distributed property
	ErrD013 ErrorCode = "D013" // Distributed module not imported
	ErrD014 ErrorCode = "D014" // user-defined actorSystem/id property

	// Unit loading
	ErrL001 ErrorCode = "L001" // malformed unit file
	ErrL002 ErrorCode = "L002" // type expression syntax error
	ErrL003 ErrorCode = "L003" // unknown or duplicate declaration

	// Internal
	ErrI001 ErrorCode = "I001" // internal consistency violation
)

type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityNote
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityNote:
		return "note"
	default:
		return "error"
	}
}

// Tag classifies a failure for consumers that do not parse messages.
type Tag string

const (
	TagNone                Tag = ""
	TagMissing             Tag = "missing"
	TagWrongReturnType     Tag = "wrong-return-type"
	TagWrongAccessLevel    Tag = "wrong-access-level"
	TagWrongConformance    Tag = "wrong-conformance"
	TagTooManyMatches      Tag = "too-many-matches"
	TagDisallowedParameter Tag = "disallowed-parameter"
	TagTransportArity      Tag = "transport-arity"
	TagInvalidProperty     Tag = "invalid-property"
	TagModuleUnavailable   Tag = "module-unavailable"
	TagMalformedUnit       Tag = "malformed-unit"
)

var codeTags = map[ErrorCode]Tag{
	ErrD001: TagMissing,
	ErrD002: TagTooManyMatches,
	ErrD003: TagWrongAccessLevel,
	ErrD004: TagWrongConformance,
	ErrD005: TagWrongReturnType,
	ErrD006: TagDisallowedParameter,
	ErrD007: TagDisallowedParameter,
	ErrD008: TagTransportArity,
	ErrD009: TagTransportArity,
	ErrD010: TagInvalidProperty,
	ErrD011: TagInvalidProperty,
	ErrD012: TagInvalidProperty,
	ErrD013: TagModuleUnavailable,
	ErrD014: TagInvalidProperty,
	ErrL001: TagMalformedUnit,
	ErrL002: TagMalformedUnit,
	ErrL003: TagMalformedUnit,
}

// Note is attached to a diagnostic. Template holds an expected signature
// skeleton rendered verbatim.
type Note struct {
	Message  string `yaml:"message"`
	Template string `yaml:"template,omitempty"`
}

// FixIt is a suggested source insertion, e.g. ": Codable" after a type name.
type FixIt struct {
	Target string `yaml:"target"`
	Insert string `yaml:"insert"`
}

// DiagnosticError is one structured failure report.
type DiagnosticError struct {
	Code     ErrorCode
	Severity Severity
	Tag      Tag
	Token    token.Token
	File     string
	Decl     string // offending declaration
	Message  string
	Notes    []Note
	FixIts   []FixIt
}

func (e *DiagnosticError) Error() string {
	var b strings.Builder
	if e.File != "" {
		b.WriteString(e.File + ":")
	}
	fmt.Fprintf(&b, "%d:%d: %s[%s]: %s", e.Token.Line, e.Token.Column, e.Severity, e.Code, e.Message)
	return b.String()
}

// IsWarning reports whether the diagnostic is advisory only.
func (e *DiagnosticError) IsWarning() bool {
	return e.Severity != SeverityError
}

// WithNote appends a note and returns e for chaining.
func (e *DiagnosticError) WithNote(message, template string) *DiagnosticError {
	e.Notes = append(e.Notes, Note{Message: message, Template: template})
	return e
}

// WithFixIt appends a fix-it and returns e for chaining.
func (e *DiagnosticError) WithFixIt(target, insert string) *DiagnosticError {
	e.FixIts = append(e.FixIts, FixIt{Target: target, Insert: insert})
	return e
}

// WithDecl records the offending declaration and returns e for chaining.
func (e *DiagnosticError) WithDecl(name string) *DiagnosticError {
	e.Decl = name
	return e
}

// NewError creates an error-severity diagnostic.
func NewError(code ErrorCode, tok token.Token, message string) *DiagnosticError {
	return &DiagnosticError{
		Code:     code,
		Severity: SeverityError,
		Tag:      codeTags[code],
		Token:    tok,
		Message:  message,
	}
}

// NewWarning creates a warning-severity diagnostic.
func NewWarning(code ErrorCode, tok token.Token, message string) *DiagnosticError {
	d := NewError(code, tok, message)
	d.Severity = SeverityWarning
	return d
}

// TagOf returns the classification tag of a code.
func TagOf(code ErrorCode) Tag {
	return codeTags[code]
}
