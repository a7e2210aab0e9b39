// Package report renders and stores the diagnostics of a checker run.
package report

import (
	"github.com/funvibe/distcheck/internal/diagnostics"
	"github.com/funvibe/distcheck/internal/requests"
)

// Record is the serializable form of one diagnostic.
type Record struct {
	Code     string              `yaml:"code"`
	Severity string              `yaml:"severity"`
	Tag      string              `yaml:"tag,omitempty"`
	File     string              `yaml:"file,omitempty"`
	Line     int                 `yaml:"line"`
	Column   int                 `yaml:"column"`
	Decl     string              `yaml:"decl,omitempty"`
	Message  string              `yaml:"message"`
	Notes    []diagnostics.Note  `yaml:"notes,omitempty"`
	FixIts   []diagnostics.FixIt `yaml:"fixits,omitempty"`
}

// NewRecord converts a diagnostic.
func NewRecord(d *diagnostics.DiagnosticError) Record {
	return Record{
		Code:     string(d.Code),
		Severity: d.Severity.String(),
		Tag:      string(d.Tag),
		File:     d.File,
		Line:     d.Token.Line,
		Column:   d.Token.Column,
		Decl:     d.Decl,
		Message:  d.Message,
		Notes:    d.Notes,
		FixIts:   d.FixIts,
	}
}

// Records converts a list of diagnostics, keeping order.
func Records(diags []*diagnostics.DiagnosticError) []Record {
	out := make([]Record, len(diags))
	for i, d := range diags {
		out[i] = NewRecord(d)
	}
	return out
}

// Summary counts a run's outcome.
type Summary struct {
	Errors   int `yaml:"errors"`
	Warnings int `yaml:"warnings"`
	Hits     int `yaml:"cache_hits"`
	Misses   int `yaml:"cache_misses"`
	Cycles   int `yaml:"cycles"`
}

// Summarize counts diagnostics by severity. Notes count as warnings.
func Summarize(diags []*diagnostics.DiagnosticError, stats requests.Stats) Summary {
	s := Summary{Hits: stats.Hits, Misses: stats.Misses, Cycles: stats.Cycles}
	for _, d := range diags {
		if d.IsWarning() {
			s.Warnings++
		} else {
			s.Errors++
		}
	}
	return s
}
