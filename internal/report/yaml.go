package report

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/funvibe/distcheck/internal/diagnostics"
)

// Document is the YAML report of one unit.
type Document struct {
	File        string   `yaml:"file"`
	Module      string   `yaml:"module,omitempty"`
	Diagnostics []Record `yaml:"diagnostics"`
	Summary     Summary  `yaml:"summary"`
}

// WriteYAML renders diagnostics as a YAML document.
func WriteYAML(w io.Writer, file, module string, diags []*diagnostics.DiagnosticError, sum Summary) error {
	doc := Document{File: file, Module: module, Diagnostics: Records(diags), Summary: sum}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return enc.Close()
}

// ReadYAML parses a document written by WriteYAML.
func ReadYAML(r io.Reader) (*Document, error) {
	var doc Document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding report: %w", err)
	}
	return &doc, nil
}
