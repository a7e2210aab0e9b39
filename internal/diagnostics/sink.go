package diagnostics

import (
	"fmt"
	"sort"
)

// Sink receives diagnostics as they are produced.
type Sink interface {
	Report(*DiagnosticError)
}

// Collector is a Sink that keeps every distinct diagnostic, deduplicating
// by position, code and message.
type Collector struct {
	File     string
	errorSet map[string]*DiagnosticError
	order    []string
}

func NewCollector(file string) *Collector {
	return &Collector{File: file, errorSet: make(map[string]*DiagnosticError)}
}

func (c *Collector) Report(err *DiagnosticError) {
	if err.File == "" && c.File != "" {
		err.File = c.File
	}
	if c.errorSet == nil {
		c.errorSet = make(map[string]*DiagnosticError)
	}
	key := fmt.Sprintf("%d:%d:%s:%s", err.Token.Line, err.Token.Column, err.Code, err.Message)
	if _, seen := c.errorSet[key]; !seen {
		c.order = append(c.order, key)
	}
	c.errorSet[key] = err
}

// ReportAll adds multiple diagnostics.
func (c *Collector) ReportAll(errs []*DiagnosticError) {
	for _, err := range errs {
		c.Report(err)
	}
}

// Diagnostics returns all unique diagnostics sorted by position. Ties keep
// report order.
func (c *Collector) Diagnostics() []*DiagnosticError {
	result := make([]*DiagnosticError, 0, len(c.order))
	for _, key := range c.order {
		result = append(result, c.errorSet[key])
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Token.Line != result[j].Token.Line {
			return result[i].Token.Line < result[j].Token.Line
		}
		return result[i].Token.Column < result[j].Token.Column
	})
	return result
}

// Errors returns only error-severity diagnostics.
func (c *Collector) Errors() []*DiagnosticError {
	var out []*DiagnosticError
	for _, d := range c.Diagnostics() {
		if !d.IsWarning() {
			out = append(out, d)
		}
	}
	return out
}

// HasErrors reports whether any error-severity diagnostic was collected.
func (c *Collector) HasErrors() bool {
	for _, d := range c.errorSet {
		if !d.IsWarning() {
			return true
		}
	}
	return false
}

// Len is the number of distinct diagnostics.
func (c *Collector) Len() int { return len(c.order) }

// Discard is a Sink that drops everything.
type Discard struct{}

func (Discard) Report(*DiagnosticError) {}
