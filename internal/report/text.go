package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/funvibe/distcheck/internal/diagnostics"
)

// ColorMode selects whether the text writer emits ANSI colours.
type ColorMode int

const (
	ColorAuto ColorMode = iota
	ColorAlways
	ColorNever
)

// ParseColorMode maps "auto", "always" and "never".
func ParseColorMode(s string) (ColorMode, error) {
	switch s {
	case "", "auto":
		return ColorAuto, nil
	case "always":
		return ColorAlways, nil
	case "never":
		return ColorNever, nil
	}
	return ColorAuto, fmt.Errorf("unknown color mode %q (want auto, always or never)", s)
}

const (
	ansiReset  = "\033[0m"
	ansiBold   = "\033[1m"
	ansiRed    = "\033[31m"
	ansiYellow = "\033[33m"
	ansiCyan   = "\033[36m"
	ansiGreen  = "\033[32m"
)

// TextWriter renders diagnostics the way compilers print them:
//
//	greeter.yaml:12:9: error[D004]: parameter 'greeting' of type ...
//	  note: ...
//	  fix-it: insert ': Codable' after 'Greeting'
type TextWriter struct {
	w     io.Writer
	color bool
}

func NewTextWriter(w io.Writer, mode ColorMode) *TextWriter {
	return &TextWriter{w: w, color: useColor(w, mode)}
}

// useColor honours NO_COLOR and TERM=dumb, and only colours terminals.
func useColor(w io.Writer, mode ColorMode) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (tw *TextWriter) paint(code, s string) string {
	if !tw.color {
		return s
	}
	return code + s + ansiReset
}

func (tw *TextWriter) severity(s diagnostics.Severity) string {
	switch s {
	case diagnostics.SeverityWarning:
		return tw.paint(ansiYellow, s.String())
	case diagnostics.SeverityNote:
		return tw.paint(ansiCyan, s.String())
	default:
		return tw.paint(ansiRed, s.String())
	}
}

// Write renders every diagnostic followed by a summary line.
func (tw *TextWriter) Write(diags []*diagnostics.DiagnosticError, sum Summary) error {
	var b strings.Builder
	for _, d := range diags {
		if d.File != "" {
			b.WriteString(d.File + ":")
		}
		fmt.Fprintf(&b, "%d:%d: %s[%s]: %s\n", d.Token.Line, d.Token.Column,
			tw.severity(d.Severity), d.Code, tw.paint(ansiBold, d.Message))
		for _, n := range d.Notes {
			fmt.Fprintf(&b, "  %s: %s\n", tw.severity(diagnostics.SeverityNote), n.Message)
			if n.Template != "" {
				for _, line := range strings.Split(n.Template, "\n") {
					b.WriteString("    " + line + "\n")
				}
			}
		}
		for _, f := range d.FixIts {
			fmt.Fprintf(&b, "  %s: insert '%s' after '%s'\n", tw.paint(ansiGreen, "fix-it"), f.Insert, f.Target)
		}
	}
	b.WriteString(summaryLine(sum) + "\n")
	_, err := io.WriteString(tw.w, b.String())
	return err
}

// WriteStats renders cache counters.
func (tw *TextWriter) WriteStats(sum Summary) error {
	_, err := fmt.Fprintf(tw.w, "requests: %d evaluated, %d cached, %d cycles\n", sum.Misses, sum.Hits, sum.Cycles)
	return err
}

func summaryLine(sum Summary) string {
	if sum.Errors == 0 && sum.Warnings == 0 {
		return "no diagnostics"
	}
	return fmt.Sprintf("%s, %s", plural(sum.Errors, "error"), plural(sum.Warnings, "warning"))
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}
