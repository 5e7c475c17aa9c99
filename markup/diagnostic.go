package markup

import (
	"fmt"
	"strings"
)

// Severity represents the severity level of a diagnostic.
type Severity int

const (
	// Error means the affected node was not rendered as written.
	Error Severity = iota
	// Warning means output was produced but part of the input was ignored.
	Warning
	// Info is an informational note.
	Info
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "ERROR"
	case Warning:
		return "WARNING"
	case Info:
		return "INFO"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// Rule identifiers reported by the tokenizer.
const (
	RuleDuplicateAttr  = "duplicate_attr"
	RuleMalformedMacro = "malformed_macro"
)

// Diagnostic is a single non-fatal finding.
type Diagnostic struct {
	Rule     string   // rule identifier (e.g., "duplicate_attr")
	Severity Severity // ERROR, WARNING, or INFO
	Message  string   // human-readable description
	File     string   // source file (optional)
	Pos      Position // location in File (optional)
}

func (d Diagnostic) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s: %s", d.Severity, d.Rule, d.Message)
	if d.File != "" {
		fmt.Fprintf(&b, " (file: %s", d.File)
		if d.Pos.Line > 0 {
			fmt.Fprintf(&b, ":%d:%d", d.Pos.Line, d.Pos.Column)
		}
		b.WriteString(")")
	} else if d.Pos.Line > 0 {
		fmt.Fprintf(&b, " (line %d, col %d)", d.Pos.Line, d.Pos.Column)
	}
	return b.String()
}

// HasErrors reports whether any diagnostic has Error severity.
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == Error {
			return true
		}
	}
	return false
}
