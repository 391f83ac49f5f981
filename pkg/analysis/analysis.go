package analysis

import (
	"sort"
)

type Severity string

var (
	Error   Severity = "error"
	Warning Severity = "warning"
	OK      Severity = "ok"
)

// Rule names a kind of outcome and the severity it is reported with.
type Rule struct {
	Name     string
	Severity Severity
}

type Diagnostic struct {
	Severity Severity
	Title    string
	Detail   string
	Context  string `json:"Context,omitempty"`
	Name     string
}

// Diagnostics holds the outcome of a batch, keyed by input file.
type Diagnostics map[string][]Diagnostic

// ReportResult records a diagnostic for rule against file.
func (d Diagnostics) ReportResult(file string, rule *Rule, title string, detail string) {
	d[file] = append(d[file], Diagnostic{
		Name:     rule.Name,
		Severity: rule.Severity,
		Title:    title,
		Detail:   detail,
	})
}

// Files returns the reported files in lexical order.
func (d Diagnostics) Files() []string {
	files := make([]string, 0, len(d))
	for f := range d {
		files = append(files, f)
	}
	sort.Strings(files)
	return files
}

// Count returns how many diagnostics of severity s were reported.
func (d Diagnostics) Count(s Severity) int {
	n := 0
	for _, ds := range d {
		for _, diag := range ds {
			if diag.Severity == s {
				n++
			}
		}
	}
	return n
}

// HasErrors reports whether file has at least one error diagnostic.
func (d Diagnostics) HasErrors(file string) bool {
	for _, diag := range d[file] {
		if diag.Severity == Error {
			return true
		}
	}
	return false
}
