package testinterceptor

import "github.com/grafana/sarif-importer/pkg/sarif"

// WarningInterceptor collects the warnings a parser reports.
type WarningInterceptor struct {
	Warnings []sarif.Warning
}

func (t *WarningInterceptor) Intercept() func(sarif.Warning) {
	return func(w sarif.Warning) {
		t.Warnings = append(t.Warnings, w)
	}
}

// Kinds returns the kind of every collected warning, in order.
func (t *WarningInterceptor) Kinds() []sarif.WarningKind {
	kinds := make([]sarif.WarningKind, 0, len(t.Warnings))
	for _, w := range t.Warnings {
		kinds = append(kinds, w.Kind)
	}
	return kinds
}
