package sarif

import "fmt"

type WarningKind string

var (
	// ClassificationAmbiguity marks an enum field holding an unknown value.
	ClassificationAmbiguity WarningKind = "classification-ambiguity"
	UnsupportedVersion      WarningKind = "unsupported-version"
)

// Warning is a recoverable problem found while parsing. The affected value
// is treated as absent and parsing continues.
type Warning struct {
	Kind    WarningKind
	Path    string
	Field   string
	Value   string
	Context string
}

func (w Warning) String() string {
	switch w.Kind {
	case UnsupportedVersion:
		return fmt.Sprintf("%s: SARIF version %q is not supported, results may be incomplete", displayName(w.Path), w.Value)
	default:
		msg := fmt.Sprintf("%s: failed to interpret %q as %s", displayName(w.Path), w.Value, w.Field)
		if w.Context != "" {
			msg += " (" + w.Context + ")"
		}
		return msg
	}
}
