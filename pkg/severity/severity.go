package severity

import (
	"strings"

	"github.com/grafana/sarif-importer/pkg/issue"
	"github.com/grafana/sarif-importer/pkg/sarif"
)

// Lookup resolves rules by id. It is built once per document.
type Lookup map[string]sarif.Rule

// NewLookup indexes rules by id, the first rule with a given id wins.
func NewLookup(rules []sarif.Rule) Lookup {
	l := make(Lookup, len(rules))
	for _, r := range rules {
		if r.ID == nil {
			continue
		}
		if _, ok := l[*r.ID]; !ok {
			l[*r.ID] = r
		}
	}
	return l
}

func (l Lookup) Rule(ruleID *string) (sarif.Rule, bool) {
	if ruleID == nil {
		return sarif.Rule{}, false
	}
	r, ok := l[*ruleID]
	return r, ok
}

// Classify derives the severity and type of a result from the rule its
// ruleID refers to. Results without a known rule are INFO. A nil severity
// means the rule carries nothing to classify by, the type is nil as well.
func Classify(ruleID *string, lookup Lookup) (*issue.Severity, *issue.Type) {
	rule, ok := lookup.Rule(ruleID)
	if !ok {
		s := issue.Info
		return &s, TypeOf(&s)
	}
	s := ForRule(rule.Level, rule.Properties)
	return s, TypeOf(s)
}

// ForRule is the severity table for a matched rule.
func ForRule(level *sarif.Level, props *sarif.RuleProperties) *issue.Severity {
	if props == nil || props.Severity == nil {
		return fromLevel(level)
	}

	switch *props.Severity {
	case sarif.SeverityRecommendation:
		return ptr(issue.Info)

	case sarif.SeverityWarning:
		switch precision(props) {
		case "medium":
			return ptr(issue.Minor)
		case "high":
			return ptr(issue.Major)
		case "very-high":
			return ptr(issue.Critical)
		}
		if s := fromLevel(level); s != nil {
			return s
		}
		return ptr(issue.Minor)

	case sarif.SeverityError:
		switch precision(props) {
		case "medium", "high":
			return ptr(issue.Critical)
		case "very-high":
			return ptr(issue.Blocker)
		}
		// only ERROR is checked here, the level table is not consulted
		if level != nil && *level == sarif.LevelError {
			return ptr(issue.Blocker)
		}
		return ptr(issue.Critical)
	}

	return fromLevel(level)
}

func fromLevel(level *sarif.Level) *issue.Severity {
	if level == nil {
		return nil
	}
	switch *level {
	case sarif.LevelNone, sarif.LevelNote:
		return ptr(issue.Minor)
	case sarif.LevelWarning:
		return ptr(issue.Major)
	case sarif.LevelError:
		return ptr(issue.Critical)
	}
	return nil
}

// TypeOf maps a severity to an issue type. Unknown severities are
// vulnerabilities.
func TypeOf(s *issue.Severity) *issue.Type {
	if s == nil {
		return nil
	}
	switch *s {
	case issue.Info, issue.Minor, issue.Major:
		return ptr(issue.CodeSmell)
	case issue.Blocker:
		return ptr(issue.Bug)
	default:
		return ptr(issue.Vulnerability)
	}
}

func precision(props *sarif.RuleProperties) string {
	if props.Precision == nil {
		return ""
	}
	return strings.ToLower(*props.Precision)
}

func ptr[T any](v T) *T { return &v }
