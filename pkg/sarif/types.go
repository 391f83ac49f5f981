package sarif

import (
	"fmt"
	"strings"
)

// Level is the SARIF rule level taken from a rule's defaultConfiguration.
type Level string

var (
	LevelWarning Level = "WARNING"
	LevelError   Level = "ERROR"
	LevelNote    Level = "NOTE"
	LevelNone    Level = "NONE"
)

// ParseLevel matches s case-insensitively against the known levels.
func ParseLevel(s string) (Level, bool) {
	switch l := Level(strings.ToUpper(s)); l {
	case LevelWarning, LevelError, LevelNote, LevelNone:
		return l, true
	}
	return "", false
}

// PropertySeverity is the "problem.severity" entry of a rule property bag.
type PropertySeverity string

var (
	SeverityWarning        PropertySeverity = "warning"
	SeverityError          PropertySeverity = "error"
	SeverityRecommendation PropertySeverity = "recommendation"
)

// ParsePropertySeverity only accepts the exact lowercase spelling.
func ParsePropertySeverity(s string) (PropertySeverity, bool) {
	switch ps := PropertySeverity(s); ps {
	case SeverityWarning, SeverityError, SeverityRecommendation:
		return ps, true
	}
	return "", false
}

type Driver struct {
	Name            *string
	Organization    *string
	SemanticVersion *string
}

// EngineLabel renders the driver as "ORG NAME vVERSION".
func (d Driver) EngineLabel() string {
	org, name, ver := "n/a", "n/a", ""
	if d.Organization != nil {
		org = *d.Organization
	}
	if d.Name != nil {
		name = *d.Name
	}
	if d.SemanticVersion != nil {
		ver = "v" + *d.SemanticVersion
	}
	return strings.TrimSpace(fmt.Sprintf("%s %s %s", org, name, ver))
}

type Rule struct {
	ID               *string
	Name             *string
	ShortDescription *string
	FullDescription  *string
	Level            *Level
	Properties       *RuleProperties
}

type RuleProperties struct {
	ID          *string
	Name        *string
	Description *string
	// Tags is a set, kept sorted.
	Tags      []string
	Kind      *string
	Precision *string
	Severity  *PropertySeverity
}

type Result struct {
	RuleID    *string
	RuleIndex *int
	Message   *string
	Locations []Location
}

type Location struct {
	URI       string
	URIBaseID *string
	Index     *int
	Region    *Region
}

// Region has no end line, only the start line of a SARIF region is kept.
type Region struct {
	StartLine   int
	StartColumn *int
	EndColumn   *int
}

// ParsedRun holds everything extracted from the runs of one document.
type ParsedRun struct {
	Driver  *Driver
	Rules   []Rule
	Results []Result
}

type Document struct {
	Version string
	Schema  string
	Run     ParsedRun
}
