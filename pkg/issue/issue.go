package issue

import (
	"encoding/json"
)

type Severity string

var (
	Blocker  Severity = "BLOCKER"
	Critical Severity = "CRITICAL"
	Major    Severity = "MAJOR"
	Minor    Severity = "MINOR"
	Info     Severity = "INFO"
)

type Type string

var (
	Bug           Type = "BUG"
	Vulnerability Type = "VULNERABILITY"
	CodeSmell     Type = "CODE_SMELL"
)

// TextRange always spans a single line in this importer: EndLine repeats
// StartLine.
type TextRange struct {
	StartLine   int  `json:"startLine"`
	EndLine     int  `json:"endLine"`
	StartColumn *int `json:"startColumn,omitempty"`
	EndColumn   *int `json:"endColumn,omitempty"`
}

type Location struct {
	Message   string     `json:"message"`
	FilePath  string     `json:"filePath"`
	TextRange *TextRange `json:"textRange,omitempty"`
}

// Equal compares locations structurally, including optional columns.
func (l Location) Equal(o Location) bool {
	if l.Message != o.Message || l.FilePath != o.FilePath {
		return false
	}
	if l.TextRange == nil || o.TextRange == nil {
		return l.TextRange == nil && o.TextRange == nil
	}
	a, b := l.TextRange, o.TextRange
	return a.StartLine == b.StartLine &&
		a.EndLine == b.EndLine &&
		equalInt(a.StartColumn, b.StartColumn) &&
		equalInt(a.EndColumn, b.EndColumn)
}

func equalInt(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

type Issue struct {
	EngineID           string     `json:"engineId"`
	RuleID             *string    `json:"ruleId,omitempty"`
	Severity           *Severity  `json:"severity,omitempty"`
	Type               *Type      `json:"type,omitempty"`
	PrimaryLocation    *Location  `json:"primaryLocation,omitempty"`
	SecondaryLocations []Location `json:"secondaryLocations,omitempty"`
	EffortMinutes      int        `json:"effortMinutes"`
}

// FilePath returns the primary location's path, if any.
func (i Issue) FilePath() (string, bool) {
	if i.PrimaryLocation == nil {
		return "", false
	}
	return i.PrimaryLocation.FilePath, true
}

// Issues is the top level object of an import file.
type Issues struct {
	Issues []Issue `json:"issues"`
}

// MarshalJSON never renders the issue list as null.
func (i Issues) MarshalJSON() ([]byte, error) {
	type alias Issues
	if i.Issues == nil {
		i.Issues = []Issue{}
	}
	return json.Marshal(alias(i))
}

// Marshal renders the import file, indented with two spaces when indent is set.
func (i Issues) Marshal(indent bool) ([]byte, error) {
	if indent {
		return json.MarshalIndent(i, "", "  ")
	}
	return json.Marshal(i)
}
