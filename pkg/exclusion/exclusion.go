package exclusion

import (
	"fmt"
	"regexp"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/grafana/sarif-importer/pkg/issue"
)

// DefaultPatterns excludes test sources.
var DefaultPatterns = []string{"src/test"}

// PatternError is returned by New for a pattern or glob that doesn't compile.
type PatternError struct {
	// Kind is "pattern" or "glob".
	Kind    string
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid exclusion %s %q: %v", e.Kind, e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error { return e.Err }

// Filter drops issues whose primary file path matches one of its patterns.
type Filter struct {
	patterns []*regexp.Regexp
	globs    []string
}

// New compiles patterns as case-insensitive fragments that may match
// anywhere in a path. globs use doublestar syntax and must match the whole
// path.
func New(patterns []string, globs []string) (*Filter, error) {
	f := &Filter{}
	for _, p := range patterns {
		re, err := regexp.Compile("(?i)^(?:.*" + p + ".*)$")
		if err != nil {
			return nil, &PatternError{Kind: "pattern", Pattern: p, Err: err}
		}
		f.patterns = append(f.patterns, re)
	}
	for _, g := range globs {
		if !doublestar.ValidatePattern(g) {
			return nil, &PatternError{Kind: "glob", Pattern: g, Err: doublestar.ErrBadPattern}
		}
		f.globs = append(f.globs, g)
	}
	return f, nil
}

// Excludes reports whether i is filtered out. Issues without a primary
// location are never excluded.
func (f *Filter) Excludes(i issue.Issue) bool {
	path, ok := i.FilePath()
	if !ok {
		return false
	}
	for _, re := range f.patterns {
		if re.MatchString(path) {
			return true
		}
	}
	for _, g := range f.globs {
		if doublestar.MatchUnvalidated(g, path) {
			return true
		}
	}
	return false
}

// Apply returns the issues that are not excluded. The input is left as is.
func (f *Filter) Apply(issues []issue.Issue) []issue.Issue {
	out := make([]issue.Issue, 0, len(issues))
	for _, i := range issues {
		if f == nil || !f.Excludes(i) {
			out = append(out, i)
		}
	}
	return out
}

// FilterIssues applies patterns to issues without globs.
func FilterIssues(issues []issue.Issue, patterns []string) ([]issue.Issue, error) {
	f, err := New(patterns, nil)
	if err != nil {
		return nil, err
	}
	return f.Apply(issues), nil
}
