package mapper

import (
	"fmt"
	"slices"

	"github.com/grafana/sarif-importer/pkg/exclusion"
	"github.com/grafana/sarif-importer/pkg/issue"
	"github.com/grafana/sarif-importer/pkg/location"
	"github.com/grafana/sarif-importer/pkg/logme"
	"github.com/grafana/sarif-importer/pkg/prettyprint"
	"github.com/grafana/sarif-importer/pkg/sarif"
	"github.com/grafana/sarif-importer/pkg/severity"
)

type Options struct {
	// SourceRoots are used for module prefix correction, location.DefaultSourceRoots when empty.
	SourceRoots []string
	// ExcludeGlobs are doublestar patterns applied in addition to the regex patterns.
	ExcludeGlobs []string
	Parser       sarif.Options
}

type Summary struct {
	Rules   int
	Results int
	Issues  int
}

func (s Summary) String() string {
	return fmt.Sprintf("parsed %d Rules, %d Results resulting in %d issues.", s.Rules, s.Results, s.Issues)
}

// Mapper converts the results of a single document into issues. A Mapper
// must not be reused for another document.
type Mapper struct {
	opts     Options
	engineID string
	lookup   severity.Lookup
	rules    int
	results  int
	issues   []issue.Issue
}

func New(run sarif.ParsedRun, opts Options) *Mapper {
	m := &Mapper{
		opts:   opts,
		lookup: severity.NewLookup(run.Rules),
		rules:  len(run.Rules),
	}
	if run.Driver != nil {
		m.engineID = run.Driver.EngineLabel()
	}

	if logme.IsDebug() {
		for _, r := range run.Rules {
			logme.DebugFln("rule: %s", prettyprint.Sprint(r))
		}
	}

	m.issues = make([]issue.Issue, 0, len(run.Results))
	for _, r := range run.Results {
		m.add(r)
	}
	return m
}

func (m *Mapper) add(r sarif.Result) {
	m.results++
	if logme.IsDebug() {
		logme.DebugFln("result: %s", prettyprint.Sprint(r))
	}

	sev, typ := severity.Classify(r.RuleID, m.lookup)
	m.issues = append(m.issues, issue.Issue{
		EngineID:           m.engineID,
		RuleID:             r.RuleID,
		Severity:           sev,
		Type:               typ,
		PrimaryLocation:    location.Primary(r, m.opts.SourceRoots),
		SecondaryLocations: location.Secondary(r, m.opts.SourceRoots),
	})
}

// All returns every mapped issue, before exclusions.
func (m *Mapper) All() []issue.Issue {
	return slices.Clone(m.issues)
}

// Issues returns the mapped issues without those excluded by patterns or
// the configured globs. The mapper keeps the unfiltered set.
func (m *Mapper) Issues(patterns []string) (issue.Issues, error) {
	if len(patterns) == 0 && len(m.opts.ExcludeGlobs) == 0 {
		return issue.Issues{Issues: m.All()}, nil
	}
	f, err := exclusion.New(patterns, m.opts.ExcludeGlobs)
	if err != nil {
		return issue.Issues{}, err
	}
	return issue.Issues{Issues: f.Apply(m.issues)}, nil
}

func (m *Mapper) Summary() Summary {
	return Summary{Rules: m.rules, Results: m.results, Issues: len(m.issues)}
}

// MapDocument parses the SARIF file at path and maps it with a fresh Mapper.
func MapDocument(path string, patterns []string, opts Options) (issue.Issues, Summary, error) {
	doc, err := sarif.ParseFile(path, opts.Parser)
	if err != nil {
		return issue.Issues{}, Summary{}, err
	}

	m := New(doc.Run, opts)
	issues, err := m.Issues(patterns)
	if err != nil {
		return issue.Issues{}, Summary{}, err
	}
	return issues, m.Summary(), nil
}
