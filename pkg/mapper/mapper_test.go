package mapper

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/r3labs/diff/v3"
	"github.com/stretchr/testify/require"

	"github.com/grafana/sarif-importer/pkg/exclusion"
	"github.com/grafana/sarif-importer/pkg/issue"
	"github.com/grafana/sarif-importer/pkg/sarif"
)

func ptr[T any](v T) *T { return &v }

func readExpected(t *testing.T, name string) issue.Issues {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	var expected issue.Issues
	require.NoError(t, json.Unmarshal(b, &expected))
	return expected
}

func TestMapDocument(t *testing.T) {
	issues, summary, err := MapDocument(filepath.Join("testdata", "codeql.sarif"), exclusion.DefaultPatterns, Options{})
	require.NoError(t, err)
	require.Equal(t, "parsed 3 Rules, 3 Results resulting in 3 issues.", summary.String())

	changelog, err := diff.Diff(readExpected(t, "codeql.expected.json"), issues)
	require.NoError(t, err)
	if len(changelog) > 0 {
		prettyJson, _ := json.MarshalIndent(changelog, "", "\t")
		t.Log(string(prettyJson))
	}
	require.Len(t, changelog, 0)
}

func TestMapDocumentIsDeterministic(t *testing.T) {
	path := filepath.Join("testdata", "codeql.sarif")

	first, _, err := MapDocument(path, exclusion.DefaultPatterns, Options{})
	require.NoError(t, err)
	second, _, err := MapDocument(path, exclusion.DefaultPatterns, Options{})
	require.NoError(t, err)

	a, err := first.Marshal(true)
	require.NoError(t, err)
	b, err := second.Marshal(true)
	require.NoError(t, err)
	require.Equal(t, string(a), string(b))
}

func TestMapDocumentErrors(t *testing.T) {
	_, _, err := MapDocument(filepath.Join("testdata", "missing.sarif"), nil, Options{})
	require.Error(t, err)

	_, _, err = MapDocument(filepath.Join("testdata", "codeql.sarif"), []string{"("}, Options{})
	require.ErrorContains(t, err, "invalid exclusion pattern")
}

func TestEndToEnd(t *testing.T) {
	run := sarif.ParsedRun{
		Driver: &sarif.Driver{Organization: ptr("GitHub"), Name: ptr("CodeQL"), SemanticVersion: ptr("2.3.3")},
		Rules: []sarif.Rule{{
			ID:         ptr("rule"),
			Level:      ptr(sarif.LevelError),
			Properties: &sarif.RuleProperties{Severity: ptr(sarif.SeverityError), Precision: ptr("high")},
		}},
		Results: []sarif.Result{{RuleID: ptr("rule"), Message: ptr("m"), Locations: []sarif.Location{{URI: "src/a.java"}}}},
	}

	issues, err := New(run, Options{}).Issues(nil)
	require.NoError(t, err)
	require.Len(t, issues.Issues, 1)

	i := issues.Issues[0]
	require.Equal(t, issue.Critical, *i.Severity)
	require.Equal(t, issue.Vulnerability, *i.Type)
	require.Equal(t, "GitHub CodeQL v2.3.3", i.EngineID)
	require.Equal(t, 0, i.EffortMinutes)
}

func TestIssuesKeepsUnfilteredSet(t *testing.T) {
	run := sarif.ParsedRun{Results: []sarif.Result{
		{RuleID: ptr("a"), Locations: []sarif.Location{{URI: "src/test/FooTest.java"}}},
		{RuleID: ptr("b"), Locations: []sarif.Location{{URI: "src/main/Foo.java"}}},
		{RuleID: ptr("c")},
	}}
	m := New(run, Options{})

	filtered, err := m.Issues([]string{"/test/"})
	require.NoError(t, err)
	require.Len(t, filtered.Issues, 2)
	require.Equal(t, "b", *filtered.Issues[0].RuleID)
	require.Nil(t, filtered.Issues[1].PrimaryLocation)

	filtered, err = m.Issues([]string{"Foo"})
	require.NoError(t, err)
	require.Len(t, filtered.Issues, 1)
	require.Equal(t, "c", *filtered.Issues[0].RuleID)

	all, err := m.Issues(nil)
	require.NoError(t, err)
	require.Len(t, all.Issues, 3)
	require.Len(t, m.All(), 3)
	require.Equal(t, "parsed 0 Rules, 3 Results resulting in 3 issues.", m.Summary().String())

	// unknown rules and a missing driver
	require.Equal(t, issue.Info, *all.Issues[0].Severity)
	require.Empty(t, all.Issues[0].EngineID)
}

func TestExcludeGlobs(t *testing.T) {
	run := sarif.ParsedRun{Results: []sarif.Result{
		{Locations: []sarif.Location{{URI: "pkg/a_test.go"}}},
		{Locations: []sarif.Location{{URI: "pkg/a.go"}}},
	}}
	issues, err := New(run, Options{ExcludeGlobs: []string{"**/*_test.go"}}).Issues(nil)
	require.NoError(t, err)
	require.Len(t, issues.Issues, 1)
	require.Equal(t, "pkg/a.go", issues.Issues[0].PrimaryLocation.FilePath)
}

func TestSourceRoots(t *testing.T) {
	run := sarif.ParsedRun{Results: []sarif.Result{{Locations: []sarif.Location{
		{URI: "frontend/app/index.ts"},
		{URI: "frontend/src/main.ts"},
	}}}}
	issues, err := New(run, Options{SourceRoots: []string{"app/"}}).Issues(nil)
	require.NoError(t, err)
	require.Equal(t, "app/index.ts", issues.Issues[0].PrimaryLocation.FilePath)
	require.Equal(t, "frontend/src/main.ts", issues.Issues[0].SecondaryLocations[0].FilePath)
}

func TestMappersDoNotShareRules(t *testing.T) {
	first := sarif.ParsedRun{
		Rules:   []sarif.Rule{{ID: ptr("r"), Level: ptr(sarif.LevelError)}},
		Results: []sarif.Result{{RuleID: ptr("r")}},
	}
	second := sarif.ParsedRun{Results: []sarif.Result{{RuleID: ptr("r")}}}

	a, err := New(first, Options{}).Issues(nil)
	require.NoError(t, err)
	b, err := New(second, Options{}).Issues(nil)
	require.NoError(t, err)

	require.Equal(t, issue.Critical, *a.Issues[0].Severity)
	require.Equal(t, issue.Info, *b.Issues[0].Severity)
}

func TestEmptyRun(t *testing.T) {
	m := New(sarif.ParsedRun{}, Options{})
	issues, err := m.Issues([]string{"x"})
	require.NoError(t, err)
	b, err := issues.Marshal(false)
	require.NoError(t, err)
	require.Equal(t, `{"issues":[]}`, string(b))
	require.Equal(t, "parsed 0 Rules, 0 Results resulting in 0 issues.", m.Summary().String())
}
