package issue

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestMarshalOmitsAbsentFields(t *testing.T) {
	b, err := Issues{Issues: []Issue{{EngineID: "n/a lint"}}}.Marshal(false)
	require.NoError(t, err)
	require.JSONEq(t, `{"issues":[{"engineId":"n/a lint","effortMinutes":0}]}`, string(b))
}

func TestMarshalEmpty(t *testing.T) {
	b, err := Issues{}.Marshal(false)
	require.NoError(t, err)
	require.Equal(t, `{"issues":[]}`, string(b))
}

func TestMarshalFullIssue(t *testing.T) {
	issues := Issues{Issues: []Issue{{
		EngineID: "GitHub CodeQL v2.3.3",
		RuleID:   ptr("java/sql-injection"),
		Severity: ptr(Critical),
		Type:     ptr(Vulnerability),
		PrimaryLocation: &Location{
			Message:   "query",
			FilePath:  "src/main/java/Dao.java",
			TextRange: &TextRange{StartLine: 40, EndLine: 40, StartColumn: ptr(5), EndColumn: ptr(30)},
		},
		SecondaryLocations: []Location{{Message: "query", FilePath: "src/main/java/Controller.java", TextRange: &TextRange{StartLine: 12, EndLine: 12}}},
	}}}

	b, err := issues.Marshal(true)
	require.NoError(t, err)
	require.JSONEq(t, `{
		"issues": [{
			"engineId": "GitHub CodeQL v2.3.3",
			"ruleId": "java/sql-injection",
			"severity": "CRITICAL",
			"type": "VULNERABILITY",
			"primaryLocation": {
				"message": "query",
				"filePath": "src/main/java/Dao.java",
				"textRange": {"startLine": 40, "endLine": 40, "startColumn": 5, "endColumn": 30}
			},
			"secondaryLocations": [{
				"message": "query",
				"filePath": "src/main/java/Controller.java",
				"textRange": {"startLine": 12, "endLine": 12}
			}],
			"effortMinutes": 0
		}]
	}`, string(b))
	require.Contains(t, string(b), "\n  \"issues\"")
}

func TestLocationEqual(t *testing.T) {
	a := Location{Message: "m", FilePath: "a.go", TextRange: &TextRange{StartLine: 1, EndLine: 1, StartColumn: ptr(3)}}
	b := Location{Message: "m", FilePath: "a.go", TextRange: &TextRange{StartLine: 1, EndLine: 1, StartColumn: ptr(3)}}
	require.True(t, a.Equal(b))

	b.TextRange.StartColumn = ptr(4)
	require.False(t, a.Equal(b))
	require.False(t, a.Equal(Location{Message: "m", FilePath: "a.go"}))
	require.True(t, Location{FilePath: "x"}.Equal(Location{FilePath: "x"}))
}

func TestFilePath(t *testing.T) {
	_, ok := Issue{}.FilePath()
	require.False(t, ok)
	p, ok := Issue{PrimaryLocation: &Location{FilePath: "src/a.go"}}.FilePath()
	require.True(t, ok)
	require.Equal(t, "src/a.go", p)
}
