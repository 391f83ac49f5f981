package integrationtests

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/r3labs/diff/v3"
)

type Diagnostic struct {
	Severity string `json:"severity"`
	Name     string `json:"name"`
}

// Report is what a single conversion is compared on: the diagnostic kinds
// of the run report and the number of issues written.
type Report struct {
	Diagnostics []Diagnostic
	Issues      int
}

var files = map[string]Report{
	"codeql.sarif": {
		Diagnostics: []Diagnostic{{Severity: "ok", Name: "converted"}},
		// the unused-import finding is in src/test
		Issues: 2,
	},
	"lenient.sarif": {
		Diagnostics: []Diagnostic{
			{Severity: "warning", Name: "classification-ambiguity"},
			{Severity: "ok", Name: "converted"},
		},
		Issues: 1,
	},
	"multi-run.sarif": {
		Diagnostics: []Diagnostic{{Severity: "ok", Name: "converted"}},
		Issues:      2,
	},
	"package.sarif": {
		Diagnostics: []Diagnostic{{Severity: "error", Name: "invalid-sarif"}},
		Issues:      -1,
	},
}

type jsonReport struct {
	Diagnostics map[string][]struct {
		Severity string `json:"Severity"`
		Name     string `json:"Name"`
	} `json:"sarif-importer"`
}

type issuesFile struct {
	Issues []json.RawMessage `json:"issues"`
}

// RunTests converts every file of basePath with binary, one invocation per
// file, and compares the outcome with the expected report.
func RunTests(binary string, basePath string) error {
	hasError := false
	finalOutput := ""

	for file := range files {
		fmt.Printf("Running %s\n", file)

		got, err := convert(binary, basePath, file)
		if err != nil {
			return err
		}

		changelog, err := diff.Diff(files[file], got)
		if err != nil {
			return err
		}

		if len(changelog) == 0 {
			continue
		}

		hasError = true

		prettyJson, _ := json.MarshalIndent(changelog, "", "\t")
		finalOutput += "\n" + file + ": " + string(prettyJson)
	}

	if hasError {
		return fmt.Errorf("integration tests failed\n %s", finalOutput)
	}

	fmt.Println("## integration tests passed ##")

	return nil
}

func convert(binary string, basePath string, file string) (Report, error) {
	env := []string{
		"DEBUG=0",
	}

	outputDir, err := os.MkdirTemp("", "sarifimport-integration")
	if err != nil {
		return Report{}, err
	}
	defer os.RemoveAll(outputDir)

	source := filepath.Join(basePath, file)
	cmd := exec.Command(binary, "convert", "--json", "-s", source, "-o", outputDir)
	var outb, errb bytes.Buffer
	cmd.Stdout = &outb
	cmd.Stderr = &errb
	cmd.Env = append(os.Environ(), env...)
	err = cmd.Run()
	if err != nil && len(outb.String()) == 0 {
		return Report{}, fmt.Errorf(
			"Error running integration tests for file %s: %s",
			file,
			errb.String(),
		)
	}

	// marshall the output into a jsonReport
	var report jsonReport
	if err := json.Unmarshal(outb.Bytes(), &report); err != nil {
		return Report{}, err
	}

	got := Report{Issues: -1}
	for _, d := range report.Diagnostics[source] {
		got.Diagnostics = append(got.Diagnostics, Diagnostic{Severity: d.Severity, Name: d.Name})
	}

	b, err := os.ReadFile(filepath.Join(outputDir, outputName(file)))
	if err != nil {
		// no issue file is written for files that failed
		return got, nil
	}
	var issues issuesFile
	if err := json.Unmarshal(b, &issues); err != nil {
		return Report{}, fmt.Errorf("%s: invalid issue file: %w", file, err)
	}
	got.Issues = len(issues.Issues)
	return got, nil
}

func outputName(file string) string {
	return file[:len(file)-len(filepath.Ext(file))] + ".json"
}
