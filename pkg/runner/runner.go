package runner

import (
	"errors"
	"fmt"
	"strings"

	"github.com/grafana/sarif-importer/pkg/analysis"
	"github.com/grafana/sarif-importer/pkg/exclusion"
	"github.com/grafana/sarif-importer/pkg/logme"
	"github.com/grafana/sarif-importer/pkg/mapper"
	"github.com/grafana/sarif-importer/pkg/sarif"
	"github.com/grafana/sarif-importer/pkg/utils"
)

var ErrNoSarifFiles = errors.New("no SARIF files found")

var (
	converted = &analysis.Rule{Name: "converted", Severity: analysis.OK}

	invalidSarif     = &analysis.Rule{Name: "invalid-sarif", Severity: analysis.Error}
	unparsableSarif  = &analysis.Rule{Name: "unparsable-sarif", Severity: analysis.Error}
	fileSystem       = &analysis.Rule{Name: "filesystem", Severity: analysis.Error}
	invalidExclusion = &analysis.Rule{Name: "invalid-exclusion", Severity: analysis.Error}

	classificationAmbiguity = &analysis.Rule{Name: string(sarif.ClassificationAmbiguity), Severity: analysis.Warning}
	unsupportedVersion      = &analysis.Rule{Name: string(sarif.UnsupportedVersion), Severity: analysis.Warning}
	outputCollision         = &analysis.Rule{Name: "output-collision", Severity: analysis.Warning}

	renderFailed     = &analysis.Rule{Name: "render-failed", Severity: analysis.Error}
	conversionFailed = &analysis.Rule{Name: "conversion-failed", Severity: analysis.Error}
)

// Run converts every SARIF file found at source into an import file in
// outputDir. Files are converted one after the other, a file that fails
// is reported and the batch goes on. The returned error is only set when
// source itself can't be used.
func Run(cfg Config, source string, outputDir string) (analysis.Diagnostics, error) {
	files, err := utils.CollectSarifFiles(source)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoSarifFiles, source)
	}

	logme.DebugFln("converting %d files from %s into %s", len(files), source, outputDir)

	diagnostics := make(analysis.Diagnostics)
	written := make(map[string]string, len(files))

	for _, file := range files {
		target := utils.OutputPath(outputDir, file)
		if previous, ok := written[target]; ok {
			diagnostics.ReportResult(
				file,
				outputCollision,
				fmt.Sprintf("%s overwrites the output of %s", target, previous),
				"Input files with the same name are written to the same output file. Convert them into separate output directories.",
			)
		}
		if convert(cfg, file, target, diagnostics) {
			written[target] = file
		}
	}

	return diagnostics, nil
}

// convert maps a single file and reports the outcome. Every file gets its
// own mapper, nothing is shared between files.
func convert(cfg Config, file string, target string, diagnostics analysis.Diagnostics) bool {
	logme.InfoF("converting %s", file)

	opts := mapper.Options{
		SourceRoots:  cfg.SourceRoots,
		ExcludeGlobs: cfg.ExcludeGlobs,
		Parser: sarif.Options{
			Schema: cfg.Schema,
			OnWarning: func(w sarif.Warning) {
				reportWarning(file, w, diagnostics)
			},
		},
	}

	issues, summary, err := mapper.MapDocument(file, cfg.Exclusions, opts)
	if err != nil {
		reportError(file, err, diagnostics)
		return false
	}

	b, err := issues.Marshal(cfg.Global.Indent)
	if err != nil {
		diagnostics.ReportResult(file, renderFailed, fmt.Sprintf("couldn't render issues: %v", err), "")
		return false
	}
	if err := utils.WriteFile(target, b); err != nil {
		reportError(file, err, diagnostics)
		return false
	}

	logme.InfoF("%s %s", file, summary)
	diagnostics.ReportResult(
		file,
		converted,
		summary.String(),
		fmt.Sprintf("%d issues written to %s", len(issues.Issues), target),
	)
	return true
}

func reportWarning(file string, w sarif.Warning, diagnostics analysis.Diagnostics) {
	rule := classificationAmbiguity
	detail := "The value is ignored, severity and type are derived from the remaining rule data."
	if w.Kind == sarif.UnsupportedVersion {
		rule = unsupportedVersion
		detail = "Only SARIF 2.1.x documents are fully supported."
	}
	logme.DebugFln("%s", w)
	diagnostics[file] = append(diagnostics[file], analysis.Diagnostic{
		Name:     rule.Name,
		Severity: rule.Severity,
		Title:    w.String(),
		Detail:   detail,
		Context:  w.Context,
	})
}

func reportError(file string, err error, diagnostics analysis.Diagnostics) {
	var (
		vErr  *sarif.ValidationError
		pErr  *sarif.ParseError
		fsErr *utils.FileSystemError
		exErr *exclusion.PatternError
	)
	switch {
	case errors.As(err, &vErr):
		diagnostics.ReportResult(file, invalidSarif, "not a valid SARIF 2.1.0 document", strings.Join(vErr.Reasons, "\n"))
	case errors.As(err, &pErr):
		diagnostics.ReportResult(file, unparsableSarif, "couldn't parse SARIF document", pErr.Err.Error())
	case errors.As(err, &fsErr):
		diagnostics.ReportResult(file, fileSystem, fsErr.Error(), "")
	case errors.As(err, &exErr):
		diagnostics.ReportResult(file, invalidExclusion, exErr.Error(), "Exclusion patterns are regular expressions, exclusion globs use doublestar syntax.")
	default:
		diagnostics.ReportResult(file, conversionFailed, err.Error(), "")
	}
	logme.DebugFln("%s: %v", file, err)
}
