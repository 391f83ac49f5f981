package output

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/fatih/color"

	"github.com/grafana/sarif-importer/pkg/analysis"
)

const toolName = "sarif-importer"

type Marshaler interface {
	Marshal(data analysis.Diagnostics) ([]byte, error)
}

type marshalerFunc func(data analysis.Diagnostics) ([]byte, error)

func (f marshalerFunc) Marshal(data analysis.Diagnostics) ([]byte, error) {
	return f(data)
}

type jsonMarshaler struct {
	version string
}

func NewJSONMarshaler(version string) Marshaler {
	return jsonMarshaler{version}
}

type Summary struct {
	Files    int `json:"files"`
	OK       int `json:"ok"`
	Warnings int `json:"warnings"`
	Errors   int `json:"errors"`
}

type jsonOutput struct {
	Version     string               `json:"version"`
	Summary     Summary              `json:"summary"`
	Diagnostics analysis.Diagnostics `json:"sarif-importer"`
}

func (j jsonMarshaler) Marshal(data analysis.Diagnostics) ([]byte, error) {
	return json.MarshalIndent(jsonOutput{
		Version:     j.version,
		Summary:     Summarize(data),
		Diagnostics: data,
	}, "", "  ")
}

func Summarize(data analysis.Diagnostics) Summary {
	return Summary{
		Files:    len(data),
		OK:       data.Count(analysis.OK),
		Warnings: data.Count(analysis.Warning),
		Errors:   data.Count(analysis.Error),
	}
}

var MarshalCLI = marshalerFunc(func(data analysis.Diagnostics) ([]byte, error) {
	var buf bytes.Buffer
	for _, file := range data.Files() {
		for _, d := range data[file] {
			switch d.Severity {
			case analysis.Error:
				buf.WriteString(color.RedString("error: "))
			case analysis.Warning:
				buf.WriteString(color.YellowString("warning: "))
			case analysis.OK:
				buf.WriteString(color.GreenString("ok: "))
			}

			buf.WriteString(file + ": ")
			if d.Context != "" {
				buf.WriteString(d.Context + ": ")
			}

			buf.WriteString(d.Title)
			if len(d.Detail) > 0 {
				buf.WriteRune('\n')
				buf.WriteString(color.BlueString("detail: "))
				buf.WriteString(d.Detail)
			}
			buf.WriteRune('\n')
		}
	}
	return buf.Bytes(), nil
})

// MarshalGHA renders diagnostics as GitHub Actions workflow commands.
var MarshalGHA = marshalerFunc(func(data analysis.Diagnostics) ([]byte, error) {
	var buf bytes.Buffer
	for _, file := range data.Files() {
		for _, d := range data[file] {
			var command, label string
			switch d.Severity {
			case analysis.Error:
				command, label = "error", "Error"
			case analysis.Warning:
				command, label = "warning", "Warning"
			case analysis.OK:
				fmt.Fprintf(&buf, "::debug::%s: OK: %s: %s\n", toolName, file, d.Title)
				continue
			default:
				continue
			}

			title := fmt.Sprintf("%s: %s", toolName, label)
			msg := d.Detail
			switch {
			case d.Title != "" && d.Detail != "":
				title += ": " + d.Title
			case d.Title != "":
				msg = d.Title
			}
			fmt.Fprintf(&buf, "::%s file=%s,title=%s::%s\n", command, file, title, msg)
		}
	}
	return buf.Bytes(), nil
})

// ExitCode is 1 when a file failed to convert, or with strict also when a
// warning was reported.
func ExitCode(strict bool, diags analysis.Diagnostics) int {
	for _, ds := range diags {
		for _, d := range ds {
			switch d.Severity {
			case analysis.Error:
				return 1
			case analysis.Warning:
				if strict {
					return 1
				}
			}
		}
	}
	return 0
}

// Static checks

var (
	_ = Marshaler(jsonMarshaler{})
	_ = Marshaler(MarshalCLI)
	_ = Marshaler(MarshalGHA)
)
