package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/grafana/sarif-importer/pkg/analysis/output"
	"github.com/grafana/sarif-importer/pkg/logme"
	"github.com/grafana/sarif-importer/pkg/runner"
)

// set with -ldflags "-X main.version=..."
var version = "dev"

// exitCode lets a command end the process with a specific status.
type exitCode int

func (e exitCode) Error() string {
	return fmt.Sprintf("exit status %d", int(e))
}

func main() {
	code := run(os.Args[1:], os.Stdout, os.Stderr)
	logme.Sync()
	os.Exit(code)
}

func run(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCommand(stdout, stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	if err == nil {
		return 0
	}
	var code exitCode
	if errors.As(err, &code) {
		return int(code)
	}
	logme.Errorln(err)
	return 1
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	var debug bool

	cmd := &cobra.Command{
		Use:   "sarifimport",
		Short: "Convert SARIF reports into generic issue import files",
		Long: `sarifimport reads SARIF 2.1.0 reports produced by static analysis tools
and writes one generic issue import file per report. Severities and types are
derived from the rule catalog of each report.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if debug {
				logme.SetDebug(true)
			}
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.PersistentFlags().BoolVar(&debug, "debug", logme.IsDebug(), "Enable debug logging (same as DEBUG=1)")

	cmd.AddCommand(newConvertCommand(stdout, stderr), newVersionCommand(stdout))
	return cmd
}

type convertFlags struct {
	source       string
	outputDir    string
	configFile   string
	exclusions   []string
	excludeGlobs []string
	sourceRoots  []string
	schema       string
	strict       bool
	jsonOutput   bool
	ghaOutput    bool
	indent       bool
}

func newConvertCommand(stdout, stderr io.Writer) *cobra.Command {
	var f convertFlags

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert a SARIF file, or every *.sarif file below a directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := buildConfig(cmd, f)
			if err != nil {
				return err
			}

			logme.Debugln("source: ", f.source)
			logme.Debugln("output: ", f.outputDir)
			logme.Debugln("strict mode: ", cfg.Global.Strict)

			diags, err := runner.Run(cfg, f.source, f.outputDir)
			if err != nil {
				return fmt.Errorf("couldn't convert %s: %w", f.source, err)
			}

			var (
				marshaler output.Marshaler = output.MarshalCLI
				w                          = stderr
			)
			switch {
			case cfg.Global.JSONOutput:
				marshaler, w = output.NewJSONMarshaler(version), stdout
			case cfg.Global.GHAOutput:
				marshaler, w = output.MarshalGHA, stdout
			}

			b, err := marshaler.Marshal(diags)
			if err != nil {
				return fmt.Errorf("couldn't render report: %w", err)
			}
			if _, err := w.Write(b); err != nil {
				return err
			}
			if cfg.Global.JSONOutput {
				fmt.Fprintln(w)
			}

			if code := output.ExitCode(cfg.Global.Strict, diags); code != 0 {
				return exitCode(code)
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.source, "source", "s", "", "Path to a SARIF file or a directory with SARIF files")
	flags.StringVarP(&f.outputDir, "output", "o", "", "Directory for the generated issue files")
	flags.StringVar(&f.configFile, "config", "", "Path to a YAML configuration file")
	flags.StringArrayVarP(&f.exclusions, "exclude", "e", nil, "Regular expression for file paths to exclude, can be repeated (default \"src/test\")")
	flags.StringArrayVar(&f.excludeGlobs, "exclude-glob", nil, "Glob for file paths to exclude, can be repeated")
	flags.StringArrayVar(&f.sourceRoots, "source-root", nil, "Source root used to strip module prefixes from paths, can be repeated (default \"src/\")")
	flags.StringVar(&f.schema, "schema", "", "SARIF schema reference, file path or URL (default embedded SARIF 2.1.0 schema)")
	flags.BoolVar(&f.strict, "strict", false, "Return a non-zero exit code for warnings")
	flags.BoolVar(&f.jsonOutput, "json", false, "Print the report as JSON")
	flags.BoolVar(&f.ghaOutput, "gha", false, "Print the report as GitHub Actions annotations")
	flags.BoolVar(&f.indent, "indent", true, "Indent the generated issue files")
	_ = cmd.MarkFlagRequired("source")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

// buildConfig loads the configuration file when given and applies the flags
// that were set explicitly on top of it.
func buildConfig(cmd *cobra.Command, f convertFlags) (runner.Config, error) {
	cfg := runner.DefaultConfig()
	if f.configFile != "" {
		var err error
		if cfg, err = runner.LoadConfig(f.configFile); err != nil {
			return cfg, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("exclude") {
		cfg.Exclusions = f.exclusions
	}
	if flags.Changed("exclude-glob") {
		cfg.ExcludeGlobs = f.excludeGlobs
	}
	if flags.Changed("source-root") {
		cfg.SourceRoots = f.sourceRoots
	}
	if flags.Changed("schema") {
		cfg.Schema = f.schema
	}
	if flags.Changed("strict") {
		cfg.Global.Strict = f.strict
	}
	if flags.Changed("json") {
		cfg.Global.JSONOutput = f.jsonOutput
	}
	if flags.Changed("gha") {
		cfg.Global.GHAOutput = f.ghaOutput
	}
	if flags.Changed("indent") {
		cfg.Global.Indent = f.indent
	}
	return cfg, nil
}

func newVersionCommand(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(stdout, "sarifimport %s\n", version)
		},
	}
}
