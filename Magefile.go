//go:build mage
// +build mage

package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"runtime"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

type Build mg.Namespace
type Test mg.Namespace
type Run mg.Namespace

const command = "sarifimport"

var archTargets = map[string]map[string]string{
	"darwin_amd64": {
		"CGO_ENABLED": "0",
		"GO111MODULE": "on",
		"GOARCH":      "amd64",
		"GOOS":        "darwin",
	},
	"darwin_arm64": {
		"CGO_ENABLED": "0",
		"GO111MODULE": "on",
		"GOARCH":      "arm64",
		"GOOS":        "darwin",
	},
	"linux_amd64": {
		"CGO_ENABLED": "0",
		"GO111MODULE": "on",
		"GOARCH":      "amd64",
		"GOOS":        "linux",
	},
}

// Default target to run when none is specified
// If not set, running mage will list available targets
var Default = Build.Local

func version() string {
	if v := os.Getenv("VERSION"); v != "" {
		return v
	}
	v, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil {
		return "dev"
	}
	return v
}

func buildCommand(arch string) error {
	env, ok := archTargets[arch]
	if !ok {
		return fmt.Errorf("unknown arch %s", arch)
	}
	log.Printf("Building %s/%s\n", arch, command)
	outDir := fmt.Sprintf("./bin/%s/%s", arch, command)
	cmdDir := fmt.Sprintf("./pkg/cmd/%s", command)
	ldflags := "-X main.version=" + version()
	if err := sh.RunWith(env, "go", "build", "-ldflags", ldflags, "-o", outDir, cmdDir); err != nil {
		return err
	}

	// intentionally igores errors
	sh.RunV("chmod", "+x", outDir)
	return nil
}

func currentArch() string {
	return runtime.GOOS + "_" + runtime.GOARCH
}

func sarifimportCmdLocal() error {
	return buildCommand(currentArch())
}

func sarifimportCmdDarwin() error {
	if err := buildCommand("darwin_amd64"); err != nil {
		return err
	}
	return buildCommand("darwin_arm64")
}

func sarifimportCmdLinux() error {
	return buildCommand("linux_amd64")
}

func testVerbose() error {
	os.Setenv("GO111MODULE", "on")
	os.Setenv("CGO_ENABLED", "0")
	return sh.RunV("go", "test", "-v", "./pkg/...")
}

func test() error {
	os.Setenv("GO111MODULE", "on")
	os.Setenv("CGO_ENABLED", "0")
	return sh.RunV("go", "test", "./pkg/...")
}

// Formats the source files
func (Build) Format() error {
	if err := sh.RunV("gofmt", "-w", "./pkg"); err != nil {
		return err
	}
	return nil
}

// Minimal build
func (Build) Local(ctx context.Context) {
	mg.Deps(
		Clean,
		sarifimportCmdLocal,
	)
}

// Lint/Format/Test/Build
func (Build) CI(ctx context.Context) {
	mg.Deps(
		Build.Lint,
		Build.Format,
		Test.Verbose,
		Clean,
		sarifimportCmdLinux,
	)
}

func (Build) All(ctx context.Context) {
	mg.Deps(
		Build.Lint,
		Build.Format,
		Test.Verbose,
		sarifimportCmdLinux,
		sarifimportCmdDarwin,
	)
}

// Run linter against codebase
func (Build) Lint() error {
	os.Setenv("GO111MODULE", "on")
	log.Printf("Linting...")
	return sh.RunV("golangci-lint", "--timeout", "3m", "run", "-v", "./pkg/...")
}

// Run tests in verbose mode
func (Test) Verbose() {
	mg.SerialDeps(
		Build.Local,
		testVerbose,
	)
}

// Run tests in normal mode
func (Test) Default() {
	mg.SerialDeps(
		Build.Local,
		test,
	)
}

// Integration converts the integration fixtures with the built binary
func (Test) Integration() error {
	mg.Deps(Build.Local)
	return sh.RunV("go", "test", "-v", "-run", "TestIntegration", "./pkg/cmd/sarifimport")
}

// Removes built files
func Clean() {
	log.Printf("Cleaning all")
	os.RemoveAll("./bin/linux_amd64")
	os.RemoveAll("./bin/darwin_amd64")
	os.RemoveAll("./bin/darwin_arm64")
}

// Convert converts a SARIF file or directory with the local build
func (Run) Convert(ctx context.Context, source string, outputDir string) error {
	mg.Deps(Build.Local)

	args := []string{"convert", "-s", source, "-o", outputDir}
	// if config/custom.yaml exists, use it
	if _, err := os.Stat("config/custom.yaml"); err == nil {
		args = append(args, "--config", "config/custom.yaml")
	}

	return sh.RunWithV(map[string]string{
		"DEBUG": os.Getenv("DEBUG"),
	}, "./bin/"+currentArch()+"/"+command, args...)
}
