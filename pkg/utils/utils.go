package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

const SarifGlob = "**/*.sarif"

// FileSystemError wraps failures to read a source or write a target.
type FileSystemError struct {
	Op   string
	Path string
	Err  error
}

func (e *FileSystemError) Error() string {
	return fmt.Sprintf("couldn't %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileSystemError) Unwrap() error { return e.Err }

// IsNotExist reports whether err is a FileSystemError for a missing path.
func IsNotExist(err error) bool {
	var fsErr *FileSystemError
	return errors.As(err, &fsErr) && errors.Is(fsErr.Err, fs.ErrNotExist)
}

func ReadFile(path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, &FileSystemError{Op: "read", Path: path, Err: err}
	}
	return b, nil
}

// WriteFile writes b to path, creating the parent directory when needed.
func WriteFile(path string, b []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &FileSystemError{Op: "create directory for", Path: path, Err: err}
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return &FileSystemError{Op: "write", Path: path, Err: err}
	}
	return nil
}

// CollectSarifFiles returns source itself when it is a regular file, or
// every *.sarif file below it when it is a directory. The result is sorted so
// batches run in a stable order.
func CollectSarifFiles(source string) ([]string, error) {
	info, err := os.Stat(source)
	if err != nil {
		return nil, &FileSystemError{Op: "stat", Path: source, Err: err}
	}

	if info.Mode().IsRegular() {
		return []string{source}, nil
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("input incorrect, was: %s. Please add a path to a valid SARIF dir or file", source)
	}

	// globbing below source keeps metacharacters in its name literal
	matches, err := doublestar.Glob(os.DirFS(source), SarifGlob, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("error searching SARIF files in %s: %w", source, err)
	}
	files := make([]string, 0, len(matches))
	for _, m := range matches {
		files = append(files, filepath.Join(source, filepath.FromSlash(m)))
	}
	sort.Strings(files)
	return files, nil
}

var lastExtension = regexp.MustCompile(`\.\w+$`)

// OutputPath returns <outputDir>/<file name without its last extension>.json
func OutputPath(outputDir, sarifFile string) string {
	name := lastExtension.ReplaceAllString(filepath.Base(sarifFile), "")
	return filepath.Join(outputDir, name+".json")
}
