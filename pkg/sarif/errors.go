package sarif

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var (
	ErrValidation = errors.New("sarif validation failed")
	ErrParse      = errors.New("sarif parse failed")
)

// ValidationError is returned when a document has no $schema marker or does
// not conform to the SARIF schema. Nothing is extracted from such documents.
type ValidationError struct {
	Path    string
	Reasons []string
	Err     error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("Validation failed: %s Err: %s", displayName(e.Path), strings.Join(e.Reasons, "; "))
}

func (e *ValidationError) Unwrap() error { return e.Err }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// ParseError is returned for input that is not JSON or cannot be decoded
// into the SARIF structure.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("couldn't parse %s: %v", displayName(e.Path), e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrParse }

func displayName(path string) string {
	if path == "" {
		return "<input>"
	}
	return filepath.Base(path)
}
