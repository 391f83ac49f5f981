package sarif

import (
	_ "embed"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// embeddedSchema is the structural part of the OASIS SARIF 2.1.0 schema
// covering the log, run, tool, rule, result and location objects.
//
//go:embed sarif-schema-2.1.0.json
var embeddedSchema []byte

// schemaLoader builds a fresh loader for every validation, schemas are not
// cached between documents.
func schemaLoader(ref string) gojsonschema.JSONLoader {
	if ref == "" {
		return gojsonschema.NewBytesLoader(embeddedSchema)
	}
	return gojsonschema.NewReferenceLoader(schemaReference(ref))
}

// schemaReference turns plain file paths into file:// references.
// gojsonschema requires absolute paths.
func schemaReference(ref string) string {
	if strings.Contains(ref, "://") {
		return ref
	}
	abs, err := filepath.Abs(ref)
	if err != nil {
		abs = ref
	}
	return "file://" + filepath.ToSlash(abs)
}

func validate(path string, document []byte, schemaRef string) error {
	result, err := gojsonschema.Validate(schemaLoader(schemaRef), gojsonschema.NewBytesLoader(document))
	if err != nil {
		return &ValidationError{
			Path:    path,
			Reasons: []string{fmt.Sprintf("couldn't validate against schema: %v", err)},
			Err:     err,
		}
	}

	if result.Valid() {
		return nil
	}

	reasons := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		reasons = append(reasons, fmt.Sprintf("%s: %s", desc.Field(), desc.Description()))
	}
	return &ValidationError{Path: path, Reasons: reasons}
}
