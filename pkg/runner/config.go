package runner

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/grafana/sarif-importer/pkg/exclusion"
	"github.com/grafana/sarif-importer/pkg/location"
	"github.com/grafana/sarif-importer/pkg/utils"
)

type Config struct {
	Global       GlobalConfig `yaml:"global"`
	Exclusions   []string     `yaml:"exclusions"`
	ExcludeGlobs []string     `yaml:"excludeGlobs"`
	SourceRoots  []string     `yaml:"sourceRoots"`
	// Schema is a gojsonschema reference, the embedded SARIF schema when empty.
	Schema string `yaml:"schema"`
}

type GlobalConfig struct {
	// Strict turns warnings into a non-zero exit code.
	Strict     bool `yaml:"strict"`
	JSONOutput bool `yaml:"jsonOutput"`
	GHAOutput  bool `yaml:"ghaOutput"`
	Indent     bool `yaml:"indent"`
}

func DefaultConfig() Config {
	return Config{
		Global:      GlobalConfig{Indent: true},
		Exclusions:  append([]string(nil), exclusion.DefaultPatterns...),
		SourceRoots: append([]string(nil), location.DefaultSourceRoots...),
	}
}

// LoadConfig reads a YAML configuration on top of DefaultConfig. Unknown
// keys are rejected.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	b, err := utils.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("couldn't read configuration %s: %w", path, err)
	}
	return cfg, nil
}
