// Package config reads the optional emberc.yaml sitting beside an input
// file: target-triple and default-output-kind overrides the driver
// applies before falling back to its own built-in defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the decoded shape of emberc.yaml. Every field is optional;
// a zero Config changes nothing about the driver's built-in defaults.
type Config struct {
	// Target is an informative target-triple string threaded through to
	// the llc invocation for -S/object output. Empty means "whatever the
	// host llc defaults to".
	Target string `yaml:"target"`

	// OutputKind overrides the driver's default output artifact when
	// the CLI's -S/-L flags are both absent: one of "ir", "asm", "obj".
	OutputKind string `yaml:"output_kind"`
}

// Load reads emberc.yaml from dir, returning a zero Config (not an
// error) when the file does not exist. The file is an override, never
// a requirement.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, "emberc.yaml")
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Config{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return &cfg, nil
}

// LoadForInput reads emberc.yaml from the directory containing the
// given source file: the CLI takes one input file, and options are
// resolved relative to it.
func LoadForInput(inputPath string) (*Config, error) {
	return Load(filepath.Dir(inputPath))
}
