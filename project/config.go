package project

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// DefaultConfigName is the file probed at the project root.
const DefaultConfigName = "tsmeta.yaml"

// Config holds the project settings read from tsmeta.yaml.
type Config struct {
	// Annotations lists decorator names treated as design-time
	// annotations. Their applications are stripped from rewritten
	// compiled sources.
	Annotations []string `yaml:"annotations"`
	// Src is the directory holding declaration listings and their
	// compiled siblings, relative to the project root.
	Src string `yaml:"src"`
	// Out is the directory rewritten sources are written to, relative
	// to the project root.
	Out string `yaml:"out"`
}

// DefaultConfig returns the settings used when no tsmeta.yaml exists:
// pairs under src/, rewritten output under dist/, no annotations.
func DefaultConfig() *Config {
	return &Config{
		Src: "src",
		Out: "dist",
	}
}

// LoadConfig reads a config file. A missing file is not an error; the
// defaults are returned instead.
func LoadConfig(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.UnmarshalWithOptions(data, config, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	return config, nil
}
