package taxonomy

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type taxonomyFile struct {
	Categories []Category `yaml:"categories"`
}

// Load builds a registry from a YAML taxonomy file, or from the built-in
// category set when path is empty.
func Load(path string, opts Options) (*Registry, error) {
	if path == "" {
		return New(DefaultCategories(), opts)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read taxonomy file: %w", err)
	}
	var file taxonomyFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse taxonomy file: %w", err)
	}
	reg, err := New(file.Categories, opts)
	if err != nil {
		return nil, fmt.Errorf("taxonomy file %s: %w", path, err)
	}
	return reg, nil
}
