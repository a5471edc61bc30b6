package source

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/table2video/internal/config"
)

// LoadProjectFile reads a YAML project. JSON documents are accepted as well
// since they are valid YAML.
func LoadProjectFile(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	p := &Project{Animation: config.DefaultAnimation()}
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("parse project %s: %w", path, err)
	}
	return p, nil
}

// WriteProjectFile writes p as YAML.
func WriteProjectFile(p *Project, path string) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
