package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ToolSpec declares a callable tool: its name, what it does, and the JSON
// schema of its parameters. Specs are loaded from YAML and turned into the
// tool declarations sent to the model.
type ToolSpec struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Parameters  map[string]any `yaml:"parameters"`
}

// LoadToolsDir reads every YAML file in dir and collects the tools declared
// under the top-level "tools" key, keyed by name.
func LoadToolsDir(dir string) (map[string]ToolSpec, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading tools dir: %w", err)
	}

	out := make(map[string]ToolSpec)
	for _, e := range entries {
		if e.IsDir() || !isYAML(e.Name()) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		var raw struct {
			Tools []ToolSpec `yaml:"tools"`
		}
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		for _, t := range raw.Tools {
			if t.Name == "" {
				return nil, fmt.Errorf("%s: tool with empty name", path)
			}
			out[t.Name] = t
		}
	}
	return out, nil
}

func isYAML(name string) bool {
	return strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")
}
