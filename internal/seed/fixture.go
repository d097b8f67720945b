package seed

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Fixture is the YAML shape of a demo dataset for local development,
// grounded on the teacher's internal/seed hand-built sample data but
// externalized to a file instead of inlined Go literals.
type Fixture struct {
	User struct {
		Email    string `yaml:"email"`
		Password string `yaml:"password"`
	} `yaml:"user"`

	GlobalLists []struct {
		Name  string   `yaml:"name"`
		Items []string `yaml:"items"`
	} `yaml:"global_lists"`

	Sequences []struct {
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
		Variables   []struct {
			Name     string `yaml:"name"`
			Type     string `yaml:"type"`
			Value    any    `yaml:"value,omitempty"`
			Default  any    `yaml:"default,omitempty"`
			TypeHint string `yaml:"type_hint,omitempty"`
		} `yaml:"variables"`
		Blocks []struct {
			Name   string         `yaml:"name"`
			Type   string         `yaml:"type"`
			Order  int            `yaml:"order"`
			Config map[string]any `yaml:"config"`
		} `yaml:"blocks"`
	} `yaml:"sequences"`
}

// LoadFixture reads and parses a YAML fixture from path.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}

	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	return &f, nil
}
