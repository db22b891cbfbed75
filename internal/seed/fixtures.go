package seed

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed groups.yml
var defaultGroups []byte

// GroupFixture describes a group to create.
type GroupFixture struct {
	Title       string `yaml:"title"`
	Slug        string `yaml:"slug"`
	Description string `yaml:"description"`
}

// ParseGroups decodes a YAML list of group fixtures.
func ParseGroups(raw []byte) ([]GroupFixture, error) {
	var groups []GroupFixture
	if err := yaml.Unmarshal(raw, &groups); err != nil {
		return nil, fmt.Errorf("parse group fixtures: %w", err)
	}
	for i, g := range groups {
		if g.Slug == "" || g.Title == "" {
			return nil, fmt.Errorf("group fixture %d: title and slug are required", i)
		}
	}
	return groups, nil
}

// LoadGroups reads group fixtures from path, or the built-in set when path is empty.
func LoadGroups(path string) ([]GroupFixture, error) {
	if path == "" {
		return ParseGroups(defaultGroups)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read group fixtures: %w", err)
	}
	return ParseGroups(raw)
}
