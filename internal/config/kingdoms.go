package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// KingdomFile is the top-level structure of a kingdom presets file.
type KingdomFile struct {
	Kingdoms []Kingdom `yaml:"kingdoms"`
}

// Kingdom is a named set of kingdom cards with optional pile overrides.
type Kingdom struct {
	Name         string         `yaml:"name"`
	Cards        []string       `yaml:"cards"`
	SupplyCounts map[string]int `yaml:"supply_counts"`
}

// LoadKingdoms parses a kingdom presets file and returns the presets by name.
func LoadKingdoms(path string) (map[string]Kingdom, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var kf KingdomFile
	if err := yaml.Unmarshal(data, &kf); err != nil {
		return nil, fmt.Errorf("parse kingdom YAML: %w", err)
	}

	kingdoms := make(map[string]Kingdom, len(kf.Kingdoms))
	for i, k := range kf.Kingdoms {
		if k.Name == "" {
			return nil, fmt.Errorf("kingdom %d has no name", i+1)
		}
		if len(k.Cards) == 0 {
			return nil, fmt.Errorf("kingdom %s has no cards", k.Name)
		}
		if _, dup := kingdoms[k.Name]; dup {
			return nil, fmt.Errorf("duplicate kingdom %s", k.Name)
		}
		kingdoms[k.Name] = k
	}
	return kingdoms, nil
}

// Apply replaces the match kingdom with k's cards and merges its overrides.
func (m *MatchConfig) Apply(k Kingdom) {
	m.Kingdom = append([]string(nil), k.Cards...)
	if len(k.SupplyCounts) == 0 {
		return
	}
	if m.SupplyCounts == nil {
		m.SupplyCounts = make(map[string]int, len(k.SupplyCounts))
	}
	for key, n := range k.SupplyCounts {
		m.SupplyCounts[key] = n
	}
}
