package refdata

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ReferenceData holds the lookup lists the extractor, error detector and
// controlled-substance classifier consult. Loaded once at startup and
// treated as read-only afterwards.
type ReferenceData struct {
	// DrugNames are canonical uppercase entries.
	DrugNames []string `yaml:"drug_names"`
	// Manufacturers are the known-manufacturer allow-list entries.
	Manufacturers []string `yaml:"manufacturers"`
	// ControlledSubstances maps a canonical controlled drug to its
	// synonym/alternate forms (salts, brand names).
	ControlledSubstances map[string][]string `yaml:"controlled_substances"`
}

// Load returns the embedded defaults, overridden by the YAML file at path
// when one is configured.
func Load(path string) (*ReferenceData, error) {
	rd := Defaults()
	if path == "" {
		return rd, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read reference data: %w", err)
	}
	var override ReferenceData
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, fmt.Errorf("parse reference data: %w", err)
	}
	if len(override.DrugNames) > 0 {
		rd.DrugNames = canonicalize(override.DrugNames)
	}
	if len(override.Manufacturers) > 0 {
		rd.Manufacturers = override.Manufacturers
	}
	if len(override.ControlledSubstances) > 0 {
		rd.ControlledSubstances = override.ControlledSubstances
	}
	return rd, nil
}

// ControlledForms flattens the controlled-substance map into a set of
// matchable uppercase forms (canonical names plus synonyms).
func (rd *ReferenceData) ControlledForms() []string {
	forms := make([]string, 0, len(rd.ControlledSubstances)*2)
	for name, synonyms := range rd.ControlledSubstances {
		forms = append(forms, strings.ToUpper(name))
		for _, s := range synonyms {
			forms = append(forms, strings.ToUpper(s))
		}
	}
	return forms
}

func canonicalize(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
