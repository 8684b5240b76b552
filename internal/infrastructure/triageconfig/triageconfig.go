// Package triageconfig loads classifier keyword tables from a YAML file.
package triageconfig

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/civicpulse/civicpulse/internal/domain/triage"
)

// Load returns the built-in tables when path is empty. Otherwise the file
// replaces each table it sets; tables it leaves out keep their defaults.
func Load(path string) (triage.KeywordTables, error) {
	if path == "" {
		return triage.DefaultKeywordTables(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return triage.KeywordTables{}, fmt.Errorf("failed to read keywords file: %w", err)
	}

	tables, err := Parse(data)
	if err != nil {
		return triage.KeywordTables{}, fmt.Errorf("keywords file %s: %w", path, err)
	}
	return tables, nil
}

// Parse decodes keyword tables, rejecting unknown keys.
func Parse(data []byte) (triage.KeywordTables, error) {
	var file triage.KeywordTables

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return triage.KeywordTables{}, fmt.Errorf("failed to parse keyword tables: %w", err)
	}

	tables := triage.DefaultKeywordTables()
	if file.Categories != nil {
		tables.Categories = file.Categories
	}
	if file.StrongIndicators != nil {
		tables.StrongIndicators = file.StrongIndicators
	}
	if file.HighUrgency != nil {
		tables.HighUrgency = file.HighUrgency
	}
	if file.MediumUrgency != nil {
		tables.MediumUrgency = file.MediumUrgency
	}

	if err := validate(tables); err != nil {
		return triage.KeywordTables{}, err
	}
	return tables, nil
}

func validate(t triage.KeywordTables) error {
	if len(t.Normalize().Categories) == 0 {
		return errors.New("at least one named category is required")
	}

	seen := make(map[string]bool, len(t.Categories))
	for _, c := range t.Categories {
		if c.Name == triage.GeneralCategory {
			return fmt.Errorf("category %q is reserved for the fallback", c.Name)
		}
		if seen[c.Name] {
			return fmt.Errorf("duplicate category %q", c.Name)
		}
		seen[c.Name] = true
	}
	return nil
}
