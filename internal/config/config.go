// Package config loads the scrub project configuration from
// .scrub/scrub.yaml with environment overrides.
package config

import (
	"fmt"

	"github.com/scrub-data/scrub/internal/normalize"
)

// UnresolvedMapping is a candidate normalization that has been flagged as
// ambiguous and deliberately left unapplied. scrub reports occurrences of
// Value but never rewrites them until the entry is promoted into columns.
type UnresolvedMapping struct {
	Column     string   `koanf:"column"`
	Value      string   `koanf:"value"`
	Candidates []string `koanf:"candidates"`
	Note       string   `koanf:"note"`
}

// Normalize holds the categorical value substitution tables.
type Normalize struct {
	// Columns maps column name -> raw value -> corrected value.
	Columns map[string]map[string]string `koanf:"columns"`
	// Unresolved lists mappings that are reported but never applied.
	Unresolved []UnresolvedMapping `koanf:"unresolved"`
}

// Reference describes the referential consistency audit: every value of
// Column in the dataset must appear in RefColumn of the File table.
type Reference struct {
	File      string `koanf:"file"`
	Column    string `koanf:"column"`
	RefColumn string `koanf:"ref_column"`
}

// Config is the full scrub project configuration.
type Config struct {
	// Dataset is the path to the CSV source of truth, relative to the
	// directory containing .scrub/.
	Dataset string `koanf:"dataset"`
	// SequenceColumn names the unique, strictly ordered integer column.
	SequenceColumn string `koanf:"sequence_column"`
	// KeyColumn names the non-unique business key column.
	KeyColumn string `koanf:"key_column"`
	// BatchSize is the default bound for batched duplicate removal.
	BatchSize int `koanf:"batch_size"`

	Normalize Normalize  `koanf:"normalize"`
	Reference *Reference `koanf:"reference"`
}

// New returns a Config populated with defaults. Dataset and the column names
// have no sensible defaults and must come from file or environment.
func New() *Config {
	return &Config{
		SequenceColumn: "seq_id",
		BatchSize:      500,
	}
}

// Validate checks that required fields are present and coherent.
func (c *Config) Validate() error {
	if c.Dataset == "" {
		return fmt.Errorf("dataset must not be empty")
	}
	if c.SequenceColumn == "" {
		return fmt.Errorf("sequence_column must not be empty")
	}
	if c.KeyColumn == "" {
		return fmt.Errorf("key_column must not be empty")
	}
	if c.SequenceColumn == c.KeyColumn {
		return fmt.Errorf("sequence_column and key_column must differ, both are %q", c.SequenceColumn)
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("batch_size must be at least 1, got %d", c.BatchSize)
	}
	if c.Reference != nil {
		if c.Reference.File == "" || c.Reference.Column == "" || c.Reference.RefColumn == "" {
			return fmt.Errorf("reference requires file, column and ref_column")
		}
	}
	for i, u := range c.Normalize.Unresolved {
		if u.Column == "" || u.Value == "" {
			return fmt.Errorf("normalize.unresolved[%d] requires column and value", i)
		}
	}
	return nil
}

// Rules converts the normalize section into the rule set consumed by the
// normalize package.
func (c *Config) Rules() normalize.Rules {
	rules := normalize.Rules{Columns: c.Normalize.Columns}
	for _, u := range c.Normalize.Unresolved {
		rules.Unresolved = append(rules.Unresolved, normalize.Unresolved{
			Column:     u.Column,
			Value:      u.Value,
			Candidates: u.Candidates,
		})
	}
	return rules
}
