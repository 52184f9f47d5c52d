package config

import (
	"strings"
	"testing"
)

func validConfig() *Config {
	cfg := New()
	cfg.Dataset = "places.csv"
	cfg.KeyColumn = "place_id"
	return cfg
}

func TestNew(t *testing.T) {
	t.Run("it defaults sequence column and batch size", func(t *testing.T) {
		cfg := New()
		if cfg.SequenceColumn != "seq_id" {
			t.Errorf("SequenceColumn = %q, want %q", cfg.SequenceColumn, "seq_id")
		}
		if cfg.BatchSize != 500 {
			t.Errorf("BatchSize = %d, want 500", cfg.BatchSize)
		}
	})
}

func TestValidate(t *testing.T) {
	t.Run("it accepts a complete config", func(t *testing.T) {
		if err := validConfig().Validate(); err != nil {
			t.Errorf("Validate() = %v, want nil", err)
		}
	})

	t.Run("it requires dataset", func(t *testing.T) {
		cfg := validConfig()
		cfg.Dataset = ""
		if err := cfg.Validate(); err == nil {
			t.Error("expected error for empty dataset, got nil")
		}
	})

	t.Run("it requires key_column", func(t *testing.T) {
		cfg := validConfig()
		cfg.KeyColumn = ""
		if err := cfg.Validate(); err == nil {
			t.Error("expected error for empty key_column, got nil")
		}
	})

	t.Run("it rejects identical sequence and key columns", func(t *testing.T) {
		cfg := validConfig()
		cfg.KeyColumn = cfg.SequenceColumn
		err := cfg.Validate()
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if !strings.Contains(err.Error(), "must differ") {
			t.Errorf("error = %q, want must-differ message", err.Error())
		}
	})

	t.Run("it rejects a batch size below one", func(t *testing.T) {
		cfg := validConfig()
		cfg.BatchSize = 0
		if err := cfg.Validate(); err == nil {
			t.Error("expected error for batch_size 0, got nil")
		}
	})

	t.Run("it rejects an incomplete reference section", func(t *testing.T) {
		cfg := validConfig()
		cfg.Reference = &Reference{File: "boroughs.csv"}
		if err := cfg.Validate(); err == nil {
			t.Error("expected error for incomplete reference, got nil")
		}
	})

	t.Run("it rejects an unresolved entry without column or value", func(t *testing.T) {
		cfg := validConfig()
		cfg.Normalize.Unresolved = []UnresolvedMapping{{Column: "place_type"}}
		if err := cfg.Validate(); err == nil {
			t.Error("expected error for incomplete unresolved entry, got nil")
		}
	})
}

func TestRules(t *testing.T) {
	t.Run("it converts the normalize section into rules", func(t *testing.T) {
		cfg := validConfig()
		cfg.Normalize.Columns = map[string]map[string]string{
			"place_type": {"Boroughs": "Borough"},
		}
		cfg.Normalize.Unresolved = []UnresolvedMapping{{
			Column:     "place_type",
			Value:      "Neighbourhood",
			Candidates: []string{"Neighborhood", "District"},
			Note:       "ambiguous",
		}}

		rules := cfg.Rules()
		if rules.Columns["place_type"]["Boroughs"] != "Borough" {
			t.Errorf("settled mapping not carried over: %v", rules.Columns)
		}
		if len(rules.Unresolved) != 1 {
			t.Fatalf("expected 1 unresolved rule, got %d", len(rules.Unresolved))
		}
		u := rules.Unresolved[0]
		if u.Column != "place_type" || u.Value != "Neighbourhood" || len(u.Candidates) != 2 {
			t.Errorf("unresolved rule = %+v", u)
		}
	})
}
