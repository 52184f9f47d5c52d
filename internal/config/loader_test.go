package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, yaml string) string {
	t.Helper()
	scrubDir := filepath.Join(t.TempDir(), ".scrub")
	if err := os.MkdirAll(scrubDir, 0755); err != nil {
		t.Fatalf("MkdirAll() returned error: %v", err)
	}
	if err := os.WriteFile(filepath.Join(scrubDir, FileName), []byte(yaml), 0644); err != nil {
		t.Fatalf("WriteFile() returned error: %v", err)
	}
	return scrubDir
}

func TestLoad(t *testing.T) {
	t.Run("it loads a minimal yaml over defaults", func(t *testing.T) {
		scrubDir := writeConfig(t, "dataset: places.csv\nkey_column: place_id\n")

		cfg, err := Load(scrubDir)
		if err != nil {
			t.Fatalf("Load() returned error: %v", err)
		}
		if cfg.Dataset != "places.csv" {
			t.Errorf("Dataset = %q, want %q", cfg.Dataset, "places.csv")
		}
		if cfg.SequenceColumn != "seq_id" {
			t.Errorf("SequenceColumn = %q, want default %q", cfg.SequenceColumn, "seq_id")
		}
		if cfg.BatchSize != 500 {
			t.Errorf("BatchSize = %d, want default 500", cfg.BatchSize)
		}
	})

	t.Run("it loads the normalize section", func(t *testing.T) {
		scrubDir := writeConfig(t, `dataset: places.csv
key_column: place_id
normalize:
  columns:
    place_type:
      Boroughs: Borough
  unresolved:
    - column: place_type
      value: Neighbourhood
      candidates: [Neighborhood, District]
`)

		cfg, err := Load(scrubDir)
		if err != nil {
			t.Fatalf("Load() returned error: %v", err)
		}
		if cfg.Normalize.Columns["place_type"]["Boroughs"] != "Borough" {
			t.Errorf("settled mapping missing: %v", cfg.Normalize.Columns)
		}
		if len(cfg.Normalize.Unresolved) != 1 {
			t.Fatalf("expected 1 unresolved entry, got %d", len(cfg.Normalize.Unresolved))
		}
		if got := cfg.Normalize.Unresolved[0].Candidates; len(got) != 2 {
			t.Errorf("candidates = %v, want 2 entries", got)
		}
	})

	t.Run("it applies environment overrides", func(t *testing.T) {
		scrubDir := writeConfig(t, "dataset: places.csv\nkey_column: place_id\nbatch_size: 100\n")
		t.Setenv("SCRUB_BATCH_SIZE", "7")

		cfg, err := Load(scrubDir)
		if err != nil {
			t.Fatalf("Load() returned error: %v", err)
		}
		if cfg.BatchSize != 7 {
			t.Errorf("BatchSize = %d, want env override 7", cfg.BatchSize)
		}
	})

	t.Run("it errors when scrub.yaml is missing", func(t *testing.T) {
		scrubDir := filepath.Join(t.TempDir(), ".scrub")
		if err := os.MkdirAll(scrubDir, 0755); err != nil {
			t.Fatalf("MkdirAll() returned error: %v", err)
		}

		_, err := Load(scrubDir)
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if !strings.Contains(err.Error(), "run 'scrub init' first") {
			t.Errorf("error = %q, want init hint", err.Error())
		}
	})

	t.Run("it rejects an invalid config after layering", func(t *testing.T) {
		scrubDir := writeConfig(t, "dataset: places.csv\nkey_column: seq_id\n")

		_, err := Load(scrubDir)
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if !strings.Contains(err.Error(), "invalid config") {
			t.Errorf("error = %q, want invalid config message", err.Error())
		}
	})
}

func TestScaffold(t *testing.T) {
	t.Run("it parses and validates as shipped", func(t *testing.T) {
		scrubDir := writeConfig(t, Scaffold)

		cfg, err := Load(scrubDir)
		if err != nil {
			t.Fatalf("Load() returned error: %v", err)
		}
		if cfg.Normalize.Columns["place_type"]["Boroughs"] != "Borough" {
			t.Error("scaffold missing the settled Boroughs mapping")
		}
		if len(cfg.Normalize.Unresolved) != 1 || cfg.Normalize.Unresolved[0].Value != "Neighbourhood" {
			t.Errorf("scaffold unresolved = %+v, want the Neighbourhood entry", cfg.Normalize.Unresolved)
		}
		if cfg.Reference != nil {
			t.Error("scaffold reference section should ship commented out")
		}
	})
}
