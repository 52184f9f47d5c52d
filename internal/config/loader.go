package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// FileName is the configuration file name inside the .scrub/ directory.
const FileName = "scrub.yaml"

// Load builds a Config by layering defaults, the project file, and
// environment variables. Order of precedence (low -> high):
//  1. defaults (New())
//  2. <scrubDir>/scrub.yaml
//  3. env (prefix SCRUB_, e.g. SCRUB_BATCH_SIZE -> batch_size)
func Load(scrubDir string) (*Config, error) {
	k := koanf.New(".")

	path := filepath.Join(scrubDir, FileName)
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%s not found in %s - run 'scrub init' first: %w", FileName, scrubDir, err)
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("loading %s: %w", FileName, err)
	}

	envProvider := env.Provider("SCRUB_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "scrub_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("loading environment overrides: %w", err)
	}

	cfg := *New()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Scaffold is the commented scrub.yaml written by `scrub init`. The
// Boroughs -> Borough merge ships settled; the Neighbourhood case ships as an
// explicit unresolved entry so the ambiguity stays visible instead of being
// silently decided.
const Scaffold = `# scrub project configuration.
# dataset is the CSV source of truth, relative to the directory containing .scrub/.
dataset: places.csv

# sequence_column is the unique, strictly ordered integer id assigned at ingestion.
sequence_column: seq_id

# key_column is the business key duplicates share. After 'scrub dedupe' the
# row with the smallest sequence id survives for each distinct key.
key_column: place_id

# batch_size bounds each removal pass of 'scrub dedupe --batch'.
batch_size: 500

normalize:
  columns:
    place_type:
      Boroughs: Borough
  # unresolved mappings are reported by 'scrub check' and 'scrub normalize'
  # but never applied. Promote an entry into columns above to settle it.
  unresolved:
    - column: place_type
      value: Neighbourhood
      candidates: [Neighborhood, District]
      note: unclear whether this is a spelling variant or a distinct category

# reference audits that every value of column in the dataset appears in
# ref_column of file.
#reference:
#  file: boroughs.csv
#  column: borough
#  ref_column: name
`
