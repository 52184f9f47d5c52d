package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// BaseConfig is a minimal scrub.yaml used by most fixtures: a places.csv
// dataset keyed by place_id with seq_id sequence ids.
const BaseConfig = `dataset: places.csv
sequence_column: seq_id
key_column: place_id
batch_size: 2
`

// WriteDataset writes CSV lines (header first) to path, joined by newlines.
func WriteDataset(t *testing.T, path string, lines ...string) {
	t.Helper()
	content := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write dataset %s: %v", path, err)
	}
}

// InitProject creates a temp project directory containing .scrub/scrub.yaml
// with the given config and a places.csv with the given lines (header first).
// Returns the project directory.
func InitProject(t *testing.T, cfgYAML string, datasetLines ...string) string {
	t.Helper()
	dir := t.TempDir()

	scrubDir := filepath.Join(dir, ".scrub")
	if err := os.MkdirAll(scrubDir, 0755); err != nil {
		t.Fatalf("failed to create .scrub dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(scrubDir, "scrub.yaml"), []byte(cfgYAML), 0644); err != nil {
		t.Fatalf("failed to write scrub.yaml: %v", err)
	}

	if len(datasetLines) > 0 {
		WriteDataset(t, filepath.Join(dir, "places.csv"), datasetLines...)
	}
	return dir
}

// SamplePlaces returns CSV lines for a small places dataset with duplicate
// business keys: p1 appears on seq 1, 2 and 4; p2 appears once.
func SamplePlaces() []string {
	return []string{
		"seq_id,place_id,name,place_type,borough",
		"1,p1,Alpha,Borough,Bronx",
		"2,p1,Alpha dup,Borough,Bronx",
		"3,p2,Beta,Boroughs,Queens",
		"4,p1,Alpha dup 2,Borough,Bronx",
	}
}
