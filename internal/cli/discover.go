package cli

import (
	"fmt"
	"os"
	"path/filepath"
)

// DiscoverScrubDir walks up the directory tree from startDir looking for a
// .scrub/ directory. Returns the absolute path to .scrub/ or an error if not found.
func DiscoverScrubDir(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolving absolute path: %w", err)
	}

	for {
		candidate := filepath.Join(dir, ".scrub")
		info, err := os.Stat(candidate)
		if err == nil && info.IsDir() {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("not a scrub project (no .scrub directory found)")
}
