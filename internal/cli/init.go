package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/scrub-data/scrub/internal/config"
)

// runInit creates the .scrub/ directory with a commented scrub.yaml scaffold.
func (a *App) runInit() error {
	scrubDir := filepath.Join(a.Dir, ".scrub")

	if _, err := os.Stat(scrubDir); err == nil {
		return fmt.Errorf("scrub already initialized in this directory")
	}

	if err := os.MkdirAll(scrubDir, 0755); err != nil {
		return fmt.Errorf("could not create .scrub/ directory: %w", err)
	}

	cfgPath := filepath.Join(scrubDir, config.FileName)
	if err := os.WriteFile(cfgPath, []byte(config.Scaffold), 0644); err != nil {
		// Clean up .scrub dir on failure
		os.RemoveAll(scrubDir)
		return fmt.Errorf("could not create %s: %w", config.FileName, err)
	}

	if !a.fc.Quiet {
		absDir, _ := filepath.Abs(scrubDir)
		formatter := a.fc.Formatter()
		msg := fmt.Sprintf("Initialized scrub in %s/ - edit %s to point at your dataset", absDir, config.FileName)
		if err := formatter.FormatMessage(a.Stdout, msg); err != nil {
			return err
		}
	}
	return nil
}
