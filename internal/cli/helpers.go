package cli

import (
	"fmt"

	"github.com/scrub-data/scrub/internal/config"
	"github.com/scrub-data/scrub/internal/storage"
)

// unknownFlagError builds the standard error for an unrecognized
// subcommand flag.
func unknownFlagError(cmd, flag string) error {
	return fmt.Errorf("unknown %s flag %q", cmd, flag)
}

// openProject discovers the .scrub directory from the app's working dir,
// loads the project config, and opens a Store wired with verbose logging.
// Callers must defer store.Close() themselves since Go defers are scope-bound.
func (a *App) openProject() (*config.Config, *storage.Store, error) {
	scrubDir, err := DiscoverScrubDir(a.Dir)
	if err != nil {
		return nil, nil, err
	}

	cfg, err := config.Load(scrubDir)
	if err != nil {
		return nil, nil, err
	}

	store, err := storage.NewStore(scrubDir, cfg.Dataset, cfg.SequenceColumn, cfg.KeyColumn)
	if err != nil {
		return nil, nil, err
	}
	if a.fc.Logger != nil {
		store.SetLogger(a.fc.Logger)
	}
	return cfg, store, nil
}
