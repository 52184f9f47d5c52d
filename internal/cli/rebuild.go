package cli

import (
	"context"
	"fmt"
)

// runRebuild forces a complete SQLite cache rebuild from the dataset,
// bypassing the freshness check.
func (a *App) runRebuild() error {
	_, store, err := a.openProject()
	if err != nil {
		return err
	}
	defer store.Close()

	count, err := store.Rebuild(context.Background())
	if err != nil {
		return err
	}

	if a.fc.Quiet {
		return nil
	}
	msg := fmt.Sprintf("Rebuilt cache: %d rows", count)
	return a.fc.Formatter().FormatMessage(a.Stdout, msg)
}
