package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/scrub-data/scrub/internal/audit"
)

// runCheck audits the dataset and prints the report. Exit code follows
// audit.ExitCode: error-severity failures fail the run, warnings do not.
// The report is always plain text; it is diagnostic output, not data.
func (a *App) runCheck() int {
	cfg, store, err := a.openProject()
	if err != nil {
		fmt.Fprintf(a.Stderr, "Error: %s\n", err)
		return 1
	}
	defer store.Close()

	ctx := context.Background()
	table, err := store.Load(ctx)
	if err != nil {
		fmt.Fprintf(a.Stderr, "Error: %s\n", err)
		return 1
	}

	runner := audit.NewRunner()
	runner.Register(&audit.SequenceUniqueCheck{Table: table})
	runner.Register(&audit.DuplicateKeyCheck{Table: table})
	runner.Register(&audit.UnresolvedMappingCheck{Table: table, Rules: cfg.Rules()})
	if cfg.Reference != nil {
		refPath := cfg.Reference.File
		if !filepath.IsAbs(refPath) {
			refPath = filepath.Join(store.ProjectDir(), cfg.Reference.File)
		}
		runner.Register(&audit.ReferenceCheck{
			Table:     table,
			Column:    cfg.Reference.Column,
			RefFile:   refPath,
			RefColumn: cfg.Reference.RefColumn,
		})
	}

	report := runner.RunAll(ctx)
	if !a.fc.Quiet {
		audit.FormatReport(a.Stdout, report)
	}
	return audit.ExitCode(report)
}
