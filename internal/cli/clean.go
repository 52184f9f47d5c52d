package cli

import (
	"context"

	"github.com/scrub-data/scrub/internal/dedupe"
	"github.com/scrub-data/scrub/internal/normalize"
	"github.com/scrub-data/scrub/internal/record"
)

// runClean applies normalization and deduplication in a single locked
// mutation: the dataset is rewritten once, and normalized keys are seen by
// the dedupe pass. Always uses the in-memory dedupe strategy — a dataset too
// large for it should run normalize and dedupe --batch separately.
func (a *App) runClean(args []string) error {
	cfg, store, err := a.openProject()
	if err != nil {
		return err
	}
	defer store.Close()

	if len(args) > 0 {
		return unknownFlagError("clean", args[0])
	}

	var normReport normalize.Report
	var dedupeData DedupeData
	dedupeData.Dataset = cfg.Dataset
	dedupeData.Strategy = "in-memory"

	err = store.Mutate(context.Background(), func(t record.Table) (record.Table, error) {
		normalized, rep, err := normalize.Apply(t, cfg.Rules())
		if err != nil {
			return record.Table{}, err
		}
		normReport = rep

		out := dedupe.Deduplicate(normalized)
		dedupeData.Before = len(t.Rows)
		dedupeData.Kept = len(out.Rows)
		dedupeData.Removed = dedupeData.Before - dedupeData.Kept
		return out, nil
	})
	if err != nil {
		return err
	}

	if a.fc.Quiet {
		return nil
	}

	formatter := a.fc.Formatter()
	if err := formatter.FormatNormalize(a.Stdout, normalizeData(cfg.Dataset, normReport)); err != nil {
		return err
	}
	return formatter.FormatDedupe(a.Stdout, dedupeData)
}
