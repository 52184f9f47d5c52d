package cli

import (
	"context"

	"github.com/scrub-data/scrub/internal/normalize"
	"github.com/scrub-data/scrub/internal/record"
)

// runNormalize applies the settled substitution rules from scrub.yaml and
// rewrites the dataset atomically. Unresolved mappings are reported but
// never applied.
func (a *App) runNormalize() error {
	cfg, store, err := a.openProject()
	if err != nil {
		return err
	}
	defer store.Close()

	var report normalize.Report
	err = store.Mutate(context.Background(), func(t record.Table) (record.Table, error) {
		modified, rep, err := normalize.Apply(t, cfg.Rules())
		if err != nil {
			return record.Table{}, err
		}
		report = rep
		return modified, nil
	})
	if err != nil {
		return err
	}

	if a.fc.Quiet {
		return nil
	}
	return a.fc.Formatter().FormatNormalize(a.Stdout, normalizeData(cfg.Dataset, report))
}

// normalizeData converts a normalize.Report into the display representation.
func normalizeData(dataset string, report normalize.Report) NormalizeData {
	data := NormalizeData{
		Dataset: dataset,
		Applied: report.Applied(),
	}
	for _, r := range report.Replacements {
		data.Replacements = append(data.Replacements, ReplacementData{
			Column: r.Column,
			From:   r.From,
			To:     r.To,
			Count:  r.Count,
		})
	}
	for _, u := range report.Unresolved {
		data.Unresolved = append(data.Unresolved, UnresolvedData{
			Column:     u.Column,
			Value:      u.Value,
			Candidates: u.Candidates,
			Count:      u.Count,
		})
	}
	return data
}
