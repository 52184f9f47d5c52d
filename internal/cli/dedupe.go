package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/scrub-data/scrub/internal/dedupe"
	"github.com/scrub-data/scrub/internal/record"
)

// parseDedupeArgs parses the dedupe command flags. --batch with no value uses
// the config default; --batch N overrides it. batchSize 0 means in-memory.
func parseDedupeArgs(args []string, defaultBatch int) (batchSize int, err error) {
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--batch":
			batchSize = defaultBatch
			if i+1 < len(args) {
				if n, perr := strconv.Atoi(args[i+1]); perr == nil {
					batchSize = n
					i++
				}
			}
			if batchSize < 1 {
				return 0, fmt.Errorf("batch size must be at least 1, got %d", batchSize)
			}
		default:
			return 0, unknownFlagError("dedupe", args[i])
		}
	}
	return batchSize, nil
}

// runDedupe removes duplicate rows, keeping the row with the smallest
// sequence id for each business key. The default strategy is a single
// in-memory pass; --batch [N] uses bounded removal batches against the
// SQLite cache until a fixed point is reached. Both strategies produce the
// same dataset. The sequence id uniqueness precondition is validated first
// and the run fails fast on violation.
func (a *App) runDedupe(args []string) error {
	cfg, store, err := a.openProject()
	if err != nil {
		return err
	}
	defer store.Close()

	batchSize, err := parseDedupeArgs(args, cfg.BatchSize)
	if err != nil {
		return err
	}

	ctx := context.Background()

	var data DedupeData
	data.Dataset = cfg.Dataset

	if batchSize > 0 {
		// The row count before removal only exists in the CSV; load it first.
		table, err := store.Load(ctx)
		if err != nil {
			return err
		}

		removed, batches, err := store.DedupeBatched(ctx, batchSize)
		if err != nil {
			return err
		}
		data.Strategy = "batched"
		data.BatchSize = batchSize
		data.Batches = batches
		data.Before = len(table.Rows)
		data.Removed = int(removed)
		data.Kept = data.Before - data.Removed
	} else {
		err = store.Mutate(ctx, func(t record.Table) (record.Table, error) {
			out := dedupe.Deduplicate(t)
			data.Strategy = "in-memory"
			data.Before = len(t.Rows)
			data.Kept = len(out.Rows)
			data.Removed = data.Before - data.Kept
			return out, nil
		})
		if err != nil {
			return err
		}
	}

	if a.fc.Quiet {
		return nil
	}
	return a.fc.Formatter().FormatDedupe(a.Stdout, data)
}
