// Package dedupe implements deterministic duplicate resolution over a keyed
// table: for every distinct business key, exactly one row survives — the one
// with the smallest sequence id.
package dedupe

import (
	"sort"

	"github.com/scrub-data/scrub/internal/record"
)

// Deduplicate returns a new table containing, for each distinct business key
// in t, the single row with the minimum sequence id among that key's rows.
// Rows whose key is unique pass through unchanged. Output rows are ordered by
// ascending sequence id.
//
// The operation is pure (t is never mutated) and idempotent: applying it to
// its own output yields an identical table. Sequence id uniqueness is a
// precondition — validate with record.CheckSequenceIDs before calling.
func Deduplicate(t record.Table) record.Table {
	survivors := make(map[string]record.Row, len(t.Rows))
	for _, r := range t.Rows {
		best, seen := survivors[r.Key]
		if !seen || r.Seq < best.Seq {
			survivors[r.Key] = r
		}
	}

	out := record.Table{
		Columns: t.Columns,
		SeqCol:  t.SeqCol,
		KeyCol:  t.KeyCol,
	}
	if len(survivors) == 0 {
		return out
	}

	out.Rows = make([]record.Row, 0, len(survivors))
	for _, r := range survivors {
		out.Rows = append(out.Rows, r)
	}
	sort.Slice(out.Rows, func(i, j int) bool { return out.Rows[i].Seq < out.Rows[j].Seq })
	return out
}

// RemovedCount returns how many rows Deduplicate would drop from t.
func RemovedCount(t record.Table) int {
	keys := make(map[string]struct{}, len(t.Rows))
	for _, r := range t.Rows {
		keys[r.Key] = struct{}{}
	}
	return len(t.Rows) - len(keys)
}
