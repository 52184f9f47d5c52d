// Package normalize applies static lookup-table substitutions to categorical
// columns: misspelled or near-duplicate labels are replaced by their settled
// corrections. Mappings flagged as unresolved are never applied — their
// occurrences are only counted and reported, so an ambiguous merge stays
// visible until someone settles it in the config.
package normalize

import (
	"fmt"
	"sort"

	"github.com/scrub-data/scrub/internal/record"
)

// Unresolved is a candidate mapping that looks like a settled correction but
// has been deliberately left undecided. Apply reports its occurrences and
// changes nothing.
type Unresolved struct {
	Column     string
	Value      string
	Candidates []string
}

// Rules holds the normalization rule set for one dataset.
type Rules struct {
	// Columns maps a column name to its raw-value -> corrected-value table.
	Columns map[string]map[string]string
	// Unresolved lists mappings that must not be applied.
	Unresolved []Unresolved
}

// Replacement records one applied substitution and how many cells it touched.
type Replacement struct {
	Column string
	From   string
	To     string
	Count  int
}

// UnresolvedHit records how many cells hold a value flagged as unresolved.
type UnresolvedHit struct {
	Column     string
	Value      string
	Candidates []string
	Count      int
}

// Report summarizes one normalization pass.
type Report struct {
	Replacements []Replacement
	Unresolved   []UnresolvedHit
}

// Applied returns the total number of cells rewritten.
func (r Report) Applied() int {
	total := 0
	for _, rep := range r.Replacements {
		total += rep.Count
	}
	return total
}

// Apply rewrites t according to the settled mappings in rules and returns the
// new table plus a report of what changed and which unresolved values were
// seen. t itself is never mutated. Rules naming a column absent from the
// header are an error: a silently ignored rule would hide a config typo.
func Apply(t record.Table, rules Rules) (record.Table, Report, error) {
	for col := range rules.Columns {
		if !t.HasColumn(col) {
			return record.Table{}, Report{}, fmt.Errorf("normalize rule references unknown column %q", col)
		}
	}
	for _, u := range rules.Unresolved {
		if !t.HasColumn(u.Column) {
			return record.Table{}, Report{}, fmt.Errorf("unresolved mapping references unknown column %q", u.Column)
		}
	}

	out := t.Clone()
	counts := make(map[string]map[string]int) // column -> raw value -> cells rewritten

	for col, mapping := range rules.Columns {
		idx, err := out.ColumnIndex(col)
		if err != nil {
			return record.Table{}, Report{}, err
		}
		for i := range out.Rows {
			raw := out.Rows[i].Values[idx]
			corrected, ok := mapping[raw]
			if !ok {
				continue
			}
			out.Rows[i].Values[idx] = corrected
			if idx == out.KeyCol {
				out.Rows[i].Key = corrected
			}
			if counts[col] == nil {
				counts[col] = make(map[string]int)
			}
			counts[col][raw]++
		}
	}

	report := Report{}
	for _, col := range sortedKeys(counts) {
		mapping := rules.Columns[col]
		for _, raw := range sortedKeys(counts[col]) {
			report.Replacements = append(report.Replacements, Replacement{
				Column: col,
				From:   raw,
				To:     mapping[raw],
				Count:  counts[col][raw],
			})
		}
	}

	for _, u := range rules.Unresolved {
		idx, err := out.ColumnIndex(u.Column)
		if err != nil {
			return record.Table{}, Report{}, err
		}
		hit := UnresolvedHit{Column: u.Column, Value: u.Value, Candidates: u.Candidates}
		for i := range out.Rows {
			if out.Rows[i].Values[idx] == u.Value {
				hit.Count++
			}
		}
		if hit.Count > 0 {
			report.Unresolved = append(report.Unresolved, hit)
		}
	}

	return out, report, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
