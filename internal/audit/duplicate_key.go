package audit

import (
	"context"
	"fmt"
	"strings"

	"github.com/scrub-data/scrub/internal/record"
)

// maxReportedGroups bounds how many duplicate key groups a single run reports
// so a badly duplicated dataset does not flood the output.
const maxReportedGroups = 20

// DuplicateKeyCheck reports business keys that appear on more than one row.
// Duplicate keys are an expected input state (they are what 'scrub dedupe'
// removes), so each group is a warning, not an error. Each group lists the
// sequence ids involved and which one would survive deduplication.
type DuplicateKeyCheck struct {
	Table record.Table
}

// Run groups rows by business key and emits one failing result per group
// with more than one row, preserving first-seen key order.
func (c *DuplicateKeyCheck) Run(ctx context.Context) []CheckResult {
	groups := make(map[string][]int64)
	var keyOrder []string

	for _, r := range c.Table.Rows {
		if _, seen := groups[r.Key]; !seen {
			keyOrder = append(keyOrder, r.Key)
		}
		groups[r.Key] = append(groups[r.Key], r.Seq)
	}

	var failures []CheckResult
	for _, key := range keyOrder {
		seqs := groups[key]
		if len(seqs) <= 1 {
			continue
		}
		if len(failures) >= maxReportedGroups {
			failures = append(failures, CheckResult{
				Name:       "Business key uniqueness",
				Passed:     false,
				Severity:   SeverityWarning,
				Details:    fmt.Sprintf("further duplicate key groups omitted after the first %d", maxReportedGroups),
				Suggestion: "Run scrub dedupe",
			})
			break
		}

		survivor := seqs[0]
		parts := make([]string, len(seqs))
		for i, seq := range seqs {
			if seq < survivor {
				survivor = seq
			}
			parts[i] = fmt.Sprintf("%d", seq)
		}

		failures = append(failures, CheckResult{
			Name:       "Business key uniqueness",
			Passed:     false,
			Severity:   SeverityWarning,
			Details:    fmt.Sprintf("key %q on sequence ids %s (seq %d survives dedupe)", key, strings.Join(parts, ", "), survivor),
			Suggestion: "Run scrub dedupe",
		})
	}

	if len(failures) > 0 {
		return failures
	}

	return []CheckResult{{
		Name:   "Business key uniqueness",
		Passed: true,
	}}
}
