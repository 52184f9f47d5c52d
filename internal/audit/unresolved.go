package audit

import (
	"context"
	"fmt"
	"strings"

	"github.com/scrub-data/scrub/internal/normalize"
	"github.com/scrub-data/scrub/internal/record"
)

// UnresolvedMappingCheck reports occurrences of categorical values whose
// normalization is flagged ambiguous in the config. The values are left
// untouched by every cleaning pass; this check keeps the open decision
// visible. Occurrences are warnings since the data is allowed to stay as-is.
type UnresolvedMappingCheck struct {
	Table record.Table
	Rules normalize.Rules
}

// Run counts rows holding each unresolved value and emits one warning per
// value that actually occurs. Unresolved entries with zero occurrences pass
// silently.
func (c *UnresolvedMappingCheck) Run(ctx context.Context) []CheckResult {
	var failures []CheckResult

	for _, u := range c.Rules.Unresolved {
		idx, err := c.Table.ColumnIndex(u.Column)
		if err != nil {
			failures = append(failures, CheckResult{
				Name:       "Unresolved mappings",
				Passed:     false,
				Severity:   SeverityWarning,
				Details:    err.Error(),
				Suggestion: "Fix the normalize.unresolved entry in scrub.yaml",
			})
			continue
		}

		count := 0
		for _, r := range c.Table.Rows {
			if r.Values[idx] == u.Value {
				count++
			}
		}
		if count == 0 {
			continue
		}

		details := fmt.Sprintf("%d row(s) have %s=%q, mapping undecided", count, u.Column, u.Value)
		if len(u.Candidates) > 0 {
			details += fmt.Sprintf(" (candidates: %s)", strings.Join(u.Candidates, ", "))
		}
		failures = append(failures, CheckResult{
			Name:       "Unresolved mappings",
			Passed:     false,
			Severity:   SeverityWarning,
			Details:    details,
			Suggestion: "Settle the mapping by moving it into normalize.columns in scrub.yaml",
		})
	}

	if len(failures) > 0 {
		return failures
	}

	return []CheckResult{{
		Name:   "Unresolved mappings",
		Passed: true,
	}}
}
