package audit

import (
	"context"
	"errors"

	"github.com/scrub-data/scrub/internal/record"
)

// SequenceUniqueCheck validates the deduplication precondition: no two rows
// may share a sequence id. Deduplicating a table that violates this is
// undefined, so the failure is error severity. It is read-only and never
// modifies the dataset.
type SequenceUniqueCheck struct {
	Table record.Table
}

// Run executes the check by delegating to record.CheckSequenceIDs and
// rendering any violation as a single failing result.
func (c *SequenceUniqueCheck) Run(ctx context.Context) []CheckResult {
	err := record.CheckSequenceIDs(c.Table)
	if err == nil {
		return []CheckResult{{
			Name:   "Sequence id uniqueness",
			Passed: true,
		}}
	}

	var pre *record.PreconditionError
	details := err.Error()
	if errors.As(err, &pre) {
		details = pre.Error()
	}

	return []CheckResult{{
		Name:       "Sequence id uniqueness",
		Passed:     false,
		Severity:   SeverityError,
		Details:    details,
		Suggestion: "Reassign sequence ids so every row has a distinct value before cleaning",
	}}
}
