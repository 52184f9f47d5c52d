// Package audit provides consistency checks for a scrub dataset. It defines
// the check interface, result types, and a runner that executes all
// registered checks without short-circuiting.
package audit

import "context"

// Severity indicates whether a check failure is an error or a warning.
// Errors affect exit code; warnings do not.
type Severity string

const (
	// SeverityError indicates a failure that blocks cleaning and affects exit code.
	SeverityError Severity = "error"
	// SeverityWarning indicates a suspicious but allowed state that does not affect exit code.
	SeverityWarning Severity = "warning"
)

// CheckResult holds the outcome of a single check evaluation.
// A passing check has Passed true with empty Details and Suggestion.
// A failing check has Passed false with a human-readable Details description
// and an actionable Suggestion for remediation.
type CheckResult struct {
	// Name is the check's display label (e.g. "Sequence id uniqueness").
	Name string
	// Passed indicates whether this check evaluation passed.
	Passed bool
	// Severity indicates whether this result is an error or warning.
	Severity Severity
	// Details is a human-readable description of what is wrong. Empty when passed.
	Details string
	// Suggestion is actionable fix text. Empty when passed or when no suggestion applies.
	Suggestion string
}

// Check is the interface that all dataset checks implement.
// Run executes the check and returns one or more results.
// A passing check returns exactly one result with Passed true.
// A failing check returns one or more results with Passed false.
type Check interface {
	Run(ctx context.Context) []CheckResult
}

// Report collects all check results from an audit run.
type Report struct {
	// Results contains all CheckResult entries in registration order.
	Results []CheckResult
}

// HasErrors returns true if any result has Passed false with SeverityError.
func (r *Report) HasErrors() bool {
	for _, result := range r.Results {
		if !result.Passed && result.Severity == SeverityError {
			return true
		}
	}
	return false
}

// ErrorCount returns the number of results with Passed false and SeverityError.
func (r *Report) ErrorCount() int {
	count := 0
	for _, result := range r.Results {
		if !result.Passed && result.Severity == SeverityError {
			count++
		}
	}
	return count
}

// WarningCount returns the number of results with Passed false and SeverityWarning.
func (r *Report) WarningCount() int {
	count := 0
	for _, result := range r.Results {
		if !result.Passed && result.Severity == SeverityWarning {
			count++
		}
	}
	return count
}

// Runner holds an ordered slice of Check implementations and executes all of
// them, collecting results into a Report.
type Runner struct {
	checks []Check
}

// NewRunner creates a Runner with no registered checks.
func NewRunner() *Runner {
	return &Runner{}
}

// Register appends a check to the runner's ordered slice.
func (r *Runner) Register(check Check) {
	r.checks = append(r.checks, check)
}

// RunAll executes every registered check and collects all CheckResult entries
// into a Report. It never short-circuits — all checks run regardless of prior
// failures. With zero registered checks, it returns an empty report.
func (r *Runner) RunAll(ctx context.Context) Report {
	var results []CheckResult
	for _, check := range r.checks {
		results = append(results, check.Run(ctx)...)
	}
	return Report{Results: results}
}
