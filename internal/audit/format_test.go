package audit

import (
	"strings"
	"testing"
)

func TestFormatReport(t *testing.T) {
	t.Run("it formats passing and failing results", func(t *testing.T) {
		report := Report{Results: []CheckResult{
			{Name: "Sequence id uniqueness", Passed: true},
			{
				Name:       "Business key uniqueness",
				Passed:     false,
				Severity:   SeverityWarning,
				Details:    `key "p1" on sequence ids 1, 2 (seq 1 survives dedupe)`,
				Suggestion: "Run scrub dedupe",
			},
		}}

		var buf strings.Builder
		FormatReport(&buf, report)
		out := buf.String()

		if !strings.Contains(out, "✓ Sequence id uniqueness: OK") {
			t.Errorf("output missing pass line:\n%s", out)
		}
		if !strings.Contains(out, `✗ Business key uniqueness: key "p1"`) {
			t.Errorf("output missing fail line:\n%s", out)
		}
		if !strings.Contains(out, "→ Run scrub dedupe") {
			t.Errorf("output missing suggestion line:\n%s", out)
		}
		if !strings.Contains(out, "1 issue found.") {
			t.Errorf("output missing summary:\n%s", out)
		}
	})

	t.Run("it reports no issues for an all-pass report", func(t *testing.T) {
		var buf strings.Builder
		FormatReport(&buf, Report{Results: []CheckResult{{Name: "a", Passed: true}}})

		if !strings.Contains(buf.String(), "No issues found.") {
			t.Errorf("output = %q, want no-issues summary", buf.String())
		}
	})

	t.Run("it pluralizes the issue count", func(t *testing.T) {
		var buf strings.Builder
		FormatReport(&buf, Report{Results: []CheckResult{
			{Name: "a", Passed: false, Severity: SeverityError, Details: "x"},
			{Name: "b", Passed: false, Severity: SeverityWarning, Details: "y"},
		}})

		if !strings.Contains(buf.String(), "2 issues found.") {
			t.Errorf("output = %q, want plural summary", buf.String())
		}
	})
}

func TestExitCode(t *testing.T) {
	t.Run("it returns 0 for warnings only", func(t *testing.T) {
		report := Report{Results: []CheckResult{
			{Name: "a", Passed: false, Severity: SeverityWarning, Details: "x"},
		}}
		if got := ExitCode(report); got != 0 {
			t.Errorf("ExitCode() = %d, want 0", got)
		}
	})

	t.Run("it returns 1 when any error failed", func(t *testing.T) {
		report := Report{Results: []CheckResult{
			{Name: "a", Passed: true},
			{Name: "b", Passed: false, Severity: SeverityError, Details: "x"},
		}}
		if got := ExitCode(report); got != 1 {
			t.Errorf("ExitCode() = %d, want 1", got)
		}
	})
}
