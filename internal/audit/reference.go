package audit

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/scrub-data/scrub/internal/record"
)

// maxReportedValues bounds how many missing values a reference failure lists.
const maxReportedValues = 10

// ReferenceCheck verifies referential consistency between the dataset and a
// second table: every non-empty value of Column in the dataset must appear in
// RefColumn of the reference CSV at RefFile. Missing values break downstream
// joins, so failures are error severity.
type ReferenceCheck struct {
	Table     record.Table
	Column    string
	RefFile   string
	RefColumn string
}

// Run loads the reference column into a set and reports every dataset value
// absent from it, with occurrence counts.
func (c *ReferenceCheck) Run(ctx context.Context) []CheckResult {
	name := fmt.Sprintf("Reference %s -> %s", c.Column, c.RefColumn)

	idx, err := c.Table.ColumnIndex(c.Column)
	if err != nil {
		return []CheckResult{{
			Name:       name,
			Passed:     false,
			Severity:   SeverityError,
			Details:    err.Error(),
			Suggestion: "Fix the reference.column entry in scrub.yaml",
		}}
	}

	refValues, err := readColumnSet(c.RefFile, c.RefColumn)
	if err != nil {
		return []CheckResult{{
			Name:       name,
			Passed:     false,
			Severity:   SeverityError,
			Details:    fmt.Sprintf("loading reference table: %s", err),
			Suggestion: "Verify the reference.file and ref_column entries in scrub.yaml",
		}}
	}

	// Count occurrences of each missing value.
	missing := make(map[string]int)
	for _, r := range c.Table.Rows {
		v := r.Values[idx]
		if v == "" {
			continue
		}
		if _, ok := refValues[v]; !ok {
			missing[v]++
		}
	}

	if len(missing) == 0 {
		return []CheckResult{{Name: name, Passed: true}}
	}

	values := make([]string, 0, len(missing))
	for v := range missing {
		values = append(values, v)
	}
	sort.Strings(values)

	shown := values
	truncated := false
	if len(shown) > maxReportedValues {
		shown = shown[:maxReportedValues]
		truncated = true
	}

	parts := make([]string, len(shown))
	for i, v := range shown {
		parts[i] = fmt.Sprintf("%q (%d rows)", v, missing[v])
	}
	details := fmt.Sprintf("%d value(s) of %s missing from %s: %s", len(values), c.Column, c.RefFile, strings.Join(parts, ", "))
	if truncated {
		details += ", ..."
	}

	return []CheckResult{{
		Name:       name,
		Passed:     false,
		Severity:   SeverityError,
		Details:    details,
		Suggestion: "Add the missing values to the reference table or correct the dataset",
	}}
}

// readColumnSet reads one named column of a CSV file into a set. The
// reference table is a plain CSV with a header; it does not need sequence or
// key columns.
func readColumnSet(path, column string) (map[string]struct{}, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header of %s: %w", path, err)
	}

	idx := -1
	for i, h := range header {
		if strings.TrimSpace(h) == column {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("column %q not found in %s", column, path)
	}

	values := make(map[string]struct{})
	for {
		cells, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		if idx < len(cells) {
			values[cells[idx]] = struct{}{}
		}
	}
	return values, nil
}
