package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// PrettyFormatter implements the Formatter interface for human-readable
// terminal output. It produces aligned columns with no borders, colors,
// or icons — minimalist and clean.
type PrettyFormatter struct{}

// FormatDedupe renders a deduplication summary as labeled lines.
func (f *PrettyFormatter) FormatDedupe(w io.Writer, data DedupeData) error {
	fmt.Fprintf(w, "Deduplicated %s\n", data.Dataset)
	fmt.Fprintf(w, "  rows before:  %d\n", data.Before)
	fmt.Fprintf(w, "  rows kept:    %d\n", data.Kept)
	fmt.Fprintf(w, "  rows removed: %d\n", data.Removed)
	if data.Strategy == "batched" {
		fmt.Fprintf(w, "  strategy:     batched (%d batch(es) of up to %d)\n", data.Batches, data.BatchSize)
	} else {
		fmt.Fprintf(w, "  strategy:     %s\n", data.Strategy)
	}
	return nil
}

// FormatNormalize renders applied substitutions one per line, then any
// unresolved-mapping warnings.
func (f *PrettyFormatter) FormatNormalize(w io.Writer, data NormalizeData) error {
	if data.Applied == 0 {
		fmt.Fprintf(w, "Normalized %s: nothing to change\n", data.Dataset)
	} else {
		fmt.Fprintf(w, "Normalized %s: %d cell(s) rewritten\n", data.Dataset, data.Applied)
		for _, r := range data.Replacements {
			fmt.Fprintf(w, "  %s: %q -> %q (%d rows)\n", r.Column, r.From, r.To, r.Count)
		}
	}

	for _, u := range data.Unresolved {
		line := fmt.Sprintf("  unresolved: %s=%q on %d row(s), left unchanged", u.Column, u.Value, u.Count)
		if len(u.Candidates) > 0 {
			line += fmt.Sprintf(" (candidates: %s)", strings.Join(u.Candidates, ", "))
		}
		fmt.Fprintln(w, line)
	}
	return nil
}

// FormatStats renders grouped aggregates as an aligned column table with a
// header row. Dynamic column widths adapt to data.
func (f *PrettyFormatter) FormatStats(w io.Writer, data StatsData) error {
	if len(data.Groups) == 0 {
		fmt.Fprintln(w, "No rows found.")
		return nil
	}

	headers := []string{strings.ToUpper(data.GroupColumn), "COUNT"}
	for _, col := range data.SumColumns {
		headers = append(headers, "SUM("+col+")")
	}
	for _, col := range data.AvgColumns {
		headers = append(headers, "AVG("+col+")")
	}

	rows := make([][]string, len(data.Groups))
	for i, g := range data.Groups {
		row := []string{g.Key, strconv.Itoa(g.Count)}
		for _, v := range g.Sums {
			row = append(row, formatNumber(v))
		}
		for _, v := range g.Avgs {
			row = append(row, formatNumber(v))
		}
		rows[i] = row
	}

	// Calculate dynamic column widths.
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	// Header, then data rows: group key left-aligned, numbers right-aligned.
	printRow := func(cells []string) {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			if i == 0 {
				parts[i] = fmt.Sprintf("%-*s", widths[i], cell)
			} else {
				parts[i] = fmt.Sprintf("%*s", widths[i], cell)
			}
		}
		fmt.Fprintln(w, strings.Join(parts, "  "))
	}

	printRow(headers)
	for _, row := range rows {
		printRow(row)
	}
	return nil
}

// FormatMessage renders a simple message as plain text.
func (f *PrettyFormatter) FormatMessage(w io.Writer, msg string) error {
	fmt.Fprintln(w, msg)
	return nil
}

// formatNumber renders an aggregate value without a trailing ".00" when it
// is integral.
func formatNumber(v float64) string {
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}
