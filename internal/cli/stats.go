package cli

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// statsQuery holds the parsed stats command flags.
type statsQuery struct {
	By   string
	Sums []string
	Avgs []string
}

// parseStatsArgs parses --by COL (required) and repeated --sum COL / --avg COL.
func parseStatsArgs(args []string) (statsQuery, error) {
	var q statsQuery
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--by":
			if i+1 >= len(args) {
				return q, fmt.Errorf("--by requires a column name")
			}
			q.By = args[i+1]
			i++
		case "--sum":
			if i+1 >= len(args) {
				return q, fmt.Errorf("--sum requires a column name")
			}
			q.Sums = append(q.Sums, args[i+1])
			i++
		case "--avg":
			if i+1 >= len(args) {
				return q, fmt.Errorf("--avg requires a column name")
			}
			q.Avgs = append(q.Avgs, args[i+1])
			i++
		default:
			return q, unknownFlagError("stats", args[i])
		}
	}
	if q.By == "" {
		return q, fmt.Errorf("stats requires --by COLUMN")
	}
	return q, nil
}

// runStats computes grouped aggregates over the dataset via the SQLite
// cache: row count per group value, plus SUM/AVG of the requested numeric
// columns. Column names are validated against the cached table before being
// interpolated into the query.
func (a *App) runStats(args []string) error {
	q, err := parseStatsArgs(args)
	if err != nil {
		return err
	}

	_, store, err := a.openProject()
	if err != nil {
		return err
	}
	defer store.Close()

	data := StatsData{
		GroupColumn: q.By,
		SumColumns:  q.Sums,
		AvgColumns:  q.Avgs,
	}

	err = store.Query(context.Background(), func(db *sql.DB) error {
		available, err := recordColumns(db)
		if err != nil {
			return err
		}
		for _, col := range append(append([]string{q.By}, q.Sums...), q.Avgs...) {
			if !available[col] {
				return fmt.Errorf("column %q not found in dataset", col)
			}
		}

		selects := []string{
			fmt.Sprintf(`COALESCE(%s, '')`, quoteIdent(q.By)),
			"COUNT(*)",
		}
		for _, col := range q.Sums {
			selects = append(selects, fmt.Sprintf(`COALESCE(SUM(CAST(%s AS REAL)), 0)`, quoteIdent(col)))
		}
		for _, col := range q.Avgs {
			selects = append(selects, fmt.Sprintf(`COALESCE(AVG(CAST(%s AS REAL)), 0)`, quoteIdent(col)))
		}

		query := fmt.Sprintf("SELECT %s FROM records GROUP BY %s ORDER BY %s ASC",
			strings.Join(selects, ", "), quoteIdent(q.By), quoteIdent(q.By))

		rows, err := db.Query(query)
		if err != nil {
			return fmt.Errorf("querying grouped aggregates: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			g := StatGroup{
				Sums: make([]float64, len(q.Sums)),
				Avgs: make([]float64, len(q.Avgs)),
			}
			targets := []interface{}{&g.Key, &g.Count}
			for i := range g.Sums {
				targets = append(targets, &g.Sums[i])
			}
			for i := range g.Avgs {
				targets = append(targets, &g.Avgs[i])
			}
			if err := rows.Scan(targets...); err != nil {
				return fmt.Errorf("scanning aggregate row: %w", err)
			}
			data.Groups = append(data.Groups, g)
		}
		return rows.Err()
	})
	if err != nil {
		return err
	}

	if a.fc.Quiet {
		return nil
	}
	return a.fc.Formatter().FormatStats(a.Stdout, data)
}

// recordColumns returns the set of column names in the cached records table.
func recordColumns(db *sql.DB) (map[string]bool, error) {
	rows, err := db.Query(`SELECT name FROM pragma_table_info('records')`)
	if err != nil {
		return nil, fmt.Errorf("reading records table columns: %w", err)
	}
	defer rows.Close()

	cols := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning column name: %w", err)
		}
		cols[name] = true
	}
	return cols, rows.Err()
}

// quoteIdent quotes a validated column name for use in generated SQL.
func quoteIdent(name string) string {
	return `"` + name + `"`
}
