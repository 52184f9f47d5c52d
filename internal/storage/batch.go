package storage

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/scrub-data/scrub/internal/record"
)

// DeleteDuplicateBatch removes at most limit rows from the records table that
// have a same-key row with a smaller sequence id. Returns the number of rows
// removed. Each call is a single atomic statement, so replaying a batch that
// already ran removes nothing.
//
// This is the bounded-removal formulation of deduplication: repeatedly remove
// any row for which a same-key row with a smaller sequence id exists, until no
// such pair remains. It exists for datasets too large to rewrite in one pass;
// the fixed point is identical to the in-memory grouping pass for any limit.
func (c *Cache) DeleteDuplicateBatch(t record.Table, limit int) (int64, error) {
	if limit < 1 {
		return 0, fmt.Errorf("batch limit must be at least 1, got %d", limit)
	}

	seq := quoteIdent(t.Columns[t.SeqCol])
	key := quoteIdent(t.Columns[t.KeyCol])

	query := fmt.Sprintf(`
		DELETE FROM records WHERE %[1]s IN (
		  SELECT r.%[1]s FROM records r
		  WHERE EXISTS (
		    SELECT 1 FROM records r2
		    WHERE r2.%[2]s = r.%[2]s AND r2.%[1]s < r.%[1]s
		  )
		  LIMIT ?
		)`, seq, key)

	res, err := c.db.Exec(query, limit)
	if err != nil {
		return 0, fmt.Errorf("deleting duplicate batch: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reading rows affected: %w", err)
	}
	return removed, nil
}

// DedupeToFixedPoint applies DeleteDuplicateBatch until a pass removes zero
// rows. Returns the total rows removed and the number of batches that
// actually removed something.
func (c *Cache) DedupeToFixedPoint(t record.Table, batchSize int) (removed int64, batches int, err error) {
	for {
		n, err := c.DeleteDuplicateBatch(t, batchSize)
		if err != nil {
			return removed, batches, err
		}
		if n == 0 {
			return removed, batches, nil
		}
		removed += n
		batches++
	}
}

// SelectAll materializes the current contents of the records table as a
// Table with the same header as t, ordered by ascending sequence id.
func (c *Cache) SelectAll(t record.Table) (record.Table, error) {
	out := record.Table{
		Columns: t.Columns,
		SeqCol:  t.SeqCol,
		KeyCol:  t.KeyCol,
	}

	cols := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		cols[i] = quoteIdent(col)
	}
	query := fmt.Sprintf("SELECT %s FROM records ORDER BY %s ASC",
		strings.Join(cols, ", "), quoteIdent(t.Columns[t.SeqCol]))

	rows, err := c.db.Query(query)
	if err != nil {
		return record.Table{}, fmt.Errorf("selecting records: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		values := make([]string, len(t.Columns))
		scanTargets := make([]interface{}, len(t.Columns))
		for i := range values {
			scanTargets[i] = &values[i]
		}
		if err := rows.Scan(scanTargets...); err != nil {
			return record.Table{}, fmt.Errorf("scanning record row: %w", err)
		}

		seq, err := strconv.ParseInt(values[t.SeqCol], 10, 64)
		if err != nil {
			return record.Table{}, fmt.Errorf("parsing cached sequence id %q: %w", values[t.SeqCol], err)
		}

		out.Rows = append(out.Rows, record.Row{
			Seq:    seq,
			Key:    values[t.KeyCol],
			Values: values,
		})
	}
	if err := rows.Err(); err != nil {
		return record.Table{}, fmt.Errorf("iterating record rows: %w", err)
	}
	return out, nil
}
