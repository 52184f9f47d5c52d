// Package record defines the tabular dataset model: rows carrying a unique
// sequence id and a non-unique business key, plus the CSV codec and
// precondition validation used before any cleaning pass.
package record

import (
	"fmt"
	"strings"
)

// Row is a single dataset row. Seq and Key are parsed out of the raw cells
// at load time; Values always holds the full raw cells in column order,
// including the sequence and key cells themselves.
type Row struct {
	Seq    int64
	Key    string
	Values []string
}

// Table is an ordered collection of rows sharing one header.
// SeqCol and KeyCol are indexes into Columns for the sequence id and
// business key columns.
type Table struct {
	Columns []string
	SeqCol  int
	KeyCol  int
	Rows    []Row
}

// NewTable creates an empty table for the given header and resolves the
// sequence and key column names to indexes.
func NewTable(columns []string, seqColumn, keyColumn string) (Table, error) {
	seqCol, err := columnIndex(columns, seqColumn)
	if err != nil {
		return Table{}, err
	}
	keyCol, err := columnIndex(columns, keyColumn)
	if err != nil {
		return Table{}, err
	}
	return Table{
		Columns: columns,
		SeqCol:  seqCol,
		KeyCol:  keyCol,
	}, nil
}

// ColumnIndex returns the index of the named column, or an error listing the
// available columns when it does not exist.
func (t Table) ColumnIndex(name string) (int, error) {
	return columnIndex(t.Columns, name)
}

// HasColumn reports whether the table header contains the named column.
func (t Table) HasColumn(name string) bool {
	_, err := columnIndex(t.Columns, name)
	return err == nil
}

func columnIndex(columns []string, name string) (int, error) {
	for i, c := range columns {
		if c == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("column %q not found in header (have: %s)", name, strings.Join(columns, ", "))
}

// Clone returns a deep copy of the table. Cleaning passes operate on copies
// so the loaded table is never mutated in place.
func (t Table) Clone() Table {
	out := Table{
		Columns: append([]string(nil), t.Columns...),
		SeqCol:  t.SeqCol,
		KeyCol:  t.KeyCol,
	}
	out.Rows = make([]Row, len(t.Rows))
	for i, r := range t.Rows {
		out.Rows[i] = Row{
			Seq:    r.Seq,
			Key:    r.Key,
			Values: append([]string(nil), r.Values...),
		}
	}
	return out
}
