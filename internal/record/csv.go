package record

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ParseCSV parses in-memory CSV bytes into a Table. The first record is the
// header and must contain both the sequence and key columns. Sequence cells
// are parsed as base-10 integers; a cell that does not parse fails the load
// with its line number. Empty input (0 bytes) is an error since a dataset
// without a header cannot be interpreted; a header with no data rows is a
// valid empty table.
func ParseCSV(data []byte, seqColumn, keyColumn string) (Table, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Table{}, fmt.Errorf("dataset is empty: missing header row")
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return Table{}, fmt.Errorf("reading header row: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	table, err := NewTable(header, seqColumn, keyColumn)
	if err != nil {
		return Table{}, err
	}

	lineNum := 1
	for {
		cells, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Table{}, fmt.Errorf("reading row after line %d: %w", lineNum, err)
		}
		lineNum++

		if len(cells) != len(header) {
			return Table{}, fmt.Errorf("line %d: expected %d fields, got %d", lineNum, len(header), len(cells))
		}

		seq, err := strconv.ParseInt(strings.TrimSpace(cells[table.SeqCol]), 10, 64)
		if err != nil {
			return Table{}, fmt.Errorf("line %d: invalid %s %q: %w", lineNum, seqColumn, cells[table.SeqCol], err)
		}

		table.Rows = append(table.Rows, Row{
			Seq:    seq,
			Key:    cells[table.KeyCol],
			Values: cells,
		})
	}

	return table, nil
}

// ReadCSV reads and parses a dataset file.
func ReadCSV(path, seqColumn, keyColumn string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Table{}, fmt.Errorf("reading dataset file: %w", err)
	}
	return ParseCSV(data, seqColumn, keyColumn)
}

// SerializeCSV serializes a table to CSV bytes in memory: header first,
// then one record per row in slice order.
func SerializeCSV(t Table) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(t.Columns); err != nil {
		return nil, fmt.Errorf("writing header: %w", err)
	}
	for _, r := range t.Rows {
		if err := w.Write(r.Values); err != nil {
			return nil, fmt.Errorf("writing row seq %d: %w", r.Seq, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flushing csv writer: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteCSV writes a table to path using atomic write (temp file + fsync + rename)
// so a crash mid-write never leaves a truncated dataset behind.
func WriteCSV(path string, t Table) error {
	data, err := SerializeCSV(t)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".dataset-*.csv.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("writing dataset: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}

	success = true
	return nil
}
