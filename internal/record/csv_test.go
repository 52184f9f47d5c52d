package record

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleCSV = `seq_id,place_id,name
1,p1,Alpha
2,p1,Alpha dup
3,p2,Beta
`

func TestParseCSV(t *testing.T) {
	t.Run("it parses header and rows", func(t *testing.T) {
		table, err := ParseCSV([]byte(sampleCSV), "seq_id", "place_id")
		if err != nil {
			t.Fatalf("ParseCSV() returned error: %v", err)
		}
		if len(table.Columns) != 3 {
			t.Errorf("expected 3 columns, got %d", len(table.Columns))
		}
		if table.SeqCol != 0 || table.KeyCol != 1 {
			t.Errorf("expected SeqCol=0 KeyCol=1, got %d %d", table.SeqCol, table.KeyCol)
		}
		if len(table.Rows) != 3 {
			t.Fatalf("expected 3 rows, got %d", len(table.Rows))
		}
		if table.Rows[0].Seq != 1 || table.Rows[0].Key != "p1" {
			t.Errorf("row 0 = {%d %q}, want {1 \"p1\"}", table.Rows[0].Seq, table.Rows[0].Key)
		}
		if table.Rows[2].Values[2] != "Beta" {
			t.Errorf("row 2 name = %q, want %q", table.Rows[2].Values[2], "Beta")
		}
	})

	t.Run("it accepts a header-only dataset as empty table", func(t *testing.T) {
		table, err := ParseCSV([]byte("seq_id,place_id\n"), "seq_id", "place_id")
		if err != nil {
			t.Fatalf("ParseCSV() returned error: %v", err)
		}
		if len(table.Rows) != 0 {
			t.Errorf("expected 0 rows, got %d", len(table.Rows))
		}
	})

	t.Run("it rejects empty input", func(t *testing.T) {
		_, err := ParseCSV([]byte(""), "seq_id", "place_id")
		if err == nil {
			t.Fatal("expected error for empty input, got nil")
		}
		if !strings.Contains(err.Error(), "missing header row") {
			t.Errorf("error = %q, want mention of missing header row", err.Error())
		}
	})

	t.Run("it rejects a missing sequence column", func(t *testing.T) {
		_, err := ParseCSV([]byte("id,place_id\n1,p1\n"), "seq_id", "place_id")
		if err == nil {
			t.Fatal("expected error for missing column, got nil")
		}
		if !strings.Contains(err.Error(), `column "seq_id" not found`) {
			t.Errorf("error = %q, want column-not-found message", err.Error())
		}
	})

	t.Run("it rejects a non-integer sequence cell with line number", func(t *testing.T) {
		_, err := ParseCSV([]byte("seq_id,place_id\n1,p1\nabc,p2\n"), "seq_id", "place_id")
		if err == nil {
			t.Fatal("expected error for bad seq cell, got nil")
		}
		if !strings.Contains(err.Error(), "line 3") {
			t.Errorf("error = %q, want mention of line 3", err.Error())
		}
	})

	t.Run("it rejects a row with wrong field count", func(t *testing.T) {
		_, err := ParseCSV([]byte("seq_id,place_id,name\n1,p1\n"), "seq_id", "place_id")
		if err == nil {
			t.Fatal("expected error for short row, got nil")
		}
		if !strings.Contains(err.Error(), "expected 3 fields, got 2") {
			t.Errorf("error = %q, want field count message", err.Error())
		}
	})

	t.Run("it trims whitespace in header cells", func(t *testing.T) {
		table, err := ParseCSV([]byte("seq_id, place_id\n1,p1\n"), "seq_id", "place_id")
		if err != nil {
			t.Fatalf("ParseCSV() returned error: %v", err)
		}
		if table.Columns[1] != "place_id" {
			t.Errorf("column 1 = %q, want %q", table.Columns[1], "place_id")
		}
	})
}

func TestSerializeCSV(t *testing.T) {
	t.Run("it round-trips a parsed table", func(t *testing.T) {
		table, err := ParseCSV([]byte(sampleCSV), "seq_id", "place_id")
		if err != nil {
			t.Fatalf("ParseCSV() returned error: %v", err)
		}

		data, err := SerializeCSV(table)
		if err != nil {
			t.Fatalf("SerializeCSV() returned error: %v", err)
		}
		if string(data) != sampleCSV {
			t.Errorf("SerializeCSV() = %q, want %q", string(data), sampleCSV)
		}
	})
}

func TestWriteCSV(t *testing.T) {
	t.Run("it writes a readable dataset file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "places.csv")

		table, err := ParseCSV([]byte(sampleCSV), "seq_id", "place_id")
		if err != nil {
			t.Fatalf("ParseCSV() returned error: %v", err)
		}
		if err := WriteCSV(path, table); err != nil {
			t.Fatalf("WriteCSV() returned error: %v", err)
		}

		got, err := ReadCSV(path, "seq_id", "place_id")
		if err != nil {
			t.Fatalf("ReadCSV() returned error: %v", err)
		}
		if len(got.Rows) != 3 {
			t.Errorf("expected 3 rows after round-trip, got %d", len(got.Rows))
		}
	})

	t.Run("it leaves no temp files behind", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "places.csv")

		table, err := ParseCSV([]byte(sampleCSV), "seq_id", "place_id")
		if err != nil {
			t.Fatalf("ParseCSV() returned error: %v", err)
		}
		if err := WriteCSV(path, table); err != nil {
			t.Fatalf("WriteCSV() returned error: %v", err)
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatalf("ReadDir() returned error: %v", err)
		}
		if len(entries) != 1 {
			names := make([]string, len(entries))
			for i, e := range entries {
				names[i] = e.Name()
			}
			t.Errorf("expected only the dataset file, got %v", names)
		}
	})
}
