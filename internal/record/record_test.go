package record

import (
	"strings"
	"testing"
)

func TestNewTable(t *testing.T) {
	t.Run("it resolves sequence and key column indexes", func(t *testing.T) {
		table, err := NewTable([]string{"name", "seq_id", "place_id"}, "seq_id", "place_id")
		if err != nil {
			t.Fatalf("NewTable() returned error: %v", err)
		}
		if table.SeqCol != 1 {
			t.Errorf("SeqCol = %d, want 1", table.SeqCol)
		}
		if table.KeyCol != 2 {
			t.Errorf("KeyCol = %d, want 2", table.KeyCol)
		}
	})

	t.Run("it errors on an unknown key column listing the header", func(t *testing.T) {
		_, err := NewTable([]string{"seq_id", "name"}, "seq_id", "place_id")
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if !strings.Contains(err.Error(), "have: seq_id, name") {
			t.Errorf("error = %q, want available columns listed", err.Error())
		}
	})
}

func TestHasColumn(t *testing.T) {
	t.Run("it reports header membership", func(t *testing.T) {
		table, err := NewTable([]string{"seq_id", "place_id", "name"}, "seq_id", "place_id")
		if err != nil {
			t.Fatalf("NewTable() returned error: %v", err)
		}
		if !table.HasColumn("name") {
			t.Error("HasColumn(\"name\") = false, want true")
		}
		if table.HasColumn("missing") {
			t.Error("HasColumn(\"missing\") = true, want false")
		}
	})
}

func TestClone(t *testing.T) {
	t.Run("it deep-copies rows and cells", func(t *testing.T) {
		table, err := NewTable([]string{"seq_id", "place_id"}, "seq_id", "place_id")
		if err != nil {
			t.Fatalf("NewTable() returned error: %v", err)
		}
		table.Rows = append(table.Rows, Row{Seq: 1, Key: "p1", Values: []string{"1", "p1"}})

		clone := table.Clone()
		clone.Rows[0].Values[1] = "changed"
		clone.Rows[0].Key = "changed"

		if table.Rows[0].Values[1] != "p1" {
			t.Errorf("original cell mutated: %q", table.Rows[0].Values[1])
		}
		if table.Rows[0].Key != "p1" {
			t.Errorf("original key mutated: %q", table.Rows[0].Key)
		}
	})
}
