package cli

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestJSONFormatDedupe(t *testing.T) {
	t.Run("it omits batch fields for the in-memory strategy", func(t *testing.T) {
		var buf bytes.Buffer
		f := &JSONFormatter{}
		err := f.FormatDedupe(&buf, DedupeData{
			Dataset: "places.csv", Strategy: "in-memory", Before: 4, Kept: 2, Removed: 2,
		})
		if err != nil {
			t.Fatalf("FormatDedupe() returned error: %v", err)
		}

		var got map[string]interface{}
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if got["rows_removed"].(float64) != 2 {
			t.Errorf("rows_removed = %v, want 2", got["rows_removed"])
		}
		if _, present := got["batch_size"]; present {
			t.Error("batch_size present for in-memory strategy")
		}
	})

	t.Run("it includes batch fields for the batched strategy", func(t *testing.T) {
		var buf bytes.Buffer
		f := &JSONFormatter{}
		err := f.FormatDedupe(&buf, DedupeData{
			Dataset: "places.csv", Strategy: "batched", BatchSize: 500, Batches: 2,
			Before: 4, Kept: 2, Removed: 2,
		})
		if err != nil {
			t.Fatalf("FormatDedupe() returned error: %v", err)
		}

		var got map[string]interface{}
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if got["batch_size"].(float64) != 500 || got["batches"].(float64) != 2 {
			t.Errorf("batch fields = %v / %v", got["batch_size"], got["batches"])
		}
	})
}

func TestJSONFormatNormalize(t *testing.T) {
	t.Run("it renders empty slices as arrays, not null", func(t *testing.T) {
		var buf bytes.Buffer
		f := &JSONFormatter{}
		if err := f.FormatNormalize(&buf, NormalizeData{Dataset: "places.csv"}); err != nil {
			t.Fatalf("FormatNormalize() returned error: %v", err)
		}

		var got struct {
			Replacements []json.RawMessage `json:"replacements"`
			Unresolved   []json.RawMessage `json:"unresolved"`
		}
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if got.Replacements == nil || got.Unresolved == nil {
			t.Errorf("output = %s, want empty arrays", buf.String())
		}
	})

	t.Run("it carries candidates through unresolved entries", func(t *testing.T) {
		var buf bytes.Buffer
		f := &JSONFormatter{}
		err := f.FormatNormalize(&buf, NormalizeData{
			Dataset: "places.csv",
			Applied: 1,
			Replacements: []ReplacementData{
				{Column: "place_type", From: "Boroughs", To: "Borough", Count: 1},
			},
			Unresolved: []UnresolvedData{
				{Column: "place_type", Value: "Neighbourhood", Count: 2},
			},
		})
		if err != nil {
			t.Fatalf("FormatNormalize() returned error: %v", err)
		}

		var got struct {
			CellsRewritten int `json:"cells_rewritten"`
			Unresolved     []struct {
				Candidates []string `json:"candidates"`
				Rows       int      `json:"rows"`
			} `json:"unresolved"`
		}
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if got.CellsRewritten != 1 {
			t.Errorf("cells_rewritten = %d, want 1", got.CellsRewritten)
		}
		if len(got.Unresolved) != 1 || got.Unresolved[0].Rows != 2 {
			t.Errorf("unresolved = %+v", got.Unresolved)
		}
		if got.Unresolved[0].Candidates == nil {
			t.Error("candidates = null, want []")
		}
	})
}

func TestJSONFormatStats(t *testing.T) {
	t.Run("it keys each group by the group column", func(t *testing.T) {
		var buf bytes.Buffer
		f := &JSONFormatter{}
		err := f.FormatStats(&buf, StatsData{
			GroupColumn: "borough",
			SumColumns:  []string{"visits"},
			Groups: []StatGroup{
				{Key: "Bronx", Count: 2, Sums: []float64{30}, Avgs: []float64{}},
			},
		})
		if err != nil {
			t.Fatalf("FormatStats() returned error: %v", err)
		}

		var got []map[string]interface{}
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if len(got) != 1 || got[0]["borough"] != "Bronx" || got[0]["sum_visits"].(float64) != 30 {
			t.Errorf("output = %s", buf.String())
		}
	})
}

func TestJSONFormatMessage(t *testing.T) {
	t.Run("it wraps the message in an object", func(t *testing.T) {
		var buf bytes.Buffer
		f := &JSONFormatter{}
		if err := f.FormatMessage(&buf, "Rebuilt cache: 3 rows"); err != nil {
			t.Fatalf("FormatMessage() returned error: %v", err)
		}

		var got map[string]string
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if got["message"] != "Rebuilt cache: 3 rows" {
			t.Errorf("message = %q", got["message"])
		}
	})
}
