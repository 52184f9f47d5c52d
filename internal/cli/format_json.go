package cli

import (
	"encoding/json"
	"fmt"
	"io"
)

// JSONFormatter implements the Formatter interface using JSON output.
// All keys use snake_case. Output is 2-space indented via json.MarshalIndent.
type JSONFormatter struct{}

// jsonDedupe is the JSON representation of a deduplication summary.
// Batch fields use omitempty and are absent for the in-memory strategy.
type jsonDedupe struct {
	Dataset     string `json:"dataset"`
	Strategy    string `json:"strategy"`
	RowsBefore  int    `json:"rows_before"`
	RowsKept    int    `json:"rows_kept"`
	RowsRemoved int    `json:"rows_removed"`
	BatchSize   int    `json:"batch_size,omitempty"`
	Batches     int    `json:"batches,omitempty"`
}

// jsonReplacement is the JSON representation of one applied substitution.
type jsonReplacement struct {
	Column string `json:"column"`
	From   string `json:"from"`
	To     string `json:"to"`
	Rows   int    `json:"rows"`
}

// jsonUnresolved is the JSON representation of one unresolved-mapping hit.
// Candidates is initialized to an empty slice to produce [] not null.
type jsonUnresolved struct {
	Column     string   `json:"column"`
	Value      string   `json:"value"`
	Candidates []string `json:"candidates"`
	Rows       int      `json:"rows"`
}

// jsonNormalize is the JSON representation of a normalization summary.
type jsonNormalize struct {
	Dataset        string            `json:"dataset"`
	CellsRewritten int               `json:"cells_rewritten"`
	Replacements   []jsonReplacement `json:"replacements"`
	Unresolved     []jsonUnresolved  `json:"unresolved"`
}

// jsonMessage is the JSON representation of a simple message.
type jsonMessage struct {
	Message string `json:"message"`
}

// FormatDedupe renders a deduplication summary as indented JSON.
func (f *JSONFormatter) FormatDedupe(w io.Writer, data DedupeData) error {
	out := jsonDedupe{
		Dataset:     data.Dataset,
		Strategy:    data.Strategy,
		RowsBefore:  data.Before,
		RowsKept:    data.Kept,
		RowsRemoved: data.Removed,
	}
	if data.Strategy == "batched" {
		out.BatchSize = data.BatchSize
		out.Batches = data.Batches
	}
	return writeJSON(w, out)
}

// FormatNormalize renders a normalization summary as indented JSON.
func (f *JSONFormatter) FormatNormalize(w io.Writer, data NormalizeData) error {
	out := jsonNormalize{
		Dataset:        data.Dataset,
		CellsRewritten: data.Applied,
		Replacements:   []jsonReplacement{},
		Unresolved:     []jsonUnresolved{},
	}
	for _, r := range data.Replacements {
		out.Replacements = append(out.Replacements, jsonReplacement{
			Column: r.Column, From: r.From, To: r.To, Rows: r.Count,
		})
	}
	for _, u := range data.Unresolved {
		candidates := u.Candidates
		if candidates == nil {
			candidates = []string{}
		}
		out.Unresolved = append(out.Unresolved, jsonUnresolved{
			Column: u.Column, Value: u.Value, Candidates: candidates, Rows: u.Count,
		})
	}
	return writeJSON(w, out)
}

// FormatStats renders grouped aggregates as an indented JSON array, one
// object per group keyed by the group column plus count/sum_*/avg_* entries.
func (f *JSONFormatter) FormatStats(w io.Writer, data StatsData) error {
	out := make([]map[string]interface{}, len(data.Groups))
	for i, g := range data.Groups {
		obj := map[string]interface{}{
			data.GroupColumn: g.Key,
			"count":          g.Count,
		}
		for j, col := range data.SumColumns {
			obj["sum_"+col] = g.Sums[j]
		}
		for j, col := range data.AvgColumns {
			obj["avg_"+col] = g.Avgs[j]
		}
		out[i] = obj
	}
	return writeJSON(w, out)
}

// FormatMessage renders a simple message as indented JSON.
func (f *JSONFormatter) FormatMessage(w io.Writer, msg string) error {
	return writeJSON(w, jsonMessage{Message: msg})
}

// writeJSON marshals v with 2-space indentation and writes it with a
// trailing newline.
func writeJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal error: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
