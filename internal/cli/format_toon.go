package cli

import (
	"fmt"
	"io"

	toon "github.com/toon-format/toon-go"
)

// ToonFormatter implements the Formatter interface using TOON format.
// TOON (Token-Oriented Object Notation) is optimized for AI agent
// consumption, providing 30-60% token savings over JSON.
type ToonFormatter struct{}

// FormatDedupe renders a deduplication summary as a single TOON object.
// The batch fields are present only for the batched strategy.
func (f *ToonFormatter) FormatDedupe(w io.Writer, data DedupeData) error {
	fields := []toon.Field{
		{Key: "dataset", Value: data.Dataset},
		{Key: "strategy", Value: data.Strategy},
		{Key: "rows_before", Value: data.Before},
		{Key: "rows_kept", Value: data.Kept},
		{Key: "rows_removed", Value: data.Removed},
	}
	if data.Strategy == "batched" {
		fields = append(fields,
			toon.Field{Key: "batch_size", Value: data.BatchSize},
			toon.Field{Key: "batches", Value: data.Batches},
		)
	}

	doc := toon.NewObject(
		toon.Field{Key: "dedupe", Value: toon.NewObject(fields...)},
	)
	result, err := toon.MarshalString(doc)
	if err != nil {
		return fmt.Errorf("toon marshal error: %w", err)
	}
	fmt.Fprintln(w, result)
	return nil
}

// FormatNormalize renders a normalization summary: a replacements table and
// an unresolved table, both present even when empty.
func (f *ToonFormatter) FormatNormalize(w io.Writer, data NormalizeData) error {
	replacements := make([]toon.Object, len(data.Replacements))
	for i, r := range data.Replacements {
		replacements[i] = toon.NewObject(
			toon.Field{Key: "column", Value: r.Column},
			toon.Field{Key: "from", Value: r.From},
			toon.Field{Key: "to", Value: r.To},
			toon.Field{Key: "rows", Value: r.Count},
		)
	}

	unresolved := make([]toon.Object, len(data.Unresolved))
	for i, u := range data.Unresolved {
		unresolved[i] = toon.NewObject(
			toon.Field{Key: "column", Value: u.Column},
			toon.Field{Key: "value", Value: u.Value},
			toon.Field{Key: "rows", Value: u.Count},
		)
	}

	doc := toon.NewObject(
		toon.Field{Key: "dataset", Value: data.Dataset},
		toon.Field{Key: "cells_rewritten", Value: data.Applied},
		toon.Field{Key: "replacements", Value: replacements},
		toon.Field{Key: "unresolved", Value: unresolved},
	)
	result, err := toon.MarshalString(doc)
	if err != nil {
		return fmt.Errorf("toon marshal error: %w", err)
	}
	fmt.Fprintln(w, result)
	return nil
}

// FormatStats renders grouped aggregates in TOON tabular format, one row per
// group with count plus the requested sums and averages.
func (f *ToonFormatter) FormatStats(w io.Writer, data StatsData) error {
	groups := make([]toon.Object, len(data.Groups))
	for i, g := range data.Groups {
		fields := []toon.Field{
			{Key: data.GroupColumn, Value: g.Key},
			{Key: "count", Value: g.Count},
		}
		for j, col := range data.SumColumns {
			fields = append(fields, toon.Field{Key: "sum_" + col, Value: g.Sums[j]})
		}
		for j, col := range data.AvgColumns {
			fields = append(fields, toon.Field{Key: "avg_" + col, Value: g.Avgs[j]})
		}
		groups[i] = toon.NewObject(fields...)
	}

	doc := toon.NewObject(
		toon.Field{Key: "groups", Value: groups},
	)
	result, err := toon.MarshalString(doc)
	if err != nil {
		return fmt.Errorf("toon marshal error: %w", err)
	}
	fmt.Fprintln(w, result)
	return nil
}

// FormatMessage renders a simple message as plain text.
func (f *ToonFormatter) FormatMessage(w io.Writer, msg string) error {
	fmt.Fprintln(w, msg)
	return nil
}
