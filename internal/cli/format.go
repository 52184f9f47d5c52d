package cli

import (
	"io"
	"os"
)

// Format represents the output format type.
type Format string

// Format constants for output selection.
const (
	FormatToon   Format = "toon"
	FormatPretty Format = "pretty"
	FormatJSON   Format = "json"
)

// FormatConfig holds output configuration passed to handlers.
type FormatConfig struct {
	Format  Format
	Quiet   bool
	Verbose bool
	Logger  *VerboseLogger
}

// Formatter returns the concrete formatter for the configured format.
func (fc FormatConfig) Formatter() Formatter {
	switch fc.Format {
	case FormatPretty:
		return &PrettyFormatter{}
	case FormatJSON:
		return &JSONFormatter{}
	default:
		return &ToonFormatter{}
	}
}

// DedupeData holds the outcome of a deduplication pass for display.
type DedupeData struct {
	Dataset   string
	Strategy  string // "in-memory" or "batched"
	BatchSize int    // 0 for in-memory
	Batches   int    // 0 for in-memory
	Before    int
	Kept      int
	Removed   int
}

// ReplacementData holds one applied normalization substitution for display.
type ReplacementData struct {
	Column string
	From   string
	To     string
	Count  int
}

// UnresolvedData holds one unresolved-mapping occurrence for display.
type UnresolvedData struct {
	Column     string
	Value      string
	Candidates []string
	Count      int
}

// NormalizeData holds the outcome of a normalization pass for display.
type NormalizeData struct {
	Dataset      string
	Applied      int
	Replacements []ReplacementData
	Unresolved   []UnresolvedData
}

// StatGroup holds the aggregates computed for one group value.
type StatGroup struct {
	Key   string
	Count int
	// Sums and Avgs are parallel to StatsData.SumColumns / AvgColumns.
	Sums []float64
	Avgs []float64
}

// StatsData holds grouped aggregate results for display.
type StatsData struct {
	GroupColumn string
	SumColumns  []string
	AvgColumns  []string
	Groups      []StatGroup
}

// Formatter defines the interface for rendering command output in the
// selected format. check prints its audit report directly and does not go
// through a Formatter.
type Formatter interface {
	// FormatDedupe renders a deduplication summary (for scrub dedupe, scrub clean).
	FormatDedupe(w io.Writer, data DedupeData) error
	// FormatNormalize renders a normalization summary (for scrub normalize, scrub clean).
	FormatNormalize(w io.Writer, data NormalizeData) error
	// FormatStats renders grouped aggregates (for scrub stats).
	FormatStats(w io.Writer, data StatsData) error
	// FormatMessage renders a simple message (for scrub init, scrub rebuild, and similar).
	FormatMessage(w io.Writer, msg string) error
}

// DetectTTY checks if the given writer is a terminal (TTY).
// Returns false if writer is not an *os.File, if Stat() fails,
// or if the file is not a character device.
func DetectTTY(w io.Writer) bool {
	if w == nil {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
