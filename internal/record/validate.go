package record

import (
	"fmt"
	"sort"
	"strings"
)

// PreconditionError reports sequence ids that appear on more than one row.
// Deduplication is undefined over such input, so callers must check for it
// and fail before any cleaning pass runs.
type PreconditionError struct {
	// Duplicates maps each offending sequence id to the 1-based dataset row
	// positions (header excluded) where it appears.
	Duplicates map[int64][]int
}

// Error lists every duplicated sequence id with its row positions,
// in ascending sequence id order.
func (e *PreconditionError) Error() string {
	seqs := make([]int64, 0, len(e.Duplicates))
	for seq := range e.Duplicates {
		seqs = append(seqs, seq)
	}
	sort.Slice(seqs, func(i, j int) bool { return seqs[i] < seqs[j] })

	parts := make([]string, len(seqs))
	for i, seq := range seqs {
		positions := e.Duplicates[seq]
		posStrs := make([]string, len(positions))
		for j, p := range positions {
			posStrs[j] = fmt.Sprintf("%d", p)
		}
		parts[i] = fmt.Sprintf("%d (rows %s)", seq, strings.Join(posStrs, ", "))
	}
	return fmt.Sprintf("sequence ids are not unique: %s", strings.Join(parts, "; "))
}

// CheckSequenceIDs validates the deduplication precondition: no two rows may
// share a sequence id. Returns a *PreconditionError describing every violation,
// or nil when the table is well-formed.
func CheckSequenceIDs(t Table) error {
	positions := make(map[int64][]int)
	for i, r := range t.Rows {
		positions[r.Seq] = append(positions[r.Seq], i+1)
	}

	duplicates := make(map[int64][]int)
	for seq, pos := range positions {
		if len(pos) > 1 {
			duplicates[seq] = pos
		}
	}

	if len(duplicates) > 0 {
		return &PreconditionError{Duplicates: duplicates}
	}
	return nil
}
