package dataset

import (
	"fmt"
	"strings"
)

// Failure records a file that could not be moved.
type Failure struct {
	Rel string
	Err error
}

// Report summarizes one Run.
type Report struct {
	Kind       Kind
	DryRun     bool
	Discovered int
	Classified int
	Moved      map[Split]int
	Other      int
	Unmatched  int
	Skipped    int
	Failures   []Failure
}

func newReport(plan *Plan) *Report {
	return &Report{
		Kind:       plan.Kind,
		Discovered: plan.Discovered,
		Classified: plan.Classified(),
		Moved:      make(map[Split]int, len(KnownSplits)),
		Other:      len(plan.Other),
		Unmatched:  len(plan.Unmatched),
	}
}

func (r *Report) fail(entry Entry, err error) {
	r.Failures = append(r.Failures, Failure{Rel: entry.Rel, Err: err})
}

// Failed returns the number of files that errored.
func (r *Report) Failed() int {
	return len(r.Failures)
}

// TotalMoved sums moved files across splits.
func (r *Report) TotalMoved() int {
	total := 0
	for _, n := range r.Moved {
		total += n
	}
	return total
}

// Agree reports whether every discovered file found a metadata row.
func (r *Report) Agree() bool {
	return r.Classified+r.Other == r.Discovered
}

// Err returns an error summarizing failed moves, or nil.
func (r *Report) Err() error {
	if len(r.Failures) == 0 {
		return nil
	}
	return fmt.Errorf("%d %s files failed to move (first: %s: %v)",
		len(r.Failures), r.Kind, r.Failures[0].Rel, r.Failures[0].Err)
}

// String renders a short human summary.
func (r *Report) String() string {
	var b strings.Builder
	moved := "moved"
	if r.DryRun {
		moved = "would move"
	}
	fmt.Fprintf(&b, "%s: discovered %d, classified %d (agree=%t)\n", r.Kind, r.Discovered, r.Classified, r.Agree())
	for _, split := range KnownSplits {
		fmt.Fprintf(&b, "  %-10s %s %d\n", split, moved, r.Moved[split])
	}
	fmt.Fprintf(&b, "  other %d, unmatched %d, skipped %d, failed %d\n", r.Other, r.Unmatched, r.Skipped, r.Failed())
	return b.String()
}
