package model

import "time"

// Diff is the before/after text pair for a content change. Before is the
// empty string for a newly created file.
type Diff struct {
	Before string
	After  string
}

// Outcome captures the result of reconciling a single item. Exactly one of
// Skipped, Failed, or "completed" (neither set) holds for a record; Changed
// is only meaningful for completed records.
type Outcome struct {
	Dest       string
	State      string
	Changed    bool
	Skipped    bool
	SkipReason string
	Failed     bool
	Err        error
	Message    string
	Diff       *Diff
	BackupPath string
	Notify     []string
	Duration   time.Duration
}

// Completed reports whether the item ran to completion, successfully or not
// changed, as opposed to being skipped or failing.
func (o *Outcome) Completed() bool {
	return !o.Skipped && !o.Failed
}

// RunResult is the ordered sequence of per-item outcomes for one invocation
// plus aggregate counts. Records appear in input order, always.
type RunResult struct {
	Records   []Outcome
	Changed   int
	Unchanged int
	Skipped   int
	Failed    int
}

// Append records an outcome and updates the aggregate counts.
func (r *RunResult) Append(o Outcome) {
	r.Records = append(r.Records, o)
	switch {
	case o.Skipped:
		r.Skipped++
	case o.Failed:
		r.Failed++
	case o.Changed:
		r.Changed++
	default:
		r.Unchanged++
	}
}

// HasChanges reports whether any item changed the filesystem. Failures do
// not count as changes.
func (r *RunResult) HasChanges() bool {
	return r.Changed > 0
}

// HasFailures reports whether any item failed.
func (r *RunResult) HasFailures() bool {
	return r.Failed > 0
}
