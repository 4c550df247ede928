// Package worker drives the batch extraction pipeline: a bounded pool of
// workers runs each document through skip-check, extraction, inference with
// retry, validation, encoding, and persistence, aggregating outcomes into a
// run summary under pause/cancel control.
package worker

// WorkItem is one document to process. Immutable once created; consumed
// exactly once by the pool.
type WorkItem struct {
	Path  string
	Index int // position in the enumeration order, zero-based
}

// OutcomeKind tags the terminal state of one work item.
type OutcomeKind string

const (
	OutcomeSuccess      OutcomeKind = "success"
	OutcomeFilenameOnly OutcomeKind = "filename_only"
	OutcomeSkipped      OutcomeKind = "skipped"
	OutcomeFailed       OutcomeKind = "failed"
)

// Outcome is the result of processing one work item. Produced once per item,
// merged into the summary exactly once.
type Outcome struct {
	File   string
	Kind   OutcomeKind
	Code   ErrorCode // set when Kind == OutcomeFailed
	Reason string    // detail for logs; never used for classification
}

// ProgressFunc receives progress notifications: the 1-based index of the
// item, the total item count, and a display label. With concurrency above
// one, indices arrive out of order.
type ProgressFunc func(current, total int, label string)
