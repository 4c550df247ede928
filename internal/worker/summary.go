package worker

import "sync"

// FailedFile records one failed item for the run report.
type FailedFile struct {
	File string    `json:"file"`
	Code ErrorCode `json:"code"`
}

// Summary is the aggregate result of one run. Counts always close:
// processed == success + filename_only + skipped + failed.
type Summary struct {
	Total               int          `json:"total"`
	Processed           int          `json:"processed"`
	Success             int          `json:"success"`
	FilenameOnlySuccess int          `json:"filename_only_success"`
	Skipped             int          `json:"skipped"`
	Failed              int          `json:"failed"`
	FailedFiles         []FailedFile `json:"failed_files"`
	Cancelled           bool         `json:"cancelled"`
}

// Aggregator merges per-item outcomes into a summary. Safe for concurrent
// use; every mutation happens under the mutex. FailedFiles keeps merge
// order, which is completion order, not submission order.
type Aggregator struct {
	mu      sync.Mutex
	summary Summary
}

// NewAggregator creates an aggregator for a run over total items.
func NewAggregator(total int) *Aggregator {
	return &Aggregator{summary: Summary{Total: total}}
}

// Merge folds one outcome into the summary.
func (a *Aggregator) Merge(o Outcome) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.summary.Processed++
	switch o.Kind {
	case OutcomeSuccess:
		a.summary.Success++
	case OutcomeFilenameOnly:
		a.summary.FilenameOnlySuccess++
	case OutcomeSkipped:
		a.summary.Skipped++
	case OutcomeFailed:
		a.summary.Failed++
		a.summary.FailedFiles = append(a.summary.FailedFiles, FailedFile{File: o.File, Code: o.Code})
	}
}

// Snapshot returns a copy of the current summary with the cancelled flag
// applied. The FailedFiles slice is copied so callers cannot race the
// aggregator.
func (a *Aggregator) Snapshot(cancelled bool) Summary {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := a.summary
	s.Cancelled = cancelled
	s.FailedFiles = make([]FailedFile, len(a.summary.FailedFiles))
	copy(s.FailedFiles, a.summary.FailedFiles)
	return s
}
