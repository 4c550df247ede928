package worker

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	// MaxConcurrency is the hard ceiling on simultaneously active items.
	// Deliberate backpressure against the inference provider's own limits.
	MaxConcurrency = 10

	defaultPollInterval = 100 * time.Millisecond
)

// PoolConfig configures a Pool.
type PoolConfig struct {
	Processor   *Processor
	Concurrency int // clamped to 1..MaxConcurrency
	Control     *Control
	Progress    ProgressFunc
	Logger      *slog.Logger

	// PollInterval is how often the pause/cancel flags are re-checked while
	// waiting. Defaults to 100ms.
	PollInterval time.Duration
}

// Pool submits work items to a bounded set of workers and collects their
// outcomes. The pool goroutine itself only submits and waits; all
// extraction and inference happens in the workers.
type Pool struct {
	processor   *Processor
	concurrency int
	control     *Control
	progress    ProgressFunc
	logger      *slog.Logger
	poll        time.Duration
}

// NewPool creates a pool.
func NewPool(cfg PoolConfig) (*Pool, error) {
	if cfg.Processor == nil {
		return nil, fmt.Errorf("processor is required")
	}
	concurrency := cfg.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	if concurrency > MaxConcurrency {
		concurrency = MaxConcurrency
	}
	control := cfg.Control
	if control == nil {
		control = NewControl()
	}
	progress := cfg.Progress
	if progress == nil {
		progress = func(int, int, string) {}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	poll := cfg.PollInterval
	if poll <= 0 {
		poll = defaultPollInterval
	}
	return &Pool{
		processor:   cfg.Processor,
		concurrency: concurrency,
		control:     control,
		progress:    progress,
		logger:      logger.With("component", "pool", "workers", concurrency),
		poll:        poll,
	}, nil
}

// Control returns the pool's control block for external pause/cancel.
func (p *Pool) Control() *Control {
	return p.control
}

// Run processes all items and returns the final summary. It blocks until
// every submitted item has finished, or until ctx is cancelled, which
// shortens the drain wait; items already in flight are never interrupted by
// a cooperative cancel.
func (p *Pool) Run(ctx context.Context, items []WorkItem) Summary {
	runID := uuid.New().String()
	log := p.logger.With("run_id", runID)
	log.Info("run started", "items", len(items))

	agg := NewAggregator(len(items))
	sem := make(chan struct{}, p.concurrency)
	var wg sync.WaitGroup

	total := len(items)
	for _, item := range items {
		if !p.waitWhilePaused(ctx) {
			break
		}
		if p.stopRequested(ctx) {
			break
		}

		base := filepath.Base(item.Path)
		p.progress(item.Index+1, total, base)

		if !p.acquire(ctx, sem) {
			break
		}

		wg.Add(1)
		go func(it WorkItem) {
			defer wg.Done()
			defer func() { <-sem }()

			out := p.processor.Process(ctx, it)
			agg.Merge(out)
			if out.Kind == OutcomeSkipped {
				p.progress(it.Index+1, total, filepath.Base(it.Path)+" (Skipped)")
			}
		}(item)
	}

	// Drain in-flight items. The wait stays responsive to a hard cancel:
	// ctx expiry returns immediately with whatever has been merged so far.
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		log.Warn("hard cancellation during drain", "error", ctx.Err())
	}

	cancelled := p.stopRequested(ctx)
	summary := agg.Snapshot(cancelled)
	log.Info("run finished",
		"processed", summary.Processed,
		"success", summary.Success,
		"filename_only", summary.FilenameOnlySuccess,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
		"cancelled", summary.Cancelled,
	)
	return summary
}

// stopRequested reports whether a cooperative or hard cancel has arrived.
func (p *Pool) stopRequested(ctx context.Context) bool {
	return p.control.CancelRequested() || ctx.Err() != nil
}

// waitWhilePaused blocks while the pause flag is set, polling so that
// cancellation stays responsive. Returns false when the run should stop.
func (p *Pool) waitWhilePaused(ctx context.Context) bool {
	for p.control.Paused() {
		if p.stopRequested(ctx) {
			return false
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(p.poll):
		}
	}
	return true
}

// acquire takes a worker slot, staying responsive to pause-independent
// cancellation while blocked on a full pool.
func (p *Pool) acquire(ctx context.Context, sem chan struct{}) bool {
	ticker := time.NewTicker(p.poll)
	defer ticker.Stop()
	for {
		if p.control.CancelRequested() {
			return false
		}
		select {
		case sem <- struct{}{}:
			// Re-check: a slot freed by a finishing item can win the race
			// against the cancel poll.
			if p.control.CancelRequested() {
				<-sem
				return false
			}
			return true
		case <-ctx.Done():
			return false
		case <-ticker.C:
		}
	}
}
