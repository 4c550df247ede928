package worker

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"risgen/internal/providers"
	"risgen/internal/ris"
)

func makeItems(t *testing.T, n int) []WorkItem {
	t.Helper()
	dir := t.TempDir()
	items := make([]WorkItem, n)
	for i := range items {
		path := filepath.Join(dir, "doc-"+string(rune('a'+i%26))+itoa(i)+".pdf")
		if err := os.WriteFile(path, []byte("%PDF-1.4"), 0o644); err != nil {
			t.Fatalf("writing fixture: %v", err)
		}
		items[i] = WorkItem{Path: path, Index: i}
	}
	return items
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	var b []byte
	for i > 0 {
		b = append([]byte{byte('0' + i%10)}, b...)
		i /= 10
	}
	return string(b)
}

func newTestPool(t *testing.T, client providers.Client, concurrency int, progress ProgressFunc) *Pool {
	t.Helper()
	proc, err := NewProcessor(ProcessorConfig{
		Extractor: &fakeExtractor{},
		Client:    client,
		Backoff:   func(uint) time.Duration { return 0 },
	})
	if err != nil {
		t.Fatalf("NewProcessor() error = %v", err)
	}
	pool, err := NewPool(PoolConfig{
		Processor:    proc,
		Concurrency:  concurrency,
		Progress:     progress,
		PollInterval: 5 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("NewPool() error = %v", err)
	}
	return pool
}

func titleOnlyClient(delay time.Duration) *fakeClient {
	return &fakeClient{respond: func(int, *providers.InferRequest) (*ris.Record, error) {
		if delay > 0 {
			time.Sleep(delay)
		}
		return &ris.Record{Title: ris.FieldValue{Value: "T"}}, nil
	}}
}

func TestPool_ConcurrencyBound(t *testing.T) {
	client := titleOnlyClient(20 * time.Millisecond)
	pool := newTestPool(t, client, 3, nil)

	summary := pool.Run(context.Background(), makeItems(t, 12))

	if summary.Processed != 12 {
		t.Fatalf("processed = %d, want 12", summary.Processed)
	}
	if max := client.maxInFlight.Load(); max > 3 {
		t.Errorf("max in-flight inference calls = %d, exceeds limit 3", max)
	}
}

func TestPool_ConcurrencyClamped(t *testing.T) {
	pool := newTestPool(t, titleOnlyClient(0), 99, nil)
	if pool.concurrency != MaxConcurrency {
		t.Errorf("concurrency = %d, want clamped to %d", pool.concurrency, MaxConcurrency)
	}

	pool, err := NewPool(PoolConfig{Processor: pool.processor, Concurrency: 0})
	if err != nil {
		t.Fatalf("NewPool() error = %v", err)
	}
	if pool.concurrency != 1 {
		t.Errorf("concurrency = %d, want floor of 1", pool.concurrency)
	}
}

func TestPool_AggregationClosure(t *testing.T) {
	// Mix of outcomes: every item with an even index fails fatally.
	var n atomic.Int32
	client := &fakeClient{respond: func(_ int, req *providers.InferRequest) (*ris.Record, error) {
		if n.Add(1)%2 == 0 {
			return nil, &providers.Error{Kind: providers.KindEmptyResponse}
		}
		return &ris.Record{Title: ris.FieldValue{Value: "T"}}, nil
	}}
	pool := newTestPool(t, client, 4, nil)

	summary := pool.Run(context.Background(), makeItems(t, 10))

	got := summary.Success + summary.FilenameOnlySuccess + summary.Skipped + summary.Failed
	if got != summary.Processed {
		t.Errorf("counts do not close: %d != processed %d", got, summary.Processed)
	}
	if summary.Processed != 10 {
		t.Errorf("processed = %d, want 10", summary.Processed)
	}
	if summary.Failed != len(summary.FailedFiles) {
		t.Errorf("failed = %d but %d failed files recorded", summary.Failed, len(summary.FailedFiles))
	}
	if summary.Cancelled {
		t.Error("run should not be marked cancelled")
	}
}

func TestPool_CooperativeCancel(t *testing.T) {
	started := make(chan struct{}, 32)
	release := make(chan struct{})
	client := &fakeClient{respond: func(int, *providers.InferRequest) (*ris.Record, error) {
		started <- struct{}{}
		<-release
		return &ris.Record{Title: ris.FieldValue{Value: "T"}}, nil
	}}
	pool := newTestPool(t, client, 2, nil)
	items := makeItems(t, 8)

	var summary Summary
	done := make(chan struct{})
	go func() {
		summary = pool.Run(context.Background(), items)
		close(done)
	}()

	// Wait for the first two items to be in flight, then cancel.
	<-started
	<-started
	pool.Control().RequestCancel()
	close(release)

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("run did not drain after cancel")
	}

	if !summary.Cancelled {
		t.Error("summary should be marked cancelled")
	}
	// In-flight items finish naturally; nothing new starts after cancel.
	if client.callCount() > 3 {
		t.Errorf("inference calls after cancel = %d, want at most 3", client.callCount())
	}
	if summary.Processed < 2 {
		t.Errorf("in-flight items should complete, processed = %d", summary.Processed)
	}
}

func TestPool_HardCancelShortensDrain(t *testing.T) {
	release := make(chan struct{})
	client := &fakeClient{respond: func(int, *providers.InferRequest) (*ris.Record, error) {
		<-release
		return &ris.Record{Title: ris.FieldValue{Value: "T"}}, nil
	}}
	pool := newTestPool(t, client, 1, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan Summary, 1)
	go func() {
		done <- pool.Run(ctx, makeItems(t, 3))
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()

	var summary Summary
	select {
	case summary = <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("hard cancel did not shorten the drain wait")
	}
	if !summary.Cancelled {
		t.Error("summary should be marked cancelled")
	}
	close(release)
}

func TestPool_PauseStopsSubmission(t *testing.T) {
	client := titleOnlyClient(0)
	pool := newTestPool(t, client, 2, nil)
	pool.Control().RequestPause()

	done := make(chan Summary, 1)
	go func() {
		done <- pool.Run(context.Background(), makeItems(t, 4))
	}()

	time.Sleep(50 * time.Millisecond)
	if client.callCount() != 0 {
		t.Fatalf("paused pool should not start items, got %d calls", client.callCount())
	}

	pool.Control().RequestResume()
	select {
	case summary := <-done:
		if summary.Processed != 4 {
			t.Errorf("processed = %d, want 4 after resume", summary.Processed)
		}
		if summary.Cancelled {
			t.Error("resumed run should not be cancelled")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("run did not complete after resume")
	}
}

func TestPool_CancelWhilePaused(t *testing.T) {
	pool := newTestPool(t, titleOnlyClient(0), 1, nil)
	pool.Control().RequestPause()

	done := make(chan Summary, 1)
	go func() {
		done <- pool.Run(context.Background(), makeItems(t, 4))
	}()

	time.Sleep(20 * time.Millisecond)
	pool.Control().RequestCancel()

	select {
	case summary := <-done:
		if !summary.Cancelled {
			t.Error("summary should be marked cancelled")
		}
		if summary.Processed != 0 {
			t.Errorf("processed = %d, want 0 when cancelled before any submission", summary.Processed)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("cancel while paused did not stop the run")
	}
}

func TestPool_ProgressNotifications(t *testing.T) {
	var mu sync.Mutex
	var labels []string
	progress := func(current, total int, label string) {
		mu.Lock()
		defer mu.Unlock()
		if total != 3 {
			t.Errorf("total = %d, want 3", total)
		}
		labels = append(labels, label)
	}

	items := makeItems(t, 3)
	// Pre-create one output so it gets skipped.
	if err := os.WriteFile(OutputPath(items[1].Path), []byte("TY  - GEN\nER  - \n"), 0o644); err != nil {
		t.Fatalf("pre-creating output: %v", err)
	}

	client := titleOnlyClient(0)
	proc, err := NewProcessor(ProcessorConfig{
		Extractor:    &fakeExtractor{},
		Client:       client,
		SkipExisting: true,
		Backoff:      func(uint) time.Duration { return 0 },
	})
	if err != nil {
		t.Fatalf("NewProcessor() error = %v", err)
	}
	pool, err := NewPool(PoolConfig{Processor: proc, Concurrency: 1, Progress: progress})
	if err != nil {
		t.Fatalf("NewPool() error = %v", err)
	}

	summary := pool.Run(context.Background(), items)
	if summary.Skipped != 1 {
		t.Fatalf("skipped = %d, want 1", summary.Skipped)
	}

	mu.Lock()
	defer mu.Unlock()
	// One start notification per item plus one extra for the skip.
	if len(labels) != 4 {
		t.Fatalf("notifications = %d (%v), want 4", len(labels), labels)
	}
	var skips int
	for _, l := range labels {
		if len(l) > 9 && l[len(l)-9:] == "(Skipped)" {
			skips++
		}
	}
	if skips != 1 {
		t.Errorf("skip notifications = %d, want 1", skips)
	}
}
