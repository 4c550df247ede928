package worker

import "sync/atomic"

// Control carries the pause and cancel flags shared between the pool and an
// external control path (the UI, a signal handler). Both flags are written
// from outside the pool and read by the submission loop; atomics keep the
// exchange race-free.
//
// Pausing stops new submissions only. Cancelling stops new submissions and
// lets in-flight items finish naturally; it never interrupts an inference
// call or a file write already in progress.
type Control struct {
	paused    atomic.Bool
	cancelled atomic.Bool
}

// NewControl returns a control block in the running state.
func NewControl() *Control {
	return &Control{}
}

// RequestPause stops the pool from submitting new items.
func (c *Control) RequestPause() {
	c.paused.Store(true)
}

// RequestResume lets a paused pool continue submitting.
func (c *Control) RequestResume() {
	c.paused.Store(false)
}

// RequestCancel stops the pool from submitting new items permanently.
// Fire-and-forget; the effect is eventual.
func (c *Control) RequestCancel() {
	c.cancelled.Store(true)
}

// Paused reports whether submission is currently paused.
func (c *Control) Paused() bool {
	return c.paused.Load()
}

// CancelRequested reports whether cancellation has been requested.
func (c *Control) CancelRequested() bool {
	return c.cancelled.Load()
}
