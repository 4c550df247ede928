// Package providers contains the inference clients that turn document text
// into structured bibliographic records. Failures are classified here, once,
// into typed errors; the worker pipeline never inspects provider internals.
package providers

import (
	"context"

	"risgen/internal/ris"
)

// InferRequest is one extraction request.
type InferRequest struct {
	// Text is the extracted document text. May be empty in filename-only
	// mode.
	Text string

	// Filename is the document's base name, always provided as context.
	Filename string

	// FilenameOnly instructs the model to rely on the filename alone.
	// Set when text extraction produced nothing.
	FilenameOnly bool

	// RequestID for tracing. Generated if empty.
	RequestID string
}

// Client is an inference provider. Infer returns (nil, nil) when the model
// answered with a well-formed but null record; the caller decides how to
// handle that.
type Client interface {
	Infer(ctx context.Context, req *InferRequest) (*ris.Record, error)
	Name() string
}
