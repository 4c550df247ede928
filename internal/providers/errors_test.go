package providers

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"rate limited", &Error{Kind: KindRateLimited}, true},
		{"server unavailable", &Error{Kind: KindServerUnavailable}, true},
		{"deadline exceeded", &Error{Kind: KindDeadlineExceeded}, true},
		{"empty response", &Error{Kind: KindEmptyResponse}, true},
		{"malformed response", &Error{Kind: KindMalformedResponse}, true},
		{"wrapped classified error", fmt.Errorf("infer: %w", &Error{Kind: KindRateLimited}), true},
		{"plain error", errors.New("bad request"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Retryable(tt.err); got != tt.want {
				t.Errorf("Retryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestClassifyTransportError(t *testing.T) {
	err := classifyTransportError(context.DeadlineExceeded)
	perr, ok := AsError(err)
	if !ok || perr.Kind != KindDeadlineExceeded {
		t.Fatalf("expected deadline_exceeded, got %v", err)
	}

	plain := errors.New("connection refused")
	if got := classifyTransportError(plain); got != plain {
		t.Errorf("non-timeout transport error should pass through, got %v", got)
	}
}

func TestParseRetryAfter(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"", 0},
		{"5", 5 * time.Second},
		{"0", 0},
		{"-3", 0},
		{"soon", 0},
	}
	for _, tt := range tests {
		if got := parseRetryAfter(tt.in); got != tt.want {
			t.Errorf("parseRetryAfter(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
