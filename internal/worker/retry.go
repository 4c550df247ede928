package worker

import (
	"context"
	"errors"
	"math/rand"
	"time"

	retry "github.com/avast/retry-go/v4"

	"risgen/internal/providers"
	"risgen/internal/ris"
)

// maxAttempts is the total number of inference attempts per item (one
// initial call plus two retries). No layer above issues further retries.
const maxAttempts = 3

// BackoffFunc computes the delay before retry n (zero-indexed attempt).
type BackoffFunc func(attempt uint) time.Duration

// defaultBackoff is exponential backoff with jitter: 2^attempt seconds plus
// a uniform 0 to 1.5s.
func defaultBackoff(attempt uint) time.Duration {
	base := time.Duration(1<<attempt) * time.Second
	jitter := time.Duration(rand.Float64() * 1.5 * float64(time.Second))
	return base + jitter
}

// retryableInferError treats transient provider failures and null answers
// the same way: both consume a retry.
func retryableInferError(err error) bool {
	return errors.Is(err, errNullRecord) || providers.Retryable(err)
}

// infer runs the inference call under the retry policy. The error returned
// after exhausted or non-retryable failures is the final classified error;
// the record is always non-nil on success.
func (p *Processor) infer(ctx context.Context, req *providers.InferRequest) (*ris.Record, error) {
	var rec *ris.Record

	err := retry.Do(
		func() error {
			r, err := p.client.Infer(ctx, req)
			if err != nil {
				return err
			}
			if r == nil {
				return errNullRecord
			}
			rec = r
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(maxAttempts),
		retry.RetryIf(retryableInferError),
		retry.DelayType(func(n uint, _ error, _ *retry.Config) time.Duration {
			return p.backoff(n)
		}),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			p.logger.Debug("inference failed, retrying",
				"file", req.Filename,
				"attempt", n+1,
				"max_attempts", maxAttempts,
				"error", err,
			)
		}),
	)
	if err != nil {
		return nil, err
	}
	return rec, nil
}
