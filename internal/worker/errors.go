package worker

import (
	"errors"

	"risgen/internal/providers"
)

// ErrorCode is the user-facing failure category attached to a failed
// outcome. The run report groups failures by code.
type ErrorCode string

const (
	CodeOCRRequired     ErrorCode = "OCR_REQUIRED"
	CodeRateLimit       ErrorCode = "RATE_LIMIT"
	CodeTimeout         ErrorCode = "TIMEOUT"
	CodeAINull          ErrorCode = "AI_NULL"
	CodeAIEmptyResponse ErrorCode = "AI_EMPTY_RESPONSE"
	CodeWriteFailed     ErrorCode = "WRITE_FAILED"
)

// apiErrorCode builds the catch-all code for unclassified inference
// failures, carrying the detail for the report.
func apiErrorCode(detail string) ErrorCode {
	return ErrorCode("API_ERROR: " + detail)
}

// errNullRecord marks an inference round that produced a well-formed but
// null answer. Retryable; surfaces as AI_NULL once retries are exhausted.
var errNullRecord = errors.New("inference returned null record")

// classifyFailure maps a final (post-retry) inference error to its outcome
// code. Classification happens on the typed error from the provider
// boundary, never on message text.
func classifyFailure(err error) ErrorCode {
	if errors.Is(err, errNullRecord) {
		return CodeAINull
	}
	if perr, ok := providers.AsError(err); ok {
		switch perr.Kind {
		case providers.KindRateLimited:
			return CodeRateLimit
		case providers.KindServerUnavailable, providers.KindDeadlineExceeded:
			return CodeTimeout
		case providers.KindEmptyResponse:
			return CodeAIEmptyResponse
		case providers.KindMalformedResponse:
			return CodeAINull
		}
	}
	return apiErrorCode(err.Error())
}
