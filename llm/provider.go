// Package llm abstracts the external text-generation API behind a single
// capability so the orchestration layer never depends on a specific vendor.
package llm

import (
	"context"
	"errors"
	"fmt"
)

// Params are the per-request generation knobs.
type Params struct {
	Temperature float32
	MaxTokens   int
}

// Provider is the one operation the rest of the service needs from an
// external generation API. Adapters return a *TransientError for failures
// worth retrying (timeouts, rate limits, 5xx); anything else is permanent.
type Provider interface {
	Name() string
	Generate(ctx context.Context, prompt string, params Params) (string, error)
}

// TransientError marks an external-API failure expected to succeed on retry.
type TransientError struct {
	Reason string
	Err    error
}

func (e *TransientError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transient generation error (%s): %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("transient generation error (%s)", e.Reason)
}

func (e *TransientError) Unwrap() error { return e.Err }

// Transient wraps err as retryable.
func Transient(reason string, err error) error {
	return &TransientError{Reason: reason, Err: err}
}

// IsTransient reports whether err is retryable.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}
