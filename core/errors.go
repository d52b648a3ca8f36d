package core

import (
	"errors"
	"fmt"
)

// Sentinel errors forming the session error taxonomy. Callers distinguish
// fatal failures (generation) from expected refusals (budget) and degraded
// states (evidence) with errors.Is.
var (
	// ErrInvalidAddressing reports a message constructed with an empty
	// recipient set. This cannot occur through the provided constructors and
	// indicates a programming error, not a recoverable runtime condition.
	ErrInvalidAddressing = errors.New("message has no recipients")

	// ErrEvidenceBudgetExhausted is the refusal returned when an agent
	// requests evidence after its per-session cap is spent. It is an expected
	// terminal state, not a failure.
	ErrEvidenceBudgetExhausted = errors.New("evidence request budget exhausted")

	// ErrEvidenceUnavailable reports that the evidence provider failed or
	// returned nothing. The requesting agent proceeds with whatever evidence
	// it already holds; the session does not abort.
	ErrEvidenceUnavailable = errors.New("evidence unavailable")
)

// GenerationError wraps a content generator failure. Generation failures are
// fatal to the current turn or aggregation stage and terminate the session;
// no retry policy is defined.
type GenerationError struct {
	Stage string // "speak", "evaluate", "advise", "research-query", ...
	Err   error
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed during %s: %v", e.Stage, e.Err)
}

// Unwrap exposes the underlying provider error.
func (e *GenerationError) Unwrap() error { return e.Err }

// NewGenerationError wraps err with the stage it occurred in.
func NewGenerationError(stage string, err error) *GenerationError {
	return &GenerationError{Stage: stage, Err: err}
}

// IsGenerationError reports whether err is (or wraps) a GenerationError.
func IsGenerationError(err error) bool {
	var ge *GenerationError
	return errors.As(err, &ge)
}
