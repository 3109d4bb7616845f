package llmtool

import (
	"errors"
	"fmt"
)

var (
	ErrValidation       = errors.New("llmtool: output failed validation")
	ErrExhaustedRetries = errors.New("llmtool: retries exhausted")
)

// ValidationError reports model output that is not JSON, does not match
// the record schema, or was rejected by a post-check.
type ValidationError struct {
	Task string
	Err  error
}

func (e *ValidationError) Error() string { return fmt.Sprintf("%s: invalid output: %v", e.Task, e.Err) }
func (e *ValidationError) Unwrap() []error {
	return []error{ErrValidation, e.Err}
}

// ExhaustedRetriesError is returned after the last allowed attempt fails.
type ExhaustedRetriesError struct {
	Task     string
	Attempts int
	Last     error
}

func (e *ExhaustedRetriesError) Error() string {
	return fmt.Sprintf("%s: giving up after %d attempts: %v", e.Task, e.Attempts, e.Last)
}

func (e *ExhaustedRetriesError) Unwrap() []error {
	return []error{ErrExhaustedRetries, e.Last}
}
