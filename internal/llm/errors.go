package llm

import (
	"errors"
	"fmt"
)

var (
	// ErrUnavailable indicates the model endpoint is unreachable.
	ErrUnavailable = errors.New("llm endpoint unavailable")

	// ErrTimeout indicates the LLM request exceeded the configured timeout.
	ErrTimeout = errors.New("llm request timed out")

	// ErrUpstream indicates the endpoint answered with an error status or
	// a response without any completion.
	ErrUpstream = errors.New("llm endpoint returned an error")

	// ErrMalformedGeneration indicates the model text did not contain a
	// parseable JSON object of the expected shape.
	ErrMalformedGeneration = errors.New("malformed llm generation")
)

// GenerationFailure wraps every error from a generate-then-extract round
// trip. Callers treat it as one condition regardless of the cause.
type GenerationFailure struct {
	Task TaskType
	Err  error
}

func (e *GenerationFailure) Error() string {
	return fmt.Sprintf("generation failed (task=%s): %v", e.Task, e.Err)
}

func (e *GenerationFailure) Unwrap() error { return e.Err }

// IsGenerationFailure reports whether err is or wraps a GenerationFailure.
func IsGenerationFailure(err error) bool {
	var gf *GenerationFailure
	return errors.As(err, &gf)
}
