package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// SchemaValidator validates a parsed struct after JSON extraction.
// Returns nil if valid, or a descriptive error if invalid.
type SchemaValidator[T any] func(T) error

// ExtractJSON parses the substring of raw running from the first '{' to the
// last '}' inclusive. Prose containing stray braces before or after the
// object makes the parse fail; callers fall back in that case.
// If validator is non-nil, the extracted value is validated before return.
func ExtractJSON[T any](raw string, validator SchemaValidator[T]) (T, error) {
	var zero T

	start := strings.IndexByte(raw, '{')
	end := strings.LastIndexByte(raw, '}')
	if start == -1 || end == -1 || end < start {
		return zero, fmt.Errorf("%w: no JSON object found in response", ErrMalformedGeneration)
	}

	var result T
	if err := json.Unmarshal([]byte(raw[start:end+1]), &result); err != nil {
		return zero, fmt.Errorf("%w: %v", ErrMalformedGeneration, err)
	}

	if validator != nil {
		if err := validator(result); err != nil {
			return zero, fmt.Errorf("%w: validation failed: %v", ErrMalformedGeneration, err)
		}
	}

	return result, nil
}

// GenerateJSON runs one generation and extracts T from its text. Any error
// from either step comes back as a *GenerationFailure.
func GenerateJSON[T any](ctx context.Context, client LLMClient, req GenerateRequest, validator SchemaValidator[T]) (T, error) {
	var zero T

	resp, err := client.Generate(ctx, req)
	if err != nil {
		return zero, &GenerationFailure{Task: req.Task, Err: err}
	}

	result, err := ExtractJSON(resp.Text, validator)
	if err != nil {
		return zero, &GenerationFailure{Task: req.Task, Err: err}
	}
	return result, nil
}
