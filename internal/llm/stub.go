package llm

import (
	"context"
	"fmt"
	"sync"
)

// StubClient answers from a fixed table of responses keyed by task. Tasks
// without an entry fail with ErrUnavailable, which exercises the
// deterministic fallbacks when no model endpoint is configured.
type StubClient struct {
	model    string
	observer Observer

	mu        sync.Mutex
	responses map[TaskType]string
	calls     []GenerateRequest
}

// NewStubClient creates a StubClient with no canned responses.
func NewStubClient(model string, observer Observer) *StubClient {
	if observer == nil {
		observer = NoopObserver{}
	}
	return &StubClient{
		model:     model,
		observer:  observer,
		responses: map[TaskType]string{},
	}
}

// SetResponse registers the text returned for task.
func (s *StubClient) SetResponse(task TaskType, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses[task] = text
}

// Calls returns a copy of every request received so far.
func (s *StubClient) Calls() []GenerateRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]GenerateRequest, len(s.calls))
	copy(out, s.calls)
	return out
}

func (s *StubClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	s.mu.Lock()
	s.calls = append(s.calls, req)
	text, ok := s.responses[req.Task]
	s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !ok {
		s.observer.OnCallComplete(LLMCallEvent{Task: req.Task, Model: s.model, Success: false, ErrorCode: errorCode(ErrUnavailable)})
		return nil, fmt.Errorf("%w: no stub response for task %s", ErrUnavailable, req.Task)
	}
	s.observer.OnCallComplete(LLMCallEvent{Task: req.Task, Model: s.model, Success: true})
	return &GenerateResponse{Text: text, Model: s.model}, nil
}

func (s *StubClient) Available(context.Context) bool { return true }
