package intelligence

import (
	"context"

	"go.uber.org/zap"

	"github.com/alexanderramin/careerplan/internal/domain"
	"github.com/alexanderramin/careerplan/internal/llm"
)

// UpdateInterpreter turns a user's free-form thoughts about one milestone
// into a StructuredUpdate.
type UpdateInterpreter interface {
	// Interpret never fails on generation problems; it returns the fallback
	// update instead. It fails only when tf or current is unusable.
	Interpret(ctx context.Context, tf domain.Timeframe, current *domain.Milestone, thoughts, context string) (domain.StructuredUpdate, error)
}

type updateInterpreter struct {
	client llm.LLMClient
	log    *zap.Logger
}

// NewUpdateInterpreter creates an UpdateInterpreter backed by an LLM client.
func NewUpdateInterpreter(client llm.LLMClient, log *zap.Logger) UpdateInterpreter {
	if log == nil {
		log = zap.NewNop()
	}
	return &updateInterpreter{client: client, log: log.Named("interpreter")}
}

func (s *updateInterpreter) Interpret(ctx context.Context, tf domain.Timeframe, current *domain.Milestone, thoughts, userContext string) (domain.StructuredUpdate, error) {
	if !tf.Valid() || current == nil || current.Details == nil || current.Timeframe != tf {
		return domain.StructuredUpdate{}, &domain.InvalidTimeframeError{Value: string(tf)}
	}

	resp, err := llm.GenerateJSON(ctx, s.client, llm.GenerateRequest{
		Task:         llm.TaskInterpret,
		SystemPrompt: interpretSystemPrompt,
		UserPrompt:   buildInterpretPrompt(tf, current, thoughts, userContext),
	}, validateInterpretResponse)
	if err != nil {
		s.log.Warn("interpretation failed, using fallback",
			zap.String("timeframe", tf.String()), zap.Error(err))
		return FallbackUpdate(thoughts, userContext), nil
	}

	s.log.Info("interpreted user thoughts",
		zap.String("timeframe", tf.String()), zap.String("reasoning", resp.Reasoning))
	return mapUpdates(*resp.Updates, thoughts), nil
}

func mapUpdates(u updatesPayload, thoughts string) domain.StructuredUpdate {
	out := domain.StructuredUpdate{
		Objectives: u.Objectives,
		FocusAreas: u.FocusAreas,
	}
	if u.TimelineWeeks != nil && *u.TimelineWeeks > 0 {
		out.TimelineWeeks = u.TimelineWeeks
	}
	if u.Budget != nil && *u.Budget >= 0 {
		out.Budget = u.Budget
	}

	notes := thoughts
	if u.UserNotes != nil {
		notes = *u.UserNotes
	}
	out.UserNotes = &notes

	priority := string(domain.PriorityMedium)
	if u.PriorityLevel != nil && domain.ValidPriorities[*u.PriorityLevel] {
		priority = *u.PriorityLevel
	}
	out.PriorityLevel = &priority
	return out
}

// FallbackUpdate is the update used when interpretation cannot reach or
// parse the model: the raw thoughts and context become the milestone notes.
func FallbackUpdate(thoughts, userContext string) domain.StructuredUpdate {
	notes := "User feedback: " + thoughts + ". Context: " + userContext
	priority := string(domain.PriorityMedium)
	return domain.StructuredUpdate{
		UserNotes:     &notes,
		PriorityLevel: &priority,
	}
}
