package intelligence

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/careerplan/internal/domain"
	"github.com/alexanderramin/careerplan/internal/llm"
)

func TestInterpret_Success(t *testing.T) {
	client := &mockLLMClient{response: `Sure! {"reasoning":"user has less time","updates":{"timeline_weeks":16,"focus_areas":["sql"],"priority_level":"high","user_notes":"only weekends"}}`}
	interp := NewUpdateInterpreter(client, nil)

	u, err := interp.Interpret(context.Background(), domain.TimeframeThreeMonths, testMilestone(domain.TimeframeThreeMonths), "I only have weekends", "new job")
	require.NoError(t, err)

	require.NotNil(t, u.TimelineWeeks)
	assert.Equal(t, 16, *u.TimelineWeeks)
	assert.Equal(t, []string{"sql"}, u.FocusAreas)
	assert.Equal(t, "high", *u.PriorityLevel)
	assert.Equal(t, "only weekends", *u.UserNotes)
	assert.Nil(t, u.Objectives)
	assert.Nil(t, u.Budget)

	require.Len(t, client.requests, 1)
	req := client.requests[0]
	assert.Equal(t, llm.TaskInterpret, req.Task)
	assert.Equal(t, interpretSystemPrompt, req.SystemPrompt)
	assert.Contains(t, req.UserPrompt, "Current 3_months")
	assert.Contains(t, req.UserPrompt, "obj A, obj B")
	assert.Contains(t, req.UserPrompt, "12 weeks")
	assert.Contains(t, req.UserPrompt, "prefers evenings")
	assert.Contains(t, req.UserPrompt, "I only have weekends")
	assert.Contains(t, req.UserPrompt, "new job")
}

func TestInterpret_DefaultsNotesAndPriority(t *testing.T) {
	client := &mockLLMClient{response: `{"reasoning":"r","updates":{"objectives":["ship it"]}}`}
	u, err := NewUpdateInterpreter(client, nil).Interpret(context.Background(), domain.TimeframeOneMonth, testMilestone(domain.TimeframeOneMonth), "go faster", "")
	require.NoError(t, err)

	assert.Equal(t, []string{"ship it"}, u.Objectives)
	assert.Equal(t, "go faster", *u.UserNotes)
	assert.Equal(t, "medium", *u.PriorityLevel)
}

func TestInterpret_InvalidPriorityBecomesMedium(t *testing.T) {
	client := &mockLLMClient{response: `{"updates":{"priority_level":"high/medium/low"}}`}
	u, err := NewUpdateInterpreter(client, nil).Interpret(context.Background(), domain.TimeframeOneMonth, testMilestone(domain.TimeframeOneMonth), "t", "")
	require.NoError(t, err)
	assert.Equal(t, "medium", *u.PriorityLevel)
}

func TestInterpret_FallbackOnFailures(t *testing.T) {
	cases := map[string]*mockLLMClient{
		"network":         {err: llm.ErrUnavailable},
		"timeout":         {err: llm.ErrTimeout},
		"no json":         {response: "I think you should relax."},
		"malformed":       {response: `{"updates": {"timeline_weeks": }`},
		"missing updates": {response: `{"reasoning":"nothing to change"}`},
	}
	for name, client := range cases {
		t.Run(name, func(t *testing.T) {
			u, err := NewUpdateInterpreter(client, nil).Interpret(context.Background(), domain.TimeframeOneYear, testMilestone(domain.TimeframeOneYear), "worried about money", "two kids")
			require.NoError(t, err)
			assert.Equal(t, FallbackUpdate("worried about money", "two kids"), u)
			assert.Equal(t, "User feedback: worried about money. Context: two kids", *u.UserNotes)
			assert.Equal(t, "medium", *u.PriorityLevel)
			assert.Nil(t, u.Objectives)
			assert.Nil(t, u.TimelineWeeks)
			assert.Nil(t, u.FocusAreas)
			assert.Nil(t, u.Budget)
		})
	}
}

func TestInterpret_PreconditionErrors(t *testing.T) {
	interp := NewUpdateInterpreter(&mockLLMClient{}, nil)
	var tfErr *domain.InvalidTimeframeError

	_, err := interp.Interpret(context.Background(), "10_years", testMilestone(domain.TimeframeOneMonth), "t", "")
	assert.True(t, errors.As(err, &tfErr))

	_, err = interp.Interpret(context.Background(), domain.TimeframeOneMonth, nil, "t", "")
	assert.True(t, errors.As(err, &tfErr))

	_, err = interp.Interpret(context.Background(), domain.TimeframeOneMonth, testMilestone(domain.TimeframeOneYear), "t", "")
	assert.True(t, errors.As(err, &tfErr))
}
