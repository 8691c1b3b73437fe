package intelligence

import (
	"context"
	"time"

	"github.com/alexanderramin/careerplan/internal/domain"
	"github.com/alexanderramin/careerplan/internal/llm"
)

// mockLLMClient returns a fixed response for testing.
type mockLLMClient struct {
	response string
	err      error
	requests []llm.GenerateRequest
}

func (m *mockLLMClient) Generate(_ context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	m.requests = append(m.requests, req)
	if m.err != nil {
		return nil, m.err
	}
	return &llm.GenerateResponse{Text: m.response, Model: "gpt-4"}, nil
}

func (m *mockLLMClient) Available(_ context.Context) bool { return m.err == nil }

var fixedNow = time.Date(2024, 5, 1, 9, 30, 15, 0, time.UTC)

func testMilestone(tf domain.Timeframe) *domain.Milestone {
	d := domain.NewDetail(tf)
	b := d.Base()
	b.Title = "Current " + tf.String()
	b.KeyObjectives = []string{"obj A", "obj B"}
	b.UserNotes = "prefers evenings"
	b.Dependencies = []string{}
	b.LastUpdated = fixedNow
	return &domain.Milestone{
		ID:        tf.String() + "_20240501",
		Timeframe: tf,
		Title:     "Current " + tf.String(),
		Overview:  "current overview",
		Status:    domain.MilestonePending,
		Details:   d,
	}
}

func testPlan() *domain.Plan {
	p := &domain.Plan{
		ID:          "plan_ada_20240501_093015",
		UserID:      "ada",
		Overview:    domain.Overview{Summary: "become a data engineer", KeyFocusAreas: []string{"sql", "python"}},
		CreatedAt:   fixedNow,
		LastUpdated: fixedNow,
		Version:     1,
	}
	for _, tf := range domain.Timeframes() {
		p.SetMilestone(tf, testMilestone(tf))
	}
	return p
}
