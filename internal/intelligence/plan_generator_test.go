package intelligence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/careerplan/internal/domain"
	"github.com/alexanderramin/careerplan/internal/llm"
)

const fullPlanJSON = `Here is your plan:
{
  "overview": {
    "summary": "Transition into data engineering",
    "key_focus_areas": ["sql", "pipelines"],
    "estimated_timeline": "18 months",
    "success_probability": "high",
    "market_outlook": "strong",
    "salary_projection": {"entry": "70k", "mid": "100k", "senior": "140k"},
    "critical_skills_gap": ["spark"]
  },
  "milestones": {
    "1_month": {"title": "Foundation Phase", "overview": "Learn SQL", "details": {"key_objectives": ["finish sql course"], "daily_tasks": ["30 min practice"], "immediate_tools": [{"name": "dbt"}]}},
    "3_months": {"title": "Development Phase", "overview": "Build projects", "details": {"timeline_weeks": 10, "budget_estimate": 200.0, "certifications_target": ["AWS DE"]}},
    "1_year": {"title": "Implementation Phase", "overview": "Land a role", "details": {"salary_expectations": {"min": 90000}, "last_updated": "not a date"}},
    "5_years": {"title": "Mastery Phase", "overview": "Lead a team", "details": {"vision_statement": "staff engineer", "priority_level": "urgent"}}
  }
}
Good luck!`

func TestGeneratePlan_ParsesEveryTimeframe(t *testing.T) {
	client := &mockLLMClient{response: fullPlanJSON}
	gen := NewPlanGenerator(client, nil)

	profile := domain.UserProfile{Username: "ada", Goals: "data engineering", Skills: "excel"}
	plan, err := gen.GeneratePlan(context.Background(), profile, fixedNow)
	require.NoError(t, err)

	assert.Equal(t, "plan_ada_20240501_093015", plan.ID)
	assert.Equal(t, "ada", plan.UserID)
	assert.Equal(t, 1, plan.Version)
	assert.Equal(t, fixedNow, plan.CreatedAt)
	assert.Equal(t, fixedNow, plan.LastUpdated)
	assert.Equal(t, "100k", plan.Overview.SalaryProjection["mid"])

	one := plan.Milestone(domain.TimeframeOneMonth)
	require.NotNil(t, one)
	assert.Equal(t, "1_month_20240501", one.ID)
	assert.Equal(t, 4, one.Details.Base().TimelineWeeks)
	assert.Equal(t, "Learn SQL", one.Details.Base().Description)
	assert.Equal(t, []string{"30 min practice"}, one.Details.(*domain.OneMonthDetail).DailyTasks)

	three := plan.Milestone(domain.TimeframeThreeMonths)
	assert.Equal(t, 10, three.Details.Base().TimelineWeeks)
	assert.Equal(t, 200.0, three.Details.Base().BudgetEstimate)
	assert.Equal(t, []string{"AWS DE"}, three.Details.(*domain.ThreeMonthDetail).CertificationsTarget)

	year := plan.Milestone(domain.TimeframeOneYear)
	assert.Equal(t, 52, year.Details.Base().TimelineWeeks)
	assert.Equal(t, fixedNow, year.Details.Base().LastUpdated)

	five := plan.Milestone(domain.TimeframeFiveYears)
	assert.Equal(t, 260, five.Details.Base().TimelineWeeks)
	assert.Equal(t, domain.PriorityMedium, five.Details.Base().PriorityLevel)
	assert.Equal(t, "staff engineer", five.Details.(*domain.FiveYearDetail).VisionStatement)

	for _, m := range plan.Milestones() {
		assert.NoError(t, m.Validate())
	}

	require.Len(t, client.requests, 1)
	assert.Equal(t, llm.TaskPlanGenerate, client.requests[0].Task)
	assert.Equal(t, planSystemPrompt, client.requests[0].SystemPrompt)
	assert.Contains(t, client.requests[0].UserPrompt, "data engineering")
}

func TestGeneratePlan_PartialResponseLeavesSlotsEmpty(t *testing.T) {
	client := &mockLLMClient{response: `{"overview":{"summary":"s"},"milestones":{"1_year":{"title":"Y"}}}`}
	plan, err := NewPlanGenerator(client, nil).GeneratePlan(context.Background(), domain.UserProfile{Username: "bo"}, fixedNow)
	require.NoError(t, err)

	assert.Nil(t, plan.Milestone(domain.TimeframeOneMonth))
	require.NotNil(t, plan.Milestone(domain.TimeframeOneYear))
	assert.Equal(t, "Y", plan.Milestone(domain.TimeframeOneYear).Title)
}

func TestGeneratePlan_NumericOverviewValues(t *testing.T) {
	client := &mockLLMClient{response: `{"overview": {"summary": "s", "success_probability": 0.8,
		"salary_projection": {"entry": 70000}}, "milestones": {"1_month": {"title": "M"}}}`}
	plan, err := NewPlanGenerator(client, nil).GeneratePlan(context.Background(), domain.UserProfile{Username: "bo"}, fixedNow)
	require.NoError(t, err)

	assert.Equal(t, "0.8", plan.Overview.SuccessProbability)
	assert.Equal(t, 70000.0, plan.Overview.SalaryProjection["entry"])
	require.NotNil(t, plan.Milestone(domain.TimeframeOneMonth))
}

func TestGeneratePlan_Failures(t *testing.T) {
	cases := map[string]*mockLLMClient{
		"transport":       {err: llm.ErrTimeout},
		"not json":        {response: "no plan today"},
		"no milestones":   {response: `{"overview":{"summary":"s"}}`},
		"unknown keys":    {response: `{"milestones":{"2_weeks":{"title":"x"}}}`},
		"bad detail type": {response: `{"milestones":{"1_month":{"title":"x","details":{"timeline_weeks":"four"}}}}`},
	}
	for name, client := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewPlanGenerator(client, nil).GeneratePlan(context.Background(), domain.UserProfile{Username: "bo"}, fixedNow)
			require.Error(t, err)
			assert.True(t, llm.IsGenerationFailure(err))
		})
	}
}

func TestRegenerateMilestones(t *testing.T) {
	client := &mockLLMClient{response: `{"milestones":{
		"1_year": {"title": "New Year", "overview": "o", "details": {"key_objectives": ["new"]}},
		"5_years": {"title": "New Five", "details": {"timeline_weeks": 0}}
	}}`}
	gen := NewPlanGenerator(client, nil)
	plan := testPlan()

	got, err := gen.RegenerateMilestones(context.Background(), plan, domain.TimeframeThreeMonths,
		[]domain.Timeframe{domain.TimeframeOneYear, domain.TimeframeFiveYears}, fixedNow)
	require.NoError(t, err)
	require.Len(t, got, 2)

	year := got[domain.TimeframeOneYear]
	assert.Equal(t, "New Year", year.Title)
	assert.NotEqual(t, plan.Milestone(domain.TimeframeOneYear).ID, year.ID)
	assert.Contains(t, year.ID, "1_year_20240501_")
	assert.Equal(t, 0.0, year.CompletionStatus)
	assert.Equal(t, domain.MilestonePending, year.Status)
	assert.Equal(t, 260, got[domain.TimeframeFiveYears].Details.Base().TimelineWeeks)

	req := client.requests[0]
	assert.Equal(t, llm.TaskCascade, req.Task)
	assert.Equal(t, cascadeSystemPrompt, req.SystemPrompt)
	assert.Contains(t, req.UserPrompt, "UPDATED 3_MONTHS MILESTONE")
	assert.Contains(t, req.UserPrompt, "MILESTONES TO UPDATE: 1_year, 5_years")
	assert.Contains(t, req.UserPrompt, `"vision_statement"`)
	assert.NotContains(t, req.UserPrompt, `"daily_tasks"`)
}

func TestRegenerateMilestones_MissingTimeframeOmitted(t *testing.T) {
	client := &mockLLMClient{response: `{"milestones":{"1_year":{"title":"Y"}}}`}
	got, err := NewPlanGenerator(client, nil).RegenerateMilestones(context.Background(), testPlan(), domain.TimeframeThreeMonths,
		[]domain.Timeframe{domain.TimeframeOneYear, domain.TimeframeFiveYears}, fixedNow)
	require.NoError(t, err)
	assert.Contains(t, got, domain.TimeframeOneYear)
	assert.NotContains(t, got, domain.TimeframeFiveYears)
}

func TestRegenerateMilestones_Failure(t *testing.T) {
	client := &mockLLMClient{err: llm.ErrUnavailable}
	_, err := NewPlanGenerator(client, nil).RegenerateMilestones(context.Background(), testPlan(), domain.TimeframeOneMonth,
		[]domain.Timeframe{domain.TimeframeFiveYears}, fixedNow)
	assert.True(t, llm.IsGenerationFailure(err))
}

func TestIDs(t *testing.T) {
	assert.Equal(t, "3_months_20240501", MilestoneID(domain.TimeframeThreeMonths, fixedNow))
	assert.Equal(t, "plan_ada_20240501_093015", PlanID("ada", fixedNow))
}
