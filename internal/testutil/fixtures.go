package testutil

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/careerplan/internal/domain"
)

// FixedNow is the reference instant used by fixtures.
var FixedNow = time.Date(2024, 5, 1, 9, 30, 15, 0, time.UTC)

// Profile options
type ProfileOption func(*domain.UserProfile)

func WithSkills(s string) ProfileOption {
	return func(p *domain.UserProfile) {
		p.Skills = s
	}
}

func WithGoals(g string) ProfileOption {
	return func(p *domain.UserProfile) {
		p.Goals = g
	}
}

func WithProfileUpdated(t time.Time) ProfileOption {
	return func(p *domain.UserProfile) {
		p.LastUpdated = t
	}
}

func NewTestProfile(username string, opts ...ProfileOption) *domain.UserProfile {
	p := &domain.UserProfile{
		Username:        username,
		InterestsValues: "building reliable systems, mentoring",
		WorkExperience:  "3 years backend development",
		Circumstances:   "full-time employed, evenings free",
		Skills:          "Go, SQL, Docker",
		Goals:           "become a staff engineer",
		CreatedAt:       FixedNow.Add(-72 * time.Hour),
		LastUpdated:     FixedNow.Add(-48 * time.Hour),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Milestone options
type MilestoneOption func(*domain.Milestone)

func WithObjectives(objs ...string) MilestoneOption {
	return func(m *domain.Milestone) {
		m.Details.Base().KeyObjectives = objs
	}
}

func WithDependencies(deps ...string) MilestoneOption {
	return func(m *domain.Milestone) {
		m.Details.Base().Dependencies = deps
	}
}

func WithMilestoneUpdated(t time.Time) MilestoneOption {
	return func(m *domain.Milestone) {
		m.Details.Base().LastUpdated = t
	}
}

func WithStatus(s domain.MilestoneStatus) MilestoneOption {
	return func(m *domain.Milestone) {
		m.Status = s
	}
}

func NewTestMilestone(tf domain.Timeframe, opts ...MilestoneOption) *domain.Milestone {
	d := domain.NewDetail(tf)
	b := d.Base()
	b.Title = fmt.Sprintf("%s focus", tf)
	b.Description = fmt.Sprintf("Work planned for the %s horizon", tf)
	b.KeyObjectives = []string{"Ship a side project"}
	b.SuccessMetrics = []string{"Project deployed"}
	b.RecommendedActions = []string{"Block two evenings a week"}
	b.Resources = []domain.Resource{{Name: "Go by Example", URL: "https://gobyexample.com", Type: "website"}}
	b.Dependencies = []string{}
	b.BudgetEstimate = 50
	b.LastUpdated = FixedNow.Add(-24 * time.Hour)

	m := &domain.Milestone{
		ID:        fmt.Sprintf("%s_%s", tf, uuid.New().String()[:8]),
		Timeframe: tf,
		Title:     b.Title,
		Overview:  b.Description,
		Status:    domain.MilestonePending,
		Details:   d,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Plan options
type PlanOption func(*domain.Plan)

func WithVersion(v int) PlanOption {
	return func(p *domain.Plan) {
		p.Version = v
	}
}

func WithPlanUpdated(t time.Time) PlanOption {
	return func(p *domain.Plan) {
		p.LastUpdated = t
	}
}

// WithoutMilestone empties tf's slot.
func WithoutMilestone(tf domain.Timeframe) PlanOption {
	return func(p *domain.Plan) {
		p.SetMilestone(tf, nil)
	}
}

func WithMilestone(m *domain.Milestone) PlanOption {
	return func(p *domain.Plan) {
		p.SetMilestone(m.Timeframe, m)
	}
}

// NewTestPlan returns a plan with all four slots filled.
func NewTestPlan(username string, opts ...PlanOption) *domain.Plan {
	p := &domain.Plan{
		ID:     "plan_" + username + "_" + uuid.New().String()[:8],
		UserID: username,
		Overview: domain.Overview{
			Summary:            "Grow from backend developer to staff engineer",
			KeyFocusAreas:      []string{"distributed systems", "leadership"},
			EstimatedTimeline:  "5 years",
			SuccessProbability: "high",
			MarketOutlook:      "steady demand",
			SalaryProjection:   map[string]any{"1_year": "$120k"},
			CriticalSkillsGap:  []string{"system design"},
		},
		CreatedAt:   FixedNow.Add(-24 * time.Hour),
		LastUpdated: FixedNow.Add(-24 * time.Hour),
		Version:     1,
	}
	for _, tf := range domain.Timeframes() {
		p.SetMilestone(tf, NewTestMilestone(tf))
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}
