package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Resource is a learning or reference resource attached to a milestone.
type Resource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Type string `json:"type"`
}

// DetailBase holds the fields shared by every detail variant.
type DetailBase struct {
	Title               string     `json:"title"`
	Description         string     `json:"description"`
	TimelineWeeks       int        `json:"timeline_weeks"`
	KeyObjectives       []string   `json:"key_objectives"`
	SuccessMetrics      []string   `json:"success_metrics"`
	RecommendedActions  []string   `json:"recommended_actions"`
	Resources           []Resource `json:"resources"`
	PotentialChallenges []string   `json:"potential_challenges"`
	Dependencies        []string   `json:"dependencies"`
	BudgetEstimate      float64    `json:"budget_estimate"`
	ResearchTopics      []string   `json:"exa_research_topics"`
	UserNotes           string     `json:"user_notes"`
	PriorityLevel       Priority   `json:"priority_level"`
	LastUpdated         time.Time  `json:"last_updated"`
}

func (b DetailBase) clone() DetailBase {
	out := b
	out.KeyObjectives = cloneStrings(b.KeyObjectives)
	out.SuccessMetrics = cloneStrings(b.SuccessMetrics)
	out.RecommendedActions = cloneStrings(b.RecommendedActions)
	out.PotentialChallenges = cloneStrings(b.PotentialChallenges)
	out.Dependencies = cloneStrings(b.Dependencies)
	out.ResearchTopics = cloneStrings(b.ResearchTopics)
	if b.Resources != nil {
		out.Resources = make([]Resource, len(b.Resources))
		copy(out.Resources, b.Resources)
	}
	return out
}

// Validate checks the base invariants.
func (b *DetailBase) Validate() error {
	if b.TimelineWeeks <= 0 {
		return fmt.Errorf("timeline_weeks must be positive, got %d", b.TimelineWeeks)
	}
	if b.BudgetEstimate < 0 {
		return fmt.Errorf("budget_estimate must be non-negative, got %v", b.BudgetEstimate)
	}
	if !b.PriorityLevel.Valid() {
		return fmt.Errorf("invalid priority_level %q", b.PriorityLevel)
	}
	return nil
}

// HasObjective reports whether s is already one of the key objectives.
func (b *DetailBase) HasObjective(s string) bool {
	for _, o := range b.KeyObjectives {
		if o == s {
			return true
		}
	}
	return false
}

// Detail is the timeframe-specific payload of a milestone. Each timeframe has
// exactly one implementation and the two are never mixed.
type Detail interface {
	Timeframe() Timeframe
	Base() *DetailBase
	Clone() Detail
}

// OneMonthDetail covers immediate, tactical work.
type OneMonthDetail struct {
	DetailBase
	DailyTasks        []string            `json:"daily_tasks"`
	WeeklyGoals       []string            `json:"weekly_goals"`
	SkillFocus        []string            `json:"skill_focus"`
	NetworkingTargets []string            `json:"networking_targets"`
	ImmediateTools    []map[string]string `json:"immediate_tools"`
}

func (d *OneMonthDetail) Timeframe() Timeframe { return TimeframeOneMonth }
func (d *OneMonthDetail) Base() *DetailBase    { return &d.DetailBase }

func (d *OneMonthDetail) Clone() Detail {
	out := *d
	out.DetailBase = d.DetailBase.clone()
	out.DailyTasks = cloneStrings(d.DailyTasks)
	out.WeeklyGoals = cloneStrings(d.WeeklyGoals)
	out.SkillFocus = cloneStrings(d.SkillFocus)
	out.NetworkingTargets = cloneStrings(d.NetworkingTargets)
	if d.ImmediateTools != nil {
		out.ImmediateTools = make([]map[string]string, len(d.ImmediateTools))
		for i, m := range d.ImmediateTools {
			out.ImmediateTools[i] = cloneMap(m)
		}
	}
	return &out
}

// ThreeMonthDetail covers building foundations.
type ThreeMonthDetail struct {
	DetailBase
	ProjectsToComplete   []string `json:"projects_to_complete"`
	CertificationsTarget []string `json:"certifications_target"`
	PortfolioItems       []string `json:"portfolio_items"`
	IndustryResearch     []string `json:"industry_research"`
	MentorConnections    []string `json:"mentor_connections"`
}

func (d *ThreeMonthDetail) Timeframe() Timeframe { return TimeframeThreeMonths }
func (d *ThreeMonthDetail) Base() *DetailBase    { return &d.DetailBase }

func (d *ThreeMonthDetail) Clone() Detail {
	out := *d
	out.DetailBase = d.DetailBase.clone()
	out.ProjectsToComplete = cloneStrings(d.ProjectsToComplete)
	out.CertificationsTarget = cloneStrings(d.CertificationsTarget)
	out.PortfolioItems = cloneStrings(d.PortfolioItems)
	out.IndustryResearch = cloneStrings(d.IndustryResearch)
	out.MentorConnections = cloneStrings(d.MentorConnections)
	return &out
}

// OneYearDetail covers the career transition itself.
type OneYearDetail struct {
	DetailBase
	CareerTargets           []string       `json:"career_targets"`
	SalaryExpectations      map[string]any `json:"salary_expectations"`
	ProfessionalNetwork     []string       `json:"professional_network"`
	LeadershipOpportunities []string       `json:"leadership_opportunities"`
	MarketPositioning       []string       `json:"market_positioning"`
}

func (d *OneYearDetail) Timeframe() Timeframe { return TimeframeOneYear }
func (d *OneYearDetail) Base() *DetailBase    { return &d.DetailBase }

func (d *OneYearDetail) Clone() Detail {
	out := *d
	out.DetailBase = d.DetailBase.clone()
	out.CareerTargets = cloneStrings(d.CareerTargets)
	out.SalaryExpectations = deepCopyMap(d.SalaryExpectations)
	out.ProfessionalNetwork = cloneStrings(d.ProfessionalNetwork)
	out.LeadershipOpportunities = cloneStrings(d.LeadershipOpportunities)
	out.MarketPositioning = cloneStrings(d.MarketPositioning)
	return &out
}

// FiveYearDetail covers long-term vision.
type FiveYearDetail struct {
	DetailBase
	VisionStatement string         `json:"vision_statement"`
	FinancialGoals  map[string]any `json:"financial_goals"`
	IndustryImpact  []string       `json:"industry_impact"`
	MentorshipGoals []string       `json:"mentorship_goals"`
	ExitStrategies  []string       `json:"exit_strategies"`
	LegacyProjects  []string       `json:"legacy_projects"`
}

func (d *FiveYearDetail) Timeframe() Timeframe { return TimeframeFiveYears }
func (d *FiveYearDetail) Base() *DetailBase    { return &d.DetailBase }

func (d *FiveYearDetail) Clone() Detail {
	out := *d
	out.DetailBase = d.DetailBase.clone()
	out.FinancialGoals = deepCopyMap(d.FinancialGoals)
	out.IndustryImpact = cloneStrings(d.IndustryImpact)
	out.MentorshipGoals = cloneStrings(d.MentorshipGoals)
	out.ExitStrategies = cloneStrings(d.ExitStrategies)
	out.LegacyProjects = cloneStrings(d.LegacyProjects)
	return &out
}

// NewDetail returns the empty variant for tf with base defaults applied,
// or nil for an invalid timeframe.
func NewDetail(tf Timeframe) Detail {
	var d Detail
	switch tf {
	case TimeframeOneMonth:
		d = &OneMonthDetail{}
	case TimeframeThreeMonths:
		d = &ThreeMonthDetail{}
	case TimeframeOneYear:
		d = &OneYearDetail{}
	case TimeframeFiveYears:
		d = &FiveYearDetail{}
	default:
		return nil
	}
	b := d.Base()
	b.TimelineWeeks = tf.DefaultTimelineWeeks()
	b.PriorityLevel = PriorityMedium
	return d
}

// Milestone is a time-boxed segment of a plan.
type Milestone struct {
	ID               string          `json:"milestone_id"`
	Timeframe        Timeframe       `json:"timeframe"`
	Title            string          `json:"title"`
	Overview         string          `json:"overview"`
	CompletionStatus float64         `json:"completion_status"`
	Status           MilestoneStatus `json:"status"`
	Details          Detail          `json:"details"`
}

// UnmarshalJSON selects the detail variant from the milestone's timeframe.
func (m *Milestone) UnmarshalJSON(data []byte) error {
	type alias Milestone
	var raw struct {
		alias
		Details json.RawMessage `json:"details"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*m = Milestone(raw.alias)

	d := NewDetail(m.Timeframe)
	if d == nil {
		return &InvalidTimeframeError{Value: string(m.Timeframe)}
	}
	if len(raw.Details) > 0 && string(raw.Details) != "null" {
		if err := json.Unmarshal(raw.Details, d); err != nil {
			return fmt.Errorf("decoding %s details: %w", m.Timeframe, err)
		}
	}
	m.Details = d
	return nil
}

// Validate checks the milestone invariants, including that the detail
// variant matches the timeframe.
func (m *Milestone) Validate() error {
	if !m.Timeframe.Valid() {
		return &InvalidTimeframeError{Value: string(m.Timeframe)}
	}
	if m.Details == nil {
		return fmt.Errorf("milestone %s has no details", m.Timeframe)
	}
	if m.Details.Timeframe() != m.Timeframe {
		return fmt.Errorf("milestone %s carries %s details", m.Timeframe, m.Details.Timeframe())
	}
	if m.CompletionStatus < 0 || m.CompletionStatus > 100 {
		return fmt.Errorf("completion_status must be within [0,100], got %v", m.CompletionStatus)
	}
	if !m.Status.Valid() {
		return fmt.Errorf("invalid milestone status %q", m.Status)
	}
	return m.Details.Base().Validate()
}

// Clone returns a deep copy of m.
func (m *Milestone) Clone() *Milestone {
	if m == nil {
		return nil
	}
	out := *m
	if m.Details != nil {
		out.Details = m.Details.Clone()
	}
	return &out
}

func deepCopyMap(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = deepCopyValue(v)
	}
	return out
}

func deepCopyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return deepCopyMap(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = deepCopyValue(e)
		}
		return out
	default:
		return v
	}
}
