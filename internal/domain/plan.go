package domain

import (
	"bytes"
	"encoding/json"
	"time"
)

// Overview is the free-form summary generated alongside the milestones.
type Overview struct {
	Summary            string         `json:"summary"`
	KeyFocusAreas      []string       `json:"key_focus_areas"`
	EstimatedTimeline  string         `json:"estimated_timeline"`
	SuccessProbability string         `json:"success_probability"`
	MarketOutlook      string         `json:"market_outlook"`
	SalaryProjection   map[string]any `json:"salary_projection"`
	CriticalSkillsGap  []string       `json:"critical_skills_gap"`
}

// UnmarshalJSON accepts whatever shape the model produced for the text
// fields: numbers and booleans become their literal text, a bare string
// in a list field becomes a one-element list.
func (o *Overview) UnmarshalJSON(data []byte) error {
	var raw struct {
		Summary            looseText      `json:"summary"`
		KeyFocusAreas      looseList      `json:"key_focus_areas"`
		EstimatedTimeline  looseText      `json:"estimated_timeline"`
		SuccessProbability looseText      `json:"success_probability"`
		MarketOutlook      looseText      `json:"market_outlook"`
		SalaryProjection   map[string]any `json:"salary_projection"`
		CriticalSkillsGap  looseList      `json:"critical_skills_gap"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*o = Overview{
		Summary:            string(raw.Summary),
		KeyFocusAreas:      []string(raw.KeyFocusAreas),
		EstimatedTimeline:  string(raw.EstimatedTimeline),
		SuccessProbability: string(raw.SuccessProbability),
		MarketOutlook:      string(raw.MarketOutlook),
		SalaryProjection:   raw.SalaryProjection,
		CriticalSkillsGap:  []string(raw.CriticalSkillsGap),
	}
	return nil
}

func (o Overview) clone() Overview {
	out := o
	out.KeyFocusAreas = cloneStrings(o.KeyFocusAreas)
	out.CriticalSkillsGap = cloneStrings(o.CriticalSkillsGap)
	out.SalaryProjection = deepCopyMap(o.SalaryProjection)
	return out
}

// looseText decodes any JSON value into text. Strings are unquoted,
// everything else keeps its compact JSON form.
type looseText string

func (t *looseText) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || string(b) == "null":
		*t = ""
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = looseText(s)
	default:
		var buf bytes.Buffer
		if err := json.Compact(&buf, b); err != nil {
			return err
		}
		*t = looseText(buf.String())
	}
	return nil
}

// looseList decodes an array of any values, or a single value, into
// a list of text.
type looseList []string

func (l *looseList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*l = nil
		return nil
	}
	if b[0] != '[' {
		var one looseText
		if err := one.UnmarshalJSON(b); err != nil {
			return err
		}
		*l = nil
		if one != "" {
			*l = looseList{string(one)}
		}
		return nil
	}
	var items []looseText
	if err := json.Unmarshal(b, &items); err != nil {
		return err
	}
	out := make(looseList, 0, len(items))
	for _, it := range items {
		out = append(out, string(it))
	}
	*l = out
	return nil
}

// Plan is a user's career plan. It exclusively owns its four milestone
// slots; a nil slot means the milestone has not been generated.
type Plan struct {
	ID                string     `json:"plan_id"`
	UserID            string     `json:"user_id"`
	Overview          Overview   `json:"overview"`
	MilestoneOneMonth *Milestone `json:"milestone_1_month"`
	MilestoneThreeMo  *Milestone `json:"milestone_3_months"`
	MilestoneOneYear  *Milestone `json:"milestone_1_year"`
	MilestoneFiveYear *Milestone `json:"milestone_5_years"`
	CreatedAt         time.Time  `json:"created_date"`
	LastUpdated       time.Time  `json:"last_updated"`
	Version           int        `json:"version"`
}

func (p *Plan) slot(tf Timeframe) **Milestone {
	switch tf {
	case TimeframeOneMonth:
		return &p.MilestoneOneMonth
	case TimeframeThreeMonths:
		return &p.MilestoneThreeMo
	case TimeframeOneYear:
		return &p.MilestoneOneYear
	case TimeframeFiveYears:
		return &p.MilestoneFiveYear
	}
	return nil
}

// Milestone returns the milestone in tf's slot, or nil when the slot is empty
// or tf is invalid.
func (p *Plan) Milestone(tf Timeframe) *Milestone {
	s := p.slot(tf)
	if s == nil {
		return nil
	}
	return *s
}

// SetMilestone replaces tf's slot. It is a no-op for invalid timeframes.
func (p *Plan) SetMilestone(tf Timeframe, m *Milestone) {
	if s := p.slot(tf); s != nil {
		*s = m
	}
}

// Milestones returns the non-empty slots in canonical order.
func (p *Plan) Milestones() []*Milestone {
	var out []*Milestone
	for _, tf := range timeframeOrder {
		if m := p.Milestone(tf); m != nil {
			out = append(out, m)
		}
	}
	return out
}

// Clone returns a deep copy sharing no mutable state with p.
func (p *Plan) Clone() *Plan {
	if p == nil {
		return nil
	}
	out := *p
	out.Overview = p.Overview.clone()
	for _, tf := range timeframeOrder {
		out.SetMilestone(tf, p.Milestone(tf).Clone())
	}
	return &out
}
