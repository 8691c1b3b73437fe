package intelligence

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/careerplan/internal/domain"
)

const planSystemPrompt = "You are an expert career strategist. Generate comprehensive career transition plans with cascading milestone dependencies."

const interpretSystemPrompt = "You are an expert career coach who interprets user concerns and translates them into actionable milestone updates."

const cascadeSystemPrompt = "You are an expert career strategist updating career plans based on milestone changes."

// variantFields lists the timeframe-specific detail keys the model is asked
// to fill in, in the order they are shown in prompts.
var variantFields = map[domain.Timeframe][]string{
	domain.TimeframeOneMonth:    {"daily_tasks", "weekly_goals", "skill_focus", "networking_targets", "immediate_tools"},
	domain.TimeframeThreeMonths: {"projects_to_complete", "certifications_target", "portfolio_items", "industry_research", "mentor_connections"},
	domain.TimeframeOneYear:     {"career_targets", "salary_expectations", "professional_network", "leadership_opportunities", "market_positioning"},
	domain.TimeframeFiveYears:   {"vision_statement", "financial_goals", "industry_impact", "mentorship_goals", "exit_strategies", "legacy_projects"},
}

var phaseTitles = map[domain.Timeframe]string{
	domain.TimeframeOneMonth:    "Foundation Phase",
	domain.TimeframeThreeMonths: "Development Phase",
	domain.TimeframeOneYear:     "Implementation Phase",
	domain.TimeframeFiveYears:   "Mastery Phase",
}

func buildPlanPrompt(p domain.UserProfile) string {
	var b strings.Builder
	b.WriteString("Carefully analyze the following user's profile. For each section, identify strengths, potential challenges and opportunities relevant to career planning.\n\n")
	b.WriteString("USER PROFILE:\n")
	fmt.Fprintf(&b, "Username: %s\n", p.Username)
	fmt.Fprintf(&b, "Interests and values: %s\n", p.InterestsValues)
	fmt.Fprintf(&b, "Work experience: %s\n", p.WorkExperience)
	fmt.Fprintf(&b, "Circumstances: %s\n", p.Circumstances)
	fmt.Fprintf(&b, "Skills: %s\n", p.Skills)
	fmt.Fprintf(&b, "Goals: %s\n\n", p.Goals)
	b.WriteString("Based on that introspection, create a realistic career plan with specific, actionable milestones. Base it ONLY on what the user wants (their goals and interests).\n\n")
	b.WriteString("RESPOND WITH THIS EXACT JSON STRUCTURE:\n")
	b.WriteString(`{
  "overview": {
    "summary": "2-3 sentence summary based on user's specific goals",
    "key_focus_areas": ["area1", "area2", "area3"],
    "estimated_timeline": "Timeline based on user's goals",
    "success_probability": "Assessment with reasoning",
    "market_outlook": "Market analysis for user's target area",
    "salary_projection": {"entry": "range", "mid": "range", "senior": "range"},
    "critical_skills_gap": ["skill1", "skill2", "skill3"]
  },
  "milestones": {
`)
	writeMilestoneSchema(&b, domain.Timeframes())
	b.WriteString("  }\n}\n\nBe specific and actionable.\n")
	return b.String()
}

func buildInterpretPrompt(tf domain.Timeframe, m *domain.Milestone, thoughts, context string) string {
	base := m.Details.Base()
	var b strings.Builder
	fmt.Fprintf(&b, "A user wants to update their %s career milestone.\n\n", tf)
	b.WriteString("CURRENT MILESTONE:\n")
	fmt.Fprintf(&b, "Title: %s\n", m.Title)
	fmt.Fprintf(&b, "Current Objectives: %s\n", strings.Join(base.KeyObjectives, ", "))
	fmt.Fprintf(&b, "Current Timeline: %d weeks\n", base.TimelineWeeks)
	fmt.Fprintf(&b, "Current Notes: %s\n\n", base.UserNotes)
	fmt.Fprintf(&b, "USER'S THOUGHTS: %q\n\n", thoughts)
	fmt.Fprintf(&b, "ADDITIONAL CONTEXT: %q\n\n", context)
	b.WriteString("Based on the user's thoughts, reason about what changes they want and generate structured updates. Consider their concerns, constraints, and desired modifications.\n\n")
	b.WriteString(`Respond in JSON format:
{
  "reasoning": "Why these changes make sense based on user's thoughts",
  "updates": {
    "objectives": ["updated objective 1", "updated objective 2"],
    "timeline_weeks": 12,
    "focus_areas": ["area1", "area2"],
    "budget": 0,
    "user_notes": "Updated notes incorporating user thoughts",
    "priority_level": "high|medium|low"
  }
}
Omit any field in "updates" that should stay unchanged.
`)
	return b.String()
}

func buildCascadePrompt(p *domain.Plan, ref domain.Timeframe, targets []domain.Timeframe) string {
	m := p.Milestone(ref)
	base := m.Details.Base()
	names := make([]string, len(targets))
	for i, tf := range targets {
		names[i] = tf.String()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "A user has updated their %s milestone in their career transition plan. Regenerate the listed milestones to align with these changes.\n\n", ref)
	b.WriteString("ORIGINAL PLAN CONTEXT:\n")
	fmt.Fprintf(&b, "User ID: %s\n", p.UserID)
	fmt.Fprintf(&b, "Plan Summary: %s\n", p.Overview.Summary)
	fmt.Fprintf(&b, "Key Focus Areas: %s\n", strings.Join(p.Overview.KeyFocusAreas, ", "))
	fmt.Fprintf(&b, "Estimated Timeline: %s\n\n", p.Overview.EstimatedTimeline)
	fmt.Fprintf(&b, "UPDATED %s MILESTONE:\n", strings.ToUpper(ref.String()))
	fmt.Fprintf(&b, "Title: %s\n", m.Title)
	fmt.Fprintf(&b, "Objectives: %s\n", strings.Join(base.KeyObjectives, ", "))
	fmt.Fprintf(&b, "Timeline: %d weeks\n", base.TimelineWeeks)
	fmt.Fprintf(&b, "User Notes: %s\n", base.UserNotes)
	fmt.Fprintf(&b, "Priority: %s\n\n", base.PriorityLevel)
	fmt.Fprintf(&b, "MILESTONES TO UPDATE: %s\n\n", strings.Join(names, ", "))
	fmt.Fprintf(&b, "Regenerate these milestones so that they:\n1. Build logically on the updated %s milestone\n2. Maintain realistic timelines and dependencies\n3. Align with the user's stated goals and constraints\n4. Keep the same overall career transition objective\n\n", ref)
	b.WriteString("RESPOND WITH THIS EXACT JSON STRUCTURE, containing only the milestones to update:\n{\n  \"milestones\": {\n")
	writeMilestoneSchema(&b, targets)
	b.WriteString("  }\n}\n")
	return b.String()
}

func writeMilestoneSchema(b *strings.Builder, tfs []domain.Timeframe) {
	for i, tf := range tfs {
		fmt.Fprintf(b, "    %q: {\n", tf)
		fmt.Fprintf(b, "      \"title\": %q,\n", phaseTitles[tf])
		fmt.Fprintf(b, "      \"overview\": \"What to accomplish in this %s\",\n", tf)
		b.WriteString("      \"details\": {\n")
		fmt.Fprintf(b, "        \"timeline_weeks\": %d,\n", tf.DefaultTimelineWeeks())
		b.WriteString(`        "key_objectives": ["objective1", "objective2"],
        "success_metrics": ["metric1", "metric2"],
        "recommended_actions": ["action1", "action2"],
        "resources": [{"name": "resource", "url": "url", "type": "course"}],
        "potential_challenges": ["challenge1", "challenge2"],
        "dependencies": [],
        "budget_estimate": 0.0,
        "exa_research_topics": ["topic1", "topic2"]`)
		for _, f := range variantFields[tf] {
			fmt.Fprintf(b, ",\n        %q: %s", f, variantPlaceholder(f))
		}
		b.WriteString("\n      }\n    }")
		if i < len(tfs)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
}

func variantPlaceholder(field string) string {
	switch field {
	case "vision_statement":
		return `"where you want to be"`
	case "salary_expectations", "financial_goals":
		return `{"target": "value"}`
	case "immediate_tools":
		return `[{"name": "tool", "purpose": "why"}]`
	default:
		return `["item1", "item2"]`
	}
}
