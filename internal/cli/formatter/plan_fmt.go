package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/careerplan/internal/domain"
	"github.com/alexanderramin/careerplan/internal/repository"
	"github.com/alexanderramin/careerplan/internal/service"
)

// FormatPlan renders the plan summary and a row per timeframe slot.
func FormatPlan(p *domain.Plan, now time.Time) string {
	var b strings.Builder

	b.WriteString(Header("Career plan") + "\n")
	fmt.Fprintf(&b, "%s %s   %s v%d   %s %s\n",
		Dim("user"), Bold(p.UserID),
		Dim("version"), p.Version,
		Dim("updated"), HumanTimestamp(p.LastUpdated, now))
	fmt.Fprintf(&b, "%s %s\n\n", Dim("plan"), TruncID(p.ID))

	if p.Overview.Summary != "" {
		b.WriteString(p.Overview.Summary + "\n\n")
	}
	if len(p.Overview.KeyFocusAreas) > 0 {
		b.WriteString(Bold("Focus areas") + "\n")
		b.WriteString(Bullets(p.Overview.KeyFocusAreas, 2) + "\n")
	}

	rows := make([][]string, 0, 4)
	for _, tf := range domain.Timeframes() {
		m := p.Milestone(tf)
		if m == nil {
			rows = append(rows, []string{TimeframeLabel(tf), Dim("not generated"), "", "", ""})
			continue
		}
		base := m.Details.Base()
		rows = append(rows, []string{
			TimeframeLabel(tf),
			m.Title,
			StatusPill(m.Status),
			PriorityBadge(base.PriorityLevel),
			RenderProgress(m.CompletionStatus, 10),
		})
	}
	b.WriteString(RenderTable([]string{"TIMEFRAME", "MILESTONE", "STATUS", "PRIORITY", "PROGRESS"}, rows))
	return b.String()
}

// FormatMilestone renders one milestone with its shared and variant fields.
func FormatMilestone(m *domain.Milestone, now time.Time) string {
	var b strings.Builder
	base := m.Details.Base()

	fmt.Fprintf(&b, "%s  %s\n", TimeframeLabel(m.Timeframe), Bold(m.Title))
	fmt.Fprintf(&b, "%s  %s  %s\n", StatusPill(m.Status), PriorityBadge(base.PriorityLevel), RenderProgress(m.CompletionStatus, 16))
	if m.Overview != "" {
		b.WriteString("\n" + m.Overview + "\n")
	}

	b.WriteString("\n")
	fmt.Fprintf(&b, "%s %d weeks   %s %s   %s %s\n",
		Dim("timeline"), base.TimelineWeeks,
		Dim("budget"), Money(base.BudgetEstimate),
		Dim("updated"), HumanTimestamp(base.LastUpdated, now))
	if len(base.Dependencies) > 0 {
		fmt.Fprintf(&b, "%s %s\n", Dim("depends on"), strings.Join(base.Dependencies, ", "))
	}

	section(&b, "Key objectives", base.KeyObjectives)
	section(&b, "Success metrics", base.SuccessMetrics)
	section(&b, "Recommended actions", base.RecommendedActions)

	switch d := m.Details.(type) {
	case *domain.OneMonthDetail:
		section(&b, "Weekly goals", d.WeeklyGoals)
		section(&b, "Skill focus", d.SkillFocus)
	case *domain.ThreeMonthDetail:
		section(&b, "Projects", d.ProjectsToComplete)
		section(&b, "Certifications", d.CertificationsTarget)
	case *domain.OneYearDetail:
		section(&b, "Career targets", d.CareerTargets)
		section(&b, "Market positioning", d.MarketPositioning)
	case *domain.FiveYearDetail:
		if d.VisionStatement != "" {
			b.WriteString("\n" + Bold("Vision") + "\n  " + d.VisionStatement + "\n")
		}
		section(&b, "Legacy projects", d.LegacyProjects)
	}

	if base.UserNotes != "" {
		b.WriteString("\n" + Bold("Notes") + "\n  " + base.UserNotes + "\n")
	}
	return b.String()
}

func section(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	b.WriteString("\n" + Bold(title) + "\n")
	b.WriteString(Bullets(items, 2))
}

// FormatUpdate lists the fields a structured update would change.
func FormatUpdate(u domain.StructuredUpdate) string {
	if u.IsEmpty() {
		return Dim("no changes") + "\n"
	}
	var rows [][]string
	if len(u.Objectives) > 0 {
		rows = append(rows, []string{"objectives", strings.Join(u.Objectives, "; ")})
	}
	if u.TimelineWeeks != nil {
		rows = append(rows, []string{"timeline_weeks", strconv.Itoa(*u.TimelineWeeks)})
	}
	if len(u.FocusAreas) > 0 {
		rows = append(rows, []string{"focus_areas", strings.Join(u.FocusAreas, ", ")})
	}
	if u.Budget != nil {
		rows = append(rows, []string{"budget", Money(*u.Budget)})
	}
	if u.UserNotes != nil {
		rows = append(rows, []string{"user_notes", *u.UserNotes})
	}
	if u.PriorityLevel != nil {
		rows = append(rows, []string{"priority_level", PriorityBadge(domain.Priority(*u.PriorityLevel))})
	}
	return RenderTable([]string{"FIELD", "VALUE"}, rows)
}

// FormatCascade summarises a committed cascade: which slots were
// regenerated and which fell back to a dependency note.
func FormatCascade(res *service.CascadeResult, now time.Time) string {
	var b strings.Builder
	b.WriteString(Header("Cascade from "+string(res.Reference)) + "\n")

	if len(res.Affected) == 0 {
		b.WriteString(Dim("no downstream milestones") + "\n")
	}
	degraded := make(map[domain.Timeframe]bool, len(res.Degraded))
	for _, tf := range res.Degraded {
		degraded[tf] = true
	}
	regenerated := make(map[domain.Timeframe]bool, len(res.Regenerated))
	for _, tf := range res.Regenerated {
		regenerated[tf] = true
	}
	for _, tf := range res.Affected {
		outcome := Dim("– empty slot")
		switch {
		case regenerated[tf]:
			outcome = StyleGreen.Render("✔ regenerated")
		case degraded[tf]:
			outcome = StyleYellow.Render("⚠ dependency note only")
		}
		fmt.Fprintf(&b, "  %s  %s\n", TimeframeLabel(tf), outcome)
	}

	fmt.Fprintf(&b, "\n%s v%d %s\n", Dim("committed"), res.Plan.Version, Dim("at "+res.Plan.LastUpdated.UTC().Format(time.RFC3339)))
	b.WriteString("\n" + FormatPlan(res.Plan, now))
	return b.String()
}

// FormatHistory renders one row per committed version, newest last.
func FormatHistory(versions []repository.PlanVersion, now time.Time) string {
	rows := make([][]string, 0, len(versions))
	for _, v := range versions {
		filled := 0
		if v.Plan != nil {
			filled = len(v.Plan.Milestones())
		}
		rows = append(rows, []string{
			"v" + strconv.Itoa(v.Version),
			TruncID(v.PlanID),
			HumanTimestamp(v.CommittedAt, now),
			fmt.Sprintf("%d/4", filled),
		})
	}
	return RenderTable([]string{"VERSION", "PLAN", "COMMITTED", "MILESTONES"}, rows)
}

// FormatProfile renders the stored questionnaire.
func FormatProfile(p *domain.UserProfile, now time.Time) string {
	var b strings.Builder
	b.WriteString(Header("Profile "+p.Username) + "\n")
	field := func(label, value string) {
		if value == "" {
			value = Dim("--")
		}
		fmt.Fprintf(&b, "%s %s\n", Dim(fmt.Sprintf("%-14s", label)), value)
	}
	field("interests", p.InterestsValues)
	field("experience", p.WorkExperience)
	field("circumstances", p.Circumstances)
	field("skills", p.Skills)
	field("goals", p.Goals)
	field("updated", HumanTimestamp(p.LastUpdated, now))
	return b.String()
}
