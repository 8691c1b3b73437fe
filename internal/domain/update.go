package domain

import (
	"fmt"
	"time"
)

// StructuredUpdate is a partial change to one milestone. A nil field leaves
// the milestone unchanged. It is never persisted.
type StructuredUpdate struct {
	Objectives    []string `json:"objectives,omitempty"`
	TimelineWeeks *int     `json:"timeline_weeks,omitempty"`
	FocusAreas    []string `json:"focus_areas,omitempty"`
	Budget        *float64 `json:"budget,omitempty"`
	UserNotes     *string  `json:"user_notes,omitempty"`
	PriorityLevel *string  `json:"priority_level,omitempty"`
}

// IsEmpty reports whether the update carries no changes.
func (u StructuredUpdate) IsEmpty() bool {
	return u.Objectives == nil && u.TimelineWeeks == nil && u.FocusAreas == nil &&
		u.Budget == nil && u.UserNotes == nil && u.PriorityLevel == nil
}

// Validate rejects values that would break detail invariants.
func (u StructuredUpdate) Validate() error {
	if u.TimelineWeeks != nil && *u.TimelineWeeks <= 0 {
		return fmt.Errorf("timeline_weeks must be positive, got %d", *u.TimelineWeeks)
	}
	if u.Budget != nil && *u.Budget < 0 {
		return fmt.Errorf("budget must be non-negative, got %v", *u.Budget)
	}
	if u.PriorityLevel != nil && *u.PriorityLevel != "" && !ValidPriorities[*u.PriorityLevel] {
		return fmt.Errorf("priority_level must be high, medium or low, got %q", *u.PriorityLevel)
	}
	return nil
}

// ApplyTo merges u into d and stamps d's last_updated with now.
//
// Objectives and timeline replace. Each focus area appends "Focus on <area>"
// unless that exact objective is already present, so re-applying the same
// update leaves objectives unchanged. Notes replace only when non-empty.
func (u StructuredUpdate) ApplyTo(d Detail, now time.Time) {
	b := d.Base()
	if len(u.Objectives) > 0 {
		b.KeyObjectives = cloneStrings(u.Objectives)
	}
	b.TimelineWeeks = IntFromPtrWithDefault(b.TimelineWeeks, u.TimelineWeeks)
	for _, area := range u.FocusAreas {
		entry := "Focus on " + area
		if !b.HasObjective(entry) {
			b.KeyObjectives = append(b.KeyObjectives, entry)
		}
	}
	b.BudgetEstimate = FloatFromPtrWithDefault(b.BudgetEstimate, u.Budget)
	if u.UserNotes != nil && *u.UserNotes != "" {
		b.UserNotes = *u.UserNotes
	}
	if u.PriorityLevel != nil && *u.PriorityLevel != "" {
		b.PriorityLevel = Priority(*u.PriorityLevel)
	}
	b.LastUpdated = now
}
