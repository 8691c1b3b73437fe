package intelligence

import (
	"encoding/json"
	"fmt"

	"github.com/alexanderramin/careerplan/internal/domain"
)

// GeneratedMilestone is one milestone as emitted by the model. Details stay
// raw until the timeframe-specific variant is known.
type GeneratedMilestone struct {
	Title    string          `json:"title"`
	Overview string          `json:"overview"`
	Details  json.RawMessage `json:"details"`
}

// GeneratedPlan is the model output for initial plan generation.
type GeneratedPlan struct {
	Overview   domain.Overview               `json:"overview"`
	Milestones map[string]GeneratedMilestone `json:"milestones"`
}

// GeneratedMilestones is the model output for a cascade regeneration.
type GeneratedMilestones struct {
	Milestones map[string]GeneratedMilestone `json:"milestones"`
}

// interpretResponse is the model output for update interpretation.
type interpretResponse struct {
	Reasoning string          `json:"reasoning"`
	Updates   *updatesPayload `json:"updates"`
}

type updatesPayload struct {
	Objectives    []string `json:"objectives"`
	TimelineWeeks *int     `json:"timeline_weeks"`
	FocusAreas    []string `json:"focus_areas"`
	Budget        *float64 `json:"budget"`
	UserNotes     *string  `json:"user_notes"`
	PriorityLevel *string  `json:"priority_level"`
}

func validateInterpretResponse(r interpretResponse) error {
	if r.Updates == nil {
		return fmt.Errorf("missing updates object")
	}
	return nil
}

func validateGeneratedPlan(p GeneratedPlan) error {
	if len(p.Milestones) == 0 {
		return fmt.Errorf("plan has no milestones")
	}
	return nil
}

func validateGeneratedMilestones(m GeneratedMilestones) error {
	if len(m.Milestones) == 0 {
		return fmt.Errorf("response has no milestones")
	}
	return nil
}
