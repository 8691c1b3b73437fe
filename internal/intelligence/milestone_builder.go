package intelligence

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/alexanderramin/careerplan/internal/domain"
)

// detailKeysOwnedLocally are stripped from generated details before decoding;
// the builder sets them itself.
var detailKeysOwnedLocally = []string{"last_updated", "title", "description"}

// BuildMilestone turns a generated milestone into a fresh domain milestone
// for tf. Fields the model omitted take the variant defaults.
func BuildMilestone(tf domain.Timeframe, g GeneratedMilestone, id string, now time.Time) (*domain.Milestone, error) {
	d := domain.NewDetail(tf)
	if d == nil {
		return nil, &domain.InvalidTimeframeError{Value: string(tf)}
	}

	if len(g.Details) > 0 && string(g.Details) != "null" {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(g.Details, &fields); err != nil {
			return nil, fmt.Errorf("decoding %s details: %w", tf, err)
		}
		for _, k := range detailKeysOwnedLocally {
			delete(fields, k)
		}
		cleaned, err := json.Marshal(fields)
		if err != nil {
			return nil, fmt.Errorf("re-encoding %s details: %w", tf, err)
		}
		if err := json.Unmarshal(cleaned, d); err != nil {
			return nil, fmt.Errorf("decoding %s details: %w", tf, err)
		}
	}

	title := domain.CoalesceStr(g.Title, fmt.Sprintf("%s milestone", tf))
	b := d.Base()
	b.Title = title
	b.Description = g.Overview
	b.TimelineWeeks = domain.IntFromPtrWithDefault(tf.DefaultTimelineWeeks(), &b.TimelineWeeks)
	if b.BudgetEstimate < 0 {
		b.BudgetEstimate = 0
	}
	if !b.PriorityLevel.Valid() {
		b.PriorityLevel = domain.PriorityMedium
	}
	if b.Dependencies == nil {
		b.Dependencies = []string{}
	}
	b.LastUpdated = now

	m := &domain.Milestone{
		ID:               id,
		Timeframe:        tf,
		Title:            title,
		Overview:         g.Overview,
		CompletionStatus: 0,
		Status:           domain.MilestonePending,
		Details:          d,
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}
