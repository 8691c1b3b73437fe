package intelligence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/alexanderramin/careerplan/internal/domain"
	"github.com/alexanderramin/careerplan/internal/llm"
)

// PlanGenerator produces plans and milestones from the model. Errors from
// generation are returned as *llm.GenerationFailure; fallback policy belongs
// to the caller.
type PlanGenerator interface {
	// GeneratePlan builds a complete version-1 plan for the profile.
	GeneratePlan(ctx context.Context, profile domain.UserProfile, now time.Time) (*domain.Plan, error)

	// RegenerateMilestones asks for fresh milestones for targets in light of
	// plan's ref milestone. Timeframes the model left out, or returned in an
	// unusable shape, are absent from the result.
	RegenerateMilestones(ctx context.Context, plan *domain.Plan, ref domain.Timeframe, targets []domain.Timeframe, now time.Time) (map[domain.Timeframe]*domain.Milestone, error)
}

type planGenerator struct {
	client llm.LLMClient
	log    *zap.Logger
	newID  func() string
}

// NewPlanGenerator creates a PlanGenerator backed by an LLM client.
func NewPlanGenerator(client llm.LLMClient, log *zap.Logger) PlanGenerator {
	if log == nil {
		log = zap.NewNop()
	}
	return &planGenerator{
		client: client,
		log:    log.Named("generator"),
		newID:  func() string { return uuid.NewString()[:8] },
	}
}

// MilestoneID is the deterministic id given to milestones of a new plan.
func MilestoneID(tf domain.Timeframe, created time.Time) string {
	return fmt.Sprintf("%s_%s", tf, created.UTC().Format("20060102"))
}

// PlanID is derived from the owner and the creation instant.
func PlanID(username string, created time.Time) string {
	return fmt.Sprintf("plan_%s_%s", username, created.UTC().Format("20060102_150405"))
}

func (g *planGenerator) GeneratePlan(ctx context.Context, profile domain.UserProfile, now time.Time) (*domain.Plan, error) {
	gen, err := llm.GenerateJSON(ctx, g.client, llm.GenerateRequest{
		Task:         llm.TaskPlanGenerate,
		SystemPrompt: planSystemPrompt,
		UserPrompt:   buildPlanPrompt(profile),
	}, validateGeneratedPlan)
	if err != nil {
		return nil, err
	}

	plan := &domain.Plan{
		ID:          PlanID(profile.Username, now),
		UserID:      profile.Username,
		Overview:    gen.Overview,
		CreatedAt:   now,
		LastUpdated: now,
		Version:     1,
	}
	for _, tf := range domain.Timeframes() {
		gm, ok := gen.Milestones[tf.String()]
		if !ok {
			continue
		}
		m, err := BuildMilestone(tf, gm, MilestoneID(tf, now), now)
		if err != nil {
			return nil, &llm.GenerationFailure{Task: llm.TaskPlanGenerate, Err: fmt.Errorf("%w: %v", llm.ErrMalformedGeneration, err)}
		}
		plan.SetMilestone(tf, m)
	}
	if len(plan.Milestones()) == 0 {
		return nil, &llm.GenerationFailure{Task: llm.TaskPlanGenerate, Err: fmt.Errorf("%w: no recognised timeframes", llm.ErrMalformedGeneration)}
	}
	return plan, nil
}

func (g *planGenerator) RegenerateMilestones(ctx context.Context, plan *domain.Plan, ref domain.Timeframe, targets []domain.Timeframe, now time.Time) (map[domain.Timeframe]*domain.Milestone, error) {
	gen, err := llm.GenerateJSON(ctx, g.client, llm.GenerateRequest{
		Task:         llm.TaskCascade,
		SystemPrompt: cascadeSystemPrompt,
		UserPrompt:   buildCascadePrompt(plan, ref, targets),
	}, validateGeneratedMilestones)
	if err != nil {
		return nil, err
	}

	out := make(map[domain.Timeframe]*domain.Milestone, len(targets))
	for _, tf := range targets {
		gm, ok := gen.Milestones[tf.String()]
		if !ok {
			g.log.Warn("regenerated milestone missing from response", zap.String("timeframe", tf.String()))
			continue
		}
		id := MilestoneID(tf, now) + "_" + g.newID()
		m, err := BuildMilestone(tf, gm, id, now)
		if err != nil {
			g.log.Warn("regenerated milestone unusable", zap.String("timeframe", tf.String()), zap.Error(err))
			continue
		}
		out[tf] = m
	}
	return out, nil
}
