package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/alexanderramin/careerplan/internal/domain"
	"github.com/alexanderramin/careerplan/internal/intelligence"
	"github.com/alexanderramin/careerplan/internal/metrics"
	"github.com/alexanderramin/careerplan/internal/repository"
	"github.com/alexanderramin/careerplan/internal/timeutil"
)

// CascadeState is one step of a cascade operation. Committed is terminal;
// there is no retry state.
type CascadeState string

const (
	StateTargetUpdated         CascadeState = "target_updated"
	StateDownstreamComputed    CascadeState = "downstream_computed"
	StateDownstreamRegenerated CascadeState = "downstream_regenerated"
	StateCommitted             CascadeState = "committed"
)

// CascadeResult is the committed plan plus what the cascade did to it.
type CascadeResult struct {
	Plan      *domain.Plan
	Reference domain.Timeframe
	// Affected lists the downstream (or explicitly targeted) timeframes in
	// canonical order. Regenerated and Degraded partition its non-null slots.
	Affected    []domain.Timeframe
	Regenerated []domain.Timeframe
	Degraded    []domain.Timeframe
	Trace       []CascadeState
}

func (r *CascadeResult) enter(s CascadeState) {
	r.Trace = append(r.Trace, s)
}

type cascadeEngine struct {
	generator intelligence.PlanGenerator
	plans     repository.PlanRepo
	clock     timeutil.Clock
	log       *zap.Logger
	recorder  CascadeRecorder
}

// NewCascadeEngine wires the engine to its generator and store. A nil clock
// uses the system clock; a nil recorder discards outcomes.
func NewCascadeEngine(
	generator intelligence.PlanGenerator,
	plans repository.PlanRepo,
	clock timeutil.Clock,
	log *zap.Logger,
	recorder CascadeRecorder,
) CascadeEngine {
	if clock == nil {
		clock = timeutil.SystemClock
	}
	if log == nil {
		log = zap.NewNop()
	}
	if recorder == nil {
		recorder = noopRecorder{}
	}
	return &cascadeEngine{
		generator: generator,
		plans:     plans,
		clock:     clock,
		log:       log.Named("cascade"),
		recorder:  recorder,
	}
}

func (e *cascadeEngine) ApplyCascade(ctx context.Context, plan *domain.Plan, tf domain.Timeframe, update domain.StructuredUpdate) (*CascadeResult, error) {
	if !tf.Valid() {
		return nil, &domain.InvalidTimeframeError{Value: string(tf)}
	}
	if plan == nil {
		return nil, domain.ErrPlanNotFound
	}
	if err := update.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidUpdate, err)
	}

	work := plan.Clone()
	target := work.Milestone(tf)
	if target == nil {
		return nil, &domain.MilestoneNotFoundError{Timeframe: tf, UserID: plan.UserID}
	}

	now := e.clock()
	res := &CascadeResult{Reference: tf}

	update.ApplyTo(target.Details, now)
	res.enter(StateTargetUpdated)

	res.Affected = tf.Downstream()
	res.enter(StateDownstreamComputed)

	if len(res.Affected) > 0 {
		e.regenerate(ctx, work, tf, res.Affected, now, res)
		res.enter(StateDownstreamRegenerated)
	}

	return e.commit(ctx, plan, work, "cascade", now, res)
}

func (e *cascadeEngine) RegenerateSpecific(ctx context.Context, plan *domain.Plan, ref domain.Timeframe, targets []domain.Timeframe) (*CascadeResult, error) {
	if !ref.Valid() {
		return nil, &domain.InvalidTimeframeError{Value: string(ref)}
	}
	seen := make(map[domain.Timeframe]bool, len(targets))
	ordered := make([]domain.Timeframe, 0, len(targets))
	for _, tf := range targets {
		if !tf.Valid() {
			return nil, &domain.InvalidTimeframeError{Value: string(tf)}
		}
		if !seen[tf] {
			seen[tf] = true
			ordered = append(ordered, tf)
		}
	}
	if len(ordered) == 0 {
		return nil, ErrNoTargets
	}
	if plan == nil {
		return nil, domain.ErrPlanNotFound
	}
	if plan.Milestone(ref) == nil {
		return nil, &domain.MilestoneNotFoundError{Timeframe: ref, UserID: plan.UserID}
	}

	work := plan.Clone()
	now := e.clock()
	res := &CascadeResult{Reference: ref, Affected: ordered}
	res.enter(StateDownstreamComputed)

	e.regenerate(ctx, work, ref, ordered, now, res)
	res.enter(StateDownstreamRegenerated)

	return e.commit(ctx, plan, work, "regenerate", now, res)
}

func (e *cascadeEngine) GenerateInitial(ctx context.Context, profile *domain.UserProfile) (*domain.Plan, error) {
	if profile == nil || profile.Username == "" {
		return nil, &domain.UserNotFoundError{}
	}

	now := e.clock()
	plan, err := e.generator.GeneratePlan(ctx, *profile, now)
	if err != nil {
		e.log.Warn("initial plan generation failed",
			zap.String("user", profile.Username), zap.Error(err))
		return nil, &domain.PlanGenerationError{UserID: profile.Username, Err: err}
	}

	if err := e.plans.Put(ctx, plan); err != nil {
		return nil, fmt.Errorf("storing initial plan for %s: %w", profile.Username, err)
	}
	e.recorder.RecordCommit("generate")
	e.log.Info("initial plan generated",
		zap.String("user", profile.Username),
		zap.String("plan_id", plan.ID),
		zap.Int("milestones", len(plan.Milestones())),
	)
	return plan, nil
}

// regenerate replaces each target the generator produced and degrades the
// rest. A generation error degrades every target.
func (e *cascadeEngine) regenerate(ctx context.Context, work *domain.Plan, ref domain.Timeframe, targets []domain.Timeframe, now time.Time, res *CascadeResult) {
	generated, err := e.generator.RegenerateMilestones(ctx, work, ref, targets, now)
	if err != nil {
		e.log.Warn("regeneration failed, degrading downstream milestones",
			zap.String("plan_id", work.ID),
			zap.String("reference", ref.String()),
			zap.Error(err),
		)
		generated = nil
	}

	for _, tf := range targets {
		if m, ok := generated[tf]; ok {
			work.SetMilestone(tf, m)
			res.Regenerated = append(res.Regenerated, tf)
			e.recorder.RecordCascade(tf.String(), metrics.OutcomeRegenerated)
			continue
		}
		if degrade(work.Milestone(tf), ref, now) {
			res.Degraded = append(res.Degraded, tf)
			e.recorder.RecordCascade(tf.String(), metrics.OutcomeDegraded)
		}
	}
}

// degrade marks an existing milestone as touched by ref's change. Empty
// slots stay empty.
func degrade(m *domain.Milestone, ref domain.Timeframe, now time.Time) bool {
	if m == nil || m.Details == nil {
		return false
	}
	b := m.Details.Base()
	b.Dependencies = append(b.Dependencies, fmt.Sprintf("Updated due to %s changes", ref))
	b.LastUpdated = now
	return true
}

// commit stamps and persists work. Nothing is written before this point.
func (e *cascadeEngine) commit(ctx context.Context, prev, work *domain.Plan, op string, now time.Time, res *CascadeResult) (*CascadeResult, error) {
	work.LastUpdated = timeutil.Later(now, prev.LastUpdated)
	work.Version = prev.Version + 1

	if err := e.plans.Put(ctx, work); err != nil {
		return nil, fmt.Errorf("committing plan %s version %d: %w", work.ID, work.Version, err)
	}
	res.enter(StateCommitted)
	res.Plan = work
	e.recorder.RecordCommit(op)

	e.log.Info("plan committed",
		zap.String("plan_id", work.ID),
		zap.String("operation", op),
		zap.Int("version", work.Version),
		zap.String("reference", res.Reference.String()),
		zap.Int("regenerated", len(res.Regenerated)),
		zap.Int("degraded", len(res.Degraded)),
	)
	return res, nil
}
