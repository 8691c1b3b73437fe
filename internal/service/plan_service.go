package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/careerplan/internal/domain"
	"github.com/alexanderramin/careerplan/internal/intelligence"
	"github.com/alexanderramin/careerplan/internal/repository"
	"github.com/alexanderramin/careerplan/internal/timeutil"
)

type planService struct {
	engine      CascadeEngine
	interpreter intelligence.UpdateInterpreter
	plans       repository.PlanRepo
	profiles    repository.UserProfileRepo
	clock       timeutil.Clock
	observer    UseCaseObserver
}

func NewPlanService(
	engine CascadeEngine,
	interpreter intelligence.UpdateInterpreter,
	plans repository.PlanRepo,
	profiles repository.UserProfileRepo,
	clock timeutil.Clock,
	observers ...UseCaseObserver,
) PlanService {
	if clock == nil {
		clock = timeutil.SystemClock
	}
	return &planService{
		engine:      engine,
		interpreter: interpreter,
		plans:       plans,
		profiles:    profiles,
		clock:       clock,
		observer:    useCaseObserverOrNoop(observers),
	}
}

// track starts a use-case measurement; call the returned func with the
// final error.
func (s *planService) track(ctx context.Context, name string, fields map[string]any) func(error) {
	startedAt := time.Now().UTC()
	return func(err error) {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      name,
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}
}

func (s *planService) GeneratePlan(ctx context.Context, username string) (result *GenerateResult, err error) {
	fields := map[string]any{"user": username}
	done := s.track(ctx, "generate-plan", fields)
	defer func() { done(err) }()

	profile, err := s.loadProfile(ctx, username)
	if err != nil {
		return nil, err
	}

	existing, err := s.plans.Get(ctx, username)
	switch {
	case err == nil:
		if timeutil.IsNewer(existing.LastUpdated, profile.LastUpdated) {
			fields["reused"] = true
			return &GenerateResult{Plan: existing, Reused: true}, nil
		}
	case errors.Is(err, repository.ErrNotFound):
	default:
		return nil, fmt.Errorf("loading plan: %w", err)
	}

	plan, err := s.engine.GenerateInitial(ctx, profile)
	if err != nil {
		return nil, err
	}
	fields["plan_id"] = plan.ID
	return &GenerateResult{Plan: plan}, nil
}

func (s *planService) GetPlan(ctx context.Context, username string) (*domain.Plan, error) {
	return s.loadPlan(ctx, username)
}

func (s *planService) GetMilestone(ctx context.Context, username string, tf domain.Timeframe) (*domain.Milestone, error) {
	if !tf.Valid() {
		return nil, &domain.InvalidTimeframeError{Value: string(tf)}
	}
	plan, err := s.loadPlan(ctx, username)
	if err != nil {
		return nil, err
	}
	m := plan.Milestone(tf)
	if m == nil {
		return nil, &domain.MilestoneNotFoundError{Timeframe: tf, UserID: username}
	}
	return m, nil
}

func (s *planService) UpdateFromThoughts(ctx context.Context, username string, tf domain.Timeframe, thoughts, userContext string) (result *ThoughtsResult, err error) {
	fields := map[string]any{"user": username, "timeframe": tf.String()}
	done := s.track(ctx, "update-cascade", fields)
	defer func() { done(err) }()

	plan, update, err := s.interpret(ctx, username, tf, thoughts, userContext)
	if err != nil {
		return nil, err
	}
	cascade, err := s.engine.ApplyCascade(ctx, plan, tf, update)
	if err != nil {
		return nil, err
	}
	fields["version"] = cascade.Plan.Version
	fields["degraded"] = len(cascade.Degraded)
	return &ThoughtsResult{Update: update, Cascade: cascade}, nil
}

func (s *planService) DirectUpdate(ctx context.Context, username string, tf domain.Timeframe, update domain.StructuredUpdate) (result *CascadeResult, err error) {
	fields := map[string]any{"user": username, "timeframe": tf.String()}
	done := s.track(ctx, "direct-update", fields)
	defer func() { done(err) }()

	if !tf.Valid() {
		return nil, &domain.InvalidTimeframeError{Value: string(tf)}
	}
	plan, err := s.loadPlan(ctx, username)
	if err != nil {
		return nil, err
	}
	result, err = s.engine.ApplyCascade(ctx, plan, tf, update)
	if err != nil {
		return nil, err
	}
	fields["version"] = result.Plan.Version
	fields["degraded"] = len(result.Degraded)
	return result, nil
}

func (s *planService) RegenerateSubsequent(ctx context.Context, username string, ref domain.Timeframe, targets []domain.Timeframe) (result *CascadeResult, err error) {
	fields := map[string]any{"user": username, "reference": ref.String(), "targets": len(targets)}
	done := s.track(ctx, "regenerate-subsequent", fields)
	defer func() { done(err) }()

	if !ref.Valid() {
		return nil, &domain.InvalidTimeframeError{Value: string(ref)}
	}
	plan, err := s.loadPlan(ctx, username)
	if err != nil {
		return nil, err
	}
	result, err = s.engine.RegenerateSpecific(ctx, plan, ref, targets)
	if err != nil {
		return nil, err
	}
	fields["version"] = result.Plan.Version
	fields["degraded"] = len(result.Degraded)
	return result, nil
}

func (s *planService) PreviewThoughts(ctx context.Context, username string, tf domain.Timeframe, thoughts, userContext string) (update domain.StructuredUpdate, err error) {
	done := s.track(ctx, "process-thoughts", map[string]any{"user": username, "timeframe": tf.String()})
	defer func() { done(err) }()

	_, update, err = s.interpret(ctx, username, tf, thoughts, userContext)
	return update, err
}

func (s *planService) History(ctx context.Context, username string) ([]repository.PlanVersion, error) {
	versions, err := s.plans.History(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("loading plan history: %w", err)
	}
	if len(versions) == 0 {
		return nil, fmt.Errorf("user %s: %w", username, domain.ErrPlanNotFound)
	}
	return versions, nil
}

func (s *planService) UpsertProfile(ctx context.Context, profile *domain.UserProfile) (out *domain.UserProfile, err error) {
	if profile == nil || strings.TrimSpace(profile.Username) == "" {
		return nil, errors.New("profile username is required")
	}
	done := s.track(ctx, "upsert-profile", map[string]any{"user": profile.Username})
	defer func() { done(err) }()

	now := s.clock()
	out = new(domain.UserProfile)
	*out = *profile
	out.CreatedAt = now

	existing, err := s.profiles.Get(ctx, profile.Username)
	switch {
	case err == nil:
		out.CreatedAt = existing.CreatedAt
		out.LastUpdated = timeutil.Later(now, existing.LastUpdated)
	case errors.Is(err, repository.ErrNotFound):
		out.LastUpdated = now
	default:
		return nil, fmt.Errorf("loading profile: %w", err)
	}

	if err := s.profiles.Upsert(ctx, out); err != nil {
		return nil, fmt.Errorf("storing profile: %w", err)
	}
	return out, nil
}

// interpret loads the plan and turns thoughts into a structured update for
// tf's milestone. Generation failures are already absorbed by the
// interpreter's fallback.
func (s *planService) interpret(ctx context.Context, username string, tf domain.Timeframe, thoughts, userContext string) (*domain.Plan, domain.StructuredUpdate, error) {
	if !tf.Valid() {
		return nil, domain.StructuredUpdate{}, &domain.InvalidTimeframeError{Value: string(tf)}
	}
	if strings.TrimSpace(thoughts) == "" {
		return nil, domain.StructuredUpdate{}, ErrEmptyThoughts
	}
	plan, err := s.loadPlan(ctx, username)
	if err != nil {
		return nil, domain.StructuredUpdate{}, err
	}
	current := plan.Milestone(tf)
	if current == nil {
		return nil, domain.StructuredUpdate{}, &domain.MilestoneNotFoundError{Timeframe: tf, UserID: username}
	}
	update, err := s.interpreter.Interpret(ctx, tf, current, thoughts, userContext)
	if err != nil {
		return nil, domain.StructuredUpdate{}, err
	}
	return plan, update, nil
}

func (s *planService) loadPlan(ctx context.Context, username string) (*domain.Plan, error) {
	plan, err := s.plans.Get(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("user %s: %w", username, domain.ErrPlanNotFound)
		}
		return nil, fmt.Errorf("loading plan: %w", err)
	}
	return plan, nil
}

func (s *planService) loadProfile(ctx context.Context, username string) (*domain.UserProfile, error) {
	profile, err := s.profiles.Get(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &domain.UserNotFoundError{UserID: username}
		}
		return nil, fmt.Errorf("loading profile: %w", err)
	}
	return profile, nil
}
