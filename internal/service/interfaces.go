package service

import (
	"context"

	"github.com/alexanderramin/careerplan/internal/domain"
	"github.com/alexanderramin/careerplan/internal/repository"
)

// CascadeEngine owns update ordering and generation fallback for one plan.
// Every method works on a copy of the input plan and persists last.
type CascadeEngine interface {
	ApplyCascade(ctx context.Context, plan *domain.Plan, tf domain.Timeframe, update domain.StructuredUpdate) (*CascadeResult, error)
	RegenerateSpecific(ctx context.Context, plan *domain.Plan, ref domain.Timeframe, targets []domain.Timeframe) (*CascadeResult, error)
	GenerateInitial(ctx context.Context, profile *domain.UserProfile) (*domain.Plan, error)
}

// PlanService exposes the per-user use cases served over HTTP and the CLI.
type PlanService interface {
	GeneratePlan(ctx context.Context, username string) (*GenerateResult, error)
	GetPlan(ctx context.Context, username string) (*domain.Plan, error)
	GetMilestone(ctx context.Context, username string, tf domain.Timeframe) (*domain.Milestone, error)
	UpdateFromThoughts(ctx context.Context, username string, tf domain.Timeframe, thoughts, userContext string) (*ThoughtsResult, error)
	DirectUpdate(ctx context.Context, username string, tf domain.Timeframe, update domain.StructuredUpdate) (*CascadeResult, error)
	RegenerateSubsequent(ctx context.Context, username string, ref domain.Timeframe, targets []domain.Timeframe) (*CascadeResult, error)
	PreviewThoughts(ctx context.Context, username string, tf domain.Timeframe, thoughts, userContext string) (domain.StructuredUpdate, error)
	History(ctx context.Context, username string) ([]repository.PlanVersion, error)
	UpsertProfile(ctx context.Context, profile *domain.UserProfile) (*domain.UserProfile, error)
}

// GenerateResult reports whether GeneratePlan returned a stored plan or
// produced a new one.
type GenerateResult struct {
	Plan   *domain.Plan
	Reused bool
}

// ThoughtsResult bundles the interpreted update with the cascade it drove.
type ThoughtsResult struct {
	Update  domain.StructuredUpdate
	Cascade *CascadeResult
}
