package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/careerplan/internal/domain"
)

// PlanVersion is one committed snapshot of a user's plan.
type PlanVersion struct {
	PlanID      string       `json:"plan_id"`
	Version     int          `json:"version"`
	CommittedAt time.Time    `json:"committed_at"`
	Plan        *domain.Plan `json:"plan"`
}

// PlanRepo persists one plan per user. Put replaces the stored record
// and appends a version snapshot.
type PlanRepo interface {
	Get(ctx context.Context, username string) (*domain.Plan, error)
	Put(ctx context.Context, p *domain.Plan) error
	History(ctx context.Context, username string) ([]PlanVersion, error)
}

type UserProfileRepo interface {
	Get(ctx context.Context, username string) (*domain.UserProfile, error)
	Upsert(ctx context.Context, p *domain.UserProfile) error
}
