package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/careerplan/internal/db"
	"github.com/alexanderramin/careerplan/internal/domain"
)

// PostgresUserProfileRepo implements UserProfileRepo on PostgreSQL.
type PostgresUserProfileRepo struct {
	db db.PgxTX
}

func NewPostgresUserProfileRepo(conn db.PgxTX) *PostgresUserProfileRepo {
	return &PostgresUserProfileRepo{db: conn}
}

func (r *PostgresUserProfileRepo) Get(ctx context.Context, username string) (*domain.UserProfile, error) {
	var p domain.UserProfile
	err := r.db.QueryRow(ctx, `SELECT username, interests_values, work_experience, circumstances,
		skills, goals, created_at, last_updated
		FROM user_profiles WHERE username = $1`, username).Scan(
		&p.Username, &p.InterestsValues, &p.WorkExperience, &p.Circumstances,
		&p.Skills, &p.Goals, &p.CreatedAt, &p.LastUpdated,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("user profile %s: %w", username, ErrNotFound)
		}
		return nil, unavailable("scanning user profile", err)
	}
	p.CreatedAt = p.CreatedAt.UTC()
	p.LastUpdated = p.LastUpdated.UTC()
	return &p, nil
}

func (r *PostgresUserProfileRepo) Upsert(ctx context.Context, p *domain.UserProfile) error {
	_, err := r.db.Exec(ctx, `INSERT INTO user_profiles (username, interests_values, work_experience,
		circumstances, skills, goals, created_at, last_updated)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (username) DO UPDATE SET
			interests_values = EXCLUDED.interests_values,
			work_experience = EXCLUDED.work_experience,
			circumstances = EXCLUDED.circumstances,
			skills = EXCLUDED.skills,
			goals = EXCLUDED.goals,
			last_updated = EXCLUDED.last_updated`,
		p.Username, p.InterestsValues, p.WorkExperience, p.Circumstances,
		p.Skills, p.Goals, p.CreatedAt, p.LastUpdated,
	)
	if err != nil {
		return unavailable("upserting user profile", err)
	}
	return nil
}
