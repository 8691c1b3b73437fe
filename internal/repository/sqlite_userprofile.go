package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/careerplan/internal/db"
	"github.com/alexanderramin/careerplan/internal/domain"
	"github.com/alexanderramin/careerplan/internal/timeutil"
)

// SQLiteUserProfileRepo implements UserProfileRepo using a SQLite database.
type SQLiteUserProfileRepo struct {
	db db.DBTX
}

// NewSQLiteUserProfileRepo creates a new SQLiteUserProfileRepo.
func NewSQLiteUserProfileRepo(conn db.DBTX) *SQLiteUserProfileRepo {
	return &SQLiteUserProfileRepo{db: conn}
}

func (r *SQLiteUserProfileRepo) Get(ctx context.Context, username string) (*domain.UserProfile, error) {
	query := `SELECT username, interests_values, work_experience, circumstances, skills, goals,
		created_at, last_updated
		FROM user_profiles WHERE username = ?`
	row := r.db.QueryRowContext(ctx, query, username)

	var (
		p                    domain.UserProfile
		createdAt, updatedAt string
	)
	err := row.Scan(
		&p.Username,
		&p.InterestsValues,
		&p.WorkExperience,
		&p.Circumstances,
		&p.Skills,
		&p.Goals,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("user profile %s: %w", username, ErrNotFound)
		}
		return nil, unavailable("scanning user profile", err)
	}
	if p.CreatedAt, err = timeutil.Parse(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if p.LastUpdated, err = timeutil.Parse(updatedAt); err != nil {
		return nil, fmt.Errorf("parsing last_updated: %w", err)
	}
	return &p, nil
}

func (r *SQLiteUserProfileRepo) Upsert(ctx context.Context, p *domain.UserProfile) error {
	query := `INSERT INTO user_profiles (username, interests_values, work_experience,
		circumstances, skills, goals, created_at, last_updated)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(username) DO UPDATE SET
			interests_values = excluded.interests_values,
			work_experience = excluded.work_experience,
			circumstances = excluded.circumstances,
			skills = excluded.skills,
			goals = excluded.goals,
			last_updated = excluded.last_updated`
	_, err := r.db.ExecContext(ctx, query,
		p.Username,
		p.InterestsValues,
		p.WorkExperience,
		p.Circumstances,
		p.Skills,
		p.Goals,
		timeutil.Format(p.CreatedAt),
		timeutil.Format(p.LastUpdated),
	)
	if err != nil {
		return unavailable("upserting user profile", err)
	}
	return nil
}
