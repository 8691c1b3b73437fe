package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alexanderramin/careerplan/internal/db"
	"github.com/alexanderramin/careerplan/internal/domain"
	"github.com/alexanderramin/careerplan/internal/timeutil"
)

// PostgresPlanRepo implements PlanRepo on PostgreSQL through pgx. Milestone
// slots are stored as nullable JSONB.
type PostgresPlanRepo struct {
	db  db.PgxTX
	uow db.PgxUnitOfWork
}

// NewPostgresPlanRepo creates a PostgresPlanRepo over pool.
func NewPostgresPlanRepo(pool *pgxpool.Pool) *PostgresPlanRepo {
	return &PostgresPlanRepo{db: pool, uow: db.NewPgxUnitOfWork(pool)}
}

// NewPostgresPlanRepoWithUoW creates a PostgresPlanRepo that reads through
// conn and writes through uow.
func NewPostgresPlanRepoWithUoW(conn db.PgxTX, uow db.PgxUnitOfWork) *PostgresPlanRepo {
	return &PostgresPlanRepo{db: conn, uow: uow}
}

func (r *PostgresPlanRepo) Get(ctx context.Context, username string) (*domain.Plan, error) {
	var (
		row                  planRow
		createdAt, updatedAt time.Time
	)
	err := r.db.QueryRow(ctx, `SELECT username, plan_id, created_date, last_updated, version, overview,
		milestone_1_month, milestone_3_months, milestone_1_year, milestone_5_years
		FROM career_plans WHERE username = $1`, username).Scan(
		&row.Username, &row.PlanID, &createdAt, &updatedAt, &row.Version, &row.Overview,
		&row.Milestones[0], &row.Milestones[1], &row.Milestones[2], &row.Milestones[3],
	)
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("plan for %s: %w", username, ErrNotFound)
		}
		return nil, unavailable("scanning plan", err)
	}
	row.CreatedDate = timeutil.Format(createdAt)
	row.LastUpdated = timeutil.Format(updatedAt)
	return decodePlan(&row)
}

func (r *PostgresPlanRepo) Put(ctx context.Context, p *domain.Plan) error {
	row, err := encodePlan(p)
	if err != nil {
		return err
	}
	snapshot, err := encodeSnapshot(p)
	if err != nil {
		return err
	}

	err = r.uow.WithinTx(ctx, func(ctx context.Context, tx db.PgxTX) error {
		_, err := tx.Exec(ctx, `INSERT INTO career_plans (username, plan_id, created_date, last_updated,
			version, overview, milestone_1_month, milestone_3_months, milestone_1_year, milestone_5_years)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			ON CONFLICT (username) DO UPDATE SET
				plan_id = EXCLUDED.plan_id,
				created_date = EXCLUDED.created_date,
				last_updated = EXCLUDED.last_updated,
				version = EXCLUDED.version,
				overview = EXCLUDED.overview,
				milestone_1_month = EXCLUDED.milestone_1_month,
				milestone_3_months = EXCLUDED.milestone_3_months,
				milestone_1_year = EXCLUDED.milestone_1_year,
				milestone_5_years = EXCLUDED.milestone_5_years`,
			row.Username, row.PlanID, p.CreatedAt, p.LastUpdated, row.Version, row.Overview,
			row.Milestones[0], row.Milestones[1], row.Milestones[2], row.Milestones[3],
		)
		if err != nil {
			return unavailable("upserting plan", err)
		}

		_, err = tx.Exec(ctx, `INSERT INTO plan_versions (plan_id, version, username, committed_at, snapshot)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (plan_id, version) DO UPDATE SET
				committed_at = EXCLUDED.committed_at,
				snapshot = EXCLUDED.snapshot`,
			row.PlanID, row.Version, row.Username, p.LastUpdated, snapshot,
		)
		if err != nil {
			return unavailable("recording plan version", err)
		}
		return nil
	})
	return txFailed("committing plan", err)
}

func (r *PostgresPlanRepo) History(ctx context.Context, username string) ([]PlanVersion, error) {
	rows, err := r.db.Query(ctx, `SELECT plan_id, version, committed_at, snapshot
		FROM plan_versions WHERE username = $1 ORDER BY committed_at, version`, username)
	if err != nil {
		return nil, unavailable("querying plan history", err)
	}
	defer rows.Close()

	var out []PlanVersion
	for rows.Next() {
		var (
			v        PlanVersion
			snapshot []byte
		)
		if err := rows.Scan(&v.PlanID, &v.Version, &v.CommittedAt, &snapshot); err != nil {
			return nil, unavailable("scanning plan version", err)
		}
		v.CommittedAt = v.CommittedAt.UTC()
		if v.Plan, err = decodeSnapshot(snapshot); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("iterating plan history", err)
	}
	return out, nil
}
