package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/careerplan/internal/db"
	"github.com/alexanderramin/careerplan/internal/domain"
	"github.com/alexanderramin/careerplan/internal/timeutil"
)

// SQLitePlanRepo implements PlanRepo using a SQLite database.
type SQLitePlanRepo struct {
	db  db.DBTX
	uow db.UnitOfWork
}

// NewSQLitePlanRepo creates a SQLitePlanRepo whose writes run in their own
// transaction.
func NewSQLitePlanRepo(conn *sql.DB) *SQLitePlanRepo {
	return &SQLitePlanRepo{db: conn, uow: db.NewSQLiteUnitOfWork(conn)}
}

// NewSQLitePlanRepoWithUoW creates a SQLitePlanRepo that reads through conn
// and writes through uow.
func NewSQLitePlanRepoWithUoW(conn db.DBTX, uow db.UnitOfWork) *SQLitePlanRepo {
	return &SQLitePlanRepo{db: conn, uow: uow}
}

func (r *SQLitePlanRepo) Get(ctx context.Context, username string) (*domain.Plan, error) {
	query := `SELECT username, plan_id, created_date, last_updated, version, overview,
		milestone_1_month, milestone_3_months, milestone_1_year, milestone_5_years
		FROM career_plans WHERE username = ?`

	var (
		row      planRow
		overview string
		slots    [4]sql.NullString
	)
	err := r.db.QueryRowContext(ctx, query, username).Scan(
		&row.Username, &row.PlanID, &row.CreatedDate, &row.LastUpdated, &row.Version, &overview,
		&slots[0], &slots[1], &slots[2], &slots[3],
	)
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("plan for %s: %w", username, ErrNotFound)
		}
		return nil, unavailable("scanning plan", err)
	}
	row.Overview = []byte(overview)
	for i := range slots {
		row.Milestones[i] = nullStringBytes(slots[i])
	}
	return decodePlan(&row)
}

func (r *SQLitePlanRepo) Put(ctx context.Context, p *domain.Plan) error {
	row, err := encodePlan(p)
	if err != nil {
		return err
	}
	snapshot, err := encodeSnapshot(p)
	if err != nil {
		return err
	}

	err = r.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		// ON CONFLICT keeps the row so plan_versions is not cascaded away.
		upsert := `INSERT INTO career_plans (username, plan_id, created_date, last_updated, version,
			overview, milestone_1_month, milestone_3_months, milestone_1_year, milestone_5_years)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(username) DO UPDATE SET
				plan_id = excluded.plan_id,
				created_date = excluded.created_date,
				last_updated = excluded.last_updated,
				version = excluded.version,
				overview = excluded.overview,
				milestone_1_month = excluded.milestone_1_month,
				milestone_3_months = excluded.milestone_3_months,
				milestone_1_year = excluded.milestone_1_year,
				milestone_5_years = excluded.milestone_5_years`
		_, err := tx.ExecContext(ctx, upsert,
			row.Username, row.PlanID, row.CreatedDate, row.LastUpdated, row.Version, string(row.Overview),
			nullableJSON(row.Milestones[0]), nullableJSON(row.Milestones[1]),
			nullableJSON(row.Milestones[2]), nullableJSON(row.Milestones[3]),
		)
		if err != nil {
			return unavailable("upserting plan", err)
		}

		_, err = tx.ExecContext(ctx, `INSERT OR REPLACE INTO plan_versions
			(plan_id, version, username, committed_at, snapshot) VALUES (?, ?, ?, ?, ?)`,
			row.PlanID, row.Version, row.Username, row.LastUpdated, string(snapshot),
		)
		if err != nil {
			return unavailable("recording plan version", err)
		}
		return nil
	})
	return txFailed("committing plan", err)
}

func (r *SQLitePlanRepo) History(ctx context.Context, username string) ([]PlanVersion, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT plan_id, version, committed_at, snapshot
		FROM plan_versions WHERE username = ? ORDER BY committed_at, version`, username)
	if err != nil {
		return nil, unavailable("querying plan history", err)
	}
	defer rows.Close()

	var out []PlanVersion
	for rows.Next() {
		var (
			v                     PlanVersion
			committedAt, snapshot string
		)
		if err := rows.Scan(&v.PlanID, &v.Version, &committedAt, &snapshot); err != nil {
			return nil, unavailable("scanning plan version", err)
		}
		if v.CommittedAt, err = timeutil.Parse(committedAt); err != nil {
			return nil, fmt.Errorf("parsing committed_at: %w", err)
		}
		if v.Plan, err = decodeSnapshot([]byte(snapshot)); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("iterating plan history", err)
	}
	return out, nil
}
