package repository

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/alexanderramin/careerplan/internal/domain"
	"github.com/alexanderramin/careerplan/internal/timeutil"
)

// planRow is the column-level encoding of a plan shared by the SQL stores.
type planRow struct {
	Username    string
	PlanID      string
	CreatedDate string
	LastUpdated string
	Version     int
	Overview    []byte
	Milestones  [4][]byte
}

func encodePlan(p *domain.Plan) (*planRow, error) {
	overview, err := json.Marshal(p.Overview)
	if err != nil {
		return nil, fmt.Errorf("encoding overview: %w", err)
	}
	row := &planRow{
		Username:    p.UserID,
		PlanID:      p.ID,
		CreatedDate: timeutil.Format(p.CreatedAt),
		LastUpdated: timeutil.Format(p.LastUpdated),
		Version:     p.Version,
		Overview:    overview,
	}
	for i, tf := range domain.Timeframes() {
		m := p.Milestone(tf)
		if m == nil {
			continue
		}
		b, err := json.Marshal(m)
		if err != nil {
			return nil, fmt.Errorf("encoding %s milestone: %w", tf, err)
		}
		row.Milestones[i] = b
	}
	return row, nil
}

func decodePlan(row *planRow) (*domain.Plan, error) {
	p := &domain.Plan{
		ID:      row.PlanID,
		UserID:  row.Username,
		Version: row.Version,
	}
	var err error
	if p.CreatedAt, err = timeutil.Parse(row.CreatedDate); err != nil {
		return nil, fmt.Errorf("parsing created_date: %w", err)
	}
	if p.LastUpdated, err = timeutil.Parse(row.LastUpdated); err != nil {
		return nil, fmt.Errorf("parsing last_updated: %w", err)
	}
	if err := json.Unmarshal(row.Overview, &p.Overview); err != nil {
		return nil, fmt.Errorf("decoding overview: %w", err)
	}
	for i, tf := range domain.Timeframes() {
		raw := row.Milestones[i]
		if len(raw) == 0 || string(raw) == "null" {
			continue
		}
		var m domain.Milestone
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("decoding %s milestone: %w", tf, err)
		}
		p.SetMilestone(tf, &m)
	}
	return p, nil
}

func encodeSnapshot(p *domain.Plan) ([]byte, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encoding plan snapshot: %w", err)
	}
	return b, nil
}

func decodeSnapshot(b []byte) (*domain.Plan, error) {
	var p domain.Plan
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, fmt.Errorf("decoding plan snapshot: %w", err)
	}
	return &p, nil
}

// nullableJSON maps an empty column to SQL NULL.
func nullableJSON(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}

func nullStringBytes(s sql.NullString) []byte {
	if !s.Valid {
		return nil
	}
	return []byte(s.String)
}

// unavailable tags a driver failure as ErrStoreUnavailable while keeping
// the underlying cause in the chain.
func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
}

// txFailed tags a transaction boundary failure that no statement inside
// the transaction already classified.
func txFailed(op string, err error) error {
	if err == nil || errors.Is(err, ErrStoreUnavailable) {
		return err
	}
	return unavailable(op, err)
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows)
}
