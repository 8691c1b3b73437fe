package repository

import (
	"context"
	"fmt"
	"reflect"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/alexanderramin/careerplan/internal/db"
)

// fakePgx is an in-process db.PgxTX. QueryRow and Query serve canned
// values; Exec records every statement it receives.
type fakePgx struct {
	row      fakeRow
	rows     *fakeRows
	queryErr error
	execErr  error
	execs    []execCall
}

type execCall struct {
	sql  string
	args []any
}

var _ db.PgxTX = (*fakePgx)(nil)

func (f *fakePgx) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.execs = append(f.execs, execCall{sql: sql, args: args})
	if f.execErr != nil {
		return pgconn.CommandTag{}, f.execErr
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (f *fakePgx) Query(context.Context, string, ...any) (pgx.Rows, error) {
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	if f.rows == nil {
		return &fakeRows{}, nil
	}
	return f.rows, nil
}

func (f *fakePgx) QueryRow(context.Context, string, ...any) pgx.Row {
	return f.row
}

type fakeRow struct {
	vals []any
	err  error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return assignColumns(dest, r.vals)
}

type fakeRows struct {
	rows   [][]any
	pos    int
	err    error
	closed bool
}

func (r *fakeRows) Close()                                       { r.closed = true }
func (r *fakeRows) Err() error                                   { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.NewCommandTag("SELECT") }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	if r.pos >= len(r.rows) {
		return false
	}
	r.pos++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	return assignColumns(dest, r.rows[r.pos-1])
}

func (r *fakeRows) Values() ([]any, error) {
	return r.rows[r.pos-1], nil
}

func assignColumns(dest, vals []any) error {
	if len(dest) != len(vals) {
		return fmt.Errorf("scan: %d destinations for %d columns", len(dest), len(vals))
	}
	for i, d := range dest {
		target := reflect.ValueOf(d).Elem()
		if vals[i] == nil {
			target.Set(reflect.Zero(target.Type()))
			continue
		}
		v := reflect.ValueOf(vals[i])
		if !v.Type().AssignableTo(target.Type()) {
			return fmt.Errorf("scan column %d: cannot assign %T to %s", i, vals[i], target.Type())
		}
		target.Set(v)
	}
	return nil
}

// fakeUoW runs fn against tx and reports the configured boundary errors.
type fakeUoW struct {
	tx        *fakePgx
	beginErr  error
	commitErr error
}

func (u *fakeUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.PgxTX) error) error {
	if u.beginErr != nil {
		return u.beginErr
	}
	if err := fn(ctx, u.tx); err != nil {
		return err
	}
	return u.commitErr
}
