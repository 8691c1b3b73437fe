package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/careerplan/internal/testutil"
)

func TestPostgresUserProfileRepo_Get(t *testing.T) {
	want := testutil.NewTestProfile("ada")
	conn := &fakePgx{row: fakeRow{vals: []any{
		want.Username, want.InterestsValues, want.WorkExperience, want.Circumstances,
		want.Skills, want.Goals, want.CreatedAt, want.LastUpdated,
	}}}

	got, err := NewPostgresUserProfileRepo(conn).Get(context.Background(), "ada")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestPostgresUserProfileRepo_Get_ErrorClassification(t *testing.T) {
	_, err := NewPostgresUserProfileRepo(&fakePgx{row: fakeRow{err: pgx.ErrNoRows}}).Get(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = NewPostgresUserProfileRepo(&fakePgx{row: fakeRow{err: errors.New("timeout")}}).Get(context.Background(), "ada")
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestPostgresUserProfileRepo_Upsert(t *testing.T) {
	p := testutil.NewTestProfile("ada")
	conn := &fakePgx{}
	require.NoError(t, NewPostgresUserProfileRepo(conn).Upsert(context.Background(), p))
	require.Len(t, conn.execs, 1)
	assert.Contains(t, conn.execs[0].sql, "ON CONFLICT (username)")
	assert.Equal(t, []any{p.Username, p.InterestsValues, p.WorkExperience, p.Circumstances,
		p.Skills, p.Goals, p.CreatedAt, p.LastUpdated}, conn.execs[0].args)

	conn = &fakePgx{execErr: errors.New("disk full")}
	err := NewPostgresUserProfileRepo(conn).Upsert(context.Background(), p)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}
