package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Domenick1991/airbooking-web/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *string:
			*p = r.values[i].(string)
		case *int64:
			*p = r.values[i].(int64)
		case *domain.Money:
			*p = r.values[i].(domain.Money)
		case *domain.SubmissionState:
			*p = r.values[i].(domain.SubmissionState)
		case *time.Time:
			*p = r.values[i].(time.Time)
		}
	}
	return nil
}

type fakeDB struct {
	row  fakeRow
	sql  string
	args []any
}

func (f *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.sql, f.args = sql, args
	return pgconn.CommandTag{}, nil
}

func (f *fakeDB) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errors.New("not supported")
}

func (f *fakeDB) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	f.sql, f.args = sql, args
	return f.row
}

func TestNewSubmissionRepository(t *testing.T) {
	pool := &pgxpool.Pool{}
	repo := NewSubmissionRepository(pool)
	assert.NotNil(t, repo)
}

func TestRecord_DuplicateDraftIsIgnored(t *testing.T) {
	db := &fakeDB{row: fakeRow{err: pgx.ErrNoRows}}
	repo := &PGSubmissionRepository{db: db}

	err := repo.Record(context.Background(), &domain.Submission{DraftID: "d1", BookingID: 55, State: domain.SubmissionPending})
	require.NoError(t, err)
	assert.Contains(t, db.sql, "ON CONFLICT (draft_id) DO NOTHING")
	assert.Equal(t, "d1", db.args[0])
}

func TestRecord_SetsTimestamps(t *testing.T) {
	now := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	db := &fakeDB{row: fakeRow{values: []any{now, now}}}
	repo := &PGSubmissionRepository{db: db}

	s := &domain.Submission{DraftID: "d1", BookingID: 55}
	require.NoError(t, repo.Record(context.Background(), s))
	assert.Equal(t, now, s.CreatedAt)
}

func TestUpdateState(t *testing.T) {
	expires := time.Date(2025, 3, 1, 8, 30, 0, 0, time.UTC)
	db := &fakeDB{row: fakeRow{values: []any{
		"d1", int64(55), int64(7), "a@b.c", domain.Money(800000), domain.SubmissionConfirmed, expires, expires, expires,
	}}}
	repo := &PGSubmissionRepository{db: db}

	s, err := repo.UpdateState(context.Background(), 55, domain.SubmissionConfirmed)
	require.NoError(t, err)
	assert.Equal(t, domain.SubmissionConfirmed, s.State)
	assert.Equal(t, "a@b.c", s.Subject)
	assert.Equal(t, []any{domain.SubmissionConfirmed, int64(55)}, db.args)
}

func TestUpdateState_UnknownBooking(t *testing.T) {
	repo := &PGSubmissionRepository{db: &fakeDB{row: fakeRow{err: pgx.ErrNoRows}}}

	_, err := repo.UpdateState(context.Background(), 99, domain.SubmissionCancelled)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFindByDraft(t *testing.T) {
	expires := time.Date(2025, 3, 1, 8, 30, 0, 0, time.UTC)
	db := &fakeDB{row: fakeRow{values: []any{
		"d1", int64(55), int64(7), "a@b.c", domain.Money(800000), domain.SubmissionPending, expires, expires, expires,
	}}}
	repo := &PGSubmissionRepository{db: db}

	s, err := repo.FindByDraft(context.Background(), "d1")
	require.NoError(t, err)
	assert.Equal(t, int64(55), s.BookingID)
	assert.Contains(t, db.sql, "WHERE draft_id=$1")
	assert.Equal(t, []any{"d1"}, db.args)
}

func TestFindByDraft_NeverSubmitted(t *testing.T) {
	repo := &PGSubmissionRepository{db: &fakeDB{row: fakeRow{err: pgx.ErrNoRows}}}

	_, err := repo.FindByDraft(context.Background(), "d9")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
