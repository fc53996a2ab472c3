package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/airbooking-web/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS booking_submissions (
	draft_id    TEXT PRIMARY KEY,
	booking_id  BIGINT NOT NULL UNIQUE,
	flight_id   BIGINT NOT NULL,
	subject     TEXT NOT NULL DEFAULT '',
	total_price BIGINT NOT NULL,
	state       TEXT NOT NULL,
	expires_at  TIMESTAMPTZ NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS booking_submissions_pending_idx
	ON booking_submissions (expires_at) WHERE state = 'pending';
`

const submissionColumns = `draft_id, booking_id, flight_id, subject, total_price, state, expires_at, created_at, updated_at`

// SubmissionRepository is the local ledger of drafts that reached the booking API.
type SubmissionRepository interface {
	Record(ctx context.Context, s *domain.Submission) error
	FindByDraft(ctx context.Context, draftID string) (*domain.Submission, error)
	UpdateState(ctx context.Context, bookingID int64, state domain.SubmissionState) (*domain.Submission, error)
	PendingExpiredBefore(ctx context.Context, deadline time.Time) ([]domain.Submission, error)
}

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PGSubmissionRepository struct {
	db querier
}

func NewSubmissionRepository(db *pgxpool.Pool) *PGSubmissionRepository {
	return &PGSubmissionRepository{db: db}
}

func (r *PGSubmissionRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate booking_submissions: %w", err)
	}
	return nil
}

// Record inserts the submission once per draft. Recording the same draft
// again leaves the first row untouched.
func (r *PGSubmissionRepository) Record(ctx context.Context, s *domain.Submission) error {
	row := r.db.QueryRow(ctx, `INSERT INTO booking_submissions
		(draft_id, booking_id, flight_id, subject, total_price, state, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (draft_id) DO NOTHING
		RETURNING created_at, updated_at`,
		s.DraftID, s.BookingID, s.FlightID, s.Subject, s.TotalPrice, s.State, s.ExpiresAt)
	if err := row.Scan(&s.CreatedAt, &s.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return fmt.Errorf("record submission %s: %w", s.DraftID, err)
	}
	return nil
}

// FindByDraft returns ErrNotFound when the draft never produced a booking.
func (r *PGSubmissionRepository) FindByDraft(ctx context.Context, draftID string) (*domain.Submission, error) {
	row := r.db.QueryRow(ctx, `SELECT `+submissionColumns+` FROM booking_submissions
		WHERE draft_id=$1`, draftID)
	s, err := scanSubmission(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find submission for draft %s: %w", draftID, err)
	}
	return s, nil
}

func (r *PGSubmissionRepository) UpdateState(ctx context.Context, bookingID int64, state domain.SubmissionState) (*domain.Submission, error) {
	row := r.db.QueryRow(ctx, `UPDATE booking_submissions SET state=$1, updated_at=now()
		WHERE booking_id=$2 RETURNING `+submissionColumns, state, bookingID)
	s, err := scanSubmission(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update submission for booking %d: %w", bookingID, err)
	}
	return s, nil
}

func (r *PGSubmissionRepository) PendingExpiredBefore(ctx context.Context, deadline time.Time) ([]domain.Submission, error) {
	rows, err := r.db.Query(ctx, `SELECT `+submissionColumns+` FROM booking_submissions
		WHERE state=$1 AND expires_at <= $2 ORDER BY expires_at`, domain.SubmissionPending, deadline)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pending []domain.Submission
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		pending = append(pending, *s)
	}
	return pending, rows.Err()
}

func scanSubmission(row pgx.Row) (*domain.Submission, error) {
	var s domain.Submission
	if err := row.Scan(&s.DraftID, &s.BookingID, &s.FlightID, &s.Subject, &s.TotalPrice,
		&s.State, &s.ExpiresAt, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

var _ SubmissionRepository = (*PGSubmissionRepository)(nil)
