package repo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"brandforge/internal/domain"
)

// JobRepositoryPG implements domain.JobRepository.
type JobRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewJobRepository creates a new job repository backed by PostgreSQL.
func NewJobRepository(pool *pgxpool.Pool) *JobRepositoryPG {
	return &JobRepositoryPG{pool: pool}
}

const jobColumns = `id, user_id, job_type, status, input_data, output_data, error_message, created_at, started_at, completed_at`

// Create inserts a new job record.
func (r *JobRepositoryPG) Create(ctx context.Context, job *domain.Job) error {
	query := `
INSERT INTO background_jobs (id, user_id, job_type, status, input_data, output_data, error_message)
VALUES ($1, $2, $3, $4, $5, $6, $7);
`
	_, err := r.pool.Exec(ctx, query,
		job.ID,
		job.UserID,
		job.Type,
		job.Status,
		job.InputJSON,
		nullableBytes(job.OutputJSON),
		job.ErrorMessage,
	)
	return err
}

// Update applies a partial mutation to the job row. Nil fields keep their
// stored value.
func (r *JobRepositoryPG) Update(ctx context.Context, jobID string, update domain.JobUpdate) error {
	query := `
UPDATE background_jobs
SET status = COALESCE($2, status),
    output_data = COALESCE($3, output_data),
    error_message = COALESCE($4, error_message),
    started_at = COALESCE($5, started_at),
    completed_at = COALESCE($6, completed_at)
WHERE id = $1;
`
	var status *string
	if update.Status != nil {
		s := string(*update.Status)
		status = &s
	}
	_, err := r.pool.Exec(ctx, query,
		jobID,
		status,
		nullableBytes(update.OutputJSON),
		update.ErrorMessage,
		update.StartedAt,
		update.CompletedAt,
	)
	return err
}

// GetByID fetches a job scoped to its owner. A job owned by another user is
// reported as not found.
func (r *JobRepositoryPG) GetByID(ctx context.Context, jobID, userID string) (*domain.Job, error) {
	query := `
SELECT ` + jobColumns + `
FROM background_jobs
WHERE id = $1 AND user_id = $2;
`
	return r.scanJob(r.pool.QueryRow(ctx, query, jobID, userID))
}

// Get fetches a job without user scoping; only the runner uses it.
func (r *JobRepositoryPG) Get(ctx context.Context, jobID string) (*domain.Job, error) {
	query := `
SELECT ` + jobColumns + `
FROM background_jobs
WHERE id = $1;
`
	return r.scanJob(r.pool.QueryRow(ctx, query, jobID))
}

// List returns the user's jobs newest first, optionally filtered.
func (r *JobRepositoryPG) List(ctx context.Context, userID string, filter domain.JobFilter) ([]domain.Job, error) {
	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	query := `
SELECT ` + jobColumns + `
FROM background_jobs
WHERE user_id = $1
  AND ($2 = '' OR job_type = $2)
  AND ($3 = '' OR status = $3)
ORDER BY created_at DESC
LIMIT $4 OFFSET $5;
`
	rows, err := r.pool.Query(ctx, query, userID, string(filter.Type), string(filter.Status), limit, filter.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []domain.Job
	for rows.Next() {
		job, err := r.scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *job)
	}
	return jobs, rows.Err()
}

// ListStale returns non-terminal jobs whose last transition predates cutoff.
func (r *JobRepositoryPG) ListStale(ctx context.Context, cutoff time.Time) ([]domain.Job, error) {
	query := `
SELECT ` + jobColumns + `
FROM background_jobs
WHERE status IN ('pending', 'processing')
  AND COALESCE(started_at, created_at) < $1
ORDER BY created_at ASC;
`
	rows, err := r.pool.Query(ctx, query, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []domain.Job
	for rows.Next() {
		job, err := r.scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *job)
	}
	return jobs, rows.Err()
}

func (r *JobRepositoryPG) scanJob(row pgx.Row) (*domain.Job, error) {
	var job domain.Job
	if err := row.Scan(
		&job.ID,
		&job.UserID,
		&job.Type,
		&job.Status,
		&job.InputJSON,
		&job.OutputJSON,
		&job.ErrorMessage,
		&job.CreatedAt,
		&job.StartedAt,
		&job.CompletedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &job, nil
}

func nullableBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	return b
}
