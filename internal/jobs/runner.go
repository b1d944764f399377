package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"brandforge/internal/domain"
	"brandforge/internal/providers/completion"
	"brandforge/internal/providers/image"
)

// BlobStore is the slice of object storage the runner needs to persist
// generated artifacts.
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	PublicURL(key string) string
}

// Options wires the runner's collaborators and tuning knobs.
type Options struct {
	Jobs       domain.JobRepository
	Assets     domain.AssetRepository
	Store      BlobStore
	Completion completion.Client
	Images     image.Generator
	Logger     zerolog.Logger

	Workers        int
	QueueSize      int
	IterationDelay time.Duration
	StaleAfter     time.Duration
	SweepInterval  time.Duration
}

// Runner executes background generation jobs in-process. Work is submitted
// as a job id on a buffered channel; worker goroutines pick ids up, load the
// durable row and drive it to a terminal status. A periodic reconciliation
// sweep re-dispatches pending rows the queue lost (full buffer, process
// restart) and fails processing rows stuck past the staleness threshold.
type Runner struct {
	jobs       domain.JobRepository
	assets     domain.AssetRepository
	store      BlobStore
	completion completion.Client
	images     image.Generator
	logger     zerolog.Logger

	queue          chan string
	wg             sync.WaitGroup
	workers        int
	iterationDelay time.Duration
	staleAfter     time.Duration
	sweepInterval  time.Duration
}

// NewRunner constructs a runner. Start must be called before Enqueue has any
// effect.
func NewRunner(opts Options) *Runner {
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	queueSize := opts.QueueSize
	if queueSize < 1 {
		queueSize = 64
	}
	staleAfter := opts.StaleAfter
	if staleAfter <= 0 {
		staleAfter = 15 * time.Minute
	}
	sweepInterval := opts.SweepInterval
	if sweepInterval <= 0 {
		sweepInterval = time.Minute
	}
	return &Runner{
		jobs:           opts.Jobs,
		assets:         opts.Assets,
		store:          opts.Store,
		completion:     opts.Completion,
		images:         opts.Images,
		logger:         opts.Logger,
		queue:          make(chan string, queueSize),
		workers:        workers,
		iterationDelay: opts.IterationDelay,
		staleAfter:     staleAfter,
		sweepInterval:  sweepInterval,
	}
}

// Start launches the worker pool and the reconciliation sweeper. Workers
// stop when ctx is cancelled; Wait blocks until in-flight jobs finish.
func (r *Runner) Start(ctx context.Context) {
	for i := 0; i < r.workers; i++ {
		r.wg.Add(1)
		go func() {
			defer r.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case jobID := <-r.queue:
					r.process(ctx, jobID)
				}
			}
		}()
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.sweep(ctx)
		ticker := time.NewTicker(r.sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.sweep(ctx)
			}
		}
	}()
}

// Wait blocks until all workers have stopped.
func (r *Runner) Wait() {
	r.wg.Wait()
}

// Enqueue submits a job id for execution. It never blocks; when the buffer
// is full the job stays pending and the sweep re-dispatches it.
func (r *Runner) Enqueue(jobID string) bool {
	select {
	case r.queue <- jobID:
		return true
	default:
		r.logger.Warn().Str("job_id", jobID).Msg("jobs: queue full, deferring to sweep")
		return false
	}
}

// process drives one job to a terminal status. A panic in the pipeline is
// converted into a failed job so rows never stay stuck in processing due to
// a programming error.
func (r *Runner) process(ctx context.Context, jobID string) {
	job, err := r.jobs.Get(ctx, jobID)
	if err != nil {
		r.logger.Error().Err(err).Str("job_id", jobID).Msg("jobs: load job failed")
		return
	}
	if job.Status.Terminal() {
		return
	}

	r.logger.Info().Str("job_id", job.ID).Str("job_type", string(job.Type)).Msg("jobs: picked job")

	var runErr error
	func() {
		defer func() {
			if rec := recover(); rec != nil {
				runErr = fmt.Errorf("job panicked: %v", rec)
			}
		}()
		runErr = r.dispatch(ctx, job)
	}()

	if runErr != nil {
		r.fail(ctx, job.ID, runErr)
	}
}

func (r *Runner) dispatch(ctx context.Context, job *domain.Job) error {
	switch job.Type {
	case domain.JobTypeLogoGeneration:
		return r.runLogoJob(ctx, job)
	default:
		return fmt.Errorf("unsupported job type %q", job.Type)
	}
}

func (r *Runner) fail(ctx context.Context, jobID string, cause error) {
	r.logger.Error().Err(cause).Str("job_id", jobID).Msg("jobs: job failed")
	status := domain.JobStatusFailed
	msg := cause.Error()
	now := time.Now().UTC()
	if err := r.jobs.Update(ctx, jobID, domain.JobUpdate{
		Status:       &status,
		ErrorMessage: &msg,
		CompletedAt:  &now,
	}); err != nil {
		r.logger.Error().Err(err).Str("job_id", jobID).Msg("jobs: mark failed failed")
	}
}

// sweep reconciles rows the in-memory queue no longer knows about: stale
// pending jobs are re-dispatched, stale processing jobs (orphaned by a crash
// or a lost worker) are failed.
func (r *Runner) sweep(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-r.staleAfter)
	stale, err := r.jobs.ListStale(ctx, cutoff)
	if err != nil {
		r.logger.Error().Err(err).Msg("jobs: stale sweep query failed")
		return
	}
	for _, job := range stale {
		switch job.Status {
		case domain.JobStatusPending:
			if r.Enqueue(job.ID) {
				r.logger.Info().Str("job_id", job.ID).Msg("jobs: re-dispatched stale pending job")
			}
		case domain.JobStatusProcessing:
			r.fail(ctx, job.ID, fmt.Errorf("job stalled in processing for more than %s", r.staleAfter))
		}
	}
}
