package jobs

import (
	"context"
	"errors"
	"sync"
	"time"

	"brandforge/internal/domain"
	"brandforge/internal/providers/completion"
	"brandforge/internal/providers/image"
)

type fakeJobRepo struct {
	mu   sync.Mutex
	jobs map[string]*domain.Job
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{jobs: make(map[string]*domain.Job)}
}

func (r *fakeJobRepo) Create(ctx context.Context, job *domain.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *job
	if clone.CreatedAt.IsZero() {
		clone.CreatedAt = time.Now().UTC()
	}
	r.jobs[job.ID] = &clone
	return nil
}

func (r *fakeJobRepo) Update(ctx context.Context, jobID string, update domain.JobUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[jobID]
	if !ok {
		return domain.ErrNotFound
	}
	if update.Status != nil {
		job.Status = *update.Status
	}
	if update.OutputJSON != nil {
		job.OutputJSON = update.OutputJSON
	}
	if update.ErrorMessage != nil {
		job.ErrorMessage = *update.ErrorMessage
	}
	if update.StartedAt != nil {
		job.StartedAt = update.StartedAt
	}
	if update.CompletedAt != nil {
		job.CompletedAt = update.CompletedAt
	}
	return nil
}

func (r *fakeJobRepo) GetByID(ctx context.Context, jobID, userID string) (*domain.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[jobID]
	if !ok || job.UserID != userID {
		return nil, domain.ErrNotFound
	}
	clone := *job
	return &clone, nil
}

func (r *fakeJobRepo) Get(ctx context.Context, jobID string) (*domain.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[jobID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *job
	return &clone, nil
}

func (r *fakeJobRepo) List(ctx context.Context, userID string, filter domain.JobFilter) ([]domain.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var jobs []domain.Job
	for _, job := range r.jobs {
		if job.UserID != userID {
			continue
		}
		if filter.Status != "" && job.Status != filter.Status {
			continue
		}
		jobs = append(jobs, *job)
	}
	return jobs, nil
}

func (r *fakeJobRepo) ListStale(ctx context.Context, cutoff time.Time) ([]domain.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var jobs []domain.Job
	for _, job := range r.jobs {
		if job.Status.Terminal() {
			continue
		}
		last := job.CreatedAt
		if job.StartedAt != nil {
			last = *job.StartedAt
		}
		if last.Before(cutoff) {
			jobs = append(jobs, *job)
		}
	}
	return jobs, nil
}

type fakeAssetRepo struct {
	mu        sync.Mutex
	assets    []domain.Asset
	createErr error
}

func (r *fakeAssetRepo) Create(ctx context.Context, asset *domain.Asset) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.assets = append(r.assets, *asset)
	return nil
}

func (r *fakeAssetRepo) GetByID(ctx context.Context, assetID, userID string) (*domain.Asset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.assets {
		if a.ID == assetID && a.UserID == userID {
			clone := a
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeAssetRepo) List(ctx context.Context, userID string, filter domain.AssetFilter) ([]domain.Asset, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Asset
	for _, a := range r.assets {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, len(out), nil
}

func (r *fakeAssetRepo) ListByJobID(ctx context.Context, jobID, userID string) ([]domain.Asset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Asset
	for _, a := range r.assets {
		if a.JobID == jobID && a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeAssetRepo) SetPrimary(ctx context.Context, assetID, userID string) (*domain.Asset, error) {
	return nil, errors.New("not implemented")
}

func (r *fakeAssetRepo) Delete(ctx context.Context, assetID, userID string) (*domain.Asset, error) {
	return nil, errors.New("not implemented")
}

type fakeBlobStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	putErr  error
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{objects: make(map[string][]byte)}
}

func (s *fakeBlobStore) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.putErr != nil {
		return "", s.putErr
	}
	s.objects[key] = data
	return key, nil
}

func (s *fakeBlobStore) PublicURL(key string) string {
	return "https://cdn.test/brand-assets/" + key
}

type fakeCompletion struct {
	response string
	err      error
}

func (c *fakeCompletion) Complete(ctx context.Context, req completion.Request) (string, error) {
	if c.err != nil {
		return "", c.err
	}
	return c.response, nil
}

func (c *fakeCompletion) Model() string { return "fake-completion" }

type fakeImages struct {
	mu    sync.Mutex
	calls int
	// fail[i] makes iteration i return an error; nilOut makes every call
	// return a nil artifact, mimicking an unconfigured provider.
	fail   map[int]bool
	nilOut bool
	panics bool
}

func (g *fakeImages) Generate(ctx context.Context, req image.GenerateRequest) (*image.Artifact, error) {
	g.mu.Lock()
	call := g.calls
	g.calls++
	g.mu.Unlock()
	if g.panics {
		panic("image provider exploded")
	}
	if g.nilOut {
		return nil, nil
	}
	if g.fail[call] {
		return nil, errors.New("upstream 500")
	}
	return &image.Artifact{
		Data:   []byte{0x89, 'P', 'N', 'G', byte(call)},
		MIME:   "image/png",
		Width:  1024,
		Height: 1024,
		Seed:   int64(1000 + call),
	}, nil
}

func (g *fakeImages) Model() string { return "fake-image-model" }
