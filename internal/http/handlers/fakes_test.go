package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"brandforge/internal/domain"
	"brandforge/internal/domaincheck"
	"brandforge/internal/middleware"
	"brandforge/internal/providers/completion"
	"brandforge/internal/report"
)

var errFake = errors.New("induced failure")

type fakeJobRepo struct {
	jobs    map[string]*domain.Job
	created []*domain.Job
	err     error
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{jobs: make(map[string]*domain.Job)}
}

func (f *fakeJobRepo) Create(ctx context.Context, job *domain.Job) error {
	if f.err != nil {
		return f.err
	}
	job.CreatedAt = time.Now().UTC()
	clone := *job
	f.jobs[job.ID] = &clone
	f.created = append(f.created, &clone)
	return nil
}

func (f *fakeJobRepo) Update(ctx context.Context, jobID string, update domain.JobUpdate) error {
	job, ok := f.jobs[jobID]
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
	return nil
}

func (f *fakeJobRepo) GetByID(ctx context.Context, jobID, userID string) (*domain.Job, error) {
	job, ok := f.jobs[jobID]
	if !ok || job.UserID != userID {
		return nil, domain.ErrNotFound
	}
	clone := *job
	return &clone, nil
}

func (f *fakeJobRepo) Get(ctx context.Context, jobID string) (*domain.Job, error) {
	job, ok := f.jobs[jobID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *job
	return &clone, nil
}

func (f *fakeJobRepo) List(ctx context.Context, userID string, filter domain.JobFilter) ([]domain.Job, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []domain.Job
	for _, job := range f.jobs {
		if job.UserID != userID {
			continue
		}
		if filter.Status != "" && job.Status != filter.Status {
			continue
		}
		out = append(out, *job)
	}
	return out, nil
}

func (f *fakeJobRepo) ListStale(ctx context.Context, cutoff time.Time) ([]domain.Job, error) {
	return nil, nil
}

type fakeAssetRepo struct {
	assets map[string]*domain.Asset
	err    error
}

func newFakeAssetRepo() *fakeAssetRepo {
	return &fakeAssetRepo{assets: make(map[string]*domain.Asset)}
}

func (f *fakeAssetRepo) Create(ctx context.Context, asset *domain.Asset) error {
	clone := *asset
	f.assets[asset.ID] = &clone
	return nil
}

func (f *fakeAssetRepo) GetByID(ctx context.Context, assetID, userID string) (*domain.Asset, error) {
	asset, ok := f.assets[assetID]
	if !ok || asset.UserID != userID {
		return nil, domain.ErrNotFound
	}
	clone := *asset
	return &clone, nil
}

func (f *fakeAssetRepo) List(ctx context.Context, userID string, filter domain.AssetFilter) ([]domain.Asset, int, error) {
	if f.err != nil {
		return nil, 0, f.err
	}
	var out []domain.Asset
	for _, asset := range f.assets {
		if asset.UserID != userID {
			continue
		}
		if filter.BrandProfileID != "" && asset.BrandProfileID != filter.BrandProfileID {
			continue
		}
		out = append(out, *asset)
	}
	return out, len(out), nil
}

func (f *fakeAssetRepo) ListByJobID(ctx context.Context, jobID, userID string) ([]domain.Asset, error) {
	var out []domain.Asset
	for _, asset := range f.assets {
		if asset.JobID == jobID && asset.UserID == userID {
			out = append(out, *asset)
		}
	}
	return out, nil
}

func (f *fakeAssetRepo) SetPrimary(ctx context.Context, assetID, userID string) (*domain.Asset, error) {
	target, ok := f.assets[assetID]
	if !ok || target.UserID != userID {
		return nil, domain.ErrNotFound
	}
	for _, asset := range f.assets {
		if asset.UserID == userID && asset.BrandProfileID == target.BrandProfileID && asset.Type == target.Type {
			asset.IsPrimary = false
		}
	}
	target.IsPrimary = true
	clone := *target
	return &clone, nil
}

func (f *fakeAssetRepo) Delete(ctx context.Context, assetID, userID string) (*domain.Asset, error) {
	asset, ok := f.assets[assetID]
	if !ok || asset.UserID != userID {
		return nil, domain.ErrNotFound
	}
	delete(f.assets, assetID)
	return asset, nil
}

type fakeProfileRepo struct {
	profiles map[string]*domain.BrandProfile
}

func (f *fakeProfileRepo) GetByID(ctx context.Context, profileID, userID string) (*domain.BrandProfile, error) {
	profile, ok := f.profiles[profileID]
	if !ok || profile.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return profile, nil
}

type fakeNameRepo struct {
	saved   []domain.BrandName
	byID    map[string]*domain.BrandName
	updated map[string]bool
}

func newFakeNameRepo() *fakeNameRepo {
	return &fakeNameRepo{byID: make(map[string]*domain.BrandName), updated: make(map[string]bool)}
}

func (f *fakeNameRepo) SaveAll(ctx context.Context, names []domain.BrandName) error {
	f.saved = append(f.saved, names...)
	for i := range names {
		clone := names[i]
		f.byID[clone.ID] = &clone
	}
	return nil
}

func (f *fakeNameRepo) GetByIDs(ctx context.Context, ids []string, userID string) ([]domain.BrandName, error) {
	var out []domain.BrandName
	for _, id := range ids {
		if name, ok := f.byID[id]; ok && name.UserID == userID {
			out = append(out, *name)
		}
	}
	return out, nil
}

func (f *fakeNameRepo) UpdateDomains(ctx context.Context, nameID, userID string, available bool, domainsJSON []byte) error {
	name, ok := f.byID[nameID]
	if !ok || name.UserID != userID {
		return domain.ErrNotFound
	}
	name.DomainAvailable = available
	name.DomainsJSON = domainsJSON
	f.updated[nameID] = true
	return nil
}

type fakePostRepo struct {
	saved []domain.SocialPost
	err   error
}

func (f *fakePostRepo) SaveAll(ctx context.Context, posts []domain.SocialPost) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, posts...)
	return nil
}

type fakeCompletion struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeCompletion) Complete(ctx context.Context, req completion.Request) (string, error) {
	f.prompts = append(f.prompts, req.Prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func (f *fakeCompletion) Model() string { return "fake-model" }

type fakeQueue struct {
	enqueued []string
}

func (f *fakeQueue) Enqueue(jobID string) bool {
	f.enqueued = append(f.enqueued, jobID)
	return true
}

type fakeBlobs struct {
	removed []string
	err     error
}

func (f *fakeBlobs) Remove(ctx context.Context, key string) error {
	if f.err != nil {
		return f.err
	}
	f.removed = append(f.removed, key)
	return nil
}

type fakeChecker struct {
	result domaincheck.NameResult
	err    error
	names  []string
}

func (f *fakeChecker) CheckName(ctx context.Context, name string) (domaincheck.NameResult, error) {
	f.names = append(f.names, name)
	if f.err != nil {
		return domaincheck.NameResult{}, f.err
	}
	result := f.result
	result.Name = name
	return result, nil
}

type fakeReports struct {
	pdf []byte
	csv string
	err error
}

func (f *fakeReports) GeneratePDF(ctx context.Context, userID string, opts report.Options) ([]byte, string, error) {
	if f.err != nil {
		return nil, "", f.err
	}
	return f.pdf, "engagement-report-2026-08-31.pdf", nil
}

func (f *fakeReports) GenerateCSV(ctx context.Context, userID string, opts report.Options) (string, string, error) {
	if f.err != nil {
		return "", "", f.err
	}
	return f.csv, "engagement-report-2026-08-31.csv", nil
}

func newTestApp() (*App, *fakeJobRepo, *fakeAssetRepo, *fakeQueue) {
	jobRepo := newFakeJobRepo()
	assetRepo := newFakeAssetRepo()
	queue := &fakeQueue{}
	app := &App{
		Logger:   zerolog.Nop(),
		Jobs:     jobRepo,
		Assets:   assetRepo,
		Profiles: &fakeProfileRepo{profiles: map[string]*domain.BrandProfile{}},
		Names:    newFakeNameRepo(),
		Posts:    &fakePostRepo{},
		Queue:    queue,
		Blobs:    &fakeBlobs{},
	}
	return app, jobRepo, assetRepo, queue
}

// serve mounts the app's routes on a chi router with a fixed authenticated
// user and executes one request against it.
func serve(app *App, userID string, req *http.Request) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, rq *http.Request) {
			next.ServeHTTP(w, rq.WithContext(middleware.ContextWithUserID(rq.Context(), userID)))
		})
	})
	r.Post("/v1/logos/generate", app.GenerateLogos)
	r.Get("/v1/jobs", app.ListJobs)
	r.Get("/v1/jobs/{jobID}", app.GetJob)
	r.Get("/v1/assets", app.ListAssets)
	r.Patch("/v1/assets/{assetID}/primary", app.SetPrimaryAsset)
	r.Delete("/v1/assets/{assetID}", app.DeleteAsset)
	r.Post("/v1/names/generate", app.GenerateNames)
	r.Post("/v1/names/check-domains", app.CheckNameDomains)
	r.Post("/v1/social-posts/generate", app.GenerateSocialPosts)
	r.Get("/v1/reports/pdf", app.PDFReport)
	r.Get("/v1/reports/csv", app.CSVReport)
	r.Get("/v1/healthz", app.Health)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}
