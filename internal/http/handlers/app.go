package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"brandforge/internal/domain"
	"brandforge/internal/domaincheck"
	"brandforge/internal/middleware"
	"brandforge/internal/providers/completion"
	"brandforge/internal/report"
)

// JobQueue is the slice of the runner the HTTP layer needs.
type JobQueue interface {
	Enqueue(jobID string) bool
}

// BlobRemover deletes stored artifacts when their asset rows go away.
type BlobRemover interface {
	Remove(ctx context.Context, key string) error
}

// DomainChecker performs availability lookups for candidate names.
type DomainChecker interface {
	CheckName(ctx context.Context, name string) (domaincheck.NameResult, error)
}

// ReportGenerator renders engagement reports.
type ReportGenerator interface {
	GeneratePDF(ctx context.Context, userID string, opts report.Options) ([]byte, string, error)
	GenerateCSV(ctx context.Context, userID string, opts report.Options) (string, string, error)
}

// App bundles the handler dependencies.
type App struct {
	Logger     zerolog.Logger
	Jobs       domain.JobRepository
	Assets     domain.AssetRepository
	Profiles   domain.BrandProfileRepository
	Names      domain.BrandNameRepository
	Posts      domain.SocialPostRepository
	Completion completion.Client
	Queue      JobQueue
	Blobs      BlobRemover
	Domains    DomainChecker
	Reports    ReportGenerator
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	a.json(w, code, map[string]any{
		"success": false,
		"error":   map[string]string{"code": errCode, "message": message},
	})
}

// repoError maps repository sentinels onto the HTTP taxonomy.
func (a *App) repoError(w http.ResponseWriter, err error, notFoundMsg string) {
	if errors.Is(err, domain.ErrNotFound) {
		a.error(w, http.StatusNotFound, "not_found", notFoundMsg)
		return
	}
	a.Logger.Error().Err(err).Msg("http: repository error")
	a.error(w, http.StatusInternalServerError, "internal", "internal error")
}

func (a *App) currentUserID(r *http.Request) string {
	return middleware.UserIDFromContext(r.Context())
}

// resolveBrandContext loads the profile when the caller named one. A missing
// or foreign profile falls back to no context instead of erroring.
func (a *App) resolveBrandContext(ctx context.Context, profileID, userID string) *domain.BrandContext {
	if profileID == "" {
		return nil
	}
	profile, err := a.Profiles.GetByID(ctx, profileID, userID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			a.Logger.Warn().Err(err).Str("profile_id", profileID).Msg("http: brand profile lookup failed")
		}
		return nil
	}
	return profile.Context()
}
