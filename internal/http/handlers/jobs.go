package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"brandforge/internal/domain"
)

// ListJobs returns the caller's jobs, newest first.
func (a *App) ListJobs(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	filter := domain.JobFilter{
		Status: domain.JobStatus(r.URL.Query().Get("status")),
		Limit:  limit,
		Offset: offset,
	}
	jobs, err := a.Jobs.List(r.Context(), userID, filter)
	if err != nil {
		a.Logger.Error().Err(err).Msg("http: list jobs failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load jobs")
		return
	}
	items := make([]map[string]any, 0, len(jobs))
	for i := range jobs {
		items = append(items, jobView(&jobs[i]))
	}
	a.json(w, http.StatusOK, map[string]any{"success": true, "jobs": items})
}

// GetJob returns one job together with the assets it produced so far.
func (a *App) GetJob(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	jobID := chi.URLParam(r, "jobID")
	if jobID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "jobID required")
		return
	}
	job, err := a.Jobs.GetByID(r.Context(), jobID, userID)
	if err != nil {
		a.repoError(w, err, "job not found")
		return
	}
	assets, err := a.Assets.ListByJobID(r.Context(), jobID, userID)
	if err != nil {
		a.Logger.Error().Err(err).Str("job_id", jobID).Msg("http: list job assets failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load assets")
		return
	}
	assetItems := make([]map[string]any, 0, len(assets))
	for i := range assets {
		assetItems = append(assetItems, assetView(&assets[i]))
	}
	a.json(w, http.StatusOK, map[string]any{
		"success": true,
		"job":     jobView(job),
		"assets":  assetItems,
	})
}

func jobView(job *domain.Job) map[string]any {
	out := job.Output()
	view := map[string]any{
		"id":             job.ID,
		"jobType":        job.Type,
		"status":         job.Status,
		"progress":       out.Progress,
		"generatedCount": out.GeneratedCount,
		"createdAt":      job.CreatedAt.UTC().Format(time.RFC3339),
	}
	if len(out.AssetIDs) > 0 {
		view["assetIds"] = out.AssetIDs
	}
	if job.ErrorMessage != "" {
		view["errorMessage"] = job.ErrorMessage
	}
	if job.StartedAt != nil {
		view["startedAt"] = job.StartedAt.UTC().Format(time.RFC3339)
	}
	if job.CompletedAt != nil {
		view["completedAt"] = job.CompletedAt.UTC().Format(time.RFC3339)
	}
	return view
}
