package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"brandforge/internal/domain"
)

func seedJob(repo *fakeJobRepo, id, userID string, status domain.JobStatus, output domain.JobOutput) {
	outJSON, _ := json.Marshal(output)
	repo.jobs[id] = &domain.Job{
		ID:         id,
		UserID:     userID,
		Type:       domain.JobTypeLogoGeneration,
		Status:     status,
		OutputJSON: outJSON,
	}
}

func TestGetJobWithAssets(t *testing.T) {
	app, jobRepo, assetRepo, _ := newTestApp()
	seedJob(jobRepo, "job-1", "user-1", domain.JobStatusCompleted, domain.JobOutput{
		Progress: 100, AssetIDs: []string{"asset-1"}, GeneratedCount: 1, Requested: 2,
	})
	assetRepo.assets["asset-1"] = &domain.Asset{ID: "asset-1", UserID: "user-1", JobID: "job-1", Type: domain.AssetTypeLogo}

	req := httptest.NewRequest(http.MethodGet, "/v1/jobs/job-1", nil)
	rec := serve(app, "user-1", req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	job, _ := body["job"].(map[string]any)
	if job == nil {
		t.Fatal("job missing from response")
	}
	if job["status"] != "completed" {
		t.Errorf("status = %v", job["status"])
	}
	if job["progress"] != float64(100) {
		t.Errorf("progress = %v, want 100", job["progress"])
	}
	assets, _ := body["assets"].([]any)
	if len(assets) != 1 {
		t.Errorf("assets = %d, want 1", len(assets))
	}
}

func TestGetJobNotOwned(t *testing.T) {
	app, jobRepo, _, _ := newTestApp()
	seedJob(jobRepo, "job-1", "other-user", domain.JobStatusCompleted, domain.JobOutput{})

	req := httptest.NewRequest(http.MethodGet, "/v1/jobs/job-1", nil)
	rec := serve(app, "user-1", req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 for foreign job", rec.Code)
	}
}

func TestListJobsStatusFilter(t *testing.T) {
	app, jobRepo, _, _ := newTestApp()
	seedJob(jobRepo, "job-1", "user-1", domain.JobStatusCompleted, domain.JobOutput{})
	seedJob(jobRepo, "job-2", "user-1", domain.JobStatusFailed, domain.JobOutput{})
	seedJob(jobRepo, "job-3", "other-user", domain.JobStatusCompleted, domain.JobOutput{})

	req := httptest.NewRequest(http.MethodGet, "/v1/jobs?status=completed", nil)
	rec := serve(app, "user-1", req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decodeBody(t, rec)
	jobs, _ := body["jobs"].([]any)
	if len(jobs) != 1 {
		t.Fatalf("jobs = %d, want 1", len(jobs))
	}
	job := jobs[0].(map[string]any)
	if job["id"] != "job-1" {
		t.Errorf("id = %v, want job-1", job["id"])
	}
}
