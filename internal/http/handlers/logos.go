package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"brandforge/internal/domain"
)

const (
	defaultLogoIterations = 4
	maxLogoIterations     = 8
)

type logoGenerateRequest struct {
	BrandProfileID string   `json:"brandProfileId"`
	Concept        string   `json:"concept"`
	Style          string   `json:"style"`
	Colors         []string `json:"colors"`
	IncludeText    bool     `json:"includeText"`
	Iterations     int      `json:"iterations"`
}

// GenerateLogos validates the request, inserts a pending job and hands it to
// the runner. The response returns immediately; clients poll the job.
func (a *App) GenerateLogos(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	var req logoGenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	req.Concept = strings.TrimSpace(req.Concept)
	if len(req.Concept) < 3 {
		a.error(w, http.StatusBadRequest, "bad_request", "concept must be at least 3 characters")
		return
	}
	if req.Iterations == 0 {
		req.Iterations = defaultLogoIterations
	}
	if req.Iterations < 1 || req.Iterations > maxLogoIterations {
		a.error(w, http.StatusBadRequest, "bad_request", "iterations must be between 1 and 8")
		return
	}

	brand := a.resolveBrandContext(r.Context(), req.BrandProfileID, userID)
	input := domain.LogoJobInput{
		BrandProfileID: req.BrandProfileID,
		Concept:        req.Concept,
		Style:          strings.TrimSpace(req.Style),
		Colors:         req.Colors,
		IncludeText:    req.IncludeText,
		Iterations:     req.Iterations,
		Brand:          brand,
	}
	inputJSON, err := json.Marshal(input)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to encode job input")
		return
	}

	job := &domain.Job{
		ID:        uuid.NewString(),
		UserID:    userID,
		Type:      domain.JobTypeLogoGeneration,
		Status:    domain.JobStatusPending,
		InputJSON: inputJSON,
	}
	if err := a.Jobs.Create(r.Context(), job); err != nil {
		a.Logger.Error().Err(err).Msg("http: create logo job failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to queue job")
		return
	}
	a.Queue.Enqueue(job.ID)

	a.json(w, http.StatusOK, map[string]any{
		"success": true,
		"jobId":   job.ID,
		"status":  "processing",
	})
}
