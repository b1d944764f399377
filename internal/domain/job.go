package domain

import (
	"encoding/json"
	"time"
)

// JobType enumerates supported generation job categories.
type JobType string

const (
	JobTypeLogoGeneration JobType = "logo_generation"
)

// JobStatus enumerates job lifecycle states. Completed and failed are
// absorbing; there are no retries or re-queues of terminal jobs.
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// Terminal reports whether the status can no longer change.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// Job is one persisted asynchronous unit of generation work. All access is
// scoped by UserID; a job belonging to another user is indistinguishable
// from a missing one.
type Job struct {
	ID           string
	UserID       string
	Type         JobType
	Status       JobStatus
	InputJSON    []byte
	OutputJSON   []byte
	ErrorMessage string
	CreatedAt    time.Time
	StartedAt    *time.Time
	CompletedAt  *time.Time
}

// LogoJobInput is the payload stored in InputJSON for logo generation jobs.
type LogoJobInput struct {
	BrandProfileID string        `json:"brand_profile_id,omitempty"`
	Concept        string        `json:"concept"`
	Style          string        `json:"style,omitempty"`
	Colors         []string      `json:"colors,omitempty"`
	IncludeText    bool          `json:"include_text"`
	Iterations     int           `json:"iterations"`
	Brand          *BrandContext `json:"brand,omitempty"`
}

// JobOutput accumulates progress and, on success, the created asset ids.
type JobOutput struct {
	Progress       int      `json:"progress"`
	AssetIDs       []string `json:"asset_ids,omitempty"`
	GeneratedCount int      `json:"generated_count"`
	Requested      int      `json:"requested,omitempty"`
}

// Output decodes the job's output payload. An empty payload decodes to the
// zero value so pollers always see a well-formed progress field.
func (j *Job) Output() JobOutput {
	var out JobOutput
	if len(j.OutputJSON) > 0 {
		_ = json.Unmarshal(j.OutputJSON, &out)
	}
	return out
}

// JobUpdate carries a partial mutation applied to a job row. Nil fields are
// left untouched.
type JobUpdate struct {
	Status       *JobStatus
	OutputJSON   []byte
	ErrorMessage *string
	StartedAt    *time.Time
	CompletedAt  *time.Time
}

// JobFilter narrows job listings.
type JobFilter struct {
	Type   JobType
	Status JobStatus
	Limit  int
	Offset int
}
