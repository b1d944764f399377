package domain

import (
	"context"
	"time"
)

// JobRepository defines persistence for job entities. All reads and writes
// except the runner-internal ones are scoped by user id.
type JobRepository interface {
	Create(ctx context.Context, job *Job) error
	Update(ctx context.Context, jobID string, update JobUpdate) error
	GetByID(ctx context.Context, jobID, userID string) (*Job, error)
	// Get fetches without user scoping; only the job runner uses it.
	Get(ctx context.Context, jobID string) (*Job, error)
	List(ctx context.Context, userID string, filter JobFilter) ([]Job, error)
	// ListStale returns non-terminal jobs whose last transition is older
	// than the cutoff, for the reconciliation sweep.
	ListStale(ctx context.Context, cutoff time.Time) ([]Job, error)
}

// AssetRepository handles persistence for generated assets.
type AssetRepository interface {
	Create(ctx context.Context, asset *Asset) error
	GetByID(ctx context.Context, assetID, userID string) (*Asset, error)
	List(ctx context.Context, userID string, filter AssetFilter) ([]Asset, int, error)
	ListByJobID(ctx context.Context, jobID, userID string) ([]Asset, error)
	// SetPrimary flips the primary flag to the given asset and clears it on
	// every sibling in the same (user, profile, type) scope atomically.
	SetPrimary(ctx context.Context, assetID, userID string) (*Asset, error)
	Delete(ctx context.Context, assetID, userID string) (*Asset, error)
}

// BrandProfileRepository provides read access to brand profiles.
type BrandProfileRepository interface {
	GetByID(ctx context.Context, profileID, userID string) (*BrandProfile, error)
}

// BrandNameRepository persists generated name candidates.
type BrandNameRepository interface {
	SaveAll(ctx context.Context, names []BrandName) error
	GetByIDs(ctx context.Context, ids []string, userID string) ([]BrandName, error)
	UpdateDomains(ctx context.Context, nameID, userID string, available bool, domainsJSON []byte) error
}

// SocialPostRepository persists generated social posts.
type SocialPostRepository interface {
	SaveAll(ctx context.Context, posts []SocialPost) error
}

// ReportRepository supplies the aggregation inputs for report rendering.
type ReportRepository interface {
	PostStatsSince(ctx context.Context, userID string, since time.Time) ([]PostStats, error)
	AccountsByUser(ctx context.Context, userID string) ([]SocialAccount, error)
}
