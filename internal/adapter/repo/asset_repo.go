package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"brandforge/internal/domain"
)

// AssetRepositoryPG implements domain.AssetRepository using PostgreSQL.
type AssetRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewAssetRepository constructs a new asset repository instance.
func NewAssetRepository(pool *pgxpool.Pool) *AssetRepositoryPG {
	return &AssetRepositoryPG{pool: pool}
}

const assetColumns = `id, user_id, brand_profile_id, job_id, asset_type, file_name, file_path, file_url,
file_size, mime_type, width, height, is_primary, ai_prompt, ai_model, generation_params, created_at`

// Create inserts a new asset row.
func (r *AssetRepositoryPG) Create(ctx context.Context, asset *domain.Asset) error {
	query := `
INSERT INTO brand_assets (id, user_id, brand_profile_id, job_id, asset_type, file_name, file_path, file_url,
	file_size, mime_type, width, height, is_primary, ai_prompt, ai_model, generation_params)
VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
`
	_, err := r.pool.Exec(ctx, query,
		asset.ID,
		asset.UserID,
		asset.BrandProfileID,
		asset.JobID,
		asset.Type,
		asset.FileName,
		asset.FilePath,
		asset.FileURL,
		asset.FileSize,
		asset.MIMEType,
		asset.Width,
		asset.Height,
		asset.IsPrimary,
		asset.AIPrompt,
		asset.AIModel,
		nullableBytes(asset.ParamsJSON),
	)
	return err
}

// GetByID fetches an asset scoped to its owner.
func (r *AssetRepositoryPG) GetByID(ctx context.Context, assetID, userID string) (*domain.Asset, error) {
	query := `
SELECT ` + assetColumns + `
FROM brand_assets
WHERE id = $1 AND user_id = $2;
`
	return r.scanAsset(r.pool.QueryRow(ctx, query, assetID, userID))
}

// List returns the user's assets newest first along with the unpaginated total.
func (r *AssetRepositoryPG) List(ctx context.Context, userID string, filter domain.AssetFilter) ([]domain.Asset, int, error) {
	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var total int
	countQuery := `
SELECT COUNT(*)
FROM brand_assets
WHERE user_id = $1
  AND ($2 = '' OR brand_profile_id = NULLIF($2, '')::uuid)
  AND ($3 = '' OR asset_type = $3);
`
	if err := r.pool.QueryRow(ctx, countQuery, userID, filter.BrandProfileID, string(filter.Type)).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
SELECT ` + assetColumns + `
FROM brand_assets
WHERE user_id = $1
  AND ($2 = '' OR brand_profile_id = NULLIF($2, '')::uuid)
  AND ($3 = '' OR asset_type = $3)
ORDER BY created_at DESC
LIMIT $4 OFFSET $5;
`
	rows, err := r.pool.Query(ctx, query, userID, filter.BrandProfileID, string(filter.Type), limit, filter.Offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	assets, err := r.collect(rows)
	if err != nil {
		return nil, 0, err
	}
	return assets, total, nil
}

// ListByJobID returns the assets created by one job, in iteration order.
func (r *AssetRepositoryPG) ListByJobID(ctx context.Context, jobID, userID string) ([]domain.Asset, error) {
	query := `
SELECT ` + assetColumns + `
FROM brand_assets
WHERE job_id = $1 AND user_id = $2
ORDER BY created_at ASC;
`
	rows, err := r.pool.Query(ctx, query, jobID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collect(rows)
}

// SetPrimary clears the primary flag across the asset's (profile, type)
// scope and sets it on the given asset, in one transaction.
func (r *AssetRepositoryPG) SetPrimary(ctx context.Context, assetID, userID string) (*domain.Asset, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	asset, err := r.scanAsset(tx.QueryRow(ctx, `
SELECT `+assetColumns+`
FROM brand_assets
WHERE id = $1 AND user_id = $2
FOR UPDATE;
`, assetID, userID))
	if err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx, `
UPDATE brand_assets
SET is_primary = FALSE
WHERE user_id = $1
  AND asset_type = $2
  AND brand_profile_id IS NOT DISTINCT FROM NULLIF($3, '')::uuid
  AND is_primary;
`, userID, asset.Type, asset.BrandProfileID); err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx, `
UPDATE brand_assets
SET is_primary = TRUE
WHERE id = $1;
`, assetID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	asset.IsPrimary = true
	return asset, nil
}

// Delete removes the asset row and returns the deleted record so callers can
// clean up the backing blob.
func (r *AssetRepositoryPG) Delete(ctx context.Context, assetID, userID string) (*domain.Asset, error) {
	query := `
DELETE FROM brand_assets
WHERE id = $1 AND user_id = $2
RETURNING ` + assetColumns + `;
`
	return r.scanAsset(r.pool.QueryRow(ctx, query, assetID, userID))
}

func (r *AssetRepositoryPG) collect(rows pgx.Rows) ([]domain.Asset, error) {
	var assets []domain.Asset
	for rows.Next() {
		asset, err := r.scanAsset(rows)
		if err != nil {
			return nil, err
		}
		assets = append(assets, *asset)
	}
	return assets, rows.Err()
}

func (r *AssetRepositoryPG) scanAsset(row pgx.Row) (*domain.Asset, error) {
	var asset domain.Asset
	var profileID *string
	if err := row.Scan(
		&asset.ID,
		&asset.UserID,
		&profileID,
		&asset.JobID,
		&asset.Type,
		&asset.FileName,
		&asset.FilePath,
		&asset.FileURL,
		&asset.FileSize,
		&asset.MIMEType,
		&asset.Width,
		&asset.Height,
		&asset.IsPrimary,
		&asset.AIPrompt,
		&asset.AIModel,
		&asset.ParamsJSON,
		&asset.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if profileID != nil {
		asset.BrandProfileID = *profileID
	}
	return &asset, nil
}
