package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"brandforge/internal/domain"
)

// BrandProfileRepositoryPG implements domain.BrandProfileRepository.
type BrandProfileRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewBrandProfileRepository constructs a brand profile repository.
func NewBrandProfileRepository(pool *pgxpool.Pool) *BrandProfileRepositoryPG {
	return &BrandProfileRepositoryPG{pool: pool}
}

// GetByID fetches a profile scoped to its owner.
func (r *BrandProfileRepositoryPG) GetByID(ctx context.Context, profileID, userID string) (*domain.BrandProfile, error) {
	query := `
SELECT id, user_id, name, industry, tone_of_voice, target_audience, created_at
FROM brand_profiles
WHERE id = $1 AND user_id = $2;
`
	row := r.pool.QueryRow(ctx, query, profileID, userID)
	var p domain.BrandProfile
	if err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.Industry, &p.ToneOfVoice, &p.TargetAudience, &p.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}
