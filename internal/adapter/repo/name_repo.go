package repo

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"brandforge/internal/domain"
)

// BrandNameRepositoryPG implements domain.BrandNameRepository.
type BrandNameRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewBrandNameRepository constructs a brand name repository.
func NewBrandNameRepository(pool *pgxpool.Pool) *BrandNameRepositoryPG {
	return &BrandNameRepositoryPG{pool: pool}
}

// SaveAll persists a batch of generated name candidates.
func (r *BrandNameRepositoryPG) SaveAll(ctx context.Context, names []domain.BrandName) error {
	if len(names) == 0 {
		return nil
	}
	query := `
INSERT INTO brand_names (id, user_id, batch_id, name, niche, style, domain_available, domains)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
`
	batch := &pgx.Batch{}
	for _, n := range names {
		batch.Queue(query, n.ID, n.UserID, n.BatchID, n.Name, n.Niche, n.Style, n.DomainAvailable, nullableBytes(n.DomainsJSON))
	}
	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()
	for range names {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// GetByIDs returns the user's name rows matching the given ids.
func (r *BrandNameRepositoryPG) GetByIDs(ctx context.Context, ids []string, userID string) ([]domain.BrandName, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `
SELECT id, user_id, batch_id, name, niche, style, domain_available, domains, created_at
FROM brand_names
WHERE id = ANY($1) AND user_id = $2
ORDER BY created_at ASC;
`
	rows, err := r.pool.Query(ctx, query, ids, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []domain.BrandName
	for rows.Next() {
		var n domain.BrandName
		if err := rows.Scan(&n.ID, &n.UserID, &n.BatchID, &n.Name, &n.Niche, &n.Style, &n.DomainAvailable, &n.DomainsJSON, &n.CreatedAt); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

// UpdateDomains stores a fresh domain-availability snapshot on a name row.
func (r *BrandNameRepositoryPG) UpdateDomains(ctx context.Context, nameID, userID string, available bool, domainsJSON []byte) error {
	query := `
UPDATE brand_names
SET domain_available = $3, domains = $4
WHERE id = $1 AND user_id = $2;
`
	tag, err := r.pool.Exec(ctx, query, nameID, userID, available, nullableBytes(domainsJSON))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
