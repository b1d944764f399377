package repo

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"brandforge/internal/domain"
)

// SocialPostRepositoryPG implements domain.SocialPostRepository.
type SocialPostRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewSocialPostRepository constructs a social post repository.
func NewSocialPostRepository(pool *pgxpool.Pool) *SocialPostRepositoryPG {
	return &SocialPostRepositoryPG{pool: pool}
}

// SaveAll persists a batch of generated posts.
func (r *SocialPostRepositoryPG) SaveAll(ctx context.Context, posts []domain.SocialPost) error {
	if len(posts) == 0 {
		return nil
	}
	query := `
INSERT INTO social_posts (id, user_id, platform, post_type, topic, content, hashtags)
VALUES ($1, $2, $3, $4, $5, $6, $7);
`
	batch := &pgx.Batch{}
	for _, p := range posts {
		batch.Queue(query, p.ID, p.UserID, p.Platform, p.PostType, p.Topic, p.Content, p.Hashtags)
	}
	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()
	for range posts {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}
	return nil
}
