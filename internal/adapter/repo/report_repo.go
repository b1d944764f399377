package repo

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"brandforge/internal/domain"
)

// ReportRepositoryPG implements domain.ReportRepository.
type ReportRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewReportRepository constructs a report repository.
func NewReportRepository(pool *pgxpool.Pool) *ReportRepositoryPG {
	return &ReportRepositoryPG{pool: pool}
}

// PostStatsSince returns published posts joined with their metric counters.
// Posts without a metrics row contribute zeroes.
func (r *ReportRepositoryPG) PostStatsSince(ctx context.Context, userID string, since time.Time) ([]domain.PostStats, error) {
	query := `
SELECT p.id, p.platform, p.content, p.published_at,
       COALESCE(m.views, 0), COALESCE(m.likes, 0), COALESCE(m.shares, 0), COALESCE(m.comments, 0)
FROM social_posts p
LEFT JOIN post_metrics m ON m.post_id = p.id
WHERE p.user_id = $1
  AND p.published_at IS NOT NULL
  AND p.published_at >= $2
ORDER BY p.published_at DESC;
`
	rows, err := r.pool.Query(ctx, query, userID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []domain.PostStats
	for rows.Next() {
		var s domain.PostStats
		if err := rows.Scan(&s.PostID, &s.Platform, &s.Content, &s.PublishedAt, &s.Views, &s.Likes, &s.Shares, &s.Comments); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// AccountsByUser lists the user's connected publishing accounts.
func (r *ReportRepositoryPG) AccountsByUser(ctx context.Context, userID string) ([]domain.SocialAccount, error) {
	query := `
SELECT id, platform, account_name, connected_at
FROM social_accounts
WHERE user_id = $1
ORDER BY connected_at ASC;
`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []domain.SocialAccount
	for rows.Next() {
		var a domain.SocialAccount
		if err := rows.Scan(&a.ID, &a.Platform, &a.AccountName, &a.ConnectedAt); err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}
