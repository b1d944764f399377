package domain

import "time"

// PostStats is one published post joined with its engagement metrics, as
// consumed by the report generator.
type PostStats struct {
	PostID      string
	Platform    string
	Content     string
	PublishedAt time.Time
	Views       int64
	Likes       int64
	Shares      int64
	Comments    int64
}

// Engagement is the interaction total used for ranking and rates.
func (p PostStats) Engagement() int64 {
	return p.Likes + p.Shares + p.Comments
}

// SocialAccount is a connected publishing account included in reports.
type SocialAccount struct {
	ID          string
	Platform    string
	AccountName string
	ConnectedAt time.Time
}
