package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"brandforge/internal/domain"
)

const (
	defaultDayWindow = 30
	topPostCount     = 10
	// viewWeight folds reach into the top-post ranking next to direct
	// engagement.
	viewWeight = 0.1
)

// Summary is the aggregated view of a user's posting activity over the
// report window.
type Summary struct {
	From          time.Time
	To            time.Time
	WindowDays    int
	TotalPosts    int
	TotalViews    int64
	TotalLikes    int64
	TotalShares   int64
	TotalComments int64
	// EngagementRate is (likes+shares+comments)/views*100, zero when there
	// are no views.
	EngagementRate float64
	Platforms      []PlatformBreakdown
	TopPosts       []RankedPost
	Accounts       []domain.SocialAccount
}

// PlatformBreakdown aggregates one platform's totals.
type PlatformBreakdown struct {
	Platform       string
	Label          string
	Posts          int
	Views          int64
	Likes          int64
	Shares         int64
	Comments       int64
	EngagementRate float64
}

// RankedPost is a post annotated with its ranking score.
type RankedPost struct {
	domain.PostStats
	Score          float64
	EngagementRate float64
}

// Options tunes one report request.
type Options struct {
	Days int
}

// Generator builds PDF and CSV engagement reports.
type Generator struct {
	repo       domain.ReportRepository
	browser    *Browser
	logger     zerolog.Logger
	dayWindow  int
	titleCaser cases.Caser
}

// NewGenerator constructs a report generator sharing one browser instance.
func NewGenerator(repo domain.ReportRepository, browser *Browser, logger zerolog.Logger, dayWindow int) *Generator {
	if dayWindow <= 0 {
		dayWindow = defaultDayWindow
	}
	return &Generator{
		repo:       repo,
		browser:    browser,
		logger:     logger,
		dayWindow:  dayWindow,
		titleCaser: cases.Title(language.Und),
	}
}

// Summarize queries the window's posts, metrics and accounts and computes
// the aggregates.
func (g *Generator) Summarize(ctx context.Context, userID string, opts Options) (*Summary, error) {
	days := opts.Days
	if days <= 0 {
		days = g.dayWindow
	}
	now := time.Now().UTC()
	since := now.AddDate(0, 0, -days)

	stats, err := g.repo.PostStatsSince(ctx, userID, since)
	if err != nil {
		return nil, fmt.Errorf("query post stats: %w", err)
	}
	accounts, err := g.repo.AccountsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("query accounts: %w", err)
	}

	summary := &Summary{
		From:       since,
		To:         now,
		WindowDays: days,
		TotalPosts: len(stats),
		Accounts:   accounts,
	}

	byPlatform := make(map[string]*PlatformBreakdown)
	var platformOrder []string
	for _, s := range stats {
		summary.TotalViews += s.Views
		summary.TotalLikes += s.Likes
		summary.TotalShares += s.Shares
		summary.TotalComments += s.Comments

		pb, ok := byPlatform[s.Platform]
		if !ok {
			pb = &PlatformBreakdown{Platform: s.Platform, Label: g.titleCaser.String(s.Platform)}
			byPlatform[s.Platform] = pb
			platformOrder = append(platformOrder, s.Platform)
		}
		pb.Posts++
		pb.Views += s.Views
		pb.Likes += s.Likes
		pb.Shares += s.Shares
		pb.Comments += s.Comments
	}

	summary.EngagementRate = engagementRate(summary.TotalViews, summary.TotalLikes+summary.TotalShares+summary.TotalComments)
	sort.Strings(platformOrder)
	for _, platform := range platformOrder {
		pb := byPlatform[platform]
		pb.EngagementRate = engagementRate(pb.Views, pb.Likes+pb.Shares+pb.Comments)
		summary.Platforms = append(summary.Platforms, *pb)
	}

	ranked := make([]RankedPost, 0, len(stats))
	for _, s := range stats {
		ranked = append(ranked, RankedPost{
			PostStats:      s,
			Score:          float64(s.Engagement()) + viewWeight*float64(s.Views),
			EngagementRate: engagementRate(s.Views, s.Engagement()),
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })
	if len(ranked) > topPostCount {
		ranked = ranked[:topPostCount]
	}
	summary.TopPosts = ranked

	return summary, nil
}

// GeneratePDF renders the window summary as a PDF document.
func (g *Generator) GeneratePDF(ctx context.Context, userID string, opts Options) ([]byte, string, error) {
	summary, err := g.Summarize(ctx, userID, opts)
	if err != nil {
		return nil, "", err
	}
	html, err := renderHTML(summary)
	if err != nil {
		return nil, "", fmt.Errorf("render report html: %w", err)
	}
	pdf, err := g.browser.RenderPDF(ctx, html)
	if err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("engagement-report-%s.pdf", summary.To.Format("2006-01-02"))
	g.logger.Info().Str("user_id", userID).Int("days", summary.WindowDays).Msg("report: pdf generated")
	return pdf, filename, nil
}

// GenerateCSV renders the window summary as CSV text.
func (g *Generator) GenerateCSV(ctx context.Context, userID string, opts Options) (string, string, error) {
	summary, err := g.Summarize(ctx, userID, opts)
	if err != nil {
		return "", "", err
	}
	content, err := renderCSV(summary)
	if err != nil {
		return "", "", fmt.Errorf("render report csv: %w", err)
	}
	filename := fmt.Sprintf("engagement-report-%s.csv", summary.To.Format("2006-01-02"))
	return content, filename, nil
}

// Close tears down the shared browser instance.
func (g *Generator) Close() {
	if g.browser != nil {
		g.browser.Close()
	}
}

func engagementRate(views, engagement int64) float64 {
	if views == 0 {
		return 0
	}
	return float64(engagement) / float64(views) * 100
}
