package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"brandforge/internal/domain"
	"brandforge/internal/providers/completion"
)

const (
	defaultPostCount = 3
	maxPostCount     = 10
)

type socialPostsRequest struct {
	BrandProfileID  string   `json:"brandProfileId"`
	Platforms       []string `json:"platforms"`
	PostType        string   `json:"postType"`
	Topic           string   `json:"topic"`
	IncludeHashtags bool     `json:"includeHashtags"`
	ToneOverride    string   `json:"toneOverride"`
	Count           int      `json:"count"`
}

type generatedPost struct {
	Content  string   `json:"content"`
	Hashtags []string `json:"hashtags"`
}

// GenerateSocialPosts produces posts for each requested platform with one
// completion call per platform. A platform whose call or parse fails is
// skipped rather than failing the whole request.
func (a *App) GenerateSocialPosts(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	var req socialPostsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if len(req.Platforms) == 0 {
		a.error(w, http.StatusBadRequest, "bad_request", "platforms must not be empty")
		return
	}
	req.Topic = strings.TrimSpace(req.Topic)
	if len(req.Topic) < 3 {
		a.error(w, http.StatusBadRequest, "bad_request", "topic must be at least 3 characters")
		return
	}
	if req.Count <= 0 {
		req.Count = defaultPostCount
	}
	if req.Count > maxPostCount {
		req.Count = maxPostCount
	}
	if a.Completion == nil {
		a.error(w, http.StatusInternalServerError, "internal", "post generation unavailable")
		return
	}

	brand := a.resolveBrandContext(r.Context(), req.BrandProfileID, userID)
	tone := strings.TrimSpace(req.ToneOverride)
	if tone == "" && brand != nil {
		tone = brand.ToneOfVoice
	}

	var posts []domain.SocialPost
	for _, platform := range req.Platforms {
		platform = strings.ToLower(strings.TrimSpace(platform))
		if platform == "" {
			continue
		}
		raw, err := a.Completion.Complete(r.Context(), completion.Request{
			System: "You are a social media copywriter. Respond only with a JSON array of objects.",
			Prompt: buildSocialPostPrompt(req, platform, tone, brand),
		})
		if err != nil {
			a.Logger.Warn().Err(err).Str("platform", platform).Msg("http: social post call failed")
			continue
		}
		items, err := completion.ParseObjectArray[generatedPost](raw)
		if err != nil {
			a.Logger.Warn().Err(err).Str("platform", platform).Msg("http: social post response unparseable")
			continue
		}
		// The model may over-return; each platform keeps at most its
		// requested count so later platforms are never starved.
		kept := 0
		for _, item := range items {
			if kept >= req.Count {
				break
			}
			content := strings.TrimSpace(item.Content)
			if content == "" {
				continue
			}
			hashtags := item.Hashtags
			if !req.IncludeHashtags {
				hashtags = nil
			}
			posts = append(posts, domain.SocialPost{
				ID:       uuid.NewString(),
				UserID:   userID,
				Platform: platform,
				PostType: req.PostType,
				Topic:    req.Topic,
				Content:  content,
				Hashtags: hashtags,
			})
			kept++
		}
	}
	if len(posts) == 0 {
		a.error(w, http.StatusInternalServerError, "internal", "post generation failed")
		return
	}
	if err := a.Posts.SaveAll(r.Context(), posts); err != nil {
		a.Logger.Error().Err(err).Msg("http: save posts failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to save posts")
		return
	}

	items := make([]map[string]any, 0, len(posts))
	for i := range posts {
		items = append(items, postView(&posts[i]))
	}
	a.json(w, http.StatusOK, map[string]any{
		"success":        true,
		"posts":          items,
		"generatedCount": len(posts),
	})
}

func buildSocialPostPrompt(req socialPostsRequest, platform, tone string, brand *domain.BrandContext) string {
	sb := &strings.Builder{}
	fmt.Fprintf(sb, "Write %d %s posts for %s about %q.", req.Count, postTypeOrDefault(req.PostType), platform, req.Topic)
	if tone != "" {
		fmt.Fprintf(sb, " Tone of voice: %s.", tone)
	}
	if brand != nil {
		if brand.Name != "" {
			fmt.Fprintf(sb, " The brand is %q.", brand.Name)
		}
		if brand.Industry != "" {
			fmt.Fprintf(sb, " Industry: %s.", brand.Industry)
		}
		if brand.TargetAudience != "" {
			fmt.Fprintf(sb, " Target audience: %s.", brand.TargetAudience)
		}
	}
	if req.IncludeHashtags {
		sb.WriteString(" Include relevant hashtags per post.")
	}
	sb.WriteString(` Respond strictly as a JSON array of objects shaped like {"content":"...","hashtags":["#tag"]}.`)
	return sb.String()
}

func postTypeOrDefault(postType string) string {
	postType = strings.TrimSpace(postType)
	if postType == "" {
		return "promotional"
	}
	return postType
}

func postView(post *domain.SocialPost) map[string]any {
	view := map[string]any{
		"id":       post.ID,
		"platform": post.Platform,
		"postType": post.PostType,
		"topic":    post.Topic,
		"content":  post.Content,
	}
	if len(post.Hashtags) > 0 {
		view["hashtags"] = post.Hashtags
	}
	if !post.CreatedAt.IsZero() {
		view["createdAt"] = post.CreatedAt.UTC().Format(time.RFC3339)
	}
	return view
}
