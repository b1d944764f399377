package domain

import "time"

// BrandProfile supplies contextual fields interpolated into generation
// prompts. The generation pipeline never mutates it.
type BrandProfile struct {
	ID             string
	UserID         string
	Name           string
	Industry       string
	ToneOfVoice    string
	TargetAudience string
	CreatedAt      time.Time
}

// BrandContext is the profile snapshot embedded into job inputs and prompts.
type BrandContext struct {
	Name           string `json:"name,omitempty"`
	Industry       string `json:"industry,omitempty"`
	ToneOfVoice    string `json:"tone_of_voice,omitempty"`
	TargetAudience string `json:"target_audience,omitempty"`
}

// Context returns the prompt-facing snapshot of the profile.
func (p *BrandProfile) Context() *BrandContext {
	if p == nil {
		return nil
	}
	return &BrandContext{
		Name:           p.Name,
		Industry:       p.Industry,
		ToneOfVoice:    p.ToneOfVoice,
		TargetAudience: p.TargetAudience,
	}
}

// BrandName is one generated business-name candidate together with its
// domain-availability snapshot.
type BrandName struct {
	ID              string
	UserID          string
	BatchID         string
	Name            string
	Niche           string
	Style           string
	DomainAvailable bool
	DomainsJSON     []byte
	CreatedAt       time.Time
}

// SocialPost is one generated social media post.
type SocialPost struct {
	ID        string
	UserID    string
	Platform  string
	PostType  string
	Topic     string
	Content   string
	Hashtags  []string
	CreatedAt time.Time
}
