package image

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// StabilityOptions configures the Stability text-to-image client.
type StabilityOptions struct {
	APIKey     string
	Engine     string
	BaseURL    string
	HTTPClient *http.Client
	Logger     *zerolog.Logger
}

// StabilityGenerator calls the Stability text-to-image API and returns the
// decoded image bytes plus the seed the service used. When no API key is
// configured every call logs a warning and returns a nil artifact, so jobs
// in that configuration terminate failed instead of crashing.
type StabilityGenerator struct {
	apiKey  string
	engine  string
	baseURL string
	client  *http.Client
	logger  zerolog.Logger
}

const (
	stabilityDefaultTimeout = 90 * time.Second
	defaultStabilityEngine  = "stable-diffusion-xl-1024-v1-0"
)

type stabilityTextPrompt struct {
	Text string `json:"text"`
}

type stabilityRequest struct {
	TextPrompts []stabilityTextPrompt `json:"text_prompts"`
	CfgScale    float64               `json:"cfg_scale"`
	Width       int                   `json:"width"`
	Height      int                   `json:"height"`
	Samples     int                   `json:"samples"`
	Seed        int64                 `json:"seed,omitempty"`
}

type stabilityResponse struct {
	Artifacts []struct {
		Base64       string `json:"base64"`
		Seed         int64  `json:"seed"`
		FinishReason string `json:"finishReason"`
	} `json:"artifacts"`
	Message string `json:"message,omitempty"`
}

// NewStabilityGenerator constructs a Stability image generator. An empty API
// key is allowed; the generator then degrades to a warning no-op.
func NewStabilityGenerator(opts StabilityOptions) *StabilityGenerator {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.stability.ai"
	}
	engine := strings.TrimSpace(opts.Engine)
	if engine == "" {
		engine = defaultStabilityEngine
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: stabilityDefaultTimeout}
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	return &StabilityGenerator{
		apiKey:  strings.TrimSpace(opts.APIKey),
		engine:  engine,
		baseURL: baseURL,
		client:  client,
		logger:  logger,
	}
}

// Model returns the configured engine identifier.
func (g *StabilityGenerator) Model() string {
	return g.engine
}

// Generate produces one image for the prompt.
func (g *StabilityGenerator) Generate(ctx context.Context, req GenerateRequest) (*Artifact, error) {
	if g.apiKey == "" {
		g.logger.Warn().
			Str("request_id", req.RequestID).
			Msg("image: stability api key missing, skipping generation")
		return nil, nil
	}

	width, height := req.Width, req.Height
	if width <= 0 {
		width = 1024
	}
	if height <= 0 {
		height = 1024
	}
	payload := stabilityRequest{
		TextPrompts: []stabilityTextPrompt{{Text: req.Prompt}},
		CfgScale:    7,
		Width:       width,
		Height:      height,
		Samples:     1,
		Seed:        req.Seed,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1/generation/%s/text-to-image", g.baseURL, url.PathEscape(g.engine))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("invoke stability: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		data, _ := io.ReadAll(resp.Body)
		var apiErr stabilityResponse
		if err := json.Unmarshal(data, &apiErr); err == nil && apiErr.Message != "" {
			return nil, fmt.Errorf("stability status %d: %s", resp.StatusCode, apiErr.Message)
		}
		return nil, fmt.Errorf("stability status %d", resp.StatusCode)
	}

	var out stabilityResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode stability response: %w", err)
	}
	if len(out.Artifacts) == 0 {
		return nil, fmt.Errorf("stability returned no artifacts")
	}
	first := out.Artifacts[0]
	data, err := base64.StdEncoding.DecodeString(first.Base64)
	if err != nil {
		return nil, fmt.Errorf("decode artifact: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("stability returned empty artifact")
	}
	return &Artifact{
		Data:   data,
		MIME:   "image/png",
		Width:  width,
		Height: height,
		Seed:   first.Seed,
	}, nil
}

var _ Generator = (*StabilityGenerator)(nil)
