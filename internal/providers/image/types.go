package image

import "context"

// GenerateRequest describes a normalized request passed to any image provider.
type GenerateRequest struct {
	Prompt    string
	Width     int
	Height    int
	Seed      int64
	RequestID string
}

// Artifact is one generated image plus its provenance.
type Artifact struct {
	Data   []byte
	MIME   string
	Width  int
	Height int
	Seed   int64
}

// Generator is the contract implemented by all image providers. A nil
// artifact with a nil error means the provider is not configured and the
// call was a no-op.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (*Artifact, error)
	Model() string
}
