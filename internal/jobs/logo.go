package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"brandforge/internal/domain"
	"brandforge/internal/providers/completion"
	"brandforge/internal/providers/image"
)

const (
	maxLogoIterations = 8
	// The iteration loop owns the first 80% of the progress bar; the
	// remaining 20% is reserved for finalization.
	iterationProgressCeiling = 80
)

// runLogoJob executes the logo generation pipeline: synthesize N image
// prompts, call the image provider once per iteration, persist every
// successful artifact, and finalize. Individual iteration failures are
// logged and skipped; the job completes as long as at least one asset was
// produced.
func (r *Runner) runLogoJob(ctx context.Context, job *domain.Job) error {
	var input domain.LogoJobInput
	if err := json.Unmarshal(job.InputJSON, &input); err != nil {
		return fmt.Errorf("decode logo job input: %w", err)
	}
	iterations := input.Iterations
	if iterations < 1 {
		iterations = 1
	}
	if iterations > maxLogoIterations {
		iterations = maxLogoIterations
	}

	status := domain.JobStatusProcessing
	started := time.Now().UTC()
	if err := r.jobs.Update(ctx, job.ID, domain.JobUpdate{
		Status:     &status,
		StartedAt:  &started,
		OutputJSON: mustMarshal(domain.JobOutput{Progress: 0, Requested: iterations}),
	}); err != nil {
		return fmt.Errorf("mark processing: %w", err)
	}

	prompts := r.logoPrompts(ctx, job.ID, input, iterations)
	if len(prompts) < iterations {
		iterations = len(prompts)
	}

	var assetIDs []string
	for i := 0; i < iterations; i++ {
		progress := int(math.Round(float64(i) / float64(iterations) * iterationProgressCeiling))
		if err := r.jobs.Update(ctx, job.ID, domain.JobUpdate{
			OutputJSON: mustMarshal(domain.JobOutput{
				Progress:       progress,
				AssetIDs:       assetIDs,
				GeneratedCount: len(assetIDs),
				Requested:      iterations,
			}),
		}); err != nil {
			r.logger.Error().Err(err).Str("job_id", job.ID).Msg("jobs: progress update failed")
		}

		assetID, err := r.generateLogoAsset(ctx, job, input, prompts[i], i)
		if err != nil {
			r.logger.Warn().Err(err).
				Str("job_id", job.ID).
				Int("iteration", i).
				Msg("jobs: logo iteration failed, continuing")
		} else if assetID != "" {
			assetIDs = append(assetIDs, assetID)
		}

		if i < iterations-1 && r.iterationDelay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(r.iterationDelay):
			}
		}
	}

	if len(assetIDs) == 0 {
		return domain.ErrNoAssets
	}

	done := domain.JobStatusCompleted
	completed := time.Now().UTC()
	if err := r.jobs.Update(ctx, job.ID, domain.JobUpdate{
		Status:      &done,
		CompletedAt: &completed,
		OutputJSON: mustMarshal(domain.JobOutput{
			Progress:       100,
			AssetIDs:       assetIDs,
			GeneratedCount: len(assetIDs),
			Requested:      iterations,
		}),
	}); err != nil {
		return fmt.Errorf("mark completed: %w", err)
	}
	r.logger.Info().
		Str("job_id", job.ID).
		Int("generated", len(assetIDs)).
		Int("requested", iterations).
		Msg("jobs: logo job completed")
	return nil
}

// generateLogoAsset runs one iteration: image call, blob upload, asset row.
func (r *Runner) generateLogoAsset(ctx context.Context, job *domain.Job, input domain.LogoJobInput, prompt string, iteration int) (string, error) {
	artifact, err := r.images.Generate(ctx, image.GenerateRequest{
		Prompt:    prompt,
		RequestID: job.ID,
	})
	if err != nil {
		return "", fmt.Errorf("image generation: %w", err)
	}
	if artifact == nil || len(artifact.Data) == 0 {
		return "", fmt.Errorf("image provider returned no artifact")
	}

	fileName := fmt.Sprintf("logo-%d-%d.png", time.Now().UnixMilli(), iteration)
	key, err := r.store.Put(ctx, job.UserID+"/"+fileName, artifact.Data, artifact.MIME)
	if err != nil {
		return "", fmt.Errorf("upload artifact: %w", err)
	}

	params := map[string]any{"seed": artifact.Seed, "iteration": iteration}
	asset := &domain.Asset{
		ID:             uuid.NewString(),
		UserID:         job.UserID,
		BrandProfileID: input.BrandProfileID,
		JobID:          job.ID,
		Type:           domain.AssetTypeLogo,
		FileName:       fileName,
		FilePath:       key,
		FileURL:        r.store.PublicURL(key),
		FileSize:       int64(len(artifact.Data)),
		MIMEType:       artifact.MIME,
		Width:          artifact.Width,
		Height:         artifact.Height,
		AIPrompt:       prompt,
		AIModel:        r.images.Model(),
		ParamsJSON:     mustMarshal(params),
	}
	if err := r.assets.Create(ctx, asset); err != nil {
		return "", fmt.Errorf("insert asset: %w", err)
	}
	return asset.ID, nil
}

// logoPrompts derives the per-iteration image prompts. The completion
// provider is asked once for count prompt variants as a JSON array; any
// failure there falls back to a deterministic template so logo jobs never
// depend on the completion call succeeding.
func (r *Runner) logoPrompts(ctx context.Context, jobID string, input domain.LogoJobInput, count int) []string {
	if r.completion != nil {
		raw, err := r.completion.Complete(ctx, completion.Request{
			System: "You are a logo design prompt expert. Respond only with a JSON array of strings.",
			Prompt: buildLogoMetaPrompt(input, count),
		})
		if err == nil {
			prompts, usedFallback, parseErr := completion.ParseStringArray(raw, count)
			if parseErr == nil && len(prompts) > 0 {
				if usedFallback {
					r.logger.Warn().Str("job_id", jobID).Msg("jobs: logo prompt response parsed heuristically")
				}
				for n := len(prompts); len(prompts) < count; {
					prompts = append(prompts, prompts[len(prompts)%n])
				}
				return prompts
			}
			err = parseErr
		}
		r.logger.Warn().Err(err).Str("job_id", jobID).Msg("jobs: prompt synthesis failed, using template prompts")
	}
	return templateLogoPrompts(input, count)
}

func buildLogoMetaPrompt(input domain.LogoJobInput, count int) string {
	sb := &strings.Builder{}
	fmt.Fprintf(sb, "Write %d distinct text-to-image prompts for professional logo designs. ", count)
	fmt.Fprintf(sb, "Concept: %q.", input.Concept)
	if input.Style != "" {
		fmt.Fprintf(sb, " Style: %s.", input.Style)
	}
	if len(input.Colors) > 0 {
		fmt.Fprintf(sb, " Color palette: %s.", strings.Join(input.Colors, ", "))
	}
	if input.IncludeText && input.Brand != nil && input.Brand.Name != "" {
		fmt.Fprintf(sb, " Each logo must include the brand name %q as text.", input.Brand.Name)
	}
	if input.Brand != nil {
		if input.Brand.Industry != "" {
			fmt.Fprintf(sb, " Industry: %s.", input.Brand.Industry)
		}
		if input.Brand.TargetAudience != "" {
			fmt.Fprintf(sb, " Target audience: %s.", input.Brand.TargetAudience)
		}
	}
	sb.WriteString(` Respond strictly as a JSON array of strings, e.g. ["prompt one","prompt two"].`)
	return sb.String()
}

var logoPromptVariants = []string{
	"minimalist vector logo",
	"modern flat emblem",
	"geometric badge logo",
	"elegant monogram mark",
	"bold abstract symbol",
	"hand-drawn artisan logo",
	"clean line-art icon",
	"retro-inspired crest",
}

// templateLogoPrompts is the deterministic fallback used when prompt
// synthesis is unavailable or unparseable.
func templateLogoPrompts(input domain.LogoJobInput, count int) []string {
	style := strings.TrimSpace(input.Style)
	if style == "" {
		style = "modern"
	}
	var palette string
	if len(input.Colors) > 0 {
		palette = ", color palette " + strings.Join(input.Colors, " ")
	}
	var brandText string
	if input.IncludeText && input.Brand != nil && input.Brand.Name != "" {
		brandText = fmt.Sprintf(", featuring the text %q", input.Brand.Name)
	}
	prompts := make([]string, count)
	for i := 0; i < count; i++ {
		variant := logoPromptVariants[i%len(logoPromptVariants)]
		prompts[i] = fmt.Sprintf("%s of %s, %s style%s%s, white background, high contrast, professional branding",
			variant, input.Concept, style, palette, brandText)
	}
	return prompts
}

func mustMarshal(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return data
}
