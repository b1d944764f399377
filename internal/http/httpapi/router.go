package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"brandforge/internal/http/handlers"
	"brandforge/internal/infra"
	"brandforge/internal/middleware"
)

// NewRouter assembles the API route tree. Everything under /v1 except the
// health probe requires a bearer token.
func NewRouter(app *handlers.App, cfg *infra.Config) http.Handler {
	r := chi.NewRouter()

	r.Use(
		chimw.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		chimw.Logger,
	)

	r.Get("/v1/healthz", app.Health)

	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthJWT(cfg.JWTSecret))
		if cfg.RateLimitPerMin > 0 {
			r.Use(middleware.RateLimit(cfg.RateLimitPerMin, time.Minute))
		}

		r.Post("/v1/logos/generate", app.GenerateLogos)

		r.Route("/v1/jobs", func(r chi.Router) {
			r.Get("/", app.ListJobs)
			r.Get("/{jobID}", app.GetJob)
		})

		r.Route("/v1/assets", func(r chi.Router) {
			r.Get("/", app.ListAssets)
			r.Patch("/{assetID}/primary", app.SetPrimaryAsset)
			r.Delete("/{assetID}", app.DeleteAsset)
		})

		r.Route("/v1/names", func(r chi.Router) {
			r.Post("/generate", app.GenerateNames)
			r.Post("/check-domains", app.CheckNameDomains)
		})

		r.Post("/v1/social-posts/generate", app.GenerateSocialPosts)

		r.Route("/v1/reports", func(r chi.Router) {
			r.Get("/pdf", app.PDFReport)
			r.Get("/csv", app.CSVReport)
		})
	})

	return r
}
