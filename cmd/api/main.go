package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"brandforge/internal/adapter/repo"
	"brandforge/internal/domaincheck"
	"brandforge/internal/http/handlers"
	"brandforge/internal/http/httpapi"
	"brandforge/internal/infra"
	"brandforge/internal/jobs"
	"brandforge/internal/providers/completion"
	"brandforge/internal/providers/image"
	"brandforge/internal/report"
	"brandforge/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	store, err := storage.NewObjectStore(ctx, storage.Options{
		Endpoint:  cfg.MinIOEndpoint,
		AccessKey: cfg.MinIOAccessKey,
		SecretKey: cfg.MinIOSecretKey,
		Bucket:    cfg.MinIOBucket,
		PublicURL: cfg.MinIOPublicURL,
		UseSSL:    cfg.MinIOUseSSL,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect object storage")
	}

	var completionClient completion.Client
	if cfg.AnthropicAPIKey != "" {
		completionClient, err = completion.NewAnthropicClient(completion.AnthropicOptions{
			APIKey:  cfg.AnthropicAPIKey,
			Model:   cfg.AnthropicModel,
			BaseURL: cfg.AnthropicBaseURL,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to build completion client")
		}
	} else {
		logger.Warn().Msg("ANTHROPIC_API_KEY not set, prompt synthesis disabled")
	}

	images := image.NewStabilityGenerator(image.StabilityOptions{
		APIKey:  cfg.StabilityAPIKey,
		Engine:  cfg.StabilityEngine,
		BaseURL: cfg.StabilityBaseURL,
		Logger:  &logger,
	})

	jobRepo := repo.NewJobRepository(dbpool)
	assetRepo := repo.NewAssetRepository(dbpool)

	runner := jobs.NewRunner(jobs.Options{
		Jobs:           jobRepo,
		Assets:         assetRepo,
		Store:          store,
		Completion:     completionClient,
		Images:         images,
		Logger:         logger,
		Workers:        cfg.JobWorkers,
		QueueSize:      cfg.JobQueueSize,
		IterationDelay: cfg.JobIterationDelay,
		StaleAfter:     cfg.JobStaleAfter,
	})
	runnerCtx, stopRunner := context.WithCancel(ctx)
	runner.Start(runnerCtx)

	checker := domaincheck.NewChecker(domaincheck.Options{
		ResolverURL: cfg.DoHResolverURL,
		TLDs:        cfg.DomainCheckTLDs,
		Logger:      &logger,
	})

	reports := report.NewGenerator(repo.NewReportRepository(dbpool), report.NewBrowser(), logger, cfg.ReportDayWindow)
	defer reports.Close()

	app := &handlers.App{
		Logger:     logger,
		Jobs:       jobRepo,
		Assets:     assetRepo,
		Profiles:   repo.NewBrandProfileRepository(dbpool),
		Names:      repo.NewBrandNameRepository(dbpool),
		Posts:      repo.NewSocialPostRepository(dbpool),
		Completion: completionClient,
		Queue:      runner,
		Blobs:      store,
		Domains:    checker,
		Reports:    reports,
	}

	router := httpapi.NewRouter(app, cfg)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}

	// Stop accepting work, then let in-flight jobs drain.
	stopRunner()
	runner.Wait()
	logger.Info().Msg("server stopped")
}
