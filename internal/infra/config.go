package infra

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string
	JWTSecret   string

	DBMaxConns int32
	DBMinConns int32

	AnthropicAPIKey  string
	AnthropicModel   string
	AnthropicBaseURL string

	StabilityAPIKey  string
	StabilityEngine  string
	StabilityBaseURL string

	MinIOEndpoint  string
	MinIOAccessKey string
	MinIOSecretKey string
	MinIOBucket    string
	MinIOPublicURL string
	MinIOUseSSL    bool

	DoHResolverURL  string
	DomainCheckTLDs []string

	JobWorkers        int
	JobQueueSize      int
	JobIterationDelay time.Duration
	JobStaleAfter     time.Duration

	ReportDayWindow int

	HTTPReadTimeout       time.Duration
	HTTPReadHeaderTimeout time.Duration
	HTTPWriteTimeout      time.Duration
	HTTPIdleTimeout       time.Duration
	RateLimitPerMin       int
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:      getEnv("APP_ENV", "development"),
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),

		DBMaxConns: int32(getEnvInt("DB_MAX_CONNS", 10)),
		DBMinConns: int32(getEnvInt("DB_MIN_CONNS", 1)),

		AnthropicAPIKey:  os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicModel:   getEnv("ANTHROPIC_MODEL", "claude-3-5-sonnet-20241022"),
		AnthropicBaseURL: getEnv("ANTHROPIC_BASE_URL", "https://api.anthropic.com"),

		StabilityAPIKey:  os.Getenv("STABILITY_API_KEY"),
		StabilityEngine:  getEnv("STABILITY_ENGINE", "stable-diffusion-xl-1024-v1-0"),
		StabilityBaseURL: getEnv("STABILITY_BASE_URL", "https://api.stability.ai"),

		MinIOEndpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
		MinIOAccessKey: os.Getenv("MINIO_ACCESS_KEY"),
		MinIOSecretKey: os.Getenv("MINIO_SECRET_KEY"),
		MinIOBucket:    getEnv("MINIO_BUCKET", "brand-assets"),
		MinIOPublicURL: os.Getenv("MINIO_PUBLIC_URL"),
		MinIOUseSSL:    getEnv("MINIO_USE_SSL", "false") == "true",

		DoHResolverURL:  getEnv("DOH_RESOLVER_URL", "https://cloudflare-dns.com/dns-query"),
		DomainCheckTLDs: []string{".com", ".net", ".org", ".io", ".co"},

		JobWorkers:        getEnvInt("JOB_WORKERS", 2),
		JobQueueSize:      getEnvInt("JOB_QUEUE_SIZE", 64),
		JobIterationDelay: time.Millisecond * time.Duration(getEnvInt("JOB_ITERATION_DELAY_MS", 1000)),
		JobStaleAfter:     time.Minute * time.Duration(getEnvInt("JOB_STALE_AFTER_MINUTES", 15)),

		ReportDayWindow: getEnvInt("REPORT_DAY_WINDOW", 30),

		HTTPReadTimeout:       time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPReadHeaderTimeout: time.Second * time.Duration(getEnvInt("HTTP_READ_HEADER_TIMEOUT_SECONDS", 5)),
		HTTPWriteTimeout:      time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
		HTTPIdleTimeout:       time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:       getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	if cfg.JobWorkers < 1 {
		cfg.JobWorkers = 1
	}

	if cfg.DBMaxConns < 1 {
		cfg.DBMaxConns = 1
	}
	if cfg.DBMinConns < 0 {
		cfg.DBMinConns = 0
	}
	if cfg.DBMinConns > cfg.DBMaxConns {
		cfg.DBMinConns = cfg.DBMaxConns
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
