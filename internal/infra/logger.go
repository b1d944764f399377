package infra

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

const serviceName = "brandforge"

// NewLogger constructs the service logger: debug-level console output in
// development, info-level JSON everywhere else. Every line carries the
// service name so aggregated logs stay attributable.
func NewLogger(appEnv string) zerolog.Logger {
	level := zerolog.InfoLevel
	if appEnv == "development" {
		level = zerolog.DebugLevel
	}

	logger := zerolog.New(os.Stdout).
		Level(level).
		With().
		Timestamp().
		Str("service", serviceName).
		Logger()

	if appEnv == "development" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	return logger
}

// Logger aliases zerolog.Logger so packages outside infra can name the
// logging contract without importing the third-party module directly.
type Logger = zerolog.Logger
