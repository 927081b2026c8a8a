package infra

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger returns a JSON logger on stdout tagged with the service name;
// development gets a console writer at debug level.
func NewLogger(appEnv, service string) zerolog.Logger {
	level := zerolog.InfoLevel
	if appEnv == "development" {
		level = zerolog.DebugLevel
	}

	logger := zerolog.New(os.Stdout).
		Level(level).
		With().
		Timestamp().
		Str("service", service).
		Logger()

	if appEnv == "development" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	return logger
}

// Logger is the logger type shared by every package.
type Logger = zerolog.Logger
