package utils

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the process-wide structured logger
var Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// InitLogger sets the global level and output format
func InitLogger(level string, pretty bool) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	if pretty {
		Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
			With().Timestamp().Logger()
		return
	}
	Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}

// Component returns a child logger tagged with a component name
func Component(name string) *zerolog.Logger {
	l := Logger.With().Str("component", name).Logger()
	return &l
}
