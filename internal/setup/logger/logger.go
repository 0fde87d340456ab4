// Package logger builds the console logger shared by the binaries.
package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New returns a console logger filtered at the given level. Unknown or
// empty levels fall back to info.
func New(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}
